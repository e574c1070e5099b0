package model

// HomeStats backs the landing page counters.
type HomeStats struct {
	RoomCount    int `db:"room_count"`
	GuestCount   int `db:"guest_count"`
	BookingCount int `db:"booking_count"`
}
