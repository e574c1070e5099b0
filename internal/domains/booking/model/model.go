package model

import (
	"innkeep/shared/constant"
	"innkeep/shared/model"
	"math"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "booking_id"
	FieldGuestID         = "guest_id"
	FieldRoomID          = "room_id"
	FieldCheckIn         = "check_in_date"
	FieldCheckOut        = "check_out_date"
	FieldAdults          = "adults_count"
	FieldChildren        = "children_count"
	FieldTotalPrice      = "total_price"
	FieldSpecialRequests = "special_requests"
)

type Booking struct {
	ID              int64   `db:"booking_id"`
	GuestID         int64   `db:"guest_id"`
	RoomID          int64   `db:"room_id"`
	CheckIn         string  `db:"check_in_date"`
	CheckOut        string  `db:"check_out_date"`
	Adults          int     `db:"adults_count"`
	Children        int     `db:"children_count"`
	TotalPrice      float64 `db:"total_price"`
	SpecialRequests string  `db:"special_requests"`
	model.Metadata
}

// Overlaps reports whether two half-open stay intervals [aIn, aOut) and
// [bIn, bOut) share at least one night. Dates are zero-padded YYYY-MM-DD
// strings, so string comparison is date comparison. Back-to-back stays where
// one check-out equals the other check-in do not overlap.
func Overlaps(aIn, aOut, bIn, bOut string) bool {
	return aIn < bOut && aOut > bIn
}

// StayDays returns the number of billable nights between check-in and
// check-out, never less than one.
func StayDays(checkIn, checkOut string) int {
	in, errIn := time.Parse(constant.StayDateFormat, checkIn)
	out, errOut := time.Parse(constant.StayDateFormat, checkOut)

	if errIn != nil || errOut != nil {
		return 1
	}

	days := int(math.Ceil(out.Sub(in).Hours() / 24))
	if days < 1 {
		days = 1
	}

	return days
}

// TotalPrice is the exact product of the nightly rate and the night count.
// Rounding to two decimals happens only at render time.
func TotalPrice(pricePerDay float64, days int) float64 {
	return pricePerDay * float64(days)
}

// BookingListItem joins each booking to its guest, room and (through the
// room) hotel, so listings and authorization decisions need a single row.
type BookingListItem struct {
	ID                  int64   `db:"booking_id"`
	GuestID             int64   `db:"guest_id"`
	RoomID              int64   `db:"room_id"`
	CheckIn             string  `db:"check_in_date"`
	CheckOut            string  `db:"check_out_date"`
	Adults              int     `db:"adults_count"`
	Children            int     `db:"children_count"`
	TotalPrice          float64 `db:"total_price"`
	SpecialRequests     string  `db:"special_requests"`
	GuestFirstName      string  `db:"guest_first_name"      table:"guests" column:"first_name"`
	GuestLastName       string  `db:"guest_last_name"       table:"guests" column:"last_name"`
	GuestPhone          string  `db:"guest_phone"           table:"guests" column:"phone"`
	GuestOwnerID        *int64  `db:"guest_owner_id"        table:"guests" column:"user_id"`
	RoomNumber          string  `db:"room_number"           table:"rooms"  column:"number"`
	RoomName            string  `db:"room_name"             table:"rooms"  column:"name"`
	HotelName           *string `db:"hotel_name"            table:"hotels" column:"name"`
	HotelOrganizationID *int64  `db:"hotel_organization_id" table:"hotels" column:"organization_id"`
}

func (BookingListItem) GetJoinQuery() string {
	return "JOIN guests ON guests.guest_id = bookings.guest_id " +
		"JOIN rooms ON rooms.room_id = bookings.room_id " +
		"LEFT JOIN hotels ON hotels.hotel_id = rooms.hotel_id"
}

func (b BookingListItem) GuestOwnedBy(userID int64) bool {
	return b.GuestOwnerID != nil && *b.GuestOwnerID == userID
}

func (b BookingListItem) HotelOwnedBy(organizationID int64) bool {
	return b.HotelOrganizationID != nil && *b.HotelOrganizationID == organizationID
}

func (b BookingListItem) GuestName() string {
	if b.GuestFirstName == "" {
		return b.GuestLastName
	}

	if b.GuestLastName == "" {
		return b.GuestFirstName
	}

	return b.GuestFirstName + " " + b.GuestLastName
}
