package model

import "innkeep/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID             = "hotel_id"
	FieldOrganizationID = "organization_id"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldAddress        = "address"
)

type Hotel struct {
	ID             int64  `db:"hotel_id"`
	OrganizationID int64  `db:"organization_id"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	Address        string `db:"address"`
	model.Metadata
}

// HotelStats is the dashboard read model: one owned hotel with its room and
// booking totals aggregated in a single query.
type HotelStats struct {
	ID           int64  `db:"hotel_id"`
	Name         string `db:"name"`
	Address      string `db:"address"`
	RoomCount    int    `db:"room_count"`
	BookingCount int    `db:"booking_count"`
}
