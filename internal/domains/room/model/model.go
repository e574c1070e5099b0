package model

import "innkeep/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "room_id"
	FieldHotelID     = "hotel_id"
	FieldNumber      = "number"
	FieldName        = "name"
	FieldDescription = "description"
	FieldTypeName    = "type_name"
	FieldPricePerDay = "price_per_day"
)

type Room struct {
	ID          int64   `db:"room_id"`
	HotelID     *int64  `db:"hotel_id"`
	Number      string  `db:"number"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	TypeName    string  `db:"type_name"`
	PricePerDay float64 `db:"price_per_day"`
	model.Metadata
}

// RoomListItem joins each room to its owning hotel so listings and ownership
// checks resolve from a single row. Rooms without a hotel keep nil hotel
// columns and belong to no organization.
type RoomListItem struct {
	ID                  int64   `db:"room_id"`
	Number              string  `db:"number"`
	Name                string  `db:"name"`
	TypeName            string  `db:"type_name"`
	PricePerDay         float64 `db:"price_per_day"`
	HotelID             *int64  `db:"hotel_id"`
	HotelName           *string `db:"hotel_name"            table:"hotels" column:"name"`
	HotelOrganizationID *int64  `db:"hotel_organization_id" table:"hotels" column:"organization_id"`
}

func (RoomListItem) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.hotel_id = rooms.hotel_id"
}

// OwnedBy reports whether the room's hotel belongs to the organization.
func (r RoomListItem) OwnedBy(organizationID int64) bool {
	return r.HotelOrganizationID != nil && *r.HotelOrganizationID == organizationID
}
