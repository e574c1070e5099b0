package dto

import (
	"errors"
	"innkeep/internal/domains/room/model"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"strconv"
)

var ErrInvalidPrice = errors.New("price per day must be a positive number")

type CreateRoomRequest struct {
	Number      string `validate:"required,max=20"`
	Name        string `validate:"required,max=160"`
	Description string `validate:"omitempty,max=2000"`
	TypeName    string `validate:"required,max=60"`
	PricePerDay string `validate:"required"`
}

func (c *CreateRoomRequest) ToModel(hotelID int64) (model.Room, error) {
	price, err := strconv.ParseFloat(c.PricePerDay, 64)
	if err != nil || price <= 0 {
		return model.Room{}, ErrInvalidPrice
	}

	return model.Room{
		HotelID:     &hotelID,
		Number:      c.Number,
		Name:        c.Name,
		Description: c.Description,
		TypeName:    c.TypeName,
		PricePerDay: price,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			UpdatedAt: timezone.Now(),
		},
	}, nil
}

type UpdateRoomRequest struct {
	Number      string `db:"number"        validate:"required,max=20"`
	Name        string `db:"name"          validate:"required,max=160"`
	Description string `db:"description"   validate:"omitempty,max=2000"`
	TypeName    string `db:"type_name"     validate:"required,max=60"`
	PricePerDay string `validate:"required"`
}

func (u *UpdateRoomRequest) Price() (float64, error) {
	price, err := strconv.ParseFloat(u.PricePerDay, 64)
	if err != nil || price <= 0 {
		return 0, ErrInvalidPrice
	}

	return price, nil
}

type RoomResponse struct {
	ID          int64
	HotelID     int64
	Number      string
	Name        string
	Description string
	TypeName    string
	PricePerDay float64
}

func (r *RoomResponse) FromModel(mod model.Room) {
	r.ID = mod.ID
	r.Number = mod.Number
	r.Name = mod.Name
	r.Description = mod.Description
	r.TypeName = mod.TypeName
	r.PricePerDay = mod.PricePerDay

	if mod.HotelID != nil {
		r.HotelID = *mod.HotelID
	}
}

type RoomListItemResponse struct {
	ID          int64
	Number      string
	Name        string
	TypeName    string
	PricePerDay float64
	HotelName   string
}

func (r *RoomListItemResponse) FromModel(mod model.RoomListItem) {
	r.ID = mod.ID
	r.Number = mod.Number
	r.Name = mod.Name
	r.TypeName = mod.TypeName
	r.PricePerDay = mod.PricePerDay

	if mod.HotelName != nil {
		r.HotelName = *mod.HotelName
	}
}

type GetRoomsResponse struct {
	Rooms []RoomResponse
	Types []string
}

func (r *GetRoomsResponse) FromModels(models []model.Room) {
	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
