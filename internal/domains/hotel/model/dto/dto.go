package dto

import (
	"innkeep/internal/domains/hotel/model"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

type CreateHotelRequest struct {
	Name        string `validate:"required,max=160"`
	Description string `validate:"omitempty,max=2000"`
	Address     string `validate:"required,max=400"`
}

func (c *CreateHotelRequest) ToModel(organizationID int64) model.Hotel {
	return model.Hotel{
		OrganizationID: organizationID,
		Name:           c.Name,
		Description:    c.Description,
		Address:        c.Address,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			UpdatedAt: timezone.Now(),
		},
	}
}

type HotelResponse struct {
	ID          int64
	Name        string
	Description string
	Address     string
}

func (r *HotelResponse) FromModel(mod model.Hotel) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Description = mod.Description
	r.Address = mod.Address
}

type HotelStatsResponse struct {
	ID           int64
	Name         string
	Address      string
	RoomCount    int
	BookingCount int
}

type DashboardResponse struct {
	Hotels        []HotelStatsResponse
	TotalRooms    int
	TotalBookings int
}

func (r *DashboardResponse) FromModels(models []model.HotelStats) {
	r.Hotels = make([]HotelStatsResponse, len(models))

	for i, mod := range models {
		r.Hotels[i] = HotelStatsResponse{
			ID:           mod.ID,
			Name:         mod.Name,
			Address:      mod.Address,
			RoomCount:    mod.RoomCount,
			BookingCount: mod.BookingCount,
		}
		r.TotalRooms += mod.RoomCount
		r.TotalBookings += mod.BookingCount
	}
}
