package dto

import (
	"innkeep/internal/domains/booking/model"
	guestModel "innkeep/internal/domains/guest/model"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"strconv"
)

type CreateBookingRequest struct {
	RoomID          string `validate:"required"`
	CheckIn         string `validate:"required,datetime=2006-01-02"`
	CheckOut        string `validate:"required,datetime=2006-01-02"`
	GuestID         string `validate:"omitempty"`
	FirstName       string `validate:"required_without=GuestID,max=100"`
	LastName        string `validate:"required_without=GuestID,max=100"`
	MiddleName      string `validate:"omitempty,max=100"`
	PassportNumber  string `validate:"required_without=GuestID,max=40"`
	Email           string `validate:"omitempty,email,max=120"`
	Phone           string `validate:"required_without=GuestID,max=30"`
	Adults          string `validate:"omitempty"`
	Children        string `validate:"omitempty"`
	SpecialRequests string `validate:"omitempty,max=2000"`
}

func (c *CreateBookingRequest) ToGuestModel(userID *int64) guestModel.Guest {
	return guestModel.Guest{
		UserID:         userID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		MiddleName:     c.MiddleName,
		PassportNumber: c.PassportNumber,
		Email:          c.Email,
		Phone:          c.Phone,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			UpdatedAt: timezone.Now(),
		},
	}
}

func (c *CreateBookingRequest) AdultsCount() int {
	return clampCount(c.Adults, 1, 1)
}

func (c *CreateBookingRequest) ChildrenCount() int {
	return clampCount(c.Children, 0, 0)
}

type UpdateBookingRequest struct {
	RoomID          string `validate:"required"`
	CheckIn         string `validate:"required,datetime=2006-01-02"`
	CheckOut        string `validate:"required,datetime=2006-01-02"`
	Adults          string `validate:"omitempty"`
	Children        string `validate:"omitempty"`
	SpecialRequests string `validate:"omitempty,max=2000"`
}

func (u *UpdateBookingRequest) AdultsCount() int {
	return clampCount(u.Adults, 1, 1)
}

func (u *UpdateBookingRequest) ChildrenCount() int {
	return clampCount(u.Children, 0, 0)
}

// clampCount parses a form count, falling back to def when absent or
// unparseable and never returning less than min.
func clampCount(value string, def, min int) int {
	if value == "" {
		return def
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return def
	}

	if count < min {
		return min
	}

	return count
}

type BookingResponse struct {
	ID              int64
	GuestName       string
	GuestPhone      string
	RoomID          int64
	RoomNumber      string
	RoomName        string
	HotelName       string
	CheckIn         string
	CheckOut        string
	Days            int
	Adults          int
	Children        int
	TotalPrice      float64
	SpecialRequests string
	CanEdit         bool
	CanCancel       bool
}

func (r *BookingResponse) FromModel(item model.BookingListItem) {
	r.ID = item.ID
	r.GuestName = item.GuestName()
	r.GuestPhone = item.GuestPhone
	r.RoomID = item.RoomID
	r.RoomNumber = item.RoomNumber
	r.RoomName = item.RoomName
	r.CheckIn = item.CheckIn
	r.CheckOut = item.CheckOut
	r.Days = model.StayDays(item.CheckIn, item.CheckOut)
	r.Adults = item.Adults
	r.Children = item.Children
	r.TotalPrice = item.TotalPrice
	r.SpecialRequests = item.SpecialRequests

	if item.HotelName != nil {
		r.HotelName = *item.HotelName
	}
}

type GetBookingsResponse struct {
	Bookings []BookingResponse
	Search   string
}

func (r *GetBookingsResponse) FromModels(items []model.BookingListItem) {
	r.Bookings = make([]BookingResponse, len(items))
	for i, item := range items {
		r.Bookings[i].FromModel(item)
	}
}
