package dto

import (
	"innkeep/internal/domains/guest/model"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

type CreateGuestRequest struct {
	FirstName      string `validate:"required,max=100"`
	LastName       string `validate:"required,max=100"`
	MiddleName     string `validate:"omitempty,max=100"`
	PassportNumber string `validate:"required,max=40"`
	Email          string `validate:"omitempty,email,max=120"`
	Phone          string `validate:"required,max=30"`
}

func (c *CreateGuestRequest) ToModel(userID *int64) model.Guest {
	return model.Guest{
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

type GuestResponse struct {
	ID             int64
	FullName       string
	FirstName      string
	LastName       string
	MiddleName     string
	PassportNumber string
	Email          string
	Phone          string
}

func (r *GuestResponse) FromModel(mod model.Guest) {
	r.ID = mod.ID
	r.FullName = mod.FullName()
	r.FirstName = mod.FirstName
	r.LastName = mod.LastName
	r.MiddleName = mod.MiddleName
	r.PassportNumber = mod.PassportNumber
	r.Email = mod.Email
	r.Phone = mod.Phone
}

type GetGuestsResponse struct {
	Guests []GuestResponse
	Search string
}

func (r *GetGuestsResponse) FromModels(models []model.Guest) {
	r.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		r.Guests[i].FromModel(mod)
	}
}
