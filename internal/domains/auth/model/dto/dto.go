package dto

import (
	userModel "innkeep/internal/domains/user/model"
	"innkeep/shared/constant"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"time"
)

type RegisterRequest struct {
	FullName         string `validate:"required,max=120"`
	Phone            string `validate:"required,max=30"`
	Email            string `validate:"required,email"`
	Password         string `validate:"required,min=8"`
	ConfirmPassword  string `validate:"required,eqfield=Password"`
	Kind             string `validate:"required,oneof=user organization"`
	OrganizationName string `validate:"required_if=Kind organization,max=160"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	var orgName *string
	if r.Kind == constant.UserKindOrganization {
		orgName = &r.OrganizationName
	}

	return userModel.User{
		FullName:         r.FullName,
		Phone:            r.Phone,
		Email:            r.Email,
		Password:         hashedPassword,
		Kind:             r.Kind,
		OrganizationName: orgName,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			UpdatedAt: timezone.Now(),
		},
	}
}

type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SessionResponse carries the signed session token the handler stores in the
// browser cookie, plus the account identity used to scope the first render.
type SessionResponse struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
	Kind      string
}

type ProfileResponse struct {
	ID               int64
	FullName         string
	Phone            string
	Email            string
	Kind             string
	OrganizationName string
	gModel.Metadata
}

func (p *ProfileResponse) FromModel(user userModel.User) {
	p.ID = user.ID
	p.FullName = user.FullName
	p.Phone = user.Phone
	p.Email = user.Email
	p.Kind = user.Kind
	p.Metadata = user.Metadata

	if user.OrganizationName != nil {
		p.OrganizationName = *user.OrganizationName
	}
}

func (p ProfileResponse) IsOrganization() bool {
	return p.Kind == constant.UserKindOrganization
}

type UpdateProfileRequest struct {
	FullName         string `db:"full_name"         validate:"required,max=120"`
	Phone            string `db:"phone"             validate:"required,max=30"`
	Email            string `db:"email"             validate:"required,email,max=120"`
	OrganizationName string `db:"organization_name" validate:"omitempty,max=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}
