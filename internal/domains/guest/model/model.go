package model

import (
	"innkeep/shared/model"
	"strings"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID             = "guest_id"
	FieldUserID         = "user_id"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldMiddleName     = "middle_name"
	FieldPassportNumber = "passport_number"
	FieldEmail          = "email"
	FieldPhone          = "phone"
)

type Guest struct {
	ID             int64  `db:"guest_id"`
	UserID         *int64 `db:"user_id"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	MiddleName     string `db:"middle_name"`
	PassportNumber string `db:"passport_number"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	model.Metadata
}

func (g Guest) FullName() string {
	parts := []string{g.FirstName, g.MiddleName, g.LastName}
	fields := parts[:0]

	for _, part := range parts {
		if part != "" {
			fields = append(fields, part)
		}
	}

	return strings.Join(fields, " ")
}

// OwnedBy reports whether the guest record belongs to the user. Records
// without an owner belong to nobody.
func (g Guest) OwnedBy(userID int64) bool {
	return g.UserID != nil && *g.UserID == userID
}
