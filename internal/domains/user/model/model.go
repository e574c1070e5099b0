package model

import (
	"innkeep/shared/constant"
	"innkeep/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID               = "user_id"
	FieldFullName         = "full_name"
	FieldPhone            = "phone"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldKind             = "user_type"
	FieldOrganizationName = "organization_name"
)

type User struct {
	ID               int64   `db:"user_id"`
	FullName         string  `db:"full_name"`
	Phone            string  `db:"phone"`
	Email            string  `db:"email"`
	Password         string  `db:"password"`
	Kind             string  `db:"user_type"`
	OrganizationName *string `db:"organization_name"`
	model.Metadata
}

func (u User) IsOrganization() bool {
	return u.Kind == constant.UserKindOrganization
}

// DisplayName prefers the organization name for organization accounts.
func (u User) DisplayName() string {
	if u.IsOrganization() && u.OrganizationName != nil && *u.OrganizationName != "" {
		return *u.OrganizationName
	}

	return u.FullName
}
