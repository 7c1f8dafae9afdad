package client

import (
	"github.com/tutorhub/console/internal/dates"
	"github.com/tutorhub/console/internal/pagination"
)

// User is a platform account.
type User struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phoneNumber,omitempty"`
	RoleName  string         `json:"roleName"`
	Roles     []Role         `json:"roles,omitempty"`
	Active    bool           `json:"active"`
	CreatedAt dates.DateTime `json:"createdAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Filter narrows a user search. Zero fields are not sent.
type Filter struct {
	RoleName     string
	ActiveStatus *bool
	SearchTerm   string
}

func (f Filter) filters() pagination.Filters {
	return pagination.Filters{
		"roleName":     f.RoleName,
		"activeStatus": f.ActiveStatus,
		"searchTerm":   f.SearchTerm,
	}
}

// CreateUserRequest registers a new account. ConfirmPassword is checked locally
// and never sent.
type CreateUserRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
	RoleName        string `json:"roleName" validate:"required,role_name"`
}

// Role is an authorization role.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateRoleRequest defines a new role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,role_name"`
	Description string `json:"description,omitempty" validate:"max=255"`
}

// AssignRoleRequest grants a role to a user.
type AssignRoleRequest struct {
	UserID int64 `json:"userId" validate:"gt=0"`
	RoleID int64 `json:"roleId" validate:"gt=0"`
}
