package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Anything outside it is rejected at parse
// time so it can never reach the access gate.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSalesRep Role = "SALES_REP"
)

// ParseRole converts a stored or transported value into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSalesRep:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Home is the landing path for the role after login.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleSalesRep:
		return "/sales"
	default:
		return "/unauthorized"
	}
}

// User is provisioned by cmd/seeduser and immutable afterwards.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:user_role;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
