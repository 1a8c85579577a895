package model

import (
	"time"
)

// Role is a closed enumeration. Keeping it typed means a route or policy
// check cannot ask for a role that does not exist.
type Role string

const (
	RoleRegular Role = "regular"
	RoleOwner   Role = "owner"
)

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleOwner
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity is the authenticated caller, rebuilt on every request from the
// stored user record rather than from token claims alone.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
