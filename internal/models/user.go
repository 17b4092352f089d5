package models

import "time"

type UserRole string

const (
	RoleSeeker   UserRole = "seeker"
	RoleEmployer UserRole = "employer"
	RoleAdmin    UserRole = "admin"
)

// User mirrors the hosted auth provider's record; identities are never
// created or stored here, only decoded from the bearer token.
type User struct {
	ID           string    `json:"id"` // uuid
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}
