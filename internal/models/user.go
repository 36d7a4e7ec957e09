package models

import "time"

// Roles a user can hold. Owners list cars and moderate bookings,
// regular users rent them.
const (
	RoleOwner = "owner"
	RoleUser  = "user"
)

// User is an account that can rent cars and, with the owner role, list them.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
