package model

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAgent  = "agent"
	RoleAdmin  = "admin"
)

// Roles lists every role a user can register with.
var Roles = []string{RoleBuyer, RoleSeller, RoleAgent, RoleAdmin}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account on the platform
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID   int
	Role string
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
