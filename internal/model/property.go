package model

import "time"

// Property is a listing owned by a user. Ownership moves to the buyer when a sale completes.
type Property struct {
	ID             int       `json:"id"`
	OwnerID        int       `json:"owner_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Price          float64   `json:"price"`
	IsVerified     bool      `json:"is_verified"`
	BlockchainHash *string   `json:"blockchain_hash"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PropertyListing is a property together with its owner's display name
type PropertyListing struct {
	Property
	OwnerName string `json:"owner_name"`
}

type CreatePropertyRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Location       string  `json:"location" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	BlockchainHash *string `json:"blockchain_hash"`
}

type UpdatePropertyRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	IsVerified  *bool    `json:"is_verified,omitempty"`
}

// PropertyFilters narrows property listing queries
type PropertyFilters struct {
	Verified *bool
	Location *string // case-insensitive substring
	MinPrice *float64
	MaxPrice *float64
}
