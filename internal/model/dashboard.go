package model

import "time"

// Dashboard is the per-role landing data of a signed-in user
type Dashboard struct {
	User                 UserSummary         `json:"user"`
	Stats                interface{}         `json:"stats"`
	RecentTransactions   []TransactionDetail `json:"recentTransactions"`
	Properties           []Property          `json:"properties"`
	PendingVerifications []TransactionDetail `json:"pendingVerifications,omitempty"`
	RecentUsers          []User              `json:"recentUsers,omitempty"`
}

type UserSummary struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type SellerStats struct {
	TotalProperties    int64   `json:"total_properties"`
	VerifiedProperties int64   `json:"verified_properties"`
	TotalListings      int64   `json:"total_listings"`
	SoldProperties     int64   `json:"sold_properties"`
	TotalEarnings      float64 `json:"total_earnings"`
}

type BuyerStats struct {
	TotalOffers        int64   `json:"total_offers"`
	CompletedPurchases int64   `json:"completed_purchases"`
	TotalSpent         float64 `json:"total_spent"`
}

type AgentStats struct {
	TotalVerifications     int64 `json:"total_verifications"`
	PendingCompletion      int64 `json:"pending_completion"`
	CompletedVerifications int64 `json:"completed_verifications"`
}

type AdminStats struct {
	TotalUsers            int64   `json:"total_users"`
	TotalProperties       int64   `json:"total_properties"`
	TotalTransactions     int64   `json:"total_transactions"`
	CompletedTransactions int64   `json:"completed_transactions"`
	TotalVolume           float64 `json:"total_volume"`
}
