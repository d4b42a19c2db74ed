package repository

import (
	"context"
	"fmt"

	"estate_ledger/internal/model"
)

// DashboardRepository computes the per-role dashboard aggregates
type DashboardRepository interface {
	SellerStats(ctx context.Context, sellerID int) (*model.SellerStats, error)
	BuyerStats(ctx context.Context, buyerID int) (*model.BuyerStats, error)
	AgentStats(ctx context.Context, agentID int) (*model.AgentStats, error)
	AdminStats(ctx context.Context) (*model.AdminStats, error)
}

type dashboardRepository struct {
	db DBTX
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db DBTX) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) SellerStats(ctx context.Context, sellerID int) (*model.SellerStats, error) {
	stats := &model.SellerStats{}
	sql := `
        SELECT
            COUNT(*) AS total_properties,
            COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0) AS verified_properties,
            (SELECT COUNT(*) FROM transactions WHERE seller_id = $1) AS total_listings,
            (SELECT COUNT(*) FROM transactions WHERE seller_id = $1 AND status = 'completed') AS sold_properties,
            (SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE seller_id = $1 AND status = 'completed') AS total_earnings
        FROM properties
        WHERE owner_id = $1`
	err := r.db.QueryRow(ctx, sql, sellerID).Scan(&stats.TotalProperties, &stats.VerifiedProperties,
		&stats.TotalListings, &stats.SoldProperties, &stats.TotalEarnings)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller stats: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepository) BuyerStats(ctx context.Context, buyerID int) (*model.BuyerStats, error) {
	stats := &model.BuyerStats{}
	sql := `
        SELECT
            COUNT(*) AS total_offers,
            COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_purchases,
            COALESCE(SUM(CASE WHEN status = 'completed' THEN amount ELSE 0 END), 0) AS total_spent
        FROM transactions
        WHERE buyer_id = $1`
	err := r.db.QueryRow(ctx, sql, buyerID).Scan(&stats.TotalOffers, &stats.CompletedPurchases, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer stats: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepository) AgentStats(ctx context.Context, agentID int) (*model.AgentStats, error) {
	stats := &model.AgentStats{}
	sql := `
        SELECT
            COUNT(*) AS total_verifications,
            COALESCE(SUM(CASE WHEN status = 'verified' THEN 1 ELSE 0 END), 0) AS pending_completion,
            COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_verifications
        FROM transactions
        WHERE agent_id = $1`
	err := r.db.QueryRow(ctx, sql, agentID).Scan(&stats.TotalVerifications, &stats.PendingCompletion, &stats.CompletedVerifications)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent stats: %w", err)
	}
	return stats, nil
}

func (r *dashboardRepository) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	stats := &model.AdminStats{}
	sql := `
        SELECT
            (SELECT COUNT(*) FROM users) AS total_users,
            (SELECT COUNT(*) FROM properties) AS total_properties,
            (SELECT COUNT(*) FROM transactions) AS total_transactions,
            (SELECT COUNT(*) FROM transactions WHERE status = 'completed') AS completed_transactions,
            (SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE status = 'completed') AS total_volume`
	err := r.db.QueryRow(ctx, sql).Scan(&stats.TotalUsers, &stats.TotalProperties, &stats.TotalTransactions,
		&stats.CompletedTransactions, &stats.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return stats, nil
}
