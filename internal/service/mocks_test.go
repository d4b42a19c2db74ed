package service

import (
	"context"
	"testing"
	"time"

	"estate_ledger/internal/ledger"
	"estate_ledger/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) RecordTransfer(ctx context.Context, t ledger.Transfer) (*ledger.Receipt, error) {
	args := m.Called(ctx, t)
	receipt, _ := args.Get(0).(*ledger.Receipt)
	return receipt, args.Error(1)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

var (
	propertyCols    = []string{"id", "owner_id", "title", "description", "location", "price", "is_verified", "blockchain_hash", "created_at", "updated_at"}
	transactionCols = []string{"id", "property_id", "buyer_id", "seller_id", "agent_id", "amount", "status", "created_at", "verified_at", "completed_at", "blockchain_tx_id"}
	userCols        = []string{"id", "name", "email", "password_hash", "role", "created_at"}
)

func propertyRow(id, ownerID int, verified bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(propertyCols).
		AddRow(id, ownerID, "Harbour flat", "Two bedrooms by the river", "Lisbon", 250000.0, verified, nil, now, now)
}

func listingRow(id, ownerID int, verified bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(append(append([]string{}, propertyCols...), "name")).
		AddRow(id, ownerID, "Harbour flat", "Two bedrooms by the river", "Lisbon", 250000.0, verified, nil, now, now, "Sam Seller")
}

type txRow struct {
	id, propertyID, buyerID, sellerID int
	agentID                           *int
	status                            model.TransactionStatus
	txHash                            *string
}

func (r txRow) values() []any {
	now := time.Now()
	var verifiedAt, completedAt *time.Time
	if r.status != model.StatusPending {
		verifiedAt = &now
	}
	if r.status == model.StatusCompleted {
		completedAt = &now
	}
	return []any{r.id, r.propertyID, r.buyerID, r.sellerID, r.agentID, 250000.0, r.status, now, verifiedAt, completedAt, r.txHash}
}

func (r txRow) rows() *pgxmock.Rows {
	return pgxmock.NewRows(transactionCols).AddRow(r.values()...)
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }
