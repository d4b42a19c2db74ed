package repository

import (
	"context"
	"errors"
	"fmt"

	"estate_ledger/internal/model"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `t.id, t.property_id, t.buyer_id, t.seller_id, t.agent_id, t.amount, t.status, t.created_at, t.verified_at, t.completed_at, t.blockchain_tx_id`

const transactionDetailQuery = `SELECT ` + transactionColumns + `, p.title, p.location, seller.name, buyer.name, agent.name
            FROM transactions t
            JOIN properties p ON t.property_id = p.id
            JOIN users seller ON t.seller_id = seller.id
            JOIN users buyer ON t.buyer_id = buyer.id
            LEFT JOIN users agent ON t.agent_id = agent.id`

// TransactionRepository defines operations for sale transactions.
// Methods taking a DBTX run on that handle so the lifecycle manager can group them
// into one database transaction.
type TransactionRepository interface {
	StatusesForProperty(ctx context.Context, q DBTX, propertyID int) ([]model.TransactionStatus, error)
	Insert(ctx context.Context, q DBTX, t *model.Transaction) error
	LockByID(ctx context.Context, q DBTX, id int) (*model.Transaction, error)
	LockWithProperty(ctx context.Context, q DBTX, id int) (*model.TransactionDetail, error)
	MarkVerified(ctx context.Context, q DBTX, id, agentID int) (*model.Transaction, error)
	MarkCompleted(ctx context.Context, q DBTX, id int, blockchainTxID string) (*model.Transaction, error)

	FindDetailByID(ctx context.Context, id int) (*model.TransactionDetail, error)
	FindDetailsByParticipant(ctx context.Context, userID int) ([]model.TransactionDetail, error)
	FindPendingUnassigned(ctx context.Context) ([]model.TransactionDetail, error)
	FindRecent(ctx context.Context, limit int) ([]model.TransactionDetail, error)
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

func transactionFields(t *model.Transaction) []any {
	return []any{&t.ID, &t.PropertyID, &t.BuyerID, &t.SellerID, &t.AgentID, &t.Amount, &t.Status, &t.CreatedAt, &t.VerifiedAt, &t.CompletedAt, &t.BlockchainTxID}
}

func detailFields(d *model.TransactionDetail) []any {
	return append(transactionFields(&d.Transaction), &d.PropertyTitle, &d.PropertyLocation, &d.SellerName, &d.BuyerName, &d.AgentName)
}

// StatusesForProperty returns the distinct statuses of every transaction on a property
func (r *transactionRepository) StatusesForProperty(ctx context.Context, q DBTX, propertyID int) ([]model.TransactionStatus, error) {
	rows, err := q.Query(ctx, `SELECT DISTINCT status FROM transactions WHERE property_id = $1`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction statuses: %w", err)
	}
	defer rows.Close()

	var statuses []model.TransactionStatus
	for rows.Next() {
		var s model.TransactionStatus
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan transaction status: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction statuses: %w", err)
	}
	return statuses, nil
}

// Insert creates a transaction and fills in the generated columns
func (r *transactionRepository) Insert(ctx context.Context, q DBTX, t *model.Transaction) error {
	sql := `INSERT INTO transactions AS t (property_id, buyer_id, seller_id, amount, status)
            VALUES ($1, $2, $3, $4, $5) RETURNING ` + transactionColumns
	err := q.QueryRow(ctx, sql, t.PropertyID, t.BuyerID, t.SellerID, t.Amount, t.Status).Scan(transactionFields(t)...)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// LockByID selects a transaction FOR UPDATE, or nil when there is none
func (r *transactionRepository) LockByID(ctx context.Context, q DBTX, id int) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1 FOR UPDATE`
	if err := q.QueryRow(ctx, sql, id).Scan(transactionFields(t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return t, nil
}

// LockWithProperty selects a transaction and its property FOR UPDATE. Only the
// property title and location of the detail are filled in.
func (r *transactionRepository) LockWithProperty(ctx context.Context, q DBTX, id int) (*model.TransactionDetail, error) {
	d := &model.TransactionDetail{}
	sql := `SELECT ` + transactionColumns + `, p.title, p.location
            FROM transactions t JOIN properties p ON t.property_id = p.id
            WHERE t.id = $1 FOR UPDATE`
	fields := append(transactionFields(&d.Transaction), &d.PropertyTitle, &d.PropertyLocation)
	if err := q.QueryRow(ctx, sql, id).Scan(fields...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock transaction with property: %w", err)
	}
	return d, nil
}

// MarkVerified assigns the agent and moves the transaction to verified
func (r *transactionRepository) MarkVerified(ctx context.Context, q DBTX, id, agentID int) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `UPDATE transactions t SET status = $1, agent_id = $2, verified_at = NOW()
            WHERE t.id = $3 RETURNING ` + transactionColumns
	if err := q.QueryRow(ctx, sql, model.StatusVerified, agentID, id).Scan(transactionFields(t)...); err != nil {
		return nil, fmt.Errorf("failed to mark transaction verified: %w", err)
	}
	return t, nil
}

// MarkCompleted closes the transaction and stores the ledger transaction id
func (r *transactionRepository) MarkCompleted(ctx context.Context, q DBTX, id int, blockchainTxID string) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `UPDATE transactions t SET status = $1, completed_at = NOW(), blockchain_tx_id = $2
            WHERE t.id = $3 RETURNING ` + transactionColumns
	if err := q.QueryRow(ctx, sql, model.StatusCompleted, blockchainTxID, id).Scan(transactionFields(t)...); err != nil {
		return nil, fmt.Errorf("failed to mark transaction completed: %w", err)
	}
	return t, nil
}

// FindDetailByID retrieves one transaction with names, or nil when there is none
func (r *transactionRepository) FindDetailByID(ctx context.Context, id int) (*model.TransactionDetail, error) {
	d := &model.TransactionDetail{}
	if err := r.db.QueryRow(ctx, transactionDetailQuery+` WHERE t.id = $1`, id).Scan(detailFields(d)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return d, nil
}

// FindDetailsByParticipant lists transactions where the user is buyer, seller or agent
func (r *transactionRepository) FindDetailsByParticipant(ctx context.Context, userID int) ([]model.TransactionDetail, error) {
	return r.queryDetails(ctx, transactionDetailQuery+`
            WHERE t.buyer_id = $1 OR t.seller_id = $1 OR t.agent_id = $1
            ORDER BY t.created_at DESC`, userID)
}

// FindPendingUnassigned lists pending transactions no agent has picked up
func (r *transactionRepository) FindPendingUnassigned(ctx context.Context) ([]model.TransactionDetail, error) {
	return r.queryDetails(ctx, transactionDetailQuery+`
            WHERE t.status = $1 AND t.agent_id IS NULL
            ORDER BY t.created_at DESC`, model.StatusPending)
}

// FindRecent lists the newest transactions across the platform
func (r *transactionRepository) FindRecent(ctx context.Context, limit int) ([]model.TransactionDetail, error) {
	return r.queryDetails(ctx, transactionDetailQuery+` ORDER BY t.created_at DESC LIMIT $1`, limit)
}

func (r *transactionRepository) queryDetails(ctx context.Context, sql string, args ...any) ([]model.TransactionDetail, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	details := []model.TransactionDetail{}
	for rows.Next() {
		var d model.TransactionDetail
		if err := rows.Scan(detailFields(&d)...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return details, nil
}
