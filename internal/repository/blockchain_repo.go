package repository

import (
	"context"
	"fmt"

	"estate_ledger/internal/model"
)

// BlockchainRepository stores the append-only ownership transfer log
type BlockchainRepository interface {
	Insert(ctx context.Context, q DBTX, rec *model.BlockchainRecord) error
	FindByProperty(ctx context.Context, propertyID int) ([]model.BlockchainRecord, error)
}

type blockchainRepository struct {
	db DBTX
}

// NewBlockchainRepository creates a new BlockchainRepository
func NewBlockchainRepository(db DBTX) BlockchainRepository {
	return &blockchainRepository{db: db}
}

func (r *blockchainRepository) Insert(ctx context.Context, q DBTX, rec *model.BlockchainRecord) error {
	sql := `INSERT INTO blockchain_records (property_id, blockchain_address, token_id, previous_owner, new_owner, tx_hash, block_number)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := q.QueryRow(ctx, sql, rec.PropertyID, rec.BlockchainAddress, rec.TokenID, rec.PreviousOwner, rec.NewOwner, rec.TxHash, rec.BlockNumber).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert blockchain record: %w", err)
	}
	return nil
}

// FindByProperty returns a property's transfer history, oldest first
func (r *blockchainRepository) FindByProperty(ctx context.Context, propertyID int) ([]model.BlockchainRecord, error) {
	sql := `SELECT id, property_id, blockchain_address, token_id, previous_owner, new_owner, tx_hash, block_number, created_at
            FROM blockchain_records WHERE property_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, sql, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query blockchain records: %w", err)
	}
	defer rows.Close()

	records := []model.BlockchainRecord{}
	for rows.Next() {
		var rec model.BlockchainRecord
		if err := rows.Scan(&rec.ID, &rec.PropertyID, &rec.BlockchainAddress, &rec.TokenID, &rec.PreviousOwner,
			&rec.NewOwner, &rec.TxHash, &rec.BlockNumber, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blockchain record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blockchain records: %w", err)
	}
	return records, nil
}
