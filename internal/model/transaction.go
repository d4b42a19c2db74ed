package model

import (
	"errors"
	"fmt"
	"time"
)

// TransactionStatus is the lifecycle state of a sale.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusVerified  TransactionStatus = "verified"
	StatusCompleted TransactionStatus = "completed"
)

// ErrInvalidTransition is returned for any status change outside the allowed set.
var ErrInvalidTransition = errors.New("invalid transaction status transition")

// transitions holds every allowed move. There are no backward edges and completed is terminal.
var transitions = map[TransactionStatus]TransactionStatus{
	StatusPending:  StatusVerified,
	StatusVerified: StatusCompleted,
}

// ValidateTransition checks that a transaction may move from one status to another.
func ValidateTransition(from, to TransactionStatus) error {
	if next, ok := transitions[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// IsOpen reports whether the status still blocks new offers on the property without
// marking it sold.
func (s TransactionStatus) IsOpen() bool {
	return s == StatusPending || s == StatusVerified
}

// Transaction is a sale of one property from seller to buyer
type Transaction struct {
	ID             int               `json:"id"`
	PropertyID     int               `json:"property_id"`
	BuyerID        int               `json:"buyer_id"`
	SellerID       int               `json:"seller_id"`
	AgentID        *int              `json:"agent_id"` // set on verification
	Amount         float64           `json:"amount"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	VerifiedAt     *time.Time        `json:"verified_at"`
	CompletedAt    *time.Time        `json:"completed_at"`
	BlockchainTxID *string           `json:"blockchain_tx_id"`
}

// TransactionDetail is a transaction joined with the names a dashboard needs
type TransactionDetail struct {
	Transaction
	PropertyTitle    string  `json:"property_title"`
	PropertyLocation string  `json:"property_location"`
	SellerName       string  `json:"seller_name"`
	BuyerName        string  `json:"buyer_name"`
	AgentName        *string `json:"agent_name"`
}

// CreateTransactionRequest is the body of an offer on a property
type CreateTransactionRequest struct {
	PropertyID int     `json:"property_id" binding:"required,gt=0"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// LedgerConfirmation describes the ledger write made when a sale completed
type LedgerConfirmation struct {
	TxHash      string `json:"txHash"`
	BlockNumber int64  `json:"blockNumber"`
	Status      string `json:"status"`
}

// CompletedTransaction is the response of a completed sale
type CompletedTransaction struct {
	Transaction
	BlockchainTransaction LedgerConfirmation `json:"blockchainTransaction"`
}
