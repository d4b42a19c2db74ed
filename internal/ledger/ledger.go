// Package ledger records property ownership transfers on a chain.
//
// The lifecycle manager only depends on the Ledger interface, so the random
// stand-in used in development and a CometBFT-backed chain are interchangeable.
package ledger

import (
	"context"

	"github.com/pkg/errors"
)

// ReceiptStatusConfirmed is reported for every transfer a Ledger accepted.
const ReceiptStatusConfirmed = "confirmed"

// ErrRejected is returned when the chain refuses a transfer.
var ErrRejected = errors.New("ledger rejected transfer")

// Transfer is one ownership change to record.
type Transfer struct {
	TransactionID int     `json:"transaction_id"`
	PropertyID    int     `json:"property_id"`
	TokenID       int     `json:"token_id"`
	From          int     `json:"from"`
	To            int     `json:"to"`
	Amount        float64 `json:"amount"`
}

// Receipt identifies where a transfer landed.
type Receipt struct {
	TxHash          string
	BlockNumber     int64
	ContractAddress string
}

// Ledger appends ownership transfers.
type Ledger interface {
	RecordTransfer(ctx context.Context, t Transfer) (*Receipt, error)
}
