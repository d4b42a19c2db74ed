package ledger

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const simulatedMaxBlock = 1_000_000

// Simulated fabricates receipts from random bytes. Nothing leaves the process.
type Simulated struct {
	mu   sync.Mutex
	rand io.Reader
}

// NewSimulated returns a Simulated ledger reading entropy from r, or crypto/rand when r is nil.
func NewSimulated(r io.Reader) *Simulated {
	if r == nil {
		r = rand.Reader
	}
	return &Simulated{rand: r}
}

func (s *Simulated) RecordTransfer(ctx context.Context, t Transfer) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 32 bytes tx hash, 20 bytes contract address, 8 bytes block number
	buf := make([]byte, 60)
	s.mu.Lock()
	_, err := io.ReadFull(s.rand, buf)
	s.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "read entropy")
	}

	receipt := &Receipt{
		TxHash:          "0x" + hex.EncodeToString(buf[:32]),
		ContractAddress: "0x" + hex.EncodeToString(buf[32:52]),
		BlockNumber:     int64(binary.BigEndian.Uint64(buf[52:]) % simulatedMaxBlock),
	}
	logrus.WithFields(logrus.Fields{
		"property_id": t.PropertyID,
		"from":        t.From,
		"to":          t.To,
		"tx_hash":     receipt.TxHash,
		"block":       receipt.BlockNumber,
	}).Debug("simulated ledger transfer")
	return receipt, nil
}
