package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	cmthttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Broadcaster is the slice of the CometBFT RPC client the ledger uses.
type Broadcaster interface {
	BroadcastTxCommit(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTxCommit, error)
}

// CometBFT records transfers as transactions on a CometBFT chain and waits for them to commit.
type CometBFT struct {
	client  Broadcaster
	address string
}

// NewCometBFT wraps an RPC client. address is stored as the record's blockchain address.
func NewCometBFT(client Broadcaster, address string) *CometBFT {
	return &CometBFT{client: client, address: address}
}

// DialCometBFT creates an HTTP RPC client for the node at rpcAddr.
func DialCometBFT(rpcAddr string) (*CometBFT, error) {
	client, err := cmthttp.NewWithClient(rpcAddr, "/websocket", &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "create CometBFT client")
	}
	return NewCometBFT(client, rpcAddr), nil
}

type transferTx struct {
	Type string `json:"type"`
	Transfer
}

func (c *CometBFT) RecordTransfer(ctx context.Context, t Transfer) (*Receipt, error) {
	payload, err := json.Marshal(transferTx{Type: "ownership_transfer", Transfer: t})
	if err != nil {
		return nil, errors.Wrap(err, "encode transfer")
	}

	res, err := c.client.BroadcastTxCommit(ctx, cmttypes.Tx(payload))
	if err != nil {
		return nil, errors.Wrap(err, "broadcast transfer")
	}
	if res.CheckTx.Code != 0 {
		return nil, errors.Wrapf(ErrRejected, "check tx code %d: %s", res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.TxResult.Code != 0 {
		return nil, errors.Wrapf(ErrRejected, "deliver tx code %d: %s", res.TxResult.Code, res.TxResult.Log)
	}

	receipt := &Receipt{
		TxHash:          "0x" + hex.EncodeToString(res.Hash),
		BlockNumber:     res.Height,
		ContractAddress: c.address,
	}
	logrus.WithFields(logrus.Fields{
		"property_id": t.PropertyID,
		"tx_hash":     receipt.TxHash,
		"height":      receipt.BlockNumber,
	}).Info("transfer committed to CometBFT")
	return receipt, nil
}
