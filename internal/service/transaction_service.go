package service

import (
	"context"
	"errors"
	"fmt"

	"estate_ledger/internal/ledger"
	"estate_ledger/internal/model"
	"estate_ledger/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// TransactionService drives a sale through pending, verified and completed.
// Every state-changing call runs in one database transaction and locks the rows it
// decides on, so concurrent requests on the same property or sale are serialized by
// PostgreSQL.
type TransactionService interface {
	Create(ctx context.Context, requester model.Principal, req model.CreateTransactionRequest) (*model.Transaction, error)
	Verify(ctx context.Context, requester model.Principal, id int) (*model.Transaction, error)
	Complete(ctx context.Context, requester model.Principal, id int) (*model.CompletedTransaction, error)
	ListForUser(ctx context.Context, requester model.Principal) ([]model.TransactionDetail, error)
	Get(ctx context.Context, requester model.Principal, id int) (*model.TransactionDetail, error)
}

type transactionService struct {
	db           repository.TxBeginner
	txRepo       repository.TransactionRepository
	propertyRepo repository.PropertyRepository
	recordRepo   repository.BlockchainRepository
	ledger       ledger.Ledger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	db repository.TxBeginner,
	txRepo repository.TransactionRepository,
	propertyRepo repository.PropertyRepository,
	recordRepo repository.BlockchainRepository,
	l ledger.Ledger,
) TransactionService {
	return &transactionService{
		db:           db,
		txRepo:       txRepo,
		propertyRepo: propertyRepo,
		recordRepo:   recordRepo,
		ledger:       l,
	}
}

// availability maps the statuses already present on a property to the reason a new
// offer is refused, or nil when the property is free.
func availability(statuses []model.TransactionStatus) error {
	var pending, verified bool
	for _, s := range statuses {
		switch s {
		case model.StatusCompleted:
			return ErrPropertyAlreadySold
		case model.StatusPending:
			pending = true
		case model.StatusVerified:
			verified = true
		}
	}
	if pending {
		return ErrPendingTransactionExists
	}
	if verified {
		return ErrTransactionInProgress
	}
	return nil
}

// Create opens a pending offer by a buyer on a verified property
func (s *transactionService) Create(ctx context.Context, requester model.Principal, req model.CreateTransactionRequest) (*model.Transaction, error) {
	if requester.Role != model.RoleBuyer {
		return nil, ErrOnlyBuyersCanInitiate
	}

	var created *model.Transaction
	err := repository.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		property, err := s.propertyRepo.LockVerified(ctx, tx, req.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return ErrPropertyNotAvailable
		}

		statuses, err := s.txRepo.StatusesForProperty(ctx, tx, property.ID)
		if err != nil {
			return err
		}
		if err := availability(statuses); err != nil {
			return err
		}
		if property.OwnerID == requester.ID {
			return ErrCannotBuyOwnProperty
		}

		t := &model.Transaction{
			PropertyID: property.ID,
			BuyerID:    requester.ID,
			SellerID:   property.OwnerID,
			Amount:     req.Amount,
			Status:     model.StatusPending,
		}
		if err := s.txRepo.Insert(ctx, tx, t); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": created.ID,
		"property_id":    created.PropertyID,
		"buyer_id":       created.BuyerID,
	}).Info("Transaction created")
	return created, nil
}

// Verify assigns the calling agent to a pending transaction and marks it verified
func (s *transactionService) Verify(ctx context.Context, requester model.Principal, id int) (*model.Transaction, error) {
	if requester.Role != model.RoleAgent {
		return nil, ErrOnlyAgentsCanVerify
	}

	var verified *model.Transaction
	err := repository.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		t, err := s.txRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrTransactionNotFound
		}
		if err := model.ValidateTransition(t.Status, model.StatusVerified); err != nil {
			return ErrOnlyPendingVerifiable
		}

		verified, err = s.txRepo.MarkVerified(ctx, tx, id, requester.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": id,
		"property_id":    verified.PropertyID,
		"agent_id":       requester.ID,
	}).Info("Transaction verified")
	return verified, nil
}

// Complete records the ownership transfer on the ledger and, in the same database
// transaction, logs the record, hands the property to the buyer and closes the sale.
func (s *transactionService) Complete(ctx context.Context, requester model.Principal, id int) (*model.CompletedTransaction, error) {
	if requester.Role != model.RoleAgent {
		return nil, ErrOnlyAgentsCanComplete
	}

	var result *model.CompletedTransaction
	err := repository.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		d, err := s.txRepo.LockWithProperty(ctx, tx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrTransactionNotFound
		}
		if err := model.ValidateTransition(d.Status, model.StatusCompleted); err != nil {
			return ErrOnlyVerifiedCompletable
		}

		// the property id doubles as the token id of the deed
		receipt, err := s.ledger.RecordTransfer(ctx, ledger.Transfer{
			TransactionID: d.ID,
			PropertyID:    d.PropertyID,
			TokenID:       d.PropertyID,
			From:          d.SellerID,
			To:            d.BuyerID,
			Amount:        d.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to record ownership transfer: %w", err)
		}

		rec := &model.BlockchainRecord{
			PropertyID:        d.PropertyID,
			BlockchainAddress: receipt.ContractAddress,
			TokenID:           d.PropertyID,
			PreviousOwner:     d.SellerID,
			NewOwner:          d.BuyerID,
			TxHash:            receipt.TxHash,
			BlockNumber:       receipt.BlockNumber,
		}
		if err := s.recordRepo.Insert(ctx, tx, rec); err != nil {
			return err
		}
		if err := s.propertyRepo.TransferOwnership(ctx, tx, d.PropertyID, d.BuyerID); err != nil {
			return err
		}
		completed, err := s.txRepo.MarkCompleted(ctx, tx, id, receipt.TxHash)
		if err != nil {
			return err
		}

		result = &model.CompletedTransaction{
			Transaction: *completed,
			BlockchainTransaction: model.LedgerConfirmation{
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Status:      ledger.ReceiptStatusConfirmed,
			},
		}
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); !ok && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).WithField("transaction_id", id).Error("Transaction completion rolled back")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": id,
		"property_id":    result.PropertyID,
		"new_owner":      result.BuyerID,
		"tx_hash":        result.BlockchainTransaction.TxHash,
		"block":          result.BlockchainTransaction.BlockNumber,
	}).Info("Transaction completed")
	return result, nil
}

// ListForUser lists the transactions the requester takes part in, newest first
func (s *transactionService) ListForUser(ctx context.Context, requester model.Principal) ([]model.TransactionDetail, error) {
	details, err := s.txRepo.FindDetailsByParticipant(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user transactions: %w", err)
	}
	return details, nil
}

// Get returns one transaction to a party of it or to an admin
func (s *transactionService) Get(ctx context.Context, requester model.Principal, id int) (*model.TransactionDetail, error) {
	d, err := s.txRepo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if d == nil {
		return nil, ErrTransactionNotFound
	}
	if requester.Role == model.RoleAdmin {
		return d, nil
	}
	if d.BuyerID == requester.ID || d.SellerID == requester.ID || (d.AgentID != nil && *d.AgentID == requester.ID) {
		return d, nil
	}
	return nil, ErrNotTransactionParty
}
