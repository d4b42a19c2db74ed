package service

import (
	"context"
	"fmt"

	"estate_ledger/internal/model"
	"estate_ledger/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// PropertyService manages property listings
type PropertyService interface {
	ListVerified(ctx context.Context, filters model.PropertyFilters) ([]model.PropertyListing, error)
	ListPending(ctx context.Context) ([]model.PropertyListing, error)
	Get(ctx context.Context, id int) (*model.PropertyListing, error)
	Create(ctx context.Context, requester model.Principal, req model.CreatePropertyRequest) (*model.Property, error)
	Update(ctx context.Context, requester model.Principal, id int, req model.UpdatePropertyRequest) (*model.Property, error)
	Delete(ctx context.Context, requester model.Principal, id int) error
	History(ctx context.Context, id int) ([]model.BlockchainRecord, error)
}

type propertyService struct {
	db         repository.TxBeginner
	repo       repository.PropertyRepository
	recordRepo repository.BlockchainRepository
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(db repository.TxBeginner, repo repository.PropertyRepository, recordRepo repository.BlockchainRepository) PropertyService {
	return &propertyService{db: db, repo: repo, recordRepo: recordRepo}
}

// ListVerified returns the public catalogue. Unverified listings never show up here.
func (s *propertyService) ListVerified(ctx context.Context, filters model.PropertyFilters) ([]model.PropertyListing, error) {
	verified := true
	filters.Verified = &verified
	listings, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified properties: %w", err)
	}
	return listings, nil
}

// ListPending returns listings still waiting for an admin to verify them
func (s *propertyService) ListPending(ctx context.Context) ([]model.PropertyListing, error) {
	verified := false
	listings, err := s.repo.FindAll(ctx, model.PropertyFilters{Verified: &verified})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending properties: %w", err)
	}
	return listings, nil
}

func (s *propertyService) Get(ctx context.Context, id int) (*model.PropertyListing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	if listing == nil {
		return nil, ErrPropertyNotFound
	}
	return listing, nil
}

func (s *propertyService) Create(ctx context.Context, requester model.Principal, req model.CreatePropertyRequest) (*model.Property, error) {
	if requester.Role != model.RoleSeller {
		return nil, ErrNotAuthorizedToList
	}

	property := &model.Property{
		OwnerID:        requester.ID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Price:          req.Price,
		BlockchainHash: req.BlockchainHash,
		IsVerified:     false,
	}
	if err := s.repo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property in repo: %w", err)
	}
	logrus.WithFields(logrus.Fields{"property_id": property.ID, "owner_id": property.OwnerID}).Info("Property listed")
	return property, nil
}

// Update applies the fields present in req. Only an admin may change the verified flag;
// for the owner it is ignored. The row stays locked between read and write so a
// concurrent verification is never overwritten with a stale flag.
func (s *propertyService) Update(ctx context.Context, requester model.Principal, id int, req model.UpdatePropertyRequest) (*model.Property, error) {
	isAdmin := requester.Role == model.RoleAdmin

	var updated *model.Property
	var wasVerified bool
	err := repository.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		property, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if property == nil {
			return ErrPropertyNotFound
		}
		if property.OwnerID != requester.ID && !isAdmin {
			return ErrNotAuthorizedToUpdate
		}
		wasVerified = property.IsVerified

		if req.Title != nil && *req.Title != "" {
			property.Title = *req.Title
		}
		if req.Description != nil && *req.Description != "" {
			property.Description = *req.Description
		}
		if req.Location != nil && *req.Location != "" {
			property.Location = *req.Location
		}
		if req.Price != nil {
			property.Price = *req.Price
		}
		if req.IsVerified != nil && isAdmin {
			property.IsVerified = *req.IsVerified
		}

		if err := s.repo.Update(ctx, tx, property); err != nil {
			return err
		}
		updated = property
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.IsVerified != wasVerified {
		logrus.WithFields(logrus.Fields{"property_id": id, "verified": updated.IsVerified}).Info("Property verification changed")
	}
	return updated, nil
}

// Delete removes the property along with its transactions and ledger records
func (s *propertyService) Delete(ctx context.Context, requester model.Principal, id int) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find property for deletion: %w", err)
	}
	if listing == nil {
		return ErrPropertyNotFound
	}
	if listing.OwnerID != requester.ID && requester.Role != model.RoleAdmin {
		return ErrNotAuthorizedToDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property in repo: %w", err)
	}
	logrus.WithFields(logrus.Fields{"property_id": id, "by": requester.ID}).Info("Property removed")
	return nil
}

// History returns the ownership transfers recorded for a property, oldest first
func (s *propertyService) History(ctx context.Context, id int) ([]model.BlockchainRecord, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find property for history: %w", err)
	}
	if listing == nil {
		return nil, ErrPropertyNotFound
	}
	records, err := s.recordRepo.FindByProperty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property history: %w", err)
	}
	return records, nil
}
