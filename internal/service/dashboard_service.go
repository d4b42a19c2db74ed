package service

import (
	"context"
	"fmt"

	"estate_ledger/internal/model"
	"estate_ledger/internal/repository"
)

const (
	adminRecentTransactions = 10
	adminRecentUsers        = 5
)

// DashboardService assembles the landing data of a signed-in user
type DashboardService interface {
	Get(ctx context.Context, requester model.Principal) (*model.Dashboard, error)
}

type dashboardService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	txRepo       repository.TransactionRepository
	statsRepo    repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	txRepo repository.TransactionRepository,
	statsRepo repository.DashboardRepository,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		txRepo:       txRepo,
		statsRepo:    statsRepo,
	}
}

func (s *dashboardService) Get(ctx context.Context, requester model.Principal) (*model.Dashboard, error) {
	user, err := s.userRepo.FindByID(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	dash := &model.Dashboard{
		User: model.UserSummary{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
		Stats:              struct{}{},
		RecentTransactions: []model.TransactionDetail{},
		Properties:         []model.Property{},
	}

	switch user.Role {
	case model.RoleSeller:
		if dash.Properties, err = s.propertyRepo.FindByOwner(ctx, user.ID); err != nil {
			return nil, err
		}
		stats, err := s.statsRepo.SellerStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dash.Stats = stats
	case model.RoleBuyer:
		stats, err := s.statsRepo.BuyerStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dash.Stats = stats
	case model.RoleAgent:
		stats, err := s.statsRepo.AgentStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dash.Stats = stats
		if dash.PendingVerifications, err = s.txRepo.FindPendingUnassigned(ctx); err != nil {
			return nil, err
		}
	case model.RoleAdmin:
		stats, err := s.statsRepo.AdminStats(ctx)
		if err != nil {
			return nil, err
		}
		dash.Stats = stats
		if dash.RecentTransactions, err = s.txRepo.FindRecent(ctx, adminRecentTransactions); err != nil {
			return nil, err
		}
		if dash.RecentUsers, err = s.userRepo.FindRecent(ctx, adminRecentUsers); err != nil {
			return nil, err
		}
	}
	return dash, nil
}
