package handler

import (
	"context"

	"estate_ledger/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockTransactionService struct{ mock.Mock }

func (m *mockTransactionService) Create(ctx context.Context, p model.Principal, req model.CreateTransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p, req)
	t, _ := args.Get(0).(*model.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) Verify(ctx context.Context, p model.Principal, id int) (*model.Transaction, error) {
	args := m.Called(ctx, p, id)
	t, _ := args.Get(0).(*model.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) Complete(ctx context.Context, p model.Principal, id int) (*model.CompletedTransaction, error) {
	args := m.Called(ctx, p, id)
	t, _ := args.Get(0).(*model.CompletedTransaction)
	return t, args.Error(1)
}

func (m *mockTransactionService) ListForUser(ctx context.Context, p model.Principal) ([]model.TransactionDetail, error) {
	args := m.Called(ctx, p)
	d, _ := args.Get(0).([]model.TransactionDetail)
	return d, args.Error(1)
}

func (m *mockTransactionService) Get(ctx context.Context, p model.Principal, id int) (*model.TransactionDetail, error) {
	args := m.Called(ctx, p, id)
	d, _ := args.Get(0).(*model.TransactionDetail)
	return d, args.Error(1)
}

type mockPropertyService struct{ mock.Mock }

func (m *mockPropertyService) ListVerified(ctx context.Context, f model.PropertyFilters) ([]model.PropertyListing, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]model.PropertyListing)
	return l, args.Error(1)
}

func (m *mockPropertyService) ListPending(ctx context.Context) ([]model.PropertyListing, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.PropertyListing)
	return l, args.Error(1)
}

func (m *mockPropertyService) Get(ctx context.Context, id int) (*model.PropertyListing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.PropertyListing)
	return l, args.Error(1)
}

func (m *mockPropertyService) Create(ctx context.Context, p model.Principal, req model.CreatePropertyRequest) (*model.Property, error) {
	args := m.Called(ctx, p, req)
	pr, _ := args.Get(0).(*model.Property)
	return pr, args.Error(1)
}

func (m *mockPropertyService) Update(ctx context.Context, p model.Principal, id int, req model.UpdatePropertyRequest) (*model.Property, error) {
	args := m.Called(ctx, p, id, req)
	pr, _ := args.Get(0).(*model.Property)
	return pr, args.Error(1)
}

func (m *mockPropertyService) Delete(ctx context.Context, p model.Principal, id int) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockPropertyService) History(ctx context.Context, id int) ([]model.BlockchainRecord, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).([]model.BlockchainRecord)
	return r, args.Error(1)
}
