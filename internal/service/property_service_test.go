package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"estate_ledger/internal/model"
	"estate_ledger/internal/repository"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	findPropertySQL    = regexp.QuoteMeta("FROM properties p JOIN users u ON p.owner_id = u.id WHERE p.id = $1")
	lockAnyPropertySQL = regexp.QuoteMeta("FROM properties p WHERE p.id = $1 FOR UPDATE")
	updatePropertySQL  = regexp.QuoteMeta("UPDATE properties SET title = $1")
)

func newTestPropertyService(t *testing.T) (PropertyService, pgxmock.PgxPoolIface) {
	pool := newMockPool(t)
	return NewPropertyService(pool, repository.NewPropertyRepository(pool), repository.NewBlockchainRepository(pool)), pool
}

func TestPropertyService_ListVerified_ForcesVerifiedFilter(t *testing.T) {
	svc, pool := newTestPropertyService(t)
	unverified := false
	location := "lisbon"

	pool.ExpectQuery(regexp.QuoteMeta("WHERE p.is_verified = $1 AND p.location ILIKE $2")).
		WithArgs(true, "%lisbon%").
		WillReturnRows(listingRow(5, sellerID, true))

	listings, err := svc.ListVerified(context.Background(), model.PropertyFilters{Verified: &unverified, Location: &location})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].IsVerified)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPropertyService_Create(t *testing.T) {
	t.Run("seller", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		now := time.Now()
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
			WithArgs(sellerID, "Harbour flat", "Two bedrooms", "Lisbon", 250000.0, (*string)(nil), false).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

		p, err := svc.Create(context.Background(), seller, model.CreatePropertyRequest{
			Title: "Harbour flat", Description: "Two bedrooms", Location: "Lisbon", Price: 250000,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, p.ID)
		assert.False(t, p.IsVerified)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("buyer refused", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		_, err := svc.Create(context.Background(), buyer, model.CreatePropertyRequest{Title: "x", Description: "x", Location: "x", Price: 1})
		assert.Equal(t, ErrNotAuthorizedToList, err)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestPropertyService_Update(t *testing.T) {
	newTitle := "Renovated harbour flat"
	verify := true

	t.Run("owner cannot verify", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectBegin()
		pool.ExpectQuery(lockAnyPropertySQL).WithArgs(5).WillReturnRows(propertyRow(5, sellerID, false))
		pool.ExpectQuery(updatePropertySQL).
			WithArgs(newTitle, "Two bedrooms by the river", "Lisbon", 250000.0, false, 5).
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		pool.ExpectCommit()

		p, err := svc.Update(context.Background(), seller, 5, model.UpdatePropertyRequest{Title: &newTitle, IsVerified: &verify})
		require.NoError(t, err)
		assert.Equal(t, newTitle, p.Title)
		assert.False(t, p.IsVerified)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("admin verifies", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectBegin()
		pool.ExpectQuery(lockAnyPropertySQL).WithArgs(5).WillReturnRows(propertyRow(5, sellerID, false))
		pool.ExpectQuery(updatePropertySQL).
			WithArgs("Harbour flat", "Two bedrooms by the river", "Lisbon", 250000.0, true, 5).
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		pool.ExpectCommit()

		p, err := svc.Update(context.Background(), admin, 5, model.UpdatePropertyRequest{IsVerified: &verify})
		require.NoError(t, err)
		assert.True(t, p.IsVerified)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("owner edit keeps verification set concurrently", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		// The locked read already sees the admin's committed verification,
		// so the owner's write carries it through instead of clearing it.
		pool.ExpectBegin()
		pool.ExpectQuery(lockAnyPropertySQL).WithArgs(5).WillReturnRows(propertyRow(5, sellerID, true))
		pool.ExpectQuery(updatePropertySQL).
			WithArgs(newTitle, "Two bedrooms by the river", "Lisbon", 250000.0, true, 5).
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		pool.ExpectCommit()

		p, err := svc.Update(context.Background(), seller, 5, model.UpdatePropertyRequest{Title: &newTitle})
		require.NoError(t, err)
		assert.True(t, p.IsVerified)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("stranger refused", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectBegin()
		pool.ExpectQuery(lockAnyPropertySQL).WithArgs(5).WillReturnRows(propertyRow(5, sellerID, false))
		pool.ExpectRollback()

		_, err := svc.Update(context.Background(), buyer, 5, model.UpdatePropertyRequest{Title: &newTitle})
		assert.Equal(t, ErrNotAuthorizedToUpdate, err)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectBegin()
		pool.ExpectQuery(lockAnyPropertySQL).WithArgs(6).WillReturnRows(pgxmock.NewRows(propertyCols))
		pool.ExpectRollback()

		_, err := svc.Update(context.Background(), admin, 6, model.UpdatePropertyRequest{Title: &newTitle})
		assert.Equal(t, ErrPropertyNotFound, err)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestPropertyService_Delete(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectQuery(findPropertySQL).WithArgs(5).WillReturnRows(listingRow(5, sellerID, true))
		pool.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = $1")).WithArgs(5).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, svc.Delete(context.Background(), admin, 5))
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("stranger refused", func(t *testing.T) {
		svc, pool := newTestPropertyService(t)
		pool.ExpectQuery(findPropertySQL).WithArgs(5).WillReturnRows(listingRow(5, sellerID, true))

		assert.Equal(t, ErrNotAuthorizedToDelete, svc.Delete(context.Background(), agent, 5))
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestPropertyService_History(t *testing.T) {
	svc, pool := newTestPropertyService(t)
	now := time.Now()

	pool.ExpectQuery(findPropertySQL).WithArgs(5).WillReturnRows(listingRow(5, buyerID, true))
	pool.ExpectQuery(regexp.QuoteMeta("FROM blockchain_records WHERE property_id = $1")).WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "property_id", "blockchain_address", "token_id", "previous_owner", "new_owner", "tx_hash", "block_number", "created_at"}).
			AddRow(1, 5, "0xdeed", 5, sellerID, buyerID, "0xabc123", int64(4242), now))

	records, err := svc.History(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sellerID, records[0].PreviousOwner)
	assert.Equal(t, buyerID, records[0].NewOwner)
	assert.NoError(t, pool.ExpectationsWereMet())
}
