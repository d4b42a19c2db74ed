package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_ledger/internal/config"
	"estate_ledger/internal/ledger"
	"estate_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, pgxmock.PgxPoolIface) {
	gin.SetMode(gin.TestMode)
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return newRouter(pool, utils.NewJWTUtil("secret", time.Hour), ledger.NewSimulated(nil)), pool
}

func TestHealth(t *testing.T) {
	router, pool := newTestRouter(t)

	pool.ExpectPing()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":"healthy"}`, w.Body.String())

	pool.ExpectPing().WillReturnError(errors.New("down"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, pool := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/transactions"},
		{http.MethodGet, "/api/transactions/user"},
		{http.MethodPatch, "/api/transactions/1/verify"},
		{http.MethodPatch, "/api/transactions/1/complete"},
		{http.MethodPost, "/api/properties"},
		{http.MethodDelete, "/api/properties/1"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/admin/properties/pending"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestNewLedger(t *testing.T) {
	l, err := newLedger(&config.AppConfig{LedgerMode: config.LedgerModeSimulated})
	require.NoError(t, err)
	assert.IsType(t, &ledger.Simulated{}, l)

	l, err = newLedger(&config.AppConfig{LedgerMode: config.LedgerModeCometBFT, CometBFTRPCAddr: "http://127.0.0.1:26657"})
	require.NoError(t, err)
	assert.IsType(t, &ledger.CometBFT{}, l)
}
