package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_ledger/internal/model"
	"estate_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[int]*model.User

func (s stubUsers) FindByID(_ context.Context, id int) (*model.User, error) {
	if id < 0 {
		return nil, errors.New("db down")
	}
	return s[id], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtUtil *utils.JWTUtil, users UserLookup, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(jwtUtil, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetInt(AuthUserKey), "role": c.GetString(AuthRoleKey)})
	})
	r.GET("/me", handlers...)
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	users := stubUsers{7: {ID: 7, Role: model.RoleAgent}}
	router := newAuthRouter(jwtUtil, users)

	validToken, err := jwtUtil.GenerateToken(7, model.RoleBuyer)
	require.NoError(t, err)
	goneToken, _ := jwtUtil.GenerateToken(8, model.RoleBuyer)
	brokenDBToken, _ := jwtUtil.GenerateToken(-1, model.RoleBuyer)

	testCases := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{name: "bearer", header: "Authorization", value: "Bearer " + validToken, wantStatus: http.StatusOK, wantBody: `{"role":"agent","user":7}`},
		{name: "legacy header", header: "x-auth-token", value: validToken, wantStatus: http.StatusOK, wantBody: `{"role":"agent","user":7}`},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"No token, authorization denied"}`},
		{name: "bad scheme", header: "Authorization", value: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"No token, authorization denied"}`},
		{name: "garbage", header: "Authorization", value: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Token is not valid"}`},
		{name: "deleted user", header: "Authorization", value: "Bearer " + goneToken, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"User no longer exists"}`},
		{name: "lookup failure", header: "Authorization", value: "Bearer " + brokenDBToken, wantStatus: http.StatusInternalServerError, wantBody: "Server Error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	users := stubUsers{1: {ID: 1, Role: model.RoleAdmin}, 2: {ID: 2, Role: model.RoleSeller}}
	router := newAuthRouter(jwtUtil, users, AdminMiddleware())

	adminToken, _ := jwtUtil.GenerateToken(1, model.RoleAdmin)
	// the stored role wins over the claim
	sellerToken, _ := jwtUtil.GenerateToken(2, model.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(), RequestLogger())
	r.PATCH("/api/transactions/:id/verify", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions/1/verify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Auth-Token")
}
