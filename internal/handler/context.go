package handler

import (
	"net/http"
	"strconv"

	"estate_ledger/internal/middleware"
	"estate_ledger/internal/model"

	"github.com/gin-gonic/gin"
)

// principal returns the caller set by the auth middleware. On failure it has
// already answered the request.
func principal(c *gin.Context) (model.Principal, bool) {
	userID, okID := c.Get(middleware.AuthUserKey)
	role, okRole := c.Get(middleware.AuthRoleKey)
	id, isInt := userID.(int)
	roleStr, isStr := role.(string)
	if !okID || !okRole || !isInt || !isStr {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
		return model.Principal{}, false
	}
	return model.Principal{ID: id, Role: roleStr}, true
}

func idParam(c *gin.Context, what string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}
