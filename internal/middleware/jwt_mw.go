package middleware

import (
	"context"
	"net/http"
	"strings"

	"estate_ledger/internal/model"
	"estate_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"

	legacyTokenHeader = "x-auth-token"
)

// UserLookup resolves the account behind a token
type UserLookup interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.GetHeader(legacyTokenHeader)
}

// JWTAuthMiddleware validates the request token and reloads the user it names.
// The role placed in the context comes from the database, not from the token.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			logrus.WithError(err).Debug("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load token user")
			c.Abort()
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}

		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}
