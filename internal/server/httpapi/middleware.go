package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/server/auth"
)

const userIDKey = "userID"

// getOrCreateRequestID returns the inbound X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
		c.Header("X-Request-ID", id)
	}
	return id
}

// authRequired validates the bearer access token and stores the caller's
// user ID on the context. Expired tokens get a distinguishable message so
// the client knows to refresh instead of re-login.
func authRequired(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, jwtSecret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = common.ErrTokenExpired.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msg})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID reads the user ID placed on the context by authRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
