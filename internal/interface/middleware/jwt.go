package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/costschef/user-service/pkg/helpers"
	"github.com/costschef/user-service/pkg/response"
)

// CtxUserIDKey is the Gin context key holding the authenticated user id.
const CtxUserIDKey = "userID"

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Bearer validates the Authorization header and injects the user id into the
// context. Requests without a valid token are rejected.
func Bearer(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		userID, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// BearerOptional injects the user id when a valid token is present but never
// rejects. Used where anonymous and authenticated callers get different
// rules on the same route.
func BearerOptional(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := jwt.Parse(token); err == nil {
				c.Set(CtxUserIDKey, userID)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the context, if any.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
