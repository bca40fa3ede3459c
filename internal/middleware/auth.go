package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkup-service/internal/auth"
)

// UserIDKey is the gin context key carrying the authenticated user id.
const UserIDKey = "userID"

// SessionCookie is the cookie the auth handlers issue tokens under.
const SessionCookie = "jwt"

// AuthMiddleware validates the session token from the Authorization header
// or the jwt cookie and stores the caller's user id in the context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized: no token provided"})
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			msg := "Unauthorized: invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Unauthorized: token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
