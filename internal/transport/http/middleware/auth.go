package middleware

import (
	"net/http"
	"strings"

	"github.com/adrianoneco/userdir/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	errTokenMissing = "Token não fornecido"
	errTokenInvalid = "Token inválido"
)

// Auth is the access control gate in front of every protected route.
// A missing bearer token is 401, a present but invalid or expired one is
// 403. Verified claims travel on the request context, not on the gin
// context.
func Auth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errTokenMissing})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": errTokenInvalid})
			return
		}

		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
