package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/wardwatch/internal"
)

const OperatorKey = "operator"

// AuthMiddleware requires a bearer token accepted by one of the providers.
func AuthMiddleware(providers ...Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			for _, p := range providers {
				op, err := p.Authenticate(c.Request.Context(), token)
				if err == nil {
					c.Set(OperatorKey, op)
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": internal.NewAppError(http.StatusUnauthorized, "Unauthorized")})
	}
}
