package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-cardwallet-webapp/internal/config"
)

// AdminAuth guards admin endpoints with a static token checked against the
// configured bcrypt hash. An empty configured hash disables the endpoints
// entirely rather than leaving them open.
func AdminAuth(cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminTokenHash == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "Admin endpoints are disabled",
			})
			return
		}

		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing admin token",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminTokenHash), []byte(token)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid admin token",
			})
			return
		}

		c.Next()
	}
}
