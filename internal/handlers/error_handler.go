package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SafeJSON renders a JSON response and recovers from marshalling panics so a
// bad payload degrades to a 500 instead of killing the connection.
func SafeJSON(c *gin.Context, status int, data interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("SafeJSON: panic rendering response: %v", r)
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}
	}()

	c.JSON(status, data)
}

// JSONError writes a uniform error body.
func JSONError(c *gin.Context, status int, message string) {
	SafeJSON(c, status, gin.H{"error": message})
}

// NotFoundHandler handles unmatched routes.
func NotFoundHandler(c *gin.Context) {
	JSONError(c, http.StatusNotFound, "Not found")
}
