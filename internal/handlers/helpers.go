package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkup-service/internal/middleware"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func callerID(c *gin.Context) int {
	return c.GetInt(middleware.UserIDKey)
}

func callerIDRef(c *gin.Context) *int64 {
	if id := callerID(c); id != 0 {
		value := int64(id)
		return &value
	}
	return nil
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// internalError hides error detail outside development (gin debug) mode.
func internalError(c *gin.Context, err error) {
	message := "Internal server error"
	if gin.Mode() == gin.DebugMode && err != nil {
		message = err.Error()
	}
	fail(c, http.StatusInternalServerError, message)
}
