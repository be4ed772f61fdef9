package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
)

// respondError maps a service error to an HTTP response. Internal
// errors are logged and masked with a generic message.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}

// currentUserID returns the authenticated user's id from the request
// context
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// currentEmail returns the authenticated user's email from the request
// context
func currentEmail(c *gin.Context) string {
	value, exists := c.Get("email")
	if !exists {
		return ""
	}
	email, _ := value.(string)
	return email
}

// parseUUIDParam parses a uuid path parameter, responding 400 on failure
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
