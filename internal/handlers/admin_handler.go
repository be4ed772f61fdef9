package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/services/admin"
)

// AdminHandler handles admin dashboard requests
type AdminHandler struct {
	adminService *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats returns platform-wide counters for the dashboard
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
