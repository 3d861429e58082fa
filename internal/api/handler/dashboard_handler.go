package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/service"
)

// DashboardHandler landing page
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Dashboard counters and recent travel orders
// GET /
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	data, err := h.dashboardSvc.Get(c.Request.Context(), user)
	if err != nil {
		errorPage(c, err)
		return
	}
	renderPage(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Dashboard": data})
}
