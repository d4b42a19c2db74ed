package handler

import (
	"net/http"

	"estate_ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the per-role dashboard
type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	dash, err := h.service.Get(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *DashboardHandler) RegisterDashboardRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/dashboard", authMW, h.GetDashboard)
}
