package handler

import (
	"net/http"
	"strconv"

	"estate_ledger/internal/model"
	"estate_ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property listing requests
type PropertyHandler struct {
	service service.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(s service.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: s}
}

func queryFloat(c *gin.Context, key string) (*float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + " format"})
		return nil, false
	}
	return &v, true
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var filters model.PropertyFilters
	if location := c.Query("location"); location != "" {
		filters.Location = &location
	}
	var ok bool
	if filters.MinPrice, ok = queryFloat(c, "min_price"); !ok {
		return
	}
	if filters.MaxPrice, ok = queryFloat(c, "max_price"); !ok {
		return
	}

	listings, err := h.service.ListVerified(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := idParam(c, "property")
	if !ok {
		return
	}
	listing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *PropertyHandler) GetHistory(c *gin.Context) {
	id, ok := idParam(c, "property")
	if !ok {
		return
	}
	records, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	var req model.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	property, err := h.service.Create(c.Request.Context(), requester, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "property")
	if !ok {
		return
	}
	var req model.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	property, err := h.service.Update(c.Request.Context(), requester, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "property")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), requester, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property removed"})
}

func (h *PropertyHandler) ListPendingAdmin(c *gin.Context) {
	listings, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// RegisterPropertyRoutes registers property routes. Reads are public.
func (h *PropertyHandler) RegisterPropertyRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	props := rg.Group("/properties")
	{
		props.GET("", h.ListProperties)
		props.GET("/:id", h.GetProperty)
		props.GET("/:id/history", h.GetHistory)
		props.POST("", authMW, h.CreateProperty)
		props.PUT("/:id", authMW, h.UpdateProperty)
		props.DELETE("/:id", authMW, h.DeleteProperty)
	}

	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW, adminMW)
	{
		adminRoutes.GET("/properties/pending", h.ListPendingAdmin)
	}
}
