package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vialuxe/transfer-booking/internal/staff"
	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
	"github.com/vialuxe/transfer-booking/pkg/pagination"
)

// AdminHandler handles back-office route rate management
type AdminHandler struct {
	repo *Repository
}

// NewAdminHandler creates a new pricing admin handler
func NewAdminHandler(repo *Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// RegisterRoutes registers route rate admin routes on an authenticated group.
// Deactivating a rate needs the admin role.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rates := rg.Group("/route-rates")
	{
		rates.GET("", h.ListRates)
		rates.POST("", h.CreateRate)
		rates.PUT("/:id", h.UpdateRate)
		rates.DELETE("/:id", middleware.RequireRole(staff.RoleAdmin), h.DeleteRate)
	}
}

// ListRates lists route rates
func (h *AdminHandler) ListRates(c *gin.Context) {
	params := pagination.ParseParams(c)
	includeInactive := c.Query("include_inactive") == "true"

	items, total, err := h.repo.ListRates(c.Request.Context(), params.Limit, params.Offset, includeInactive)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list route rates")
		return
	}
	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// CreateRate creates a new route rate
func (h *AdminHandler) CreateRate(c *gin.Context) {
	var req UpsertRouteRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rate := rateFromRequest(&req)
	if err := h.repo.CreateRate(c.Request.Context(), rate); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create route rate")
		return
	}
	common.CreatedResponse(c, rate)
}

// UpdateRate updates a route rate
func (h *AdminHandler) UpdateRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid route rate ID")
		return
	}

	var req UpsertRouteRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rate := rateFromRequest(&req)
	rate.ID = id
	if err := h.repo.UpdateRate(c.Request.Context(), rate); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update route rate")
		return
	}
	common.SuccessResponse(c, rate)
}

// DeleteRate deactivates a route rate
func (h *AdminHandler) DeleteRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid route rate ID")
		return
	}

	if err := h.repo.DeleteRate(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete route rate")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

func rateFromRequest(req *UpsertRouteRateRequest) *RouteRate {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	return &RouteRate{
		ServiceID:           req.ServiceID,
		VehicleCategoryID:   req.VehicleCategoryID,
		PickupLocation:      req.PickupLocation,
		DestinationLocation: req.DestinationLocation,
		Amount:              req.Amount,
		Currency:            currency,
		IsActive:            active,
	}
}
