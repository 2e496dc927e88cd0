package reservations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
	"github.com/vialuxe/transfer-booking/pkg/pagination"
	"github.com/vialuxe/transfer-booking/pkg/validation"
	"go.uber.org/zap"
)

// Handler handles reservation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new reservations handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateReservation creates a reservation
// POST /api/v1/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if verr := validation.FromBindingError(err); verr != nil {
			common.ErrorResponse(c, http.StatusBadRequest, verr.Error())
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create reservation")
		return
	}
	common.CreatedResponse(c, res)
}

// GetReservation fetches a reservation
// GET /api/v1/admin/reservations/:id
func (h *Handler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "reservation not found")
		return
	}
	common.SuccessResponse(c, res)
}

// ListReservations lists reservations, optionally filtered by status
// GET /api/v1/admin/reservations?status=
func (h *Handler) ListReservations(c *gin.Context) {
	params := pagination.ParseParams(c)
	status := c.Query("status")

	items, total, err := h.service.List(c.Request.Context(), status, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// UpdateReservationStatus moves a reservation to a new status
// PATCH /api/v1/admin/reservations/:id/status
func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if verr := validation.FromBindingError(err); verr != nil {
			common.ErrorResponse(c, http.StatusBadRequest, verr.Error())
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update reservation status")
		return
	}

	if staffID, err := middleware.GetStaffID(c); err == nil {
		logger.WithContext(c.Request.Context()).Info("reservation status updated",
			zap.String("reservation_id", id.String()),
			zap.String("status", res.Status),
			zap.String("staff_id", staffID.String()))
	}

	common.SuccessResponse(c, res)
}

// RegisterRoutes registers the public reservation routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/reservations", h.CreateReservation)
}

// RegisterAdminRoutes registers back-office reservation routes on an
// authenticated group
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.ListReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.PATCH("/:id/status", h.UpdateReservationStatus)
	}
}
