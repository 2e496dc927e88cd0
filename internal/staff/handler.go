package staff

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/validation"
)

// Handler handles staff HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new staff handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login authenticates a staff member
// POST /api/v1/staff/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if verr := validation.FromBindingError(err); verr != nil {
			common.ErrorResponse(c, http.StatusBadRequest, verr.Error())
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "login failed")
		return
	}
	common.SuccessResponse(c, resp)
}

// RegisterRoutes registers the staff routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/staff/login", h.Login)
}
