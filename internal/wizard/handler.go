package wizard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/validation"
)

// Handler handles booking wizard HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new wizard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func wizardIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" || len(id) > 64 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid draft ID")
		return "", false
	}
	return id, true
}

// GetState returns the current wizard state
// GET /api/v1/wizard/:id
func (h *Handler) GetState(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	draft, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, draft)
}

// UpdateSelection applies step 1 mutations
// PUT /api/v1/wizard/:id/selection
func (h *Handler) UpdateSelection(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	var req UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	draft, err := h.service.UpdateSelection(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, draft)
}

// UpdateFields applies contact/trip and service field mutations
// PUT /api/v1/wizard/:id/fields
func (h *Handler) UpdateFields(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	draft, err := h.service.UpdateFields(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, draft)
}

// Advance moves to the next step when validation passes
// POST /api/v1/wizard/:id/advance
func (h *Handler) Advance(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	draft, result, err := h.service.Advance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, common.Response{
			Success: false,
			Error:   "validation failed",
			Data:    result,
		})
		return
	}
	common.SuccessResponse(c, draft)
}

// Back moves to the previous step
// POST /api/v1/wizard/:id/back
func (h *Handler) Back(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	draft, err := h.service.Back(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, draft)
}

// Exit leaves the wizard, keeping or discarding the draft
// POST /api/v1/wizard/:id/exit
func (h *Handler) Exit(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	var req ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if err := h.service.Exit(c.Request.Context(), id, req.Mode); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"mode": req.Mode})
}

// Submit confirms the booking and creates the reservation
// POST /api/v1/wizard/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	id, ok := wizardIDParam(c)
	if !ok {
		return
	}

	reservation, result, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, common.Response{
			Success: false,
			Error:   "validation failed",
			Data:    result,
		})
		return
	}
	common.CreatedResponse(c, reservation)
}

// RegisterRoutes registers the wizard routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	wizard := r.Group("/api/v1/wizard/:id")
	{
		wizard.GET("", h.GetState)
		wizard.PUT("/selection", h.UpdateSelection)
		wizard.PUT("/fields", h.UpdateFields)
		wizard.POST("/advance", h.Advance)
		wizard.POST("/back", h.Back)
		wizard.POST("/exit", h.Exit)
		wizard.POST("/submit", h.Submit)
	}
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "something went wrong")
}

func bindingError(c *gin.Context, err error) {
	if verr := validation.FromBindingError(err); verr != nil {
		common.ErrorResponse(c, http.StatusBadRequest, verr.Error())
		return
	}
	common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
}
