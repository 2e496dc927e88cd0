package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vialuxe/transfer-booking/pkg/common"
)

// Handler handles public, read-only catalog requests
type Handler struct {
	reader *Reader
}

// NewHandler creates a new catalog handler
func NewHandler(reader *Reader) *Handler {
	return &Handler{reader: reader}
}

// ListCategories lists service categories
// GET /api/v1/catalog/categories
func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.reader.ListCategories(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	common.SuccessResponse(c, items)
}

// ListServices lists available services
// GET /api/v1/catalog/services
func (h *Handler) ListServices(c *gin.Context) {
	items, err := h.reader.ListServices(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list services")
		return
	}
	common.SuccessResponse(c, items)
}

// GetService gets a single service by ID
// GET /api/v1/catalog/services/:id
func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid service ID")
		return
	}

	svc, err := h.reader.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "service not found")
		return
	}
	common.SuccessResponse(c, svc)
}

// GetServiceFields gets the dynamic form fields for a service
// GET /api/v1/catalog/services/:id/fields
func (h *Handler) GetServiceFields(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid service ID")
		return
	}

	fields, err := h.reader.GetFieldDefinitions(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get service fields")
		return
	}
	common.SuccessResponse(c, fields)
}

// ListVehicleCategories lists vehicle categories
// GET /api/v1/catalog/vehicle-categories
func (h *Handler) ListVehicleCategories(c *gin.Context) {
	items, err := h.reader.ListVehicleCategories(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list vehicle categories")
		return
	}
	common.SuccessResponse(c, items)
}

// ListLocations lists locations
// GET /api/v1/catalog/locations
func (h *Handler) ListLocations(c *gin.Context) {
	items, err := h.reader.ListLocations(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list locations")
		return
	}
	common.SuccessResponse(c, items)
}

// ListTestimonials lists published testimonials
// GET /api/v1/catalog/testimonials
func (h *Handler) ListTestimonials(c *gin.Context) {
	items, err := h.reader.ListTestimonials(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list testimonials")
		return
	}
	common.SuccessResponse(c, items)
}

// RegisterRoutes registers public catalog routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	catalog := r.Group("/api/v1/catalog")
	{
		catalog.GET("/categories", h.ListCategories)
		catalog.GET("/services", h.ListServices)
		catalog.GET("/services/:id", h.GetService)
		catalog.GET("/services/:id/fields", h.GetServiceFields)
		catalog.GET("/vehicle-categories", h.ListVehicleCategories)
		catalog.GET("/locations", h.ListLocations)
		catalog.GET("/testimonials", h.ListTestimonials)
	}
}
