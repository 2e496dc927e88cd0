package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vialuxe/transfer-booking/internal/staff"
	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
)

// AdminHandler handles back-office catalog management
type AdminHandler struct {
	repo   *Repository
	reader *Reader
}

// NewAdminHandler creates a new catalog admin handler
func NewAdminHandler(repo *Repository, reader *Reader) *AdminHandler {
	return &AdminHandler{repo: repo, reader: reader}
}

// RegisterRoutes registers catalog admin routes on an authenticated group.
// Managers can create and edit catalog entries; deletes need the admin role.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(staff.RoleAdmin)

	services := rg.Group("/services")
	{
		services.POST("", h.CreateService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", adminOnly, h.DeleteService)
		services.POST("/:id/fields", h.CreateServiceField)
		services.DELETE("/:id/fields/:field_id", adminOnly, h.DeleteServiceField)
	}

	vehicles := rg.Group("/vehicle-categories")
	{
		vehicles.POST("", h.CreateVehicleCategory)
		vehicles.PUT("/:id", h.UpdateVehicleCategory)
		vehicles.DELETE("/:id", adminOnly, h.DeleteVehicleCategory)
	}

	locations := rg.Group("/locations")
	{
		locations.POST("", h.CreateLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", adminOnly, h.DeleteLocation)
	}

	testimonials := rg.Group("/testimonials")
	{
		testimonials.POST("", h.CreateTestimonial)
		testimonials.PUT("/:id", h.UpdateTestimonial)
		testimonials.DELETE("/:id", adminOnly, h.DeleteTestimonial)
	}
}

// ========================================
// SERVICES
// ========================================

// CreateService creates a new service
func (h *AdminHandler) CreateService(c *gin.Context) {
	var req UpsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	svc := &Service{
		Key:          req.Key,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		PriceHintMin: req.PriceHintMin,
		PriceHintMax: req.PriceHintMax,
		IsPopular:    req.IsPopular,
		IsAvailable:  available,
		Features:     req.Features,
	}

	if err := h.repo.CreateService(c.Request.Context(), svc); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusCreated, svc, "Service created successfully")
}

// UpdateService updates a service
func (h *AdminHandler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	svc, err := h.repo.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Service not found")
		return
	}

	var req UpsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	svc.Key = req.Key
	svc.Name = req.Name
	svc.Description = req.Description
	svc.CategoryID = req.CategoryID
	svc.PriceHintMin = req.PriceHintMin
	svc.PriceHintMax = req.PriceHintMax
	svc.IsPopular = req.IsPopular
	if req.IsAvailable != nil {
		svc.IsAvailable = *req.IsAvailable
	}
	if req.Features != nil {
		svc.Features = req.Features
	}

	if err := h.repo.UpdateService(c.Request.Context(), svc); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	h.reader.Invalidate(c.Request.Context(), id)
	common.SuccessResponse(c, svc)
}

// DeleteService soft-deletes a service
func (h *AdminHandler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	if err := h.repo.DeleteService(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}

	h.reader.Invalidate(c.Request.Context(), id)
	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Service deleted successfully")
}

// CreateServiceField adds a dynamic form field to a service
func (h *AdminHandler) CreateServiceField(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req CreateFieldDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	fd := &ServiceFieldDefinition{
		ServiceID:          serviceID,
		Key:                req.Key,
		Label:              req.Label,
		Type:               FieldType(req.Type),
		Required:           req.Required,
		IsPickupField:      req.IsPickupField,
		IsDestinationField: req.IsDestinationField,
		Options:            req.Options,
		SortOrder:          req.SortOrder,
	}

	if err := h.repo.CreateFieldDefinition(c.Request.Context(), fd); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create field definition")
		return
	}

	h.reader.Invalidate(c.Request.Context(), serviceID)
	common.SuccessResponseWithStatus(c, http.StatusCreated, fd, "Field definition created successfully")
}

// DeleteServiceField removes a dynamic form field from a service
func (h *AdminHandler) DeleteServiceField(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid service ID")
		return
	}

	fieldID, err := uuid.Parse(c.Param("field_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid field ID")
		return
	}

	if err := h.repo.DeleteFieldDefinition(c.Request.Context(), fieldID); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete field definition")
		return
	}

	h.reader.Invalidate(c.Request.Context(), serviceID)
	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Field definition deleted successfully")
}

// ========================================
// VEHICLE CATEGORIES
// ========================================

// CreateVehicleCategory creates a new vehicle category
func (h *AdminHandler) CreateVehicleCategory(c *gin.Context) {
	var req UpsertVehicleCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.MaxPassengers < req.MinPassengers {
		common.ErrorResponse(c, http.StatusBadRequest, "max_passengers cannot be less than min_passengers")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	vc := &VehicleCategory{
		Name:          req.Name,
		Description:   req.Description,
		MinPassengers: req.MinPassengers,
		MaxPassengers: req.MaxPassengers,
		ImageURL:      req.ImageURL,
		IsActive:      active,
	}

	if err := h.repo.CreateVehicleCategory(c.Request.Context(), vc); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create vehicle category")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusCreated, vc, "Vehicle category created successfully")
}

// UpdateVehicleCategory updates a vehicle category
func (h *AdminHandler) UpdateVehicleCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle category ID")
		return
	}

	vc, err := h.repo.GetVehicleCategoryByID(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Vehicle category not found")
		return
	}

	var req UpsertVehicleCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.MaxPassengers < req.MinPassengers {
		common.ErrorResponse(c, http.StatusBadRequest, "max_passengers cannot be less than min_passengers")
		return
	}

	vc.Name = req.Name
	vc.Description = req.Description
	vc.MinPassengers = req.MinPassengers
	vc.MaxPassengers = req.MaxPassengers
	vc.ImageURL = req.ImageURL
	if req.IsActive != nil {
		vc.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateVehicleCategory(c.Request.Context(), vc); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update vehicle category")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponse(c, vc)
}

// DeleteVehicleCategory soft-deletes a vehicle category
func (h *AdminHandler) DeleteVehicleCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid vehicle category ID")
		return
	}

	if err := h.repo.DeleteVehicleCategory(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete vehicle category")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Vehicle category deleted successfully")
}

// ========================================
// LOCATIONS
// ========================================

// CreateLocation creates a new location
func (h *AdminHandler) CreateLocation(c *gin.Context) {
	var req UpsertLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	l := &Location{Name: req.Name, Kind: req.Kind, IsActive: active}
	if err := h.repo.CreateLocation(c.Request.Context(), l); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create location")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusCreated, l, "Location created successfully")
}

// UpdateLocation updates a location
func (h *AdminHandler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid location ID")
		return
	}

	l, err := h.repo.GetLocationByID(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Location not found")
		return
	}

	var req UpsertLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	l.Name = req.Name
	l.Kind = req.Kind
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateLocation(c.Request.Context(), l); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update location")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponse(c, l)
}

// DeleteLocation soft-deletes a location
func (h *AdminHandler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid location ID")
		return
	}

	if err := h.repo.DeleteLocation(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete location")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Location deleted successfully")
}

// ========================================
// TESTIMONIALS
// ========================================

// CreateTestimonial creates a new testimonial
func (h *AdminHandler) CreateTestimonial(c *gin.Context) {
	var req UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tm := &Testimonial{
		Author:      req.Author,
		Quote:       req.Quote,
		Rating:      req.Rating,
		IsPublished: req.IsPublished,
	}

	if err := h.repo.CreateTestimonial(c.Request.Context(), tm); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create testimonial")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusCreated, tm, "Testimonial created successfully")
}

// UpdateTestimonial updates a testimonial
func (h *AdminHandler) UpdateTestimonial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid testimonial ID")
		return
	}

	var req UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tm := &Testimonial{
		ID:          id,
		Author:      req.Author,
		Quote:       req.Quote,
		Rating:      req.Rating,
		IsPublished: req.IsPublished,
	}

	if err := h.repo.UpdateTestimonial(c.Request.Context(), tm); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update testimonial")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponse(c, tm)
}

// DeleteTestimonial removes a testimonial
func (h *AdminHandler) DeleteTestimonial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid testimonial ID")
		return
	}

	if err := h.repo.DeleteTestimonial(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete testimonial")
		return
	}

	h.reader.Invalidate(c.Request.Context())
	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Testimonial deleted successfully")
}
