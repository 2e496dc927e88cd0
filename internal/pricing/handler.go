package pricing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vialuxe/transfer-booking/internal/catalog"
	"github.com/vialuxe/transfer-booking/pkg/common"
)

// Handler serves public price quote requests
type Handler struct {
	resolver *Resolver
	catalog  *catalog.Reader
}

// NewHandler creates a new pricing handler
func NewHandler(resolver *Resolver, reader *catalog.Reader) *Handler {
	return &Handler{resolver: resolver, catalog: reader}
}

// GetQuote resolves the price for a route
// GET /api/v1/quotes?service_id=&vehicle_category_id=&pickup=&destination=
func (h *Handler) GetQuote(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid service_id")
		return
	}
	vehicleCategoryID, err := uuid.Parse(c.Query("vehicle_category_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle_category_id")
		return
	}

	svc, err := h.catalog.GetServiceByID(c.Request.Context(), serviceID)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "service not found")
		return
	}

	quote := h.resolver.Resolve(c.Request.Context(), QuoteRequest{
		ServiceID:         serviceID,
		VehicleCategoryID: vehicleCategoryID,
		Pickup:            c.Query("pickup"),
		Destination:       c.Query("destination"),
		Eligible:          svc.Key == catalog.AirportTransferServiceKey,
	})
	common.SuccessResponse(c, quote)
}
