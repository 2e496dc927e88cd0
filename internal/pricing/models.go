package pricing

import (
	"time"

	"github.com/google/uuid"
)

// RouteRate is a fixed price for a (service, vehicle category, route) tuple
type RouteRate struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	ServiceID           uuid.UUID `json:"service_id" db:"service_id"`
	VehicleCategoryID   uuid.UUID `json:"vehicle_category_id" db:"vehicle_category_id"`
	PickupLocation      string    `json:"pickup_location" db:"pickup_location"`
	DestinationLocation string    `json:"destination_location" db:"destination_location"`
	Amount              float64   `json:"amount" db:"amount"`
	Currency            string    `json:"currency" db:"currency"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// QuoteRequest identifies one price lookup. Eligible is false for services
// that show a static price range instead of a live quote.
type QuoteRequest struct {
	ServiceID         uuid.UUID
	VehicleCategoryID uuid.UUID
	Pickup            string
	Destination       string
	Eligible          bool
}

// PriceQuote is the resolved price for a quote request. Available is false
// when the request was incomplete, ineligible, or no rate exists.
type PriceQuote struct {
	Available bool    `json:"available"`
	Amount    float64 `json:"amount,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// UpsertRouteRateRequest creates or updates a route rate
type UpsertRouteRateRequest struct {
	ServiceID           uuid.UUID `json:"service_id" binding:"required"`
	VehicleCategoryID   uuid.UUID `json:"vehicle_category_id" binding:"required"`
	PickupLocation      string    `json:"pickup_location" binding:"required"`
	DestinationLocation string    `json:"destination_location" binding:"required"`
	Amount              float64   `json:"amount" binding:"required,gt=0"`
	Currency            string    `json:"currency" binding:"omitempty,len=3"`
	IsActive            *bool     `json:"is_active"`
}
