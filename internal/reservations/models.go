package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Reservation statuses. Every reservation starts as a quote and is moved
// forward by staff.
const (
	StatusQuote    = "quote"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusSent     = "sent"
)

// ValidStatuses lists the accepted reservation statuses
var ValidStatuses = map[string]bool{
	StatusQuote:    true,
	StatusAccepted: true,
	StatusDeclined: true,
	StatusSent:     true,
}

// Customer is a booking contact, deduplicated by email
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdditionalServicesBlock carries the optional booking add-ons
type AdditionalServicesBlock struct {
	BabySeatCount    int  `json:"baby_seat_count"`
	BoosterSeatCount int  `json:"booster_seat_count"`
	MeetAndGreet     bool `json:"meet_and_greet"`
}

// Reservation is a persisted booking record
type Reservation struct {
	ID                 uuid.UUID                `json:"id" db:"id"`
	CustomerID         uuid.UUID                `json:"customer_id" db:"customer_id"`
	ServiceID          uuid.UUID                `json:"service_id" db:"service_id"`
	VehicleCategoryID  uuid.UUID                `json:"vehicle_category_id" db:"vehicle_category_id"`
	Status             string                   `json:"status" db:"status"`
	Date               string                   `json:"date" db:"date"`
	Time               string                   `json:"time" db:"time"`
	Pickup             string                   `json:"pickup" db:"pickup"`
	Destination        string                   `json:"destination" db:"destination"`
	PassengerCount     int                      `json:"passenger_count" db:"passenger_count"`
	Notes              string                   `json:"notes" db:"notes"`
	TotalPrice         *float64                 `json:"total_price,omitempty" db:"total_price"`
	Currency           string                   `json:"currency" db:"currency"`
	AdditionalServices *AdditionalServicesBlock `json:"additional_services,omitempty"`
	ServiceFields      map[string]interface{}   `json:"service_fields,omitempty"`
	IdempotencyKey     *string                  `json:"-" db:"idempotency_key"`
	Customer           *Customer                `json:"customer,omitempty"`
	CreatedAt          time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at" db:"updated_at"`
}

// ContactBlock is the contact portion of a create request
type ContactBlock struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
}

// TripBlock is the trip portion of a create request
type TripBlock struct {
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Pickup         string `json:"pickup" binding:"required"`
	Destination    string `json:"destination"`
	PassengerCount int    `json:"passenger_count" binding:"omitempty,min=1"`
	Notes          string `json:"notes"`
}

// CreateReservationRequest creates a reservation. The top-level blocks are
// checked by the service so a missing block is reported by name.
type CreateReservationRequest struct {
	ServiceID          uuid.UUID                `json:"service_id"`
	VehicleCategoryID  uuid.UUID                `json:"vehicle_category_id"`
	Contact            *ContactBlock            `json:"contact"`
	Trip               *TripBlock               `json:"trip"`
	AdditionalServices *AdditionalServicesBlock `json:"additional_services"`
	ServiceFields      map[string]interface{}   `json:"service_fields"`
	Status             string                   `json:"status"`
	TotalPrice         *float64                 `json:"total_price"`
	Currency           string                   `json:"currency"`
	IdempotencyKey     string                   `json:"idempotency_key"`
}

// UpdateStatusRequest moves a reservation to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
