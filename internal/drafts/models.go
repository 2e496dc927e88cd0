package drafts

import (
	"time"

	"github.com/google/uuid"
)

const (
	// StepSelection is the service/vehicle selection step
	StepSelection = 1
	// StepTripDetails is the contact and trip details step
	StepTripDetails = 2
	// StepSummary is the summary/submit step
	StepSummary = 3
)

// ServiceRef is the slice of a catalog service a draft needs to keep
type ServiceRef struct {
	ID   uuid.UUID `json:"id"`
	Key  string    `json:"key"`
	Name string    `json:"name"`
}

// VehicleCategoryRef is the slice of a vehicle category a draft needs to keep
type VehicleCategoryRef struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MinPassengers int       `json:"min_passengers"`
	MaxPassengers int       `json:"max_passengers"`
}

// AdditionalServices are the optional add-ons of a booking
type AdditionalServices struct {
	BabySeatCount    int  `json:"baby_seat_count"`
	BoosterSeatCount int  `json:"booster_seat_count"`
	MeetAndGreet     bool `json:"meet_and_greet"`
}

// ContactTripFields are the fixed contact and trip inputs of step 2
type ContactTripFields struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM
	Pickup         string `json:"pickup"`
	Destination    string `json:"destination"`
	PassengerCount int    `json:"passenger_count"`
	Notes          string `json:"notes"`
}

// ReservationDraft is an in-progress booking. The draft ID is a storage
// concern only and is never part of the submission payload.
type ReservationDraft struct {
	ID                      string                 `json:"id"`
	CurrentStep             int                    `json:"current_step"`
	SelectedService         *ServiceRef            `json:"selected_service,omitempty"`
	SelectedVehicleCategory *VehicleCategoryRef    `json:"selected_vehicle_category,omitempty"`
	AdditionalServices      AdditionalServices     `json:"additional_services"`
	ServiceFields           map[string]interface{} `json:"service_fields,omitempty"`
	Contact                 ContactTripFields      `json:"contact"`
	IdempotencyKey          string                 `json:"idempotency_key,omitempty"`
	Completed               bool                   `json:"completed"`
	ReservationID           *uuid.UUID             `json:"reservation_id,omitempty"`
}

// NewDraft creates an empty draft at the selection step
func NewDraft(id string) *ReservationDraft {
	return &ReservationDraft{
		ID:            id,
		CurrentStep:   StepSelection,
		ServiceFields: make(map[string]interface{}),
	}
}

// SavedEvent describes a completed draft save, fired to local listeners
type SavedEvent struct {
	DraftID   string    `json:"draft_id"`
	Step      int       `json:"step"`
	Completed bool      `json:"completed"`
	SavedAt   time.Time `json:"saved_at"`
}
