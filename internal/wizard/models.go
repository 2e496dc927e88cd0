package wizard

import (
	"github.com/google/uuid"

	"github.com/vialuxe/transfer-booking/internal/drafts"
)

// Violation is one human-readable validation failure, tagged with the
// offending field key so the form can highlight the input.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of a step validation
type Result struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`
}

// FieldKeys returns the distinct field keys carrying violations
func (r Result) FieldKeys() []string {
	seen := make(map[string]bool)
	keys := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			keys = append(keys, v.Field)
		}
	}
	return keys
}

// UpdateSelectionRequest mutates the step 1 selections of a draft
type UpdateSelectionRequest struct {
	ServiceID          *uuid.UUID                 `json:"service_id"`
	VehicleCategoryID  *uuid.UUID                 `json:"vehicle_category_id"`
	AdditionalServices *drafts.AdditionalServices `json:"additional_services"`
}

// UpdateFieldsRequest mutates the contact/trip fields and the
// service-specific answers of a draft
type UpdateFieldsRequest struct {
	Contact       *drafts.ContactTripFields `json:"contact"`
	ServiceFields map[string]interface{}    `json:"service_fields"`
}

// Exit modes. Save keeps the persisted draft for later, discard clears it.
const (
	ExitModeSave    = "save"
	ExitModeDiscard = "discard"
)

// ExitRequest leaves the wizard
type ExitRequest struct {
	Mode string `json:"mode" binding:"required,oneof=save discard"`
}
