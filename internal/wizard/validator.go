package wizard

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vialuxe/transfer-booking/internal/catalog"
	"github.com/vialuxe/transfer-booking/internal/drafts"
)

var validate = validator.New()

// CanAdvanceFromStep1 decides whether the selection step is complete. One
// violation is reported per missing selection.
func CanAdvanceFromStep1(draft *drafts.ReservationDraft) Result {
	var violations []Violation
	if draft.SelectedService == nil {
		violations = append(violations, Violation{Field: "service", Message: "please select a service"})
	}
	if draft.SelectedVehicleCategory == nil {
		violations = append(violations, Violation{Field: "vehicle_category", Message: "please select a vehicle category"})
	}
	return Result{OK: len(violations) == 0, Violations: violations}
}

// CanSubmit decides whether the draft is complete enough to submit. Checks
// run in a fixed order: selections, base contact/trip fields, the active
// service's own field schema, pickup/destination presence, and finally the
// airport transfer distinctness rule. All violations are accumulated and
// returned together.
func CanSubmit(draft *drafts.ReservationDraft, defs []*catalog.ServiceFieldDefinition) Result {
	violations := CanAdvanceFromStep1(draft).Violations
	violations = append(violations, baseFieldViolations(draft)...)
	violations = append(violations, serviceFieldViolations(draft, defs)...)

	route := resolveRoute(draft, defs)
	if route.Pickup == "" {
		violations = append(violations, Violation{Field: route.PickupField, Message: "pickup location is required"})
	}
	if route.HasDestinationField && route.Destination == "" {
		violations = append(violations, Violation{Field: route.DestinationField, Message: "destination is required"})
	}

	if draft.SelectedService != nil && draft.SelectedService.Key == catalog.AirportTransferServiceKey {
		if route.Pickup != "" && route.Destination != "" && normalize(route.Pickup) == normalize(route.Destination) {
			msg := "pickup and destination must be different"
			violations = append(violations,
				Violation{Field: route.PickupField, Message: msg},
				Violation{Field: route.DestinationField, Message: msg},
			)
		}
	}

	return Result{OK: len(violations) == 0, Violations: violations}
}

func baseFieldViolations(draft *drafts.ReservationDraft) []Violation {
	var violations []Violation
	contact := draft.Contact

	if strings.TrimSpace(contact.FirstName) == "" {
		violations = append(violations, Violation{Field: "first_name", Message: "first name is required"})
	}
	if strings.TrimSpace(contact.LastName) == "" {
		violations = append(violations, Violation{Field: "last_name", Message: "last name is required"})
	}
	if strings.TrimSpace(contact.Email) == "" {
		violations = append(violations, Violation{Field: "email", Message: "email is required"})
	} else if validate.Var(contact.Email, "email") != nil {
		violations = append(violations, Violation{Field: "email", Message: "email must be a valid email address"})
	}
	if strings.TrimSpace(contact.Phone) == "" {
		violations = append(violations, Violation{Field: "phone", Message: "phone is required"})
	}

	if strings.TrimSpace(contact.Date) == "" {
		violations = append(violations, Violation{Field: "date", Message: "date is required"})
	} else if _, err := time.Parse("2006-01-02", contact.Date); err != nil {
		violations = append(violations, Violation{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if strings.TrimSpace(contact.Time) == "" {
		violations = append(violations, Violation{Field: "time", Message: "time is required"})
	} else if _, err := time.Parse("15:04", contact.Time); err != nil {
		violations = append(violations, Violation{Field: "time", Message: "time must be in HH:MM format"})
	}

	if contact.PassengerCount < 1 {
		violations = append(violations, Violation{Field: "passenger_count", Message: "at least one passenger is required"})
	} else if vc := draft.SelectedVehicleCategory; vc != nil && vc.MaxPassengers > 0 && contact.PassengerCount > vc.MaxPassengers {
		violations = append(violations, Violation{Field: "passenger_count", Message: "passenger count exceeds vehicle capacity"})
	}

	if draft.AdditionalServices.BabySeatCount < 0 {
		violations = append(violations, Violation{Field: "baby_seat_count", Message: "baby seat count cannot be negative"})
	}
	if draft.AdditionalServices.BoosterSeatCount < 0 {
		violations = append(violations, Violation{Field: "booster_seat_count", Message: "booster seat count cannot be negative"})
	}

	return violations
}

func serviceFieldViolations(draft *drafts.ReservationDraft, defs []*catalog.ServiceFieldDefinition) []Violation {
	var violations []Violation
	for _, def := range defs {
		if !def.Required {
			continue
		}
		// Route fields are checked separately with their own messages
		if def.IsPickupField || def.IsDestinationField {
			continue
		}
		if fieldValueEmpty(draft.ServiceFields[def.Key]) {
			violations = append(violations, Violation{Field: def.Key, Message: def.Label + " is required"})
		}
	}
	return violations
}

func fieldValueEmpty(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// routeInfo carries the resolved pickup/destination values and the field
// keys errors should be attached to.
type routeInfo struct {
	Pickup              string
	PickupField         string
	Destination         string
	DestinationField    string
	HasDestinationField bool
}

// resolveRoute reads pickup and destination from the service's flagged
// fields when defined, falling back to the fixed trip fields.
func resolveRoute(draft *drafts.ReservationDraft, defs []*catalog.ServiceFieldDefinition) routeInfo {
	route := routeInfo{
		Pickup:           strings.TrimSpace(draft.Contact.Pickup),
		PickupField:      "pickup",
		Destination:      strings.TrimSpace(draft.Contact.Destination),
		DestinationField: "destination",
	}
	for _, def := range defs {
		if def.IsPickupField {
			route.PickupField = def.Key
			if v, ok := draft.ServiceFields[def.Key].(string); ok && strings.TrimSpace(v) != "" {
				route.Pickup = strings.TrimSpace(v)
			}
		}
		if def.IsDestinationField {
			route.DestinationField = def.Key
			route.HasDestinationField = true
			if v, ok := draft.ServiceFields[def.Key].(string); ok && strings.TrimSpace(v) != "" {
				route.Destination = strings.TrimSpace(v)
			}
		}
	}
	return route
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
