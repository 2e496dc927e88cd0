package wizard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vialuxe/transfer-booking/internal/catalog"
	"github.com/vialuxe/transfer-booking/internal/drafts"
	"github.com/vialuxe/transfer-booking/internal/pricing"
	"github.com/vialuxe/transfer-booking/internal/reservations"
	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/logger"
)

// DraftStore persists in-progress drafts
type DraftStore interface {
	Load(ctx context.Context, id string) (*drafts.ReservationDraft, error)
	Save(ctx context.Context, id string, draft *drafts.ReservationDraft) error
	Clear(ctx context.Context, id string) error
}

// Catalog supplies the reference data the wizard validates against
type Catalog interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
	GetVehicleCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.VehicleCategory, error)
	GetFieldDefinitions(ctx context.Context, serviceID uuid.UUID) ([]*catalog.ServiceFieldDefinition, error)
	GetLocationByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error)
}

// QuoteResolver supplies the price shown on the summary and saved with the
// reservation
type QuoteResolver interface {
	Resolve(ctx context.Context, req pricing.QuoteRequest) pricing.PriceQuote
}

// ReservationCreator is the backend the wizard submits to
type ReservationCreator interface {
	Create(ctx context.Context, req *reservations.CreateReservationRequest) (*reservations.Reservation, error)
}

// Service orchestrates the booking wizard: step transitions, draft
// mutations, validation, and the final one-shot submission.
type Service struct {
	store        DraftStore
	catalog      Catalog
	resolver     QuoteResolver
	reservations ReservationCreator
}

// NewService creates a new wizard service
func NewService(store DraftStore, cat Catalog, resolver QuoteResolver, creator ReservationCreator) *Service {
	return &Service{store: store, catalog: cat, resolver: resolver, reservations: creator}
}

// Get returns the draft for an ID, restoring a persisted one when present.
// A missing or expired draft starts over at the selection step; a completed
// draft is returned as-is so the client can show the confirmation view.
func (s *Service) Get(ctx context.Context, id string) (*drafts.ReservationDraft, error) {
	draft, err := s.store.Load(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrCompleted):
			return draft, nil
		case errors.Is(err, drafts.ErrNotFound):
			return drafts.NewDraft(id), nil
		}
		logger.WithContext(ctx).Error("Failed to load draft", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load draft")
	}
	return draft, nil
}

// UpdateSelection applies step 1 mutations. Switching to a different
// service clears the service-specific answers, since they belong to the old
// service's form.
func (s *Service) UpdateSelection(ctx context.Context, id string, req *UpdateSelectionRequest) (*drafts.ReservationDraft, error) {
	draft, err := s.loadOrNew(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ServiceID != nil {
		svc, err := s.catalog.GetServiceByID(ctx, *req.ServiceID)
		if err != nil {
			return nil, common.NewBadRequestError("unknown service", err)
		}
		if !svc.IsAvailable {
			return nil, common.NewBadRequestError("service is not available", nil)
		}
		if draft.SelectedService == nil || draft.SelectedService.ID != svc.ID {
			draft.ServiceFields = make(map[string]interface{})
		}
		draft.SelectedService = &drafts.ServiceRef{ID: svc.ID, Key: svc.Key, Name: svc.Name}
	}

	if req.VehicleCategoryID != nil {
		vc, err := s.catalog.GetVehicleCategoryByID(ctx, *req.VehicleCategoryID)
		if err != nil {
			return nil, common.NewBadRequestError("unknown vehicle category", err)
		}
		draft.SelectedVehicleCategory = &drafts.VehicleCategoryRef{
			ID:            vc.ID,
			Name:          vc.Name,
			MinPassengers: vc.MinPassengers,
			MaxPassengers: vc.MaxPassengers,
		}
	}

	if req.AdditionalServices != nil {
		if req.AdditionalServices.BabySeatCount < 0 || req.AdditionalServices.BoosterSeatCount < 0 {
			return nil, common.NewBadRequestError("seat counts cannot be negative", nil)
		}
		draft.AdditionalServices = *req.AdditionalServices
	}

	if err := s.store.Save(ctx, id, draft); err != nil {
		logger.WithContext(ctx).Error("Failed to save draft", zap.Error(err))
		return nil, common.NewInternalServerError("failed to save draft")
	}
	return draft, nil
}

// UpdateFields applies contact/trip and service-specific field mutations.
// An unset passenger count defaults to 1 on purpose: a traveler booking a
// transfer is at minimum one passenger.
func (s *Service) UpdateFields(ctx context.Context, id string, req *UpdateFieldsRequest) (*drafts.ReservationDraft, error) {
	draft, err := s.loadOrNew(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Contact != nil {
		contact := *req.Contact
		if contact.PassengerCount == 0 {
			contact.PassengerCount = 1
		}
		draft.Contact = contact
	}
	if draft.ServiceFields == nil {
		draft.ServiceFields = make(map[string]interface{})
	}
	for key, value := range req.ServiceFields {
		if value == nil {
			delete(draft.ServiceFields, key)
			continue
		}
		draft.ServiceFields[key] = value
	}

	if err := s.store.Save(ctx, id, draft); err != nil {
		logger.WithContext(ctx).Error("Failed to save draft", zap.Error(err))
		return nil, common.NewInternalServerError("failed to save draft")
	}
	return draft, nil
}

// Advance moves the draft one step forward when validation allows it. A
// failed validation returns the violations and leaves the step unchanged.
func (s *Service) Advance(ctx context.Context, id string) (*drafts.ReservationDraft, *Result, error) {
	draft, err := s.loadOrNew(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var result Result
	switch draft.CurrentStep {
	case drafts.StepSelection:
		result = CanAdvanceFromStep1(draft)
	case drafts.StepTripDetails:
		defs, err := s.fieldDefinitions(ctx, draft)
		if err != nil {
			return nil, nil, err
		}
		result = CanSubmit(draft, defs)
	default:
		return nil, nil, common.NewBadRequestError("already at the final step", nil)
	}

	if !result.OK {
		return draft, &result, nil
	}

	draft.CurrentStep++
	if err := s.store.Save(ctx, id, draft); err != nil {
		logger.WithContext(ctx).Error("Failed to save draft", zap.Error(err))
		return nil, nil, common.NewInternalServerError("failed to save draft")
	}
	return draft, &result, nil
}

// Back moves the draft one step backward. Backward transitions are always
// allowed while the booking is in progress.
func (s *Service) Back(ctx context.Context, id string) (*drafts.ReservationDraft, error) {
	draft, err := s.loadOrNew(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.CurrentStep > drafts.StepSelection {
		draft.CurrentStep--
		if err := s.store.Save(ctx, id, draft); err != nil {
			logger.WithContext(ctx).Error("Failed to save draft", zap.Error(err))
			return nil, common.NewInternalServerError("failed to save draft")
		}
	}
	return draft, nil
}

// Exit leaves the wizard. Discard clears the persisted draft; save is a
// no-op since every mutation is already persisted.
func (s *Service) Exit(ctx context.Context, id string, mode string) error {
	if mode != ExitModeDiscard {
		return nil
	}
	if err := s.store.Clear(ctx, id); err != nil {
		logger.WithContext(ctx).Error("Failed to clear draft", zap.Error(err))
		return common.NewInternalServerError("failed to clear draft")
	}
	return nil
}

// Submit validates the draft, resolves the final price, and creates the
// reservation exactly once. The draft keeps one idempotency key across
// retries so a resubmission after a timeout cannot book twice. On failure
// the draft is left untouched and the user can retry.
func (s *Service) Submit(ctx context.Context, id string) (*reservations.Reservation, *Result, error) {
	draft, err := s.store.Load(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrCompleted):
			return nil, nil, common.NewConflictError("booking already completed", err)
		case errors.Is(err, drafts.ErrNotFound):
			return nil, nil, common.NewNotFoundError("no booking in progress", err)
		}
		logger.WithContext(ctx).Error("Failed to load draft", zap.Error(err))
		return nil, nil, common.NewInternalServerError("failed to load draft")
	}

	defs, err := s.fieldDefinitions(ctx, draft)
	if err != nil {
		return nil, nil, err
	}
	result := CanSubmit(draft, defs)
	if !result.OK {
		return nil, &result, nil
	}

	if draft.IdempotencyKey == "" {
		draft.IdempotencyKey = uuid.New().String()
		if err := s.store.Save(ctx, id, draft); err != nil {
			logger.WithContext(ctx).Error("Failed to save draft", zap.Error(err))
			return nil, nil, common.NewInternalServerError("failed to save draft")
		}
	}

	route := resolveRoute(draft, defs)
	pickup := s.locationName(ctx, route.Pickup)
	destination := s.locationName(ctx, route.Destination)

	quote := s.resolver.Resolve(ctx, pricing.QuoteRequest{
		ServiceID:         draft.SelectedService.ID,
		VehicleCategoryID: draft.SelectedVehicleCategory.ID,
		Pickup:            pickup,
		Destination:       destination,
		Eligible:          draft.SelectedService.Key == catalog.AirportTransferServiceKey,
	})

	req := &reservations.CreateReservationRequest{
		ServiceID:         draft.SelectedService.ID,
		VehicleCategoryID: draft.SelectedVehicleCategory.ID,
		Contact: &reservations.ContactBlock{
			FirstName: draft.Contact.FirstName,
			LastName:  draft.Contact.LastName,
			Email:     draft.Contact.Email,
			Phone:     draft.Contact.Phone,
		},
		Trip: &reservations.TripBlock{
			Date:           draft.Contact.Date,
			Time:           draft.Contact.Time,
			Pickup:         pickup,
			Destination:    destination,
			PassengerCount: draft.Contact.PassengerCount,
			Notes:          draft.Contact.Notes,
		},
		AdditionalServices: &reservations.AdditionalServicesBlock{
			BabySeatCount:    draft.AdditionalServices.BabySeatCount,
			BoosterSeatCount: draft.AdditionalServices.BoosterSeatCount,
			MeetAndGreet:     draft.AdditionalServices.MeetAndGreet,
		},
		ServiceFields:  draft.ServiceFields,
		IdempotencyKey: draft.IdempotencyKey,
	}
	if quote.Available {
		req.TotalPrice = &quote.Amount
		req.Currency = quote.Currency
	}

	res, err := s.reservations.Create(ctx, req)
	if err != nil {
		logger.WithContext(ctx).Error("Reservation submission failed",
			zap.String("draft_id", id), zap.Error(err))
		return nil, nil, common.NewInternalServerError("submission failed, please try again")
	}

	draft.Completed = true
	draft.CurrentStep = drafts.StepSummary
	draft.ReservationID = &res.ID
	if err := s.store.Save(ctx, id, draft); err != nil {
		// The booking exists; losing the draft completion marker only
		// costs the user a confirmation redirect
		logger.WithContext(ctx).Warn("Failed to mark draft completed",
			zap.String("draft_id", id), zap.Error(err))
	}
	return res, &result, nil
}

func (s *Service) loadOrNew(ctx context.Context, id string) (*drafts.ReservationDraft, error) {
	draft, err := s.store.Load(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrCompleted):
			return nil, common.NewConflictError("booking already completed", err)
		case errors.Is(err, drafts.ErrNotFound):
			return drafts.NewDraft(id), nil
		}
		logger.WithContext(ctx).Error("Failed to load draft", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load draft")
	}
	return draft, nil
}

func (s *Service) fieldDefinitions(ctx context.Context, draft *drafts.ReservationDraft) ([]*catalog.ServiceFieldDefinition, error) {
	if draft.SelectedService == nil {
		return nil, nil
	}
	defs, err := s.catalog.GetFieldDefinitions(ctx, draft.SelectedService.ID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load field definitions", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load service form")
	}
	return defs, nil
}

// locationName resolves a location ID to its display name, falling back to
// the raw value for free-text entries.
func (s *Service) locationName(ctx context.Context, value string) string {
	id, err := uuid.Parse(value)
	if err != nil {
		return value
	}
	loc, err := s.catalog.GetLocationByID(ctx, id)
	if err != nil {
		return value
	}
	return loc.Name
}
