package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialuxe/transfer-booking/internal/catalog"
	"github.com/vialuxe/transfer-booking/internal/drafts"
	"github.com/vialuxe/transfer-booking/internal/pricing"
	"github.com/vialuxe/transfer-booking/internal/reservations"
)

type memoryStore struct {
	drafts map[string]*drafts.ReservationDraft
	saves  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{drafts: make(map[string]*drafts.ReservationDraft)}
}

func (m *memoryStore) Load(_ context.Context, id string) (*drafts.ReservationDraft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, drafts.ErrNotFound
	}
	clone := *draft
	if clone.Completed {
		return &clone, drafts.ErrCompleted
	}
	return &clone, nil
}

func (m *memoryStore) Save(_ context.Context, id string, draft *drafts.ReservationDraft) error {
	m.saves++
	clone := *draft
	m.drafts[id] = &clone
	return nil
}

func (m *memoryStore) Clear(_ context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

type fakeCatalog struct {
	services  map[uuid.UUID]*catalog.Service
	vehicles  map[uuid.UUID]*catalog.VehicleCategory
	fieldDefs map[uuid.UUID][]*catalog.ServiceFieldDefinition
	locations map[uuid.UUID]*catalog.Location
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	if svc, ok := f.services[id]; ok {
		return svc, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) GetVehicleCategoryByID(_ context.Context, id uuid.UUID) (*catalog.VehicleCategory, error) {
	if vc, ok := f.vehicles[id]; ok {
		return vc, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) GetFieldDefinitions(_ context.Context, serviceID uuid.UUID) ([]*catalog.ServiceFieldDefinition, error) {
	return f.fieldDefs[serviceID], nil
}

func (f *fakeCatalog) GetLocationByID(_ context.Context, id uuid.UUID) (*catalog.Location, error) {
	if loc, ok := f.locations[id]; ok {
		return loc, nil
	}
	return nil, catalog.ErrNotFound
}

type fakeResolver struct {
	quote pricing.PriceQuote
	last  pricing.QuoteRequest
}

func (f *fakeResolver) Resolve(_ context.Context, req pricing.QuoteRequest) pricing.PriceQuote {
	f.last = req
	return f.quote
}

type fakeCreator struct {
	err   error
	calls int
	keys  []string
	res   *reservations.Reservation
}

func (f *fakeCreator) Create(_ context.Context, req *reservations.CreateReservationRequest) (*reservations.Reservation, error) {
	f.calls++
	f.keys = append(f.keys, req.IdempotencyKey)
	if f.err != nil {
		return nil, f.err
	}
	res := f.res
	if res == nil {
		res = &reservations.Reservation{ID: uuid.New(), Status: reservations.StatusQuote}
	}
	return res, nil
}

type fixture struct {
	store    *memoryStore
	catalog  *fakeCatalog
	resolver *fakeResolver
	creator  *fakeCreator
	service  *Service

	airportID uuid.UUID
	sedanID   uuid.UUID
}

func newFixture() *fixture {
	airportID := uuid.New()
	sedanID := uuid.New()

	cat := &fakeCatalog{
		services: map[uuid.UUID]*catalog.Service{
			airportID: {ID: airportID, Key: catalog.AirportTransferServiceKey, Name: "Airport Transfers", IsAvailable: true},
		},
		vehicles: map[uuid.UUID]*catalog.VehicleCategory{
			sedanID: {ID: sedanID, Name: "Sedan", MinPassengers: 1, MaxPassengers: 4},
		},
		fieldDefs: map[uuid.UUID][]*catalog.ServiceFieldDefinition{
			airportID: {
				{Key: "flight_number", Label: "Flight number", Type: catalog.FieldTypeText, Required: true},
			},
		},
		locations: map[uuid.UUID]*catalog.Location{},
	}

	f := &fixture{
		store:     newMemoryStore(),
		catalog:   cat,
		resolver:  &fakeResolver{},
		creator:   &fakeCreator{},
		airportID: airportID,
		sedanID:   sedanID,
	}
	f.service = NewService(f.store, f.catalog, f.resolver, f.creator)
	return f
}

// readyDraft seeds a draft that passes submission validation
func (f *fixture) readyDraft(id string) {
	draft := drafts.NewDraft(id)
	draft.CurrentStep = drafts.StepSummary
	draft.SelectedService = &drafts.ServiceRef{ID: f.airportID, Key: catalog.AirportTransferServiceKey, Name: "Airport Transfers"}
	draft.SelectedVehicleCategory = &drafts.VehicleCategoryRef{ID: f.sedanID, Name: "Sedan", MinPassengers: 1, MaxPassengers: 4}
	draft.ServiceFields["flight_number"] = "AF1234"
	draft.Contact = drafts.ContactTripFields{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Phone:          "+33123456789",
		Date:           "2025-06-01",
		Time:           "14:00",
		Pickup:         "CDG Airport",
		Destination:    "Hôtel de Ville, Paris",
		PassengerCount: 2,
	}
	f.store.drafts[id] = draft
}

func TestGet_StartsAtSelectionStep(t *testing.T) {
	f := newFixture()

	draft, err := f.service.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepSelection, draft.CurrentStep)
	assert.Nil(t, draft.SelectedService)
}

func TestGet_RestoresPersistedDraft(t *testing.T) {
	f := newFixture()
	saved := drafts.NewDraft("resume")
	saved.CurrentStep = drafts.StepTripDetails
	saved.SelectedService = &drafts.ServiceRef{ID: f.airportID, Key: catalog.AirportTransferServiceKey, Name: "Airport Transfers"}
	f.store.drafts["resume"] = saved

	draft, err := f.service.Get(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepTripDetails, draft.CurrentStep)
	require.NotNil(t, draft.SelectedService)
	assert.Equal(t, catalog.AirportTransferServiceKey, draft.SelectedService.Key)
}

func TestAdvance_BlockedWithoutSelections(t *testing.T) {
	f := newFixture()

	draft, result, err := f.service.Advance(context.Background(), "d1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.OK)
	assert.Len(t, result.Violations, 2)
	assert.Equal(t, drafts.StepSelection, draft.CurrentStep)
	assert.Zero(t, f.store.saves, "a failed validation must not persist a transition")
}

func TestAdvance_MovesToTripDetails(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateSelection(context.Background(), "d1", &UpdateSelectionRequest{
		ServiceID:         &f.airportID,
		VehicleCategoryID: &f.sedanID,
	})
	require.NoError(t, err)

	draft, result, err := f.service.Advance(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, drafts.StepTripDetails, draft.CurrentStep)
	assert.Equal(t, drafts.StepTripDetails, f.store.drafts["d1"].CurrentStep)
}

func TestUpdateSelection_ServiceChangeClearsServiceFields(t *testing.T) {
	f := newFixture()
	otherID := uuid.New()
	f.catalog.services[otherID] = &catalog.Service{ID: otherID, Key: "hourly-chauffeur", Name: "Hourly Chauffeur", IsAvailable: true}

	_, err := f.service.UpdateSelection(context.Background(), "d1", &UpdateSelectionRequest{ServiceID: &f.airportID})
	require.NoError(t, err)
	_, err = f.service.UpdateFields(context.Background(), "d1", &UpdateFieldsRequest{
		ServiceFields: map[string]interface{}{"flight_number": "AF1234"},
	})
	require.NoError(t, err)

	draft, err := f.service.UpdateSelection(context.Background(), "d1", &UpdateSelectionRequest{ServiceID: &otherID})
	require.NoError(t, err)
	assert.Empty(t, draft.ServiceFields, "switching services must drop the old form answers")

	// Re-selecting the same service keeps the answers
	_, err = f.service.UpdateFields(context.Background(), "d1", &UpdateFieldsRequest{
		ServiceFields: map[string]interface{}{"duration_hours": float64(4)},
	})
	require.NoError(t, err)
	draft, err = f.service.UpdateSelection(context.Background(), "d1", &UpdateSelectionRequest{ServiceID: &otherID})
	require.NoError(t, err)
	assert.Equal(t, float64(4), draft.ServiceFields["duration_hours"])
}

func TestUpdateSelection_UnknownService(t *testing.T) {
	f := newFixture()
	unknown := uuid.New()

	_, err := f.service.UpdateSelection(context.Background(), "d1", &UpdateSelectionRequest{ServiceID: &unknown})
	require.Error(t, err)
	assert.Zero(t, f.store.saves)
}

func TestUpdateFields_DefaultsPassengerCountToOne(t *testing.T) {
	f := newFixture()

	draft, err := f.service.UpdateFields(context.Background(), "d1", &UpdateFieldsRequest{
		Contact: &drafts.ContactTripFields{FirstName: "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Contact.PassengerCount)

	// An explicit count is kept as-is
	draft, err = f.service.UpdateFields(context.Background(), "d1", &UpdateFieldsRequest{
		Contact: &drafts.ContactTripFields{FirstName: "Ada", PassengerCount: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, draft.Contact.PassengerCount)
}

func TestBack_StopsAtSelectionStep(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")

	draft, err := f.service.Back(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepTripDetails, draft.CurrentStep)

	draft, err = f.service.Back(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepSelection, draft.CurrentStep)

	draft, err = f.service.Back(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepSelection, draft.CurrentStep)
}

func TestExit_DiscardClearsDraft(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")

	require.NoError(t, f.service.Exit(context.Background(), "d1", ExitModeDiscard))
	_, err := f.store.Load(context.Background(), "d1")
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestExit_SaveKeepsDraft(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")

	require.NoError(t, f.service.Exit(context.Background(), "d1", ExitModeSave))
	_, err := f.store.Load(context.Background(), "d1")
	assert.NoError(t, err)
}

func TestSubmit_HappyPath(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")
	f.resolver.quote = pricing.PriceQuote{Available: true, Amount: 85, Currency: "EUR"}

	res, result, err := f.service.Submit(context.Background(), "d1")
	require.NoError(t, err)
	require.True(t, result.OK)
	require.NotNil(t, res)
	assert.NotEqual(t, uuid.Nil, res.ID)

	assert.Equal(t, 1, f.creator.calls)
	assert.NotEmpty(t, f.creator.keys[0])
	assert.True(t, f.resolver.last.Eligible)

	stored := f.store.drafts["d1"]
	assert.True(t, stored.Completed)
	require.NotNil(t, stored.ReservationID)
	assert.Equal(t, res.ID, *stored.ReservationID)

	// A resubmission is refused, and the wizard reports the confirmation
	// instead of resuming the steps
	_, _, err = f.service.Submit(context.Background(), "d1")
	require.Error(t, err)

	loaded, err := f.service.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, loaded.Completed)
	require.NotNil(t, loaded.ReservationID)
	assert.Equal(t, res.ID, *loaded.ReservationID)
}

func TestSubmit_ValidationFailureMakesNoCall(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")
	f.store.drafts["d1"].Contact.Email = ""

	res, result, err := f.service.Submit(context.Background(), "d1")
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, result)
	assert.False(t, result.OK)
	assert.Zero(t, f.creator.calls)
	assert.False(t, f.store.drafts["d1"].Completed)
}

func TestSubmit_FailureLeavesDraftRetryable(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")
	f.creator.err = errors.New("backend unavailable")

	_, _, err := f.service.Submit(context.Background(), "d1")
	require.Error(t, err)

	stored := f.store.drafts["d1"]
	assert.False(t, stored.Completed)
	firstKey := stored.IdempotencyKey
	require.NotEmpty(t, firstKey, "the idempotency key must survive a failed attempt")

	// The retry succeeds and reuses the same key
	f.creator.err = nil
	res, result, err := f.service.Submit(context.Background(), "d1")
	require.NoError(t, err)
	require.True(t, result.OK)
	require.NotNil(t, res)

	require.Len(t, f.creator.keys, 2)
	assert.Equal(t, firstKey, f.creator.keys[0])
	assert.Equal(t, firstKey, f.creator.keys[1])
}

func TestSubmit_ResolvesLocationNames(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")

	locID := uuid.New()
	f.catalog.locations[locID] = &catalog.Location{ID: locID, Name: "Charles de Gaulle Airport", Kind: "airport"}
	f.store.drafts["d1"].Contact.Pickup = locID.String()

	_, _, err := f.service.Submit(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Charles de Gaulle Airport", f.resolver.last.Pickup)
	// Free-text destination passes through untouched
	assert.Equal(t, "Hôtel de Ville, Paris", f.resolver.last.Destination)
}

func TestSubmit_NoQuoteStillSubmits(t *testing.T) {
	f := newFixture()
	f.readyDraft("d1")
	f.resolver.quote = pricing.PriceQuote{Available: false}

	res, result, err := f.service.Submit(context.Background(), "d1")
	require.NoError(t, err)
	require.True(t, result.OK)
	require.NotNil(t, res)
	assert.Equal(t, 1, f.creator.calls)
}
