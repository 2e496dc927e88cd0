package drafts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vialuxe/transfer-booking/pkg/redis"
)

func newTestStore(t *testing.T, now time.Time) (*Store, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	store := NewStore(redis.Wrap(db))
	store.now = func() time.Time { return now }
	return store, mock
}

func sampleDraft() *ReservationDraft {
	draft := NewDraft("draft-abc")
	draft.CurrentStep = StepTripDetails
	draft.SelectedService = &ServiceRef{Key: "airport-transfers", Name: "Airport Transfers"}
	draft.Contact.FirstName = "Ada"
	draft.Contact.Pickup = "CDG Airport"
	return draft
}

func marshalRecord(t *testing.T, draft *ReservationDraft, savedAt time.Time) []byte {
	t.Helper()
	data, err := json.Marshal(record{Draft: draft, SavedAt: savedAt})
	require.NoError(t, err)
	return data
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()
	data := marshalRecord(t, draft, now)

	mock.ExpectSet("draft:draft-abc", data, MaxDraftAge).SetVal("OK")
	mock.ExpectGet("draft:draft-abc").SetVal(string(data))

	require.NoError(t, store.Save(context.Background(), "draft-abc", draft))

	loaded, err := store.Load(context.Background(), "draft-abc")
	require.NoError(t, err)
	assert.Equal(t, draft, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadMissing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)

	mock.ExpectGet("draft:nope").RedisNil()

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadStaleEvicts(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()

	// Written eight days ago, one past the staleness limit
	data := marshalRecord(t, draft, now.Add(-8*24*time.Hour))
	mock.ExpectGet("draft:draft-abc").SetVal(string(data))
	mock.ExpectDel("draft:draft-abc").SetVal(1)

	_, err := store.Load(context.Background(), "draft-abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadJustUnderStalenessLimit(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()

	data := marshalRecord(t, draft, now.Add(-MaxDraftAge).Add(time.Minute))
	mock.ExpectGet("draft:draft-abc").SetVal(string(data))

	loaded, err := store.Load(context.Background(), "draft-abc")
	require.NoError(t, err)
	assert.Equal(t, draft, loaded)
}

func TestStore_LoadCompletedNotResumable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()
	draft.Completed = true

	data := marshalRecord(t, draft, now)
	mock.ExpectGet("draft:draft-abc").SetVal(string(data))

	loaded, err := store.Load(context.Background(), "draft-abc")
	assert.ErrorIs(t, err, ErrCompleted)
	if assert.NotNil(t, loaded) {
		assert.True(t, loaded.Completed)
	}
}

func TestStore_Clear(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)

	mock.ExpectDel("draft:draft-abc").SetVal(1)
	assert.NoError(t, store.Clear(context.Background(), "draft-abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveNotifiesListeners(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()
	data := marshalRecord(t, draft, now)

	mock.ExpectSet("draft:draft-abc", data, MaxDraftAge).SetVal("OK")

	var events []SavedEvent
	store.AddListener(func(e SavedEvent) { events = append(events, e) })

	require.NoError(t, store.Save(context.Background(), "draft-abc", draft))

	require.Len(t, events, 1)
	assert.Equal(t, "draft-abc", events[0].DraftID)
	assert.Equal(t, StepTripDetails, events[0].Step)
	assert.Equal(t, now, events[0].SavedAt)
}

func TestStore_SaveErrorDoesNotNotify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(t, now)
	draft := sampleDraft()
	data := marshalRecord(t, draft, now)

	mock.ExpectSet("draft:draft-abc", data, MaxDraftAge).SetErr(assert.AnError)

	called := false
	store.AddListener(func(SavedEvent) { called = true })

	err := store.Save(context.Background(), "draft-abc", draft)
	assert.Error(t, err)
	assert.False(t, called)
}
