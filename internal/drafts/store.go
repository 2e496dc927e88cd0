package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/redis"
	"go.uber.org/zap"
)

// MaxDraftAge is how long an untouched draft stays resumable
const MaxDraftAge = 7 * 24 * time.Hour

var (
	// ErrNotFound is returned when no usable draft exists under an id
	ErrNotFound = errors.New("draft not found")
	// ErrCompleted is returned with the draft once it has been submitted;
	// completed drafts are read-only confirmation state, not resumable
	ErrCompleted = errors.New("draft already completed")
)

// Listener receives save notifications
type Listener func(SavedEvent)

// Store persists reservation drafts in redis. Writes are last-write-wins:
// concurrent editors of the same draft are not coordinated.
type Store struct {
	client    *redis.Client
	listeners []Listener
	now       func() time.Time
}

// NewStore creates a draft store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// AddListener registers a callback fired after every successful save
func (s *Store) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// record is the stored envelope: the draft plus its last write time
type record struct {
	Draft   *ReservationDraft `json:"draft"`
	SavedAt time.Time         `json:"saved_at"`
}

func draftKey(id string) string {
	return "draft:" + id
}

// Load returns the draft stored under id. Entries older than MaxDraftAge are
// evicted and reported as not found; completed drafts are not resumable.
func (s *Store) Load(ctx context.Context, id string) (*ReservationDraft, error) {
	var rec record
	err := s.client.GetJSON(ctx, draftKey(id), &rec)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	if s.now().Sub(rec.SavedAt) > MaxDraftAge {
		if err := s.client.Delete(ctx, draftKey(id)); err != nil {
			logger.WithContext(ctx).Warn("failed to evict stale draft",
				zap.String("draft_id", id), zap.Error(err))
		}
		return nil, ErrNotFound
	}

	if rec.Draft == nil {
		return nil, ErrNotFound
	}
	if rec.Draft.Completed {
		return rec.Draft, ErrCompleted
	}

	return rec.Draft, nil
}

// Save writes the draft with a fresh timestamp and notifies listeners
func (s *Store) Save(ctx context.Context, id string, draft *ReservationDraft) error {
	savedAt := s.now()
	rec := record{Draft: draft, SavedAt: savedAt}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", id, err)
	}

	if err := s.client.Set(ctx, draftKey(id), data, MaxDraftAge).Err(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", id, err)
	}

	event := SavedEvent{
		DraftID:   id,
		Step:      draft.CurrentStep,
		Completed: draft.Completed,
		SavedAt:   savedAt,
	}
	for _, l := range s.listeners {
		l(event)
	}

	return nil
}

// Clear removes the draft, used on explicit reset
func (s *Store) Clear(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, draftKey(id)); err != nil {
		return fmt.Errorf("failed to clear draft %s: %w", id, err)
	}
	return nil
}
