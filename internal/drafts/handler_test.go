package drafts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, now time.Time) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, mock := newTestStore(t, now)
	router := gin.New()
	NewHandler(store, nil).RegisterRoutes(router)
	return router, mock
}

func TestPutDraft_StoresBody(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router, mock := newTestRouter(t, now)
	draft := sampleDraft()

	body, err := json.Marshal(draft)
	require.NoError(t, err)

	mock.ExpectGet("draft:draft-abc").RedisNil()
	mock.ExpectSet("draft:draft-abc", marshalRecord(t, draft, now), MaxDraftAge).SetVal("OK")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/drafts/draft-abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutDraft_CompletedDraftConflict(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router, mock := newTestRouter(t, now)

	confirmed := sampleDraft()
	confirmed.Completed = true
	mock.ExpectGet("draft:draft-abc").SetVal(string(marshalRecord(t, confirmed, now)))

	// An overwrite that would make the booking look resumable again
	body := `{"completed":false,"current_step":1}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/drafts/draft-abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	// No SET was queued, so any write attempt would have failed the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDraft_CompletedHidden(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router, mock := newTestRouter(t, now)

	confirmed := sampleDraft()
	confirmed.Completed = true
	mock.ExpectGet("draft:draft-abc").SetVal(string(marshalRecord(t, confirmed, now)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/draft-abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
