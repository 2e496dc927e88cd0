package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialuxe/transfer-booking/pkg/redis"
)

func cachedEnvelope(t *testing.T, fetchedAt time.Time, value interface{}) string {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	env, err := json.Marshal(envelope{FetchedAt: fetchedAt, Data: data})
	require.NoError(t, err)
	return string(env)
}

func TestReader_FreshCacheSkipsDatabase(t *testing.T) {
	db, mock := redismock.NewClientMock()
	// A nil repository proves the database is never touched on a fresh hit
	reader := NewReader(nil, redis.Wrap(db))

	services := []*Service{{ID: uuid.New(), Key: AirportTransferServiceKey, Name: "Airport Transfers", IsAvailable: true}}
	mock.ExpectGet(keyServices).SetVal(cachedEnvelope(t, time.Now(), services))

	got, err := reader.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, AirportTransferServiceKey, got[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReader_FieldDefinitionsFreshCacheHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	reader := NewReader(nil, redis.Wrap(db))

	serviceID := uuid.New()
	defs := []*ServiceFieldDefinition{{ServiceID: serviceID, Key: "flight_number", Label: "Flight number", Type: FieldTypeText, Required: true}}
	mock.ExpectGet(keyFieldDefsPrefix + serviceID.String()).SetVal(cachedEnvelope(t, time.Now(), defs))

	got, err := reader.GetFieldDefinitions(context.Background(), serviceID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "flight_number", got[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReader_InvalidateDropsCollections(t *testing.T) {
	db, mock := redismock.NewClientMock()
	reader := NewReader(nil, redis.Wrap(db))

	serviceID := uuid.New()
	mock.ExpectDel(
		keyCategories, keyServices, keyVehicleCategories, keyLocations, keyTestimonials,
		keyFieldDefsPrefix+serviceID.String(),
	).SetVal(6)

	reader.Invalidate(context.Background(), serviceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
