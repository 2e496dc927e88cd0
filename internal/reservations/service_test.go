package reservations

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialuxe/transfer-booking/pkg/common"
)

func validCreateRequest() *CreateReservationRequest {
	return &CreateReservationRequest{
		ServiceID:         uuid.New(),
		VehicleCategoryID: uuid.New(),
		Contact: &ContactBlock{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+33123456789",
		},
		Trip: &TripBlock{
			Date:           "2025-06-01",
			Time:           "14:00",
			Pickup:         "CDG Airport",
			Destination:    "Hôtel de Ville, Paris",
			PassengerCount: 2,
		},
	}
}

func TestCreate_MissingBlocksAreNamed(t *testing.T) {
	svc := NewService(nil)

	tests := []struct {
		name   string
		mutate func(*CreateReservationRequest)
		block  string
	}{
		{"missing contact", func(r *CreateReservationRequest) { r.Contact = nil }, "contact"},
		{"missing trip", func(r *CreateReservationRequest) { r.Trip = nil }, "trip"},
		{"missing service", func(r *CreateReservationRequest) { r.ServiceID = uuid.Nil }, "service_id"},
		{"missing vehicle category", func(r *CreateReservationRequest) { r.VehicleCategoryID = uuid.Nil }, "vehicle_category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)

			appErr, ok := err.(*common.AppError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Contains(t, appErr.Message, tt.block)
		})
	}
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(nil)
	req := validCreateRequest()
	req.Status = "shipped"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "shipped")
}

func TestList_RejectsUnknownStatusFilter(t *testing.T) {
	svc := NewService(nil)

	_, _, err := svc.List(context.Background(), "archived", 20, 0)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "cancelled")
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}
