package reservations

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/logger"
)

// Service handles reservation business logic
type Service struct {
	repo *Repository
}

// NewService creates a new reservations service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates a create request, upserts the customer and inserts the
// reservation. Retried submissions carrying a known idempotency key return
// the originally created record.
func (s *Service) Create(ctx context.Context, req *CreateReservationRequest) (*Reservation, error) {
	if req.Contact == nil {
		return nil, common.NewBadRequestError("missing required block: contact", nil)
	}
	if req.Trip == nil {
		return nil, common.NewBadRequestError("missing required block: trip", nil)
	}
	if req.ServiceID == uuid.Nil {
		return nil, common.NewBadRequestError("missing required block: service_id", nil)
	}
	if req.VehicleCategoryID == uuid.Nil {
		return nil, common.NewBadRequestError("missing required block: vehicle_category_id", nil)
	}

	status := req.Status
	if status == "" {
		status = StatusQuote
	}
	if !ValidStatuses[status] {
		return nil, common.NewBadRequestError("invalid status: "+status, nil)
	}

	passengerCount := req.Trip.PassengerCount
	if passengerCount < 1 {
		passengerCount = 1
	}

	customer := &Customer{
		FirstName: strings.TrimSpace(req.Contact.FirstName),
		LastName:  strings.TrimSpace(req.Contact.LastName),
		Email:     strings.TrimSpace(req.Contact.Email),
		Phone:     strings.TrimSpace(req.Contact.Phone),
	}
	if err := s.repo.UpsertCustomer(ctx, customer); err != nil {
		logger.WithContext(ctx).Error("Failed to upsert customer", zap.Error(err))
		return nil, common.NewInternalServerError("failed to save customer")
	}

	currency := req.Currency
	if currency == "" && req.TotalPrice != nil {
		currency = "EUR"
	}

	res := &Reservation{
		CustomerID:         customer.ID,
		ServiceID:          req.ServiceID,
		VehicleCategoryID:  req.VehicleCategoryID,
		Status:             status,
		Date:               req.Trip.Date,
		Time:               req.Trip.Time,
		Pickup:             req.Trip.Pickup,
		Destination:        req.Trip.Destination,
		PassengerCount:     passengerCount,
		Notes:              req.Trip.Notes,
		TotalPrice:         req.TotalPrice,
		Currency:           currency,
		AdditionalServices: req.AdditionalServices,
		ServiceFields:      req.ServiceFields,
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		res.IdempotencyKey = &key
	}

	duplicate, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to create reservation", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create reservation")
	}
	if duplicate {
		logger.WithContext(ctx).Info("Returning reservation for retried idempotency key",
			zap.String("reservation_id", res.ID.String()))
	}

	res.Customer = customer
	return res, nil
}

// Get fetches a reservation by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, common.NewNotFoundError("reservation not found", err)
		}
		logger.WithContext(ctx).Error("Failed to get reservation", zap.Error(err))
		return nil, common.NewInternalServerError("failed to get reservation")
	}
	return res, nil
}

// List lists reservations, optionally filtered by status
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Reservation, int64, error) {
	if status != "" && !ValidStatuses[status] {
		return nil, 0, common.NewBadRequestError("invalid status: "+status, nil)
	}
	items, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list reservations", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to list reservations")
	}
	return items, total, nil
}

// UpdateStatus moves a reservation to a new status
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Reservation, error) {
	if !ValidStatuses[status] {
		return nil, common.NewBadRequestError("invalid status: "+status, nil)
	}
	res, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == ErrNotFound {
			return nil, common.NewNotFoundError("reservation not found", err)
		}
		logger.WithContext(ctx).Error("Failed to update reservation status", zap.Error(err))
		return nil, common.NewInternalServerError("failed to update reservation status")
	}
	return res, nil
}
