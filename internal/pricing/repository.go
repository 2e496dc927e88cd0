package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRate is returned when no active rate covers the requested route
var ErrNoRate = errors.New("no rate for route")

// Repository handles database operations for route rates
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new pricing repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LookupRate finds the active rate for a route. Pickup and destination are
// matched case-insensitively on trimmed values.
func (r *Repository) LookupRate(ctx context.Context, serviceID, vehicleCategoryID uuid.UUID, pickup, destination string) (*RouteRate, error) {
	query := `
		SELECT id, service_id, vehicle_category_id, pickup_location, destination_location,
		       amount, currency, is_active, created_at, updated_at
		FROM route_rates
		WHERE service_id = $1
		  AND vehicle_category_id = $2
		  AND LOWER(TRIM(pickup_location)) = LOWER(TRIM($3))
		  AND LOWER(TRIM(destination_location)) = LOWER(TRIM($4))
		  AND is_active = true
		LIMIT 1
	`
	rate := &RouteRate{}
	err := r.db.QueryRow(ctx, query, serviceID, vehicleCategoryID, pickup, destination).Scan(
		&rate.ID, &rate.ServiceID, &rate.VehicleCategoryID,
		&rate.PickupLocation, &rate.DestinationLocation,
		&rate.Amount, &rate.Currency, &rate.IsActive,
		&rate.CreatedAt, &rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRate
		}
		return nil, fmt.Errorf("failed to look up route rate: %w", err)
	}
	return rate, nil
}

// ListRates lists route rates with pagination
func (r *Repository) ListRates(ctx context.Context, limit, offset int, includeInactive bool) ([]*RouteRate, int64, error) {
	whereClause := ""
	if !includeInactive {
		whereClause = "WHERE is_active = true"
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM route_rates %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count route rates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, service_id, vehicle_category_id, pickup_location, destination_location,
		       amount, currency, is_active, created_at, updated_at
		FROM route_rates %s
		ORDER BY pickup_location, destination_location
		LIMIT $1 OFFSET $2
	`, whereClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list route rates: %w", err)
	}
	defer rows.Close()

	items := make([]*RouteRate, 0)
	for rows.Next() {
		rate := &RouteRate{}
		err := rows.Scan(
			&rate.ID, &rate.ServiceID, &rate.VehicleCategoryID,
			&rate.PickupLocation, &rate.DestinationLocation,
			&rate.Amount, &rate.Currency, &rate.IsActive,
			&rate.CreatedAt, &rate.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan route rate: %w", err)
		}
		items = append(items, rate)
	}
	return items, total, nil
}

// CreateRate creates a new route rate
func (r *Repository) CreateRate(ctx context.Context, rate *RouteRate) error {
	query := `
		INSERT INTO route_rates (id, service_id, vehicle_category_id, pickup_location,
		       destination_location, amount, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	rate.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		rate.ID, rate.ServiceID, rate.VehicleCategoryID, rate.PickupLocation,
		rate.DestinationLocation, rate.Amount, rate.Currency, rate.IsActive,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route rate: %w", err)
	}
	return nil
}

// UpdateRate updates a route rate
func (r *Repository) UpdateRate(ctx context.Context, rate *RouteRate) error {
	query := `
		UPDATE route_rates SET
			service_id = $2, vehicle_category_id = $3, pickup_location = $4,
			destination_location = $5, amount = $6, currency = $7, is_active = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		rate.ID, rate.ServiceID, rate.VehicleCategoryID, rate.PickupLocation,
		rate.DestinationLocation, rate.Amount, rate.Currency, rate.IsActive,
	).Scan(&rate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("route rate not found")
		}
		return fmt.Errorf("failed to update route rate: %w", err)
	}
	return nil
}

// DeleteRate soft-deletes a route rate
func (r *Repository) DeleteRate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE route_rates SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route rate: %w", err)
	}
	return nil
}
