package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a reservation does not exist
var ErrNotFound = errors.New("reservation not found")

const uniqueViolationCode = "23505"

// Repository handles database operations for customers and reservations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new reservations repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// UpsertCustomer inserts a customer or refreshes an existing one matched by
// email, and fills in the customer ID either way.
func (r *Repository) UpsertCustomer(ctx context.Context, customer *Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, LOWER($4), $5)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		uuid.New(), customer.FirstName, customer.LastName, customer.Email, customer.Phone,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// CreateReservation inserts a reservation. When the idempotency key collides
// with an earlier insert, the original record is returned instead and the
// duplicate flag is set.
func (r *Repository) CreateReservation(ctx context.Context, res *Reservation) (duplicate bool, err error) {
	extras, err := json.Marshal(res.AdditionalServices)
	if err != nil {
		return false, fmt.Errorf("failed to encode additional services: %w", err)
	}
	fields, err := json.Marshal(res.ServiceFields)
	if err != nil {
		return false, fmt.Errorf("failed to encode service fields: %w", err)
	}

	query := `
		INSERT INTO reservations (id, customer_id, service_id, vehicle_category_id, status,
			trip_date, trip_time, pickup, destination, passenger_count, notes,
			total_price, currency, additional_services, service_fields, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	res.ID = uuid.New()
	err = r.db.QueryRow(ctx, query,
		res.ID, res.CustomerID, res.ServiceID, res.VehicleCategoryID, res.Status,
		res.Date, res.Time, res.Pickup, res.Destination, res.PassengerCount, res.Notes,
		res.TotalPrice, res.Currency, extras, fields, res.IdempotencyKey,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && res.IdempotencyKey != nil {
			existing, lookupErr := r.GetByIdempotencyKey(ctx, *res.IdempotencyKey)
			if lookupErr != nil {
				return false, fmt.Errorf("failed to load reservation for retried key: %w", lookupErr)
			}
			*res = *existing
			return true, nil
		}
		return false, fmt.Errorf("failed to create reservation: %w", err)
	}
	return false, nil
}

const reservationColumns = `
	id, customer_id, service_id, vehicle_category_id, status,
	trip_date, trip_time, pickup, destination, passenger_count, notes,
	total_price, currency, additional_services, service_fields, idempotency_key,
	created_at, updated_at
`

func scanReservation(row pgx.Row) (*Reservation, error) {
	res := &Reservation{}
	var extras, fields []byte
	err := row.Scan(
		&res.ID, &res.CustomerID, &res.ServiceID, &res.VehicleCategoryID, &res.Status,
		&res.Date, &res.Time, &res.Pickup, &res.Destination, &res.PassengerCount, &res.Notes,
		&res.TotalPrice, &res.Currency, &extras, &fields, &res.IdempotencyKey,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &res.AdditionalServices); err != nil {
			return nil, fmt.Errorf("failed to decode additional services: %w", err)
		}
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &res.ServiceFields); err != nil {
			return nil, fmt.Errorf("failed to decode service fields: %w", err)
		}
	}
	return res, nil
}

// GetByID fetches a reservation with its customer
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationColumns)
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if err := r.attachCustomer(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetByIdempotencyKey fetches the reservation created with a given key
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE idempotency_key = $1`, reservationColumns)
	res, err := scanReservation(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by key: %w", err)
	}
	return res, nil
}

// List lists reservations newest first, optionally filtered by status
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Reservation, int64, error) {
	whereClause := ""
	args := []interface{}{}
	if status != "" {
		whereClause = "WHERE status = $1"
		args = append(args, status)
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reservations %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM reservations %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, reservationColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	items := make([]*Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reservation: %w", err)
		}
		items = append(items, res)
	}
	return items, total, nil
}

// UpdateStatus moves a reservation to a new status
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Reservation, error) {
	query := fmt.Sprintf(`
		UPDATE reservations SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING %s
	`, reservationColumns)
	res, err := scanReservation(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}
	return res, nil
}

func (r *Repository) attachCustomer(ctx context.Context, res *Reservation) error {
	query := `
		SELECT id, first_name, last_name, email, phone, created_at, updated_at
		FROM customers WHERE id = $1
	`
	customer := &Customer{}
	err := r.db.QueryRow(ctx, query, res.CustomerID).Scan(
		&customer.ID, &customer.FirstName, &customer.LastName,
		&customer.Email, &customer.Phone, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}
	res.Customer = customer
	return nil
}
