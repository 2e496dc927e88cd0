package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a catalog row does not exist
var ErrNotFound = errors.New("catalog entry not found")

// Repository handles database operations for catalog reference data
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ========================================
// SERVICE CATEGORIES
// ========================================

// ListCategories lists active service categories ordered for display
func (r *Repository) ListCategories(ctx context.Context) ([]*ServiceCategory, error) {
	query := `
		SELECT id, name, slug, description, sort_order, is_active, created_at, updated_at
		FROM service_categories
		WHERE is_active = true
		ORDER BY sort_order, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list service categories: %w", err)
	}
	defer rows.Close()

	items := make([]*ServiceCategory, 0)
	for rows.Next() {
		sc := &ServiceCategory{}
		err := rows.Scan(
			&sc.ID, &sc.Name, &sc.Slug, &sc.Description, &sc.SortOrder,
			&sc.IsActive, &sc.CreatedAt, &sc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service category: %w", err)
		}
		items = append(items, sc)
	}
	return items, nil
}

// ========================================
// SERVICES
// ========================================

const serviceColumns = `id, key, name, description, category_id, price_hint_min,
	price_hint_max, is_popular, is_available, features, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	s := &Service{}
	err := row.Scan(
		&s.ID, &s.Key, &s.Name, &s.Description, &s.CategoryID,
		&s.PriceHintMin, &s.PriceHintMax, &s.IsPopular, &s.IsAvailable,
		&s.Features, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListServices lists available services
func (r *Repository) ListServices(ctx context.Context) ([]*Service, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM services
		WHERE is_available = true
		ORDER BY is_popular DESC, name
	`, serviceColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	items := make([]*Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		items = append(items, s)
	}
	return items, nil
}

// GetServiceByID retrieves a service by ID
func (r *Repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1`, serviceColumns)
	s, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// CreateService creates a new service
func (r *Repository) CreateService(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (id, key, name, description, category_id, price_hint_min,
		       price_hint_max, is_popular, is_available, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	s.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		s.ID, s.Key, s.Name, s.Description, s.CategoryID, s.PriceHintMin,
		s.PriceHintMax, s.IsPopular, s.IsAvailable, s.Features,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// UpdateService updates a service
func (r *Repository) UpdateService(ctx context.Context, s *Service) error {
	query := `
		UPDATE services SET
			key = $2, name = $3, description = $4, category_id = $5,
			price_hint_min = $6, price_hint_max = $7, is_popular = $8,
			is_available = $9, features = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		s.ID, s.Key, s.Name, s.Description, s.CategoryID, s.PriceHintMin,
		s.PriceHintMax, s.IsPopular, s.IsAvailable, s.Features,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update service: %w", err)
	}
	return nil
}

// DeleteService soft-deletes a service
func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE services SET is_available = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

// ========================================
// SERVICE FIELD DEFINITIONS
// ========================================

// GetFieldDefinitions retrieves the dynamic form fields for a service
func (r *Repository) GetFieldDefinitions(ctx context.Context, serviceID uuid.UUID) ([]*ServiceFieldDefinition, error) {
	query := `
		SELECT id, service_id, key, label, type, required,
		       is_pickup_field, is_destination_field, options, sort_order
		FROM service_field_definitions
		WHERE service_id = $1
		ORDER BY sort_order, key
	`
	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get field definitions: %w", err)
	}
	defer rows.Close()

	items := make([]*ServiceFieldDefinition, 0)
	for rows.Next() {
		fd := &ServiceFieldDefinition{}
		err := rows.Scan(
			&fd.ID, &fd.ServiceID, &fd.Key, &fd.Label, &fd.Type, &fd.Required,
			&fd.IsPickupField, &fd.IsDestinationField, &fd.Options, &fd.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field definition: %w", err)
		}
		items = append(items, fd)
	}
	return items, nil
}

// CreateFieldDefinition adds a field to a service's dynamic form
func (r *Repository) CreateFieldDefinition(ctx context.Context, fd *ServiceFieldDefinition) error {
	query := `
		INSERT INTO service_field_definitions (id, service_id, key, label, type, required,
		       is_pickup_field, is_destination_field, options, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	fd.ID = uuid.New()
	_, err := r.db.Exec(ctx, query,
		fd.ID, fd.ServiceID, fd.Key, fd.Label, fd.Type, fd.Required,
		fd.IsPickupField, fd.IsDestinationField, fd.Options, fd.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create field definition: %w", err)
	}
	return nil
}

// DeleteFieldDefinition removes a field from a service's dynamic form
func (r *Repository) DeleteFieldDefinition(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM service_field_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete field definition: %w", err)
	}
	return nil
}

// ========================================
// VEHICLE CATEGORIES
// ========================================

// ListVehicleCategories lists active vehicle categories
func (r *Repository) ListVehicleCategories(ctx context.Context) ([]*VehicleCategory, error) {
	query := `
		SELECT id, name, description, min_passengers, max_passengers, image_url,
		       is_active, created_at, updated_at
		FROM vehicle_categories
		WHERE is_active = true
		ORDER BY max_passengers, name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle categories: %w", err)
	}
	defer rows.Close()

	items := make([]*VehicleCategory, 0)
	for rows.Next() {
		vc := &VehicleCategory{}
		err := rows.Scan(
			&vc.ID, &vc.Name, &vc.Description, &vc.MinPassengers, &vc.MaxPassengers,
			&vc.ImageURL, &vc.IsActive, &vc.CreatedAt, &vc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle category: %w", err)
		}
		items = append(items, vc)
	}
	return items, nil
}

// GetVehicleCategoryByID retrieves a vehicle category by ID
func (r *Repository) GetVehicleCategoryByID(ctx context.Context, id uuid.UUID) (*VehicleCategory, error) {
	query := `
		SELECT id, name, description, min_passengers, max_passengers, image_url,
		       is_active, created_at, updated_at
		FROM vehicle_categories WHERE id = $1
	`
	vc := &VehicleCategory{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vc.ID, &vc.Name, &vc.Description, &vc.MinPassengers, &vc.MaxPassengers,
		&vc.ImageURL, &vc.IsActive, &vc.CreatedAt, &vc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle category: %w", err)
	}
	return vc, nil
}

// CreateVehicleCategory creates a new vehicle category
func (r *Repository) CreateVehicleCategory(ctx context.Context, vc *VehicleCategory) error {
	query := `
		INSERT INTO vehicle_categories (id, name, description, min_passengers,
		       max_passengers, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	vc.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		vc.ID, vc.Name, vc.Description, vc.MinPassengers, vc.MaxPassengers,
		vc.ImageURL, vc.IsActive,
	).Scan(&vc.CreatedAt, &vc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create vehicle category: %w", err)
	}
	return nil
}

// UpdateVehicleCategory updates a vehicle category
func (r *Repository) UpdateVehicleCategory(ctx context.Context, vc *VehicleCategory) error {
	query := `
		UPDATE vehicle_categories SET
			name = $2, description = $3, min_passengers = $4, max_passengers = $5,
			image_url = $6, is_active = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		vc.ID, vc.Name, vc.Description, vc.MinPassengers, vc.MaxPassengers,
		vc.ImageURL, vc.IsActive,
	).Scan(&vc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update vehicle category: %w", err)
	}
	return nil
}

// DeleteVehicleCategory soft-deletes a vehicle category
func (r *Repository) DeleteVehicleCategory(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE vehicle_categories SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle category: %w", err)
	}
	return nil
}

// ========================================
// LOCATIONS
// ========================================

// ListLocations lists active locations
func (r *Repository) ListLocations(ctx context.Context) ([]*Location, error) {
	query := `
		SELECT id, name, kind, is_active, created_at, updated_at
		FROM locations
		WHERE is_active = true
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	items := make([]*Location, 0)
	for rows.Next() {
		l := &Location{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		items = append(items, l)
	}
	return items, nil
}

// GetLocationByID retrieves a location by ID
func (r *Repository) GetLocationByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	query := `SELECT id, name, kind, is_active, created_at, updated_at FROM locations WHERE id = $1`
	l := &Location{}
	err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.Kind, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return l, nil
}

// CreateLocation creates a new location
func (r *Repository) CreateLocation(ctx context.Context, l *Location) error {
	query := `
		INSERT INTO locations (id, name, kind, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	l.ID = uuid.New()
	err := r.db.QueryRow(ctx, query, l.ID, l.Name, l.Kind, l.IsActive).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// UpdateLocation updates a location
func (r *Repository) UpdateLocation(ctx context.Context, l *Location) error {
	query := `
		UPDATE locations SET name = $2, kind = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, l.ID, l.Name, l.Kind, l.IsActive).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

// DeleteLocation soft-deletes a location
func (r *Repository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE locations SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

// ========================================
// TESTIMONIALS
// ========================================

// ListTestimonials lists published testimonials
func (r *Repository) ListTestimonials(ctx context.Context) ([]*Testimonial, error) {
	query := `
		SELECT id, author, quote, rating, is_published, created_at, updated_at
		FROM testimonials
		WHERE is_published = true
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	items := make([]*Testimonial, 0)
	for rows.Next() {
		tm := &Testimonial{}
		if err := rows.Scan(&tm.ID, &tm.Author, &tm.Quote, &tm.Rating, &tm.IsPublished, &tm.CreatedAt, &tm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		items = append(items, tm)
	}
	return items, nil
}

// CreateTestimonial creates a new testimonial
func (r *Repository) CreateTestimonial(ctx context.Context, tm *Testimonial) error {
	query := `
		INSERT INTO testimonials (id, author, quote, rating, is_published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	tm.ID = uuid.New()
	err := r.db.QueryRow(ctx, query, tm.ID, tm.Author, tm.Quote, tm.Rating, tm.IsPublished).Scan(&tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

// UpdateTestimonial updates a testimonial
func (r *Repository) UpdateTestimonial(ctx context.Context, tm *Testimonial) error {
	query := `
		UPDATE testimonials SET author = $2, quote = $3, rating = $4,
			is_published = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, tm.ID, tm.Author, tm.Quote, tm.Rating, tm.IsPublished).Scan(&tm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update testimonial: %w", err)
	}
	return nil
}

// DeleteTestimonial removes a testimonial
func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return nil
}
