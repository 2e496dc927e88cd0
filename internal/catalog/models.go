package catalog

import (
	"time"

	"github.com/google/uuid"
)

// AirportTransferServiceKey identifies the service with live route pricing
// and the pickup/destination distinctness rule.
const AirportTransferServiceKey = "airport-transfers"

// FieldType is the input type of a service-specific form field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeLocation FieldType = "location"
)

// ServiceCategory groups services for browsing
type ServiceCategory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Service is a bookable transfer service
type Service struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Key          string     `json:"key" db:"key"`
	Name         string     `json:"name" db:"name"`
	Description  *string    `json:"description,omitempty" db:"description"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	PriceHintMin *float64   `json:"price_hint_min,omitempty" db:"price_hint_min"`
	PriceHintMax *float64   `json:"price_hint_max,omitempty" db:"price_hint_max"`
	IsPopular    bool       `json:"is_popular" db:"is_popular"`
	IsAvailable  bool       `json:"is_available" db:"is_available"`
	Features     []string   `json:"features"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ServiceFieldDefinition describes one input of a service's dynamic form.
// IsPickupField/IsDestinationField mark which answers feed route pricing.
type ServiceFieldDefinition struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ServiceID          uuid.UUID `json:"service_id" db:"service_id"`
	Key                string    `json:"key" db:"key"`
	Label              string    `json:"label" db:"label"`
	Type               FieldType `json:"type" db:"type"`
	Required           bool      `json:"required" db:"required"`
	IsPickupField      bool      `json:"is_pickup_field" db:"is_pickup_field"`
	IsDestinationField bool      `json:"is_destination_field" db:"is_destination_field"`
	Options            []string  `json:"options,omitempty"`
	SortOrder          int       `json:"sort_order" db:"sort_order"`
}

// VehicleCategory is a bookable vehicle class
type VehicleCategory struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	MinPassengers int       `json:"min_passengers" db:"min_passengers"`
	MaxPassengers int       `json:"max_passengers" db:"max_passengers"`
	ImageURL      *string   `json:"image_url,omitempty" db:"image_url"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Location is a known pickup/destination point
type Location struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Kind      string    `json:"kind" db:"kind"` // airport, station, city, landmark
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Testimonial is a published customer quote shown on the site
type Testimonial struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Author      string    `json:"author" db:"author"`
	Quote       string    `json:"quote" db:"quote"`
	Rating      int       `json:"rating" db:"rating"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ========================================
// ADMIN REQUESTS
// ========================================

// UpsertServiceRequest creates or updates a service
type UpsertServiceRequest struct {
	Key          string     `json:"key" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	Description  *string    `json:"description"`
	CategoryID   *uuid.UUID `json:"category_id"`
	PriceHintMin *float64   `json:"price_hint_min"`
	PriceHintMax *float64   `json:"price_hint_max"`
	IsPopular    bool       `json:"is_popular"`
	IsAvailable  *bool      `json:"is_available"`
	Features     []string   `json:"features"`
}

// UpsertVehicleCategoryRequest creates or updates a vehicle category
type UpsertVehicleCategoryRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description"`
	MinPassengers int     `json:"min_passengers" binding:"required,gte=1"`
	MaxPassengers int     `json:"max_passengers" binding:"required,gte=1"`
	ImageURL      *string `json:"image_url"`
	IsActive      *bool   `json:"is_active"`
}

// UpsertLocationRequest creates or updates a location
type UpsertLocationRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required,oneof=airport station city landmark"`
	IsActive *bool  `json:"is_active"`
}

// UpsertTestimonialRequest creates or updates a testimonial
type UpsertTestimonialRequest struct {
	Author      string `json:"author" binding:"required"`
	Quote       string `json:"quote" binding:"required"`
	Rating      int    `json:"rating" binding:"required,gte=1,lte=5"`
	IsPublished bool   `json:"is_published"`
}

// CreateFieldDefinitionRequest adds a field to a service's dynamic form
type CreateFieldDefinitionRequest struct {
	Key                string   `json:"key" binding:"required"`
	Label              string   `json:"label" binding:"required"`
	Type               string   `json:"type" binding:"required,oneof=text number select date time location"`
	Required           bool     `json:"required"`
	IsPickupField      bool     `json:"is_pickup_field"`
	IsDestinationField bool     `json:"is_destination_field"`
	Options            []string `json:"options"`
	SortOrder          int      `json:"sort_order"`
}
