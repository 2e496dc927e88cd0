package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/redis"
	"go.uber.org/zap"
)

const (
	cacheFreshFor = 5 * time.Minute
	cacheKeepFor  = time.Hour

	keyCategories        = "catalog:categories"
	keyServices          = "catalog:services"
	keyVehicleCategories = "catalog:vehicle-categories"
	keyLocations         = "catalog:locations"
	keyTestimonials      = "catalog:testimonials"
	keyFieldDefsPrefix   = "catalog:field-defs:"
)

// Reader serves catalog reference data through a redis cache. Entries stay
// usable past their freshness window: when a refresh fails the last cached
// value is served instead of an error.
type Reader struct {
	repo  *Repository
	cache *redis.Client
}

// NewReader creates a cached catalog reader
func NewReader(repo *Repository, cache *redis.Client) *Reader {
	return &Reader{repo: repo, cache: cache}
}

// envelope wraps a cached collection with its fetch time
type envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// loadCached reads a cache envelope. Returns whether a value was found and
// whether it is still fresh.
func (r *Reader) loadCached(ctx context.Context, key string, dest interface{}) (found, fresh bool) {
	var env envelope
	if err := r.cache.GetJSON(ctx, key, &env); err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.WithContext(ctx).Warn("catalog cache read failed",
				zap.String("key", key), zap.Error(err))
		}
		return false, false
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		logger.WithContext(ctx).Warn("catalog cache entry corrupt",
			zap.String("key", key), zap.Error(err))
		return false, false
	}
	return true, time.Since(env.FetchedAt) < cacheFreshFor
}

// storeCached writes a cache envelope, failures are logged and ignored
func (r *Reader) storeCached(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	env := envelope{FetchedAt: time.Now(), Data: data}
	if err := r.cache.SetJSON(ctx, key, env, cacheKeepFor); err != nil {
		logger.WithContext(ctx).Warn("catalog cache write failed",
			zap.String("key", key), zap.Error(err))
	}
}

// ListCategories returns active service categories
func (r *Reader) ListCategories(ctx context.Context) ([]*ServiceCategory, error) {
	var cached []*ServiceCategory
	found, fresh := r.loadCached(ctx, keyCategories, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.ListCategories(ctx)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale service categories", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, keyCategories, items)
	return items, nil
}

// ListServices returns available services
func (r *Reader) ListServices(ctx context.Context) ([]*Service, error) {
	var cached []*Service
	found, fresh := r.loadCached(ctx, keyServices, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.ListServices(ctx)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale services", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, keyServices, items)
	return items, nil
}

// GetServiceByID returns a single service, bypassing the collection cache
func (r *Reader) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	return r.repo.GetServiceByID(ctx, id)
}

// GetFieldDefinitions returns the dynamic form fields for a service
func (r *Reader) GetFieldDefinitions(ctx context.Context, serviceID uuid.UUID) ([]*ServiceFieldDefinition, error) {
	key := keyFieldDefsPrefix + serviceID.String()

	var cached []*ServiceFieldDefinition
	found, fresh := r.loadCached(ctx, key, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.GetFieldDefinitions(ctx, serviceID)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale field definitions",
				zap.String("service_id", serviceID.String()), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, key, items)
	return items, nil
}

// ListVehicleCategories returns active vehicle categories
func (r *Reader) ListVehicleCategories(ctx context.Context) ([]*VehicleCategory, error) {
	var cached []*VehicleCategory
	found, fresh := r.loadCached(ctx, keyVehicleCategories, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.ListVehicleCategories(ctx)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale vehicle categories", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, keyVehicleCategories, items)
	return items, nil
}

// GetVehicleCategoryByID returns a single vehicle category
func (r *Reader) GetVehicleCategoryByID(ctx context.Context, id uuid.UUID) (*VehicleCategory, error) {
	return r.repo.GetVehicleCategoryByID(ctx, id)
}

// ListLocations returns active locations
func (r *Reader) ListLocations(ctx context.Context) ([]*Location, error) {
	var cached []*Location
	found, fresh := r.loadCached(ctx, keyLocations, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.ListLocations(ctx)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale locations", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, keyLocations, items)
	return items, nil
}

// GetLocationByID returns a single location
func (r *Reader) GetLocationByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	return r.repo.GetLocationByID(ctx, id)
}

// ListTestimonials returns published testimonials
func (r *Reader) ListTestimonials(ctx context.Context) ([]*Testimonial, error) {
	var cached []*Testimonial
	found, fresh := r.loadCached(ctx, keyTestimonials, &cached)
	if found && fresh {
		return cached, nil
	}

	items, err := r.repo.ListTestimonials(ctx)
	if err != nil {
		if found {
			logger.WithContext(ctx).Warn("serving stale testimonials", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	r.storeCached(ctx, keyTestimonials, items)
	return items, nil
}

// Invalidate drops cached collections after an admin write
func (r *Reader) Invalidate(ctx context.Context, serviceIDs ...uuid.UUID) {
	keys := []string{keyCategories, keyServices, keyVehicleCategories, keyLocations, keyTestimonials}
	for _, id := range serviceIDs {
		keys = append(keys, keyFieldDefsPrefix+id.String())
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.WithContext(ctx).Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
