package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/redis"
)

const quoteCacheTTL = 10 * time.Minute

// RateSource looks up the rate for a route
type RateSource interface {
	LookupRate(ctx context.Context, serviceID, vehicleCategoryID uuid.UUID, pickup, destination string) (*RouteRate, error)
}

// Resolver resolves price quotes for booking routes. Identical in-flight
// lookups are collapsed into one, and resolved quotes are cached so that
// repeated requests for the same route do not hit the database.
type Resolver struct {
	rates RateSource
	cache *redis.Client // nil disables caching
	group singleflight.Group
}

// NewResolver creates a new price resolver
func NewResolver(rates RateSource, cache *redis.Client) *Resolver {
	return &Resolver{rates: rates, cache: cache}
}

// Resolve returns the price for a request. An unavailable quote is not an
// error: ineligible services, incomplete routes, and unknown routes all
// resolve to Available=false so the caller can fall back to a price range.
func (r *Resolver) Resolve(ctx context.Context, req QuoteRequest) PriceQuote {
	if !req.Eligible {
		return PriceQuote{Available: false}
	}

	pickup := normalizeRouteValue(req.Pickup)
	destination := normalizeRouteValue(req.Destination)
	if req.ServiceID == uuid.Nil || req.VehicleCategoryID == uuid.Nil || pickup == "" || destination == "" {
		return PriceQuote{Available: false}
	}

	key := fmt.Sprintf("quote:%s:%s:%s:%s", req.ServiceID, req.VehicleCategoryID, pickup, destination)

	if r.cache != nil {
		var cached PriceQuote
		if err := r.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached
		}
	}

	result, err, _ := r.group.Do(key, func() (interface{}, error) {
		rate, err := r.rates.LookupRate(ctx, req.ServiceID, req.VehicleCategoryID, pickup, destination)
		if err != nil {
			return nil, err
		}
		return PriceQuote{Available: true, Amount: rate.Amount, Currency: rate.Currency}, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNoRate) {
			logger.WithContext(ctx).Warn("Rate lookup failed, serving no quote",
				zap.String("service_id", req.ServiceID.String()),
				zap.Error(err))
			return PriceQuote{Available: false}
		}
		// Unknown routes are cached too, so repeated requests stay cheap
		quote := PriceQuote{Available: false}
		r.storeQuote(ctx, key, quote)
		return quote
	}

	quote := result.(PriceQuote)
	r.storeQuote(ctx, key, quote)
	return quote
}

func (r *Resolver) storeQuote(ctx context.Context, key string, quote PriceQuote) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetJSON(ctx, key, quote, quoteCacheTTL); err != nil {
		logger.WithContext(ctx).Warn("Failed to cache quote", zap.Error(err))
	}
}

func normalizeRouteValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
