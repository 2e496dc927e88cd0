package pricing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateSource struct {
	rate    *RouteRate
	err     error
	calls   atomic.Int64
	release chan struct{} // when set, LookupRate blocks until closed
}

func (f *fakeRateSource) LookupRate(_ context.Context, _, _ uuid.UUID, _, _ string) (*RouteRate, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rate, nil
}

func eligibleRequest() QuoteRequest {
	return QuoteRequest{
		ServiceID:         uuid.MustParse("3d6a4a1e-9c7f-4b8e-9d2a-1f0c5b7e8a90"),
		VehicleCategoryID: uuid.MustParse("7b1f2c3d-4e5a-6b7c-8d9e-0f1a2b3c4d5e"),
		Pickup:            "CDG Airport",
		Destination:       "Paris City Center",
		Eligible:          true,
	}
}

func TestResolver_ResolvesRate(t *testing.T) {
	source := &fakeRateSource{rate: &RouteRate{Amount: 85, Currency: "EUR"}}
	resolver := NewResolver(source, nil)

	quote := resolver.Resolve(context.Background(), eligibleRequest())

	assert.True(t, quote.Available)
	assert.Equal(t, 85.0, quote.Amount)
	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, int64(1), source.calls.Load())
}

func TestResolver_IneligibleServiceGetsNoQuote(t *testing.T) {
	source := &fakeRateSource{rate: &RouteRate{Amount: 85, Currency: "EUR"}}
	resolver := NewResolver(source, nil)

	req := eligibleRequest()
	req.Eligible = false
	quote := resolver.Resolve(context.Background(), req)

	assert.False(t, quote.Available)
	assert.Equal(t, int64(0), source.calls.Load(), "ineligible requests must not hit the rate source")
}

func TestResolver_IncompleteRouteGetsNoQuote(t *testing.T) {
	source := &fakeRateSource{rate: &RouteRate{Amount: 85, Currency: "EUR"}}
	resolver := NewResolver(source, nil)

	for _, mutate := range []func(*QuoteRequest){
		func(r *QuoteRequest) { r.Pickup = "   " },
		func(r *QuoteRequest) { r.Destination = "" },
		func(r *QuoteRequest) { r.ServiceID = uuid.Nil },
		func(r *QuoteRequest) { r.VehicleCategoryID = uuid.Nil },
	} {
		req := eligibleRequest()
		mutate(&req)
		quote := resolver.Resolve(context.Background(), req)
		assert.False(t, quote.Available)
	}
	assert.Equal(t, int64(0), source.calls.Load())
}

func TestResolver_UnknownRouteIsNotAnError(t *testing.T) {
	source := &fakeRateSource{err: ErrNoRate}
	resolver := NewResolver(source, nil)

	quote := resolver.Resolve(context.Background(), eligibleRequest())

	assert.False(t, quote.Available)
	assert.Zero(t, quote.Amount)
}

func TestResolver_LookupFailureServesNoQuote(t *testing.T) {
	source := &fakeRateSource{err: errors.New("connection refused")}
	resolver := NewResolver(source, nil)

	quote := resolver.Resolve(context.Background(), eligibleRequest())

	assert.False(t, quote.Available)
}

func TestResolver_ConcurrentIdenticalRequestsShareOneLookup(t *testing.T) {
	source := &fakeRateSource{
		rate:    &RouteRate{Amount: 120, Currency: "EUR"},
		release: make(chan struct{}),
	}
	resolver := NewResolver(source, nil)

	const workers = 8
	quotes := make([]PriceQuote, workers)
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			started.Wait()
			// Whitespace and casing differences still map to the same route
			req := eligibleRequest()
			if i%2 == 0 {
				req.Pickup = "  cdg airport "
			}
			quotes[i] = resolver.Resolve(context.Background(), req)
		}(i)
	}

	started.Wait()
	// Let every worker join the in-flight lookup before releasing it
	for source.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	done.Wait()

	require.Equal(t, int64(1), source.calls.Load(), "identical in-flight requests must share one lookup")
	for _, q := range quotes {
		assert.True(t, q.Available)
		assert.Equal(t, 120.0, q.Amount)
	}
}
