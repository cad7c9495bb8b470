package geocode

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Geocoder so calls wait for a token. Public Nominatim
// allows one request per second.
type RateLimited struct {
	next    Geocoder
	limiter *rate.Limiter
}

// NewRateLimited allows rps requests per second with the given burst.
func NewRateLimited(next Geocoder, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Search waits for the limiter, then forwards.
func (r *RateLimited) Search(ctx context.Context, query string) ([]Place, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.next.Search(ctx, query)
}

// Reverse waits for the limiter, then forwards.
func (r *RateLimited) Reverse(ctx context.Context, latitude, longitude float64) (Place, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Place{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.next.Reverse(ctx, latitude, longitude)
}

var _ Geocoder = (*RateLimited)(nil)
