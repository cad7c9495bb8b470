package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Cached wraps a Geocoder with a time-limited in-memory cache. Failures are
// not cached.
type Cached struct {
	next   Geocoder
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	search  map[string]searchEntry
	reverse map[string]reverseEntry
	hits    int
	misses  int
}

type searchEntry struct {
	places []Place
	stored time.Time
}

type reverseEntry struct {
	place  Place
	stored time.Time
}

// NewCached creates a cache in front of next.
func NewCached(next Geocoder, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		next:    next,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		search:  make(map[string]searchEntry),
		reverse: make(map[string]reverseEntry),
	}
}

// Search returns cached results for the normalized query when fresh. The
// returned slice is the caller's to modify.
func (c *Cached) Search(ctx context.Context, query string) ([]Place, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	entry, found := c.search[key]
	c.mu.RUnlock()

	if found && c.now().Sub(entry.stored) < c.ttl {
		c.hit("search", key)
		return slices.Clone(entry.places), nil
	}
	c.miss("search", key)

	places, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.search[key] = searchEntry{places: slices.Clone(places), stored: c.now()}
	c.mu.Unlock()
	return places, nil
}

// Reverse returns the cached place for coordinates rounded to 4 decimals
// (about 11 m).
func (c *Cached) Reverse(ctx context.Context, latitude, longitude float64) (Place, error) {
	key := fmt.Sprintf("%.4f,%.4f", latitude, longitude)

	c.mu.RLock()
	entry, found := c.reverse[key]
	c.mu.RUnlock()

	if found && c.now().Sub(entry.stored) < c.ttl {
		c.hit("reverse", key)
		return entry.place, nil
	}
	c.miss("reverse", key)

	place, err := c.next.Reverse(ctx, latitude, longitude)
	if err != nil {
		return Place{}, err
	}

	c.mu.Lock()
	c.reverse[key] = reverseEntry{place: place, stored: c.now()}
	c.mu.Unlock()
	return place, nil
}

func (c *Cached) hit(kind, key string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	c.logger.Debug("geocode cache hit", "kind", kind, "key", key)
}

func (c *Cached) miss(kind, key string) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	c.logger.Debug("geocode cache miss", "kind", kind, "key", key)
}

// Stats returns cache hit and miss counts.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

var _ Geocoder = (*Cached)(nil)
