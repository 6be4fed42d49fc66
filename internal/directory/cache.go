package directory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gateward/gateward/internal/metrics"
	"github.com/gateward/gateward/internal/models"
	"github.com/rs/zerolog"
)

// ListClient is the interface the cache needs from the directory backend.
type ListClient interface {
	ListOrganizations(ctx context.Context) ([]models.OrganizationEntry, error)
}

// snapshot is one complete, immutable name-to-identifier mapping.
// generation orders snapshots by the time their refresh started, so a
// slow refresh that finishes late can be recognized as stale.
type snapshot struct {
	generation uint64
	names      map[string]string
}

// emptySnapshot is what lookups see before the first successful refresh.
var emptySnapshot = &snapshot{}

// Cache is the in-memory mapping from organization name to organization
// identifier. Lookups are lock-free reads of the last published
// snapshot and never block on refresh. The cache is advisory for
// routing; the identity backend remains the security boundary.
type Cache struct {
	client  ListClient
	logger  zerolog.Logger
	metrics *metrics.Metrics

	snap       atomic.Pointer[snapshot]
	generation atomic.Uint64
}

// NewCache creates a tenant name cache. The metrics parameter is
// optional and can be nil.
func NewCache(client ListClient, m *metrics.Metrics, logger zerolog.Logger) *Cache {
	c := &Cache{
		client:  client,
		logger:  logger.With().Str("component", "tenant_cache").Logger(),
		metrics: m,
	}
	c.snap.Store(emptySnapshot)
	return c
}

// Lookup returns the identifier for an organization name from the
// current snapshot. Matching is exact and case-sensitive; the directory
// backend owns canonical casing.
func (c *Cache) Lookup(name string) (string, bool) {
	id, ok := c.snap.Load().names[name]
	c.metrics.ObserveLookup(ok)
	return id, ok
}

// Len returns the number of organizations in the current snapshot.
func (c *Cache) Len() int {
	return len(c.snap.Load().names)
}

// Refresh fetches the full organization list and atomically publishes a
// new snapshot. On fetch failure the previous snapshot is retained
// unchanged and the error is returned; callers on the refresh schedule
// log it and wait for the next tick.
//
// Overlapping refreshes are allowed. Each refresh claims a generation
// before fetching and publishes only if no newer generation has been
// installed in the meantime, so a refresh that started earlier but
// finished later cannot overwrite fresher data.
func (c *Cache) Refresh(ctx context.Context) error {
	generation := c.generation.Add(1)

	entries, err := c.client.ListOrganizations(ctx)
	if err != nil {
		c.metrics.ObserveRefresh(false, 0)
		c.logger.Warn().Err(err).Msg("tenant directory refresh failed, keeping previous snapshot")
		return fmt.Errorf("refresh tenant directory: %w", err)
	}

	names := make(map[string]string, len(entries))
	for _, entry := range entries {
		names[entry.Name] = entry.ID
	}
	next := &snapshot{generation: generation, names: names}

	for {
		current := c.snap.Load()
		if current.generation >= generation {
			// A refresh that started later already published.
			c.logger.Debug().
				Uint64("generation", generation).
				Uint64("published", current.generation).
				Msg("discarding stale tenant snapshot")
			return nil
		}
		if c.snap.CompareAndSwap(current, next) {
			break
		}
	}

	c.metrics.ObserveRefresh(true, len(names))
	c.logger.Info().Int("organizations", len(names)).Msg("tenant directory snapshot refreshed")
	return nil
}
