package tasks

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// DefaultSearchCacheSize bounds the number of distinct queries held in memory.
const DefaultSearchCacheSize = 1000

// Searcher returns the aggregated catalog results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Track, error)
}

// SearchCache memoizes successful searches for a fixed TTL. Failures are never cached.
type SearchCache struct {
	next  Searcher
	ttl   time.Duration
	cache *ccache.Cache[[]models.Track]
}

// NewSearchCache wraps next. A non-positive ttl disables caching.
func NewSearchCache(next Searcher, size int64, ttl time.Duration) *SearchCache {
	if size <= 0 {
		size = DefaultSearchCacheSize
	}
	return &SearchCache{
		next: next,
		ttl:  ttl,
		cache: ccache.New(
			ccache.Configure[[]models.Track]().
				MaxSize(size).
				GetsPerPromote(3).
				ItemsToPrune(1),
		),
	}
}

// Search serves query from the cache, falling through to the wrapped searcher on a miss.
//
// Queries are keyed case-insensitively after whitespace normalization.
// The returned slice is a copy and may be modified by the caller.
func (c *SearchCache) Search(ctx context.Context, query string) ([]models.Track, error) {
	q, err := shared.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if c.ttl <= 0 {
		return c.next.Search(ctx, q)
	}

	item, err := c.cache.Fetch(strings.ToLower(q), c.ttl, func() ([]models.Track, error) {
		return c.next.Search(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(item.Value()), nil
}

// Len reports the number of cached queries.
func (c *SearchCache) Len() int {
	return c.cache.ItemCount()
}

// Clear drops every cached query.
func (c *SearchCache) Clear() {
	c.cache.Clear()
}

// Stop releases the cache's background goroutine.
func (c *SearchCache) Stop() {
	c.cache.Stop()
}
