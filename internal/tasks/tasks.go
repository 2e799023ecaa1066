package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	// DefaultPageSize is the number of tracks requested per catalog call.
	DefaultPageSize = 50
	// DefaultMaxTotal caps the tracks merged for a single search.
	DefaultMaxTotal = 500
)

// TrackCacher persists tracks seen in search results.
//
// Implementations must treat already-cached tracks as success.
type TrackCacher interface {
	CacheTrack(catalog, catalogID string, track models.Track) error
}

// PageAggregator walks a catalog's result pages for one query and merges them into a single bounded list.
type PageAggregator struct {
	client   services.CatalogClient
	pageSize int
	maxTotal int
	cacher   TrackCacher
	logger   *log.Logger
}

// AggregatorOption customizes a [PageAggregator].
type AggregatorOption func(*PageAggregator)

// WithPageSize overrides [DefaultPageSize]. Non-positive values are ignored.
func WithPageSize(n int) AggregatorOption {
	return func(a *PageAggregator) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithMaxTotal overrides [DefaultMaxTotal]. Non-positive values are ignored.
func WithMaxTotal(n int) AggregatorOption {
	return func(a *PageAggregator) {
		if n > 0 {
			a.maxTotal = n
		}
	}
}

// WithTrackCacher caches every track of a successful search.
func WithTrackCacher(c TrackCacher) AggregatorOption {
	return func(a *PageAggregator) { a.cacher = c }
}

// WithLogger sets the logger used for page and failure events.
func WithLogger(l *log.Logger) AggregatorOption {
	return func(a *PageAggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewPageAggregator creates an aggregator over client.
func NewPageAggregator(client services.CatalogClient, opts ...AggregatorOption) *PageAggregator {
	a := &PageAggregator{
		client:   client,
		pageSize: DefaultPageSize,
		maxTotal: DefaultMaxTotal,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxCalls is the most catalog calls one search can make: ceil(maxTotal / pageSize).
func (a *PageAggregator) MaxCalls() int {
	return (a.maxTotal + a.pageSize - 1) / a.pageSize
}

// Search runs [PageAggregator.Aggregate] without progress reporting.
func (a *PageAggregator) Search(ctx context.Context, query string) ([]models.Track, error) {
	return a.Aggregate(ctx, query, nil)
}

// Aggregate fetches pages for query from offset 0 until a short page arrives or maxTotal tracks have been merged.
//
// A blank query returns [shared.ErrEmptyQuery] without calling the catalog.
// Any failed page discards everything collected so far and returns an error wrapping [shared.ErrCatalogUnavailable].
// The result never holds more than maxTotal tracks.
func (a *PageAggregator) Aggregate(ctx context.Context, query string, progress chan<- ProgressUpdate) ([]models.Track, error) {
	if a.client == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}

	q, err := shared.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	maxCalls := a.MaxCalls()
	merged := make([]models.Track, 0, min(a.maxTotal, a.pageSize))

	for call, offset := 1, 0; ; call, offset = call+1, offset+a.pageSize {
		page, err := a.client.FetchPage(ctx, q, offset, a.pageSize)
		if err != nil {
			if !errors.Is(err, shared.ErrCatalogUnavailable) {
				err = fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, err)
			}
			a.logger.Warn("catalog search failed", "catalog", a.client.Name(), "query", q, "offset", offset, "err", err)
			return nil, err
		}

		merged = append(merged, page.Tracks...)
		sendProgress(progress, fetchPageUpdate(call, maxCalls, offset, page.Length(), q))
		a.logger.Debug("fetched page", "query", q, "offset", offset, "tracks", page.Length(), "merged", len(merged))

		if page.Length() < a.pageSize || len(merged) >= a.maxTotal {
			break
		}
	}

	if len(merged) > a.maxTotal {
		merged = merged[:a.maxTotal]
	}

	a.cache(merged, progress)
	return merged, nil
}

// cache hands tracks to the cacher. Failures are logged and otherwise ignored.
func (a *PageAggregator) cache(tracks []models.Track, progress chan<- ProgressUpdate) {
	if a.cacher == nil || len(tracks) == 0 {
		return
	}

	catalog := a.client.Name()
	sendProgress(progress, cacheTracksUpdate(len(tracks), catalog))
	for _, t := range tracks {
		if err := a.cacher.CacheTrack(catalog, t.ID.String(), t); err != nil {
			a.logger.Debug("failed to cache track", "catalog", catalog, "id", t.ID, "err", err)
		}
	}
}
