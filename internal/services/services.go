// package services defines the [CatalogClient] interface for track catalogs
// and the HTTP clients that implement it.
package services

import (
	"context"

	"github.com/desertthunder/setlist/internal/models"
)

// CatalogClient fetches one page of search results from an external track catalog.
type CatalogClient interface {
	// FetchPage requests up to pageSize tracks matching query starting at offset.
	//
	// Transport failures, timeouts, non-2xx responses and undecodable bodies are
	// all reported as [shared.ErrCatalogUnavailable].
	FetchPage(ctx context.Context, query string, offset, pageSize int) (*Page, error)

	// Name returns the catalog's name (e.g. "deezer"), used as the cache key namespace.
	Name() string
}

// Page is one slice of catalog results.
type Page struct {
	Tracks []models.Track
	// Total is the catalog's reported number of matches, or 0 if unknown.
	Total int
}

// Length returns the number of tracks on the page.
func (p *Page) Length() int {
	if p == nil {
		return 0
	}
	return len(p.Tracks)
}
