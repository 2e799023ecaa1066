// Package services defines the [CatalogClient] interface for external track catalogs and the HTTP clients setlist uses.
//
// # Catalog Client
//
// A catalog serves one page of search results per call. Paging, merging and the safety bounds on
// how many tracks a search may collect live in the tasks package; a client only knows how to ask
// for (query, offset, pageSize) and map the provider's payload into [models.Track].
//
// # Deezer Implementation
//
// [DeezerService] calls the public, unauthenticated GET /search endpoint. Requests share a
// token-bucket limiter (golang.org/x/time/rate) and a client-level timeout.
// Preview URLs are upgraded to https during mapping.
//
// # API Client
//
// [APIService] is a client for a running `setlist serve`. It proxies searches through
// /api/deezer-search and saves tickets through /data, which lets the TUI work against a remote server.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrEmptyQuery] : blank query, nothing was sent
//   - [shared.ErrCatalogUnavailable] : transport failure, timeout, non-2xx status, catalog error body or bad JSON
//   - [shared.ErrTicketNotFound] : unknown ticket ID on the server
//   - [shared.ErrSaveFailed] : the server rejected a ticket save
package services
