// Package tasks runs setlist's long-running operations with non-blocking progress reporting.
//
// # Catalog Search Aggregation
//
// [PageAggregator] turns one query into a bounded, merged list of tracks by walking a
// [services.CatalogClient]'s result pages:
//
//  1. Blank queries are rejected with [shared.ErrEmptyQuery] before any call is made.
//  2. Pages are requested from offset 0 in steps of the page size (default 50).
//  3. The walk stops on the first page shorter than the page size, or once the merged
//     list reaches the cap (default 500). At most ceil(cap / page size) calls are made.
//  4. The merged list is truncated to the cap.
//  5. A failed page aborts the whole search; partial results are never returned.
//
// # Search Cache
//
// [SearchCache] wraps any [Searcher] with a TTL cache (karlseguin/ccache). Only successful
// searches are stored, keyed by the normalized, lowercased query.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates are sent with
// select/default so a slow or absent reader never blocks the work.
//
// # Track Caching
//
// The optional [TrackCacher] receives every track of a successful search.
// Tracks are cached silently (errors ignored) so caching can never fail a search.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes many tickets concurrently with a small worker pool,
// throttles cover downloads with a rate limiter and writes a JSON manifest summarizing the run.
package tasks
