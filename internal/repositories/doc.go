// Package repositories implements SQLite persistence for tickets and cached catalog tracks.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// All repositories soft delete via deleted_at timestamps and exclude deleted records from queries.
//
// Key Implementations:
//   - [TicketRepository] : Ticket records with their setlist stored as a JSON column. Also a workflow Saver.
//   - [TrackRepository] : Local cache of catalog tracks, unique per catalog and catalog ID
//   - [TrackCacheAdapter] : Adapts [TrackRepository] to the search aggregator's track cacher
//
// Missing rows are reported with shared.ErrTicketNotFound or shared.ErrTrackNotFound so callers
// can map them to 404s with errors.Is.
package repositories
