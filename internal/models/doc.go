// Package models defines domain entities and persistence interfaces for setlist.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs exchanged with the catalog, the HTTP API and the TUI
//   - [Track] : one catalog search hit (title, artist, album, cover and preview URLs)
//   - [Ticket] : a concert ticket with its attached setlist of [Track] values
//
// 2. Persistent Entities: database-backed records with lifecycle metadata
//   - [PersistedTicket] : a stored ticket with sequence number and soft delete support
//   - [PersistedTrack] : a cached catalog track keyed by catalog name and catalog ID
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
