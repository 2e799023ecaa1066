package models

import (
	"fmt"
	"strings"
)

// PersistedTicket is a stored [Ticket].
type PersistedTicket struct {
	record
	ticket Ticket
}

// NewPersistedTicket wraps t for storage. The ticket's own ID is ignored; the repository assigns one.
func NewPersistedTicket(sequence int, t Ticket) *PersistedTicket {
	t.ID = ""
	return &PersistedTicket{record: newRecord(sequence), ticket: t}
}

// Ticket returns a copy of the stored ticket with its ID filled in.
func (p *PersistedTicket) Ticket() Ticket {
	t := p.ticket
	t.ID = p.id
	t.Songs = append([]Track(nil), p.ticket.Songs...)
	if t.Songs == nil {
		t.Songs = []Track{}
	}
	return t
}

// SetTicket replaces the stored fields, keeping lifecycle metadata.
func (p *PersistedTicket) SetTicket(t Ticket) {
	t.ID = ""
	p.ticket = t
}

func (p *PersistedTicket) ConcertName() string { return p.ticket.ConcertName }
func (p *PersistedTicket) Songs() []Track { return p.ticket.Songs }

// Validate checks the wrapped ticket.
func (p *PersistedTicket) Validate() error {
	if p.id == "" {
		return fmt.Errorf("ticket id is required")
	}
	return p.ticket.Validate()
}

// PersistedTrack is a catalog track cached locally, unique per (catalog, catalog ID).
type PersistedTrack struct {
	record
	catalog   string
	catalogID string
	track     Track
}

// NewPersistedTrack wraps a catalog track for caching.
func NewPersistedTrack(sequence int, catalog, catalogID string, t Track) *PersistedTrack {
	return &PersistedTrack{record: newRecord(sequence), catalog: catalog, catalogID: catalogID, track: t}
}

func (p *PersistedTrack) Catalog() string { return p.catalog }
func (p *PersistedTrack) CatalogID() string { return p.catalogID }
func (p *PersistedTrack) Track() Track { return p.track }

// SetTrack replaces the cached metadata, keeping the catalog key.
func (p *PersistedTrack) SetTrack(t Track) { p.track = t }
func (p *PersistedTrack) Title() string { return p.track.Title }
func (p *PersistedTrack) Artist() string { return p.track.Artist }
func (p *PersistedTrack) Album() string { return p.track.Album }
func (p *PersistedTrack) CoverURL() string { return p.track.CoverURL }
func (p *PersistedTrack) PreviewURL() string { return p.track.PreviewURL }

// Validate checks the fields required for the cache's unique key.
func (p *PersistedTrack) Validate() error {
	switch {
	case p.id == "":
		return fmt.Errorf("track id is required")
	case strings.TrimSpace(p.catalog) == "":
		return fmt.Errorf("catalog is required")
	case strings.TrimSpace(p.catalogID) == "":
		return fmt.Errorf("catalog id is required")
	case strings.TrimSpace(p.track.Title) == "":
		return fmt.Errorf("title is required")
	}
	return nil
}
