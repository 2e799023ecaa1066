package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DateLayout is the calendar date format used by the ticket form.
const DateLayout = "2006-01-02"

// Date is a concert date. It decodes from a bare calendar date or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

// ParseDate parses "2006-01-02" or RFC 3339 input.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// MarshalJSON encodes the date as RFC 3339.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UnmarshalJSON decodes a calendar date or RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("concert date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) String() string { return d.Time.Format(DateLayout) }

// TicketStatus classifies a ticket relative to the current time.
type TicketStatus string

const (
	StatusPast     TicketStatus = "Past"
	StatusUpcoming TicketStatus = "Upcoming"
	StatusUnknown  TicketStatus = "-"
)

// Ticket is a concert ticket and the songs attached to it.
//
// ID is empty for a ticket that has not been saved yet.
type Ticket struct {
	ID          string   `json:"id,omitempty"`
	ConcertName string   `json:"concertName"`
	Artist      string   `json:"artist,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	City        string   `json:"city,omitempty"`
	ConcertDate *Date    `json:"concertDate,omitempty"`
	TicketType  string   `json:"ticketType,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	SeatInfo    string   `json:"seatInfo,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Songs       []Track  `json:"songs"`
}

// Validate checks required fields and the uniqueness of attached songs.
func (t Ticket) Validate() error {
	if strings.TrimSpace(t.ConcertName) == "" {
		return fmt.Errorf("concert name is required")
	}
	if t.Price != nil && *t.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	seen := make(map[TrackID]struct{}, len(t.Songs))
	for _, s := range t.Songs {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("duplicate song %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// Status reports whether the concert is in the past relative to now.
func (t Ticket) Status(now time.Time) TicketStatus {
	if t.ConcertDate == nil || t.ConcertDate.IsZero() {
		return StatusUnknown
	}
	if t.ConcertDate.Before(now) {
		return StatusPast
	}
	return StatusUpcoming
}

// DedupeTracks returns tracks with later duplicates of an ID removed, keeping order.
func DedupeTracks(tracks []Track) []Track {
	return lo.UniqBy(tracks, func(t Track) TrackID { return t.ID })
}

// EncodeSongs serialises songs for storage. A nil slice is stored as "[]".
func EncodeSongs(songs []Track) (string, error) {
	if songs == nil {
		songs = []Track{}
	}
	data, err := json.Marshal(songs)
	if err != nil {
		return "", fmt.Errorf("failed to encode songs: %w", err)
	}
	return string(data), nil
}

// DecodeSongs parses a stored songs column.
//
// Rows written by older clients hold the array as a JSON string; those are unwrapped once.
func DecodeSongs(raw string) ([]Track, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []Track{}, nil
	}

	var songs []Track
	if err := json.Unmarshal([]byte(raw), &songs); err == nil {
		return songs, nil
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}
	if err := json.Unmarshal([]byte(inner), &songs); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}
	if songs == nil {
		songs = []Track{}
	}
	return songs, nil
}
