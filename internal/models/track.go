package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TrackID is the catalog's identifier for a track.
//
// Catalogs send it as a JSON number or string; both decode to the same value.
type TrackID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *TrackID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TrackID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("track id must be a string or number: %w", err)
	}
	*id = TrackID(n.String())
	return nil
}

func (id TrackID) String() string { return string(id) }

// Track is a single catalog search hit.
type Track struct {
	ID         TrackID `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album,omitempty"`
	CoverURL   string  `json:"cover,omitempty"`
	PreviewURL string  `json:"preview,omitempty"`
}

// NewTrack builds a [Track], upgrading the preview URL to https.
func NewTrack(id TrackID, title, artist, album, cover, preview string) Track {
	return Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		Album:      album,
		CoverURL:   cover,
		PreviewURL: SecureURL(preview),
	}
}

// Label renders "Title - Artist".
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// SecureURL rewrites a leading http:// to https://.
func SecureURL(u string) string {
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "https://" + rest
	}
	return u
}

// TrackIDs returns the IDs of tracks in order.
func TrackIDs(tracks []Track) []TrackID {
	ids := make([]TrackID, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}
