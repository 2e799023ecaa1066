package workflow

import (
	"slices"

	"github.com/desertthunder/setlist/internal/models"
)

// Selection is the ordered set of tracks chosen for a ticket.
//
// The zero value is an empty selection. Selection is not safe for concurrent use; [Session] guards its own.
type Selection struct {
	tracks []models.Track
}

// NewSelection builds a selection from tracks, keeping the first occurrence of each ID.
func NewSelection(tracks []models.Track) *Selection {
	s := &Selection{}
	s.ReplaceAll(tracks)
	return s
}

// Add appends track unless a track with the same ID is already selected.
//
// Reports whether the track was inserted.
func (s *Selection) Add(track models.Track) bool {
	if s.Contains(track.ID) {
		return false
	}
	s.tracks = append(s.tracks, track)
	return true
}

// Remove drops the track with id. Reports whether anything was removed.
func (s *Selection) Remove(id models.TrackID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tracks = slices.Delete(s.tracks, i, i+1)
	return true
}

// ReplaceAll swaps the selection for tracks in order. Later duplicates of an ID are dropped.
func (s *Selection) ReplaceAll(tracks []models.Track) {
	s.tracks = models.DedupeTracks(tracks)
}

// List returns a copy of the selected tracks in insertion order. Never nil.
func (s *Selection) List() []models.Track {
	out := make([]models.Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

func (s *Selection) Contains(id models.TrackID) bool { return s.index(id) >= 0 }
func (s *Selection) Len() int { return len(s.tracks) }
func (s *Selection) Clear() { s.tracks = nil }

func (s *Selection) index(id models.TrackID) int {
	return slices.IndexFunc(s.tracks, func(t models.Track) bool { return t.ID == id })
}
