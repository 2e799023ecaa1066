package workflow

import (
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	tu "github.com/desertthunder/setlist/internal/testing"
)

func ids(tracks []models.Track) []models.TrackID {
	return models.TrackIDs(tracks)
}

func TestSelection(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		t.Run("Appends In Order", func(t *testing.T) {
			var s Selection
			for _, tr := range tu.MockTracks(3) {
				if !s.Add(tr) {
					t.Errorf("expected %s to be inserted", tr.ID)
				}
			}
			got := ids(s.List())
			if len(got) != 3 || got[0] != "1" || got[2] != "3" {
				t.Errorf("unexpected order %v", got)
			}
		})

		t.Run("Duplicate Is No-Op", func(t *testing.T) {
			var s Selection
			s.Add(tu.MockTrack(0))
			s.Add(tu.MockTrack(1))

			dup := tu.MockTrack(0)
			dup.Title = "Different Title"
			if s.Add(dup) {
				t.Error("expected duplicate to be rejected")
			}
			if s.Len() != 2 {
				t.Errorf("expected 2 tracks, got %d", s.Len())
			}
			if s.List()[0].Title != "Track 1" {
				t.Errorf("expected original entry to be kept, got %q", s.List()[0].Title)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		s := NewSelection(tu.MockTracks(3))

		if !s.Remove("2") {
			t.Error("expected removal to be reported")
		}
		if s.Contains("2") {
			t.Error("expected track 2 to be gone")
		}
		got := ids(s.List())
		if len(got) != 2 || got[0] != "1" || got[1] != "3" {
			t.Errorf("expected remaining order [1 3], got %v", got)
		}

		if s.Remove("404") {
			t.Error("expected absent id to be a no-op")
		}
		if s.Len() != 2 {
			t.Errorf("expected 2 tracks, got %d", s.Len())
		}
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		t.Run("First Occurrence Wins", func(t *testing.T) {
			var s Selection
			s.Add(tu.MockTrack(5))

			a := tu.MockTrack(0)
			b := tu.MockTrack(1)
			aDup := tu.MockTrack(0)
			aDup.Title = "later"

			s.ReplaceAll([]models.Track{a, b, aDup})
			got := s.List()
			if len(got) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(got))
			}
			if got[0].Title != "Track 1" || got[1].ID != "2" {
				t.Errorf("unexpected selection %+v", got)
			}
			if s.Contains("6") {
				t.Error("expected previous selection to be replaced")
			}
		})

		t.Run("Empty", func(t *testing.T) {
			s := NewSelection(tu.MockTracks(2))
			s.ReplaceAll(nil)
			if s.Len() != 0 {
				t.Errorf("expected empty selection, got %d", s.Len())
			}
		})
	})

	t.Run("List Is A Copy", func(t *testing.T) {
		s := NewSelection(tu.MockTracks(2))
		list := s.List()
		list[0].Title = "mutated"

		if s.Len() != 2 || s.List()[0].Title != "Track 1" {
			t.Error("expected selection to be unaffected by changes to the returned slice")
		}
	})

	t.Run("List Of Empty Selection", func(t *testing.T) {
		var s Selection
		if list := s.List(); list == nil || len(list) != 0 {
			t.Errorf("expected empty non-nil list, got %#v", list)
		}
	})

	t.Run("Uniqueness Holds Under Any Sequence", func(t *testing.T) {
		var s Selection
		ops := []struct {
			add bool
			idx int
		}{
			{true, 0}, {true, 1}, {true, 0}, {false, 1}, {true, 1}, {true, 1}, {false, 7}, {true, 2}, {true, 0},
		}
		for _, op := range ops {
			if op.add {
				s.Add(tu.MockTrack(op.idx))
			} else {
				s.Remove(tu.MockTrack(op.idx).ID)
			}

			seen := map[models.TrackID]bool{}
			for _, tr := range s.List() {
				if seen[tr.ID] {
					t.Fatalf("duplicate id %s after %+v", tr.ID, op)
				}
				seen[tr.ID] = true
			}
		}

		got := ids(s.List())
		if len(got) != 3 || got[0] != "1" || got[1] != "2" || got[2] != "3" {
			t.Errorf("expected [1 2 3], got %v", got)
		}
	})
}
