package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTrackID(t *testing.T) {
	t.Run("Number", func(t *testing.T) {
		var tr Track
		if err := json.Unmarshal([]byte(`{"id": 3135556, "title": "Harder"}`), &tr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.ID != "3135556" {
			t.Errorf("expected id 3135556, got %q", tr.ID)
		}
	})

	t.Run("String", func(t *testing.T) {
		var tr Track
		if err := json.Unmarshal([]byte(`{"id": "abc", "title": "Harder"}`), &tr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.ID != "abc" {
			t.Errorf("expected id abc, got %q", tr.ID)
		}
	})

	t.Run("Rejects Objects", func(t *testing.T) {
		var tr Track
		if err := json.Unmarshal([]byte(`{"id": {"x": 1}}`), &tr); err == nil {
			t.Error("expected error for object id")
		}
	})
}

func TestNewTrack(t *testing.T) {
	tr := NewTrack("1", "One", "Metallica", "...And Justice for All", "http://img/1.jpg", "http://cdn/1.mp3")

	if tr.PreviewURL != "https://cdn/1.mp3" {
		t.Errorf("expected https preview, got %s", tr.PreviewURL)
	}
	if tr.CoverURL != "http://img/1.jpg" {
		t.Errorf("expected cover to be left alone, got %s", tr.CoverURL)
	}
	if tr.Label() != "One - Metallica" {
		t.Errorf("unexpected label %q", tr.Label())
	}
}

func TestDedupeTracks(t *testing.T) {
	in := []Track{{ID: "a", Title: "first"}, {ID: "b"}, {ID: "a", Title: "second"}}
	out := DedupeTracks(in)

	if len(out) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Errorf("expected first occurrence to win, got %q", out[0].Title)
	}
}

func TestTicket(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		if err := (Ticket{}).Validate(); err == nil {
			t.Error("expected error for missing concert name")
		}

		dup := Ticket{ConcertName: "Tour", Songs: []Track{{ID: "1"}, {ID: "1"}}}
		if err := dup.Validate(); err == nil {
			t.Error("expected error for duplicate songs")
		}

		neg := -1.0
		if err := (Ticket{ConcertName: "Tour", Price: &neg}).Validate(); err == nil {
			t.Error("expected error for negative price")
		}

		if err := (Ticket{ConcertName: "Tour"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Status", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		past := Date{now.AddDate(0, -1, 0)}
		future := Date{now.AddDate(0, 1, 0)}

		if got := (Ticket{}).Status(now); got != StatusUnknown {
			t.Errorf("expected %s, got %s", StatusUnknown, got)
		}
		if got := (Ticket{ConcertDate: &past}).Status(now); got != StatusPast {
			t.Errorf("expected %s, got %s", StatusPast, got)
		}
		if got := (Ticket{ConcertDate: &future}).Status(now); got != StatusUpcoming {
			t.Errorf("expected %s, got %s", StatusUpcoming, got)
		}
	})

	t.Run("Decode Form Payload", func(t *testing.T) {
		payload := `{"id":"ignored","concertName":"Ride the Lightning","concertDate":"2024-05-01","price":42.5,"songs":[{"id":1,"title":"Fade to Black","artist":"Metallica"}]}`

		var tk Ticket
		if err := json.Unmarshal([]byte(payload), &tk); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tk.ConcertDate == nil || tk.ConcertDate.String() != "2024-05-01" {
			t.Errorf("unexpected concert date %v", tk.ConcertDate)
		}
		if tk.Price == nil || *tk.Price != 42.5 {
			t.Errorf("unexpected price %v", tk.Price)
		}
		if len(tk.Songs) != 1 || tk.Songs[0].ID != "1" {
			t.Errorf("unexpected songs %+v", tk.Songs)
		}
	})

	t.Run("Invalid Date", func(t *testing.T) {
		var tk Ticket
		if err := json.Unmarshal([]byte(`{"concertDate":"next tuesday"}`), &tk); err == nil {
			t.Error("expected error for invalid date")
		}
	})
}

func TestSongsColumn(t *testing.T) {
	songs := []Track{{ID: "1", Title: "Battery"}, {ID: "2", Title: "Orion"}}

	t.Run("Round Trip", func(t *testing.T) {
		raw, err := EncodeSongs(songs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := DecodeSongs(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[1].Title != "Orion" {
			t.Errorf("unexpected songs %+v", got)
		}
	})

	t.Run("Nil Encodes As Empty Array", func(t *testing.T) {
		raw, err := EncodeSongs(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if raw != "[]" {
			t.Errorf("expected [], got %s", raw)
		}
	})

	t.Run("Double Encoded", func(t *testing.T) {
		inner, _ := json.Marshal(songs)
		outer, _ := json.Marshal(string(inner))

		got, err := DecodeSongs(string(outer))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 songs, got %d", len(got))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := DecodeSongs("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := DecodeSongs("{not json"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestPersistedTicket(t *testing.T) {
	p := NewPersistedTicket(1, Ticket{ID: "caller-id", ConcertName: "Tour", Songs: []Track{{ID: "1"}}})

	if err := p.Validate(); err == nil {
		t.Error("expected error before an id is assigned")
	}

	p.SetID("row-id")
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tk := p.Ticket()
	if tk.ID != "row-id" {
		t.Errorf("expected row-id, got %s", tk.ID)
	}

	tk.Songs[0].Title = "mutated"
	if p.Songs()[0].Title == "mutated" {
		t.Error("Ticket() should return a copy of songs")
	}
}
