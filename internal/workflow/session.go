package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Stage is the visible step of the ticket form.
type Stage int

const (
	StageDetails Stage = iota
	StageSongs
)

func (s Stage) String() string {
	switch s {
	case StageDetails:
		return "details"
	case StageSongs:
		return "songs"
	default:
		return "unknown"
	}
}

// Searcher runs an aggregated catalog search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Track, error)
}

// Saver persists a ticket. Implementations fill in ticket.ID when creating.
type Saver interface {
	Save(ctx context.Context, ticket *models.Ticket) error
}

// Session is the state of one ticket form: stage, selection, search results and edit target.
//
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	searcher Searcher
	saver    Saver
	logger   *log.Logger

	stage     Stage
	selection Selection
	editingID string

	generation uint64
	query      string
	results    []models.Track
	busy       bool
	failed     bool
}

// SessionOption customizes a [Session].
type SessionOption func(*Session)

// WithLogger sets the logger used for search and save events.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session on [StageDetails] with nothing selected.
func NewSession(searcher Searcher, saver Saver, opts ...SessionOption) *Session {
	s := &Session{
		searcher: searcher,
		saver:    saver,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginSearch starts a search for query and returns its generation.
//
// A blank query returns [shared.ErrEmptyQuery] and leaves the session untouched.
// Otherwise the session is marked busy and any earlier search becomes stale.
func (s *Session) BeginSearch(query string) (uint64, string, error) {
	q, err := shared.NormalizeQuery(query)
	if err != nil {
		return 0, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.query = q
	s.busy = true
	s.failed = false
	return s.generation, q, nil
}

// ApplyResults stores the outcome of the search tagged gen.
//
// Results from any generation other than the latest are discarded and false is returned.
// A non-nil err clears the results and marks the search as failed.
func (s *Session) ApplyResults(gen uint64, tracks []models.Track, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale results", "generation", gen, "latest", s.generation)
		return false
	}

	s.busy = false
	if err != nil {
		s.results = nil
		s.failed = true
		s.logger.Warn("search failed", "query", s.query, "err", err)
		return true
	}

	s.results = slices.Clone(tracks)
	s.failed = false
	return true
}

// Search runs query through the session's searcher and applies the results.
//
// Blank queries are ignored. A catalog failure is returned after being recorded on the session.
// A result that went stale while in flight is dropped silently.
func (s *Session) Search(ctx context.Context, query string) error {
	gen, q, err := s.BeginSearch(query)
	if errors.Is(err, shared.ErrEmptyQuery) {
		return nil
	} else if err != nil {
		return err
	}

	if s.searcher == nil {
		err := fmt.Errorf("%w: no searcher configured", shared.ErrServiceUnavailable)
		s.ApplyResults(gen, nil, err)
		return err
	}

	tracks, err := s.searcher.Search(ctx, q)
	if !s.ApplyResults(gen, tracks, err) {
		return nil
	}
	return err
}

// Results returns a copy of the latest search results.
func (s *Session) Results() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Query is the normalized text of the latest search.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Busy reports whether the latest search is still in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SearchFailed reports whether the latest search ended in an error.
func (s *Session) SearchFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Generation returns the tag of the latest search.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SelectTrack adds track to the selection. Reports false if it was already selected.
func (s *Session) SelectTrack(track models.Track) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Add(track)
}

// DeselectTrack removes the track with id. Reports false if it was not selected.
func (s *Session) DeselectTrack(id models.TrackID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Remove(id)
}

// IsSelected reports whether a track with id is in the selection.
func (s *Session) IsSelected(id models.TrackID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Contains(id)
}

// Selection returns a copy of the selected tracks in order.
func (s *Session) Selection() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.List()
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// EditingID is the ID of the ticket being edited, or "" when creating.
func (s *Session) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

// Advance moves to [StageSongs].
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = StageSongs
}

// Retreat moves back to [StageDetails]. The selection is kept.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = StageDetails
}

// Start prepares the session for a new ticket.
func (s *Session) Start() {
	s.Reset()
}

// LoadForEdit prepares the session to edit ticket.
//
// The ticket's songs become the selection with duplicate IDs dropped, and the ticket ID is
// kept so the next save updates it.
func (s *Session) LoadForEdit(ticket models.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.selection.ReplaceAll(ticket.Songs)
	s.editingID = ticket.ID
}

// Reset discards the selection, results and edit target and returns to [StageDetails].
//
// Searches still in flight become stale.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.stage = StageDetails
	s.selection.Clear()
	s.editingID = ""
	s.generation++
	s.query = ""
	s.results = nil
	s.busy = false
	s.failed = false
}

// Submit saves details with the current selection as its songs.
//
// The saved ticket is returned. On success the session returns to [StageDetails] and the saved
// songs leave the selection; tracks selected while the save was in flight stay selected.
// On failure the stage and selection are left as they were.
func (s *Session) Submit(ctx context.Context, details models.Ticket) (*models.Ticket, error) {
	s.mu.Lock()
	ticket := details
	ticket.ID = s.editingID
	ticket.Songs = s.selection.List()
	s.mu.Unlock()

	if err := ticket.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	if s.saver == nil {
		return nil, fmt.Errorf("%w: no saver configured", shared.ErrServiceUnavailable)
	}

	if err := s.saver.Save(ctx, &ticket); err != nil {
		s.logger.Error("failed to save ticket", "id", ticket.ID, "err", err)
		return nil, err
	}

	s.mu.Lock()
	s.stage = StageDetails
	for _, t := range ticket.Songs {
		s.selection.Remove(t.ID)
	}
	s.editingID = ""
	s.mu.Unlock()

	s.logger.Info("saved ticket", "id", ticket.ID, "songs", len(ticket.Songs))
	return &ticket, nil
}

// Skip submits from [StageSongs]. From any other stage it returns [shared.ErrSkipNotAllowed].
func (s *Session) Skip(ctx context.Context, details models.Ticket) (*models.Ticket, error) {
	if s.Stage() != StageSongs {
		return nil, shared.ErrSkipNotAllowed
	}
	return s.Submit(ctx, details)
}
