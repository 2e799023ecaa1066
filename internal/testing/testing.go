// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
)

// MockCatalog is a scripted [services.CatalogClient].
//
// It serves Total synthetic tracks in pages and records every call. When FailAt is non-negative
// the call with that index (0-based) fails with Err.
type MockCatalog struct {
	Total  int
	FailAt int
	Err    error

	mu    sync.Mutex
	calls []CatalogCall
}

// CatalogCall is one recorded FetchPage invocation.
type CatalogCall struct {
	Query    string
	Offset   int
	PageSize int
}

// NewMockCatalog returns a catalog holding total tracks that never fails.
func NewMockCatalog(total int) *MockCatalog {
	return &MockCatalog{Total: total, FailAt: -1}
}

func (m *MockCatalog) Name() string { return "mock" }

func (m *MockCatalog) FetchPage(ctx context.Context, query string, offset, pageSize int) (*services.Page, error) {
	m.mu.Lock()
	idx := len(m.calls)
	m.calls = append(m.calls, CatalogCall{Query: query, Offset: offset, PageSize: pageSize})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailAt >= 0 && idx == m.FailAt {
		return nil, m.Err
	}

	page := &services.Page{Total: m.Total}
	for i := offset; i < offset+pageSize && i < m.Total; i++ {
		page.Tracks = append(page.Tracks, MockTrack(i))
	}
	return page, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockCatalog) Calls() []CatalogCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CatalogCall(nil), m.calls...)
}

// MockTrack returns a deterministic track for index i.
func MockTrack(i int) models.Track {
	return models.Track{
		ID:     models.TrackID(fmt.Sprintf("%d", i+1)),
		Title:  fmt.Sprintf("Track %d", i+1),
		Artist: "Artist",
		Album:  "Album",
	}
}

// MockTracks returns n deterministic tracks.
func MockTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = MockTrack(i)
	}
	return tracks
}

// MockSaver records saved tickets and fails with Err when it is set.
type MockSaver struct {
	Err   error
	Saved []models.Ticket
}

func (m *MockSaver) Save(ctx context.Context, ticket *models.Ticket) error {
	if m.Err != nil {
		return m.Err
	}
	if ticket.ID == "" {
		ticket.ID = fmt.Sprintf("ticket-%d", len(m.Saved)+1)
	}
	m.Saved = append(m.Saved, *ticket)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
