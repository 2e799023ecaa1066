package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// SearchPath is the catalog search proxy endpoint.
const SearchPath = "/api/deezer-search"

// SearchResponse keeps the catalog's own { "data": [...] } shape.
type SearchResponse struct {
	Data []models.Track `json:"data"`
}

// SearchHandler proxies aggregated catalog searches.
type SearchHandler struct {
	searcher tasks.Searcher
	logger   *log.Logger
}

// NewSearchHandler creates a handler backed by searcher, usually a [tasks.SearchCache].
func NewSearchHandler(searcher tasks.Searcher, logger *log.Logger) *SearchHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SearchHandler{searcher: searcher, logger: logger}
}

func (h *SearchHandler) Routes() []string {
	return []string{"GET " + SearchPath}
}

// ServeHTTP answers GET ?q=. A missing or blank q is a 400; a catalog failure is a 500.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.searcher.Search(r.Context(), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, shared.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "Missing query parameter q", nil)
		return
	case err != nil:
		h.logger.Error("catalog search failed", "q", r.URL.Query().Get("q"), "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch from catalog", nil)
		return
	}

	if tracks == nil {
		tracks = []models.Track{}
	}
	h.logger.Debug("catalog search", "q", r.URL.Query().Get("q"), "tracks", len(tracks))
	writeJSON(w, http.StatusOK, SearchResponse{Data: tracks})
}
