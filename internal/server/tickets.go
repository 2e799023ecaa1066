package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
)

// maxBodyBytes bounds ticket request bodies.
const maxBodyBytes = 1 << 20

// TicketStore is the persistence used by [TicketHandler]. [repositories.TicketRepository] implements it.
type TicketStore interface {
	Save(ctx context.Context, ticket *models.Ticket) error
	Get(id string) (*models.PersistedTicket, error)
	Delete(id string) error
	Tickets(limit int) ([]models.Ticket, error)
	Search(terms string) ([]*models.PersistedTicket, error)
}

// TicketHandler serves ticket CRUD under /data and name search under /search.
type TicketHandler struct {
	store  TicketStore
	logger *log.Logger
	mux    *http.ServeMux
}

// NewTicketHandler creates a handler for store.
func NewTicketHandler(store TicketStore, logger *log.Logger) *TicketHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &TicketHandler{store: store, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /data", h.create)
	h.mux.HandleFunc("GET /data", h.list)
	h.mux.HandleFunc("GET /data/{id}", h.get)
	h.mux.HandleFunc("PUT /data/{id}", h.update)
	h.mux.HandleFunc("DELETE /data/{id}", h.delete)
	h.mux.HandleFunc("GET /search", h.search)
	return h
}

func (h *TicketHandler) Routes() []string {
	return []string{"/data", "/data/{id}", "/search"}
}

func (h *TicketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// create stores a new ticket. Any id in the body is ignored.
func (h *TicketHandler) create(w http.ResponseWriter, r *http.Request) {
	ticket, err := decodeTicket(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to create record", err)
		return
	}
	ticket.ID = ""

	if err := h.store.Save(r.Context(), ticket); err != nil {
		h.fail(w, "Failed to create record", err)
		return
	}

	h.logger.Info("created ticket", "id", ticket.ID, "songs", len(ticket.Songs))
	writeJSON(w, http.StatusCreated, ticket)
}

func (h *TicketHandler) list(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.store.Tickets(repositories.DefaultListLimit)
	if err != nil {
		h.fail(w, "Failed to fetch records", err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *TicketHandler) get(w http.ResponseWriter, r *http.Request) {
	persisted, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.fail(w, "Failed to fetch record", err)
		return
	}
	writeJSON(w, http.StatusOK, persisted.Ticket())
}

// update replaces the ticket named by the path. The body's id is ignored.
func (h *TicketHandler) update(w http.ResponseWriter, r *http.Request) {
	ticket, err := decodeTicket(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update record", err)
		return
	}
	ticket.ID = r.PathValue("id")

	if err := h.store.Save(r.Context(), ticket); err != nil {
		h.fail(w, "Failed to update record", err)
		return
	}

	h.logger.Info("updated ticket", "id", ticket.ID, "songs", len(ticket.Songs))
	writeJSON(w, http.StatusOK, ticket)
}

// delete soft-deletes the ticket and returns it as it was.
func (h *TicketHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	persisted, err := h.store.Get(id)
	if err != nil {
		h.fail(w, "Failed to delete record", err)
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.fail(w, "Failed to delete record", err)
		return
	}

	h.logger.Info("deleted ticket", "id", id)
	writeJSON(w, http.StatusOK, persisted.Ticket())
}

// search matches concert names containing ?terms=, ignoring case. Empty terms match everything.
func (h *TicketHandler) search(w http.ResponseWriter, r *http.Request) {
	persisted, err := h.store.Search(r.URL.Query().Get("terms"))
	if err != nil {
		h.fail(w, "Search failed", err)
		return
	}

	tickets := make([]models.Ticket, len(persisted))
	for i, p := range persisted {
		tickets[i] = p.Ticket()
	}
	writeJSON(w, http.StatusOK, tickets)
}

// fail maps store errors to responses: missing tickets are 404s, bad input 400s, the rest 500s.
func (h *TicketHandler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, shared.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, msg, err)
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		h.logger.Error(msg, "err", err)
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}

func decodeTicket(r *http.Request) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return &ticket, nil
}
