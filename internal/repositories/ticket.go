package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	// DefaultListLimit caps [TicketRepository.List] when no limit is given.
	DefaultListLimit = 100
	// SearchLimit caps [TicketRepository.Search].
	SearchLimit = 10
)

const ticketColumns = `id, sequence, concert_name, artist, venue, city, concert_date, ticket_type, price, seat_info, notes, songs, created_at, updated_at, deleted_at`

// TicketRepository implements models.Repository[*models.PersistedTicket].
//
// Songs are stored as a JSON array in a single column.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new TicketRepository with the given database connection
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new ticket with generated ID and sequence
func (r *TicketRepository) Create(ticket *models.PersistedTicket) error {
	sequence, err := NextSequence(r.db, "tickets")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	ticket.SetID(id)
	ticket.SetSequence(sequence)

	if err := ticket.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	t := ticket.Ticket()
	songs, err := models.EncodeSongs(t.Songs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tickets (id, sequence, concert_name, artist, venue, city, concert_date, ticket_type, price, seat_info, notes, songs, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		t.ConcertName,
		t.Artist,
		t.Venue,
		t.City,
		nullDate(t.ConcertDate),
		t.TicketType,
		nullPrice(t.Price),
		t.SeatInfo,
		t.Notes,
		songs,
		ticket.CreatedAt(),
		ticket.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	return nil
}

// Get retrieves a ticket by ID, excluding soft-deleted tickets
func (r *TicketRepository) Get(id string) (*models.PersistedTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? AND deleted_at IS NULL`

	ticket, err := scanTicket(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTicketNotFound, id)
	}
	return ticket, err
}

// Update replaces the stored fields of an existing ticket
func (r *TicketRepository) Update(ticket *models.PersistedTicket) error {
	if err := ticket.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	ticket.SetUpdatedAt(now)

	t := ticket.Ticket()
	songs, err := models.EncodeSongs(t.Songs)
	if err != nil {
		return err
	}

	query := `
		UPDATE tickets
		SET concert_name = ?, artist = ?, venue = ?, city = ?, concert_date = ?, ticket_type = ?,
		    price = ?, seat_info = ?, notes = ?, songs = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		t.ConcertName,
		t.Artist,
		t.Venue,
		t.City,
		nullDate(t.ConcertDate),
		t.TicketType,
		nullPrice(t.Price),
		t.SeatInfo,
		t.Notes,
		songs,
		now,
		ticket.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	return requireRow(result, shared.ErrTicketNotFound, ticket.ID())
}

// Delete soft-deletes a ticket by ID
func (r *TicketRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tickets SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	return requireRow(result, shared.ErrTicketNotFound, id)
}

// List returns tickets in creation order, excluding soft-deleted tickets.
//
// Supported criteria: "artist" (exact match) and "limit" (defaults to [DefaultListLimit]).
func (r *TicketRepository) List(criteria map[string]any) ([]*models.PersistedTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE deleted_at IS NULL`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	limit := DefaultListLimit
	if n, ok := criteria["limit"].(int); ok && n > 0 {
		limit = n
	}

	query += " ORDER BY sequence ASC LIMIT ?"
	args = append(args, limit)

	return r.query(query, args...)
}

// Search returns up to [SearchLimit] tickets whose concert name contains terms, ignoring case,
// sorted by concert name.
func (r *TicketRepository) Search(terms string) ([]*models.PersistedTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE deleted_at IS NULL AND concert_name LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY concert_name COLLATE NOCASE ASC
		LIMIT ?
	`

	return r.query(query, escapeLike(terms), SearchLimit)
}

// Save creates ticket when it has no ID and updates it otherwise, writing the assigned ID back.
func (r *TicketRepository) Save(ctx context.Context, ticket *models.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ticket.ID == "" {
		persisted := models.NewPersistedTicket(0, *ticket)
		if err := r.Create(persisted); err != nil {
			return err
		}
		ticket.ID = persisted.ID()
		return nil
	}

	persisted, err := r.Get(ticket.ID)
	if err != nil {
		return err
	}
	persisted.SetTicket(*ticket)
	return r.Update(persisted)
}

// Tickets lists tickets as plain values.
func (r *TicketRepository) Tickets(limit int) ([]models.Ticket, error) {
	persisted, err := r.List(map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	return unwrapTickets(persisted), nil
}

func (r *TicketRepository) query(query string, args ...any) ([]*models.PersistedTicket, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.PersistedTicket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tickets, nil
}

// scanTicket scans a row selected with ticketColumns into a [models.PersistedTicket]
func scanTicket(row scanner) (*models.PersistedTicket, error) {
	var (
		id          string
		sequence    int
		t           models.Ticket
		concertDate sql.NullTime
		price       sql.NullFloat64
		songs       string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &t.ConcertName, &t.Artist, &t.Venue, &t.City, &concertDate, &t.TicketType,
		&price, &t.SeatInfo, &t.Notes, &songs, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}

	if concertDate.Valid {
		t.ConcertDate = &models.Date{Time: concertDate.Time}
	}
	if price.Valid {
		t.Price = &price.Float64
	}
	if t.Songs, err = models.DecodeSongs(songs); err != nil {
		return nil, fmt.Errorf("ticket %s: %w", id, err)
	}

	ticket := models.NewPersistedTicket(sequence, t)
	ticket.SetID(id)
	ticket.SetCreatedAt(createdAt)
	ticket.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		ticket.SetDeletedAt(&deletedAt.Time)
	}

	return ticket, nil
}

func unwrapTickets(persisted []*models.PersistedTicket) []models.Ticket {
	tickets := make([]models.Ticket, len(persisted))
	for i, p := range persisted {
		tickets[i] = p.Ticket()
	}
	return tickets
}

func nullDate(d *models.Date) sql.NullTime {
	if d == nil || d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

func nullPrice(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
