package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const trackColumns = `id, sequence, catalog, catalog_id, title, artist, album, cover_url, preview_url, created_at, updated_at, deleted_at`

// TrackRepository implements models.Repository[*models.PersistedTrack] for the local catalog cache.
//
// Tracks are unique per (catalog, catalog_id).
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)
	track.SetSequence(sequence)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, catalog, catalog_id, title, artist, album, cover_url, preview_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.Catalog(),
		track.CatalogID(),
		track.Title(),
		track.Artist(),
		track.Album(),
		track.CoverURL(),
		track.PreviewURL(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByCatalogID retrieves a track by catalog and the catalog's own ID
func (r *TrackRepository) GetByCatalogID(catalog, catalogID string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE catalog = ? AND catalog_id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, catalog, catalogID), catalog+":"+catalogID)
}

// Update refreshes the descriptive fields of a cached track
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, cover_url = ?, preview_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Title(),
		track.Artist(),
		track.Album(),
		track.CoverURL(),
		track.PreviewURL(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return requireRow(result, shared.ErrTrackNotFound, track.ID())
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	return requireRow(result, shared.ErrTrackNotFound, id)
}

// List retrieves cached tracks in the order they were first seen.
//
// Supported criteria: "catalog", "artist" and "limit".
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`
	args := []any{}

	if catalog, ok := criteria["catalog"].(string); ok && catalog != "" {
		query += " AND catalog = ?"
		args = append(args, catalog)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ? COLLATE NOCASE"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) scanOne(row *sql.Row, key string) (*models.PersistedTrack, error) {
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, key)
	}
	return track, err
}

// scanTrack scans a row selected with trackColumns into a [models.PersistedTrack]
func scanTrack(row scanner) (*models.PersistedTrack, error) {
	var (
		id        string
		sequence  int
		catalog   string
		catalogID string
		dto       models.Track
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &catalog, &catalogID, &dto.Title, &dto.Artist, &dto.Album,
		&dto.CoverURL, &dto.PreviewURL, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	dto.ID = models.TrackID(catalogID)

	track := models.NewPersistedTrack(sequence, catalog, catalogID, dto)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}
