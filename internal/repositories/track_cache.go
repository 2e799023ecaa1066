package repositories

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/setlist/internal/models"
)

// TrackCacheAdapter stores catalog search hits in a [TrackRepository]. It satisfies tasks.TrackCacher.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter wraps repo.
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack inserts track under (catalog, catalogID), or refreshes the cached row when the
// catalog now reports different metadata. Losing an insert race to another writer is not an error.
func (a *TrackCacheAdapter) CacheTrack(catalog, catalogID string, track models.Track) error {
	existing, err := a.repo.GetByCatalogID(catalog, catalogID)
	if err == nil {
		if existing.Track() == track {
			return nil
		}
		existing.SetTrack(track)
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached track: %w", err)
		}
		return nil
	}

	err = a.repo.Create(models.NewPersistedTrack(0, catalog, catalogID, track))
	var sqlErr sqlite3.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		return nil
	default:
		return fmt.Errorf("failed to cache track: %w", err)
	}
}
