package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/models"
)

// CacheList prints catalog tracks stored by earlier searches.
//
// Tracks are cached automatically by 'setlist search' and 'setlist serve'.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	cached, err := r.tracks.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached tracks: %w", err)
	}
	r.logger.Debugf("loaded %d cached tracks", len(cached))

	if cmd.Bool("json") {
		return r.writeJSON(lo.Map(cached, func(t *models.PersistedTrack, _ int) models.Track { return t.Track() }), true)
	}

	if len(cached) == 0 {
		return r.writePlain("No cached tracks. Run 'setlist search QUERY' to populate the cache.\n")
	}

	rows := lo.Map(cached, func(t *models.PersistedTrack, _ int) []string {
		return []string{t.Catalog(), t.CatalogID(), t.Title(), t.Artist(), t.Album()}
	})
	return r.writeTable([]string{"Catalog", "Catalog ID", "Title", "Artist", "Album"}, rows)
}
