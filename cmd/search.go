package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// Search runs one aggregated catalog search and prints the merged tracks in catalog order.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := shared.NormalizeQuery(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if !cmd.Bool("no-cache") {
		if err := r.open(); err != nil {
			r.logger.Warn("track cache disabled", "error", err)
		}
	}

	useJSON := cmd.Bool("json")
	agg := r.aggregator()

	progressCh := make(chan tasks.ProgressUpdate, agg.MaxCalls()+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if useJSON {
				r.logger.Debug(update.Message, "phase", update.Phase)
				continue
			}
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	r.logger.Info("searching catalog", "query", query, "catalog", r.catalog.Name())
	tracks, err := agg.Aggregate(ctx, query, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("%d results for %q", len(tracks), query))

	rows := make([][]string, 0, len(tracks))
	for i, t := range tracks {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), t.Title, t.Artist, t.Album, t.ID.String()})
	}
	return r.writeTable([]string{"#", "Title", "Artist", "Album", "ID"}, rows, 0)
}
