package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/ui"
	"github.com/desertthunder/setlist/internal/workflow"
)

// TUI launches the interactive ticket form.
//
// Searches and saves go to the local database and catalog, or through a running server with --remote.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = "./tmp/setlist-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		fileLogger.Warn("ignoring log level", "error", err)
	}
	r.SetLogger(fileLogger)

	var (
		searcher workflow.Searcher
		saver    workflow.Saver
		load     func(id string) (*models.Ticket, error)
	)

	if remote := cmd.String("remote"); remote != "" {
		api := services.NewAPIService(remote, r.httpClient)
		searcher, saver = api, api
		load = func(id string) (*models.Ticket, error) { return api.Ticket(ctx, id) }
		r.logger.Info("using remote server", "url", remote)
	} else {
		if err := r.open(); err != nil {
			return err
		}
		searcher, saver = r.aggregator(), r.tickets
		load = func(id string) (*models.Ticket, error) {
			persisted, err := r.tickets.Get(id)
			if err != nil {
				return nil, err
			}
			t := persisted.Ticket()
			return &t, nil
		}
	}

	session := workflow.NewSession(searcher, saver, workflow.WithLogger(shared.WithLogger(r.logger, "component", "session")))

	var editing *models.Ticket
	if id := cmd.String("edit"); id != "" {
		if editing, err = load(id); err != nil {
			return fmt.Errorf("failed to load ticket %s: %w", id, err)
		}
		session.LoadForEdit(*editing)
	} else {
		session.Start()
	}

	model := ui.NewModel(ctx, session, searcher, editing, r.logger)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
