package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// TicketsList prints saved tickets, optionally filtered by artist or concert name.
func (r *Runner) TicketsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	var (
		persisted []*models.PersistedTicket
		err       error
	)
	if terms := strings.TrimSpace(cmd.String("search")); terms != "" {
		persisted, err = r.tickets.Search(terms)
	} else {
		criteria := map[string]any{"limit": cmd.Int("limit")}
		if artist := cmd.String("artist"); artist != "" {
			criteria["artist"] = artist
		}
		persisted, err = r.tickets.List(criteria)
	}
	if err != nil {
		return fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := lo.Map(persisted, func(p *models.PersistedTicket, _ int) models.Ticket { return p.Ticket() })
	if cmd.Bool("json") {
		return r.writeJSON(tickets, true)
	}

	if len(tickets) == 0 {
		return r.writePlain("No tickets saved yet. Run 'setlist tui' to create one.\n")
	}

	now := time.Now()
	rows := lo.Map(tickets, func(t models.Ticket, _ int) []string {
		date := ""
		if t.ConcertDate != nil {
			date = t.ConcertDate.String()
		}
		return []string{t.ID, t.ConcertName, t.Artist, date, string(t.Status(now)), fmt.Sprintf("%d", len(t.Songs))}
	})
	return r.writeTable([]string{"ID", "Concert", "Artist", "Date", "Status", "Songs"}, rows, 5)
}

// TicketsShow prints one ticket and its setlist.
func (r *Runner) TicketsShow(ctx context.Context, cmd *cli.Command) error {
	ticket, err := r.ticketArg(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(ticket, true)
	}

	body, err := formatter.ExportToText(ticket)
	if err != nil {
		return err
	}
	return r.writePlain("%s", body)
}

// TicketsDelete soft deletes a ticket.
func (r *Runner) TicketsDelete(ctx context.Context, cmd *cli.Command) error {
	ticket, err := r.ticketArg(cmd)
	if err != nil {
		return err
	}

	if err := r.tickets.Delete(ticket.ID); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	r.logger.Info("deleted ticket", "id", ticket.ID)
	return r.writePlain("✓ Deleted %q\n", ticket.ConcertName)
}

// TicketsExport writes one ticket, or every ticket with --all, in the requested format.
func (r *Runner) TicketsExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if !formatter.ValidFormat(format) {
		return fmt.Errorf("%w: format %q (expected json, csv, markdown or txt)", shared.ErrInvalidFlag, format)
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
		Covers:     cmd.Bool("covers"),
	}
	exporter := tasks.NewExporter(shared.WithLogger(r.logger, "component", "exporter"))

	if cmd.Bool("all") {
		return r.exportAll(ctx, exporter, opts)
	}

	ticket, err := r.ticketArg(cmd)
	if err != nil {
		return err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	result := exporter.ExportTicket(ctx, nil, ticket, opts)
	if result.Error != nil {
		return result.Error
	}
	for _, f := range result.Files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}

func (r *Runner) exportAll(ctx context.Context, exporter *tasks.Exporter, opts tasks.BulkExportOpts) error {
	if err := r.open(); err != nil {
		return err
	}

	tickets, err := r.tickets.Tickets(math.MaxInt32)
	if err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}
	if len(tickets) == 0 {
		return r.writePlain("No tickets to export.\n")
	}

	progressCh := make(chan tasks.ProgressUpdate, len(tickets)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	result, err := exporter.BulkExport(ctx, progressCh, tickets, opts)
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Export Complete")
		r.writePlain("Directory: %s\n", result.OutputDirectory)
		r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalTickets)
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}

// ticketArg loads the ticket named by the command's id argument.
func (r *Runner) ticketArg(cmd *cli.Command) (*models.Ticket, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return nil, fmt.Errorf("%w: ticket ID", shared.ErrMissingArgument)
	}
	if err := r.open(); err != nil {
		return nil, err
	}

	persisted, err := r.tickets.Get(id)
	if err != nil {
		return nil, err
	}
	ticket := persisted.Ticket()
	return &ticket, nil
}
