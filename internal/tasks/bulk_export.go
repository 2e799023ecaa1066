package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
)

// BulkExportOpts contains configuration for bulk ticket exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: setlist_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max 10)
	RateLimit  float64 // Cover downloads per second for markdown (default: 5)
	Covers     bool    // Download the first song's cover for markdown exports
}

type exportJob struct {
	index  int
	ticket models.Ticket
}

// Exporter writes tickets to disk.
type Exporter struct {
	logger *log.Logger
}

// NewExporter creates an Exporter. A nil logger discards output.
func NewExporter(logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{logger: logger}
}

// BulkExport exports tickets concurrently and writes export_manifest.json into the output directory.
//
// Individual failures are recorded in the result rather than aborting the run.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	tickets []models.Ticket,
	opts BulkExportOpts,
) (*formatter.BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("setlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.BulkExportResult{
		TotalTickets:    len(tickets),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.ExportResult, len(tickets)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, len(tickets))
	done := make(chan exportJob, len(tickets))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, done, result, opts)
	}

	for i, t := range tickets {
		sendProgress(prog, exportingTicketUpdate(i+1, len(tickets), t.ConcertName))
		jobs <- exportJob{index: i, ticket: t}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		res := result.Results[job.index]
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(tickets), res.ConcertName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(tickets), res.ConcertName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker drains jobs, storing each outcome at the job's index.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	done chan<- exportJob,
	result *formatter.BulkExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			result.Results[job.index] = formatter.ExportResult{
				TicketID:    job.ticket.ID,
				ConcertName: job.ticket.ConcertName,
				Error:       ctx.Err(),
			}
			done <- job
			continue
		}

		result.Results[job.index] = e.ExportTicket(ctx, limiter, &job.ticket, opts)
		done <- job
	}
}

// ExportTicket writes one ticket under opts.OutputDir in opts.Format.
// The limiter, when non-nil, throttles cover downloads.
func (e *Exporter) ExportTicket(ctx context.Context, limiter *rate.Limiter, t *models.Ticket, opts BulkExportOpts) formatter.ExportResult {
	result := formatter.ExportResult{
		TicketID:    t.ID,
		ConcertName: t.ConcertName,
		Files:       []string{},
	}
	base := filepath.Join(opts.OutputDir, formatter.Slug(t))

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(t, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			break
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}

	case "markdown":
		var imageURL string
		if opts.Covers {
			imageURL = formatter.CoverURL(t)
			if imageURL != "" && limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					imageURL = ""
				}
			}
		}

		mdRes, err := formatter.WriteMarkdownExport(t, base, imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			break
		}
		result.Files = mdRes.Files

	case "txt":
		path, err := formatter.WriteTextExport(t, base+"_setlist.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			break
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(t, base+".json")
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			break
		}
		result.Files = []string{path}
	}

	if result.Error != nil {
		e.logger.Warn("export failed", "ticket", t.ID, "format", opts.Format, "err", result.Error)
	} else {
		result.Success = true
		e.logger.Debug("exported ticket", "ticket", t.ID, "files", len(result.Files))
	}
	return result
}
