// package formatter provides functions to export a ticket and its setlist to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "markdown", "txt"}

// ValidFormat reports whether f is one of [Formats].
func ValidFormat(f string) bool {
	return lo.Contains(Formats, f)
}

// ExportToCSV converts a ticket's setlist to CSV with columns: Position, ID, Title, Artist, Album, Preview
func ExportToCSV(ticket *models.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Album", "Preview"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range ticket.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			track.ID.String(),
			track.Title,
			track.Artist,
			track.Album,
			track.PreviewURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a ticket as Markdown with an optional cover image
func ExportToMarkdown(ticket *models.Ticket, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", ticket.ConcertName)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if ticket.Artist != "" {
		fmt.Fprintf(&buf, "**Artist**: %s\n", ticket.Artist)
	}
	if where := Location(ticket); where != "" {
		fmt.Fprintf(&buf, "**Venue**: %s\n", where)
	}
	if ticket.ConcertDate != nil {
		fmt.Fprintf(&buf, "**Date**: %s (%s)\n", ticket.ConcertDate, ticket.Status(time.Now()))
	}
	if ticket.TicketType != "" {
		fmt.Fprintf(&buf, "**Ticket**: %s\n", ticket.TicketType)
	}
	if ticket.Price != nil {
		fmt.Fprintf(&buf, "**Price**: %s\n", FormatPrice(ticket.Price))
	}
	if ticket.SeatInfo != "" {
		fmt.Fprintf(&buf, "**Seat**: %s\n", ticket.SeatInfo)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(ticket.Songs))

	if ticket.Notes != "" {
		fmt.Fprintf(&buf, "> %s\n\n", strings.ReplaceAll(ticket.Notes, "\n", "\n> "))
	}

	buf.WriteString("## Setlist\n\n")
	for i, track := range ticket.Songs {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, track.Artist, track.Title, albumPart)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ticket to plain text
func ExportToText(ticket *models.Ticket) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Concert: %s\n", ticket.ConcertName)
	if where := Location(ticket); where != "" {
		fmt.Fprintf(&buf, "Venue: %s\n", where)
	}
	if ticket.ConcertDate != nil {
		fmt.Fprintf(&buf, "Date: %s\n", ticket.ConcertDate)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(ticket.Songs))

	for i, track := range ticket.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}

// Location joins venue and city, skipping blanks.
func Location(ticket *models.Ticket) string {
	parts := lo.Filter([]string{ticket.Venue, ticket.City}, func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	return strings.Join(parts, ", ")
}

// FormatPrice renders a price with two decimals, or "-" when unset.
func FormatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *p)
}

// Slug builds a filesystem-safe base name from the concert name and ticket ID.
func Slug(ticket *models.Ticket) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(ticket.ConcertName) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.Trim(b.String(), "-")

	id := ticket.ID
	if len(id) > 8 {
		id = id[:8]
	}

	switch {
	case name == "" && id == "":
		return "ticket"
	case name == "":
		return id
	case id == "":
		return name
	}
	return name + "-" + id
}

// CoverURL returns the cover of the first song that has one.
func CoverURL(ticket *models.Ticket) string {
	track, ok := lo.Find(ticket.Songs, func(t models.Track) bool { return t.CoverURL != "" })
	if !ok {
		return ""
	}
	return track.CoverURL
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of the ticket without its songs
func ToMetadataJSON(ticket *models.Ticket) ([]byte, error) {
	meta := *ticket
	meta.Songs = nil
	return shared.MarshalJSON(struct {
		models.Ticket
		Songs     []models.Track `json:"songs,omitempty"`
		SongCount int            `json:"songCount"`
	}{Ticket: meta, SongCount: len(ticket.Songs)}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a setlist to CSV with an accompanying metadata JSON file.
//
// Defaults to [Slug] as the base filename & creates {base}_setlist.csv and {base}_metadata.json
func WriteCSVExport(ticket *models.Ticket, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = Slug(ticket)
	}

	csvData, err := ExportToCSV(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_setlist.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a ticket to Markdown in a dedicated directory.
//
// Directory name defaults to [Slug].
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(ticket *models.Ticket, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = Slug(ticket)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			log.Warn("failed to download cover image", "url", imageURL, "err", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				log.Warn("failed to save cover image", "path", coverImagePath, "err", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(ticket, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a ticket to plain text.
//
// Defaults to {slug}_setlist.txt as the filename.
func WriteTextExport(ticket *models.Ticket, path string) (string, error) {
	if path == "" {
		path = Slug(ticket) + "_setlist.txt"
	}

	textData, err := ExportToText(ticket)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the full ticket as indented JSON.
//
// Defaults to {slug}.json as the filename.
func WriteJSONExport(ticket *models.Ticket, path string) (string, error) {
	if path == "" {
		path = Slug(ticket) + ".json"
	}

	data, err := shared.MarshalJSON(ticket, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// ExportResult is the outcome of exporting one ticket.
type ExportResult struct {
	TicketID    string
	ConcertName string
	Success     bool
	Files       []string
	Error       error
}

// BulkExportResult summarizes an export of several tickets.
type BulkExportResult struct {
	TotalTickets      int
	SuccessfulExports int
	FailedExports     int
	Results           []ExportResult
	OutputDirectory   string
	ManifestPath      string
}

type manifestEntry struct {
	ID          string   `json:"id"`
	ConcertName string   `json:"concert_name"`
	Status      string   `json:"status"`
	Files       []string `json:"files,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type manifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalTickets      int             `json:"total_tickets"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	OutputDirectory   string          `json:"output_directory,omitempty"`
	Tickets           []manifestEntry `json:"tickets"`
}

// WriteBulkExportManifest writes a JSON manifest describing a bulk export.
func WriteBulkExportManifest(result *BulkExportResult, format, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalTickets:      result.TotalTickets,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		OutputDirectory:   result.OutputDirectory,
		Tickets: lo.Map(result.Results, func(r ExportResult, _ int) manifestEntry {
			entry := manifestEntry{
				ID:          r.TicketID,
				ConcertName: r.ConcertName,
				Status:      lo.Ternary(r.Success, "success", "failed"),
				Files:       r.Files,
			}
			if r.Error != nil {
				entry.Error = r.Error.Error()
			}
			return entry
		}),
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
