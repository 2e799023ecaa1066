package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	tu "github.com/desertthunder/setlist/internal/testing"
)

func newTestRunner(t *testing.T, catalog services.CatalogClient) (*Runner, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		DB:      db,
		Catalog: catalog,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

// run executes the CLI with args against runner's commands.
func run(runner *Runner, args ...string) error {
	app := &cli.Command{Name: "setlist", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"setlist"}, args...))
}

func saveTicket(t *testing.T, runner *Runner, name string, songs int) models.Ticket {
	t.Helper()
	ticket := models.Ticket{ConcertName: name, Artist: "Metallica", Venue: "Stadium", Songs: tu.MockTracks(songs)}
	if err := runner.tickets.Save(context.Background(), &ticket); err != nil {
		t.Fatalf("failed to save ticket: %v", err)
	}
	return ticket
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := tu.NewMockCatalog(0)
			api := services.NewAPIService("http://example.test", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if _, ok := runner.catalog.(*services.DeezerService); !ok {
				t.Errorf("expected Deezer catalog by default, got %T", runner.catalog)
			}
			if runner.api == nil {
				t.Error("expected default API client")
			}
			if runner.db != nil || runner.tickets != nil {
				t.Error("expected database to be opened lazily")
			}
		})

		t.Run("with database attaches repositories", func(t *testing.T) {
			runner, _ := newTestRunner(t, nil)
			if runner.tickets == nil || runner.tracks == nil {
				t.Fatal("expected repositories to be attached")
			}

			if err := runner.Close(); err != nil {
				t.Fatalf("unexpected close error: %v", err)
			}
			if runner.db != nil || runner.tickets != nil {
				t.Error("expected database to be released")
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected second close to be a no-op, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writeTable", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		err := runner.writeTable([]string{"Name", "Songs"}, [][]string{{"M72", "18"}, {"Short row"}}, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"Name", "Songs", "M72", "18", "Short row"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected table to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "search", "serve", "tickets", "cache", "tui", "api"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestSearchCommand(t *testing.T) {
	t.Run("Prints Merged Results", func(t *testing.T) {
		catalog := tu.NewMockCatalog(120)
		runner, output := newTestRunner(t, catalog)

		if err := run(runner, "search", "metallica", "live"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if calls := catalog.Calls(); len(calls) != 3 || calls[0].Query != "metallica live" {
			t.Errorf("expected 3 calls for the joined query, got %+v", calls)
		}
		result := output.String()
		if !strings.Contains(result, `120 results for "metallica live"`) {
			t.Errorf("expected result header, got:\n%s", result)
		}
		if !strings.Contains(result, "Track 120") {
			t.Error("expected last track to be listed")
		}
	})

	t.Run("Caches Tracks", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockCatalog(10))

		if err := run(runner, "search", "metallica"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cached, err := runner.tracks.List(map[string]any{"catalog": "mock"})
		if err != nil {
			t.Fatalf("failed to list cached tracks: %v", err)
		}
		if len(cached) != 10 {
			t.Errorf("expected 10 cached tracks, got %d", len(cached))
		}
	})

	t.Run("JSON Output", func(t *testing.T) {
		runner, output := newTestRunner(t, tu.NewMockCatalog(7))

		if err := run(runner, "search", "--json", "metallica"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tracks []models.Track
		if err := json.Unmarshal(output.Bytes(), &tracks); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if len(tracks) != 7 || tracks[0].ID != "1" {
			t.Errorf("unexpected tracks %+v", tracks)
		}
	})

	t.Run("Missing Query", func(t *testing.T) {
		catalog := tu.NewMockCatalog(10)
		runner, _ := newTestRunner(t, catalog)

		err := run(runner, "search", "   ")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if len(catalog.Calls()) != 0 {
			t.Error("expected no catalog calls")
		}
	})

	t.Run("Catalog Failure", func(t *testing.T) {
		catalog := tu.NewMockCatalog(200)
		catalog.FailAt = 1
		catalog.Err = errors.New("connection reset")
		runner, _ := newTestRunner(t, catalog)

		if err := run(runner, "search", "metallica"); !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Errorf("expected ErrCatalogUnavailable, got %v", err)
		}
	})
}

func TestTicketsCommand(t *testing.T) {
	t.Run("List Empty", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)

		if err := run(runner, "tickets", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "No tickets saved yet") {
			t.Errorf("expected empty message, got %q", output.String())
		}
	})

	t.Run("List", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		saveTicket(t, runner, "M72 Night One", 3)
		saveTicket(t, runner, "Ride the Lightning", 1)

		if err := run(runner, "tickets", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "M72 Night One") || !strings.Contains(result, "Ride the Lightning") {
			t.Errorf("expected both tickets, got:\n%s", result)
		}
	})

	t.Run("List Search JSON", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		saveTicket(t, runner, "M72 Night One", 3)
		saveTicket(t, runner, "Ride the Lightning", 1)

		if err := run(runner, "tickets", "list", "--search", "m72", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tickets []models.Ticket
		if err := json.Unmarshal(output.Bytes(), &tickets); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(tickets) != 1 || tickets[0].ConcertName != "M72 Night One" {
			t.Errorf("unexpected tickets %+v", tickets)
		}
	})

	t.Run("Show", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		ticket := saveTicket(t, runner, "M72 Night One", 2)

		if err := run(runner, "tickets", "show", ticket.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Concert: M72 Night One") || !strings.Contains(result, "2. Artist - Track 2") {
			t.Errorf("unexpected output:\n%s", result)
		}
	})

	t.Run("Show Unknown", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)

		if err := run(runner, "tickets", "show", "missing"); !errors.Is(err, shared.ErrTicketNotFound) {
			t.Errorf("expected ErrTicketNotFound, got %v", err)
		}
		if err := run(runner, "tickets", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		ticket := saveTicket(t, runner, "Kill 'Em All", 1)

		if err := run(runner, "tickets", "delete", ticket.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Deleted") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
		if _, err := runner.tickets.Get(ticket.ID); !errors.Is(err, shared.ErrTicketNotFound) {
			t.Errorf("expected ticket to be gone, got %v", err)
		}
	})

	t.Run("Export One", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)
		ticket := saveTicket(t, runner, "Ride the Lightning", 2)
		dir := t.TempDir()

		if err := run(runner, "tickets", "export", "--format", "json", "--dir", dir, ticket.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		path := filepath.Join(dir, formatter.Slug(&ticket)+".json")
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "Ride the Lightning") {
			t.Errorf("unexpected export content %s", content)
		}
	})

	t.Run("Export All", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)
		saveTicket(t, runner, "M72 Night One", 2)
		saveTicket(t, runner, "M72 Night Two", 3)
		dir := filepath.Join(t.TempDir(), "out")

		if err := run(runner, "tickets", "export", "--all", "--format", "txt", "--dir", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Exported: 2/2") {
			t.Errorf("expected summary, got:\n%s", output.String())
		}
	})

	t.Run("Export Invalid Format", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)

		if err := run(runner, "tickets", "export", "--format", "pdf", "--all"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestCacheCommand(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		runner, output := newTestRunner(t, nil)

		if err := run(runner, "cache", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "No cached tracks") {
			t.Errorf("expected empty message, got %q", output.String())
		}
	})

	t.Run("Lists Cached Tracks", func(t *testing.T) {
		runner, output := newTestRunner(t, tu.NewMockCatalog(3))
		if err := run(runner, "search", "--json", "metallica"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		output.Reset()

		if err := run(runner, "cache", "list", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var tracks []models.Track
		if err := json.Unmarshal(output.Bytes(), &tracks); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(tracks) != 3 {
			t.Errorf("expected 3 cached tracks, got %d", len(tracks))
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("Database", func(t *testing.T) {
		dir := t.TempDir()
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		t.Cleanup(func() { os.Chdir(wd) })

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		configPath := filepath.Join(dir, "config.toml")

		if err := run(runner, "setup", "database", "--config", configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, filepath.Join(dir, "setlist.db"))
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Status", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "status.db")

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(runner, "setup", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "pending") || strings.Contains(result, "applied") {
			t.Errorf("expected only pending migrations, got:\n%s", result)
		}
	})
}

func TestAPICommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/data":
			w.Write([]byte(`[{"concertName":"M72"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	newRunner := func() (*Runner, *bytes.Buffer) {
		output := &bytes.Buffer{}
		return NewRunner(RunnerOpts{
			API:    services.NewAPIService(srv.URL, srv.Client()),
			Logger: shared.NewLogger(io.Discard),
			Output: output,
		}), output
	}

	t.Run("Get", func(t *testing.T) {
		runner, output := newRunner()

		if err := run(runner, "api", "get", "/data"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), `"concertName": "M72"`) {
			t.Errorf("expected pretty JSON, got %q", output.String())
		}
	})

	t.Run("Get Error Status", func(t *testing.T) {
		runner, _ := newRunner()

		err := run(runner, "api", "get", "/nope")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Not found") {
			t.Errorf("expected server message in error, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		runner := NewRunner(RunnerOpts{
			API:    services.NewAPIService("http://setlist.invalid", client),
			Logger: shared.NewLogger(io.Discard),
			Output: &bytes.Buffer{},
		})

		if err := run(runner, "api", "get", "/data"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Unreadable Body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		runner := NewRunner(RunnerOpts{
			API:    services.NewAPIService("http://setlist.invalid", client),
			Logger: shared.NewLogger(io.Discard),
			Output: &bytes.Buffer{},
		})

		err := run(runner, "api", "get", "/data")
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read failure, got %v", err)
		}
	})

	t.Run("Post Invalid JSON", func(t *testing.T) {
		runner, _ := newRunner()

		if err := run(runner, "api", "post", "--data", "{nope", "/data"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
