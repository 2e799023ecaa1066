package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// failingBody simulates a failure when reading a response body.
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (failingBody) Close() error { return nil }

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://localhost:3000" {
				t.Errorf("expected default baseURL 'http://localhost:3000', got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Raw Requests", func(t *testing.T) {
		t.Run("JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Custom-Header", "test-value")
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || !resp.IsJSON {
				t.Errorf("expected OK JSON response, got status %d json=%v", resp.StatusCode, resp.IsJSON)
			}
			if resp.Headers.Get("X-Custom-Header") != "test-value" {
				t.Errorf("expected custom header 'test-value', got %s", resp.Headers.Get("X-Custom-Header"))
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Post(context.Background(), "/test", []byte("data"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON || resp.JSONData != nil {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection failed")
			})}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Delete(context.Background(), "/test")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: failingBody{}, Header: http.Header{}}, nil
			})}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Put(context.Background(), "/test", []byte("{}"))
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := NewAPIService(server.URL, nil)
			if _, err := srv.Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("ErrorMessage", func(t *testing.T) {
		resp := &APIResponse{Body: []byte(`{"error":"Failed to create item","details":"concert name is required"}`)}
		if got := resp.ErrorMessage(); got != "Failed to create item: concert name is required" {
			t.Errorf("unexpected message %q", got)
		}

		resp = &APIResponse{Body: []byte(" bad gateway \n")}
		if got := resp.ErrorMessage(); got != "bad gateway" {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Decodes Data", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/deezer-search" {
					t.Errorf("expected proxy path, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("q") != "master of puppets" {
					t.Errorf("expected normalized query, got %q", r.URL.Query().Get("q"))
				}
				w.Write([]byte(`{"data":[{"id":1,"title":"Battery","artist":"Metallica"}]}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			tracks, err := srv.Search(context.Background(), "  master of puppets ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 1 || tracks[0].ID != "1" {
				t.Errorf("unexpected tracks %+v", tracks)
			}
		})

		t.Run("Empty Query", func(t *testing.T) {
			srv := NewAPIService("http://example.com", &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				t.Error("expected no request")
				return nil, errors.New("unreachable")
			})})

			if _, err := srv.Search(context.Background(), " "); !errors.Is(err, shared.ErrEmptyQuery) {
				t.Errorf("expected ErrEmptyQuery, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Failed to fetch from catalog"}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			_, err := srv.Search(context.Background(), "x")
			if !errors.Is(err, shared.ErrCatalogUnavailable) {
				t.Errorf("expected ErrCatalogUnavailable, got %v", err)
			}
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Run("Create Posts And Takes ID", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/data" {
					t.Errorf("expected POST /data, got %s %s", r.Method, r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				var tk models.Ticket
				if err := json.Unmarshal(body, &tk); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				tk.ID = "new-id"
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(tk)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			ticket := &models.Ticket{ConcertName: "Tour"}
			if err := srv.Save(context.Background(), ticket); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ticket.ID != "new-id" {
				t.Errorf("expected ID to be filled in, got %q", ticket.ID)
			}
		})

		t.Run("Update Puts", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/data/abc" {
					t.Errorf("expected PUT /data/abc, got %s %s", r.Method, r.URL.Path)
				}
				w.Write([]byte(`{"id":"abc","concertName":"Tour","songs":[]}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			if err := srv.Save(context.Background(), &models.Ticket{ID: "abc", ConcertName: "Tour"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			err := srv.Save(context.Background(), &models.Ticket{ID: "gone", ConcertName: "Tour"})
			if !errors.Is(err, shared.ErrTicketNotFound) {
				t.Errorf("expected ErrTicketNotFound, got %v", err)
			}
		})

		t.Run("Rejected", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Failed to create item","details":"boom"}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			err := srv.Save(context.Background(), &models.Ticket{ConcertName: "Tour"})
			if !errors.Is(err, shared.ErrSaveFailed) {
				t.Fatalf("expected ErrSaveFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "boom") {
				t.Errorf("expected details in error, got %v", err)
			}
		})
	})

	t.Run("Tickets", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/data":
				w.Write([]byte(`[{"id":"a","concertName":"One","songs":[]},{"id":"b","concertName":"Two","songs":[]}]`))
			case "/data/a":
				w.Write([]byte(`{"id":"a","concertName":"One","songs":[{"id":7,"title":"Seven"}]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		srv := NewAPIService(server.URL, nil)

		tickets, err := srv.Tickets(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tickets) != 2 {
			t.Errorf("expected 2 tickets, got %d", len(tickets))
		}

		ticket, err := srv.Ticket(context.Background(), "a")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(ticket.Songs) != 1 || ticket.Songs[0].ID != "7" {
			t.Errorf("unexpected songs %+v", ticket.Songs)
		}

		if _, err := srv.Ticket(context.Background(), "missing"); !errors.Is(err, shared.ErrTicketNotFound) {
			t.Errorf("expected ErrTicketNotFound, got %v", err)
		}
	})
}
