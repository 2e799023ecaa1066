// API client for a running setlist server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// APIService talks to the JSON API exposed by `setlist serve`.
//
// It satisfies the workflow Searcher and Saver interfaces so the TUI can run against a remote server.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API client for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorMessage extracts the "error" (and "details") fields of an error body.
//
// Non-JSON bodies are returned trimmed.
func (r *APIResponse) ErrorMessage() string {
	if !gjson.ValidBytes(r.Body) {
		return strings.TrimSpace(string(r.Body))
	}

	msg := gjson.GetBytes(r.Body, "error")
	if msg.Type != gjson.String || msg.Str == "" {
		return strings.TrimSpace(string(r.Body))
	}
	if details := gjson.GetBytes(r.Body, "details"); details.Type == gjson.String && details.Str != "" {
		return msg.Str + ": " + details.Str
	}
	return msg.Str
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Search runs an aggregated catalog search through the server's proxy endpoint.
//
// A blank query returns [shared.ErrEmptyQuery] without contacting the server.
func (a *APIService) Search(ctx context.Context, query string) ([]models.Track, error) {
	query, err := shared.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	resp, err := a.Get(ctx, "/api/deezer-search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrCatalogUnavailable, resp.StatusCode, resp.ErrorMessage())
	}

	var body struct {
		Data []models.Track `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrCatalogUnavailable, err)
	}
	return body.Data, nil
}

// Save creates the ticket, or updates it when ticket.ID is set.
func (a *APIService) Save(ctx context.Context, ticket *models.Ticket) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to encode ticket: %w", err)
	}

	var resp *APIResponse
	if ticket.ID == "" {
		resp, err = a.Post(ctx, "/data", payload)
	} else {
		resp, err = a.Put(ctx, "/data/"+url.PathEscape(ticket.ID), payload)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSaveFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrTicketNotFound, ticket.ID)
	case !resp.OK():
		return fmt.Errorf("%w: status %d: %s", shared.ErrSaveFailed, resp.StatusCode, resp.ErrorMessage())
	}

	var saved models.Ticket
	if err := json.Unmarshal(resp.Body, &saved); err == nil && saved.ID != "" {
		ticket.ID = saved.ID
	}
	return nil
}

// Ticket fetches a single ticket by ID.
func (a *APIService) Ticket(ctx context.Context, id string) (*models.Ticket, error) {
	resp, err := a.Get(ctx, "/data/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrTicketNotFound, id)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.ErrorMessage())
	}

	var ticket models.Ticket
	if err := json.Unmarshal(resp.Body, &ticket); err != nil {
		return nil, fmt.Errorf("failed to decode ticket: %w", err)
	}
	return &ticket, nil
}

// Tickets lists tickets stored on the server.
func (a *APIService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	resp, err := a.Get(ctx, "/data")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.ErrorMessage())
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(resp.Body, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return tickets, nil
}
