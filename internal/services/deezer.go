// Deezer implementation of [CatalogClient]
//
// Response types based on https://developers.deezer.com/api/search
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	deezerBaseURL      = "https://api.deezer.com"
	deezerName         = "deezer"
	defaultHTTPTimeout = 10 * time.Second
	defaultRateLimit   = 10
)

// DeezerArtist is the artist stub embedded in search results.
type DeezerArtist struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// DeezerAlbum is the album stub embedded in search results.
type DeezerAlbum struct {
	ID         json.Number `json:"id"`
	Title      string      `json:"title"`
	CoverSmall string      `json:"cover_small"`
	Cover      string      `json:"cover"`
}

// DeezerTrack is a single search hit.
type DeezerTrack struct {
	ID       models.TrackID `json:"id"`
	Title    string         `json:"title"`
	Duration int            `json:"duration"`
	Preview  string         `json:"preview"`
	Artist   DeezerArtist   `json:"artist"`
	Album    DeezerAlbum    `json:"album"`
}

// DeezerError is the error object Deezer returns with a 200 status.
type DeezerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *DeezerError) Error() string {
	return fmt.Sprintf("deezer %s (code %d): %s", e.Type, e.Code, e.Message)
}

// DeezerSearchResponse is the envelope of GET /search.
type DeezerSearchResponse struct {
	Data  []DeezerTrack `json:"data"`
	Total int           `json:"total"`
	Next  string        `json:"next"`
	Error *DeezerError  `json:"error"`
}

// ToTrack converts a Deezer hit into a [models.Track].
func (d DeezerTrack) ToTrack() models.Track {
	return models.NewTrack(d.ID, d.Title, d.Artist.Name, d.Album.Title, d.Album.CoverSmall, d.Preview)
}

// DeezerService implements [CatalogClient] against the public Deezer search API.
//
// No authentication is needed. Outbound requests share a token-bucket limiter.
type DeezerService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// DeezerOption customizes a [DeezerService].
type DeezerOption func(*DeezerService)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) DeezerOption {
	return func(s *DeezerService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithBaseURL points the service at a different host, e.g. a test server.
func WithBaseURL(baseURL string) DeezerOption {
	return func(s *DeezerService) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

// WithRateLimit caps outbound requests per second. Non-positive values disable the limit.
func WithRateLimit(perSecond float64) DeezerOption {
	return func(s *DeezerService) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewDeezerService creates a Deezer catalog client.
func NewDeezerService(opts ...DeezerOption) *DeezerService {
	s := &DeezerService{
		baseURL:    deezerBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDeezerServiceFromConfig builds a client from the [catalog] config section.
func NewDeezerServiceFromConfig(cfg shared.CatalogConfig) *DeezerService {
	return NewDeezerService(
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		WithRateLimit(cfg.RateLimit),
	)
}

func (s *DeezerService) Name() string {
	return deezerName
}

// FetchPage performs GET /search?q=...&limit=...&index=...
func (s *DeezerService) FetchPage(ctx context.Context, query string, offset, pageSize int) (*Page, error) {
	if strings.TrimSpace(query) == "" {
		return nil, shared.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("index", strconv.Itoa(offset))

	var response DeezerSearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, response.Error)
	}

	return &Page{
		Tracks: lo.Map(response.Data, func(d DeezerTrack, _ int) models.Track { return d.ToTrack() }),
		Total:  response.Total,
	}, nil
}

// doRequest performs a rate-limited GET against the Deezer API and decodes the JSON body into result.
func (s *DeezerService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrCatalogUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return fmt.Errorf("%w: %w: %v", shared.ErrCatalogUnavailable, shared.ErrTimeout, err)
		}
		return fmt.Errorf("%w: request failed: %v", shared.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: deezer API error: status %d", shared.ErrCatalogUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrCatalogUnavailable, err)
	}
	return nil
}
