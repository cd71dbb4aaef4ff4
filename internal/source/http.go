package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

// DefaultPageSize is the page size used for filtered queries when none
// is configured.
const DefaultPageSize = 100

// DefaultMaxPages bounds pagination so a misbehaving server cannot keep
// the fetch loop alive forever.
const DefaultMaxPages = 50

// HTTPSource implements Source against the launch REST API.
type HTTPSource struct {
	baseURL    string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithPageSize sets the page size for filtered queries.
func WithPageSize(n int) Option {
	return func(s *HTTPSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxPages sets the pagination hard cap.
func WithMaxPages(n int) Option {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

// NewHTTPSource creates a source targeting the given base URL
// (e.g. "https://api.spacexdata.com/v4").
func NewHTTPSource(baseURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   DefaultPageSize,
		maxPages:   DefaultMaxPages,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile-time check that HTTPSource implements Source.
var _ Source = (*HTTPSource)(nil)

func (s *HTTPSource) Latest(ctx context.Context) (*model.RawLaunch, error) {
	var raw model.RawLaunch
	if err := s.doJSON(ctx, http.MethodGet, "/launches/latest", nil, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (s *HTTPSource) All(ctx context.Context) ([]model.RawLaunch, error) {
	var raws []model.RawLaunch
	if err := s.doJSON(ctx, http.MethodGet, "/launches", nil, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// queryRequest is the Mongo-style filter body accepted by the /launches/query
// endpoint.
type queryRequest struct {
	Query   map[string]any `json:"query"`
	Options queryOptions   `json:"options"`
}

type queryOptions struct {
	Sort  map[string]int `json:"sort"`
	Limit int            `json:"limit"`
	Page  int            `json:"page"`
}

// queryPage is one page of a paginated query response.
type queryPage struct {
	Docs        []model.RawLaunch `json:"docs"`
	TotalDocs   int               `json:"totalDocs"`
	Page        int               `json:"page"`
	TotalPages  int               `json:"totalPages"`
	HasNextPage bool              `json:"hasNextPage"`
}

func (s *HTTPSource) Since(ctx context.Context, threshold time.Time) ([]model.RawLaunch, error) {
	var all []model.RawLaunch

	for page := 1; ; page++ {
		req := queryRequest{
			Query: map[string]any{
				"date_utc": map[string]any{"$gte": threshold.UTC().Format(time.RFC3339)},
			},
			Options: queryOptions{
				Sort:  map[string]int{"date_utc": 1},
				Limit: s.pageSize,
				Page:  page,
			},
		}

		var resp queryPage
		if err := s.doJSON(ctx, http.MethodPost, "/launches/query", req, &resp); err != nil {
			return nil, fmt.Errorf("query page %d: %w", page, err)
		}

		all = append(all, resp.Docs...)

		if !resp.HasNextPage || len(resp.Docs) == 0 {
			break
		}
		// Hard cap against a server that always reports another page.
		if page >= s.maxPages {
			break
		}
	}

	return all, nil
}

// payload is the subset of the /payloads response the pipeline needs.
type payload struct {
	ID     string   `json:"id"`
	MassKg *float64 `json:"mass_kg"`
}

func (s *HTTPSource) PayloadMass(ctx context.Context, id string) (float64, bool, error) {
	var p payload
	if err := s.doJSON(ctx, http.MethodGet, "/payloads/"+url.PathEscape(id), nil, &p); err != nil {
		return 0, false, err
	}
	if p.MassKg == nil {
		return 0, false, nil
	}
	return *p.MassKg, true, nil
}

// APIError represents an error response from the launch API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("launch API error (status %d): %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response into result (if non-nil).
func (s *HTTPSource) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
