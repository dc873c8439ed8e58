// Package httpjson provides a generic feed for plain JSON endpoints:
// the partner catalogs and the credential-gated API schema endpoint.
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// DefaultTimeout is the HTTP request timeout for feed fetches.
const DefaultTimeout = 30 * time.Second

// maxPayloadBytes caps a feed response. Catalogs and schemas are a few
// megabytes at most; anything larger is treated as malformed.
const maxPayloadBytes = 32 << 20

// Ensure Feed implements the interface.
var _ driven.Feed = (*Feed)(nil)

// Feed fetches one JSON endpoint. A JSON array yields one record per
// element; a JSON object yields a single record.
type Feed struct {
	name   string
	url    string
	token  string
	client *http.Client
}

// Option configures a Feed.
type Option func(*Feed)

// WithBearerToken sends the token as a bearer Authorization header.
func WithBearerToken(token string) Option {
	return func(f *Feed) {
		f.token = token
	}
}

// WithHTTPClient replaces the default HTTP client. Used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Feed) {
		f.client = client
	}
}

// New creates a feed for the given endpoint.
func New(name, url string, opts ...Option) *Feed {
	f := &Feed{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the feed identifier.
func (f *Feed) Name() string {
	return f.name
}

// Fetch issues the feed's single GET request and splits the response
// into raw records.
func (f *Feed) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFeedUnavailable, f.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return splitRecords(f.name, body)
}

// splitRecords turns a JSON payload into raw records.
func splitRecords(feed string, body []byte) ([]domain.RawRecord, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err == nil {
		records := make([]domain.RawRecord, len(elements))
		for i, el := range elements {
			records[i] = domain.RawRecord{Feed: feed, Payload: el}
		}
		return records, nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}

	return []domain.RawRecord{{Feed: feed, Payload: json.RawMessage(body)}}, nil
}
