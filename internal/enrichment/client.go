// Package enrichment looks up the details of a single dictionary entry and coordinates
// those lookups with the enrichment cache.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/at-ishikawa/oxword/internal/dictionary"
	"resty.dev/v3"
)

//go:generate mockgen -source=client.go -destination=../mocks/enrichment/mock_client.go -package=mock_enrichment

// Client looks up the enrichment record of one entry.
type Client interface {
	Lookup(ctx context.Context, term string, level dictionary.Level) (dictionary.EnrichmentRecord, error)
}

// APIError is returned when the word store answers with a non-success status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPClient calls the word store's lookup route. It never caches or retries.
type HTTPClient struct {
	httpClient *resty.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")

	return &HTTPClient{
		httpClient: client,
	}
}

func (client *HTTPClient) Close() error {
	return client.httpClient.Close()
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Lookup fetches the record of term at level.
func (client *HTTPClient) Lookup(ctx context.Context, term string, level dictionary.Level) (dictionary.EnrichmentRecord, error) {
	var record dictionary.EnrichmentRecord

	// resty escapes query parameters.
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("term", term).
		SetQueryParam("cefr", string(level)).
		Get("/api/dictionary/word")
	if err != nil {
		return record, fmt.Errorf("httpClient.Get(/api/dictionary/word) > %w", err)
	}

	body := []byte(response.String())
	if response.IsError() || response.StatusCode() < 200 || response.StatusCode() >= 300 {
		return record, newAPIError(response.StatusCode(), body)
	}

	if err := decodeRecord(body, &record); err != nil {
		return record, fmt.Errorf("decodeRecord > %w", err)
	}
	return record, nil
}

func newAPIError(status int, body []byte) *APIError {
	message := fmt.Sprintf("API Error: %d", status)
	var errResponse errorResponse
	if err := json.Unmarshal(body, &errResponse); err == nil && errResponse.Detail != "" {
		message = errResponse.Detail
	}
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// decodeRecord accepts either a bare record or a {"data": record} envelope.
func decodeRecord(body []byte, record *dictionary.EnrichmentRecord) error {
	var wrapped envelope
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}

	payload := body
	if len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
		payload = wrapped.Data
	}
	if err := json.Unmarshal(payload, record); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	return nil
}
