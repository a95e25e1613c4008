// Package wordstore loads the full entry set at the start of a session.
package wordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/at-ishikawa/oxword/internal/dictionary"
	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedFormat is returned when the bulk response carries neither a "results" nor a "words" array.
var ErrUnexpectedFormat = errors.New("word store response format is unexpected")

// Loader loads the full entry set.
type Loader interface {
	FetchAll(ctx context.Context) ([]dictionary.Entry, error)
}

// Client fetches entries from the word store server.
type Client struct {
	baseURL string
	limit   int
	client  *resty.Client
}

func NewClient(baseURL string, limit int) *Client {
	if limit <= 0 {
		limit = dictionary.DefaultBulkLimit
	}
	return &Client{
		baseURL: baseURL,
		limit:   limit,
		client:  resty.New(),
	}
}

type bulkResponse struct {
	Results json.RawMessage `json:"results"`
	Words   json.RawMessage `json:"words"`
}

// storedWord accepts both the document field names and the list row field names.
type storedWord struct {
	Word         string `json:"word"`
	English      string `json:"english"`
	CEFR         string `json:"CEFR"`
	Level        string `json:"cefr"`
	Type         string `json:"type"`
	WordType     string `json:"wordType"`
	Translation  string `json:"translation"`
	Turkish      string `json:"turkish"`
	Translations struct {
		TR struct {
			Word string `json:"word"`
		} `json:"tr"`
	} `json:"translations"`
}

func (w storedWord) toEntry(ordinal int) dictionary.Entry {
	return dictionary.Entry{
		Ordinal:      strconv.Itoa(ordinal),
		Level:        dictionary.Level(firstNonEmpty(w.CEFR, w.Level)),
		PartOfSpeech: firstNonEmpty(w.Type, w.WordType),
		Headword:     firstNonEmpty(w.Word, w.English),
		Translation:  firstNonEmpty(w.Translations.TR.Word, w.Translation, w.Turkish),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FetchAll fetches every entry, numbered from 1 in the order the server returns them.
func (c *Client) FetchAll(ctx context.Context) ([]dictionary.Entry, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("limit", strconv.Itoa(c.limit)).
		Get(c.baseURL + "/api/dictionary/words")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", res.StatusCode())
	}
	return decodeEntries(res.Body())
}

func decodeEntries(body []byte) ([]dictionary.Entry, error) {
	var response bulkResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedFormat, err)
	}

	var words []storedWord
	switch {
	case isArray(response.Results):
		if err := json.Unmarshal(response.Results, &words); err != nil {
			return nil, fmt.Errorf("%w: results: %w", ErrUnexpectedFormat, err)
		}
	case isArray(response.Words):
		if err := json.Unmarshal(response.Words, &words); err != nil {
			return nil, fmt.Errorf("%w: words: %w", ErrUnexpectedFormat, err)
		}
	default:
		return nil, ErrUnexpectedFormat
	}

	entries := make([]dictionary.Entry, 0, len(words))
	for i, w := range words {
		entries = append(entries, w.toEntry(i+1))
	}
	return entries, nil
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
