// Package server serves the word store over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/at-ishikawa/oxword/internal/dictionary"
)

const (
	defaultLevelLimit  = 50
	defaultSearchLimit = 20
	minSearchLength    = 2
)

// DictionaryHandler implements the /api/dictionary routes.
type DictionaryHandler struct {
	repo      dictionary.WordRepository
	bulkLimit int
}

// NewDictionaryHandler creates a new DictionaryHandler.
func NewDictionaryHandler(repo dictionary.WordRepository, bulkLimit int) *DictionaryHandler {
	if bulkLimit <= 0 {
		bulkLimit = dictionary.DefaultBulkLimit
	}
	return &DictionaryHandler{
		repo:      repo,
		bulkLimit: bulkLimit,
	}
}

// Register adds the dictionary routes to mux.
func (h *DictionaryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dictionary/words", h.ListWords)
	mux.HandleFunc("GET /api/dictionary/word", h.GetWord)
	mux.HandleFunc("GET /api/dictionary/cefr", h.ListWordsByLevel)
	mux.HandleFunc("GET /api/dictionary/search", h.SearchWords)
}

type translationDocument struct {
	Word     string   `json:"word"`
	Examples []string `json:"examples"`
}

// wordDocument is the JSON form of a stored word.
type wordDocument struct {
	Word          string   `json:"word"`
	CEFR          string   `json:"CEFR"`
	Type          string   `json:"type"`
	Definition    string   `json:"definition"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	Examples      []string `json:"examples"`
	Synonyms      []string `json:"synonyms"`
	Translations  struct {
		TR translationDocument `json:"tr"`
	} `json:"translations"`
	Note string `json:"note"`
}

func toDocument(w dictionary.Word) wordDocument {
	doc := wordDocument{
		Word:          w.Word,
		CEFR:          string(w.Level),
		Type:          w.PartOfSpeech,
		Definition:    w.Definition,
		Pronunciation: w.Pronunciation,
		Examples:      nonNil(w.Examples),
		Synonyms:      nonNil(w.Synonyms),
		Note:          w.Note,
	}
	doc.Translations.TR = translationDocument{
		Word:     w.Translation,
		Examples: nonNil(w.TranslatedExamples),
	}
	return doc
}

func toDocuments(words []dictionary.Word) []wordDocument {
	docs := make([]wordDocument, 0, len(words))
	for _, w := range words {
		docs = append(docs, toDocument(w))
	}
	return docs
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type levelResponse struct {
	Total      int            `json:"total"`
	Words      []wordDocument `json:"words"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

type searchResponse struct {
	Total      int            `json:"total"`
	Results    []wordDocument `json:"results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// ListWords returns the whole word list for a browsing session.
func (h *DictionaryHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", h.bulkLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit = min(limit, h.bulkLimit)

	words, err := h.repo.FindAll(r.Context(), limit)
	if err != nil {
		slog.Default().Error("failed to fetch all words", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dictionary data")
		return
	}
	docs := toDocuments(words)
	writeJSON(w, http.StatusOK, struct {
		Total int            `json:"total"`
		Words []wordDocument `json:"words"`
	}{
		Total: len(docs),
		Words: docs,
	})
}

// GetWord returns the enrichment record of one word.
// An unknown level falls back to the word at any level.
func (h *DictionaryHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := query.Get("term")
	if term == "" {
		writeError(w, http.StatusBadRequest, "Word term parameter is required")
		return
	}

	var level dictionary.Level
	if cefr := query.Get("cefr"); cefr != "" {
		parsed, err := dictionary.ParseLevel(cefr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		level = parsed
	}

	word, err := h.repo.FindByWord(r.Context(), term, level)
	if err != nil {
		slog.Default().Error("failed to look up word", "term", term, "level", level, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while looking up the word")
		return
	}
	if word == nil {
		writeError(w, http.StatusNotFound, "Word not found")
		return
	}
	writeJSON(w, http.StatusOK, word.ToEnrichmentRecord())
}

// ListWordsByLevel returns a page of words at one level.
func (h *DictionaryHandler) ListWordsByLevel(w http.ResponseWriter, r *http.Request) {
	rawLevel := r.URL.Query().Get("level")
	if rawLevel == "" {
		writeError(w, http.StatusBadRequest, "CEFR level parameter is required")
		return
	}
	level, err := dictionary.ParseLevel(rawLevel)
	if err != nil || level == dictionary.LevelAll {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid CEFR level %q", rawLevel))
		return
	}
	limit, skip, err := pageParams(r, defaultLevelLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	total, err := h.repo.CountByLevel(r.Context(), level)
	if err != nil {
		slog.Default().Error("failed to count words by level", "level", level, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while fetching words")
		return
	}
	words, err := h.repo.FindByLevel(r.Context(), level, limit, skip)
	if err != nil {
		slog.Default().Error("failed to fetch words by level", "level", level, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while fetching words")
		return
	}
	if len(words) == 0 {
		writeJSON(w, http.StatusNotFound, struct {
			Detail string         `json:"detail"`
			Total  int            `json:"total"`
			Words  []wordDocument `json:"words"`
		}{
			Detail: fmt.Sprintf("No words found for CEFR level %s", level),
			Words:  []wordDocument{},
		})
		return
	}

	writeJSON(w, http.StatusOK, levelResponse{
		Total:      total,
		Words:      toDocuments(words),
		Page:       skip/limit + 1,
		TotalPages: (total + limit - 1) / limit,
	})
}

// SearchWords returns a page of words containing the query.
func (h *DictionaryHandler) SearchWords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	if len([]rune(q)) < minSearchLength {
		writeError(w, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}

	params := dictionary.SearchParams{
		Query:    q,
		Language: dictionary.SearchLanguageAll,
	}
	switch lang := dictionary.SearchLanguage(query.Get("lang")); lang {
	case "", dictionary.SearchLanguageAll:
	case dictionary.SearchLanguageEnglish, dictionary.SearchLanguageTranslation:
		params.Language = lang
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid lang %q", lang))
		return
	}
	if cefr := query.Get("cefr"); cefr != "" {
		level, err := dictionary.ParseLevel(cefr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.Level = level
	}
	limit, skip, err := pageParams(r, defaultSearchLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params.Limit = limit
	params.Skip = skip

	words, total, err := h.repo.Search(r.Context(), params)
	if err != nil {
		slog.Default().Error("failed to search words", "query", q, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while searching words")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Total:      total,
		Results:    toDocuments(words),
		Page:       skip/limit + 1,
		TotalPages: (total + limit - 1) / limit,
	})
}

func pageParams(r *http.Request, defaultLimit int) (int, int, error) {
	limit, err := intParam(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 {
		return 0, 0, fmt.Errorf("limit must be positive")
	}
	skip, err := intParam(r, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	if skip < 0 {
		return 0, 0, fmt.Errorf("skip must not be negative")
	}
	return limit, skip, nil
}

func intParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to write response", "error", err)
	}
}
