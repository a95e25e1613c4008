package dictionary

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Level is a CEFR proficiency level code.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"

	// LevelAll is the filter sentinel that keeps every level.
	LevelAll Level = "all"
)

// Levels lists the canonical levels in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

var levelRanks = map[Level]int{
	LevelA1: 1,
	LevelA2: 2,
	LevelB1: 3,
	LevelB2: 4,
	LevelC1: 5,
	LevelC2: 6,
}

// Rank returns the position of the level in the CEFR scale.
// Levels outside the scale, including the empty level, rank 0.
func Rank(level Level) int {
	return levelRanks[level]
}

// IsCanonical reports whether the level is one of A1..C2.
func (l Level) IsCanonical() bool {
	_, ok := levelRanks[l]
	return ok
}

// ParseLevel accepts a level code in any case, or "all".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(LevelAll)) {
		return LevelAll, nil
	}
	level := Level(strings.ToUpper(s))
	if !level.IsCanonical() {
		return "", fmt.Errorf("invalid level %q, valid values are %v or %q", s, Levels, LevelAll)
	}
	return level, nil
}

// Entry is one row of the word list.
type Entry struct {
	Ordinal      string `json:"number" yaml:"number"`
	Level        Level  `json:"cefr" yaml:"cefr"`
	PartOfSpeech string `json:"wordType" yaml:"word_type"`
	Headword     string `json:"english" yaml:"english"`
	Translation  string `json:"turkish" yaml:"turkish"`
}

// Example is a sentence with its translation.
type Example struct {
	Source string `json:"en" yaml:"en"`
	Target string `json:"tr" yaml:"tr"`
}

// EnrichmentRecord holds the details shown for a single entry.
type EnrichmentRecord struct {
	Headword           string    `json:"word"`
	Level              Level     `json:"CEFR"`
	PartOfSpeech       string    `json:"type"`
	Definition         string    `json:"definition"`
	Pronunciation      string    `json:"pronunciation,omitempty"`
	Examples           []Example `json:"examples"`
	Synonyms           []string  `json:"synonyms"`
	Note               string    `json:"note,omitempty"`
	Translation        string    `json:"turkishTranslation,omitempty"`
	TranslatedExamples []string  `json:"turkishExamples,omitempty"`
}

// CacheKey builds the enrichment cache key for a headword and level.
// Identical lookups share a key, different levels of a headword do not.
func CacheKey(headword string, level Level) string {
	return headword + "-" + string(level)
}

// StringList is a list of strings stored as a JSON array column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, (*[]string)(l)); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal > %w", err)
	}
	return string(data), nil
}

// Word is a word document in the word store.
type Word struct {
	ID                 int64      `db:"id" yaml:"-"`
	Word               string     `db:"word" yaml:"word"`
	Level              Level      `db:"level" yaml:"cefr"`
	PartOfSpeech       string     `db:"part_of_speech" yaml:"type"`
	Definition         string     `db:"definition" yaml:"definition"`
	Pronunciation      string     `db:"pronunciation" yaml:"pronunciation,omitempty"`
	Examples           StringList `db:"examples" yaml:"examples,omitempty"`
	Synonyms           StringList `db:"synonyms" yaml:"synonyms,omitempty"`
	Translation        string     `db:"translation" yaml:"translation"`
	TranslatedExamples StringList `db:"translated_examples" yaml:"translated_examples,omitempty"`
	Note               string     `db:"note" yaml:"note,omitempty"`
	CreatedAt          time.Time  `db:"created_at" yaml:"-"`
	UpdatedAt          time.Time  `db:"updated_at" yaml:"-"`
}

// ToEntry converts the word to a list row. ordinal is 1-based.
func (w Word) ToEntry(ordinal int) Entry {
	return Entry{
		Ordinal:      strconv.Itoa(ordinal),
		Level:        w.Level,
		PartOfSpeech: w.PartOfSpeech,
		Headword:     w.Word,
		Translation:  w.Translation,
	}
}

// ToEnrichmentRecord converts the word to its detail payload.
// Examples and translated examples are paired by position.
func (w Word) ToEnrichmentRecord() EnrichmentRecord {
	examples := make([]Example, 0, len(w.Examples))
	for i, source := range w.Examples {
		example := Example{Source: source}
		if i < len(w.TranslatedExamples) {
			example.Target = w.TranslatedExamples[i]
		}
		examples = append(examples, example)
	}
	synonyms := []string(w.Synonyms)
	if synonyms == nil {
		synonyms = []string{}
	}
	return EnrichmentRecord{
		Headword:           w.Word,
		Level:              w.Level,
		PartOfSpeech:       w.PartOfSpeech,
		Definition:         w.Definition,
		Pronunciation:      w.Pronunciation,
		Examples:           examples,
		Synonyms:           synonyms,
		Note:               w.Note,
		Translation:        w.Translation,
		TranslatedExamples: []string(w.TranslatedExamples),
	}
}

// ToEntries converts words to list rows numbered from 1.
func ToEntries(words []Word) []Entry {
	entries := make([]Entry, 0, len(words))
	for i, w := range words {
		entries = append(entries, w.ToEntry(i+1))
	}
	return entries
}
