package wordstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/at-ishikawa/oxword/internal/dictionary"
)

const csvColumns = 5

// CSVLoader reads entries from a semicolon separated file with the header
// "No;CEFR;Type;English;Turkish".
type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

func (l *CSVLoader) FetchAll(_ context.Context) ([]dictionary.Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", l.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	entries, err := ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("ParseCSV(%s) > %w", l.path, err)
	}
	return entries, nil
}

// ParseCSV skips the header row, blank rows and rows with fewer than five columns.
func ParseCSV(r io.Reader) ([]dictionary.Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var entries []dictionary.Entry
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reader.Read > %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < csvColumns {
			slog.Default().Debug("skipping csv row", "row", strings.Join(record, ";"))
			continue
		}
		entries = append(entries, dictionary.Entry{
			Ordinal:      strings.TrimSpace(record[0]),
			Level:        dictionary.Level(strings.TrimSpace(record[1])),
			PartOfSpeech: strings.TrimSpace(record[2]),
			Headword:     strings.TrimSpace(record[3]),
			Translation:  strings.TrimSpace(record[4]),
		})
	}
	return entries, nil
}
