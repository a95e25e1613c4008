// Package datasync provides import/export orchestration between YAML files and database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/oxword/internal/dictionary"
)

// WordsFile is the YAML document holding word documents.
type WordsFile struct {
	Words []dictionary.Word `yaml:"words"`
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	WordsNew     int
	WordsSkipped int
	WordsUpdated int
	WordsInvalid int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads YAML word documents and writes them to the word store.
type Importer struct {
	repo   dictionary.WordRepository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repo dictionary.WordRepository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// ImportWords upserts words identified by headword and level.
// Words without a headword or with a level outside A1..C2 are reported and skipped.
func (imp *Importer) ImportWords(ctx context.Context, words []dictionary.Word, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	for i := range words {
		word := &words[i]
		if word.Word == "" || !word.Level.IsCanonical() {
			_, _ = fmt.Fprintf(imp.writer, "  [INVALID]  %q (%s)\n", word.Word, word.Level)
			result.WordsInvalid++
			continue
		}

		existing, err := imp.repo.FindByWord(ctx, word.Word, word.Level)
		if err != nil {
			return nil, fmt.Errorf("FindByWord(%s, %s) > %w", word.Word, word.Level, err)
		}

		// FindByWord falls back to other levels of the headword
		if existing != nil && existing.Level == word.Level {
			if !opts.UpdateExisting {
				_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %q (%s)\n", word.Word, word.Level)
				result.WordsSkipped++
				continue
			}
			if !opts.DryRun {
				if err := imp.repo.Upsert(ctx, word); err != nil {
					return nil, fmt.Errorf("Upsert() > %w", err)
				}
			}
			_, _ = fmt.Fprintf(imp.writer, "  [UPDATE]  %q (%s)\n", word.Word, word.Level)
			result.WordsUpdated++
			continue
		}

		if !opts.DryRun {
			if err := imp.repo.Upsert(ctx, word); err != nil {
				return nil, fmt.Errorf("Upsert() > %w", err)
			}
		}
		_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %q (%s)\n", word.Word, word.Level)
		result.WordsNew++
	}

	return &result, nil
}

// Exporter reads the word store.
type Exporter struct {
	repo dictionary.WordRepository
}

// NewExporter creates a new Exporter.
func NewExporter(repo dictionary.WordRepository) *Exporter {
	return &Exporter{repo: repo}
}

// Export reads up to limit words from the word store.
func (e *Exporter) Export(ctx context.Context, limit int) (*WordsFile, error) {
	words, err := e.repo.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll() > %w", err)
	}
	return &WordsFile{Words: words}, nil
}

// ReadWordsFile decodes a YAML words file.
func ReadWordsFile(path string) (*WordsFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var result WordsFile
	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		if err == io.EOF {
			return &result, nil
		}
		return nil, fmt.Errorf("yaml.NewDecoder().Decode() > %w", err)
	}
	return &result, nil
}

// WriteWordsFile encodes words as YAML into path.
func WriteWordsFile(path string, data *WordsFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("enc.Encode() > %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("enc.Close() > %w", err)
	}
	return nil
}
