package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DefaultBulkLimit caps the number of words returned by a bulk fetch.
const DefaultBulkLimit = 5000

// SearchLanguage selects which columns a search matches against.
type SearchLanguage string

const (
	SearchLanguageAll         SearchLanguage = "all"
	SearchLanguageEnglish     SearchLanguage = "en"
	SearchLanguageTranslation SearchLanguage = "tr"
)

// SearchParams describes a substring search over the word store.
type SearchParams struct {
	Query    string
	Level    Level
	Language SearchLanguage
	Limit    int
	Skip     int
}

//go:generate mockgen -source=repository.go -destination=../mocks/dictionary/mock_repository.go -package=mock_dictionary

// WordRepository defines read and write operations on the word store.
type WordRepository interface {
	FindAll(ctx context.Context, limit int) ([]Word, error)
	FindByWord(ctx context.Context, word string, level Level) (*Word, error)
	FindByLevel(ctx context.Context, level Level, limit, skip int) ([]Word, error)
	CountByLevel(ctx context.Context, level Level) (int, error)
	Search(ctx context.Context, params SearchParams) ([]Word, int, error)
	Upsert(ctx context.Context, word *Word) error
}

// DBWordRepository implements WordRepository using MySQL.
type DBWordRepository struct {
	db *sqlx.DB
}

// NewDBWordRepository creates a new DBWordRepository.
func NewDBWordRepository(db *sqlx.DB) *DBWordRepository {
	return &DBWordRepository{db: db}
}

// FindAll returns up to limit words ordered alphabetically.
func (r *DBWordRepository) FindAll(ctx context.Context, limit int) ([]Word, error) {
	if limit <= 0 {
		limit = DefaultBulkLimit
	}
	var words []Word
	if err := r.db.SelectContext(ctx, &words, "SELECT * FROM words ORDER BY word LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words) > %w", err)
	}
	return words, nil
}

// FindByWord returns the word at the given level. When no word matches the level,
// it falls back to the first word with the same headword. It returns nil if neither exists.
func (r *DBWordRepository) FindByWord(ctx context.Context, word string, level Level) (*Word, error) {
	if level != "" && level != LevelAll {
		found, err := r.findOne(ctx, "SELECT * FROM words WHERE word = ? AND level = ? LIMIT 1", word, level)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return r.findOne(ctx, "SELECT * FROM words WHERE word = ? ORDER BY id LIMIT 1", word)
}

func (r *DBWordRepository) findOne(ctx context.Context, query string, args ...any) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word) > %w", err)
	}
	return &w, nil
}

// FindByLevel returns a page of words at the level ordered alphabetically.
func (r *DBWordRepository) FindByLevel(ctx context.Context, level Level, limit, skip int) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE level = ? ORDER BY word LIMIT ? OFFSET ?",
		level, limit, skip); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words by level) > %w", err)
	}
	return words, nil
}

// CountByLevel returns the number of words at the level.
func (r *DBWordRepository) CountByLevel(ctx context.Context, level Level) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words WHERE level = ?", level); err != nil {
		return 0, fmt.Errorf("db.GetContext(count by level) > %w", err)
	}
	return count, nil
}

// Search returns a page of words containing the query and the total number of matches.
func (r *DBWordRepository) Search(ctx context.Context, params SearchParams) ([]Word, int, error) {
	where, args := searchCondition(params)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM words WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("db.GetContext(search count) > %w", err)
	}

	var words []Word
	pageArgs := append(append([]any{}, args...), params.Limit, params.Skip)
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE "+where+" ORDER BY word LIMIT ? OFFSET ?",
		pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("db.SelectContext(search) > %w", err)
	}
	return words, total, nil
}

func searchCondition(params SearchParams) (string, []any) {
	pattern := "%" + escapeLike(params.Query) + "%"

	var conditions []string
	var args []any
	switch params.Language {
	case SearchLanguageEnglish:
		conditions = append(conditions, "word LIKE ?")
		args = append(args, pattern)
	case SearchLanguageTranslation:
		conditions = append(conditions, "translation LIKE ?")
		args = append(args, pattern)
	default:
		conditions = append(conditions, "(word LIKE ? OR translation LIKE ? OR definition LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if params.Level != "" && params.Level != LevelAll {
		conditions = append(conditions, "level = ?")
		args = append(args, params.Level)
	}
	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Upsert inserts or updates a word identified by its headword and level.
func (r *DBWordRepository) Upsert(ctx context.Context, word *Word) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO words (word, level, part_of_speech, definition, pronunciation, examples, synonyms, translation, translated_examples, note)
		VALUES (:word, :level, :part_of_speech, :definition, :pronunciation, :examples, :synonyms, :translation, :translated_examples, :note)
		ON DUPLICATE KEY UPDATE part_of_speech = VALUES(part_of_speech), definition = VALUES(definition),
			pronunciation = VALUES(pronunciation), examples = VALUES(examples), synonyms = VALUES(synonyms),
			translation = VALUES(translation), translated_examples = VALUES(translated_examples), note = VALUES(note)`,
		word)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(upsert word) > %w", err)
	}
	return nil
}
