// Package wordlist derives the visible page of the word list from the full entry set.
// Every stage is pure: it never modifies its input and returns a new slice.
package wordlist

import (
	"slices"
	"strings"

	"github.com/at-ishikawa/oxword/internal/dictionary"
)

// DefaultPageSize is the number of rows shown per page unless changed.
const DefaultPageSize = 20

// PageSizes are the page sizes offered to the user.
var PageSizes = []int{10, 20, 50, 100}

// Query holds every input of the pipeline besides the entries themselves.
type Query struct {
	Search      string
	Level       dictionary.Level
	SortByLevel bool
	Page        int
	PageSize    int
}

// Page is one slice of the filtered list.
type Page struct {
	Entries    []dictionary.Entry
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Search keeps entries whose headword or translation contains the trimmed term, ignoring case.
// An empty term keeps every entry.
func Search(entries []dictionary.Entry, term string) []dictionary.Entry {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(entries)
	}

	needle := strings.ToLower(term)
	result := make([]dictionary.Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Headword), needle) ||
			strings.Contains(strings.ToLower(entry.Translation), needle) {
			result = append(result, entry)
		}
	}
	return result
}

// FilterByLevel keeps entries whose level equals level exactly.
// Only LevelAll keeps every entry.
func FilterByLevel(entries []dictionary.Entry, level dictionary.Level) []dictionary.Entry {
	if level == dictionary.LevelAll {
		return slices.Clone(entries)
	}

	result := make([]dictionary.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Level == level {
			result = append(result, entry)
		}
	}
	return result
}

// SortByLevel stable-sorts entries from A1 to C2.
// Entries with a level outside the scale rank 0 and come first, in their original order.
func SortByLevel(entries []dictionary.Entry) []dictionary.Entry {
	result := slices.Clone(entries)
	slices.SortStableFunc(result, func(a, b dictionary.Entry) int {
		return dictionary.Rank(a.Level) - dictionary.Rank(b.Level)
	})
	return result
}

// TotalPages returns ceil(count / size), which is 0 for an empty list.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (count + size - 1) / size
}

// Paginate returns entries[(page-1)*size : page*size].
// Pages past the end are empty; page numbers below 1 are treated as 1.
func Paginate(entries []dictionary.Entry, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*size, len(entries))
	end := min(page*size, len(entries))
	return Page{
		Entries:    slices.Clone(entries[start:end]),
		Page:       page,
		PageSize:   size,
		Total:      len(entries),
		TotalPages: TotalPages(len(entries), size),
	}
}

// Filter runs the search, level filter and optional sort stages.
func Filter(entries []dictionary.Entry, q Query) []dictionary.Entry {
	result := Search(entries, q.Search)
	result = FilterByLevel(result, q.Level)
	if q.SortByLevel {
		result = SortByLevel(result)
	}
	return result
}

// Apply runs the whole pipeline and returns the requested page.
func Apply(entries []dictionary.Entry, q Query) Page {
	return Paginate(Filter(entries, q), q.Page, q.PageSize)
}
