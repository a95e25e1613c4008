package wordlist

import (
	"github.com/at-ishikawa/oxword/internal/dictionary"
)

// View keeps the user's pipeline inputs and recomputes the visible page from them.
// Changing the entries, the search term, the level filter or the page size goes back to page 1.
type View struct {
	entries []dictionary.Entry
	query   Query
}

func NewView(entries []dictionary.Entry, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		entries: entries,
		query: Query{
			Level:    dictionary.LevelAll,
			Page:     1,
			PageSize: pageSize,
		},
	}
}

func (v *View) Query() Query {
	return v.query
}

func (v *View) Entries() []dictionary.Entry {
	return v.entries
}

func (v *View) SetEntries(entries []dictionary.Entry) {
	v.entries = entries
	v.query.Page = 1
}

func (v *View) SetSearch(term string) {
	v.query.Search = term
	v.query.Page = 1
}

func (v *View) SetLevel(level dictionary.Level) {
	v.query.Level = level
	v.query.Page = 1
}

// ToggleSort switches level sorting on or off. The current page is kept.
func (v *View) ToggleSort() bool {
	v.query.SortByLevel = !v.query.SortByLevel
	return v.query.SortByLevel
}

func (v *View) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	v.query.PageSize = size
	v.query.Page = 1
}

// SetPage moves to page, clamped to the available pages.
func (v *View) SetPage(page int) {
	total := TotalPages(len(v.Filtered()), v.query.PageSize)
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	v.query.Page = page
}

func (v *View) NextPage() {
	v.SetPage(v.query.Page + 1)
}

func (v *View) PrevPage() {
	v.SetPage(v.query.Page - 1)
}

// Filtered returns every entry that passes the search, level filter and sort stages.
func (v *View) Filtered() []dictionary.Entry {
	return Filter(v.entries, v.query)
}

// Current returns the visible page.
func (v *View) Current() Page {
	return Apply(v.entries, v.query)
}
