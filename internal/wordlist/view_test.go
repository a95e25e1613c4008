package wordlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/oxword/internal/dictionary"
)

func TestNewView(t *testing.T) {
	v := NewView(sampleEntries, 0)

	assert.Equal(t, Query{Level: dictionary.LevelAll, Page: 1, PageSize: DefaultPageSize}, v.Query())
	assert.Equal(t, sampleEntries, v.Entries())
	assert.Equal(t, headwords(sampleEntries), headwords(v.Current().Entries))
}

func TestView_ResetsPage(t *testing.T) {
	tests := []struct {
		name   string
		change func(v *View)
	}{
		{name: "search", change: func(v *View) { v.SetSearch("ab") }},
		{name: "level", change: func(v *View) { v.SetLevel(dictionary.LevelB2) }},
		{name: "page size", change: func(v *View) { v.SetPageSize(3) }},
		{name: "entries", change: func(v *View) { v.SetEntries(sampleEntries[:6]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(sampleEntries, 2)
			v.SetPage(3)
			assert.Equal(t, 3, v.Query().Page)

			tt.change(v)
			assert.Equal(t, 1, v.Query().Page)
		})
	}
}

func TestView_ToggleSortKeepsPage(t *testing.T) {
	v := NewView(sampleEntries, 2)
	v.SetPage(2)

	assert.True(t, v.ToggleSort())
	assert.Equal(t, 2, v.Query().Page)
	assert.Equal(t, []string{"Above", "ability"}, headwords(v.Current().Entries))

	assert.False(t, v.ToggleSort())
	assert.Equal(t, []string{"able", "about"}, headwords(v.Current().Entries))
}

func TestView_SetPageClamps(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{name: "below first", page: -1, want: 1},
		{name: "within range", page: 2, want: 2},
		{name: "past last", page: 99, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(sampleEntries, 4)
			v.SetPage(tt.page)
			assert.Equal(t, tt.want, v.Query().Page)
		})
	}
}

func TestView_NextPrev(t *testing.T) {
	v := NewView(sampleEntries, 5)

	v.PrevPage()
	assert.Equal(t, 1, v.Query().Page)
	v.NextPage()
	v.NextPage()
	assert.Equal(t, 3, v.Query().Page)
	v.NextPage()
	assert.Equal(t, 3, v.Query().Page)
	assert.Equal(t, []string{"abbey"}, headwords(v.Current().Entries))
}

func TestView_EmptyResult(t *testing.T) {
	v := NewView(sampleEntries, 5)
	v.SetSearch("zzz")
	v.NextPage()

	page := v.Current()
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Entries)
	assert.Equal(t, 0, page.TotalPages)
}
