package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/oxword/internal/cache"
	"github.com/at-ishikawa/oxword/internal/dictionary"
	"github.com/at-ishikawa/oxword/internal/enrichment"
	"github.com/at-ishikawa/oxword/internal/wordlist"
)

var (
	errEnd = errors.New("end")
)

const helpText = `Commands:
  search <text>   filter by English or translation (no text clears)
  level <level>   filter by A1, A2, B1, B2, C1, C2 or all
  sort            toggle sorting by level
  size <n>        entries per page: 10, 20, 50 or 100
  page <n>        jump to a page
  next, prev      move between pages
  show <n>        show details of row n
  peek <n>        load details of row n in the background
  close           hide the details
  help            show this help
  quit            exit
`

// BrowserCLI is an interactive terminal browser over a word list.
type BrowserCLI struct {
	view        *wordlist.View
	coordinator *enrichment.Coordinator
	prefetches  sync.WaitGroup

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	faint        *color.Color
}

// NewBrowserCLI creates a browser over entries.
// Details are looked up with client and cached in store.
func NewBrowserCLI(
	entries []dictionary.Entry,
	pageSize int,
	client enrichment.Client,
	store *cache.Store,
	stdin io.Reader,
	stdout io.Writer,
) *BrowserCLI {
	b := &BrowserCLI{
		view:         wordlist.NewView(entries, pageSize),
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		faint:        color.New(color.Faint),
	}
	b.coordinator = enrichment.NewCoordinator(client, store, enrichment.WithStateObserver(b.onStateChange))
	return b
}

// View returns the list state.
func (b *BrowserCLI) View() *wordlist.View {
	return b.view
}

// Run renders the list and executes commands until quit, end of input or an interrupt.
func (b *BrowserCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()
	defer b.prefetches.Wait()

	b.renderPage()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := b.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(b.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session reads and executes one command.
func (b *BrowserCLI) Session(ctx context.Context) error {
	_, _ = b.bold.Fprint(b.stdoutWriter, "> ")
	line, err := b.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return errEnd
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
	}
	return b.Execute(ctx, line)
}

// Execute runs a single command line.
func (b *BrowserCLI) Execute(ctx context.Context, line string) error {
	command, argument, _ := strings.Cut(strings.TrimSpace(line), " ")
	argument = strings.TrimSpace(argument)

	switch strings.ToLower(command) {
	case "":
		return nil
	case "quit", "q", "exit":
		return errEnd
	case "help", "?":
		_, _ = fmt.Fprint(b.stdoutWriter, helpText)
		return nil
	case "search", "s":
		b.view.SetSearch(argument)
	case "level", "l":
		level, err := dictionary.ParseLevel(argument)
		if err != nil {
			b.warn(err.Error())
			return nil
		}
		b.view.SetLevel(level)
	case "sort":
		b.view.ToggleSort()
	case "size":
		size, err := strconv.Atoi(argument)
		if err != nil || !slices.Contains(wordlist.PageSizes, size) {
			b.warn(fmt.Sprintf("page size must be one of %v", wordlist.PageSizes))
			return nil
		}
		b.view.SetPageSize(size)
	case "page":
		page, err := strconv.Atoi(argument)
		if err != nil {
			b.warn("page must be a number")
			return nil
		}
		b.view.SetPage(page)
	case "next", "n":
		b.view.NextPage()
	case "prev", "p":
		b.view.PrevPage()
	case "show":
		entry, ok := b.row(argument)
		if !ok {
			return nil
		}
		b.coordinator.Enrich(ctx, entry.Headword, entry.Level)
		return nil
	case "peek":
		entry, ok := b.row(argument)
		if !ok {
			return nil
		}
		b.prefetches.Add(1)
		go func() {
			defer b.prefetches.Done()
			b.coordinator.Prefetch(ctx, entry.Headword, entry.Level)
		}()
		return nil
	case "close":
		b.coordinator.Close()
		b.renderPage()
		return nil
	default:
		b.warn(fmt.Sprintf("unknown command %q, type help for the list of commands", command))
		return nil
	}

	b.renderPage()
	return nil
}

// row returns the entry shown at the 1-based row of the current page.
func (b *BrowserCLI) row(argument string) (dictionary.Entry, bool) {
	entries := b.view.Current().Entries
	n, err := strconv.Atoi(argument)
	if err != nil || n < 1 || n > len(entries) {
		b.warn(fmt.Sprintf("row must be between 1 and %d", len(entries)))
		return dictionary.Entry{}, false
	}
	return entries[n-1], true
}

func (b *BrowserCLI) warn(message string) {
	_, _ = color.New(color.FgYellow).Fprintln(b.stdoutWriter, message)
}

func (b *BrowserCLI) renderPage() {
	page := b.view.Current()
	query := b.view.Query()

	status := []string{fmt.Sprintf("%d words", page.Total)}
	if query.Level != "" && query.Level != dictionary.LevelAll {
		status = append(status, "level "+string(query.Level))
	}
	if query.Search != "" {
		status = append(status, fmt.Sprintf("search %q", query.Search))
	}
	if query.SortByLevel {
		status = append(status, "sorted by level")
	}
	_, _ = b.faint.Fprintln(b.stdoutWriter, strings.Join(status, " | "))

	if len(page.Entries) == 0 {
		_, _ = fmt.Fprintln(b.stdoutWriter, "No words found")
		return
	}

	_, _ = b.bold.Fprintf(b.stdoutWriter, "%4s  %-6s %-5s %-14s %-20s %s\n", "Row", "No", "CEFR", "Type", "English", "Translation")
	for i, entry := range page.Entries {
		_, _ = fmt.Fprintf(b.stdoutWriter, "%4d  %-6s %-5s %-14s %-20s %s\n",
			i+1, entry.Ordinal, entry.Level, entry.PartOfSpeech, entry.Headword, entry.Translation)
	}
	_, _ = b.faint.Fprintf(b.stdoutWriter, "Page %d of %d\n", page.Page, page.TotalPages)
}

func (b *BrowserCLI) onStateChange(state enrichment.State) {
	switch state.Phase {
	case enrichment.PhaseLoading:
		_, _ = b.faint.Fprintf(b.stdoutWriter, "Loading %s...\n", state.Term)
	case enrichment.PhaseFailed:
		if state.Open {
			_, _ = color.New(color.FgRed).Fprintf(b.stdoutWriter, "Error: %s\n", state.Err)
		}
	case enrichment.PhaseResolved:
		if state.Open && state.Result != nil {
			b.renderDetail(*state.Result)
		}
	}
}

func (b *BrowserCLI) renderDetail(record dictionary.EnrichmentRecord) {
	w := b.stdoutWriter
	_, _ = b.bold.Fprintf(w, "%s", record.Headword)
	_, _ = fmt.Fprintf(w, " (%s, %s)\n", record.PartOfSpeech, record.Level)
	if record.Pronunciation != "" {
		_, _ = b.faint.Fprintf(w, "/%s/\n", record.Pronunciation)
	}
	if record.Definition != "" {
		_, _ = fmt.Fprintf(w, "Definition: %s\n", record.Definition)
	}
	if record.Translation != "" {
		_, _ = fmt.Fprintf(w, "Translation: %s\n", b.italic.Sprint(record.Translation))
	}
	if len(record.Examples) > 0 {
		_, _ = fmt.Fprintln(w, "Examples:")
		for _, example := range record.Examples {
			_, _ = fmt.Fprintf(w, "  - %s\n", example.Source)
			if example.Target != "" {
				_, _ = fmt.Fprintf(w, "    %s\n", b.italic.Sprint(example.Target))
			}
		}
	}
	if len(record.Synonyms) > 0 {
		_, _ = fmt.Fprintf(w, "Synonyms: %s\n", strings.Join(record.Synonyms, ", "))
	}
	if record.Note != "" {
		_, _ = fmt.Fprintf(w, "Note: %s\n", record.Note)
	}
}
