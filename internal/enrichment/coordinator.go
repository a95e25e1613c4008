package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/oxword/internal/cache"
	"github.com/at-ishikawa/oxword/internal/dictionary"
	"golang.org/x/sync/singleflight"
)

// CacheNamespace is the cache namespace holding enrichment records.
const CacheNamespace = "words"

// Phase is the step of the most recent foreground lookup.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseOpening  Phase = "opening"
	PhaseLoading  Phase = "loading"
	PhaseResolved Phase = "resolved"
	PhaseFailed   Phase = "failed"
)

// State is what the detail view shows.
type State struct {
	Phase   Phase
	Open    bool
	Loading bool
	Term    string
	Level   dictionary.Level
	Result  *dictionary.EnrichmentRecord
	Err     string
}

// Coordinator runs foreground and background lookups for one detail view.
// Foreground lookups drive State; background lookups only warm the cache.
type Coordinator struct {
	client Client
	cache  cache.Namespace[dictionary.EnrichmentRecord]
	group  singleflight.Group
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	seq      uint64
	onChange func(State)
}

type CoordinatorOption func(*Coordinator)

// WithStateObserver registers fn to receive every visible state change.
// fn is called without the coordinator lock held.
func WithStateObserver(fn func(State)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onChange = fn
	}
}

func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func NewCoordinator(client Client, store *cache.Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		client: client,
		cache:  cache.NewNamespace[dictionary.EnrichmentRecord](store, CacheNamespace),
		logger: slog.Default(),
		state:  State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Enrich opens the detail view for term at level and resolves it from the cache or the client.
// When a newer Enrich starts before this one finishes, this call's outcome is not applied to the
// state, and the returned State is the state at the time this call finished.
func (c *Coordinator) Enrich(ctx context.Context, term string, level dictionary.Level) State {
	seq := c.begin(term, level)
	key := dictionary.CacheKey(term, level)

	if record, ok := c.cache.Get(key); ok {
		c.finish(seq, &record, "")
		return c.State()
	}

	c.update(seq, func(s *State) {
		s.Phase = PhaseLoading
		s.Loading = true
	})

	record, err := c.lookup(ctx, key, term, level)
	if err != nil {
		c.logger.Error("failed to enrich word", "term", term, "level", level, "error", err)
		c.finish(seq, nil, errorMessage(err))
		return c.State()
	}
	c.finish(seq, &record, "")
	return c.State()
}

// Prefetch warms the cache for term at level. It never changes the state and swallows failures.
func (c *Coordinator) Prefetch(ctx context.Context, term string, level dictionary.Level) {
	key := dictionary.CacheKey(term, level)
	if _, ok := c.cache.Get(key); ok {
		return
	}
	if _, err := c.lookup(ctx, key, term, level); err != nil {
		c.logger.Debug("prefetch failed", "term", term, "level", level, "error", err)
	}
}

// Close hides the detail view. The last result stays in the state.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.state.Open = false
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

// lookup calls the client once per key at a time and caches a successful record.
// The shared call ignores cancellation; each caller stops waiting when its own ctx is done.
func (c *Coordinator) lookup(ctx context.Context, key, term string, level dictionary.Level) (dictionary.EnrichmentRecord, error) {
	resultCh := c.group.DoChan(key, func() (any, error) {
		record, err := c.client.Lookup(context.WithoutCancel(ctx), term, level)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, record)
		return record, nil
	})

	select {
	case <-ctx.Done():
		return dictionary.EnrichmentRecord{}, ctx.Err()
	case result := <-resultCh:
		if result.Err != nil {
			return dictionary.EnrichmentRecord{}, result.Err
		}
		if result.Shared {
			c.logger.Debug("joined in-flight lookup", "key", key)
		}
		return result.Val.(dictionary.EnrichmentRecord), nil
	}
}

func (c *Coordinator) begin(term string, level dictionary.Level) uint64 {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = State{
		Phase: PhaseOpening,
		Open:  true,
		Term:  term,
		Level: level,
	}
	state := c.state
	c.mu.Unlock()

	c.notify(state)
	return seq
}

func (c *Coordinator) finish(seq uint64, record *dictionary.EnrichmentRecord, message string) {
	c.update(seq, func(s *State) {
		s.Loading = false
		if message != "" {
			s.Phase = PhaseFailed
			s.Err = message
			return
		}
		s.Phase = PhaseResolved
		s.Result = record
	})
}

// update applies fn unless a newer foreground lookup has started since seq.
func (c *Coordinator) update(seq uint64, fn func(*State)) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarded stale enrichment update", "seq", seq)
		return
	}
	fn(&c.state)
	state := c.state
	c.mu.Unlock()

	c.notify(state)
}

func (c *Coordinator) notify(state State) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err.Error() == "" {
		return "An unknown error occurred"
	}
	return err.Error()
}
