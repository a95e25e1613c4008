// Package cache provides a namespaced key/value cache whose entries expire after a fixed TTL.
// Each namespace is persisted as a single JSON blob in a durable Storage.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an entry stays visible after it was written.
	DefaultTTL = 5 * time.Minute

	// StorageKeyPrefix tags every storage record owned by the cache.
	StorageKeyPrefix = "cache_"
)

// Entry is a cached value and the time it was written.
// Value holds either the value passed to Set or, for hydrated entries, its raw JSON.
type Entry struct {
	Value    any
	StoredAt time.Time
}

// storedEntry is the persisted form of Entry. Timestamp is in Unix milliseconds.
type storedEntry struct {
	Data      any   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

type loadedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// IsExpired reports whether entry is no longer visible at now.
func IsExpired(entry Entry, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.StoredAt) >= ttl
}

// StorageKey returns the storage record name of a namespace.
func StorageKey(namespace string) string {
	return StorageKeyPrefix + namespace
}

// Store owns one in-memory map per namespace, hydrated lazily from storage on first use.
// Expired entries are only evicted when they are read.
type Store struct {
	mu         sync.Mutex
	storage    Storage
	ttl        time.Duration
	now        func() time.Time
	logger     *slog.Logger
	namespaces map[string]map[string]Entry
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store on top of storage. A nil storage keeps the cache in memory only.
func NewStore(storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		storage:    storage,
		ttl:        DefaultTTL,
		now:        time.Now,
		logger:     slog.Default(),
		namespaces: make(map[string]map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key if it has not expired.
// An expired entry is removed and the namespace is persisted without it.
func (s *Store) Get(namespace, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.namespace(namespace)
	entry, ok := entries[key]
	if !ok {
		return nil, false
	}
	if IsExpired(entry, s.now(), s.ttl) {
		delete(entries, key)
		s.persist(namespace)
		return nil, false
	}
	return entry.Value, true
}

// Set stores value under key, replacing any previous entry and its timestamp.
func (s *Store) Set(namespace, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespace(namespace)[key] = Entry{
		Value:    value,
		StoredAt: s.now(),
	}
	s.persist(namespace)
}

// ClearNamespace drops every entry of namespace and its storage record.
func (s *Store) ClearNamespace(namespace string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespaces[namespace] = make(map[string]Entry)
	if err := s.storage.RemoveItem(StorageKey(namespace)); err != nil {
		s.logger.Error("failed to remove cache namespace from storage", "namespace", namespace, "error", err)
	}
}

// ClearAll drops every namespace and every storage record owned by the cache.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespaces = make(map[string]map[string]Entry)
	keys, err := s.storage.Keys(StorageKeyPrefix)
	if err != nil {
		s.logger.Error("failed to list cache records in storage", "error", err)
		return
	}
	for _, key := range keys {
		if err := s.storage.RemoveItem(key); err != nil {
			s.logger.Error("failed to remove cache record from storage", "key", key, "error", err)
		}
	}
}

// Len returns the number of live entries in namespace. Expired entries are not evicted.
func (s *Store) Len(namespace string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	count := 0
	for _, entry := range s.namespace(namespace) {
		if !IsExpired(entry, now, s.ttl) {
			count++
		}
	}
	return count
}

// namespace returns the map of namespace, hydrating it on first use. Callers hold s.mu.
func (s *Store) namespace(namespace string) map[string]Entry {
	entries, ok := s.namespaces[namespace]
	if ok {
		return entries
	}
	entries = s.hydrate(namespace)
	s.namespaces[namespace] = entries
	return entries
}

func (s *Store) hydrate(namespace string) map[string]Entry {
	entries := make(map[string]Entry)

	blob, ok, err := s.storage.GetItem(StorageKey(namespace))
	if err != nil {
		s.logger.Error("failed to read cache namespace from storage", "namespace", namespace, "error", err)
		return entries
	}
	if !ok {
		return entries
	}

	loaded, err := decodeNamespace(blob)
	if err != nil {
		s.logger.Error("failed to decode cache namespace", "namespace", namespace, "error", err)
		return entries
	}

	now := s.now()
	for key, item := range loaded {
		entry := Entry{
			Value:    item.Data,
			StoredAt: time.UnixMilli(item.Timestamp),
		}
		if IsExpired(entry, now, s.ttl) {
			continue
		}
		entries[key] = entry
	}
	s.logger.Debug("hydrated cache namespace", "namespace", namespace, "stored", len(loaded), "kept", len(entries))
	return entries
}

func decodeNamespace(blob string) (map[string]loadedEntry, error) {
	var loaded map[string]loadedEntry
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return loaded, nil
}

// persist writes the whole namespace map to storage. Failures are logged; the in-memory map stays authoritative.
func (s *Store) persist(namespace string) {
	entries := s.namespaces[namespace]
	stored := make(map[string]storedEntry, len(entries))
	for key, entry := range entries {
		stored[key] = storedEntry{
			Data:      entry.Value,
			Timestamp: entry.StoredAt.UnixMilli(),
		}
	}

	blob, err := json.Marshal(stored)
	if err != nil {
		s.logger.Error("failed to encode cache namespace", "namespace", namespace, "error", err)
		return
	}
	if err := s.storage.SetItem(StorageKey(namespace), string(blob)); err != nil {
		s.logger.Error("failed to save cache namespace", "namespace", namespace, "error", err)
	}
}
