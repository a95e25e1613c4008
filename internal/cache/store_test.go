package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

type failingStorage struct {
	*MemoryStorage
	getErr    error
	setErr    error
	removeErr error
	keysErr   error
}

func (f *failingStorage) GetItem(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStorage.GetItem(key)
}

func (f *failingStorage) SetItem(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.SetItem(key, value)
}

func (f *failingStorage) RemoveItem(key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.MemoryStorage.RemoveItem(key)
}

func (f *failingStorage) Keys(prefix string) ([]string, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return f.MemoryStorage.Keys(prefix)
}

func storedKeys(t *testing.T, storage Storage, namespace string) []string {
	t.Helper()
	blob, ok, err := storage.GetItem(StorageKey(namespace))
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &stored))
	keys := make([]string, 0, len(stored))
	for key := range stored {
		keys = append(keys, key)
	}
	return keys
}

func TestIsExpired(t *testing.T) {
	storedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "just written", now: storedAt, want: false},
		{name: "one nanosecond before ttl", now: storedAt.Add(DefaultTTL - time.Nanosecond), want: false},
		{name: "exactly at ttl", now: storedAt.Add(DefaultTTL), want: true},
		{name: "after ttl", now: storedAt.Add(time.Hour), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(Entry{StoredAt: storedAt}, tt.now, DefaultTTL))
		})
	}
}

func TestStore_GetExpiresAfterTTL(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantOK  bool
	}{
		{name: "read immediately", elapsed: 0, wantOK: true},
		{name: "read just before ttl", elapsed: DefaultTTL - time.Millisecond, wantOK: true},
		{name: "read at ttl", elapsed: DefaultTTL, wantOK: false},
		{name: "read long after ttl", elapsed: 24 * time.Hour, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			storage := NewMemoryStorage()
			store := NewStore(storage, WithClock(clock.Now))

			store.Set("words", "ability-A2", "value")
			clock.Advance(tt.elapsed)

			got, ok := store.Get("words", "ability-A2")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "value", got)
				assert.ElementsMatch(t, []string{"ability-A2"}, storedKeys(t, storage, "words"))
			} else {
				assert.Nil(t, got)
				assert.Equal(t, 0, store.Len("words"))
				assert.Empty(t, storedKeys(t, storage, "words"))
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	got, ok := store.Get("unknown", "key")
	assert.False(t, ok)
	assert.Nil(t, got)

	store.Set("words", "a-A1", 1)
	got, ok = store.Get("words", "b-A1")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_SetOverwriteRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(NewMemoryStorage(), WithClock(clock.Now))

	store.Set("words", "key", "v1")
	clock.Advance(4 * time.Minute)
	store.Set("words", "key", "v2")
	clock.Advance(4 * time.Minute)

	got, ok := store.Get("words", "key")
	require.True(t, ok)
	assert.Equal(t, "v2", got)

	clock.Advance(time.Minute)
	_, ok = store.Get("words", "key")
	assert.False(t, ok)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	store.Set("words", "key", "word")
	store.Set("phrases", "key", "phrase")

	got, ok := store.Get("words", "key")
	require.True(t, ok)
	assert.Equal(t, "word", got)
	got, ok = store.Get("phrases", "key")
	require.True(t, ok)
	assert.Equal(t, "phrase", got)
}

func TestStore_Hydration(t *testing.T) {
	clock := newFakeClock()
	now := clock.Now()
	blob := fmt.Sprintf(`{
		"fresh-A1": {"data": {"word": "fresh"}, "timestamp": %d},
		"stale-A1": {"data": {"word": "stale"}, "timestamp": %d},
		"edge-A1": {"data": {"word": "edge"}, "timestamp": %d}
	}`,
		now.Add(-time.Minute).UnixMilli(),
		now.Add(-10*time.Minute).UnixMilli(),
		now.Add(-DefaultTTL).UnixMilli(),
	)

	tests := []struct {
		name     string
		hydrated int
	}{
		{name: "hydrate once", hydrated: 1},
		{name: "hydrate twice", hydrated: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.SetItem(StorageKey("words"), blob))

			var store *Store
			for i := 0; i < tt.hydrated; i++ {
				store = NewStore(storage, WithClock(clock.Now))
				assert.Equal(t, 1, store.Len("words"))
			}

			got, ok := store.Get("words", "fresh-A1")
			require.True(t, ok)
			assert.JSONEq(t, `{"word": "fresh"}`, string(got.(json.RawMessage)))

			_, ok = store.Get("words", "stale-A1")
			assert.False(t, ok)
			_, ok = store.Get("words", "edge-A1")
			assert.False(t, ok)
		})
	}
}

func TestStore_HydrationFailures(t *testing.T) {
	tests := []struct {
		name    string
		storage Storage
	}{
		{
			name: "corrupt blob",
			storage: func() Storage {
				s := NewMemoryStorage()
				_ = s.SetItem(StorageKey("words"), "{not json")
				return s
			}(),
		},
		{
			name:    "storage read error",
			storage: &failingStorage{MemoryStorage: NewMemoryStorage(), getErr: errors.New("storage unavailable")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.storage)

			_, ok := store.Get("words", "any")
			assert.False(t, ok)

			store.Set("words", "key", "value")
			got, ok := store.Get("words", "key")
			require.True(t, ok)
			assert.Equal(t, "value", got)
		})
	}
}

func TestStore_PersistenceFailuresKeepMemory(t *testing.T) {
	tests := []struct {
		name    string
		storage Storage
		value   any
	}{
		{
			name:    "storage write error",
			storage: &failingStorage{MemoryStorage: NewMemoryStorage(), setErr: errors.New("quota exceeded")},
			value:   "value",
		},
		{
			name:    "value cannot be encoded",
			storage: NewMemoryStorage(),
			value:   make(chan int),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.storage)

			assert.NotPanics(t, func() {
				store.Set("words", "key", tt.value)
			})

			got, ok := store.Get("words", "key")
			require.True(t, ok)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestStore_ClearNamespace(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	store.Set("words", "a", 1)
	store.Set("phrases", "b", 2)

	store.ClearNamespace("words")

	_, ok := store.Get("words", "a")
	assert.False(t, ok)
	_, ok, err := storage.GetItem(StorageKey("words"))
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok := store.Get("phrases", "b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestStore_ClearAll(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem("theme", "dark"))
	store := NewStore(storage)
	store.Set("words", "a", 1)
	store.Set("phrases", "b", 2)
	require.NoError(t, storage.SetItem(StorageKey("orphan"), "{}"))

	store.ClearAll()

	_, ok := store.Get("words", "a")
	assert.False(t, ok)
	_, ok = store.Get("phrases", "b")
	assert.False(t, ok)

	keys, err := storage.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, keys)
}

func TestStore_ClearFailuresAreSwallowed(t *testing.T) {
	storage := &failingStorage{
		MemoryStorage: NewMemoryStorage(),
		removeErr:     errors.New("remove failed"),
		keysErr:       errors.New("keys failed"),
	}
	store := NewStore(storage)
	store.Set("words", "a", 1)

	assert.NotPanics(t, func() {
		store.ClearNamespace("words")
	})
	_, ok := store.Get("words", "a")
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		store.ClearAll()
	})
}

type record struct {
	Word     string   `json:"word"`
	Synonyms []string `json:"synonyms"`
}

func TestNamespace_GetSet(t *testing.T) {
	clock := newFakeClock()
	storage := NewMemoryStorage()
	words := NewNamespace[record](NewStore(storage, WithClock(clock.Now)), "words")
	assert.Equal(t, "words", words.Name())

	words.Set("ability-A2", record{Word: "ability", Synonyms: []string{"capability"}})

	got, ok := words.Get("ability-A2")
	require.True(t, ok)
	assert.Equal(t, record{Word: "ability", Synonyms: []string{"capability"}}, got)

	// A new store over the same storage reads the value back from JSON.
	clock.Advance(time.Minute)
	reloaded := NewNamespace[record](NewStore(storage, WithClock(clock.Now)), "words")
	got, ok = reloaded.Get("ability-A2")
	require.True(t, ok)
	assert.Equal(t, record{Word: "ability", Synonyms: []string{"capability"}}, got)

	reloaded.Clear()
	_, ok = reloaded.Get("ability-A2")
	assert.False(t, ok)
}

func TestNamespace_GetWrongType(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.Set("words", "number", 42)
	store.Set("words", "raw", json.RawMessage(`"not a record"`))

	words := NewNamespace[record](store, "words")
	_, ok := words.Get("number")
	assert.False(t, ok)
	_, ok = words.Get("raw")
	assert.False(t, ok)
}

func TestStore_LenCountsLiveEntries(t *testing.T) {
	clock := newFakeClock()
	storage := NewMemoryStorage()
	store := NewStore(storage, WithClock(clock.Now))

	store.Set("words", "ability-A2", "value")
	clock.Advance(time.Minute)
	store.Set("words", "about-A1", "value")
	assert.Equal(t, 2, store.Len("words"))

	clock.Advance(DefaultTTL - time.Minute)
	assert.Equal(t, 1, store.Len("words"))

	clock.Advance(time.Hour)
	assert.Equal(t, 0, store.Len("words"))
	// Len does not evict.
	assert.ElementsMatch(t, []string{"ability-A2", "about-A1"}, storedKeys(t, storage, "words"))
}
