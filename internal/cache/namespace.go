package cache

import (
	"encoding/json"
	"fmt"
)

// Namespace is a typed view of one namespace of a Store.
type Namespace[T any] struct {
	store *Store
	name  string
}

func NewNamespace[T any](store *Store, name string) Namespace[T] {
	return Namespace[T]{
		store: store,
		name:  name,
	}
}

func (n Namespace[T]) Name() string {
	return n.name
}

// Get returns the live value stored under key.
// A value that cannot be read back as T is reported as absent.
func (n Namespace[T]) Get(key string) (T, bool) {
	var zero T
	value, ok := n.store.Get(n.name, key)
	if !ok {
		return zero, false
	}

	switch v := value.(type) {
	case T:
		return v, true
	case json.RawMessage:
		var decoded T
		if err := json.Unmarshal(v, &decoded); err != nil {
			n.store.logger.Warn("failed to decode cached value", "namespace", n.name, "key", key, "error", err)
			return zero, false
		}
		return decoded, true
	default:
		n.store.logger.Warn("unexpected cached value type", "namespace", n.name, "key", key, "type", fmt.Sprintf("%T", v))
		return zero, false
	}
}

func (n Namespace[T]) Set(key string, value T) {
	n.store.Set(n.name, key, value)
}

func (n Namespace[T]) Clear() {
	n.store.ClearNamespace(n.name)
}
