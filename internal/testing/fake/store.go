package fake

import (
	"sort"

	"go.dedis.ch/confidential/core/store"
)

// InMemorySnapshot is a fake implementation of a store snapshot.
//
// - implements store.Snapshot
type InMemorySnapshot struct {
	values   map[string][]byte
	ErrRead  error
	ErrWrite error
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		values: make(map[string][]byte),
	}
}

// NewBadSnapshot creates a new empty snapshot that will always return an error.
func NewBadSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		values:   make(map[string][]byte),
		ErrRead:  fakeErr,
		ErrWrite: fakeErr,
	}
}

// Get implements store.Snapshot.
func (snap *InMemorySnapshot) Get(key []byte) ([]byte, error) {
	return snap.values[string(key)], snap.ErrRead
}

// Set implements store.Snapshot.
func (snap *InMemorySnapshot) Set(key, value []byte) error {
	snap.values[string(key)] = value

	return snap.ErrWrite
}

// ForEach implements store.Snapshot. It iterates over the keys in ascending
// byte order.
func (snap *InMemorySnapshot) ForEach(fn func(k, v []byte) error) error {
	if snap.ErrRead != nil {
		return snap.ErrRead
	}

	keys := make([]string, 0, len(snap.values))
	for k := range snap.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		err := fn([]byte(k), snap.values[k])
		if err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of keys.
func (snap *InMemorySnapshot) Len() int {
	return len(snap.values)
}

var _ store.Snapshot = (*InMemorySnapshot)(nil)
