// Package store defines the primitives of a simple key/value storage.
//
// Documentation Last Review: 16.10.2026
//
package store

// Readable is the interface for a readable store.
type Readable interface {
	Get(key []byte) ([]byte, error)
}

// Writable is the interface for a writable store.
type Writable interface {
	Set(key []byte, value []byte) error
}

// Iterable is the interface for a store that can be traversed. The iteration
// follows the byte order of the keys and stops when the callback returns an
// error.
type Iterable interface {
	ForEach(fn func(k, v []byte) error) error
}

// Snapshot is a state of the store that can be read, written and traversed
// independently.
type Snapshot interface {
	Readable
	Writable
	Iterable
}
