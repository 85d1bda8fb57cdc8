// Package kv defines the abstraction for a key/value database.
//
// The package also implements a default database implementation that is using
// bbolt as the engine (https://github.com/etcd-io/bbolt).
//
// Documentation Last Review: 16.10.2026
//
package kv

import "go.dedis.ch/confidential/core/store"

// Bucket is a general interface to operate on a database bucket.
type Bucket interface {
	store.Writable

	// Get reads the key from the bucket and returns the value, or nil if the
	// key does not exist.
	Get(key []byte) []byte

	// ForEach iterates over all the items in the bucket in the byte order of
	// the keys. The iteration stops when the callback returns an error.
	ForEach(fn func(k, v []byte) error) error
}

// DB is a general interface to operate over a key/value database.
type DB interface {
	// HasBucket returns true if the bucket exists.
	HasBucket(name []byte) (bool, error)

	// View executes the provided read-only transaction in the context of the
	// bucket. It returns an error if the bucket does not exist.
	View(bucket []byte, fn func(Bucket) error) error

	// Reset executes the provided writable transaction in the context of a
	// bucket emptied beforehand.
	Reset(bucket []byte, fn func(Bucket) error) error

	// Close closes the database and free the resources.
	Close() error
}
