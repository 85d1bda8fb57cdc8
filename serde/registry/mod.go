// Package registry maps the serialization formats to the engines of one kind
// of message.
//
// Documentation Last Review: 16.10.2026
//
package registry

import (
	"go.dedis.ch/confidential/serde"
)

// Registry is an interface to register and get format engines for a specific
// format.
type Registry interface {
	// Register sets the engine of the format, replacing any previous one.
	Register(serde.Format, serde.FormatEngine)

	// Get returns the engine of the format. It never returns nil.
	Get(serde.Format) serde.FormatEngine
}
