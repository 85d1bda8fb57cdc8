package registry

import (
	"sync"

	"go.dedis.ch/confidential/serde"
	"golang.org/x/xerrors"
)

// SimpleRegistry is a registry for one kind of message. An unknown format
// gets an engine that fails with an error naming the kind and the format.
//
// - implements registry.Registry
type SimpleRegistry struct {
	sync.RWMutex

	kind    string
	engines map[serde.Format]serde.FormatEngine
}

// NewSimpleRegistry returns an empty registry for the kind of message.
func NewSimpleRegistry(kind string) *SimpleRegistry {
	return &SimpleRegistry{
		kind:    kind,
		engines: make(map[serde.Format]serde.FormatEngine),
	}
}

// Register implements registry.Registry.
func (r *SimpleRegistry) Register(format serde.Format, engine serde.FormatEngine) {
	r.Lock()
	r.engines[format] = engine
	r.Unlock()
}

// Get implements registry.Registry.
func (r *SimpleRegistry) Get(format serde.Format) serde.FormatEngine {
	r.RLock()
	defer r.RUnlock()

	engine, found := r.engines[format]
	if !found {
		return missingFormat{kind: r.kind, format: format}
	}

	return engine
}

// missingFormat fails every call.
//
// - implements serde.FormatEngine
type missingFormat struct {
	kind   string
	format serde.Format
}

// Encode implements serde.FormatEngine.
func (f missingFormat) Encode(serde.Context, serde.Message) ([]byte, error) {
	return nil, f.err()
}

// Decode implements serde.FormatEngine.
func (f missingFormat) Decode(serde.Context, []byte) (serde.Message, error) {
	return nil, f.err()
}

func (f missingFormat) err() error {
	return xerrors.Errorf("%s format '%s' is not implemented", f.kind, f.format)
}
