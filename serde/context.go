package serde

// ContextEngine is the encoding behind a context.
type ContextEngine interface {
	// GetFormat returns the format the engine produces. Message
	// implementations use it to pick their format engine.
	GetFormat() Format

	// Marshal encodes the value in the format of the engine.
	Marshal(message interface{}) ([]byte, error)

	// Unmarshal decodes the data into the value.
	Unmarshal(data []byte, message interface{}) error
}

// Context is given to the messages when they are serialized or deserialized.
// It is a value type and can be shared between goroutines.
type Context struct {
	ContextEngine
}

// NewContext returns a context for the engine.
func NewContext(engine ContextEngine) Context {
	return Context{ContextEngine: engine}
}
