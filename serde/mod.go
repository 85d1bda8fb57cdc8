// Package serde defines the primitives to serialize and deserialize (serde)
// the messages exchanged with the contracts.
//
// A message implementation looks up the engine registered for the format of
// the context, which keeps the data model independent of the wire format.
//
// Documentation Last Review: 16.10.2026
//
package serde

// Format is the identifier of a serialization format.
type Format string

const (
	// FormatJSON is the identifier for the JSON format.
	FormatJSON Format = "JSON"
)

// Message is the interface a data model must implement to be serialized.
type Message interface {
	// Serialize returns the bytes of the message in the format of the
	// context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a message from its
// serialized form.
type Factory interface {
	// Deserialize returns the message of the data in the format of the
	// context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// FormatEngine is the interface of a format definition for a message
// implementation.
type FormatEngine interface {
	// Encode returns the bytes of the message.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message of the data.
	Decode(ctx Context, data []byte) (Message, error)
}
