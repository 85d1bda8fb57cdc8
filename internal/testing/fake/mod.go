// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations offer configuration to return errors when it is needed by
// the unit test and it is also possible to record the call of functions of an
// object in some cases.
package fake

import (
	"go.dedis.ch/confidential/serde"
	"golang.org/x/xerrors"
)

const fakeErrStr = "fake error"

var fakeErr = xerrors.New(fakeErrStr)

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the expected message of an error wrapping the fake error with
// the given prefix.
func Err(msg string) string {
	return msg + ": " + fakeErrStr
}

// Call is a tool to keep track of a function calls.
type Call struct {
	calls [][]interface{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	c.calls = append(c.calls, args)
}

// Message is a fake implementation of a serde message.
//
// - implements serde.Message
type Message struct {
	Digest []byte
	err    error
}

// Serialize implements serde.Message.
func (m Message) Serialize(serde.Context) ([]byte, error) {
	return []byte("{}"), m.err
}

// Format is a fake format engine implementation.
//
// - implements serde.FormatEngine
type Format struct {
	err  error
	Msg  serde.Message
	Call *Call
}

// NewBadFormat returns a format engine that will return errors.
func NewBadFormat() Format {
	return Format{err: fakeErr}
}

// Encode implements serde.FormatEngine.
func (f Format) Encode(ctx serde.Context, m serde.Message) ([]byte, error) {
	if f.Call != nil {
		f.Call.Add(ctx, m)
	}

	return []byte("fake format"), f.err
}

// Decode implements serde.FormatEngine.
func (f Format) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	if f.Call != nil {
		f.Call.Add(ctx, data)
	}

	return f.Msg, f.err
}

const (
	// GoodFormat is the format of the contexts that succeed.
	GoodFormat = serde.Format("FAKE")

	// BadFormat is the format of the contexts that return errors. Register a
	// bad format engine for it to make the encoding fail.
	BadFormat = serde.Format("BAD_FAKE")
)

// ContextEngine is a fake implementation of a serde context engine that
// simply marshals nothing.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	Count  *int
	format serde.Format
	err    error
}

// NewContext returns a new serde context with a fake engine.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{format: GoodFormat})
}

// NewBadContext returns a new serde context with a fake engine that returns an
// error.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{format: BadFormat, err: fakeErr})
}

// GetFormat implements serde.ContextEngine.
func (ctx ContextEngine) GetFormat() serde.Format {
	return ctx.format
}

// Marshal implements serde.ContextEngine.
func (ctx ContextEngine) Marshal(m interface{}) ([]byte, error) {
	if ctx.Count != nil {
		*ctx.Count++
	}

	return []byte("{}"), ctx.err
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal([]byte, interface{}) error {
	if ctx.Count != nil {
		*ctx.Count++
	}

	return ctx.err
}
