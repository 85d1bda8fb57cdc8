// Package types defines the messages of the secret code contract.
//
// Commands, requests and responses are closed sets of variants. The wire
// schema is append-only: a new variant gets a new name and the fields of an
// existing variant never change.
package types

import (
	"fmt"

	"go.dedis.ch/confidential/serde"
	"go.dedis.ch/confidential/serde/registry"
	"golang.org/x/xerrors"
)

var (
	commandFormats  = registry.NewSimpleRegistry("command")
	requestFormats  = registry.NewSimpleRegistry("request")
	responseFormats = registry.NewSimpleRegistry("response")
)

// RegisterCommandFormat registers the engine for the provided format.
func RegisterCommandFormat(f serde.Format, e serde.FormatEngine) {
	commandFormats.Register(f, e)
}

// RegisterRequestFormat registers the engine for the provided format.
func RegisterRequestFormat(f serde.Format, e serde.FormatEngine) {
	requestFormats.Register(f, e)
}

// RegisterResponseFormat registers the engine for the provided format.
func RegisterResponseFormat(f serde.Format, e serde.FormatEngine) {
	responseFormats.Register(f, e)
}

// Command is a mutation of the contract state submitted by a transaction.
type Command interface {
	serde.Message

	isCommand()
}

// SetCode is the command that stores the code of the origin. It replaces any
// previous code of the same account.
//
// - implements types.Command
type SetCode struct {
	Code string
}

func (SetCode) isCommand() {}

// Serialize implements serde.Message.
func (cmd SetCode) Serialize(ctx serde.Context) ([]byte, error) {
	format := commandFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, cmd)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode command: %v", err)
	}

	return data, nil
}

// Request is a read-only query on the contract state.
type Request interface {
	serde.Message

	isRequest()
}

// DecodeStoredCode is the request that returns the decoded code of the
// origin.
//
// - implements types.Request
type DecodeStoredCode struct{}

func (DecodeStoredCode) isRequest() {}

// Serialize implements serde.Message.
func (req DecodeStoredCode) Serialize(ctx serde.Context) ([]byte, error) {
	format := requestFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, req)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode request: %v", err)
	}

	return data, nil
}

// Response is the answer to a request.
type Response interface {
	serde.Message

	isResponse()
}

// DecodedCode is the response to DecodeStoredCode.
//
// - implements types.Response
type DecodedCode struct {
	Text string
}

func (DecodedCode) isResponse() {}

// Serialize implements serde.Message.
func (resp DecodedCode) Serialize(ctx serde.Context) ([]byte, error) {
	return serializeResponse(ctx, resp)
}

// ErrorResponse is the response of a request that failed.
//
// - implements types.Response
type ErrorResponse struct {
	Err Error
}

func (ErrorResponse) isResponse() {}

// Serialize implements serde.Message.
func (resp ErrorResponse) Serialize(ctx serde.Context) ([]byte, error) {
	return serializeResponse(ctx, resp)
}

func serializeResponse(ctx serde.Context, resp Response) ([]byte, error) {
	format := responseFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, resp)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode response: %v", err)
	}

	return data, nil
}

// Error is the failure of a request returned to the caller.
type Error uint8

const (
	// ErrNotAuthorized is returned when the origin is missing or has nothing
	// stored. Both cases are deliberately the same.
	ErrNotAuthorized Error = iota

	// ErrDecodeFailed is returned when the stored code is not base64 of a
	// valid UTF-8 text.
	ErrDecodeFailed
)

var errorNames = []string{
	ErrNotAuthorized: "NotAuthorized",
	ErrDecodeFailed:  "DecodeFailed",
}

// ParseError returns the error of the name.
func ParseError(name string) (Error, error) {
	for i, n := range errorNames {
		if n == name {
			return Error(i), nil
		}
	}

	return 0, xerrors.Errorf("unknown error '%s'", name)
}

// String implements fmt.Stringer.
func (e Error) String() string {
	if int(e) < len(errorNames) {
		return errorNames[e]
	}

	return fmt.Sprintf("Error(%d)", uint8(e))
}

// Error implements error.
func (e Error) Error() string {
	return e.String()
}

// CommandFactory is the factory of the commands.
//
// - implements serde.Factory
type CommandFactory struct{}

// Deserialize implements serde.Factory.
func (CommandFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := commandFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode command: %v", err)
	}

	return msg, nil
}

// CommandOf returns the command of the data.
func (f CommandFactory) CommandOf(ctx serde.Context, data []byte) (Command, error) {
	msg, err := f.Deserialize(ctx, data)
	if err != nil {
		return nil, err
	}

	cmd, ok := msg.(Command)
	if !ok {
		return nil, xerrors.Errorf("invalid command '%T'", msg)
	}

	return cmd, nil
}

// RequestFactory is the factory of the requests.
//
// - implements serde.Factory
type RequestFactory struct{}

// Deserialize implements serde.Factory.
func (RequestFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := requestFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode request: %v", err)
	}

	return msg, nil
}

// RequestOf returns the request of the data.
func (f RequestFactory) RequestOf(ctx serde.Context, data []byte) (Request, error) {
	msg, err := f.Deserialize(ctx, data)
	if err != nil {
		return nil, err
	}

	req, ok := msg.(Request)
	if !ok {
		return nil, xerrors.Errorf("invalid request '%T'", msg)
	}

	return req, nil
}

// ResponseFactory is the factory of the responses.
//
// - implements serde.Factory
type ResponseFactory struct{}

// Deserialize implements serde.Factory.
func (ResponseFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := responseFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode response: %v", err)
	}

	return msg, nil
}

// ResponseOf returns the response of the data.
func (f ResponseFactory) ResponseOf(ctx serde.Context, data []byte) (Response, error) {
	msg, err := f.Deserialize(ctx, data)
	if err != nil {
		return nil, err
	}

	resp, ok := msg.(Response)
	if !ok {
		return nil, xerrors.Errorf("invalid response '%T'", msg)
	}

	return resp, nil
}
