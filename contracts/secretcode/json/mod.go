// Package json defines the JSON wire schema of the secret code contract.
//
// Variants are externally tagged: a variant with fields is an object with a
// single key naming the variant, and a variant without fields is the string of
// its name.
//
//	{"SetCode":{"code":"aGVsbG8="}}
//	"DecodeStoredCode"
//	{"DecodeStoredCode":{"decnote":"hello"}}
//	{"Error":"NotAuthorized"}
package json

import (
	"encoding/json"

	"go.dedis.ch/confidential/contracts/secretcode/types"
	"go.dedis.ch/confidential/serde"
	"golang.org/x/xerrors"
)

const decodeStoredCode = "DecodeStoredCode"

func init() {
	types.RegisterCommandFormat(serde.FormatJSON, commandFormat{})
	types.RegisterRequestFormat(serde.FormatJSON, requestFormat{})
	types.RegisterResponseFormat(serde.FormatJSON, responseFormat{})
}

// commandFormat is the JSON format engine of the commands.
//
// - implements serde.FormatEngine
type commandFormat struct{}

// Encode implements serde.FormatEngine.
func (commandFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var m CommandJSON

	switch cmd := msg.(type) {
	case types.SetCode:
		m.SetCode = &SetCodeJSON{Code: cmd.Code}
	default:
		return nil, xerrors.Errorf("unsupported message '%T'", msg)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine.
func (commandFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var m CommandJSON

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	switch {
	case m.SetCode != nil:
		return types.SetCode{Code: m.SetCode.Code}, nil
	default:
		return nil, xerrors.New("message is empty")
	}
}

// requestFormat is the JSON format engine of the requests.
//
// - implements serde.FormatEngine
type requestFormat struct{}

// Encode implements serde.FormatEngine.
func (requestFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var name string

	switch msg.(type) {
	case types.DecodeStoredCode:
		name = decodeStoredCode
	default:
		return nil, xerrors.Errorf("unsupported message '%T'", msg)
	}

	data, err := ctx.Marshal(name)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It accepts the name of the variant as
// a string, or an object with the name as the only key.
func (requestFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var name string

	err := ctx.Unmarshal(data, &name)
	if err != nil {
		var obj map[string]json.RawMessage

		err = ctx.Unmarshal(data, &obj)
		if err != nil {
			return nil, xerrors.Errorf("failed to unmarshal: %v", err)
		}

		if len(obj) != 1 {
			return nil, xerrors.Errorf("expected one variant but got %d", len(obj))
		}

		for key := range obj {
			name = key
		}
	}

	switch name {
	case decodeStoredCode:
		return types.DecodeStoredCode{}, nil
	default:
		return nil, xerrors.Errorf("unknown request '%s'", name)
	}
}

// responseFormat is the JSON format engine of the responses.
//
// - implements serde.FormatEngine
type responseFormat struct{}

// Encode implements serde.FormatEngine.
func (responseFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var m ResponseJSON

	switch resp := msg.(type) {
	case types.DecodedCode:
		m.DecodeStoredCode = &DecodedCodeJSON{Decnote: resp.Text}
	case types.ErrorResponse:
		name := resp.Err.String()
		m.Error = &name
	default:
		return nil, xerrors.Errorf("unsupported message '%T'", msg)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine.
func (responseFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var m ResponseJSON

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	switch {
	case m.DecodeStoredCode != nil:
		return types.DecodedCode{Text: m.DecodeStoredCode.Decnote}, nil
	case m.Error != nil:
		e, err := types.ParseError(*m.Error)
		if err != nil {
			return nil, xerrors.Errorf("invalid error: %v", err)
		}

		return types.ErrorResponse{Err: e}, nil
	default:
		return nil, xerrors.New("message is empty")
	}
}
