package json

// SetCodeJSON is the JSON message of the SetCode command.
type SetCodeJSON struct {
	Code string `json:"code"`
}

// CommandJSON is the JSON message of a command. Exactly one variant is set.
type CommandJSON struct {
	SetCode *SetCodeJSON `json:"SetCode,omitempty"`
}

// DecodedCodeJSON is the JSON message of the DecodeStoredCode response.
type DecodedCodeJSON struct {
	Decnote string `json:"decnote"`
}

// ResponseJSON is the JSON message of a response. Exactly one variant is set.
type ResponseJSON struct {
	DecodeStoredCode *DecodedCodeJSON `json:"DecodeStoredCode,omitempty"`
	Error            *string          `json:"Error,omitempty"`
}
