// Package execution defines the contract between the host runtime and the
// contracts it executes.
//
// Every contract exposes a stable identifier, a write path that applies the
// commands of finalized transactions, and a read path that answers queries
// without changing the state. The host routes by identifier and never needs
// to know more about a contract.
//
// Documentation Last Review: 16.10.2026
//
package execution

import (
	"fmt"

	"go.dedis.ch/confidential/core/account"
	"go.dedis.ch/confidential/core/store"
	"go.dedis.ch/confidential/core/txn"
	"go.dedis.ch/confidential/serde"
)

// ContractID is the stable identifier of a contract.
type ContractID uint32

// String implements fmt.Stringer.
func (id ContractID) String() string {
	return fmt.Sprintf("contract#%d", uint32(id))
}

// Status is the outcome of a command, reported to the transaction log of the
// blockchain. New values are only ever appended.
type Status uint8

const (
	// StatusOk means the command has been applied.
	StatusOk Status = iota

	// StatusBadInput means the command could not be decoded.
	StatusBadInput

	// StatusBadContract means no contract matches the identifier.
	StatusBadContract

	// StatusBadCommand means the command is not supported by the contract.
	StatusBadCommand

	// StatusNotAuthorized means the origin is not allowed to run the command.
	StatusNotAuthorized
)

var statusNames = map[Status]string{
	StatusOk:            "Ok",
	StatusBadInput:      "BadInput",
	StatusBadContract:   "BadContract",
	StatusBadCommand:    "BadCommand",
	StatusNotAuthorized: "NotAuthorized",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	name, found := statusNames[s]
	if !found {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}

	return name
}

// Accepted returns true if the command has been applied.
func (s Status) Accepted() bool {
	return s == StatusOk
}

// Result is the result of a command execution.
type Result struct {
	// Status is the outcome of the command.
	Status Status

	// Message gives a chance to the execution to explain why a command has
	// been rejected.
	Message string
}

// Event is the record of an executed command, as published to the observers
// of the host.
type Event struct {
	Contract ContractID
	Origin   account.ID
	Ref      txn.Ref
	Result   Result
}

// Contract is the interface every contract of the runtime implements.
//
// The host applies the commands one at a time in the order the blockchain
// finalized them, and never runs a query concurrently with a command. A
// contract therefore performs no locking of its own.
type Contract interface {
	// ID returns the stable identifier of the contract.
	ID() ContractID

	// HandleCommand applies the serialized command on behalf of the
	// authenticated origin. The result is only a status as commands have no
	// response: their outcome surfaces through the transaction log.
	HandleCommand(ctx serde.Context, origin account.ID, ref txn.Ref, data []byte) Status

	// HandleQuery answers the serialized request of an optional
	// authenticated origin and returns the serialized response. It must not
	// change the state. The error is reserved to transport failures, such as
	// a request that cannot be decoded; failures of the request itself are
	// part of the response.
	HandleQuery(ctx serde.Context, origin *account.ID, data []byte) ([]byte, error)
}

// Persistent is implemented by the contracts whose state can be saved and
// restored by the host.
type Persistent interface {
	// Save writes the whole state to the store.
	Save(store.Writable) error

	// Load replaces the state with the content of the store.
	Load(store.Iterable) error
}
