// Package txn defines the reference to the blockchain transaction that
// triggered a contract command.
//
// The reference is opaque to the contracts: they receive it alongside the
// command and may only use it for logging or auditing.
//
// Documentation Last Review: 16.10.2026
//
package txn

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Ref identifies a finalized transaction by the number of the block that
// includes it and its index inside the block.
type Ref struct {
	Block uint32 `json:"blocknum"`
	Index uint64 `json:"index"`
}

// String implements fmt.Stringer. It returns the reference as block#index.
func (ref Ref) String() string {
	return fmt.Sprintf("%d#%d", ref.Block, ref.Index)
}

// ParseRef parses the string form of a reference.
func ParseRef(text string) (Ref, error) {
	parts := strings.Split(text, "#")
	if len(parts) != 2 {
		return Ref{}, xerrors.Errorf("malformed reference '%s'", text)
	}

	block, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Ref{}, xerrors.Errorf("invalid block number: %v", err)
	}

	index, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Ref{}, xerrors.Errorf("invalid index: %v", err)
	}

	return Ref{Block: uint32(block), Index: index}, nil
}
