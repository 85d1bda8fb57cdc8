// Package account defines the identifier of a chain account.
//
// The identifier is the key of every per-account state kept by a contract. It
// is totally ordered by its bytes so that ordered maps iterate the same way on
// every node executing the contract.
package account

import (
	"bytes"
	"encoding/hex"

	"go.dedis.ch/kyber/v3"
	"golang.org/x/xerrors"
)

// Size is the length in bytes of an account identifier.
const Size = 32

// ID is the identifier of a chain account. Two identifiers are equal if and
// only if their bytes are equal, so the type can be compared with ==.
type ID [Size]byte

// FromBytes returns the identifier for the raw bytes. It returns an error if
// the length does not match.
func FromBytes(raw []byte) (ID, error) {
	var id ID

	if len(raw) != Size {
		return id, xerrors.Errorf("invalid account length %d != %d", len(raw), Size)
	}

	copy(id[:], raw)

	return id, nil
}

// FromHex parses the hexadecimal form of an identifier.
func FromHex(text string) (ID, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return ID{}, xerrors.Errorf("malformed hex: %v", err)
	}

	return FromBytes(raw)
}

// FromPublicKey returns the account owned by the Ed25519 public key, which is
// the marshaled point.
func FromPublicKey(point kyber.Point) (ID, error) {
	raw, err := point.MarshalBinary()
	if err != nil {
		return ID{}, xerrors.Errorf("failed to marshal point: %v", err)
	}

	return FromBytes(raw)
}

// Bytes returns a copy of the raw identifier.
func (id ID) Bytes() []byte {
	return append([]byte{}, id[:]...)
}

// Compare returns -1, 0 or +1 depending on the byte order of the two
// identifiers.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// Equal returns true when both identifiers have the same bytes.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Less returns true when the identifier sorts before the other one.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// String implements fmt.Stringer. It returns the hexadecimal form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return xerrors.Errorf("failed to parse account: %v", err)
	}

	*id = parsed

	return nil
}
