// Package secretcode implements a contract that keeps a base64 encoded code
// per account and lets each account read back its own decoded code.
//
// The code of an account is set by a command of that account and replaced by
// the next one: no history is kept. A query returns the decoded code only to
// the account that stored it. A query without origin and a query of an
// account without code get the same NotAuthorized answer, so a caller cannot
// learn which accounts have stored something.
//
// Documentation Last Review: 16.10.2026
//
package secretcode

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/google/btree"
	"github.com/rs/zerolog"
	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/contracts/secretcode/types"
	"go.dedis.ch/confidential/core/account"
	"go.dedis.ch/confidential/core/execution"
	"go.dedis.ch/confidential/core/execution/native"
	"go.dedis.ch/confidential/core/store"
	"go.dedis.ch/confidential/core/txn"
	"go.dedis.ch/confidential/serde"
	"golang.org/x/xerrors"
)

const (
	// ContractID is the identifier of the contract in the runtime.
	ContractID execution.ContractID = 7

	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/confidential.SecretCode"

	// btreeDegree is the degree of the tree holding the codes.
	btreeDegree = 16
)

// RegisterContract registers the contract to the given execution service.
func RegisterContract(exec *native.Service, c *Contract) {
	exec.Set(c)
}

// entry is a code stored for an account. Entries are ordered by account.
//
// - implements btree.Item
type entry struct {
	account account.ID
	code    string
}

// Less implements btree.Item.
func (e entry) Less(than btree.Item) bool {
	return e.account.Less(than.(entry).account)
}

// Contract is the secret code contract.
//
// - implements execution.Contract
// - implements execution.Persistent
type Contract struct {
	codes *btree.BTree

	logger zerolog.Logger
}

// NewContract returns a contract with an empty state.
func NewContract() *Contract {
	return &Contract{
		codes:  btree.New(btreeDegree),
		logger: confidential.Logger.With().Str("contract", ContractName).Logger(),
	}
}

// ID implements execution.Contract. It returns the identifier of the contract.
func (c *Contract) ID() execution.ContractID {
	return ContractID
}

// HandleCommand implements execution.Contract. It decodes the command and
// applies it.
func (c *Contract) HandleCommand(ctx serde.Context, origin account.ID, ref txn.Ref,
	data []byte) execution.Status {

	cmd, err := types.CommandFactory{}.CommandOf(ctx, data)
	if err != nil {
		c.logger.Warn().Err(err).Stringer("txref", ref).Msg("bad command")
		return execution.StatusBadInput
	}

	return c.Apply(origin, ref, cmd)
}

// HandleQuery implements execution.Contract. It decodes the request, runs it
// and returns the encoded response.
func (c *Contract) HandleQuery(ctx serde.Context, origin *account.ID, data []byte) ([]byte, error) {
	req, err := types.RequestFactory{}.RequestOf(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("bad request: %v", err)
	}

	resp := c.Query(origin, req)

	res, err := resp.Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to serialize response: %v", err)
	}

	return res, nil
}

// Apply applies the command on behalf of the origin. The transaction reference
// is only used for logging.
func (c *Contract) Apply(origin account.ID, ref txn.Ref, cmd types.Command) execution.Status {
	switch command := cmd.(type) {
	case types.SetCode:
		// No validation of the code happens here, it is deferred to the
		// queries, so the command cannot fail.
		c.codes.ReplaceOrInsert(entry{account: origin, code: command.Code})

		c.logger.Debug().
			Stringer("origin", origin).
			Stringer("txref", ref).
			Msg("code set")

		return execution.StatusOk
	default:
		c.logger.Warn().Stringer("txref", ref).Msgf("unsupported command '%T'", cmd)

		return execution.StatusBadCommand
	}
}

// Query runs the request of the optional origin. It never changes the state.
func (c *Contract) Query(origin *account.ID, req types.Request) types.Response {
	switch req.(type) {
	case types.DecodeStoredCode:
		return c.decodeStoredCode(origin)
	default:
		// The request set is closed, so this only happens with a message
		// implementation unknown to this version of the contract.
		return types.ErrorResponse{Err: types.ErrNotAuthorized}
	}
}

func (c *Contract) decodeStoredCode(origin *account.ID) types.Response {
	if origin == nil {
		return types.ErrorResponse{Err: types.ErrNotAuthorized}
	}

	code, found := c.Get(*origin)
	if !found {
		return types.ErrorResponse{Err: types.ErrNotAuthorized}
	}

	raw, err := decodeCode(code)
	if err != nil {
		c.logger.Warn().Stringer("origin", *origin).Msg("stored code is not base64")
		return types.ErrorResponse{Err: types.ErrDecodeFailed}
	}

	if !utf8.Valid(raw) {
		c.logger.Warn().Stringer("origin", *origin).Msg("stored code is not UTF-8")
		return types.ErrorResponse{Err: types.ErrDecodeFailed}
	}

	return types.DecodedCode{Text: string(raw)}
}

// decodeCode decodes the standard base64 alphabet. Padding is optional but
// must be complete when present, and line breaks are rejected.
func decodeCode(code string) ([]byte, error) {
	if strings.ContainsAny(code, "\r\n") {
		return nil, xerrors.New("unexpected line break")
	}

	if strings.ContainsRune(code, '=') {
		return base64.StdEncoding.Strict().DecodeString(code)
	}

	return base64.RawStdEncoding.Strict().DecodeString(code)
}

// Get returns the code stored by the account, if any.
func (c *Contract) Get(id account.ID) (string, bool) {
	item := c.codes.Get(entry{account: id})
	if item == nil {
		return "", false
	}

	return item.(entry).code, true
}

// Len returns the number of accounts with a code.
func (c *Contract) Len() int {
	return c.codes.Len()
}

// ForEach calls the function for every stored code in the order of the
// accounts. It stops when the function returns false.
func (c *Contract) ForEach(fn func(id account.ID, code string) bool) {
	c.codes.Ascend(func(item btree.Item) bool {
		e := item.(entry)
		return fn(e.account, e.code)
	})
}

// Save implements execution.Persistent. It writes one key per account, which
// is the raw account, with the code as the value.
func (c *Contract) Save(w store.Writable) error {
	var err error

	c.ForEach(func(id account.ID, code string) bool {
		err = w.Set(id.Bytes(), []byte(code))
		if err != nil {
			err = xerrors.Errorf("failed to save '%v': %v", id, err)
			return false
		}

		return true
	})

	return err
}

// Load implements execution.Persistent. It replaces the state with the codes
// of the store. The state is unchanged if an error occurs.
func (c *Contract) Load(it store.Iterable) error {
	codes := btree.New(btreeDegree)

	err := it.ForEach(func(k, v []byte) error {
		id, err := account.FromBytes(k)
		if err != nil {
			return xerrors.Errorf("invalid key '%x': %v", k, err)
		}

		codes.ReplaceOrInsert(entry{account: id, code: string(v)})

		return nil
	})
	if err != nil {
		return xerrors.Errorf("failed to load: %v", err)
	}

	c.codes = codes

	return nil
}
