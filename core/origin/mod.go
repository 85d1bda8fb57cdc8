// Package origin authenticates the account behind a query.
//
// A query travels in an envelope that names the contract and carries the
// serialized request. The envelope is optionally signed with the Ed25519 key
// of an account. The host verifies the signature before the query reaches a
// contract so that the origin never comes from a field of the request itself.
//
// The signature covers an expiry so that a signed envelope is only accepted
// for a short time, and a verifier accepts each signature once.
//
// Documentation Last Review: 16.10.2026
//
package origin

import (
	"encoding/binary"
	"sync"
	"time"

	"go.dedis.ch/confidential/core/account"
	"go.dedis.ch/confidential/core/execution"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"go.dedis.ch/kyber/v3/suites"
	"go.dedis.ch/kyber/v3/util/key"
	"golang.org/x/xerrors"
)

var suite = suites.MustFind("Ed25519")

const (
	// DefaultValidity is how long an envelope signed with Sign is accepted.
	DefaultValidity = 30 * time.Second

	// MaxValidity is the longest validity a verifier accepts by default.
	MaxValidity = time.Minute
)

// Envelope is a query addressed to a contract.
type Envelope struct {
	Contract execution.ContractID `json:"contract"`
	Payload  []byte               `json:"payload"`
	// Expiry is the unix time in nanoseconds after which the signed envelope
	// is rejected.
	Expiry    int64  `json:"expiry,omitempty"`
	PublicKey []byte `json:"pubkey,omitempty"`
	Signature []byte `json:"signature,omitempty"`
}

// IsSigned returns true if the envelope claims an origin.
func (env Envelope) IsSigned() bool {
	return len(env.PublicKey) > 0 || len(env.Signature) > 0
}

// Signer is an Ed25519 key pair able to sign envelopes.
type Signer struct {
	public  kyber.Point
	private kyber.Scalar
}

// NewSigner returns a signer with a fresh key pair.
func NewSigner() Signer {
	kp := key.NewKeyPair(suite)

	return Signer{
		public:  kp.Public,
		private: kp.Private,
	}
}

// LoadSigner returns the signer of the marshaled private key.
func LoadSigner(data []byte) (Signer, error) {
	scalar := suite.Scalar()

	err := scalar.UnmarshalBinary(data)
	if err != nil {
		return Signer{}, xerrors.Errorf("failed to unmarshal scalar: %v", err)
	}

	signer := Signer{
		public:  suite.Point().Mul(scalar, nil),
		private: scalar,
	}

	return signer, nil
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns the private
// key.
func (s Signer) MarshalBinary() ([]byte, error) {
	return s.private.MarshalBinary()
}

// GetAccount returns the account owned by the signer.
func (s Signer) GetAccount() account.ID {
	// An Ed25519 point always marshals to exactly the size of an account.
	id, err := account.FromPublicKey(s.public)
	if err != nil {
		panic(err)
	}

	return id
}

// Sign returns the envelope of the payload for the contract, signed by the
// signer and valid for DefaultValidity.
func (s Signer) Sign(contract execution.ContractID, payload []byte) (Envelope, error) {
	return s.SignUntil(contract, payload, time.Now().Add(DefaultValidity))
}

// SignUntil returns the envelope of the payload for the contract, signed by
// the signer and valid until the expiry.
func (s Signer) SignUntil(contract execution.ContractID, payload []byte,
	expiry time.Time) (Envelope, error) {

	pubkey, err := s.public.MarshalBinary()
	if err != nil {
		return Envelope{}, xerrors.Errorf("failed to marshal public key: %v", err)
	}

	env := Envelope{
		Contract:  contract,
		Payload:   payload,
		Expiry:    expiry.UnixNano(),
		PublicKey: pubkey,
	}

	env.Signature, err = schnorr.Sign(suite, s.private, digest(env))
	if err != nil {
		return Envelope{}, xerrors.Errorf("failed to sign: %v", err)
	}

	return env, nil
}

// Verifier checks the envelopes. A signed envelope is accepted once, before
// its expiry, and only if the expiry is not further than the maximum validity.
type Verifier struct {
	sync.Mutex

	now         func() time.Time
	maxValidity time.Duration
	// seen maps the accepted messages, keyed by account and digest, to their
	// expiry.
	seen map[string]int64
}

// VerifierOption is the type of option to change the default configuration of
// the verifier.
type VerifierOption func(*Verifier)

// WithClock sets the clock of the verifier. The default is time.Now.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// WithMaxValidity sets the longest validity accepted. The default is
// MaxValidity.
func WithMaxValidity(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.maxValidity = d
	}
}

// NewVerifier returns a new verifier.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		now:         time.Now,
		maxValidity: MaxValidity,
		seen:        make(map[string]int64),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Verify returns the origin of the envelope. An unsigned envelope has no
// origin and nil is returned. A signed envelope returns the account of the
// public key if the signature is valid, fresh and not seen before, otherwise
// an error.
func (v *Verifier) Verify(env Envelope) (*account.ID, error) {
	if !env.IsSigned() {
		return nil, nil
	}

	point := suite.Point()

	err := point.UnmarshalBinary(env.PublicKey)
	if err != nil {
		return nil, xerrors.Errorf("invalid public key: %v", err)
	}

	err = schnorr.Verify(suite, point, digest(env), env.Signature)
	if err != nil {
		return nil, xerrors.Errorf("invalid signature: %v", err)
	}

	id, err := account.FromPublicKey(point)
	if err != nil {
		return nil, xerrors.Errorf("invalid account: %v", err)
	}

	v.Lock()
	defer v.Unlock()

	now := v.now().UnixNano()

	if env.Expiry <= now {
		return nil, xerrors.Errorf("envelope expired at %v",
			time.Unix(0, env.Expiry).UTC().Format(time.RFC3339Nano))
	}

	if env.Expiry-now > int64(v.maxValidity) {
		return nil, xerrors.Errorf("expiry exceeds %v", v.maxValidity)
	}

	for key, expiry := range v.seen {
		if expiry <= now {
			delete(v.seen, key)
		}
	}

	key := string(id.Bytes()) + string(digest(env))

	_, found := v.seen[key]
	if found {
		return nil, xerrors.New("envelope replayed")
	}

	v.seen[key] = env.Expiry

	return &id, nil
}

// digest returns the signed message: the contract identifier and the expiry
// in big-endian followed by the payload.
func digest(env Envelope) []byte {
	msg := make([]byte, 12, 12+len(env.Payload))
	binary.BigEndian.PutUint32(msg, uint32(env.Contract))
	binary.BigEndian.PutUint64(msg[4:], uint64(env.Expiry))

	return append(msg, env.Payload...)
}
