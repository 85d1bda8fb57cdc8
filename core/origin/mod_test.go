package origin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/confidential/core/execution"
)

func TestSigner_Sign(t *testing.T) {
	signer := NewSigner()

	before := time.Now()

	env, err := signer.Sign(7, []byte("ping"))
	require.NoError(t, err)
	require.Equal(t, execution.ContractID(7), env.Contract)
	require.Equal(t, []byte("ping"), env.Payload)
	require.True(t, env.IsSigned())
	require.GreaterOrEqual(t, env.Expiry, before.Add(DefaultValidity).UnixNano())

	id, err := NewVerifier().Verify(env)
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, signer.GetAccount(), *id)
}

func TestSigner_Load(t *testing.T) {
	signer := NewSigner()

	data, err := signer.MarshalBinary()
	require.NoError(t, err)

	loaded, err := LoadSigner(data)
	require.NoError(t, err)
	require.Equal(t, signer.GetAccount(), loaded.GetAccount())

	_, err = LoadSigner([]byte{1, 2, 3})
	require.Error(t, err)
	require.Regexp(t, "^failed to unmarshal scalar", err.Error())
}

func TestVerify_Unsigned(t *testing.T) {
	verifier := NewVerifier()

	for i := 0; i < 2; i++ {
		id, err := verifier.Verify(Envelope{Contract: 7, Payload: []byte("ping")})
		require.NoError(t, err)
		require.Nil(t, id)
	}
}

func TestVerify_Tampered(t *testing.T) {
	signer := NewSigner()
	verifier := NewVerifier()

	env, err := signer.Sign(7, []byte("ping"))
	require.NoError(t, err)

	bad := env
	bad.Payload = []byte("pong")
	_, err = verifier.Verify(bad)
	require.Error(t, err)
	require.Regexp(t, "^invalid signature", err.Error())

	bad = env
	bad.Contract = 8
	_, err = verifier.Verify(bad)
	require.Regexp(t, "^invalid signature", err.Error())

	bad = env
	bad.Expiry += int64(time.Second)
	_, err = verifier.Verify(bad)
	require.Regexp(t, "^invalid signature", err.Error())

	bad = env
	bad.PublicKey = []byte{1}
	_, err = verifier.Verify(bad)
	require.Regexp(t, "^invalid public key", err.Error())

	bad = env
	bad.PublicKey = nil
	_, err = verifier.Verify(bad)
	require.Regexp(t, "^invalid public key", err.Error())

	other := NewSigner()
	bad = env
	bad.PublicKey, err = other.public.MarshalBinary()
	require.NoError(t, err)
	_, err = verifier.Verify(bad)
	require.Regexp(t, "^invalid signature", err.Error())

	// Rejected envelopes do not consume the original one.
	_, err = verifier.Verify(env)
	require.NoError(t, err)
}

func TestVerify_Replay(t *testing.T) {
	signer := NewSigner()
	verifier := NewVerifier()

	env, err := signer.Sign(7, []byte(`"DecodeStoredCode"`))
	require.NoError(t, err)

	_, err = verifier.Verify(env)
	require.NoError(t, err)

	_, err = verifier.Verify(env)
	require.EqualError(t, err, "envelope replayed")

	// A new signature of the same request is accepted.
	fresh, err := signer.Sign(7, []byte(`"DecodeStoredCode"`))
	require.NoError(t, err)

	_, err = verifier.Verify(fresh)
	require.NoError(t, err)
}

func TestVerify_Expired(t *testing.T) {
	signer := NewSigner()

	now := time.Unix(1000, 0)
	verifier := NewVerifier(WithClock(func() time.Time { return now }))

	env, err := signer.SignUntil(7, []byte("ping"), now.Add(time.Second))
	require.NoError(t, err)

	now = now.Add(time.Second)

	_, err = verifier.Verify(env)
	require.EqualError(t, err, "envelope expired at 1970-01-01T00:16:41Z")

	env, err = signer.SignUntil(7, []byte("ping"), now.Add(MaxValidity+time.Nanosecond))
	require.NoError(t, err)

	_, err = verifier.Verify(env)
	require.EqualError(t, err, "expiry exceeds 1m0s")

	verifier = NewVerifier(WithClock(func() time.Time { return now }),
		WithMaxValidity(2*MaxValidity))

	_, err = verifier.Verify(env)
	require.NoError(t, err)
}

func TestVerify_ForgetExpired(t *testing.T) {
	signer := NewSigner()

	now := time.Unix(1000, 0)
	verifier := NewVerifier(WithClock(func() time.Time { return now }))

	env, err := signer.SignUntil(7, []byte("ping"), now.Add(time.Second))
	require.NoError(t, err)

	_, err = verifier.Verify(env)
	require.NoError(t, err)
	require.Len(t, verifier.seen, 1)

	now = now.Add(2 * time.Second)

	other, err := signer.SignUntil(7, []byte("pong"), now.Add(time.Second))
	require.NoError(t, err)

	_, err = verifier.Verify(other)
	require.NoError(t, err)
	require.Len(t, verifier.seen, 1)
}

func TestEnvelope_JSON(t *testing.T) {
	signer := NewSigner()

	env, err := signer.Sign(7, []byte(`"DecodeStoredCode"`))
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, env, decoded)

	id, err := NewVerifier().Verify(decoded)
	require.NoError(t, err)
	require.Equal(t, signer.GetAccount(), *id)
}
