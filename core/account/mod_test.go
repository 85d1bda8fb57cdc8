package account

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v3/suites"
	"go.dedis.ch/kyber/v3/util/random"
)

func TestFromBytes(t *testing.T) {
	raw := make([]byte, Size)
	raw[0] = 0xaa

	id, err := FromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, raw, id.Bytes())

	// The identifier must not alias the input.
	raw[0] = 0xbb
	require.Equal(t, byte(0xaa), id[0])

	_, err = FromBytes([]byte{1, 2})
	require.EqualError(t, err, "invalid account length 2 != 32")
}

func TestFromHex(t *testing.T) {
	id, err := FromHex("01" + zeros(31))
	require.NoError(t, err)
	require.Equal(t, ID{1}, id)

	_, err = FromHex("zz")
	require.EqualError(t, err, "malformed hex: encoding/hex: invalid byte: U+007A 'z'")

	_, err = FromHex("0102")
	require.EqualError(t, err, "invalid account length 2 != 32")
}

func TestFromPublicKey(t *testing.T) {
	suite := suites.MustFind("Ed25519")
	point := suite.Point().Pick(random.New())

	id, err := FromPublicKey(point)
	require.NoError(t, err)

	raw, err := point.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, raw, id.Bytes())
}

func TestID_Order(t *testing.T) {
	a := ID{1}
	b := ID{2}
	c := ID{1}

	require.True(t, a.Equal(c))
	require.False(t, a.Equal(b))
	require.Equal(t, a, c)

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(c))

	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(c))

	ids := []ID{{3}, {0, 1}, {1}, {0, 0, 1}}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	require.Equal(t, []ID{{0, 0, 1}, {0, 1}, {1}, {3}}, ids)
}

func TestID_Text(t *testing.T) {
	id := ID{0xab}
	require.Equal(t, "ab"+zeros(31), id.String())

	data, err := json.Marshal(map[string]ID{"account": id})
	require.NoError(t, err)
	require.Equal(t, `{"account":"ab`+zeros(31)+`"}`, string(data))

	var res map[string]ID
	err = json.Unmarshal(data, &res)
	require.NoError(t, err)
	require.Equal(t, id, res["account"])

	var other ID
	err = other.UnmarshalText([]byte("00"))
	require.EqualError(t, err, "failed to parse account: invalid account length 1 != 32")
}

func zeros(n int) string {
	res := ""
	for i := 0; i < n; i++ {
		res += "00"
	}
	return res
}
