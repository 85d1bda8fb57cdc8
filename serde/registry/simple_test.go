package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/confidential/internal/testing/fake"
	"go.dedis.ch/confidential/serde"
)

func TestSimpleRegistry_Register(t *testing.T) {
	registry := NewSimpleRegistry("test")

	registry.Register(serde.FormatJSON, fake.Format{})
	require.Len(t, registry.engines, 1)

	registry.Register(serde.FormatJSON, fake.NewBadFormat())
	require.Len(t, registry.engines, 1)
	require.Equal(t, fake.NewBadFormat(), registry.Get(serde.FormatJSON))

	registry.Register(serde.Format("A"), fake.Format{})
	require.Len(t, registry.engines, 2)
}

func TestSimpleRegistry_Get(t *testing.T) {
	registry := NewSimpleRegistry("test")

	registry.Register(serde.FormatJSON, fake.Format{})

	format := registry.Get(serde.FormatJSON)
	require.Equal(t, fake.Format{}, format)

	format = registry.Get(serde.Format("unknown"))
	require.NotNil(t, format)

	_, err := format.Encode(fake.NewContext(), nil)
	require.EqualError(t, err, "test format 'unknown' is not implemented")

	_, err = format.Decode(fake.NewContext(), nil)
	require.EqualError(t, err, "test format 'unknown' is not implemented")
}
