package keys_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyRoundtripsViaWire(t *testing.T) {
	sk := keys.Generate(curve.Rand)

	b, err := sk.MarshalBinary()
	require.NoError(t, err)

	var recovered keys.PrivateKey
	require.NoError(t, recovered.UnmarshalBinary(b))
	require.Equal(t, sk.Fingerprint(), recovered.Fingerprint())
}

func TestPublicKeyRoundtripsViaWire(t *testing.T) {
	pk := keys.Generate(curve.Rand).PublicKey()

	b, err := pk.MarshalBinary()
	require.NoError(t, err)

	var recovered keys.PublicKey
	require.NoError(t, recovered.UnmarshalBinary(b))
	require.True(t, pk.Point().Equal(recovered.Point()))
	require.Equal(t, pk.Fingerprint(), recovered.Fingerprint())
}
