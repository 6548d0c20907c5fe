package keys_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	sk := keys.Generate(curve.Rand)
	pk := sk.PublicKey()

	m := keys.Group.SampleScalar(curve.Rand)
	sig := sk.Sign(curve.Rand, m)

	require.True(t, pk.Verify(m, sig))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	sk := keys.Generate(curve.Rand)
	pk := sk.PublicKey()

	m := keys.Group.SampleScalar(curve.Rand)
	sig := sk.Sign(curve.Rand, m)

	other := keys.Group.SampleScalar(curve.Rand)
	require.False(t, pk.Verify(other, sig))
}

func TestFingerprintStableAcrossEncoding(t *testing.T) {
	sk := keys.Generate(curve.Rand)
	pk := sk.PublicKey()

	require.Equal(t, pk.Fingerprint(), pk.Fingerprint())
	require.Equal(t, sk.Fingerprint(), pk.Fingerprint())
}

func TestCombinePublicKeysIsCommutative(t *testing.T) {
	a := keys.Generate(curve.Rand).PublicKey()
	b := keys.Generate(curve.Rand).PublicKey()

	require.True(t, a.Combine(b).Point().Equal(b.Combine(a).Point()))
}
