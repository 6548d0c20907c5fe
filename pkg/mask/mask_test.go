package mask_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/stretchr/testify/require"
)

func TestEmbedRecoverRoundtrip(t *testing.T) {
	c := curve.Secp256k1{}
	for _, token := range []uint64{0, 1, 17, 4096, 1 << 20} {
		p := mask.Embed(c, token)
		got, err := mask.Recover(c, p)
		require.NoError(t, err)
		require.Equal(t, token, got)
	}
}

func TestRecoverRejectsOutOfRange(t *testing.T) {
	c := curve.Secp256k1{}
	p := mask.Embed(c, mask.RecoveryLimit+1000)
	_, err := mask.Recover(c, p)
	require.Error(t, err)
}

func TestAddSubRoundtrip(t *testing.T) {
	c := curve.Secp256k1{}
	a := mask.Open(mask.Embed(c, 5))
	b := mask.Open(mask.Embed(c, 7))

	sum := a.Add(b)
	require.True(t, sum.Sub(b).Equal(a))
}

func TestIdentityIsOpenAndNeutral(t *testing.T) {
	c := curve.Secp256k1{}
	id := mask.Identity(c)
	require.True(t, id.IsOpen())

	m := mask.Open(mask.Embed(c, 3))
	require.True(t, m.Add(id).Equal(m))
}
