package chain_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/chain"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/payload"
	"github.com/stretchr/testify/require"
)

func TestBuiltBlockHasValidSignature(t *testing.T) {
	sk := keys.Generate(curve.Rand)
	pk := sk.PublicKey()

	block, err := chain.NewBuilder().Build(curve.Rand, sk)
	require.NoError(t, err)

	valid, err := block.Verify(pk)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestBlockPayloadOrderIsPreserved(t *testing.T) {
	sk := keys.Generate(curve.Rand)

	builder := chain.NewBuilder()
	for i := byte(0); i < 4; i++ {
		builder.AddPayload(payload.NewBytes([]byte{i}))
	}
	block, err := builder.Build(curve.Rand, sk)
	require.NoError(t, err)

	for i, p := range block.Payloads {
		require.Equal(t, []byte{byte(i)}, p.Bytes)
	}
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	sk := keys.Generate(curve.Rand)
	other := keys.Generate(curve.Rand)

	block, err := chain.NewBuilder().Build(curve.Rand, sk)
	require.NoError(t, err)

	valid, err := block.Verify(other.PublicKey())
	require.NoError(t, err)
	require.False(t, valid)
}

func TestIdIsStableAcrossRebuilds(t *testing.T) {
	sk := keys.Generate(curve.Rand)

	b1, err := chain.NewBuilder().AddPayload(payload.NewText("hi")).Build(curve.Rand, sk)
	require.NoError(t, err)
	b2, err := chain.NewBuilder().AddPayload(payload.NewText("hi")).Build(curve.Rand, sk)
	require.NoError(t, err)

	id1, err := b1.Id()
	require.NoError(t, err)
	id2, err := b2.Id()
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}
