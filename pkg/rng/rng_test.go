package rng_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/rng"
	"github.com/stretchr/testify/require"
)

func TestSpecParsing(t *testing.T) {
	for _, spec := range []string{"1d6", "2d8+3", "3d4-1d4", "7"} {
		r, err := rng.New(curve.Secp256k1{}, 1, spec)
		require.NoError(t, err, spec)
		require.Equal(t, spec, r.Spec())
	}
}

func TestSpecRejectsGarbage(t *testing.T) {
	_, err := rng.New(curve.Secp256k1{}, 1, "d6")
	require.Error(t, err)
	_, err = rng.New(curve.Secp256k1{}, 1, "1d0")
	require.Error(t, err)
	_, err = rng.New(curve.Secp256k1{}, 1, "1d6 extra")
	require.Error(t, err)
}

type fakeUnmasker struct {
	stream []byte
}

func (f fakeUnmasker) UnmaskRandom(mask.Mask) (io.Reader, error) {
	return bytes.NewReader(f.stream), nil
}

func TestGenStaysWithinDieRange(t *testing.T) {
	c := curve.Secp256k1{}
	r, err := rng.New(c, 2, "1d6")
	require.NoError(t, err)

	p1 := id.Of("p1", nil)
	p2 := id.Of("p2", nil)
	r.AddEntropy(p1, mask.Identity(c))
	r.AddEntropy(p2, mask.Identity(c))
	r.AddSecret(p1, c.NewPoint())
	r.AddSecret(p2, c.NewPoint())
	require.True(t, r.IsGenerated())
	require.True(t, r.IsRevealed())

	stream := make([]byte, 1024)
	for seed := 0; seed < 32; seed++ {
		for i := range stream {
			stream[i] = byte(seed*7 + i)
		}
		v, err := r.Gen(fakeUnmasker{stream: stream})
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, uint64(1))
		require.LessOrEqual(t, v, uint64(6))
	}
}

func TestGenFailsBeforeComplete(t *testing.T) {
	c := curve.Secp256k1{}
	r, err := rng.New(c, 2, "1d6")
	require.NoError(t, err)
	_, err = r.Gen(fakeUnmasker{stream: make([]byte, 64)})
	require.Error(t, err)
}

func TestGenDeterministicOnSameStream(t *testing.T) {
	c := curve.Secp256k1{}
	mk := func() *rng.Rng {
		r, err := rng.New(c, 1, "2d6+1")
		require.NoError(t, err)
		p := id.Of("p", nil)
		r.AddEntropy(p, mask.Identity(c))
		r.AddSecret(p, c.NewPoint())
		return r
	}

	stream := make([]byte, 1024)
	binary.LittleEndian.PutUint64(stream, 0x1234)

	r1 := mk()
	r2 := mk()
	v1, err := r1.Gen(fakeUnmasker{stream: append([]byte(nil), stream...)})
	require.NoError(t, err)
	v2, err := r2.Gen(fakeUnmasker{stream: append([]byte(nil), stream...)})
	require.NoError(t, err)
	require.Equal(t, v1, v2)
}
