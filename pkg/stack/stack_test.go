package stack_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/stack"
	"github.com/stretchr/testify/require"
)

func sampleMask(c curve.Curve) mask.Mask {
	return mask.Mask{C1: c.SampleScalar(curve.Rand).ActOnBase(), C2: c.SampleScalar(curve.Rand).ActOnBase()}
}

func TestIdIsStableAcrossEqualContent(t *testing.T) {
	c := curve.Secp256k1{}
	s := stack.Stack{sampleMask(c), sampleMask(c), sampleMask(c)}
	clone := s.Clone()

	id1, err := s.Id()
	require.NoError(t, err)
	id2, err := clone.Id()
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.True(t, s.Equal(clone))
}

func TestIdDiffersOnReorder(t *testing.T) {
	c := curve.Secp256k1{}
	a := sampleMask(c)
	b := sampleMask(c)
	s1 := stack.Stack{a, b}
	s2 := stack.Stack{b, a}

	id1, err := s1.Id()
	require.NoError(t, err)
	id2, err := s2.Id()
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
	require.False(t, s1.Equal(s2))
}
