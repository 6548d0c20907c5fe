package perm_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/stretchr/testify/require"
)

func TestShiftMatchesExpectedOrder(t *testing.T) {
	p := perm.Shift(10, 3)
	s := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	perm.Apply(p, s)
	require.Equal(t, []int{4, 5, 6, 7, 8, 9, 10, 1, 2, 3}, s)
}

func TestInverseUndoesPermutation(t *testing.T) {
	p := perm.Random(curve.Rand, 10)
	s := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	orig := append([]int(nil), s...)

	perm.Apply(p, s)
	perm.Apply(p.Inverse(), s)

	require.Equal(t, orig, s)
}

func TestRandomProducesValidPermutation(t *testing.T) {
	p := perm.Random(curve.Rand, 20)
	require.True(t, p.Valid())
}
