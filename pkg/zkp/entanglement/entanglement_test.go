package entanglement_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/entanglement"
	"github.com/stretchr/testify/require"
)

func buildStack(c curve.Curve, gh mask.Mask, n int) []mask.Mask {
	out := make([]mask.Mask, n)
	for i := range out {
		token := c.SampleScalar(curve.Rand)
		out[i] = gh.Scale(c.SampleScalar(curve.Rand)).Add(mask.Open(token.ActOnBase()))
	}
	return out
}

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 6
	stacks := 3
	e0 := make([][]mask.Mask, stacks)
	for i := range e0 {
		e0[i] = buildStack(c, gh, n)
	}

	pi := perm.Random(curve.Rand, n)
	e1 := make([][]mask.Mask, stacks)
	r := make([][]curve.Scalar, stacks)
	for i := range e0 {
		ri := make([]curve.Scalar, n)
		e1i := make([]mask.Mask, n)
		for j := range e1i {
			ri[j] = c.SampleScalar(curve.Rand)
			e1i[j] = gh.Scale(ri[j]).Add(e0[i][j])
		}
		perm.Apply(pi, e1i)
		perm.Apply(pi, ri)
		e1[i] = e1i
		r[i] = ri
	}

	pub := entanglement.Publics{H: h, E0: e0, E1: e1}
	sec := entanglement.Secrets{Pi: pi, R: r}

	proof := entanglement.Create(transcript.New("test"), pub, sec)
	require.NoError(t, entanglement.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsMismatchedTangles(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 4
	stacks := 3
	e0 := make([][]mask.Mask, stacks)
	for i := range e0 {
		e0[i] = buildStack(c, gh, n)
	}

	pi := perm.Random(curve.Rand, n)
	e1 := make([][]mask.Mask, stacks)
	r := make([][]curve.Scalar, stacks)
	for i := range e0 {
		ri := make([]curve.Scalar, n)
		e1i := make([]mask.Mask, n)
		for j := range e1i {
			ri[j] = c.SampleScalar(curve.Rand)
			e1i[j] = gh.Scale(ri[j]).Add(e0[i][j])
		}
		perm.Apply(pi, e1i)
		perm.Apply(pi, ri)
		e1[i] = e1i
		r[i] = ri
	}

	pub := entanglement.Publics{H: h, E0: e0, E1: e1}
	sec := entanglement.Secrets{Pi: pi, R: r}

	proof := entanglement.Create(transcript.New("test"), pub, sec)
	proof.Tangles[0] = proof.Tangles[1]

	require.Error(t, entanglement.Verify(transcript.New("test"), pub, proof))
}
