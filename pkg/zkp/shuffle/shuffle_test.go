package shuffle_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/shuffle"
	"github.com/stretchr/testify/require"
)

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 8
	e0 := make([]mask.Mask, n)
	for i := range e0 {
		token := c.SampleScalar(curve.Rand)
		e0[i] = gh.Scale(c.SampleScalar(curve.Rand)).Add(mask.Open(token.ActOnBase()))
	}

	pi := perm.Random(curve.Rand, n)
	r := make([]curve.Scalar, n)
	e1 := make([]mask.Mask, n)
	for i := range e1 {
		r[i] = c.SampleScalar(curve.Rand)
		e1[i] = gh.Scale(r[i]).Add(e0[i])
	}
	perm.Apply(pi, e1)
	perm.Apply(pi, r)

	pub := shuffle.Publics{H: h, E0: e0, E1: e1}
	sec := shuffle.Secrets{Pi: pi, R: r}

	proof := shuffle.Create(transcript.New("test"), pub, sec)
	require.NoError(t, shuffle.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 5
	e0 := make([]mask.Mask, n)
	for i := range e0 {
		token := c.SampleScalar(curve.Rand)
		e0[i] = gh.Scale(c.SampleScalar(curve.Rand)).Add(mask.Open(token.ActOnBase()))
	}

	pi := perm.Random(curve.Rand, n)
	r := make([]curve.Scalar, n)
	e1 := make([]mask.Mask, n)
	for i := range e1 {
		r[i] = c.SampleScalar(curve.Rand)
		e1[i] = gh.Scale(r[i]).Add(e0[i])
	}
	perm.Apply(pi, e1)
	perm.Apply(pi, r)

	pub := shuffle.Publics{H: h, E0: e0, E1: e1}
	sec := shuffle.Secrets{Pi: pi, R: r}

	proof := shuffle.Create(transcript.New("test"), pub, sec)
	proof.Z = proof.Z.Add(curve.ScalarFromUint64(c, 1))

	require.Error(t, shuffle.Verify(transcript.New("test"), pub, proof))
}
