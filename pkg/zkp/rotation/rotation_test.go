package rotation_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/rotation"
	"github.com/stretchr/testify/require"
)

func rotateMasks(e []mask.Mask, k int) []mask.Mask {
	n := len(e)
	out := make([]mask.Mask, n)
	for i := range out {
		out[i] = e[((i-k)%n+n)%n]
	}
	return out
}

func rotateScalars(r []curve.Scalar, k int) []curve.Scalar {
	n := len(r)
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = r[((i-k)%n+n)%n]
	}
	return out
}

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 8
	k := 3
	e0 := make([]mask.Mask, n)
	for i := range e0 {
		token := c.SampleScalar(curve.Rand)
		e0[i] = gh.Scale(c.SampleScalar(curve.Rand)).Add(mask.Open(token.ActOnBase()))
	}

	r := make([]curve.Scalar, n)
	e1raw := make([]mask.Mask, n)
	for i := range e1raw {
		r[i] = c.SampleScalar(curve.Rand)
		e1raw[i] = gh.Scale(r[i]).Add(e0[i])
	}
	e1 := rotateMasks(e1raw, k)
	rr := rotateScalars(r, k)

	pub := rotation.Publics{H: h, E0: e0, E1: e1}
	sec := rotation.Secrets{K: k, R: rr}

	proof := rotation.Create(transcript.New("test"), pub, sec)
	require.NoError(t, rotation.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	gh := mask.Mask{C1: c.Generator(), C2: h}

	n := 5
	k := 1
	e0 := make([]mask.Mask, n)
	for i := range e0 {
		token := c.SampleScalar(curve.Rand)
		e0[i] = gh.Scale(c.SampleScalar(curve.Rand)).Add(mask.Open(token.ActOnBase()))
	}

	r := make([]curve.Scalar, n)
	e1raw := make([]mask.Mask, n)
	for i := range e1raw {
		r[i] = c.SampleScalar(curve.Rand)
		e1raw[i] = gh.Scale(r[i]).Add(e0[i])
	}
	e1 := rotateMasks(e1raw, k)
	rr := rotateScalars(r, k)

	pub := rotation.Publics{H: h, E0: e0, E1: e1}
	sec := rotation.Secrets{K: k, R: rr}

	proof := rotation.Create(transcript.New("test"), pub, sec)
	proof.V = proof.V.Add(curve.ScalarFromUint64(c, 1))

	require.Error(t, rotation.Verify(transcript.New("test"), pub, proof))
}
