package dlogeq_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/dlogeq"
	"github.com/stretchr/testify/require"
)

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	g := c.SampleScalar(curve.Rand).ActOnBase()
	h := c.SampleScalar(curve.Rand).ActOnBase()
	x := c.SampleScalar(curve.Rand)

	pub := dlogeq.Publics{A: x.Act(g), B: x.Act(h), G: g, H: h}
	sec := dlogeq.Secrets{X: x}

	proof := dlogeq.Create(transcript.New("test"), pub, sec)
	require.NoError(t, dlogeq.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsWrongWitness(t *testing.T) {
	c := curve.Secp256k1{}
	g := c.SampleScalar(curve.Rand).ActOnBase()
	h := c.SampleScalar(curve.Rand).ActOnBase()
	x := c.SampleScalar(curve.Rand)
	wrong := c.SampleScalar(curve.Rand)

	pub := dlogeq.Publics{A: x.Act(g), B: x.Act(h), G: g, H: h}
	proof := dlogeq.Create(transcript.New("test"), pub, dlogeq.Secrets{X: wrong})

	require.Error(t, dlogeq.Verify(transcript.New("test"), pub, proof))
}
