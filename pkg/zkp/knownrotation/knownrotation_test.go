package knownrotation_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownrotation"
	"github.com/stretchr/testify/require"
)

func rotated(m []curve.Scalar, k int) []curve.Scalar {
	n := len(m)
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = m[((i-k)%n+n)%n]
	}
	return out
}

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	n := 8
	k := 3

	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = c.SampleScalar(curve.Rand)
	}
	mp := rotated(m, k)

	com := commit.Random(curve.Rand, 1)
	cs := make([]curve.Point, n)
	rs := make([]curve.Scalar, n)
	for i := range mp {
		cs[i], rs[i] = com.CommitTo(curve.Rand, []curve.Scalar{mp[i]})
	}

	pub := knownrotation.Publics{Com: com, M: m, C: cs}
	sec := knownrotation.Secrets{K: k, R: rs}

	proof := knownrotation.Create(transcript.New("test"), pub, sec)
	require.NoError(t, knownrotation.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	c := curve.Secp256k1{}
	n := 6
	k := 2

	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = c.SampleScalar(curve.Rand)
	}
	mp := rotated(m, k)

	com := commit.Random(curve.Rand, 1)
	cs := make([]curve.Point, n)
	rs := make([]curve.Scalar, n)
	for i := range mp {
		cs[i], rs[i] = com.CommitTo(curve.Rand, []curve.Scalar{mp[i]})
	}

	pub := knownrotation.Publics{Com: com, M: m, C: cs}
	sec := knownrotation.Secrets{K: k, R: rs}

	proof := knownrotation.Create(transcript.New("test"), pub, sec)
	proof.T[0] = proof.T[0].Add(curve.ScalarFromUint64(c, 1))

	require.Error(t, knownrotation.Verify(transcript.New("test"), pub, proof))
}
