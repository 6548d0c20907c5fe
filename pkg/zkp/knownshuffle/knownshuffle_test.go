package knownshuffle_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownshuffle"
	"github.com/stretchr/testify/require"
)

func TestCreateVerifyAgree(t *testing.T) {
	c := curve.Secp256k1{}
	n := 8
	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = c.SampleScalar(curve.Rand)
	}
	pi := perm.Random(curve.Rand, n)

	mp := append([]curve.Scalar(nil), m...)
	perm.Apply(pi, mp)

	com := commit.Random(curve.Rand, n)
	cc, r := com.CommitTo(curve.Rand, mp)

	pub := knownshuffle.Publics{Com: com, C: cc, M: m}
	sec := knownshuffle.Secrets{Pi: pi, R: r}

	proof := knownshuffle.Create(transcript.New("test"), pub, sec)
	require.NoError(t, knownshuffle.Verify(transcript.New("test"), pub, proof))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	c := curve.Secp256k1{}
	n := 6
	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = c.SampleScalar(curve.Rand)
	}
	pi := perm.Random(curve.Rand, n)

	mp := append([]curve.Scalar(nil), m...)
	perm.Apply(pi, mp)

	com := commit.Random(curve.Rand, n)
	cc, r := com.CommitTo(curve.Rand, mp)

	pub := knownshuffle.Publics{Com: com, C: cc, M: m}
	sec := knownshuffle.Secrets{Pi: pi, R: r}

	proof := knownshuffle.Create(transcript.New("test"), pub, sec)
	proof.Z = proof.Z.Add(curve.ScalarFromUint64(c, 1))

	require.Error(t, knownshuffle.Verify(transcript.New("test"), pub, proof))
}
