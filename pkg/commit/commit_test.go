package commit_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/stretchr/testify/require"
)

func TestCommitOpenRoundtrip(t *testing.T) {
	c := curve.Secp256k1{}
	scheme := commit.Random(curve.Rand, 3)

	m := []curve.Scalar{
		c.SampleScalar(curve.Rand),
		c.SampleScalar(curve.Rand),
		c.SampleScalar(curve.Rand),
	}

	commitment, blind := scheme.CommitTo(curve.Rand, m)
	require.NoError(t, scheme.Open(commitment, m, blind))
}

func TestOpenRejectsWrongMessage(t *testing.T) {
	c := curve.Secp256k1{}
	scheme := commit.Random(curve.Rand, 2)

	m := []curve.Scalar{c.SampleScalar(curve.Rand), c.SampleScalar(curve.Rand)}
	commitment, blind := scheme.CommitTo(curve.Rand, m)

	wrong := []curve.Scalar{c.SampleScalar(curve.Rand), m[1]}
	require.Error(t, scheme.Open(commitment, wrong, blind))
}

func TestNewRejectsDuplicateGenerators(t *testing.T) {
	c := curve.Secp256k1{}
	h := c.SampleScalar(curve.Rand).ActOnBase()
	g0 := c.SampleScalar(curve.Rand).ActOnBase()

	_, err := commit.New(h, []curve.Point{g0, g0})
	require.Error(t, err)
}

func TestFromReaderIsDeterministic(t *testing.T) {
	seed := []byte("fixed-seed-for-deterministic-commit-scheme-test-01234567890123456789")
	r1 := newFixedReader(seed)
	r2 := newFixedReader(seed)

	s1 := commit.FromReader(r1, 2)
	s2 := commit.FromReader(r2, 2)

	require.True(t, s1.SharedPoint().Equal(s2.SharedPoint()))
	for i := range s1.Points() {
		require.True(t, s1.Points()[i].Equal(s2.Points()[i]))
	}
}

type fixedReader struct {
	buf []byte
	pos int
}

func newFixedReader(seed []byte) *fixedReader {
	buf := make([]byte, 0, len(seed)*8)
	for len(buf) < 1<<16 {
		buf = append(buf, seed...)
	}
	return &fixedReader{buf: buf}
}

func (r *fixedReader) Read(p []byte) (int, error) {
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	if r.pos >= len(r.buf) {
		r.pos = 0
	}
	return n, nil
}
