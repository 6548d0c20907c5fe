// Package commit implements the Pedersen vector commitment scheme the
// shuffle and rotation proofs use to bind a secret permutation without
// revealing it, grounded on the reference implementation's crypto/commit.rs.
package commit

import (
	"io"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
)

// Pedersen is a vector commitment scheme over n independent generators g
// plus a shared blinding generator h.
type Pedersen struct {
	h curve.Point
	g []curve.Point
}

// New builds a commitment scheme from explicit generators, rejecting any
// duplicate among g (a Pedersen scheme with a repeated generator lets a
// committer open to two different messages).
func New(h curve.Point, g []curve.Point) (Pedersen, error) {
	scheme := Pedersen{h: h, g: append([]curve.Point(nil), g...)}
	if !scheme.validate() {
		return Pedersen{}, pbmxerr.New(pbmxerr.ProofInvalid, "commit.New")
	}
	return scheme, nil
}

// Random draws a fresh commitment scheme with n independently sampled
// generators, retrying on the vanishing-probability event of a collision.
func Random(r io.Reader, n int) Pedersen {
	return draw(r, n)
}

// FromReader derives a commitment scheme deterministically from r, the way
// the secret shuffle proof derives a fresh, per-proof Pedersen scheme from
// both prover's and verifier's transcript challenge stream so that neither
// side needs to transmit generators explicitly.
func FromReader(r io.Reader, n int) Pedersen {
	return draw(r, n)
}

func draw(r io.Reader, n int) Pedersen {
	for {
		h := curve.Secp256k1{}.SampleScalar(r).ActOnBase()
		g := make([]curve.Point, n)
		for i := range g {
			g[i] = curve.Secp256k1{}.SampleScalar(r).ActOnBase()
		}
		scheme := Pedersen{h: h, g: g}
		if scheme.validate() {
			return scheme
		}
	}
}

// SharedPoint returns the scheme's blinding generator h.
func (p Pedersen) SharedPoint() curve.Point { return p.h }

// Points returns the scheme's per-slot generators g.
func (p Pedersen) Points() []curve.Point { return p.g }

// CommitTo commits to m under a freshly sampled blinding scalar, returning
// the commitment and the randomizer the caller must retain to open it.
func (p Pedersen) CommitTo(r io.Reader, m []curve.Scalar) (curve.Point, curve.Scalar) {
	if len(m) != len(p.g) {
		panic("commit: message length mismatch")
	}
	blind := curve.Secp256k1{}.SampleScalar(r)
	return p.CommitBy(m, blind), blind
}

// CommitBy commits to m under an explicit blinding scalar.
func (p Pedersen) CommitBy(m []curve.Scalar, blind curve.Scalar) curve.Point {
	if len(m) != len(p.g) {
		panic("commit: message length mismatch")
	}
	gm := p.g[0].Curve().NewPoint()
	for i, mi := range m {
		gm = gm.Add(mi.Act(p.g[i]))
	}
	return gm.Add(blind.Act(p.h))
}

// Open verifies that c is a commitment to m under the given blinding
// scalar.
func (p Pedersen) Open(c curve.Point, m []curve.Scalar, blind curve.Scalar) error {
	if len(m) != len(p.g) {
		panic("commit: message length mismatch")
	}
	if !c.Equal(p.CommitBy(m, blind)) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "commit.Open")
	}
	return nil
}

func (p Pedersen) validate() bool {
	for i := range p.g {
		for j := 0; j < i; j++ {
			if p.g[i].Equal(p.g[j]) {
				return false
			}
		}
	}
	return true
}
