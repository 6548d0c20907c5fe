// Package knownrotation implements the HSSV09 "rotation of known content"
// argument: proof that a committed sequence is a public sequence cyclically
// rotated by a secret offset. Grounded on the reference implementation's
// crypto/proofs/known_rotation.rs (de Hoogh, Schoenmakers, Skoric, Villegas
// 2009, PKC LNCS 5443).
package knownrotation

import (
	"encoding/binary"
	"io"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/transcript"
)

var group curve.Curve = curve.Secp256k1{}

// Proof is the non-interactive rotation-of-known-content argument.
type Proof struct {
	F []curve.Point
	L []curve.Scalar
	T []curve.Scalar
}

// Publics are the public statement: a single-slot commitment scheme, the
// public source sequence M, and per-position commitments C to M rotated by
// the secret offset.
type Publics struct {
	Com commit.Pedersen
	M   []curve.Scalar
	C   []curve.Point
}

// Secrets is the witness: the rotation offset K and the blinding factors R
// used for each commitment in C.
type Secrets struct {
	K int
	R []curve.Scalar
}

func commitPublics(t *transcript.Transcript, pub Publics) {
	t.Append("domain-sep", []byte("known_rotation"))
	t.AppendPoints("com.g", pub.Com.Points())
	t.AppendPoint("com.h", pub.Com.SharedPoint())
	t.AppendScalars("m", pub.M)
	t.AppendPoints("c", pub.C)
}

func witnessBytes(k int, r []curve.Scalar) []byte {
	buf := make([]byte, 8, 8+len(r)*32)
	binary.BigEndian.PutUint64(buf, uint64(k))
	for _, s := range r {
		rb, err := s.MarshalBinary()
		if err != nil {
			panic(err)
		}
		buf = append(buf, rb...)
	}
	return buf
}

func sampleVector(r io.Reader, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = group.SampleScalar(r)
	}
	return out
}

func correlation(m []curve.Scalar, b []curve.Scalar) []curve.Scalar {
	n := len(m)
	y := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		acc := group.NewScalar()
		for j := 0; j < n; j++ {
			acc = acc.Add(m[(n+j-i)%n].Mul(b[j]))
		}
		y[i] = acc
	}
	return y
}

func weightedPoints(c []curve.Point, b []curve.Scalar) curve.Point {
	acc := c[0].Curve().NewPoint()
	for i, p := range c {
		acc = acc.Add(b[i].Act(p))
	}
	return acc
}

func sumScalars(s []curve.Scalar) curve.Scalar {
	acc := group.NewScalar()
	for _, v := range s {
		acc = acc.Add(v)
	}
	return acc
}

// Create generates a proof that pub.C commits to pub.M cyclically rotated
// by secrets.K, under blinding secrets.R.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	commitPublics(t, pub)

	n := len(pub.M)
	rng := t.NonceReader(witnessBytes(sec.K, sec.R))

	u := group.SampleScalar(rng)
	l := sampleVector(rng, n)
	l[sec.K] = group.NewScalar()
	tt := sampleVector(rng, n)
	tt[sec.K] = group.NewScalar()

	b := t.ChallengeVector("b", n, group)
	y := correlation(pub.M, b)
	g := weightedPoints(pub.C, b)

	zero := group.NewScalar()
	comU := pub.Com.CommitBy([]curve.Scalar{zero}, u)

	f := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		if i == sec.K {
			f[i] = comU
			continue
		}
		comI := pub.Com.CommitBy([]curve.Scalar{l[i].Mul(y[i])}, tt[i])
		f[i] = comI.Add(l[i].Negate().Act(g))
	}
	t.AppendPoints("f", f)

	lambda := t.Challenge("lambda", group)
	l[sec.K] = lambda.Sub(sumScalars(l))

	br := group.NewScalar()
	for i := range b {
		br = br.Add(b[i].Mul(sec.R[i]))
	}
	tt[sec.K] = u.Add(l[sec.K].Mul(br))

	return Proof{F: f, L: l, T: tt}
}

// Verify checks proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	commitPublics(t, pub)

	n := len(pub.M)
	b := t.ChallengeVector("b", n, group)
	y := correlation(pub.M, b)
	g := weightedPoints(pub.C, b)

	t.AppendPoints("f", proof.F)

	lambda := t.Challenge("lambda", group)

	zero := group.NewScalar()
	for i := 0; i < n; i++ {
		gy := pub.Com.CommitBy([]curve.Scalar{y[i]}, zero)
		fgl := proof.F[i].Add(proof.L[i].Act(g.Sub(gy)))
		ht := pub.Com.CommitBy([]curve.Scalar{zero}, proof.T[i])
		if !ht.Equal(fgl) {
			return pbmxerr.New(pbmxerr.ProofInvalid, "knownrotation.Verify")
		}
	}

	if !lambda.Equal(sumScalars(proof.L)) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "knownrotation.Verify")
	}
	return nil
}
