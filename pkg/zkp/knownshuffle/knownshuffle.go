// Package knownshuffle implements Groth's "shuffle of known content"
// argument: proof that a committed vector is some secret permutation of a
// public vector, without revealing the permutation. Grounded on the
// reference implementation's crypto/proofs/known_shuffle.rs, itself citing
// Groth 2005 (ePrint 2005/246).
package knownshuffle

import (
	"encoding/binary"
	"io"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
)

var group curve.Curve = curve.Secp256k1{}

// Proof is the non-interactive shuffle-of-known-content argument.
type Proof struct {
	Cd  curve.Point
	Cdd curve.Point
	Cda curve.Point
	F   []curve.Scalar
	Z   curve.Scalar
	Fd  []curve.Scalar
	Zd  curve.Scalar
}

// Publics are the public statement: a commitment scheme, a commitment c to
// the (secretly permuted) domain, and the domain m itself.
type Publics struct {
	Com commit.Pedersen
	C   curve.Point
	M   []curve.Scalar
}

// Secrets is the witness: the permutation pi and the blinding r used when
// committing to pi applied to m.
type Secrets struct {
	Pi perm.Permutation
	R  curve.Scalar
}

func commitPublics(t *transcript.Transcript, pub Publics) {
	t.Append("domain-sep", []byte("known_shuffle"))
	t.AppendPoints("com.g", pub.Com.Points())
	t.AppendPoint("com.h", pub.Com.SharedPoint())
	t.AppendPoint("c", pub.C)
	t.AppendScalars("m", pub.M)
}

func witnessBytes(pi perm.Permutation, r curve.Scalar) []byte {
	buf := make([]byte, 0, len(pi)*8+32)
	for _, p := range pi {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(p))
		buf = append(buf, b[:]...)
	}
	rb, err := r.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return append(buf, rb...)
}

func sampleVector(r io.Reader, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = group.SampleScalar(r)
	}
	return out
}

// Create generates a proof that pub.C commits to secrets.Pi applied to
// pub.M under blinding secrets.R.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	commitPublics(t, pub)

	n := len(pub.M)
	witness := witnessBytes(sec.Pi, sec.R)

	rng1 := t.NonceReader(witness)
	d := sampleVector(rng1, n)

	delta := make([]curve.Scalar, n)
	delta[0] = d[0]
	for i := 1; i < n-1; i++ {
		delta[i] = group.SampleScalar(rng1)
	}
	delta[n-1] = group.NewScalar()

	x := t.Challenge("x", group)

	a := make([]curve.Scalar, n)
	prod := curve.ScalarFromUint64(group, 1)
	for k := 0; k < n; k++ {
		prod = prod.Mul(pub.M[sec.Pi[k]].Sub(x))
		a[k] = prod
	}

	rng2 := t.NonceReader(witness)
	cd, rd := pub.Com.CommitTo(rng2, d)
	t.AppendPoint("cd", cd)

	dd := make([]curve.Scalar, n)
	for i := 0; i < n-1; i++ {
		dd[i] = delta[i].Negate().Mul(d[i+1])
	}
	dd[n-1] = group.NewScalar()

	rng3 := t.NonceReader(witness)
	cdd, rdd := pub.Com.CommitTo(rng3, dd)
	t.AppendPoint("cdd", cdd)

	da := make([]curve.Scalar, n)
	for i := 1; i < n; i++ {
		term := pub.M[sec.Pi[i]].Sub(x).Mul(delta[i-1])
		da[i-1] = delta[i].Sub(term).Sub(a[i-1].Mul(d[i]))
	}
	da[n-1] = group.NewScalar()

	rng4 := t.NonceReader(witness)
	cda, rda := pub.Com.CommitTo(rng4, da)
	t.AppendPoint("cda", cda)

	e := t.Challenge("e", group)

	f := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		f[i] = e.Mul(pub.M[sec.Pi[i]]).Add(d[i])
	}
	z := e.Mul(sec.R).Add(rd)

	fd := make([]curve.Scalar, n)
	for i := 1; i < n; i++ {
		term := pub.M[sec.Pi[i]].Sub(x).Mul(delta[i-1])
		inner := delta[i].Sub(term).Sub(a[i-1].Mul(d[i]))
		fd[i-1] = e.Mul(inner).Sub(delta[i-1].Mul(d[i]))
	}
	fd[n-1] = group.NewScalar()
	zd := e.Mul(rda).Add(rdd)

	return Proof{Cd: cd, Cdd: cdd, Cda: cda, F: f, Z: z, Fd: fd, Zd: zd}
}

// Verify checks proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	commitPublics(t, pub)

	n := len(pub.M)
	x := t.Challenge("x", group)

	t.AppendPoint("cd", proof.Cd)
	t.AppendPoint("cdd", proof.Cdd)
	t.AppendPoint("cda", proof.Cda)

	e := t.Challenge("e", group)

	cecd := e.Act(pub.C).Add(proof.Cd)
	if err := pub.Com.Open(cecd, proof.F, proof.Z); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "knownshuffle.Verify", err)
	}
	ceca := e.Act(proof.Cda).Add(proof.Cdd)
	if err := pub.Com.Open(ceca, proof.Fd, proof.Zd); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "knownshuffle.Verify", err)
	}

	ex := e.Mul(x)
	ff := proof.F[0].Sub(ex)
	eInv := e.Invert()
	for i := 1; i < n; i++ {
		ff = ff.Mul(proof.F[i].Sub(ex)).Add(proof.Fd[i-1]).Mul(eInv)
	}

	prod := curve.ScalarFromUint64(group, 1)
	for _, m := range pub.M {
		prod = prod.Mul(m.Sub(x))
	}

	if !ff.Equal(e.Mul(prod)) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "knownshuffle.Verify")
	}
	return nil
}
