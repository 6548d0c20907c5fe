// Package dlogeq implements the Chaum-Pedersen non-interactive proof of
// equality of discrete logarithms used to certify mask, remask and share
// correctness, grounded on the reference implementation's
// crypto/proofs/dlog_eq.rs.
package dlogeq

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/transcript"
)

// Proof attests that A = G^x and B = H^x for the same (secret) exponent x,
// without revealing x.
type Proof struct {
	C curve.Scalar
	R curve.Scalar
}

// Publics are the public points and bases the statement relates.
type Publics struct {
	A curve.Point
	B curve.Point
	G curve.Point
	H curve.Point
}

// Secrets is the witness: the shared discrete logarithm x.
type Secrets struct {
	X curve.Scalar
}

func commitPublics(t *transcript.Transcript, pub Publics) {
	t.Append("domain-sep", []byte("dlog_eq"))
	t.AppendPoint("a", pub.A)
	t.AppendPoint("b", pub.B)
	t.AppendPoint("g", pub.G)
	t.AppendPoint("h", pub.H)
}

// Create generates a proof that pub.A and pub.B share the discrete log x
// w.r.t. bases pub.G and pub.H respectively.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	commitPublics(t, pub)

	xb, err := sec.X.MarshalBinary()
	if err != nil {
		panic(err)
	}
	w := curve.Secp256k1{}.SampleScalar(t.NonceReader(xb))

	t1 := w.Act(pub.G)
	t2 := w.Act(pub.H)
	t.AppendPoint("t1", t1)
	t.AppendPoint("t2", t2)

	c := t.Challenge("c", curve.Secp256k1{})
	r := w.Sub(c.Mul(sec.X))

	return Proof{C: c, R: r}
}

// Verify checks a proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	commitPublics(t, pub)

	t1 := proof.C.Act(pub.A).Add(proof.R.Act(pub.G))
	t2 := proof.C.Act(pub.B).Add(proof.R.Act(pub.H))
	t.AppendPoint("t1", t1)
	t.AppendPoint("t2", t2)

	c := t.Challenge("c", curve.Secp256k1{})
	if !c.Equal(proof.C) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "dlogeq.Verify")
	}
	return nil
}
