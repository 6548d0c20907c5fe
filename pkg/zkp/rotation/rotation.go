// Package rotation implements the verifiable rotation of homomorphic
// encryptions: proof that a stack's masks are a remasked cyclic shift of
// another stack's masks by a secret offset. Wraps
// pkg/zkp/knownrotation with the re-randomization witnesses a real shift
// needs to stay hidden. Grounded on the reference implementation's
// crypto/proofs/secret_rotation.rs (HSSV09, PKC LNCS 5443).
package rotation

import (
	"encoding/binary"
	"io"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownrotation"
)

var group curve.Curve = curve.Secp256k1{}

// Proof is the non-interactive secret rotation argument.
type Proof struct {
	Rkc knownrotation.Proof
	H   []curve.Point
	Z   []mask.Mask
	V   curve.Scalar
	F   []curve.Point
	Ff  []mask.Mask
	Tau []curve.Scalar
	Rho []curve.Scalar
	Mu  []curve.Scalar
}

// Publics are the public statement: the shared key H and the stacks before
// (E0) and after (E1) the shift.
type Publics struct {
	H  curve.Point
	E0 []mask.Mask
	E1 []mask.Mask
}

// Secrets is the witness: the rotation offset K and the re-randomization
// factors R used on each resulting mask.
type Secrets struct {
	K int
	R []curve.Scalar
}

func commitMask(t *transcript.Transcript, label string, m mask.Mask) {
	t.AppendPoint(label+".c1", m.C1)
	t.AppendPoint(label+".c2", m.C2)
}

func commitMasks(t *transcript.Transcript, label string, ms []mask.Mask) {
	for _, m := range ms {
		commitMask(t, label, m)
	}
}

func commitPublics(t *transcript.Transcript, pub Publics) {
	t.Append("domain-sep", []byte("secret_rotation"))
	t.AppendPoint("h", pub.H)
	commitMasks(t, "e0", pub.E0)
	commitMasks(t, "e1", pub.E1)
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

// rotate returns a shifted by k positions using the same index convention
// pkg/zkp/knownrotation's correlation sum is built on: out[i] = a[(i-k) mod n].
func rotate(a []curve.Scalar, k int) []curve.Scalar {
	n := len(a)
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = a[((i-k)%n+n)%n]
	}
	return out
}

func sumScalars(s []curve.Scalar) curve.Scalar {
	acc := group.NewScalar()
	for _, v := range s {
		acc = acc.Add(v)
	}
	return acc
}

func sumMasks(c curve.Curve, ms []mask.Mask) mask.Mask {
	acc := mask.Identity(c)
	for _, m := range ms {
		acc = acc.Add(m)
	}
	return acc
}

// Create generates a proof that pub.E1 is pub.E0 cyclically rotated by
// secrets.K and re-randomized by secrets.R.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	commitPublics(t, pub)

	com := commit.FromReader(t.Reader("com"), 1)
	n := len(pub.E0)
	gh := mask.Mask{C1: group.Generator(), C2: pub.H}

	a := t.ChallengeVector("a", n, group)
	witness := witnessBytes(sec.K, sec.R)

	rng1 := t.NonceReader(witness)
	u := sampleVector(rng1, n)
	tt := sampleVector(rng1, n)

	sa := rotate(a, sec.K)

	h := make([]curve.Point, n)
	for i := range h {
		h[i] = com.CommitBy([]curve.Scalar{sa[i]}, u[i])
	}
	t.AppendPoints("h", h)

	z := make([]mask.Mask, n)
	for i := range z {
		z[i] = pub.E1[i].Scale(sa[i]).Add(gh.Scale(tt[i]))
	}
	commitMasks(t, "z", z)

	v := group.NewScalar()
	for i := range sa {
		v = v.Add(sa[i].Mul(sec.R[i])).Add(tt[i])
	}
	t.AppendScalar("v", v)

	rng2 := t.NonceReader(witness)
	o := sampleVector(rng2, n)
	p := sampleVector(rng2, n)
	m := sampleVector(rng2, n)

	f := make([]curve.Point, n)
	for i := range f {
		f[i] = com.CommitBy([]curve.Scalar{o[i]}, p[i])
	}
	t.AppendPoints("f", f)

	ff := make([]mask.Mask, n)
	for i := range ff {
		ff[i] = pub.E1[i].Scale(o[i]).Add(gh.Scale(m[i]))
	}
	commitMasks(t, "ff", ff)

	l := t.Challenge("l", group)

	tau := make([]curve.Scalar, n)
	for i := range tau {
		tau[i] = o[i].Add(l.Mul(sa[i]))
	}
	t.AppendScalars("tau", tau)

	rho := make([]curve.Scalar, n)
	for i := range rho {
		rho[i] = p[i].Add(l.Mul(u[i]))
	}
	t.AppendScalars("rho", rho)

	mu := make([]curve.Scalar, n)
	for i := range mu {
		mu[i] = m[i].Add(l.Mul(tt[i]))
	}
	t.AppendScalars("mu", mu)

	rkc := knownrotation.Create(t, knownrotation.Publics{Com: com, M: a, C: h},
		knownrotation.Secrets{K: sec.K, R: u})

	return Proof{Rkc: rkc, H: h, Z: z, V: v, F: f, Ff: ff, Tau: tau, Rho: rho, Mu: mu}
}

// Verify checks proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	commitPublics(t, pub)

	com := commit.FromReader(t.Reader("com"), 1)
	n := len(pub.E0)
	gh := mask.Mask{C1: group.Generator(), C2: pub.H}

	a := t.ChallengeVector("a", n, group)

	t.AppendPoints("h", proof.H)
	commitMasks(t, "z", proof.Z)
	t.AppendScalar("v", proof.V)

	t.AppendPoints("f", proof.F)
	commitMasks(t, "ff", proof.Ff)

	l := t.Challenge("l", group)

	t.AppendScalars("tau", proof.Tau)
	t.AppendScalars("rho", proof.Rho)
	t.AppendScalars("mu", proof.Mu)

	if err := knownrotation.Verify(t, knownrotation.Publics{Com: com, M: a, C: proof.H}, proof.Rkc); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "rotation.Verify", err)
	}

	for i := 0; i < n; i++ {
		tr := com.CommitBy([]curve.Scalar{proof.Tau[i]}, proof.Rho[i])
		fhl := proof.F[i].Add(l.Act(proof.H[i]))
		if !tr.Equal(fhl) {
			return pbmxerr.New(pbmxerr.ProofInvalid, "rotation.Verify")
		}

		dtm := pub.E1[i].Scale(proof.Tau[i]).Add(gh.Scale(proof.Mu[i]))
		fzl := proof.Ff[i].Add(proof.Z[i].Scale(l))
		if !dtm.Equal(fzl) {
			return pbmxerr.New(pbmxerr.ProofInvalid, "rotation.Verify")
		}
	}

	weighted := make([]mask.Mask, n)
	for i := range weighted {
		weighted[i] = proof.Z[i].Sub(pub.E0[i].Scale(a[i]))
	}
	pzea := sumMasks(group, weighted)
	ghv := gh.Scale(proof.V)
	if !pzea.Equal(ghv) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "rotation.Verify")
	}
	return nil
}
