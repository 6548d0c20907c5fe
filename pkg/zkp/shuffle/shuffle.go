// Package shuffle implements the verifiable secret shuffle of homomorphic
// encryptions: proof that a stack's masks are a remasked permutation of
// another stack's masks, without revealing the permutation or the
// re-randomization factors. Wraps pkg/zkp/knownshuffle with the witnesses
// a real shuffle needs to stay hidden. Grounded on the reference
// implementation's crypto/proofs/secret_shuffle.rs (Groth 2005, ePrint
// 2005/246).
package shuffle

import (
	"encoding/binary"

	"github.com/pbmx-go/pbmx/pkg/commit"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownshuffle"
)

var group curve.Curve = curve.Secp256k1{}

// Proof is the non-interactive secret shuffle argument.
type Proof struct {
	Skc knownshuffle.Proof
	C   curve.Point
	Cd  curve.Point
	Ed  mask.Mask
	F   []curve.Scalar
	Z   curve.Scalar
}

// Publics are the public statement: the shared key H and the stacks before
// (E0) and after (E1) the shuffle.
type Publics struct {
	H  curve.Point
	E0 []mask.Mask
	E1 []mask.Mask
}

// Secrets is the witness: the permutation Pi applied, and the fresh
// re-randomization factor used on each resulting mask.
type Secrets struct {
	Pi perm.Permutation
	R  []curve.Scalar
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
	t.Append("domain-sep", []byte("secret_shuffle"))
	t.AppendPoint("h", pub.H)
	commitMasks(t, "e0", pub.E0)
	commitMasks(t, "e1", pub.E1)
}

func witnessBytes(pi perm.Permutation, r []curve.Scalar) []byte {
	buf := make([]byte, 0, len(pi)*8+len(r)*32)
	for _, p := range pi {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(p))
		buf = append(buf, b[:]...)
	}
	for _, s := range r {
		rb, err := s.MarshalBinary()
		if err != nil {
			panic(err)
		}
		buf = append(buf, rb...)
	}
	return buf
}

func indexScalar(i int) curve.Scalar {
	return curve.ScalarFromUint64(group, uint64(i+1))
}

func sumMasks(c curve.Curve, ms []mask.Mask) mask.Mask {
	acc := mask.Identity(c)
	for _, m := range ms {
		acc = acc.Add(m)
	}
	return acc
}

// Create generates a proof that pub.E1 is pub.E0 permuted by secrets.Pi and
// re-randomized by secrets.R.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	commitPublics(t, pub)

	n := len(pub.E0)
	com := commit.FromReader(t.Reader("com"), n)
	witness := witnessBytes(sec.Pi, sec.R)

	rng1 := t.NonceReader(witness)
	gh := mask.Mask{C1: group.Generator(), C2: pub.H}

	p2 := make([]curve.Scalar, n)
	for i, p := range sec.Pi {
		p2[i] = indexScalar(p)
	}
	c, rC := com.CommitTo(rng1, p2)
	t.AppendPoint("c", c)

	rng2 := t.NonceReader(witness)
	d := make([]curve.Scalar, n)
	for i := range d {
		d[i] = group.SampleScalar(rng2).Negate()
	}
	cd, rd := com.CommitTo(rng2, d)
	t.AppendPoint("cd", cd)

	ghrd := gh.Scale(rd)
	weighted := make([]mask.Mask, n)
	for i := range weighted {
		weighted[i] = pub.E1[i].Scale(d[i])
	}
	ed := ghrd.Add(sumMasks(group, weighted))
	commitMask(t, "ed", ed)

	tv := t.ChallengeVector("t", n, group)

	f := make([]curve.Scalar, n)
	for i, p := range sec.Pi {
		f[i] = tv[p].Sub(d[i])
	}
	t.AppendScalars("f", f)

	z := group.NewScalar()
	for i, p := range sec.Pi {
		z = z.Add(tv[p].Mul(sec.R[i]))
	}
	z = z.Add(rd)
	t.AppendScalar("z", z)

	l := t.Challenge("l", group)

	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = l.Mul(indexScalar(i)).Add(tv[i])
	}
	zero := group.NewScalar()
	commitPoint := l.Act(c).Add(cd).Add(com.CommitBy(f, zero))
	rho := l.Mul(rC).Add(rd)

	skc := knownshuffle.Create(t, knownshuffle.Publics{Com: com, C: commitPoint, M: m},
		knownshuffle.Secrets{Pi: sec.Pi, R: rho})

	return Proof{Skc: skc, C: c, Cd: cd, Ed: ed, F: f, Z: z}
}

// Verify checks proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	commitPublics(t, pub)

	n := len(pub.E0)
	com := commit.FromReader(t.Reader("com"), n)
	gh := mask.Mask{C1: group.Generator(), C2: pub.H}

	t.AppendPoint("c", proof.C)
	t.AppendPoint("cd", proof.Cd)
	commitMask(t, "ed", proof.Ed)

	tv := t.ChallengeVector("t", n, group)

	t.AppendScalars("f", proof.F)
	t.AppendScalar("z", proof.Z)

	l := t.Challenge("l", group)

	m := make([]curve.Scalar, n)
	for i := range m {
		m[i] = l.Mul(indexScalar(i)).Add(tv[i])
	}
	zero := group.NewScalar()
	commitPoint := l.Act(proof.C).Add(proof.Cd).Add(com.CommitBy(proof.F, zero))

	if err := knownshuffle.Verify(t, knownshuffle.Publics{Com: com, C: commitPoint, M: m}, proof.Skc); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "shuffle.Verify", err)
	}

	weighted := make([]mask.Mask, n)
	for i := range weighted {
		weighted[i] = pub.E1[i].Scale(proof.F[i])
	}
	efed := proof.Ed.Add(sumMasks(group, weighted))

	negT := make([]mask.Mask, n)
	for i := range negT {
		negT[i] = pub.E0[i].Scale(tv[i].Negate())
	}
	etfd := efed.Add(sumMasks(group, negT))

	ez := gh.Scale(proof.Z)

	if !etfd.Equal(ez) {
		return pbmxerr.New(pbmxerr.ProofInvalid, "shuffle.Verify")
	}
	return nil
}
