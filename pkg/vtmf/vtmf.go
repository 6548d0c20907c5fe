// Package vtmf implements Barnett and Smart's verifiable k-out-of-k
// threshold masking function: the protocol tying together mask, remask,
// share, shuffle, shift and insertion proofs under one running shared key.
// Grounded on the reference implementation's vtmf/mod.rs.
package vtmf

import (
	"io"
	"sort"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/dlogeq"
	"github.com/pbmx-go/pbmx/pkg/zkp/entanglement"
	"github.com/pbmx-go/pbmx/pkg/zkp/insertion"
	"github.com/pbmx-go/pbmx/pkg/zkp/rotation"
	"github.com/pbmx-go/pbmx/pkg/zkp/shuffle"
	"golang.org/x/crypto/blake2b"
)

var group curve.Curve = curve.Secp256k1{}

// MaskProof certifies a mask or remask operation.
type MaskProof = dlogeq.Proof

// ShareProof certifies a secret share of an unmask operation.
type ShareProof = dlogeq.Proof

// ShuffleProof certifies a mask_shuffle operation.
type ShuffleProof = shuffle.Proof

// ShiftProof certifies a mask_shift operation.
type ShiftProof = rotation.Proof

// EntanglementProof certifies that several parallel shuffles used the same
// permutation.
type EntanglementProof = entanglement.Proof

// InsertionProof certifies a mask_insert operation.
type InsertionProof = insertion.Proof

// Vtmf is a verifiable k-out-of-k threshold masking function: a running
// shared public key H accumulated from every party's contribution, plus
// this party's own key pair.
type Vtmf struct {
	sk  keys.PrivateKey
	pk  keys.PublicKey
	pki map[id.ID]keys.PublicKey
}

// New creates a Vtmf seeded with sk as its only party.
func New(sk keys.PrivateKey) *Vtmf {
	pk := sk.PublicKey()
	return &Vtmf{
		sk:  sk,
		pk:  pk,
		pki: map[id.ID]keys.PublicKey{pk.Fingerprint(): pk},
	}
}

// PrivateKey returns this party's private key.
func (v *Vtmf) PrivateKey() keys.PrivateKey { return v.sk }

// PublicKey returns this party's own public key.
func (v *Vtmf) PublicKey() keys.PublicKey { return v.sk.PublicKey() }

// SharedKey returns the running shared public key H, the sum of every
// added party's public key.
func (v *Vtmf) SharedKey() keys.PublicKey { return v.pk }

// Parties returns the number of distinct public keys folded into the
// shared key so far.
func (v *Vtmf) Parties() int { return len(v.pki) }

// Fingerprints returns every party's fingerprint, sorted ascending.
func (v *Vtmf) Fingerprints() []id.ID {
	out := make([]id.ID, 0, len(v.pki))
	for fp := range v.pki {
		out = append(out, fp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// PublicKeys returns every party's public key, ordered by fingerprint.
func (v *Vtmf) PublicKeys() []keys.PublicKey {
	fps := v.Fingerprints()
	out := make([]keys.PublicKey, len(fps))
	for i, fp := range fps {
		out[i] = v.pki[fp]
	}
	return out
}

// Clone returns a deep copy of v, letting a caller stage speculative
// AddKey calls (e.g. while validating a block's payloads) and discard them
// on failure without disturbing the original.
func (v *Vtmf) Clone() *Vtmf {
	pki := make(map[id.ID]keys.PublicKey, len(v.pki))
	for fp, pk := range v.pki {
		pki[fp] = pk
	}
	return &Vtmf{sk: v.sk, pk: v.pk, pki: pki}
}

// AddKey folds another party's public key into the shared key. Adding the
// same fingerprint twice is a no-op.
func (v *Vtmf) AddKey(pk keys.PublicKey) {
	fp := pk.Fingerprint()
	if _, ok := v.pki[fp]; ok {
		return
	}
	v.pk = v.pk.Combine(pk)
	v.pki[fp] = pk
}

// Mask applies the verifiable masking protocol to plaintext token m,
// producing an encryption under the shared key and a proof it was formed
// correctly.
func (v *Vtmf) Mask(r io.Reader, m curve.Scalar) (mask.Mask, MaskProof) {
	h := v.pk.Point()
	rnd := group.SampleScalar(r)
	c0 := rnd.ActOnBase()
	hr := rnd.Act(h)
	c1 := hr.Add(m.ActOnBase())

	proof := dlogeq.Create(transcript.New("mask"), dlogeq.Publics{
		A: c0, B: hr, G: group.Generator(), H: h,
	}, dlogeq.Secrets{X: rnd})

	return mask.Mask{C1: c0, C2: c1}, proof
}

// VerifyMask checks that c is a masking of m under the shared key.
func (v *Vtmf) VerifyMask(m curve.Scalar, c mask.Mask, proof MaskProof) error {
	return dlogeq.Verify(transcript.New("mask"), dlogeq.Publics{
		A: c.C1, B: c.C2.Sub(m.ActOnBase()), G: group.Generator(), H: v.pk.Point(),
	}, proof)
}

// Remask re-randomizes c without changing the plaintext it hides.
func (v *Vtmf) Remask(r io.Reader, c mask.Mask) (mask.Mask, MaskProof) {
	h := v.pk.Point()
	rnd := group.SampleScalar(r)
	gr := rnd.ActOnBase()
	hr := rnd.Act(h)

	proof := dlogeq.Create(transcript.New("remask"), dlogeq.Publics{
		A: gr, B: hr, G: group.Generator(), H: h,
	}, dlogeq.Secrets{X: rnd})

	return mask.Mask{C1: gr.Add(c.C1), C2: hr.Add(c.C2)}, proof
}

// VerifyRemask checks that c is a re-randomization of m under the shared
// key.
func (v *Vtmf) VerifyRemask(m, c mask.Mask, proof MaskProof) error {
	h := v.pk.Point()
	gr := c.C1.Sub(m.C1)
	hr := c.C2.Sub(m.C2)
	return dlogeq.Verify(transcript.New("remask"), dlogeq.Publics{
		A: gr, B: hr, G: group.Generator(), H: h,
	}, proof)
}

// UnmaskShare computes this party's secret share of undoing c's masking,
// along with a proof it was computed honestly with this party's key.
func (v *Vtmf) UnmaskShare(c mask.Mask) (curve.Point, ShareProof) {
	x := v.sk.Exponent()
	d := x.Act(c.C1)

	proof := dlogeq.Create(transcript.New("mask_share"), dlogeq.Publics{
		A: d, B: x.ActOnBase(), G: c.C1, H: group.Generator(),
	}, dlogeq.Secrets{X: x})

	return d, proof
}

// VerifyUnmask checks a secret share d of c against the public key
// identified by fp.
func (v *Vtmf) VerifyUnmask(c mask.Mask, fp id.ID, d curve.Point, proof ShareProof) error {
	pk, ok := v.pki[fp]
	if !ok {
		return pbmxerr.New(pbmxerr.ChainIntegrity, "vtmf.VerifyUnmask")
	}
	return dlogeq.Verify(transcript.New("mask_share"), dlogeq.Publics{
		A: d, B: pk.Point(), G: c.C1, H: group.Generator(),
	}, proof)
}

// Unmask removes one party's secret share d from c.
func (v *Vtmf) Unmask(c mask.Mask, d curve.Point) mask.Mask {
	return mask.Mask{C1: c.C1, C2: c.C2.Sub(d)}
}

// UnmaskPrivate removes this party's own share from c without needing a
// proof round-trip, used once every other party's share has already been
// applied.
func (v *Vtmf) UnmaskPrivate(c mask.Mask) mask.Mask {
	d, _ := v.UnmaskShare(c)
	return v.Unmask(c, d)
}

// UnmaskOpen recovers the plaintext token from c.C2 once every party's
// share has been subtracted from it. Unmask leaves c.C1 unchanged, so C1
// is not consulted: while any party's share is still in C2, C2 is not
// token*G for a token below mask.RecoveryLimit (except with negligible
// probability), and the bounded search fails with ExhaustedRecovery.
func (v *Vtmf) UnmaskOpen(c mask.Mask) (uint64, error) {
	return mask.Recover(group, c.C2)
}

// MaskShuffle applies a secret permutation to m, re-randomizing every
// entry, and proves the result is a shuffle of m without revealing pi.
func (v *Vtmf) MaskShuffle(r io.Reader, m []mask.Mask, pi perm.Permutation) ([]mask.Mask, ShuffleProof) {
	h := v.pk.Point()
	gh := mask.Mask{C1: group.Generator(), C2: h}

	rm := make([]mask.Mask, len(m))
	rr := make([]curve.Scalar, len(m))
	for i := range m {
		rr[i] = group.SampleScalar(r)
		rm[i] = gh.Scale(rr[i]).Add(m[i])
	}
	perm.Apply(pi, rm)
	perm.Apply(pi, rr)

	proof := shuffle.Create(transcript.New("mask_shuffle"), shuffle.Publics{H: h, E0: m, E1: rm},
		shuffle.Secrets{Pi: pi, R: rr})
	return rm, proof
}

// VerifyMaskShuffle checks that c is a shuffle of m.
func (v *Vtmf) VerifyMaskShuffle(m, c []mask.Mask, proof ShuffleProof) error {
	return shuffle.Verify(transcript.New("mask_shuffle"), shuffle.Publics{H: v.pk.Point(), E0: m, E1: c}, proof)
}

// MaskShift applies a cyclic shift by k to m, re-randomizing every entry,
// and proves the result is a shift of m by a hidden offset. Entry i of the
// result re-masks m[(i+k) mod n], the same order perm.Shift(n, k) gives.
func (v *Vtmf) MaskShift(r io.Reader, m []mask.Mask, k int) ([]mask.Mask, ShiftProof) {
	h := v.pk.Point()
	gh := mask.Mask{C1: group.Generator(), C2: h}
	n := len(m)

	rm := make([]mask.Mask, n)
	rr := make([]curve.Scalar, n)
	for i := range m {
		rr[i] = group.SampleScalar(r)
		rm[i] = gh.Scale(rr[i]).Add(m[i])
	}
	kk := ((-k % n) + n) % n
	rm = rotate(rm, kk)
	rr = rotateScalars(rr, kk)

	proof := rotation.Create(transcript.New("mask_shift"), rotation.Publics{H: h, E0: m, E1: rm},
		rotation.Secrets{K: kk, R: rr})
	return rm, proof
}

// VerifyMaskShift checks that c is a cyclic shift of m.
func (v *Vtmf) VerifyMaskShift(m, c []mask.Mask, proof ShiftProof) error {
	return rotation.Verify(transcript.New("mask_shift"), rotation.Publics{H: v.pk.Point(), E0: m, E1: c}, proof)
}

// MaskInsert splices needle into m at a hidden position, re-randomizing
// every entry, and proves the result is m with needle spliced in without
// revealing k. k (0..=len(m)) counts the entries of m that end up after
// the needle: the needle starts at index len(m)-k, so k=0 appends it and
// k=len(m) puts it in front.
func (v *Vtmf) MaskInsert(r io.Reader, m, needle []mask.Mask, k int) ([]mask.Mask, InsertionProof) {
	h := v.pk.Point()
	gh := mask.Mask{C1: group.Generator(), C2: h}
	n := len(m)
	n2 := n + len(needle)

	kk := ((k % n) + n) % n
	r1 := make([]curve.Scalar, n)
	s1 := rotate(m, kk)
	for i := range s1 {
		r1[i] = group.SampleScalar(r)
		s1[i] = s1[i].Add(gh.Scale(r1[i]))
	}

	s1c := append(append([]mask.Mask(nil), s1...), needle...)
	k2 := ((n2-k)%n2 + n2) % n2
	r2 := make([]curve.Scalar, n2)
	s2 := rotate(s1c, k2)
	for i := range s2 {
		r2[i] = group.SampleScalar(r)
		s2[i] = s2[i].Add(gh.Scale(r2[i]))
	}

	pub := insertion.Publics{H: h, C: needle, S0: m, S2: s2}
	sec := insertion.Secrets{K: k, R1: r1, R2: r2}
	proof := insertion.Create(transcript.New("mask_insert"), pub, sec)
	return s2, proof
}

// VerifyMaskInsert checks that s2 is m with needle spliced in at some
// hidden position.
func (v *Vtmf) VerifyMaskInsert(m, needle, s2 []mask.Mask, proof InsertionProof) error {
	return insertion.Verify(transcript.New("mask_insert"), insertion.Publics{
		H: v.pk.Point(), C: needle, S0: m, S2: s2,
	}, proof)
}

// ProveEntanglement proves that every stack in stacks was shuffled by the
// same secret permutation pi, each re-randomized by the matching row of r.
func (v *Vtmf) ProveEntanglement(stacks, shuffled [][]mask.Mask, pi perm.Permutation, r [][]curve.Scalar) EntanglementProof {
	return entanglement.Create(transcript.New("entanglement"), entanglement.Publics{
		H: v.pk.Point(), E0: stacks, E1: shuffled,
	}, entanglement.Secrets{Pi: pi, R: r})
}

// VerifyEntanglement checks proof against the parallel stacks.
func (v *Vtmf) VerifyEntanglement(stacks, shuffled [][]mask.Mask, proof EntanglementProof) error {
	return entanglement.Verify(transcript.New("entanglement"), entanglement.Publics{
		H: v.pk.Point(), E0: stacks, E1: shuffled,
	}, proof)
}

// MaskRandom draws a fresh mask of an unknown token, the building block
// for a distributed coin flip: every party contributes one and the sum is
// only ever opened, never individually unmasked.
func (v *Vtmf) MaskRandom(r io.Reader) mask.Mask {
	s := group.SampleScalar(r)
	c, _ := v.Mask(r, s)
	return c
}

// UnmaskRandom derives a reader of pseudorandom bytes from a fully-opened
// random mask, the way every party independently re-derives the same coin
// flip result from the same opened ciphertext.
func (v *Vtmf) UnmaskRandom(c mask.Mask) (io.Reader, error) {
	b, err := c.C2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	h, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, nil)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(b); err != nil {
		return nil, err
	}
	return h, nil
}

func rotate(s []mask.Mask, k int) []mask.Mask {
	n := len(s)
	out := make([]mask.Mask, n)
	for i := range out {
		out[i] = s[((i-k)%n+n)%n]
	}
	return out
}

func rotateScalars(s []curve.Scalar, k int) []curve.Scalar {
	n := len(s)
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = s[((i-k)%n+n)%n]
	}
	return out
}
