// Package transcript implements the Fiat-Shamir transcript every proof in
// pkg/zkp builds its challenges from: a blake3 hash state fed with
// domain-separated, length-framed public values, matching the
// "(" + domain + data + ")" framing convention used for canonical hashing
// elsewhere in this module (see pkg/wire).
package transcript

import (
	"encoding/binary"
	"hash"
	"io"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// Transcript accumulates domain-separated public data and derives
// challenges and proof nonces from it.
type Transcript struct {
	h *blake3.Hasher
}

// New starts a transcript for the named sub-protocol (e.g. "mask",
// "known_shuffle", "secret_rotation"). Every proof construction and
// verification must open with the same label or the two sides' challenges
// diverge silently.
func New(label string) *Transcript {
	t := &Transcript{h: blake3.New()}
	t.frame("domain-sep", []byte(label))
	return t
}

func (t *Transcript) frame(domain string, data []byte) {
	t.h.Write([]byte("("))
	t.h.Write([]byte(domain))
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(data)))
	t.h.Write(length[:])
	t.h.Write(data)
	t.h.Write([]byte(")"))
}

// Append commits a labeled byte string to the transcript.
func (t *Transcript) Append(label string, data []byte) {
	t.frame(label, data)
}

// AppendScalar commits a labeled Scalar.
func (t *Transcript) AppendScalar(label string, s curve.Scalar) {
	data, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	t.frame(label, data)
}

// AppendScalars commits a labeled sequence of Scalars as one framed field.
func (t *Transcript) AppendScalars(label string, ss []curve.Scalar) {
	buf := make([]byte, 0, len(ss)*32)
	for _, s := range ss {
		data, err := s.MarshalBinary()
		if err != nil {
			panic(err)
		}
		buf = append(buf, data...)
	}
	t.frame(label, buf)
}

// AppendPoint commits a labeled Point.
func (t *Transcript) AppendPoint(label string, p curve.Point) {
	data, err := p.MarshalBinary()
	if err != nil {
		panic(err)
	}
	t.frame(label, data)
}

// AppendPoints commits a labeled sequence of Points as one framed field.
func (t *Transcript) AppendPoints(label string, ps []curve.Point) {
	buf := make([]byte, 0, len(ps)*33)
	for _, p := range ps {
		data, err := p.MarshalBinary()
		if err != nil {
			panic(err)
		}
		buf = append(buf, data...)
	}
	t.frame(label, buf)
}

// Clone snapshots the transcript so a verifier-style challenge can be
// derived without mutating the caller's running state.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{h: t.h.Clone()}
}

// Challenge derives one Scalar challenge from the transcript's current
// state by handing the labeled blake3 extendable output to the curve's
// SampleScalar.
// Calling Challenge does not reset the transcript: subsequent Append calls
// continue to build on the same running state, matching how the proofs
// weave multiple challenge rounds (x, e, lambda, l, ...) into one
// transcript.
func (t *Transcript) Challenge(label string, c curve.Curve) curve.Scalar {
	reader := t.reader(label)
	return c.SampleScalar(reader)
}

// ChallengeVector derives n independent Scalar challenges from a single
// label, as known_shuffle's "t" vector and secret_rotation's "a" vector do.
func (t *Transcript) ChallengeVector(label string, n int, c curve.Curve) []curve.Scalar {
	reader := t.reader(label)
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = c.SampleScalar(reader)
	}
	return out
}

// reader derives an XOF reader keyed on the transcript state plus label,
// used by Challenge, ChallengeVector and Reader.
func (t *Transcript) reader(label string) io.Reader {
	clone := t.h.Clone()
	clone.Write([]byte("challenge:" + label))
	return clone.Digest()
}

// Reader exposes the labeled XOF reader publicly, for protocols (e.g. the
// secret shuffle proof's per-proof commitment scheme) that need to derive
// more than scalars from the transcript's challenge stream deterministically
// on both the prover's and verifier's side.
func (t *Transcript) Reader(label string) io.Reader {
	return t.reader(label)
}

// NonceReader derives a reader for the blinding scalars a proof needs,
// rekeyed on both the transcript's current state and the secret witness
// bytes supplied by the caller, plus fresh system randomness. This
// reproduces the original implementation's "commit_witness(...).finalize"
// anti-malleability property (a bug in the system RNG alone cannot cause
// nonce reuse, since the witness bytes also drive the derivation) while
// remaining safe if the witness is ever predictable (the random salt still
// makes the output unpredictable to a verifier). See SPEC_FULL.md §13.
func (t *Transcript) NonceReader(witness []byte) io.Reader {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(curve.Rand, salt); err != nil {
		panic(err)
	}
	clone := t.h.Clone()
	ikm := clone.Sum(nil)
	return hkdf.New(newBlake3Hash, ikm, salt, witness)
}

func newBlake3Hash() hash.Hash { return blake3.New() }
