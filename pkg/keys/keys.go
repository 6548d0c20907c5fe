// Package keys implements the per-party key pairs, their fingerprints, and
// the Schnorr-style signature scheme blocks are signed with, grounded on
// the reference implementation's crypto/keys.rs.
package keys

import (
	"io"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
)

// Group is the fixed group every key, mask and proof in this module
// operates over.
var Group curve.Curve = curve.Secp256k1{}

// PrivateKey is a party's scalar secret x. Callers are responsible for
// zeroing PrivateKey.x's backing bytes once done with it; Go offers no
// scoped-destructor equivalent to a Drop impl, so this is the caller's
// discipline to keep, not the type's guarantee.
type PrivateKey struct {
	x curve.Scalar
}

// Generate draws a fresh PrivateKey from r.
func Generate(r io.Reader) PrivateKey {
	return PrivateKey{x: Group.SampleScalar(r)}
}

func (k PrivateKey) Exponent() curve.Scalar { return k.x }

func (k PrivateKey) PublicKey() PublicKey {
	return PublicKey{h: k.x.ActOnBase()}
}

func (k PrivateKey) Fingerprint() id.ID {
	return k.PublicKey().Fingerprint()
}

// Decrypt applies this key's share of an ElGamal ciphertext's second
// component directly, c2 - x*c1, used only where the caller already holds
// both components locally (unit tests, single-party scenarios); the
// threshold path goes through pkg/vtmf's share/unmask_share instead.
func (k PrivateKey) Decrypt(c1, c2 curve.Point) curve.Point {
	return c2.Sub(k.x.Act(c1))
}

// Sign produces a Schnorr-style signature over a scalar message digest the
// way the reference implementation signs block hashes: loop sampling a
// fresh nonce until the second signature component is non-zero.
func (k PrivateKey) Sign(r io.Reader, m curve.Scalar) Signature {
	for {
		nonce := Group.SampleScalar(r)
		s0 := nonce.ActOnBase()
		e := curve.ReduceBytes(mustMarshal(s0))
		// s1 = nonce^-1 * (m - x*e)
		s1 := nonce.Invert().Mul(m.Sub(k.x.Mul(e)))
		if !s1.IsZero() {
			return Signature{S0: s0, S1: s1}
		}
	}
}

// PublicKey is a party's published point H_i = x_i*G.
type PublicKey struct {
	h curve.Point
}

func PublicKeyFromPoint(p curve.Point) PublicKey { return PublicKey{h: p} }

func (p PublicKey) Point() curve.Point { return p.h }

// Fingerprint is the stable 20-byte identifier derived from this key's
// canonical encoding.
func (p PublicKey) Fingerprint() id.ID {
	return id.Of("pbmx-fingerprint", mustMarshal(p.h))
}

// Combine adds another party's public key into this one, the accumulation
// step used to maintain the shared key H = sum of published public keys.
func (p PublicKey) Combine(other PublicKey) PublicKey {
	return PublicKey{h: p.h.Add(other.h)}
}

// Verify checks a Schnorr-style signature over message digest m:
// H*e + S0*s1 == G*m, where e is the reduction of S0's encoding.
func (p PublicKey) Verify(m curve.Scalar, sig Signature) bool {
	e := curve.ReduceBytes(mustMarshal(sig.S0))
	lhs := e.Act(p.h).Add(sig.S1.Act(sig.S0))
	rhs := m.ActOnBase()
	return lhs.Equal(rhs)
}

// Signature is a Schnorr-style signature (S0, s1) over a scalar message.
type Signature struct {
	S0 curve.Point
	S1 curve.Scalar
}

func mustMarshal(m interface{ MarshalBinary() ([]byte, error) }) []byte {
	b, err := m.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}
