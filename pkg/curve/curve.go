// Package curve provides the prime-order group layer every other package
// builds on: scalar field arithmetic, group operations, constant-time
// point/scalar multiplication, uniform sampling, and canonical encoding.
// The only implementation is secp256k1, reached through the decred
// secp256k1 library's Jacobian-point and mod-n-scalar primitives rather
// than re-deriving field arithmetic by hand.
package curve

import (
	"crypto/rand"
	"encoding"
	"io"
)

// Curve names a prime-order group with a fixed generator G.
type Curve interface {
	Name() string
	NewScalar() Scalar
	NewPoint() Point
	Generator() Point
	// ScalarSize is the canonical encoded length of a Scalar, in bytes.
	ScalarSize() int
	// PointSize is the canonical encoded length of a Point, in bytes.
	PointSize() int
	// SampleScalar draws a uniformly random non-zero Scalar from r.
	SampleScalar(r io.Reader) Scalar
}

// Scalar is an element of Z_q, the curve's scalar field.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	// Act returns p scaled by this scalar.
	Act(p Point) Point
	// ActOnBase returns the generator scaled by this scalar.
	ActOnBase() Point
}

// Point is an element of the curve's prime-order subgroup.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
}

// Secp256k1 is the group used throughout: secp256k1 with its standard base
// point, matching the curve the reference module's key, signature and
// config code all operate over.
type Secp256k1 struct{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) NewScalar() Scalar { return new(secp256k1Scalar) }

func (Secp256k1) NewPoint() Point { return new(secp256k1Point) }

func (Secp256k1) Generator() Point {
	one := new(secp256k1Scalar).SetUint64(1)
	return one.ActOnBase()
}

func (Secp256k1) ScalarSize() int { return 32 }

func (Secp256k1) PointSize() int { return 33 }

func (Secp256k1) SampleScalar(r io.Reader) Scalar { return sampleScalar(r) }

// Rand is crypto/rand.Reader, broken out so tests can substitute a
// deterministic source without touching call sites.
var Rand io.Reader = rand.Reader

// ScalarFromUint64 embeds a 64-bit integer as a Scalar by simple reduction;
// used both to lift a Token into the group (t.ActOnBase()) and by Rng's
// dice-expression evaluator.
func ScalarFromUint64(c Curve, v uint64) Scalar {
	return new(secp256k1Scalar).SetUint64(v)
}
