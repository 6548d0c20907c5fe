package curve

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// secp256k1Point is a Point backed by a Jacobian-coordinate secp256k1 group
// element, matching how the library's own constant-time primitives operate.
type secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func asSecp256k1Point(p Point) *secp256k1Point {
	out, ok := p.(*secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("curve: not a secp256k1 point: %T", p))
	}
	return out
}

func (p *secp256k1Point) Curve() Curve { return Secp256k1{} }

func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return make([]byte, 33), nil
	}
	affine := p.value
	affine.ToAffine()
	out := make([]byte, 33)
	out[0] = byte(2 + affine.Y.IsOddBit())
	xb := affine.X.Bytes()
	copy(out[1:], xb[:])
	return out, nil
}

func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 33 {
		return fmt.Errorf("curve: invalid point length %d", len(data))
	}
	var zero [33]byte
	if string(data) == string(zero[:]) {
		p.value.X.SetInt(0)
		p.value.Y.SetInt(0)
		p.value.Z.SetInt(0)
		return nil
	}
	if data[0] != 2 && data[0] != 3 {
		return fmt.Errorf("curve: invalid point prefix 0x%x", data[0])
	}
	var x secp256k1.FieldVal
	if overflow := x.SetByteSlice(data[1:]); overflow {
		return fmt.Errorf("curve: point x coordinate out of range")
	}
	var y secp256k1.FieldVal
	if !secp256k1.DecompressY(&x, data[0] == 3, &y) {
		return fmt.Errorf("curve: point not on curve")
	}
	y.Normalize()
	p.value.X = x
	p.value.Y = y
	p.value.Z.SetInt(1)
	return nil
}

func (p *secp256k1Point) Add(q Point) Point {
	other := asSecp256k1Point(q)
	out := new(secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *secp256k1Point) Sub(q Point) Point {
	return p.Add(q.Negate())
}

func (p *secp256k1Point) Negate() Point {
	out := new(secp256k1Point)
	out.value.Set(&p.value)
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *secp256k1Point) Equal(q Point) bool {
	other := asSecp256k1Point(q)
	a, b := p.value, other.value
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *secp256k1Point) IsIdentity() bool {
	affine := p.value
	affine.ToAffine()
	return affine.X.IsZero() && affine.Y.IsZero()
}
