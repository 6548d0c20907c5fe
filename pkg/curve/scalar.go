package curve

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

type secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func asSecp256k1Scalar(s Scalar) *secp256k1Scalar {
	out, ok := s.(*secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("curve: not a secp256k1 scalar: %T", s))
	}
	return out
}

func (s *secp256k1Scalar) Curve() Curve { return Secp256k1{} }

func (s *secp256k1Scalar) MarshalBinary() ([]byte, error) {
	b := s.value.Bytes()
	return b[:], nil
}

func (s *secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("curve: invalid scalar length %d", len(data))
	}
	var exact [32]byte
	copy(exact[:], data)
	s.value.SetBytes(&exact)
	return nil
}

func (s *secp256k1Scalar) Add(t Scalar) Scalar {
	other := asSecp256k1Scalar(t)
	out := new(secp256k1Scalar)
	out.value.Set(&s.value)
	out.value.Add(&other.value)
	return out
}

func (s *secp256k1Scalar) Sub(t Scalar) Scalar {
	return s.Add(t.Negate())
}

func (s *secp256k1Scalar) Negate() Scalar {
	out := new(secp256k1Scalar)
	out.value.Set(&s.value)
	out.value.Negate()
	return out
}

func (s *secp256k1Scalar) Mul(t Scalar) Scalar {
	other := asSecp256k1Scalar(t)
	out := new(secp256k1Scalar)
	out.value.Set(&s.value)
	out.value.Mul(&other.value)
	return out
}

func (s *secp256k1Scalar) Invert() Scalar {
	out := new(secp256k1Scalar)
	out.value.Set(&s.value)
	out.value.InverseNonConst()
	return out
}

func (s *secp256k1Scalar) Equal(t Scalar) bool {
	other := asSecp256k1Scalar(t)
	return s.value.Equals(&other.value)
}

func (s *secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *secp256k1Scalar) Act(p Point) Point {
	other := asSecp256k1Point(p)
	out := new(secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *secp256k1Scalar) ActOnBase() Point {
	out := new(secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

// SetUint64 sets s to the given integer and returns it, used to embed a
// Token as a scalar before lifting it to the group via ActOnBase.
func (s *secp256k1Scalar) SetUint64(v uint64) *secp256k1Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[31-i] = byte(v >> (8 * i))
	}
	s.value.SetBytes(&buf)
	return s
}

// ReduceBytes reduces an arbitrary-length big-endian byte string mod the
// group order, the deterministic (non-rejection-sampled) reduction used to
// fold a point's encoding or a message digest into a Scalar for Schnorr
// signing (see pkg/keys).
func ReduceBytes(data []byte) Scalar {
	out := new(secp256k1Scalar)
	out.value.SetByteSlice(data)
	return out
}

func sampleScalar(r io.Reader) Scalar {
	out := new(secp256k1Scalar)
	var buf [32]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			panic(err)
		}
		overflow := out.value.SetBytes(&buf)
		if overflow == 0 && !out.value.IsZero() {
			return out
		}
	}
}
