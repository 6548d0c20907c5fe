package mask

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

// group is the fixed curve every mask on the wire decodes into; this
// package's algebra is curve-generic, but the module only ever runs one.
var group curve.Curve = curve.Secp256k1{}

type maskMarshal struct {
	C1, C2 curve.Point
}

// MarshalBinary encodes m in the module's canonical wire format. Because m
// implements encoding.BinaryMarshaler itself, cbor encodes it as an opaque
// byte string wherever it appears as a struct field or slice element,
// rather than decomposing C1/C2 into the surrounding map.
func (m Mask) MarshalBinary() ([]byte, error) {
	return wire.Marshal(maskMarshal{C1: m.C1, C2: m.C2})
}

// UnmarshalBinary decodes m from the module's canonical wire format.
func (m *Mask) UnmarshalBinary(data []byte) error {
	mm := maskMarshal{C1: group.NewPoint(), C2: group.NewPoint()}
	if err := wire.Unmarshal(data, &mm); err != nil {
		return err
	}
	m.C1, m.C2 = mm.C1, mm.C2
	return nil
}
