package knownrotation

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

type proofWire struct {
	F []curve.Point
	L []curve.Scalar
	T []curve.Scalar
}

type proofRaw struct {
	F wire.RawMessage
	L wire.RawMessage
	T wire.RawMessage
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofWire{F: p.F, L: p.L, T: p.T})
}

// UnmarshalBinary decodes p from the module's canonical wire format. Each
// slice field is decoded in two passes: first as raw CBOR, then built
// explicitly via group, since curve.Point/Scalar are interfaces cbor
// cannot construct on its own.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var raw proofRaw
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := wire.UnmarshalPoints(group, raw.F)
	if err != nil {
		return err
	}
	l, err := wire.UnmarshalScalars(group, raw.L)
	if err != nil {
		return err
	}
	t, err := wire.UnmarshalScalars(group, raw.T)
	if err != nil {
		return err
	}
	p.F, p.L, p.T = f, l, t
	return nil
}
