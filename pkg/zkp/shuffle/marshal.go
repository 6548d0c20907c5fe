package shuffle

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/wire"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownshuffle"
)

type proofWire struct {
	Skc knownshuffle.Proof
	C   curve.Point
	Cd  curve.Point
	Ed  mask.Mask
	F   []curve.Scalar
	Z   curve.Scalar
}

type proofRaw struct {
	Skc knownshuffle.Proof
	C   curve.Point
	Cd  curve.Point
	Ed  mask.Mask
	F   wire.RawMessage
	Z   curve.Scalar
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofWire{Skc: p.Skc, C: p.C, Cd: p.Cd, Ed: p.Ed, F: p.F, Z: p.Z})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *Proof) UnmarshalBinary(data []byte) error {
	raw := proofRaw{C: group.NewPoint(), Cd: group.NewPoint(), Z: group.NewScalar()}
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := wire.UnmarshalScalars(group, raw.F)
	if err != nil {
		return err
	}
	p.Skc, p.C, p.Cd, p.Ed, p.Z = raw.Skc, raw.C, raw.Cd, raw.Ed, raw.Z
	p.F = f
	return nil
}
