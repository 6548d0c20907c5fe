package knownshuffle

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

type proofWire struct {
	Cd  curve.Point
	Cdd curve.Point
	Cda curve.Point
	F   []curve.Scalar
	Z   curve.Scalar
	Fd  []curve.Scalar
	Zd  curve.Scalar
}

type proofRaw struct {
	Cd  curve.Point
	Cdd curve.Point
	Cda curve.Point
	F   wire.RawMessage
	Z   curve.Scalar
	Fd  wire.RawMessage
	Zd  curve.Scalar
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofWire{
		Cd: p.Cd, Cdd: p.Cdd, Cda: p.Cda, F: p.F, Z: p.Z, Fd: p.Fd, Zd: p.Zd,
	})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *Proof) UnmarshalBinary(data []byte) error {
	raw := proofRaw{
		Cd: group.NewPoint(), Cdd: group.NewPoint(), Cda: group.NewPoint(),
		Z: group.NewScalar(), Zd: group.NewScalar(),
	}
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := wire.UnmarshalScalars(group, raw.F)
	if err != nil {
		return err
	}
	fd, err := wire.UnmarshalScalars(group, raw.Fd)
	if err != nil {
		return err
	}
	p.Cd, p.Cdd, p.Cda = raw.Cd, raw.Cdd, raw.Cda
	p.F, p.Z, p.Fd, p.Zd = f, raw.Z, fd, raw.Zd
	return nil
}
