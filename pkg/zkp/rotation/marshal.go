package rotation

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/wire"
	"github.com/pbmx-go/pbmx/pkg/zkp/knownrotation"
)

type proofWire struct {
	Rkc knownrotation.Proof
	H   []curve.Point
	Z   []mask.Mask
	V   curve.Scalar
	F   []curve.Point
	Ff  []mask.Mask
	Tau []curve.Scalar
	Rho []curve.Scalar
	Mu  []curve.Scalar
}

type proofRaw struct {
	Rkc knownrotation.Proof
	H   wire.RawMessage
	Z   []mask.Mask
	V   curve.Scalar
	F   wire.RawMessage
	Ff  []mask.Mask
	Tau wire.RawMessage
	Rho wire.RawMessage
	Mu  wire.RawMessage
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofWire{
		Rkc: p.Rkc, H: p.H, Z: p.Z, V: p.V, F: p.F, Ff: p.Ff, Tau: p.Tau, Rho: p.Rho, Mu: p.Mu,
	})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *Proof) UnmarshalBinary(data []byte) error {
	raw := proofRaw{V: group.NewScalar()}
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	h, err := wire.UnmarshalPoints(group, raw.H)
	if err != nil {
		return err
	}
	f, err := wire.UnmarshalPoints(group, raw.F)
	if err != nil {
		return err
	}
	tau, err := wire.UnmarshalScalars(group, raw.Tau)
	if err != nil {
		return err
	}
	rho, err := wire.UnmarshalScalars(group, raw.Rho)
	if err != nil {
		return err
	}
	mu, err := wire.UnmarshalScalars(group, raw.Mu)
	if err != nil {
		return err
	}
	p.Rkc, p.V = raw.Rkc, raw.V
	p.H, p.Z, p.F, p.Ff = h, raw.Z, f, raw.Ff
	p.Tau, p.Rho, p.Mu = tau, rho, mu
	return nil
}
