package dlogeq

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

var group curve.Curve = curve.Secp256k1{}

type proofMarshal struct {
	C curve.Scalar
	R curve.Scalar
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofMarshal{C: p.C, R: p.R})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *Proof) UnmarshalBinary(data []byte) error {
	pm := proofMarshal{C: group.NewScalar(), R: group.NewScalar()}
	if err := wire.Unmarshal(data, &pm); err != nil {
		return err
	}
	p.C, p.R = pm.C, pm.R
	return nil
}
