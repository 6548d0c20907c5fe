package entanglement

import (
	"github.com/pbmx-go/pbmx/pkg/wire"
	"github.com/pbmx-go/pbmx/pkg/zkp/shuffle"
)

type proofWire struct {
	Tangles []shuffle.Proof
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Proof) MarshalBinary() ([]byte, error) {
	return wire.Marshal(proofWire{Tangles: p.Tangles})
}

// UnmarshalBinary decodes p from the module's canonical wire format. Each
// shuffle.Proof element is itself a concrete struct implementing
// UnmarshalBinary, so the slice decodes directly with no raw-bytes pass.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var pw proofWire
	if err := wire.Unmarshal(data, &pw); err != nil {
		return err
	}
	p.Tangles = pw.Tangles
	return nil
}
