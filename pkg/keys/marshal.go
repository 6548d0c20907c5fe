package keys

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

type privateKeyMarshal struct {
	X curve.Scalar
}

// MarshalBinary encodes k in the module's canonical wire format.
func (k PrivateKey) MarshalBinary() ([]byte, error) {
	return wire.Marshal(privateKeyMarshal{X: k.x})
}

// UnmarshalBinary decodes k from the module's canonical wire format. The
// scalar field must be pre-populated with a concrete Group scalar before
// decoding, the same EmptyConfig-style dance the teacher's config package
// uses to unmarshal into a Scalar interface field.
func (k *PrivateKey) UnmarshalBinary(data []byte) error {
	pm := privateKeyMarshal{X: Group.NewScalar()}
	if err := wire.Unmarshal(data, &pm); err != nil {
		return err
	}
	k.x = pm.X
	return nil
}

type publicKeyMarshal struct {
	H curve.Point
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p PublicKey) MarshalBinary() ([]byte, error) {
	return wire.Marshal(publicKeyMarshal{H: p.h})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *PublicKey) UnmarshalBinary(data []byte) error {
	pm := publicKeyMarshal{H: Group.NewPoint()}
	if err := wire.Unmarshal(data, &pm); err != nil {
		return err
	}
	p.h = pm.H
	return nil
}
