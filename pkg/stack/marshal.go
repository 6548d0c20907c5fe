package stack

import (
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

// MarshalBinary encodes s in the module's canonical wire format: a CBOR
// array of masks, each mask itself opaque-encoded via its own
// MarshalBinary.
func (s Stack) MarshalBinary() ([]byte, error) {
	return wire.Marshal([]mask.Mask(s))
}

// UnmarshalBinary decodes s from the module's canonical wire format.
func (s *Stack) UnmarshalBinary(data []byte) error {
	var ms []mask.Mask
	if err := wire.Unmarshal(data, &ms); err != nil {
		return err
	}
	*s = Stack(ms)
	return nil
}
