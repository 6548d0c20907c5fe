package wire

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pbmx-go/pbmx/pkg/curve"
)

// UnmarshalScalars decodes a canonically-encoded array of scalars into
// concrete values on c. A []curve.Scalar struct field can't be decoded
// directly the way a []mask.Mask one can: curve.Scalar is an interface,
// and cbor has no concrete type to construct before calling
// UnmarshalBinary on it. Each element is instead read back as a raw byte
// string and built explicitly, the slice analogue of the EmptyConfig
// pre-population used for individual Scalar/Point fields.
func UnmarshalScalars(c curve.Curve, data []byte) ([]curve.Scalar, error) {
	var raws []cbor.RawMessage
	if err := cbor.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]curve.Scalar, len(raws))
	for i, raw := range raws {
		var b []byte
		if err := cbor.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		s := c.NewScalar()
		if err := s.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// UnmarshalScalarMatrix is UnmarshalScalars for a [][]curve.Scalar field.
func UnmarshalScalarMatrix(c curve.Curve, data []byte) ([][]curve.Scalar, error) {
	var raws []cbor.RawMessage
	if err := cbor.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([][]curve.Scalar, len(raws))
	for i, raw := range raws {
		row, err := UnmarshalScalars(c, raw)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// UnmarshalPoints is UnmarshalScalars for a []curve.Point field.
func UnmarshalPoints(c curve.Curve, data []byte) ([]curve.Point, error) {
	var raws []cbor.RawMessage
	if err := cbor.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]curve.Point, len(raws))
	for i, raw := range raws {
		var b []byte
		if err := cbor.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		p := c.NewPoint()
		if err := p.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
