package payload

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/wire"
	"github.com/pbmx-go/pbmx/pkg/zkp/dlogeq"
)

var group curve.Curve = curve.Secp256k1{}

// PublishShares and RandomReveal are the two arm structs holding a bare
// curve.Point (or slice of them): every other arm's Point/Scalar fields
// are wrapped inside a type (mask.Mask, a Proof) that already knows how
// to pre-populate itself before decoding.

type publishSharesRaw struct {
	Target Id
	Shares wire.RawMessage
	Proofs []dlogeq.Proof
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p PublishShares) MarshalBinary() ([]byte, error) {
	return wire.Marshal(struct {
		Target Id
		Shares []curve.Point
		Proofs []dlogeq.Proof
	}{p.Target, p.Shares, p.Proofs})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *PublishShares) UnmarshalBinary(data []byte) error {
	var raw publishSharesRaw
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	shares, err := wire.UnmarshalPoints(group, raw.Shares)
	if err != nil {
		return err
	}
	p.Target, p.Shares, p.Proofs = raw.Target, shares, raw.Proofs
	return nil
}

type randomRevealRaw struct {
	Name  string
	Share curve.Point
	Proof dlogeq.Proof
}

// MarshalBinary encodes r in the module's canonical wire format.
func (r RandomReveal) MarshalBinary() ([]byte, error) {
	return wire.Marshal(struct {
		Name  string
		Share curve.Point
		Proof dlogeq.Proof
	}{r.Name, r.Share, r.Proof})
}

// UnmarshalBinary decodes r from the module's canonical wire format.
func (r *RandomReveal) UnmarshalBinary(data []byte) error {
	raw := randomRevealRaw{Share: group.NewPoint()}
	if err := wire.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name, r.Share, r.Proof = raw.Name, raw.Share, raw.Proof
	return nil
}
