// Package payload defines the closed tagged set of chain move types: the
// cryptographic artifacts a block carries plus whatever proof certifies
// them, grounded on the reference implementation's
// chain/payload.rs Payload enum.
//
// Runtime polymorphism here is a tagged variant, not a class hierarchy:
// Payload is one struct with a Tag discriminator and one non-nil arm
// field. Callers switch on Tag; there is no interface to implement per
// variant.
package payload

import (
	"fmt"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/stack"
	"github.com/pbmx-go/pbmx/pkg/wire"
	"github.com/pbmx-go/pbmx/pkg/zkp/dlogeq"
	"github.com/pbmx-go/pbmx/pkg/zkp/entanglement"
	"github.com/pbmx-go/pbmx/pkg/zkp/insertion"
	"github.com/pbmx-go/pbmx/pkg/zkp/rotation"
	"github.com/pbmx-go/pbmx/pkg/zkp/shuffle"
)

// Tag is the wire discriminator for a payload arm. Numbers are part of
// the wire contract and must never be renumbered.
type Tag uint8

const (
	TagBytes             Tag = 1
	TagPublishKey        Tag = 2
	TagOpenStack         Tag = 3
	TagMaskStack         Tag = 4
	TagShuffleStack      Tag = 5
	TagShiftStack        Tag = 6
	TagNameStack         Tag = 7
	TagTakeStack         Tag = 8
	TagPileStacks        Tag = 9
	TagInsertStack       Tag = 10
	TagPublishShares     Tag = 11
	TagRandomSpec        Tag = 12
	TagRandomEntropy     Tag = 13
	TagRandomReveal      Tag = 14
	TagText              Tag = 15
	TagProveEntanglement Tag = 16
)

func (t Tag) String() string {
	switch t {
	case TagBytes:
		return "bytes"
	case TagPublishKey:
		return "publish_key"
	case TagOpenStack:
		return "open_stack"
	case TagMaskStack:
		return "mask_stack"
	case TagShuffleStack:
		return "shuffle_stack"
	case TagShiftStack:
		return "shift_stack"
	case TagNameStack:
		return "name_stack"
	case TagTakeStack:
		return "take_stack"
	case TagPileStacks:
		return "pile_stacks"
	case TagInsertStack:
		return "insert_stack"
	case TagPublishShares:
		return "publish_shares"
	case TagRandomSpec:
		return "random_spec"
	case TagRandomEntropy:
		return "random_entropy"
	case TagRandomReveal:
		return "random_reveal"
	case TagText:
		return "text"
	case TagProveEntanglement:
		return "prove_entanglement"
	default:
		return "unknown"
	}
}

// PublishKey announces a party's public key under a display name.
type PublishKey struct {
	Name      string
	PublicKey keys.PublicKey
}

// OpenStack introduces a new, unmasked stack.
type OpenStack struct {
	Stack stack.Stack
}

// MaskStack masks every token of a source stack, carrying one DlogEq
// proof per mask operation.
type MaskStack struct {
	Source Id
	Result stack.Stack
	Proofs []dlogeq.Proof
}

// ShuffleStack permutes and re-randomizes a stack.
type ShuffleStack struct {
	Source Id
	Result stack.Stack
	Proof  shuffle.Proof
}

// ShiftStack cyclically rotates and re-randomizes a stack.
type ShiftStack struct {
	Source Id
	Result stack.Stack
	Proof  rotation.Proof
}

// NameStack (re)binds a display name to a stack Id. The binding is
// reassignable; a later name_stack for the same name replaces it.
type NameStack struct {
	Target Id
	Name   string
}

// TakeStack extracts a subset of a stack's masks by index into a new
// stack, identified by its own resulting Id.
type TakeStack struct {
	Source  Id
	Indices []int
	Result  Id
}

// PileStacks concatenates several stacks into one.
type PileStacks struct {
	Sources []Id
	Result  Id
}

// InsertStack records a needle stack spliced into a source stack at a
// position hidden by InsertProof, additive to the reference payload
// catalog's reserved tag 10 (see the module's design ledger).
type InsertStack struct {
	Source Id
	Needle Id
	Result stack.Stack
	Proof  insertion.Proof
}

// PublishShares reveals one party's decryption shares for every mask in
// a stack, each certified by a DlogEq proof against the publisher's key.
type PublishShares struct {
	Target Id
	Shares []curve.Point
	Proofs []dlogeq.Proof
}

// RandomSpec declares a named distributed random generator and its dice
// expression.
type RandomSpec struct {
	Name string
	Spec string
}

// RandomEntropy contributes one party's entropy mask toward a named
// generator.
type RandomEntropy struct {
	Name  string
	Share mask.Mask
}

// RandomReveal contributes one party's decryption share toward
// revealing a named generator's outcome.
type RandomReveal struct {
	Name  string
	Share curve.Point
	Proof dlogeq.Proof
}

// ProveEntanglement certifies that a set of shuffled stacks were all
// permuted by the same secret permutation as a set of source stacks.
type ProveEntanglement struct {
	Sources []Id
	Shuffled []Id
	Proof   entanglement.Proof
}

// Id is an alias so payload fields reads as the domain concept (a stack
// or block identifier) rather than the generic hash type.
type Id = id.ID

// Payload is a single tagged move. Exactly one of the arm fields below
// is non-nil for a well-formed value, selected by Tag; Bytes is the one
// arm that is a plain byte slice rather than a pointer to a struct, and
// Text a pointer to a plain string, since neither carries further
// structure.
type Payload struct {
	Tag Tag

	Bytes []byte
	Text  *string

	PublishKey        *PublishKey
	OpenStack         *OpenStack
	MaskStack         *MaskStack
	ShuffleStack      *ShuffleStack
	ShiftStack        *ShiftStack
	NameStack         *NameStack
	TakeStack         *TakeStack
	PileStacks        *PileStacks
	InsertStack       *InsertStack
	PublishShares     *PublishShares
	RandomSpec        *RandomSpec
	RandomEntropy     *RandomEntropy
	RandomReveal      *RandomReveal
	ProveEntanglement *ProveEntanglement
}

func NewBytes(b []byte) Payload { return Payload{Tag: TagBytes, Bytes: b} }

func NewText(s string) Payload { return Payload{Tag: TagText, Text: &s} }

func NewPublishKey(name string, pk keys.PublicKey) Payload {
	return Payload{Tag: TagPublishKey, PublishKey: &PublishKey{Name: name, PublicKey: pk}}
}

func NewOpenStack(s stack.Stack) Payload {
	return Payload{Tag: TagOpenStack, OpenStack: &OpenStack{Stack: s}}
}

func NewMaskStack(source Id, result stack.Stack, proofs []dlogeq.Proof) Payload {
	return Payload{Tag: TagMaskStack, MaskStack: &MaskStack{Source: source, Result: result, Proofs: proofs}}
}

func NewShuffleStack(source Id, result stack.Stack, proof shuffle.Proof) Payload {
	return Payload{Tag: TagShuffleStack, ShuffleStack: &ShuffleStack{Source: source, Result: result, Proof: proof}}
}

func NewShiftStack(source Id, result stack.Stack, proof rotation.Proof) Payload {
	return Payload{Tag: TagShiftStack, ShiftStack: &ShiftStack{Source: source, Result: result, Proof: proof}}
}

func NewNameStack(target Id, name string) Payload {
	return Payload{Tag: TagNameStack, NameStack: &NameStack{Target: target, Name: name}}
}

func NewTakeStack(source Id, indices []int, result Id) Payload {
	return Payload{Tag: TagTakeStack, TakeStack: &TakeStack{Source: source, Indices: indices, Result: result}}
}

func NewPileStacks(sources []Id, result Id) Payload {
	return Payload{Tag: TagPileStacks, PileStacks: &PileStacks{Sources: sources, Result: result}}
}

func NewInsertStack(source, needle Id, result stack.Stack, proof insertion.Proof) Payload {
	return Payload{Tag: TagInsertStack, InsertStack: &InsertStack{Source: source, Needle: needle, Result: result, Proof: proof}}
}

func NewPublishShares(target Id, shares []curve.Point, proofs []dlogeq.Proof) Payload {
	return Payload{Tag: TagPublishShares, PublishShares: &PublishShares{Target: target, Shares: shares, Proofs: proofs}}
}

func NewRandomSpec(name, spec string) Payload {
	return Payload{Tag: TagRandomSpec, RandomSpec: &RandomSpec{Name: name, Spec: spec}}
}

func NewRandomEntropy(name string, share mask.Mask) Payload {
	return Payload{Tag: TagRandomEntropy, RandomEntropy: &RandomEntropy{Name: name, Share: share}}
}

func NewRandomReveal(name string, share curve.Point, proof dlogeq.Proof) Payload {
	return Payload{Tag: TagRandomReveal, RandomReveal: &RandomReveal{Name: name, Share: share, Proof: proof}}
}

func NewProveEntanglement(sources, shuffled []Id, proof entanglement.Proof) Payload {
	return Payload{Tag: TagProveEntanglement, ProveEntanglement: &ProveEntanglement{Sources: sources, Shuffled: shuffled, Proof: proof}}
}

// Id content-hashes the payload's canonical wire encoding, the way the
// reference implementation's Payload::id hashes its own serialization.
func (p Payload) Id() (id.ID, error) {
	b, err := p.MarshalBinary()
	if err != nil {
		return id.ID{}, err
	}
	return id.Of("pbmx-payload", b), nil
}

// wireEnvelope is the on-the-wire shape: a tag plus the raw-encoded arm,
// the same two-field split protocols/cmp/config uses for per-party
// public blobs of varying concrete type.
type wireEnvelope struct {
	Tag  Tag
	Data wire.RawMessage
}

func (p Payload) arm() interface{} {
	switch p.Tag {
	case TagBytes:
		return p.Bytes
	case TagText:
		return p.Text
	case TagPublishKey:
		return p.PublishKey
	case TagOpenStack:
		return p.OpenStack
	case TagMaskStack:
		return p.MaskStack
	case TagShuffleStack:
		return p.ShuffleStack
	case TagShiftStack:
		return p.ShiftStack
	case TagNameStack:
		return p.NameStack
	case TagTakeStack:
		return p.TakeStack
	case TagPileStacks:
		return p.PileStacks
	case TagInsertStack:
		return p.InsertStack
	case TagPublishShares:
		return p.PublishShares
	case TagRandomSpec:
		return p.RandomSpec
	case TagRandomEntropy:
		return p.RandomEntropy
	case TagRandomReveal:
		return p.RandomReveal
	case TagProveEntanglement:
		return p.ProveEntanglement
	default:
		return nil
	}
}

// MarshalBinary encodes p in the module's canonical wire format.
func (p Payload) MarshalBinary() ([]byte, error) {
	arm := p.arm()
	if arm == nil {
		return nil, pbmxerr.New(pbmxerr.Decoding, fmt.Sprintf("payload.MarshalBinary: unknown tag %d", p.Tag))
	}
	data, err := wire.Marshal(arm)
	if err != nil {
		return nil, err
	}
	return wire.Marshal(wireEnvelope{Tag: p.Tag, Data: data})
}

// UnmarshalBinary decodes p from the module's canonical wire format.
func (p *Payload) UnmarshalBinary(data []byte) error {
	var env wireEnvelope
	if err := wire.Unmarshal(data, &env); err != nil {
		return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary", err)
	}

	out := Payload{Tag: env.Tag}
	switch env.Tag {
	case TagBytes:
		var b []byte
		if err := wire.Unmarshal(env.Data, &b); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(bytes)", err)
		}
		out.Bytes = b
	case TagText:
		var s string
		if err := wire.Unmarshal(env.Data, &s); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(text)", err)
		}
		out.Text = &s
	case TagPublishKey:
		v := &PublishKey{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(publish_key)", err)
		}
		out.PublishKey = v
	case TagOpenStack:
		v := &OpenStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(open_stack)", err)
		}
		out.OpenStack = v
	case TagMaskStack:
		v := &MaskStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(mask_stack)", err)
		}
		out.MaskStack = v
	case TagShuffleStack:
		v := &ShuffleStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(shuffle_stack)", err)
		}
		out.ShuffleStack = v
	case TagShiftStack:
		v := &ShiftStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(shift_stack)", err)
		}
		out.ShiftStack = v
	case TagNameStack:
		v := &NameStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(name_stack)", err)
		}
		out.NameStack = v
	case TagTakeStack:
		v := &TakeStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(take_stack)", err)
		}
		out.TakeStack = v
	case TagPileStacks:
		v := &PileStacks{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(pile_stacks)", err)
		}
		out.PileStacks = v
	case TagInsertStack:
		v := &InsertStack{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(insert_stack)", err)
		}
		out.InsertStack = v
	case TagPublishShares:
		v := &PublishShares{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(publish_shares)", err)
		}
		out.PublishShares = v
	case TagRandomSpec:
		v := &RandomSpec{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(random_spec)", err)
		}
		out.RandomSpec = v
	case TagRandomEntropy:
		v := &RandomEntropy{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(random_entropy)", err)
		}
		out.RandomEntropy = v
	case TagRandomReveal:
		v := &RandomReveal{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(random_reveal)", err)
		}
		out.RandomReveal = v
	case TagProveEntanglement:
		v := &ProveEntanglement{}
		if err := wire.Unmarshal(env.Data, v); err != nil {
			return pbmxerr.Wrap(pbmxerr.Decoding, "payload.UnmarshalBinary(prove_entanglement)", err)
		}
		out.ProveEntanglement = v
	default:
		return pbmxerr.New(pbmxerr.Decoding, fmt.Sprintf("payload.UnmarshalBinary: unknown tag %d", env.Tag))
	}

	*p = out
	return nil
}

// ReferencedStacks returns every stack Id this payload reads from, for
// StackUnknown validation ahead of applying it.
func (p Payload) ReferencedStacks() []Id {
	switch p.Tag {
	case TagMaskStack:
		return []Id{p.MaskStack.Source}
	case TagShuffleStack:
		return []Id{p.ShuffleStack.Source}
	case TagShiftStack:
		return []Id{p.ShiftStack.Source}
	case TagNameStack:
		return []Id{p.NameStack.Target}
	case TagTakeStack:
		return []Id{p.TakeStack.Source}
	case TagPileStacks:
		return append([]Id(nil), p.PileStacks.Sources...)
	case TagInsertStack:
		return []Id{p.InsertStack.Source, p.InsertStack.Needle}
	case TagPublishShares:
		return []Id{p.PublishShares.Target}
	case TagProveEntanglement:
		ids := append([]Id(nil), p.ProveEntanglement.Sources...)
		return append(ids, p.ProveEntanglement.Shuffled...)
	default:
		return nil
	}
}
