// Package chain implements the append-only, signed, hash-chained DAG of
// blocks that records every game-state transition, grounded on the
// reference implementation's chain/block.rs and chain/chain.rs.
package chain

import (
	"io"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/payload"
	"github.com/pbmx-go/pbmx/pkg/wire"
)

// Block is an immutable, signed unit of chain history: a set of
// acknowledged parent Ids, an ordered payload list, and the signature of
// the party that built it.
type Block struct {
	Acks     []id.ID
	Payloads []payload.Payload
	Signer   id.ID
	Sig      keys.Signature
}

type blockWire struct {
	Acks     []id.ID
	Payloads []payload.Payload
	Signer   id.ID
}

// preSignatureEncoding is the canonical encoding hashed to form a block's
// Id: acks, payloads and signer fingerprint, never the signature itself
// ("the canonical pre-signature encoding is hashed to form the block Id").
func (b Block) preSignatureEncoding() ([]byte, error) {
	return wire.Marshal(blockWire{Acks: b.Acks, Payloads: b.Payloads, Signer: b.Signer})
}

// Id hashes b's canonical pre-signature encoding.
func (b Block) Id() (id.ID, error) {
	enc, err := b.preSignatureEncoding()
	if err != nil {
		return id.ID{}, err
	}
	return id.Of("pbmx-block", enc), nil
}

// signingMessage reduces a block's Id to the scalar the signer signs,
// mirroring the reference implementation's Scalar::from_hash(chained acks,
// payload ids, signer fp) while following spec's simpler framing: the
// message a party signs is the block's own Id.
func signingMessage(blockID id.ID) curve.Scalar {
	return curve.ReduceBytes(blockID[:])
}

// Verify checks b's signature against the public key of its claimed
// signer. The caller supplies that key (looked up from already-validated
// chain state); Verify itself only checks the cryptographic relation.
func (b Block) Verify(signerKey keys.PublicKey) (bool, error) {
	blockID, err := b.Id()
	if err != nil {
		return false, err
	}
	return signerKey.Verify(signingMessage(blockID), b.Sig), nil
}

// Builder accumulates acks and payloads before signing a new Block.
type Builder struct {
	acks     []id.ID
	payloads []payload.Payload
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Acknowledge records b as one of the new block's parents.
func (b *Builder) Acknowledge(parent id.ID) *Builder {
	b.acks = append(b.acks, parent)
	return b
}

// AddPayload appends a payload to the new block, in the order it will
// appear and be replayed.
func (b *Builder) AddPayload(p payload.Payload) *Builder {
	b.payloads = append(b.payloads, p)
	return b
}

// Build signs the accumulated acks and payloads with sk, drawing the
// signature nonce from r, and returns the finished Block. Acks are sorted
// ascending by Id first, satisfying the chain's "parents are
// lexicographically sorted" invariant regardless of acknowledgement
// order.
func (b *Builder) Build(r io.Reader, sk keys.PrivateKey) (Block, error) {
	acks := append([]id.ID(nil), b.acks...)
	id.SortIDs(acks)

	block := Block{
		Acks:     acks,
		Payloads: append([]payload.Payload(nil), b.payloads...),
		Signer:   sk.Fingerprint(),
	}

	blockID, err := block.Id()
	if err != nil {
		return Block{}, err
	}
	block.Sig = sk.Sign(r, signingMessage(blockID))
	return block, nil
}
