package session

import (
	"github.com/pbmx-go/pbmx/pkg/chain"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/payload"
	"github.com/pbmx-go/pbmx/pkg/rng"
	"github.com/pbmx-go/pbmx/pkg/stack"
)

// Apply validates block against the chain's structural rules and every
// payload's cryptographic proofs, then, only if the whole block checks
// out, folds its payloads into the derived state and appends it to the
// chain. A block that fails any check leaves both the chain and the
// derived state exactly as they were, matching the module's append
// invariant: "either the block is fully validated and added, or the chain
// is unchanged".
func (s *State) Apply(block chain.Block) error {
	blockID, idErr := block.Id()
	log := s.log.With().Str("signer", block.Signer.String()).Logger()
	if idErr == nil {
		log = log.With().Str("block", blockID.String()).Logger()
	}
	log.Debug().Int("payloads", len(block.Payloads)).Msg("validating block")

	if err := s.ch.Validate(block, s.knownKeys()); err != nil {
		log.Warn().Err(err).Msg("block rejected at chain level")
		return err
	}

	staged := s.clone()
	for i, p := range block.Payloads {
		if err := staged.applyPayload(block.Signer, p); err != nil {
			log.Warn().Err(err).Int("payload", i).Str("tag", p.Tag.String()).Msg("payload rejected")
			return err
		}
	}

	if err := s.ch.Add(block); err != nil {
		return err
	}
	s.commit(staged)
	log.Debug().Msg("block applied")
	return nil
}

// applyPayload dispatches on p's Tag, checking the proof(s) it carries
// against this (staged) state's current H and referenced stacks, and
// mutating state only once the check passes. This flat switch is the
// module's exhaustive-match substitute for the reference implementation's
// PayloadVisitor: one case per payload kind, no per-variant interface.
//
// Claims and the Subset/Superset/Disjoint proof kinds the reference state
// machine also dispatches are intentionally absent: this module's Proof
// type is the closed set {DlogEq, Shuffle, Rotation, Entanglement,
// Insertion}, so
// there is nothing here to route those three cases to.
func (s *State) applyPayload(signer id.ID, p payload.Payload) error {
	switch p.Tag {
	case payload.TagBytes, payload.TagText:
		return nil

	case payload.TagPublishKey:
		return s.applyPublishKey(signer, p.PublishKey)
	case payload.TagOpenStack:
		return s.applyOpenStack(p.OpenStack)
	case payload.TagMaskStack:
		return s.applyMaskStack(p.MaskStack)
	case payload.TagShuffleStack:
		return s.applyShuffleStack(p.ShuffleStack)
	case payload.TagShiftStack:
		return s.applyShiftStack(p.ShiftStack)
	case payload.TagInsertStack:
		return s.applyInsertStack(p.InsertStack)
	case payload.TagTakeStack:
		return s.applyTakeStack(p.TakeStack)
	case payload.TagPileStacks:
		return s.applyPileStacks(p.PileStacks)
	case payload.TagNameStack:
		return s.applyNameStack(p.NameStack)
	case payload.TagPublishShares:
		return s.applyPublishShares(signer, p.PublishShares)
	case payload.TagRandomSpec:
		return s.applyRandomSpec(p.RandomSpec)
	case payload.TagRandomEntropy:
		return s.applyRandomEntropy(signer, p.RandomEntropy)
	case payload.TagRandomReveal:
		return s.applyRandomReveal(signer, p.RandomReveal)
	case payload.TagProveEntanglement:
		return s.applyProveEntanglement(p.ProveEntanglement)

	default:
		return pbmxerr.New(pbmxerr.Decoding, "session.applyPayload: unknown tag")
	}
}

func (s *State) applyPublishKey(signer id.ID, p *payload.PublishKey) error {
	if signer != p.PublicKey.Fingerprint() {
		return pbmxerr.New(pbmxerr.ChainIntegrity, "session.applyPublishKey: signer does not own key")
	}
	s.vtmf.AddKey(p.PublicKey)
	if _, known := s.named[signer]; !known {
		s.names = append(s.names, signer)
	}
	s.named[signer] = p.Name
	return nil
}

func (s *State) applyOpenStack(p *payload.OpenStack) error {
	for _, m := range p.Stack {
		if !m.IsOpen() {
			return pbmxerr.New(pbmxerr.ProofInvalid, "session.applyOpenStack: mask not open")
		}
	}
	return s.insertStack(p.Stack)
}

func (s *State) applyMaskStack(p *payload.MaskStack) error {
	src, ok := s.Stack(p.Source)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyMaskStack")
	}
	if len(src) != len(p.Result) || len(src) != len(p.Proofs) {
		return pbmxerr.New(pbmxerr.ShapeMismatch, "session.applyMaskStack")
	}
	for i := range src {
		if err := s.vtmf.VerifyRemask(src[i], p.Result[i], p.Proofs[i]); err != nil {
			return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyMaskStack", err)
		}
	}
	return s.insertStack(p.Result)
}

func (s *State) applyShuffleStack(p *payload.ShuffleStack) error {
	src, ok := s.Stack(p.Source)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyShuffleStack")
	}
	if err := s.vtmf.VerifyMaskShuffle(src, p.Result, p.Proof); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyShuffleStack", err)
	}
	return s.insertStack(p.Result)
}

func (s *State) applyShiftStack(p *payload.ShiftStack) error {
	src, ok := s.Stack(p.Source)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyShiftStack")
	}
	if err := s.vtmf.VerifyMaskShift(src, p.Result, p.Proof); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyShiftStack", err)
	}
	return s.insertStack(p.Result)
}

func (s *State) applyInsertStack(p *payload.InsertStack) error {
	src, ok := s.Stack(p.Source)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyInsertStack")
	}
	needle, ok := s.Stack(p.Needle)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyInsertStack")
	}
	if err := s.vtmf.VerifyMaskInsert(src, needle, p.Result, p.Proof); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyInsertStack", err)
	}
	return s.insertStack(p.Result)
}

func (s *State) applyTakeStack(p *payload.TakeStack) error {
	src, ok := s.Stack(p.Source)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyTakeStack")
	}
	result := make(stack.Stack, len(p.Indices))
	for i, idx := range p.Indices {
		if idx < 0 || idx >= len(src) {
			return pbmxerr.New(pbmxerr.ShapeMismatch, "session.applyTakeStack: index out of range")
		}
		result[i] = src[idx]
	}
	return s.insertStackAs(result, p.Result)
}

func (s *State) applyPileStacks(p *payload.PileStacks) error {
	var result stack.Stack
	for _, srcID := range p.Sources {
		src, ok := s.Stack(srcID)
		if !ok {
			return pbmxerr.New(pbmxerr.StackUnknown, "session.applyPileStacks")
		}
		result = append(result, src...)
	}
	return s.insertStackAs(result, p.Result)
}

func (s *State) applyNameStack(p *payload.NameStack) error {
	if _, ok := s.Stack(p.Target); !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyNameStack")
	}
	s.stackNames[p.Name] = p.Target
	return nil
}

func (s *State) applyPublishShares(signer id.ID, p *payload.PublishShares) error {
	target, ok := s.Stack(p.Target)
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyPublishShares")
	}
	if len(target) != len(p.Shares) || len(target) != len(p.Proofs) {
		return pbmxerr.New(pbmxerr.ShapeMismatch, "session.applyPublishShares")
	}
	for i := range target {
		if err := s.vtmf.VerifyUnmask(target[i], signer, p.Shares[i], p.Proofs[i]); err != nil {
			return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyPublishShares", err)
		}
	}
	// Combining published shares into a locally-decryptable stack is left
	// to the collaborator driving this Session: the module's derived
	// state (Parties, SharedKey, Stacks, Rngs) has no per-stack secret
	// accumulator of its own, so there is nothing further to mutate here.
	return nil
}

func (s *State) applyRandomSpec(p *payload.RandomSpec) error {
	if existing, ok := s.rngs[p.Name]; ok {
		candidate, err := rng.New(group, s.vtmf.Parties(), p.Spec)
		if err != nil || candidate.Spec() != existing.Spec() {
			return pbmxerr.New(pbmxerr.SpecParseError, "session.applyRandomSpec: redeclared with different spec")
		}
		return nil
	}
	r, err := rng.New(group, s.vtmf.Parties(), p.Spec)
	if err != nil {
		return pbmxerr.Wrap(pbmxerr.SpecParseError, "session.applyRandomSpec", err)
	}
	s.rngs[p.Name] = r
	return nil
}

func (s *State) applyRandomEntropy(signer id.ID, p *payload.RandomEntropy) error {
	r, ok := s.rngs[p.Name]
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyRandomEntropy: unknown rng")
	}
	if r.IsGenerated() || containsID(r.EntropyParties(), signer) {
		return pbmxerr.New(pbmxerr.ChainIntegrity, "session.applyRandomEntropy: duplicate or late entropy")
	}
	r.AddEntropy(signer, p.Share)
	return nil
}

func (s *State) applyRandomReveal(signer id.ID, p *payload.RandomReveal) error {
	r, ok := s.rngs[p.Name]
	if !ok {
		return pbmxerr.New(pbmxerr.StackUnknown, "session.applyRandomReveal: unknown rng")
	}
	if r.IsRevealed() || containsID(r.SecretParties(), signer) {
		return pbmxerr.New(pbmxerr.ChainIntegrity, "session.applyRandomReveal: duplicate or late reveal")
	}
	if err := s.vtmf.VerifyUnmask(r.Mask(), signer, p.Share, p.Proof); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyRandomReveal", err)
	}
	r.AddSecret(signer, p.Share)
	return nil
}

func (s *State) applyProveEntanglement(p *payload.ProveEntanglement) error {
	sources, err := s.stacksByID(p.Sources)
	if err != nil {
		return err
	}
	shuffled, err := s.stacksByID(p.Shuffled)
	if err != nil {
		return err
	}
	if err := s.vtmf.VerifyEntanglement(sources, shuffled, p.Proof); err != nil {
		return pbmxerr.Wrap(pbmxerr.ProofInvalid, "session.applyProveEntanglement", err)
	}
	return nil
}

func (s *State) stacksByID(ids []id.ID) ([][]mask.Mask, error) {
	out := make([][]mask.Mask, len(ids))
	for i, stackID := range ids {
		st, ok := s.Stack(stackID)
		if !ok {
			return nil, pbmxerr.New(pbmxerr.StackUnknown, "session.stacksByID")
		}
		out[i] = st
	}
	return out, nil
}

// insertStack stores st keyed by its own computed content Id, the
// resolution every mask/shuffle/shift/insert payload uses: the result
// stack carries its Id implicitly in its content.
func (s *State) insertStack(st stack.Stack) error {
	stackID, err := st.Id()
	if err != nil {
		return err
	}
	s.stacks[stackID] = st
	return nil
}

// insertStackAs stores st only if its computed content Id matches want,
// the check take_stack and pile_stacks payloads need since they declare
// their result Id explicitly rather than carrying the stack's content.
func (s *State) insertStackAs(st stack.Stack, want id.ID) error {
	got, err := st.Id()
	if err != nil {
		return err
	}
	if got != want {
		return pbmxerr.New(pbmxerr.ShapeMismatch, "session.insertStackAs: declared Id does not match content")
	}
	s.stacks[want] = st
	return nil
}

var group curve.Curve = curve.Secp256k1{}
