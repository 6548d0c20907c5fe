// Package session holds the derived state a party maintains as a function
// of a chain: the running shared key, the player roster, the stack
// registry and its reassignable name overlay, and every named distributed
// random generator. Grounded on the reference implementation's
// state/mod.rs State, generalized from its add_block/BlockAdder visitor
// into a flat per-payload dispatch.
package session

import (
	"github.com/rs/zerolog"

	"github.com/pbmx-go/pbmx/pkg/chain"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/rng"
	"github.com/pbmx-go/pbmx/pkg/stack"
	"github.com/pbmx-go/pbmx/pkg/vtmf"
)

// State is one party's view of a chain's derived game state: the VTMF
// shared-key accumulator, the chain itself, the player roster, the stack
// registry with its reassignable name overlay, and the named Rngs.
type State struct {
	vtmf *vtmf.Vtmf
	ch   *chain.Chain

	names []id.ID          // fingerprints in first-publication order
	named map[id.ID]string // fingerprint -> published name

	stacks     map[id.ID]stack.Stack
	stackNames map[string]id.ID // reassignable name -> stack Id overlay

	rngs map[string]*rng.Rng

	log zerolog.Logger
}

// New creates a blank State seeded with sk as its own private key. It
// logs nothing until SetLogger attaches a Logger.
func New(sk keys.PrivateKey) *State {
	return &State{
		vtmf:       vtmf.New(sk),
		ch:         chain.New(),
		named:      make(map[id.ID]string),
		stacks:     make(map[id.ID]stack.Stack),
		stackNames: make(map[string]id.ID),
		rngs:       make(map[string]*rng.Rng),
		log:        zerolog.Nop(),
	}
}

// SetLogger attaches the Logger Apply reports block validation and
// payload application events to.
func (s *State) SetLogger(log zerolog.Logger) { s.log = log }

// Chain returns the underlying chain, the surface the module's two
// external interfaces (Chain, Session) split along: append a block here,
// or ask the State what it means.
func (s *State) Chain() *chain.Chain { return s.ch }

// SharedKey returns the running shared public key H.
func (s *State) SharedKey() keys.PublicKey { return s.vtmf.SharedKey() }

// Vtmf exposes the underlying threshold masking function, needed by a
// caller that wants to mask, shuffle or unmask against the session's
// current H rather than just inspect it.
func (s *State) Vtmf() *vtmf.Vtmf { return s.vtmf }

// Parties returns every published party's fingerprint, in the order each
// was first published.
func (s *State) Parties() []id.ID { return append([]id.ID(nil), s.names...) }

// PartyName returns the published display name for fp, if any.
func (s *State) PartyName(fp id.ID) (string, bool) {
	name, ok := s.named[fp]
	return name, ok
}

// Stack looks up a stack by its content-addressed Id.
func (s *State) Stack(stackID id.ID) (stack.Stack, bool) {
	st, ok := s.stacks[stackID]
	return st, ok
}

// StackByName resolves a stack through the reassignable name overlay.
func (s *State) StackByName(name string) (stack.Stack, bool) {
	stackID, ok := s.stackNames[name]
	if !ok {
		return nil, false
	}
	return s.Stack(stackID)
}

// Rng looks up a named distributed random generator.
func (s *State) Rng(name string) (*rng.Rng, bool) {
	r, ok := s.rngs[name]
	return r, ok
}

// BuildBlock starts a Builder that acknowledges every current chain head,
// the way a party begins constructing its next move.
func (s *State) BuildBlock() *chain.Builder { return s.ch.BuildOn() }

// knownKeys builds the fingerprint->PublicKey map chain.Validate needs
// from the parties already folded into the shared key.
func (s *State) knownKeys() map[id.ID]keys.PublicKey {
	out := make(map[id.ID]keys.PublicKey, len(s.named))
	for _, pk := range s.vtmf.PublicKeys() {
		out[pk.Fingerprint()] = pk
	}
	return out
}

// clone returns a deep copy of s used to stage a block's payloads: if any
// payload turns out invalid the clone is discarded and s is untouched,
// giving Apply the same atomicity validate(block, chain) promises at the
// chain level ("either the block is fully validated and added, or the
// chain is unchanged").
func (s *State) clone() *State {
	names := append([]id.ID(nil), s.names...)

	named := make(map[id.ID]string, len(s.named))
	for fp, name := range s.named {
		named[fp] = name
	}

	stacks := make(map[id.ID]stack.Stack, len(s.stacks))
	for stackID, st := range s.stacks {
		stacks[stackID] = st
	}

	stackNames := make(map[string]id.ID, len(s.stackNames))
	for name, stackID := range s.stackNames {
		stackNames[name] = stackID
	}

	rngs := make(map[string]*rng.Rng, len(s.rngs))
	for name, r := range s.rngs {
		cp := *r
		rngs[name] = &cp
	}

	return &State{
		vtmf:       s.vtmf.Clone(),
		ch:         s.ch,
		names:      names,
		named:      named,
		stacks:     stacks,
		stackNames: stackNames,
		rngs:       rngs,
	}
}

// commit overwrites s's mutable fields with staged's, after staged has
// successfully replayed a block's payloads. The chain pointer is shared
// throughout, so it is never part of the swap.
func (s *State) commit(staged *State) {
	s.vtmf = staged.vtmf
	s.names = staged.names
	s.named = staged.named
	s.stacks = staged.stacks
	s.stackNames = staged.stackNames
	s.rngs = staged.rngs
}

func containsID(ids []id.ID, target id.ID) bool {
	for _, x := range ids {
		if x == target {
			return true
		}
	}
	return false
}
