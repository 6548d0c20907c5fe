// Package rng implements the session's distributed dice-expression random
// number generator: parties jointly contribute entropy and later reveal
// shares, and every party who replays the same contributions derives the
// same integer. Grounded on the reference implementation's state/rng.rs.
//
// The die term's range is adjusted to [1,sides] rather than the reference
// implementation's [0,sides). The distilled specification's own worked
// example ("1d6" yields a value in [1..6]") pins this down explicitly,
// diverging from fdr's raw [0,d) output; see DESIGN.md.
package rng

import (
	"io"

	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
)

// Unmasker derives a pseudorandom stream from a fully-opened mask, the
// subset of pkg/vtmf's Vtmf that Gen needs. Decoupled into an interface so
// this package never imports vtmf.
type Unmasker interface {
	UnmaskRandom(m mask.Mask) (io.Reader, error)
}

// Rng is a distributed random number generator shared by parties
// parties, yielding a value matching spec once every party's entropy and
// secret contributions have been collected.
type Rng struct {
	parties int
	spec    expr
	specStr string

	entropy   mask.Mask
	entropyFp []id.ID

	secret   curve.Point
	secretFp []id.ID
}

// New creates an Rng for the given number of parties, parsing spec
// ("1d6", "2d8+3", "3d4-1d4") per the grammar documented on expr in spec.go.
func New(group curve.Curve, parties int, spec string) (*Rng, error) {
	e, err := parse(spec)
	if err != nil {
		return nil, err
	}
	return &Rng{
		parties:   parties,
		spec:      e,
		specStr:   spec,
		entropy:   mask.Open(group.NewPoint()),
		secret:    group.NewPoint(),
		entropyFp: nil,
		secretFp:  nil,
	}, nil
}

// Spec returns the Rng's canonicalized specification string.
func (r *Rng) Spec() string { return r.spec.String() }

// Mask returns the Rng's running entropy mask.
func (r *Rng) Mask() mask.Mask { return r.entropy }

// AddEntropy folds party's contribution into the running entropy mask.
func (r *Rng) AddEntropy(party id.ID, share mask.Mask) {
	r.entropy = r.entropy.Add(share)
	r.entropyFp = append(r.entropyFp, party)
}

// AddSecret folds party's revealed share into the running secret.
func (r *Rng) AddSecret(party id.ID, share curve.Point) {
	r.secret = r.secret.Add(share)
	r.secretFp = append(r.secretFp, party)
}

// EntropyParties returns the parties that have contributed entropy so far.
func (r *Rng) EntropyParties() []id.ID { return r.entropyFp }

// SecretParties returns the parties that have revealed a secret share so
// far.
func (r *Rng) SecretParties() []id.ID { return r.secretFp }

// IsGenerated reports whether every current party has contributed
// entropy.
func (r *Rng) IsGenerated() bool { return len(r.entropyFp) == r.parties }

// IsRevealed reports whether every current party has revealed a secret
// share.
func (r *Rng) IsRevealed() bool { return len(r.secretFp) == r.parties }

// Gen unmasks the accumulated entropy with the accumulated secret shares
// and evaluates spec against the resulting pseudorandom stream.
func (r *Rng) Gen(u Unmasker) (uint64, error) {
	if !r.IsGenerated() || !r.IsRevealed() {
		return 0, pbmxerr.New(pbmxerr.ExhaustedRecovery, "rng.Gen")
	}
	opened := mask.Mask{C1: r.entropy.C1, C2: r.entropy.C2.Sub(r.secret)}
	reader, err := u.UnmaskRandom(opened)
	if err != nil {
		return 0, err
	}
	return r.spec.eval(reader), nil
}
