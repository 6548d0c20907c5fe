package session_test

import (
	"testing"

	"github.com/pbmx-go/pbmx/pkg/chain"
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/keys"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/payload"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/session"
	"github.com/pbmx-go/pbmx/pkg/stack"
	"github.com/pbmx-go/pbmx/pkg/zkp/dlogeq"
	"github.com/stretchr/testify/require"
)

// parties holds two independently-driven States fed the exact same
// blocks, the way two players' own processes replay the same chain.
type parties struct {
	skA, skB keys.PrivateKey
	a, b     *session.State
}

func newParties(t *testing.T) *parties {
	t.Helper()
	skA := keys.Generate(curve.Rand)
	skB := keys.Generate(curve.Rand)
	return &parties{
		skA: skA, skB: skB,
		a: session.New(skA),
		b: session.New(skB),
	}
}

// broadcast applies block to both parties' State, the way every honest
// player eventually receives and replays every block.
func (p *parties) broadcast(t *testing.T, block chain.Block) {
	t.Helper()
	require.NoError(t, p.a.Apply(block))
	require.NoError(t, p.b.Apply(block))
}

// publishKeys has both parties self-publish a root block, then merges the
// two roots: the only path by which a not-yet-known signer's key can
// enter the chain (chain.Validate accepts a self-published key only on a
// root block, one with no acks).
func (p *parties) publishKeys(t *testing.T) {
	t.Helper()
	aBlock, err := chain.NewBuilder().
		AddPayload(payload.NewPublishKey("alice", p.skA.PublicKey())).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, aBlock)

	bBlock, err := chain.NewBuilder().
		AddPayload(payload.NewPublishKey("bob", p.skB.PublicKey())).
		Build(curve.Rand, p.skB)
	require.NoError(t, err)
	p.broadcast(t, bBlock)

	aID, _ := aBlock.Id()
	bID, _ := bBlock.Id()
	merge, err := chain.NewBuilder().Acknowledge(aID).Acknowledge(bID).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, merge)
}

func openStack(tokens ...uint64) stack.Stack {
	out := make(stack.Stack, len(tokens))
	for i, tok := range tokens {
		out[i] = mask.Open(mask.Embed(curve.Secp256k1{}, tok))
	}
	return out
}

func TestPublishKeySumsToSharedKey(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	require.True(t, p.a.SharedKey().Point().Equal(p.b.SharedKey().Point()))
	require.ElementsMatch(t, []id.ID{p.skA.Fingerprint(), p.skB.Fingerprint()}, p.a.Parties())

	name, ok := p.a.PartyName(p.skB.Fingerprint())
	require.True(t, ok)
	require.Equal(t, "bob", name)
}

// remaskStack is the test helper for the module's way of bringing a fresh
// masked stack into derived state: open known tokens, then remask every
// entry under the shared key with a mask_stack payload.
func remaskStack(t *testing.T, p *parties, open stack.Stack) (stack.Stack, id.ID) {
	t.Helper()
	openBlock, err := p.a.BuildBlock().AddPayload(payload.NewOpenStack(open)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, openBlock)
	openID, err := open.Id()
	require.NoError(t, err)

	hidden := make(stack.Stack, len(open))
	proofs := make([]dlogeq.Proof, len(open))
	for i := range open {
		hidden[i], proofs[i] = p.a.Vtmf().Remask(curve.Rand, open[i])
	}
	maskBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewMaskStack(openID, hidden, proofs)).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, maskBlock)

	hiddenID, err := hidden.Id()
	require.NoError(t, err)
	return hidden, hiddenID
}

func TestOpenStackThenMaskStackHidesTokens(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	hidden, hiddenID := remaskStack(t, p, openStack(7, 3))

	got, ok := p.b.Stack(hiddenID)
	require.True(t, ok)
	require.True(t, got.Equal(hidden))
}

func TestMaskStackRejectsForgedProof(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	open := openStack(1)
	openBlock, err := p.a.BuildBlock().AddPayload(payload.NewOpenStack(open)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, openBlock)
	openID, err := open.Id()
	require.NoError(t, err)

	forged, _ := p.a.Vtmf().Remask(curve.Rand, open[0])
	_, realProof := p.a.Vtmf().Remask(curve.Rand, open[0])

	before := p.a.Chain().Count()
	badBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewMaskStack(openID, stack.Stack{forged}, []dlogeq.Proof{realProof})).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)

	require.Error(t, p.a.Apply(badBlock))
	require.Equal(t, before, p.a.Chain().Count())
}

func TestShuffleNameAndTakeStack(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	src, srcID := remaskStack(t, p, openStack(0, 1, 2, 3))

	pi := perm.Random(curve.Rand, len(src))
	shuffled, shuffleProof := p.a.Vtmf().MaskShuffle(curve.Rand, src, pi)

	shuffleBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewShuffleStack(srcID, shuffled, shuffleProof)).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, shuffleBlock)
	shuffledID, err := stack.Stack(shuffled).Id()
	require.NoError(t, err)

	nameBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewNameStack(shuffledID, "deck")).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, nameBlock)

	named, ok := p.b.StackByName("deck")
	require.True(t, ok)
	require.True(t, named.Equal(shuffled))

	taken := stack.Stack{shuffled[0]}
	takenID, err := taken.Id()
	require.NoError(t, err)
	takeBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewTakeStack(shuffledID, []int{0}, takenID)).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, takeBlock)

	got, ok := p.b.Stack(takenID)
	require.True(t, ok)
	require.True(t, got.Equal(taken))
}

func TestTakeStackRejectsWrongDeclaredId(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	open := openStack(1, 2)
	openBlock, err := p.a.BuildBlock().AddPayload(payload.NewOpenStack(open)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, openBlock)
	openID, err := open.Id()
	require.NoError(t, err)

	before := p.a.Chain().Count()
	badBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewTakeStack(openID, []int{0}, id.ID{9, 9, 9})).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)

	require.Error(t, p.a.Apply(badBlock))
	require.Equal(t, before, p.a.Chain().Count())
}

func TestPileStacksConcatenatesInOrder(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	left, leftID := remaskStack(t, p, openStack(1))
	right, rightID := remaskStack(t, p, openStack(2))

	piled := append(append(stack.Stack(nil), left...), right...)
	piledID, err := piled.Id()
	require.NoError(t, err)

	pileBlock, err := p.a.BuildBlock().
		AddPayload(payload.NewPileStacks([]id.ID{leftID, rightID}, piledID)).
		Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, pileBlock)

	got, ok := p.b.Stack(piledID)
	require.True(t, ok)
	require.True(t, got.Equal(piled))
}

func TestRandomGeneratorAgreesAcrossParties(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	specBlock, err := p.a.BuildBlock().AddPayload(payload.NewRandomSpec("roll", "1d6")).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, specBlock)

	entropyA := p.a.Vtmf().MaskRandom(curve.Rand)
	entropyB := p.b.Vtmf().MaskRandom(curve.Rand)

	entropyBlockA, err := p.a.BuildBlock().AddPayload(payload.NewRandomEntropy("roll", entropyA)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, entropyBlockA)

	entropyBlockB, err := p.b.BuildBlock().AddPayload(payload.NewRandomEntropy("roll", entropyB)).Build(curve.Rand, p.skB)
	require.NoError(t, err)
	p.broadcast(t, entropyBlockB)

	rA, ok := p.a.Rng("roll")
	require.True(t, ok)
	require.True(t, rA.IsGenerated())

	shareA, proofA := p.a.Vtmf().UnmaskShare(rA.Mask())
	shareB, proofB := p.b.Vtmf().UnmaskShare(rA.Mask())

	revealBlockA, err := p.a.BuildBlock().AddPayload(payload.NewRandomReveal("roll", shareA, proofA)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, revealBlockA)

	revealBlockB, err := p.b.BuildBlock().AddPayload(payload.NewRandomReveal("roll", shareB, proofB)).Build(curve.Rand, p.skB)
	require.NoError(t, err)
	p.broadcast(t, revealBlockB)

	rB, ok := p.b.Rng("roll")
	require.True(t, ok)
	require.True(t, rB.IsRevealed())

	valA, err := rA.Gen(p.a.Vtmf())
	require.NoError(t, err)
	valB, err := rB.Gen(p.b.Vtmf())
	require.NoError(t, err)
	require.Equal(t, valA, valB)
	require.GreaterOrEqual(t, valA, uint64(1))
	require.LessOrEqual(t, valA, uint64(6))
}

func TestRandomEntropyRejectsDuplicateParty(t *testing.T) {
	p := newParties(t)
	p.publishKeys(t)

	specBlock, err := p.a.BuildBlock().AddPayload(payload.NewRandomSpec("roll", "1d6")).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, specBlock)

	entropy := p.a.Vtmf().MaskRandom(curve.Rand)
	first, err := p.a.BuildBlock().AddPayload(payload.NewRandomEntropy("roll", entropy)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	p.broadcast(t, first)

	again, err := p.a.BuildBlock().AddPayload(payload.NewRandomEntropy("roll", entropy)).Build(curve.Rand, p.skA)
	require.NoError(t, err)
	require.Error(t, p.a.Apply(again))
}
