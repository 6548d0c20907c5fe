// Package entanglement proves that several parallel stacks were shuffled by
// the same secret permutation, by combining each adjacent pair of stacks
// into one and running the secret shuffle proof on the combination.
// Grounded on the reference implementation's crypto/proofs/entanglement.rs.
package entanglement

import (
	"github.com/pbmx-go/pbmx/pkg/curve"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
	"github.com/pbmx-go/pbmx/pkg/perm"
	"github.com/pbmx-go/pbmx/pkg/transcript"
	"github.com/pbmx-go/pbmx/pkg/zkp/shuffle"
)

var group curve.Curve = curve.Secp256k1{}

// Proof is one secret_shuffle proof per adjacent pair of parallel stacks.
type Proof struct {
	Tangles []shuffle.Proof
}

// Publics are the public statement: the shared key H and the parallel
// stacks before (E0) and after (E1) the shared shuffle, each a slice of
// equal-length mask sequences.
type Publics struct {
	H  curve.Point
	E0 [][]mask.Mask
	E1 [][]mask.Mask
}

// Secrets is the witness: the shared permutation and, per stack, the
// re-randomization factors used.
type Secrets struct {
	Pi perm.Permutation
	R  [][]curve.Scalar
}

// twoToThe64 is the scalar 2^64, the fixed multiplier entangle uses to
// combine two parallel values into one without collision for any pair of
// 64-bit-range values.
func twoToThe64() curve.Scalar {
	var buf [32]byte
	buf[23] = 1
	return curve.ReduceBytes(buf[:])
}

func entangleMasks(a, b []mask.Mask) []mask.Mask {
	two64 := twoToThe64()
	out := make([]mask.Mask, len(a))
	for i := range out {
		out[i] = a[i].Scale(two64).Add(b[i])
	}
	return out
}

func entangleScalars(a, b []curve.Scalar) []curve.Scalar {
	two64 := twoToThe64()
	out := make([]curve.Scalar, len(a))
	for i := range out {
		out[i] = a[i].Mul(two64).Add(b[i])
	}
	return out
}

// Create generates one shuffle proof per adjacent pair of stacks, each over
// the pair's entangled combination.
func Create(t *transcript.Transcript, pub Publics, sec Secrets) Proof {
	t.Append("domain-sep", []byte("entanglement"))

	tangles := make([]shuffle.Proof, len(pub.E0)-1)
	for i := 0; i < len(pub.E0)-1; i++ {
		e0 := entangleMasks(pub.E0[i], pub.E0[i+1])
		e1 := entangleMasks(pub.E1[i], pub.E1[i+1])
		r := entangleScalars(sec.R[i], sec.R[i+1])

		tangles[i] = shuffle.Create(t, shuffle.Publics{H: pub.H, E0: e0, E1: e1},
			shuffle.Secrets{Pi: sec.Pi, R: r})
	}
	return Proof{Tangles: tangles}
}

// Verify checks proof against the public statement.
func Verify(t *transcript.Transcript, pub Publics, proof Proof) error {
	t.Append("domain-sep", []byte("entanglement"))

	if len(proof.Tangles) != len(pub.E0)-1 {
		return pbmxerr.New(pbmxerr.ProofInvalid, "entanglement.Verify")
	}

	for i := 0; i < len(pub.E0)-1; i++ {
		e0 := entangleMasks(pub.E0[i], pub.E0[i+1])
		e1 := entangleMasks(pub.E1[i], pub.E1[i+1])

		if err := shuffle.Verify(t, shuffle.Publics{H: pub.H, E0: e0, E1: e1}, proof.Tangles[i]); err != nil {
			return pbmxerr.Wrap(pbmxerr.ProofInvalid, "entanglement.Verify", err)
		}
	}
	return nil
}
