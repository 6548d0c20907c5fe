// Package stack implements the masked stack type that flows through a
// session: an ordered sequence of masks, content-addressed by a stable Id
// so that two parties who derive the same sequence independently agree on
// its identifier without exchanging one. Grounded on the reference
// implementation's vtmf/stack.rs.
package stack

import (
	"github.com/pbmx-go/pbmx/pkg/id"
	"github.com/pbmx-go/pbmx/pkg/mask"
	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
)

// Stack is an ordered sequence of masks.
type Stack []mask.Mask

// Id returns the content-addressed identifier of s: a hash of every mask's
// canonical encoding in order, so that two stacks with the same masks in
// the same order always share an Id regardless of how they were derived.
func (s Stack) Id() (id.ID, error) {
	buf := make([]byte, 0, len(s)*66)
	for _, m := range s {
		c1, err := m.C1.MarshalBinary()
		if err != nil {
			return id.ID{}, pbmxerr.Wrap(pbmxerr.Decoding, "stack.Id", err)
		}
		c2, err := m.C2.MarshalBinary()
		if err != nil {
			return id.ID{}, pbmxerr.Wrap(pbmxerr.Decoding, "stack.Id", err)
		}
		buf = append(buf, c1...)
		buf = append(buf, c2...)
	}
	return id.Of("pbmx-stack", buf), nil
}

// Equal reports whether s and other hold the same masks in the same
// order.
func (s Stack) Equal(other Stack) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s Stack) Clone() Stack {
	out := make(Stack, len(s))
	copy(out, s)
	return out
}
