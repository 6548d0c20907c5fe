// Package id provides the single 20-byte content-hash identifier type
// shared by party fingerprints, stack ids, and block ids, the way the
// reference implementation aliases one Fingerprint type across all three
// ("pub use crate::crypto::keys::Fingerprint as Id").
package id

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Size is the identifier length in bytes.
const Size = 20

// ID identifies a party (by public key), a stack (by canonical content),
// or a block (by canonical pre-signature encoding).
type ID [Size]byte

// Of hashes domain-separated data into an ID, truncating a blake3 digest
// to Size bytes the way the reference crate's Fingerprint::of<T> truncates
// a generic hash.
func Of(domain string, data []byte) ID {
	h := blake3.New()
	h.Write([]byte(domain))
	h.Write(data)
	sum := h.Sum(nil)
	var out ID
	copy(out[:], sum[:Size])
	return out
}

func (i ID) String() string {
	return hex.EncodeToString(i[:])
}

func (i ID) IsZero() bool {
	return i == ID{}
}

// Less orders IDs lexicographically by byte value, the ordering the chain
// layer uses to break ties between concurrently-ready blocks so that every
// party's topological replay visits them in the same sequence.
func (i ID) Less(other ID) bool {
	for k := range i {
		if i[k] != other[k] {
			return i[k] < other[k]
		}
	}
	return false
}

func ParseString(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("id: %w", err)
	}
	if len(b) != Size {
		return ID{}, fmt.Errorf("id: wrong length %d", len(b))
	}
	var out ID
	copy(out[:], b)
	return out, nil
}

// SortIDs sorts ids ascending in place, used both to build a block's ack
// set (spec's "parents are lexicographically sorted by Id") and to order
// concurrently-ready blocks during replay.
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
