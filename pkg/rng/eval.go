package rng

import (
	"encoding/binary"
	"io"
)

// bitIterator draws bits one at a time from an XOF reader, refilling its
// internal buffer 8 bytes at a time. Grounded on the reference
// implementation's spec::BitIterator (state/rng.rs).
type bitIterator struct {
	r         io.Reader
	current   uint64
	available int
}

func newBitIterator(r io.Reader) *bitIterator {
	return &bitIterator{r: r}
}

func (b *bitIterator) next() bool {
	if b.available == 0 {
		var buf [8]byte
		if _, err := io.ReadFull(b.r, buf[:]); err != nil {
			panic(err)
		}
		b.current = binary.LittleEndian.Uint64(buf[:])
		b.available = 64
	}
	bit := b.current&1 != 0
	b.current >>= 1
	b.available--
	return bit
}

// fdr draws a uniform value in [0, d) from a stream of fair coin flips via
// Lumbroso's fast dice roller, grounded on the reference implementation's
// spec::fdr.
func fdr(d uint64, bits *bitIterator) uint64 {
	var rangeV, value uint64 = 1, 0
	for {
		b := uint64(0)
		if bits.next() {
			b = 1
		}
		rangeV <<= 1
		value = value<<1 | b
		if rangeV >= d {
			if value < d {
				return value
			}
			rangeV -= d
			value -= d
		}
	}
}

// eval evaluates e against a stream of entropy: each die term sums n
// draws of fdr(sides)+1 (so a dM die yields values in [1,sides]),
// combined left to right by each term's operator.
func (e expr) eval(r io.Reader) uint64 {
	bits := newBitIterator(r)
	var total uint64
	for i, t := range e.terms {
		v := t.node.eval(bits)
		if i == 0 {
			total = v
			continue
		}
		if t.op == opSub {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func (n node) eval(bits *bitIterator) uint64 {
	if n.kind == nodeConst {
		return n.value
	}
	var sum uint64
	for i := uint64(0); i < n.value; i++ {
		sum += fdr(n.sides, bits) + 1
	}
	return sum
}
