package rng

import (
	"strconv"
	"strings"

	"github.com/pbmx-go/pbmx/pkg/pbmxerr"
)

// node is one term of a parsed dice expression.
type node struct {
	// kind is either nodeConst or nodeDie.
	kind  nodeKind
	value uint64 // nodeConst: the constant; nodeDie: number of dice (n)
	sides uint64 // nodeDie only: die sides (m)
}

type nodeKind int

const (
	nodeConst nodeKind = iota
	nodeDie
)

func (n node) String() string {
	switch n.kind {
	case nodeDie:
		return strconv.FormatUint(n.value, 10) + "d" + strconv.FormatUint(n.sides, 10)
	default:
		return strconv.FormatUint(n.value, 10)
	}
}

type opKind int

const (
	opAdd opKind = iota
	opSub
)

func (o opKind) String() string {
	if o == opSub {
		return "-"
	}
	return "+"
}

// term pairs a node with the operator that combines it into the running
// total (the first term's operator is always opAdd).
type term struct {
	op   opKind
	node node
}

// expr is a sum of terms: spec's grammar "constant | nonzero 'd' nonzero |
// expr ('+'|'-') term", left-associated into a flat list of terms so
// evaluation and display are a single pass instead of a recursive descent.
type expr struct {
	terms []term
}

func (e expr) String() string {
	var b strings.Builder
	for i, t := range e.terms {
		if i == 0 {
			b.WriteString(t.node.String())
			continue
		}
		b.WriteString(t.op.String())
		b.WriteString(t.node.String())
	}
	return b.String()
}

// parse parses a spec string into an expr, grounded on the reference
// implementation's nom-based grammar (state/rng.rs's spec module):
// a leading die or constant followed by any number of (+|-) terms.
func parse(input string) (expr, error) {
	p := &parser{s: strings.TrimSpace(input)}
	e, err := p.parseExpr()
	if err != nil {
		return expr{}, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return expr{}, pbmxerr.New(pbmxerr.SpecParseError, "rng.parse")
	}
	return e, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *parser) parseNumber() (uint64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, pbmxerr.New(pbmxerr.SpecParseError, "rng.parseNumber")
	}
	v, err := strconv.ParseUint(p.s[start:p.pos], 10, 64)
	if err != nil {
		return 0, pbmxerr.Wrap(pbmxerr.SpecParseError, "rng.parseNumber", err)
	}
	return v, nil
}

// parseNode parses a single term: either "n" or "NdM".
func (p *parser) parseNode() (node, error) {
	n, err := p.parseNumber()
	if err != nil {
		return node{}, err
	}
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == 'd' {
		p.pos++
		if n == 0 {
			return node{}, pbmxerr.New(pbmxerr.SpecParseError, "rng.parseNode")
		}
		m, err := p.parseNumber()
		if err != nil {
			return node{}, err
		}
		if m == 0 {
			return node{}, pbmxerr.New(pbmxerr.SpecParseError, "rng.parseNode")
		}
		return node{kind: nodeDie, value: n, sides: m}, nil
	}
	return node{kind: nodeConst, value: n}, nil
}

func (p *parser) parseExpr() (expr, error) {
	first, err := p.parseNode()
	if err != nil {
		return expr{}, err
	}
	e := expr{terms: []term{{op: opAdd, node: first}}}

	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			break
		}
		p.pos++
		op := opAdd
		if c == '-' {
			op = opSub
		}
		n, err := p.parseNode()
		if err != nil {
			return expr{}, err
		}
		e.terms = append(e.terms, term{op: op, node: n})
	}
	return e, nil
}
