package sat

import "fmt"

// Var is a dense, zero-based variable identifier.
type Var int

// maxVars is the hard cap on the number of variables a Solver can hold
// (spec: variable count capped at 2^30).
const maxVars = 1 << 30

// Literal represents a literal, which is either a boolean variable or its
// negation. It is encoded as 2*v+s with s in {0,1}, so that negation is a
// bit-flip and Int gives a contiguous index into watch arrays sized 2*nVars.
type Literal int

// LitUndef is a sentinel literal distinct from every literal that can be
// built from a valid Var. It is used as a placeholder ancestor for
// decisions and for the synthetic probe-root reason (spec §4.4.5).
const LitUndef Literal = -1

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v Var) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v Var) Literal {
	return Literal(v*2 + 1)
}

// Var returns the literal's variable.
func (l Literal) Var() Var {
	return Var(l / 2)
}

// VarID returns the ID of the literal's variable (kept alongside Var() for
// call sites that only need the bare int, e.g. array indexing helpers).
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represents the value
// of its boolean variable (i.e. not its negation).
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Sign returns 0 for a positive literal, 1 for a negative one.
func (l Literal) Sign() int {
	return int(l & 1)
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

// Int returns the contiguous index of the literal into a watch array sized
// 2*nVars.
func (l Literal) Int() int {
	return int(l)
}

func (l Literal) String() string {
	if l == LitUndef {
		return "undef"
	}
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("!%d", l.VarID())
}
