package sat

// reasonKind discriminates the variants of Reason (spec §3.2 PropBy).
type reasonKind uint8

const (
	reasonNone reasonKind = iota
	reasonBinary
	reasonTernary
	reasonLong
)

// Reason identifies why a literal was enqueued: a decision/assumption
// (None), the other literal of a binary clause (Binary), the two other
// literals of a ternary clause (Ternary), or an arena offset of a long
// clause (Long).
//
// The hyperbin/hyperbinNotAdded flags are meaningful only inside the
// prober (spec §4.5): they mark a reason that corresponds to a
// not-yet-materialized hyper-binary clause.
type Reason struct {
	kind reasonKind

	// Binary: lit1 is the propagating mate. Ternary: lit1, lit2 are the
	// clause's other two literals.
	lit1, lit2 Literal

	learnt           bool
	hyperbin         bool
	hyperbinNotAdded bool

	ref ClauseRef // valid iff kind == reasonLong
}

// NoReason is the reason attached to a decision or an assumption.
var NoReason = Reason{kind: reasonNone}

// BinaryReason builds the reason for a literal enqueued by a binary clause
// whose other literal is other.
func BinaryReason(other Literal, learnt bool) Reason {
	return Reason{kind: reasonBinary, lit1: other, learnt: learnt}
}

// hyperBinaryReason builds a binary reason carrying the hyper-binary
// book-keeping flags used by propagateFull (spec §4.4.5).
func hyperBinaryReason(other Literal, learnt, hyperbin, hyperbinNotAdded bool) Reason {
	return Reason{
		kind:             reasonBinary,
		lit1:             other,
		learnt:           learnt,
		hyperbin:         hyperbin,
		hyperbinNotAdded: hyperbinNotAdded,
	}
}

// TernaryReason builds the reason for a literal enqueued by a ternary
// clause whose other two literals are other1, other2.
func TernaryReason(other1, other2 Literal) Reason {
	return Reason{kind: reasonTernary, lit1: other1, lit2: other2}
}

// LongReason builds the reason for a literal enqueued by the long clause
// stored at the given arena offset.
func LongReason(ref ClauseRef) Reason {
	return Reason{kind: reasonLong, ref: ref}
}

// probeRootReason is the distinguished marker set on the root literal of a
// probe (spec §4.4.5: "The root literal of this probe has its reason set
// to a distinguished 'probe root' marker").
func probeRootReason() Reason {
	return Reason{kind: reasonBinary, lit1: LitUndef.Opposite()}
}

func (r Reason) IsNone() bool    { return r.kind == reasonNone }
func (r Reason) IsBinary() bool  { return r.kind == reasonBinary }
func (r Reason) IsTernary() bool { return r.kind == reasonTernary }
func (r Reason) IsLong() bool    { return r.kind == reasonLong }

// Other returns the propagating mate of a binary reason.
func (r Reason) Other() Literal { return r.lit1 }

// Others returns the two other literals of a ternary reason.
func (r Reason) Others() (Literal, Literal) { return r.lit1, r.lit2 }

// Offset returns the arena offset of a long reason.
func (r Reason) Offset() ClauseRef { return r.ref }

// Learnt reports whether the antecedent clause (binary case only; ternary
// and long clauses carry their own learnt bit on the clause/arena entry)
// was learnt.
func (r Reason) Learnt() bool { return r.learnt }

func (r Reason) Hyperbin() bool         { return r.hyperbin }
func (r Reason) HyperbinNotAdded() bool { return r.hyperbinNotAdded }

// Ancestor returns the antecedent literal that caused this reason's
// enqueue, i.e. the literal p such that the binary/ternary clause
// (~p, ...) propagated. Used by the full-propagation ancestor comparison
// (spec §4.4.5) and by hyper-binary resolution (spec §4.5.5/§4.5.6).
func (r Reason) Ancestor() Literal {
	return r.lit1.Opposite()
}
