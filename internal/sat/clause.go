package sat

import "strings"

// status bits packed into a clause's statusMask (adapted from the
// teacher's newer, unwired sat/clauses.go).
type status uint8

const (
	statusDeleted   status = 0b001
	statusLearnt    status = 0b010
	statusProtected status = 0b100
)

// Clause is a long (size >= 4) clause owned by the arena. Binary and
// ternary clauses are never materialized as Clause values; they live only
// as Watched entries (spec §3.3).
type Clause struct {
	activity float64

	// literalsRef backs literals via the capacity-bucketed pool
	// (clauses_alloc.go); literals is nil once the clause is deleted so
	// the backing array can be garbage collected even if a stale
	// ClauseRef still points at this slot.
	literalsRef *[]Literal
	literals    []Literal

	// prevPos is set to 2 when the clause is allocated and is not read by
	// propagation: propLongAt always starts its watch-replacement search
	// at index 2.
	prevPos int

	lbd uint32

	numLookedAt     uint64
	numLitVisited   uint64
	numPropAndConfl uint64

	statusMask status
}

func (c *Clause) isDeleted() bool   { return c.statusMask&statusDeleted != 0 }
func (c *Clause) IsLearnt() bool    { return c.statusMask&statusLearnt != 0 }
func (c *Clause) isProtected() bool { return c.statusMask&statusProtected != 0 }

func (c *Clause) setProtected()   { c.statusMask |= statusProtected }
func (c *Clause) setUnprotected() { c.statusMask &= ^statusProtected }

// Literals returns the clause's current literals. Index 0 and 1 are
// always the two watched literals.
func (c *Clause) Literals() []Literal { return c.literals }

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
