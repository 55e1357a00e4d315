package sat

// xorClause is a parity constraint vars[0] xor vars[1] xor ... xor vars[k-1]
// == rhs (spec §3.3 "XOR clauses"). Unlike CNF clauses, an XOR clause
// shrinks in place as its literals are forced at decision level 0: each
// assigned variable is removed and folds its sign into rhs, rather than
// being watched.
type xorClause struct {
	vars []Var
	rhs  bool
}

// xorStore owns the solver's XOR clauses plus the occur/xorClauseSizes
// bookkeeping the prober needs to keep them current across probes (spec
// §4.5.4 "2-XOR equivalence recovery"). occur[v] lists the indices of
// every live xorClause mentioning v; clauses marked satisfied (size 0,
// rhs == false) or contradictory (size 0, rhs == true) are left in place
// with an empty vars slice and skipped by callers.
type xorStore struct {
	clauses []xorClause
	occur   [][]int // indexed by Var

	// cleanCursor is how far into the trail ClauseCleaner has already
	// folded assignments into this store.
	cleanCursor int

	// liveSize/liveRHS track each clause's size and parity across a probe
	// branch's temporary Touch/Untouch calls, layered on top of the
	// clause's permanently-shrunk vars/rhs (spec §4.5.4 "xorClauseSizes").
	// They stay consistent with clauses[i] as long as every Touch is
	// matched by an Untouch before the next probe branch begins.
	liveSize []int
	liveRHS  []bool

	// removedNow marks, per variable, whether the current probe branch has
	// Touch'ed it (and not yet Untouch'ed it) - needed to tell which of a
	// clause's remaining vars are still live when it shrinks to size 2.
	removedNow []bool
}

func newXorStore() *xorStore {
	return &xorStore{}
}

func (x *xorStore) expand() {
	x.occur = append(x.occur, nil)
	x.removedNow = append(x.removedNow, false)
}

// Add registers a new XOR clause and indexes it in occur. vars is sorted
// and de-duplicated in place (a variable appearing twice cancels out of a
// parity constraint).
func (x *xorStore) Add(vars []Var, rhs bool) {
	sorted := append([]Var(nil), vars...)
	sortVars(sorted)

	out := sorted[:0]
	for i := 0; i < len(sorted); i++ {
		// Two consecutive equal variables cancel (v xor v == 0).
		if i+1 < len(sorted) && sorted[i] == sorted[i+1] {
			i++
			continue
		}
		out = append(out, sorted[i])
	}

	idx := len(x.clauses)
	x.clauses = append(x.clauses, xorClause{vars: out, rhs: rhs})
	x.liveSize = append(x.liveSize, len(out))
	x.liveRHS = append(x.liveRHS, rhs)
	for _, v := range out {
		x.occur[v] = append(x.occur[v], idx)
	}
}

func sortVars(vs []Var) {
	for i := 1; i < len(vs); i++ {
		v := vs[i]
		j := i - 1
		for j >= 0 && vs[j] > v {
			vs[j+1] = vs[j]
			j--
		}
		vs[j+1] = v
	}
}

// ShrinkOnAssign removes v from every XOR clause that mentions it, folding
// value (true/false) into rhs, and returns the set of clauses that became
// unit (exactly one variable left) so the caller can propagate it, plus
// any that became empty-and-false (a parity contradiction).
func (x *xorStore) ShrinkOnAssign(v Var, value bool) (units []int, contradiction bool) {
	for _, idx := range x.occur[v] {
		c := &x.clauses[idx]
		c.vars = removeVar(c.vars, v)
		if value {
			c.rhs = !c.rhs
		}
		x.liveSize[idx] = len(c.vars)
		x.liveRHS[idx] = c.rhs
		switch len(c.vars) {
		case 0:
			if c.rhs {
				contradiction = true
			}
		case 1:
			units = append(units, idx)
		}
	}
	return units, contradiction
}

// Touch temporarily shrinks every live XOR clause mentioning v by one,
// folding value's sign into the clause's (temporary) parity, for the
// duration of a single probe branch (spec §4.5.4). Each clause that
// reaches exactly two live variables is reported as a TwoLongXor over
// its current, fully-touched-aware remaining variables and parity.
// Every Touch must be undone with a matching Untouch before the next
// probe branch begins.
func (x *xorStore) Touch(v Var, value bool) []TwoLongXor {
	x.removedNow[v] = true
	var out []TwoLongXor
	for _, idx := range x.occur[v] {
		c := &x.clauses[idx]
		if len(c.vars) == 0 {
			continue
		}
		x.liveSize[idx]--
		if value {
			x.liveRHS[idx] = !x.liveRHS[idx]
		}
		if x.liveSize[idx] == 2 {
			var remaining []Var
			for _, w := range c.vars {
				if x.removedNow[w] {
					continue
				}
				remaining = append(remaining, w)
			}
			if len(remaining) == 2 {
				out = append(out, TwoLongXor{V0: remaining[0], V1: remaining[1], RHS: x.liveRHS[idx]}.Canonicalize())
			}
		}
	}
	return out
}

// Untouch reverses a Touch(v, value) call at the end of a probe branch.
func (x *xorStore) Untouch(v Var, value bool) {
	x.removedNow[v] = false
	for _, idx := range x.occur[v] {
		c := &x.clauses[idx]
		if len(c.vars) == 0 {
			continue
		}
		x.liveSize[idx]++
		if value {
			x.liveRHS[idx] = !x.liveRHS[idx]
		}
	}
}

func removeVar(vars []Var, v Var) []Var {
	for i, w := range vars {
		if w == v {
			return append(vars[:i], vars[i+1:]...)
		}
	}
	return vars
}

// Clause returns the live XOR clause at idx.
func (x *xorStore) Clause(idx int) xorClause { return x.clauses[idx] }

// NumClauses returns the number of XOR clauses ever added (including ones
// that have since shrunk to size 0).
func (x *xorStore) NumClauses() int { return len(x.clauses) }

// TwoLongXor is a size-2 XOR clause v0 xor v1 == rhs, the form xorStore.Touch
// reports while a probe branch propagates; the prober (tryBoth) keeps the
// ones both branches agree on and hands them to the external var-replacer
// (spec §4.5.6, §6.2).
type TwoLongXor struct {
	V0, V1 Var
	RHS    bool
}

// Canonicalize orders the pair so that (v0, v1, rhs) and (v1, v0, rhs)
// compare equal.
func (t TwoLongXor) Canonicalize() TwoLongXor {
	if t.V0 <= t.V1 {
		return t
	}
	return TwoLongXor{V0: t.V1, V1: t.V0, RHS: t.RHS}
}
