package sat

// VarReplacer is the minimal, real implementation of the external
// variable-equivalence collaborator spec §6.2 names as out of scope for
// this core's own algorithms: the core only needs something that can
// record "v0 == v1" or "v0 == !v1" facts discovered by the prober (its
// both-branches implication folding and XOR-clause intersection) and
// answer queries about them, not a full equivalence-substitution pass over every clause.
//
// It is a union-find over variables, each root carrying the parity
// accumulated along the path to it (grounded on the general technique
// CryptoMiniSat's own VarReplacer.cpp uses, though this implementation is
// independent of that file's internals).
type VarReplacer struct {
	s *Solver

	parent []Var
	parity []bool // parity[v]: true if v == !root(v), false if v == root(v)
}

func newVarReplacer(s *Solver) *VarReplacer {
	return &VarReplacer{s: s}
}

func (r *VarReplacer) expand(v Var) {
	for Var(len(r.parent)) <= v {
		r.parent = append(r.parent, Var(len(r.parent)))
		r.parity = append(r.parity, false)
	}
}

// find returns the representative of v's equivalence class and the parity
// of v relative to that representative.
func (r *VarReplacer) find(v Var) (Var, bool) {
	r.expand(v)
	path := []Var{}
	parity := false
	for r.parent[v] != v {
		path = append(path, v)
		parity = parity != r.parity[v]
		v = r.parent[v]
	}
	// Each path node's parity relative to the root is the xor of the
	// edge parities from it upwards, accumulated from the root's end.
	acc := false
	for i := len(path) - 1; i >= 0; i-- {
		p := path[i]
		acc = acc != r.parity[p]
		r.parent[p] = v
		r.parity[p] = acc
	}
	return v, parity
}

// AddEquivalence records v0 == v1 (same) or v0 == !v1 (!same), merging
// their equivalence classes. Returns false if the fact contradicts an
// already-known equivalence (a top-level UNSAT).
func (r *VarReplacer) AddEquivalence(v0, v1 Var, same bool) bool {
	root0, par0 := r.find(v0)
	root1, par1 := r.find(v1)
	wantParity := par0 != par1
	if !same {
		wantParity = !wantParity
	}

	if root0 == root1 {
		return wantParity == false
	}

	r.parent[root1] = root0
	r.parity[root1] = wantParity
	return true
}

// Representative returns the canonical literal equivalent to l under every
// equivalence recorded so far.
func (r *VarReplacer) Representative(l Literal) Literal {
	root, parity := r.find(l.Var())
	if l.IsPositive() != parity {
		return PositiveLiteral(root)
	}
	return NegativeLiteral(root)
}
