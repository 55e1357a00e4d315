package sat

// ProbeStats summarizes what a probing pass accomplished (spec §4.5
// "prober"), for the caller (typically the CLI) to report.
type ProbeStats struct {
	Tried           int
	Failed          int
	BothSame        int
	BinXorFound     int
	XorClauseEquiv  int
	UselessBinRem   int
	HyperBinSkipped int
	UNSAT           bool
}

// Probe runs the failed-literal search over the sequential and
// polarity-imbalance visitation orders, plus a decision-heap order when
// Options.DoMultiLevelProbing is set, each frozen before
// probing begins so that probing one variable never perturbs the order
// the rest of the same pass is visited in (spec §4.5.1). It must be
// called at decision level 0.
func (s *Solver) Probe() ProbeStats {
	if s.decisionLevel() != 0 {
		panic("Probe called above the root decision level")
	}

	var st ProbeStats
	budget := s.probeBudget()
	s.hyperbinDeferred = 0

	// Step 1 (spec §4.5.1): replay every literal's cached transitive
	// implications before running the three visitation orders, but only
	// once the cache has something in it (i.e. not on the very first
	// call this solver ever makes to Probe).
	if s.opts.DoCacheOTFSSR && s.cacheSeeded {
		if !s.replayCache() {
			st.UNSAT = true
			return st
		}
	}
	s.cacheSeeded = true

	// The three visitation orders are each computed up front (so probing
	// one variable never perturbs an order the rest of the pass still has
	// to walk) and fed into a single FIFO worklist.
	queue := NewQueue[Var](s.NumVariables() + 1)
	push := func(vars []Var) {
		for _, v := range vars {
			queue.Push(v)
		}
	}
	push(s.sequentialOrder())
	push(s.polarityImbalanceOrder())
	if s.opts.DoMultiLevelProbing {
		push(s.activityOrder())
	}

	for !queue.IsEmpty() {
		if s.bogoProps > budget || !s.ok {
			break
		}
		s.probeVar(queue.Pop(), &st)
	}

	if s.opts.DoRemUselessBins {
		st.UselessBinRem = s.RemoveUselessBins()
	}

	st.HyperBinSkipped = s.hyperbinDeferred
	st.UNSAT = !s.ok
	return st
}

// probeBudget bounds the synthetic work probing may spend, scaled by
// FailedLitMultiplier and the size of the problem (spec §4.5.3
// "bogoProps").
func (s *Solver) probeBudget() uint64 {
	base := uint64(s.NumVariables()) * 300
	return s.bogoProps + uint64(float64(base)*s.opts.FailedLitMultiplier)
}

func (s *Solver) probeVar(v Var, st *ProbeStats) {
	if s.VarValue(v) != Unknown || s.varDat[v].elim != elimNone {
		return
	}
	st.Tried++
	failed, bothSame, binXor, xorEquiv := s.tryBoth(PositiveLiteral(v))
	if failed {
		st.Failed++
	}
	st.BothSame += bothSame
	st.BinXorFound += binXor
	st.XorClauseEquiv += xorEquiv
}

func (s *Solver) sequentialOrder() []Var {
	vars := make([]Var, 0, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		vars = append(vars, Var(v))
	}
	return vars
}

// polarityImbalanceOrder visits variables whose positive/negative
// occurrence counts are most lopsided first: a variable that appears
// almost always with one polarity is cheap to probe and likely to fail,
// since flipping it stresses the formula's tightest constraints first
// (SPEC_FULL.md §3 item 6, grounded on calcNegPosDist in the original
// failed-literal searcher).
func (s *Solver) polarityImbalanceOrder() []Var {
	vars := s.sequentialOrder()
	dist := make([]int64, len(vars))
	for _, v := range vars {
		pos := int64(s.polPos[v])
		neg := int64(s.polNeg[v])
		d := pos - neg
		if d < 0 {
			d = -d
		}
		dist[v] = d
	}
	for i := 1; i < len(vars); i++ {
		v := vars[i]
		j := i - 1
		for j >= 0 && dist[vars[j]] < dist[v] {
			vars[j+1] = vars[j]
			j--
		}
		vars[j+1] = v
	}
	return vars
}

// activityOrder is the prober's third visitation pass: the highest-
// activity unassigned variables, capped at MultiLevelThreshold since
// probing every variable by decision-heap order would duplicate most of
// sequentialOrder's work for little extra yield. This is an ordinary
// single-literal visitation order, not the 2^k sign-combination
// multi-level probing of spec.md §4.5.7 (that remains unimplemented);
// it only shares its gating option and threshold constant by convention.
func (s *Solver) activityOrder() []Var {
	vars := s.order.Snapshot(func(v Var) bool {
		return s.VarValue(v) == Unknown && s.varDat[v].elim == elimNone
	}).Vars()
	if n := s.opts.MultiLevelThreshold; n > 0 && len(vars) > n {
		vars = vars[:n]
	}
	return vars
}

// tryBoth is the core failed-literal step (spec §4.5.2): assume lit, full-
// propagate, undo; assume its negation, full-propagate, undo; compare the
// two resulting implication sets. Returns whether lit's variable was a
// failed literal (forced to one value), plus counts of newly unconditional
// ("both-same") literals and newly discovered binary-XOR equivalences (one
// count per discovery channel: same-sign variable comparison, and XOR
// clauses that independently shrank to size 2 in both branches).
func (s *Solver) tryBoth(lit Literal) (failed bool, bothSame, binXorFound, xorClauseEquiv int) {
	posImplied, posTwoXors, posConfl, posOK := s.probeBranch(lit)
	if !posOK || !posConfl.IsNone() {
		if !s.enqueue(lit.Opposite(), NoReason) {
			s.ok = false
			return true, 0, 0, 0
		}
		s.Simplify()
		return true, 0, 0, 0
	}

	negImplied, negTwoXors, negConfl, negOK := s.probeBranch(lit.Opposite())
	if !negOK || !negConfl.IsNone() {
		if !s.enqueue(lit, NoReason) {
			s.ok = false
			return true, 0, 0, 0
		}
		s.Simplify()
		return true, 0, 0, 0
	}

	bothSame, binXorFound = s.foldImplications(lit, posImplied, negImplied)

	for _, tx := range intersectTwoXors(posTwoXors, negTwoXors) {
		if !s.replacer.AddEquivalence(tx.V0, tx.V1, !tx.RHS) {
			s.ok = false
			return false, bothSame, binXorFound, xorClauseEquiv
		}
		xorClauseEquiv++
	}

	return false, bothSame, binXorFound, xorClauseEquiv
}

// intersectTwoXors returns the canonicalized entries present in both a and
// b (spec §4.5.2: a 2-long XOR must shrink to size 2 under both of lit's
// truth values to be trusted as unconditional).
func intersectTwoXors(a, b []TwoLongXor) []TwoLongXor {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[TwoLongXor]bool, len(a))
	for _, tx := range a {
		set[tx.Canonicalize()] = true
	}
	var out []TwoLongXor
	for _, tx := range b {
		c := tx.Canonicalize()
		if set[c] {
			out = append(out, c)
			set[c] = false // each survivor reported once
		}
	}
	return out
}

// probeBranch assumes lit, full-propagates, captures the literals it
// implied (excluding lit itself) and any XOR clauses that shrank to size
// two along the way, then restores to the root level. Hyper-binary
// resolution and the transOTFCache merge both run after the restore, so
// they operate at decision level 0 (spec §4.5.2).
func (s *Solver) probeBranch(lit Literal) (implied []Literal, twoXors []TwoLongXor, confl Reason, ok bool) {
	save := s.Save()
	s.NewDecisionLevel()
	s.hyperImplied = s.hyperImplied[:0]

	if !s.enqueue(lit, probeRootReason()) {
		save.Restore(s)
		return nil, nil, NoReason, false
	}

	// Simple mode is only safe to skip when there is nothing for the
	// non-simple path to do: hyper-binary resolution and useless-bin
	// detection are independent toggles that both live inside it.
	simple := !s.opts.DoHyperBinRes && !s.opts.DoRemUselessBins
	confl = s.propagateFull(lit, simple)

	for _, l := range s.trail[save.trailLen:] {
		twoXors = append(twoXors, s.xors.Touch(l.Var(), l.IsPositive())...)
	}
	if confl.IsNone() {
		implied = append(implied, s.trail[save.trailLen+1:]...)
	}
	hyperImplied := append([]Literal(nil), s.hyperImplied...)
	for i := len(s.trail) - 1; i >= save.trailLen; i-- {
		l := s.trail[i]
		s.xors.Untouch(l.Var(), l.IsPositive())
	}

	save.Restore(s)

	if confl.IsNone() && s.opts.DoCacheOTFSSR {
		s.cacheMergeInto(lit.Opposite(), implied)
	}
	if !simple {
		s.hyperBinResolution(lit, hyperImplied)
	}

	return implied, twoXors, confl, true
}

// foldImplications compares what lit and lit.Opposite() each imply.
// A variable implied with the same sign by both branches is unconditional
// and is enqueued directly. A variable implied with opposite signs by the
// two branches is equivalent (or anti-equivalent) to lit's variable and is
// handed to the variable replacer as a 2-XOR.
func (s *Solver) foldImplications(lit Literal, posImplied, negImplied []Literal) (bothSame, binXorFound int) {
	posSign := make(map[Var]bool, len(posImplied))
	for _, l := range posImplied {
		posSign[l.Var()] = l.IsPositive()
	}

	for _, l := range negImplied {
		v := l.Var()
		ps, ok := posSign[v]
		if !ok {
			continue
		}
		if ps == l.IsPositive() {
			if s.VarValue(v) == Unknown {
				if !s.enqueue(l, NoReason) {
					s.ok = false
					return bothSame, binXorFound
				}
				bothSame++
			}
			continue
		}

		if s.opts.DoBinXorFind && v != lit.Var() {
			same := ps // posImplied had v positive => lit true makes v true => lit == v
			if s.replacer.AddEquivalence(lit.Var(), v, same) {
				binXorFound++
			} else {
				s.ok = false
				return bothSame, binXorFound
			}
		}
	}

	s.Simplify()
	return bothSame, binXorFound
}
