package sat

// binKey canonically identifies a binary clause for the uselessBin set.
type binKey struct {
	a, b Literal
}

func makeBinKey(a, b Literal) binKey {
	if a > b {
		a, b = b, a
	}
	return binKey{a, b}
}

// propagateFull is the prober's restricted propagation mode (spec
// §4.4.5). With simple set, it propagates binary, ternary and long
// clauses like propagate(), confined to the trail segment starting at the
// probe's own decision. With simple
// unset, ternary and long clauses no longer enqueue their consequences
// with their own clause as reason: each such literal is recorded into
// hyperImplied instead, so that a later pass (hyperBinResolution) can
// pick, per literal, the binary-reachable ancestor with the highest
// downstream in-degree to anchor a direct binary clause at (spec §4.5.5),
// rather than always anchoring naively at root.
func (s *Solver) propagateFull(root Literal, simple bool) Reason {
	head := s.qhead
	for head < len(s.trail) {
		p := s.trail[head]
		head++

		if simple {
			if confl := s.propBinTriAt(p, true); !confl.IsNone() {
				s.qhead = head
				return confl
			}
			if confl := s.propLongAt(p); !confl.IsNone() {
				s.qhead = head
				return confl
			}
			continue
		}

		// In hyper-binary mode, only binary clauses are propagated
		// directly; ternary and long clauses are routed through
		// hyperBinAt below so every fact they derive is recorded for
		// the anchor-selection pass.
		if confl := s.propBinOnlyAt(p); !confl.IsNone() {
			s.qhead = head
			return confl
		}
		if confl := s.hyperBinAt(p, root); !confl.IsNone() {
			s.qhead = head
			return confl
		}
	}
	s.qhead = head
	if head > s.qheadbin {
		s.qheadbin = head
	}
	if head > s.qheadlong {
		s.qheadlong = head
	}
	return NoReason
}

// propBinOnlyAt is propBinTriAt restricted to binary watchers, used
// wherever the prober needs binary-only propagation: propagateFull's
// hyper-binary mode, and the dedicated binary-only re-propagation passes
// hyperBinResolution runs to discover S_bin and per-candidate implication
// sets (spec §4.5.5).
func (s *Solver) propBinOnlyAt(p Literal) Reason {
	for _, w := range s.watches[p.Int()] {
		if !w.IsBinary() {
			continue
		}
		s.bogoProps++
		other := w.Other()
		switch s.LitValue(other) {
		case True:
			continue
		case False:
			s.failBinLit = other
			return BinaryReason(p.Opposite(), w.Learnt())
		default:
			s.enqueue(other, BinaryReason(p.Opposite(), w.Learnt()))
			if w.Learnt() {
				s.propsBinRed++
			} else {
				s.propsBinIrred++
			}
		}
	}
	return NoReason
}

// checkUselessBinAt looks at p's binary watchers (already propagated by
// the binary-only re-propagation in binOnlyRepropagate) and flags a
// clause {p.Opposite(), q} useless whenever root already has a direct
// binary clause to q: anything p implies under this probe, root implies
// too, so the shorter root-q edge makes the p-q edge redundant.
//
// dontRemoveAncestor guards against cascading removal (spec §4.5.6):
// once p has served as the ancestor justifying one useless-bin finding
// this pass, p is protected for the rest of the pass, so a later finding
// cannot also remove whatever edge justifies p itself and invalidate the
// derivation this pass already relied on.
func (s *Solver) checkUselessBinAt(p, root Literal) {
	if s.dontRemoveAncestor.Contains(int(p.Var())) {
		return
	}
	for _, w := range s.watches[p.Int()] {
		if !w.IsBinary() {
			continue
		}
		q := w.Other()
		if _, ok := s.findBin(root, q); ok {
			s.markUselessBin(p.Opposite(), q)
			s.dontRemoveAncestor.Add(int(p.Var()))
		}
	}
}

// hyperBinAt scans p's ternary and long watchers, the same way
// propBinTriAt/propLongAt would, but records every freshly implied
// literal into s.hyperImplied instead of anchoring it immediately: the
// choice of which binary ancestor to anchor at is made afterward, by
// hyperBinResolution (spec §4.5.5).
func (s *Solver) hyperBinAt(p, root Literal) Reason {
	ws := s.watches[p.Int()]
	for idx := range ws {
		w := ws[idx]
		switch {
		case w.IsTri():
			o1, o2 := w.Other(), w.Other2()
			v1, v2 := s.LitValue(o1), s.LitValue(o2)
			if v1 == True || v2 == True {
				continue
			}
			var q Literal
			var reason Reason
			switch {
			case v1 == False && v2 == False:
				s.failBinLit = o2
				return TernaryReason(p.Opposite(), o1)
			case v1 == False:
				q, reason = o2, TernaryReason(p.Opposite(), o1)
			case v2 == False:
				q, reason = o1, TernaryReason(p.Opposite(), o2)
			default:
				continue
			}
			if s.LitValue(q) == Unknown {
				s.enqueue(q, reason)
				s.hyperImplied = append(s.hyperImplied, q)
			}

		case w.IsLong():
			if s.LitValue(w.Blocker()) == True {
				continue
			}
			c := s.arena.Get(w.Ref())
			lits := c.literals
			unresolved := Literal(LitUndef)
			n := 0
			for _, l := range lits {
				if s.LitValue(l) != False {
					n++
					unresolved = l
				}
			}
			if n == 0 {
				return LongReason(w.Ref())
			}
			if n == 1 && s.LitValue(unresolved) == Unknown {
				s.enqueue(unresolved, LongReason(w.Ref()))
				s.hyperImplied = append(s.hyperImplied, unresolved)
			}
		}
	}
	return NoReason
}

// findBin reports whether watch is directly watching other via a binary
// clause, and whether that clause is learnt.
func (s *Solver) findBin(watch, other Literal) (learnt bool, ok bool) {
	for _, w := range s.watches[watch.Int()] {
		if w.IsBinary() && w.Other() == other {
			return w.Learnt(), true
		}
	}
	return false, false
}

// markUselessBin records that the binary clause (a, b) is subsumed by a
// shorter hyper-binary derivation discovered during probing, without
// removing it immediately (removal touches both endpoints' watch lists
// and is batched into RemoveUselessBins so probing itself stays cheap).
func (s *Solver) markUselessBin(a, b Literal) {
	if s.uselessBin == nil {
		s.uselessBin = make(map[binKey]struct{})
	}
	s.uselessBin[makeBinKey(a, b)] = struct{}{}
}

// RemoveUselessBins detaches every binary clause markUselessBin flagged
// during the most recent probing pass (spec §4.5.6). Must be called at
// decision level 0.
func (s *Solver) RemoveUselessBins() int {
	n := 0
	for k := range s.uselessBin {
		// Both learnt and non-learnt variants are tried: the flag only
		// records the literal pair, not which copy was found redundant.
		if s.watches[k.a.Int()].find(k.b, true) {
			s.detachBinClause(k.a, k.b, true)
			n++
		} else if s.watches[k.a.Int()].find(k.b, false) {
			s.detachBinClause(k.a, k.b, false)
			n++
		}
	}
	s.uselessBin = nil
	return n
}

// hyperBinResolution is the anchor-selection pass of spec §4.5.5/§4.5.6,
// run once per probe branch after propagateFull has completed and the
// trail has been cancelled back to level 0. hyperImplied is every literal
// propagateFull derived through a ternary or long clause (never through a
// direct binary edge from root): for each, a binary clause anchored at
// root would make it binary-derivable, but anchoring instead at whichever
// binary-reachable ancestor covers the most such literals (verified by
// fully re-propagating that ancestor alone, see binImpliesIsolated) emits
// fewer, more useful hyper-binary clauses than always anchoring at root
// (see DESIGN.md on the chosen ancestor not always being an immediate
// parent of the hyper-implied literal).
func (s *Solver) hyperBinResolution(root Literal, hyperImplied []Literal) {
	if len(hyperImplied) == 0 {
		return
	}

	missing := make(map[Var]Literal, len(hyperImplied))
	for _, x := range hyperImplied {
		missing[x.Var()] = x
	}

	toVisit, hasChildren := s.binOnlyRepropagate(root, missing)

	if !s.opts.DoHyperBinRes {
		for _, x := range missing {
			s.deferHyperBin(root, x)
		}
		return
	}

	type candidate struct {
		lit Literal
		set map[Var]Literal
	}
	var candidates []candidate
	for _, l := range toVisit {
		if !hasChildren[l.Var()] {
			continue
		}
		if set := s.binImpliesIsolated(l, missing); len(set) > 0 {
			candidates = append(candidates, candidate{lit: l, set: set})
		}
	}

	for len(missing) > 0 && len(candidates) > 0 {
		best, bestSize := 0, 0
		for i, c := range candidates {
			if len(c.set) > bestSize {
				best, bestSize = i, len(c.set)
			}
		}
		if bestSize == 0 {
			break
		}
		chosen := candidates[best]
		candidates = append(candidates[:best], candidates[best+1:]...)

		for v, x := range chosen.set {
			if _, ok := missing[v]; !ok {
				continue
			}
			s.anchorHyperBin(chosen.lit, x)
			delete(missing, v)
			for i := range candidates {
				delete(candidates[i].set, v)
			}
		}
	}

	// Anything left has no binary-reachable ancestor in this probe's DAG
	// to anchor at more cheaply than root itself; root always works since
	// the full propagation already established root implies it.
	for _, x := range missing {
		s.anchorHyperBin(root, x)
	}
}

// binOnlyRepropagate re-propagates root using only binary clauses (spec
// §4.5.5 step 1), collecting the binary-implied trail segment (S_bin,
// returned as toVisit in propagation order, which is depth-ascending
// since this is a single, FIFO binary-only pass) and, for each reached
// variable, whether it has a downstream child in the binary DAG. Every
// variable removed from missing here was reached at the binary level and
// so needs no hyper-binary clause at all. It also runs useless-binary
// detection (spec §4.5.6) over the same pass and restores the trail to
// level 0 before returning.
func (s *Solver) binOnlyRepropagate(root Literal, missing map[Var]Literal) (toVisit []Literal, hasChildren map[Var]bool) {
	s.dontRemoveAncestor.Clear()
	s.NewDecisionLevel()
	s.enqueue(root, probeRootReason())

	start := len(s.trail) - 1
	head := start
	for head < len(s.trail) {
		p := s.trail[head]
		head++
		if s.opts.DoRemUselessBins && p != root {
			s.checkUselessBinAt(p, root)
		}
		s.propBinOnlyAt(p)
	}

	toVisit = append([]Literal(nil), s.trail[start+1:]...)
	hasChildren = make(map[Var]bool, len(toVisit))
	for _, l := range toVisit {
		delete(missing, l.Var())
		anc := s.varDat[l.Var()].reason.Ancestor()
		if anc != LitUndef {
			hasChildren[anc.Var()] = true
		}
	}

	s.CancelUntil(s.decisionLevel() - 1)
	return toVisit, hasChildren
}

// binImpliesIsolated fully propagates l in isolation (spec §4.5.5 step 2's
// "fillImplies") and returns the subset of missing it implies, keyed by
// variable with missing's correctly-signed literal.
//
// This must be full propagation, not binary-only: a candidate ancestor
// frequently only reaches a hyper-implied literal through the very
// ternary/long clause that made it hyper-implied in the first place (e.g.
// two binary children of the same parent jointly satisfying a ternary
// clause's last literal). Restricting this check to binary watchers would
// make every such candidate look like it covers nothing.
func (s *Solver) binImpliesIsolated(l Literal, missing map[Var]Literal) map[Var]Literal {
	s.NewDecisionLevel()
	s.enqueue(l, NoReason)

	start := len(s.trail) - 1
	if confl := s.propFullIsolated(start); !confl.IsNone() {
		// A conflict here means l alone falsifies something; it implies
		// nothing useful for hyper-binary purposes.
		s.CancelUntil(s.decisionLevel() - 1)
		return nil
	}

	var set map[Var]Literal
	for _, x := range s.trail[start+1:] {
		if lit, ok := missing[x.Var()]; ok {
			if set == nil {
				set = make(map[Var]Literal)
			}
			set[x.Var()] = lit
		}
	}

	s.CancelUntil(s.decisionLevel() - 1)
	return set
}

// propFullIsolated drains the trail from start to a full fixpoint (binary,
// ternary, and long clauses), the same two-cursor binary/ternary-before-
// long discipline as propagate(), but with cursors local to this call so
// the solver's own qheadbin/qheadlong are left untouched: this runs inside
// a throwaway decision level that gets cancelled away by the caller.
func (s *Solver) propFullIsolated(start int) Reason {
	binHead, longHead := start, start
	for {
		for binHead < len(s.trail) {
			p := s.trail[binHead]
			binHead++
			if confl := s.propBinTriAt(p, true); !confl.IsNone() {
				return confl
			}
		}
		if longHead >= len(s.trail) {
			return NoReason
		}
		p := s.trail[longHead]
		longHead++
		if confl := s.propLongAt(p); !confl.IsNone() {
			return confl
		}
	}
}

// anchorHyperBin gives x a direct binary reason from anchor: an existing
// binary clause is reused if one already connects them, otherwise a
// fresh hyper-binary clause (¬anchor, x) is attached and used as the
// reason (spec §4.4.5's reason-replacement policy: "prefers reasons
// closer to the root").
func (s *Solver) anchorHyperBin(anchor, x Literal) {
	if learnt, ok := s.findBin(anchor, x); ok {
		s.varDat[x.Var()].reason = BinaryReason(anchor.Opposite(), learnt)
		return
	}
	s.attachBinClause(anchor.Opposite(), x, true)
	s.varDat[x.Var()].reason = hyperBinaryReason(anchor.Opposite(), true, true, false)
}

// deferHyperBin is anchorHyperBin's counterpart when Options.DoHyperBinRes
// is off: the root->x implication is still logically valid, but no
// binary clause is materialized. x is reasoned through a virtual binary
// edge instead (hyperbinNotAdded), and the occurrence is counted in
// hyperbinDeferred, surfaced via ProbeStats.HyperBinSkipped.
func (s *Solver) deferHyperBin(root, x Literal) {
	if learnt, ok := s.findBin(root, x); ok {
		s.varDat[x.Var()].reason = BinaryReason(root.Opposite(), learnt)
		return
	}
	s.hyperbinDeferred++
	s.varDat[x.Var()].reason = hyperBinaryReason(root.Opposite(), true, true, true)
}
