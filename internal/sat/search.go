package sat

import "sort"

// Simplify removes clauses already satisfied at decision level 0 and
// shrinks the rest by dropping permanently-false literals. It is only
// valid to call at the root decision level.
func (s *Solver) Simplify() bool {
	if s.decisionLevel() != 0 {
		panic("Simplify called above the root decision level")
	}

	if !s.ok {
		return false
	}
	if confl := s.propagate(); !confl.IsNone() {
		s.ok = false
		return false
	}

	s.constraints = s.simplifyRefs(s.constraints)
	s.learnts = s.simplifyRefs(s.learnts)
	return true
}

func (s *Solver) simplifyRefs(refs []ClauseRef) []ClauseRef {
	j := 0
	for _, ref := range refs {
		if s.simplifyLongClause(ref) {
			s.detachLongClause(ref)
			s.arena.Delete(ref)
			continue
		}
		refs[j] = ref
		j++
	}
	return refs[:j]
}

// simplifyLongClause reports whether ref is satisfied (and can be
// dropped). Otherwise it compacts out literals that are permanently
// false, leaving the two watched literals (indices 0 and 1, never false
// at the root level) untouched.
func (s *Solver) simplifyLongClause(ref ClauseRef) bool {
	c := s.arena.Get(ref)
	lits := c.literals
	for _, l := range lits {
		if s.LitValue(l) == True {
			return true
		}
	}

	out := lits[:2]
	for _, l := range lits[2:] {
		if s.LitValue(l) != False {
			out = append(out, l)
		}
	}
	c.literals = out
	return false
}

// ReduceDB halves the learnt clause database, keeping clauses that are
// currently locked (i.e. serve as some literal's reason) or whose
// activity is above average (spec's conflict-driven loop needs this to
// keep memory bounded across a long search).
func (s *Solver) ReduceDB() {
	if len(s.learnts) == 0 {
		return
	}
	lim := s.clauseInc / float64(len(s.learnts))

	sort.Slice(s.learnts, func(i, j int) bool {
		return s.arena.Get(s.learnts[i]).activity < s.arena.Get(s.learnts[j]).activity
	})

	i, j := 0, 0
	for ; i < len(s.learnts)/2; i++ {
		ref := s.learnts[i]
		c := s.arena.Get(ref)
		if s.clauseLocked(ref) || c.isProtected() {
			// A protected clause gets exactly one reprieve: the pass
			// that would have deleted it instead just spends its
			// protection, so it's judged on activity like every other
			// clause from the next ReduceDB on.
			c.setUnprotected()
			s.learnts[j] = ref
			j++
		} else {
			s.detachLongClause(ref)
			s.arena.Delete(ref)
		}
	}
	for ; i < len(s.learnts); i++ {
		ref := s.learnts[i]
		c := s.arena.Get(ref)
		if !s.clauseLocked(ref) && !c.isProtected() && c.activity < lim {
			s.detachLongClause(ref)
			s.arena.Delete(ref)
		} else {
			if c.isProtected() {
				c.setUnprotected()
			}
			s.learnts[j] = ref
			j++
		}
	}
	s.learnts = s.learnts[:j]
}

// clauseLocked reports whether ref is currently the reason of some
// assigned variable, which makes deleting it unsafe.
func (s *Solver) clauseLocked(ref ClauseRef) bool {
	c := s.arena.Get(ref)
	if len(c.literals) == 0 {
		return false
	}
	v := c.literals[0].Var()
	r := s.varDat[v].reason
	return r.IsLong() && r.Offset() == ref
}

// assume pushes a new decision level and enqueues l as a decision.
func (s *Solver) assume(l Literal) bool {
	s.NewDecisionLevel()
	return s.enqueue(l, NoReason)
}

// analyze walks the implication graph backward from a conflicting reason
// to the clause's first unique implication point, returning the learnt
// clause (FUIP first) and the decision level to backtrack to.
func (s *Solver) analyze(confl Reason) ([]Literal, int) {
	nImplicationPoints := 0

	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, LitUndef) // reserved for the FUIP

	nextLiteral := len(s.trail) - 1
	s.seenVar.Clear()
	backtrackLevel := 0

	var l Literal = LitUndef
	first := true

	for {
		for _, q := range s.explain(confl, first) {
			v := q.Var()
			if s.seenVar.Contains(int(v)) {
				continue
			}
			s.seenVar.Add(int(v))

			if s.varDat[v].level == s.decisionLevel() {
				nImplicationPoints++
				continue
			}

			s.tmpLearnts = append(s.tmpLearnts, q)
			if lvl := s.varDat[v].level; lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}
		first = false

		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.Var()
			confl = s.varDat[v].reason
			if s.seenVar.Contains(int(v)) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()
	s.bumpVarActivity(l.Var())

	// Put the antecedent at the backtrack level into position 1: once
	// record() backtracks there, it is the watched literal most likely to
	// become unassigned soonest, keeping the new clause's second watch
	// useful for longer before a replacement search is needed.
	if len(s.tmpLearnts) > 2 {
		maxAt := 1
		for i := 2; i < len(s.tmpLearnts); i++ {
			if s.varDat[s.tmpLearnts[i].Var()].level > s.varDat[s.tmpLearnts[maxAt].Var()].level {
				maxAt = i
			}
		}
		s.tmpLearnts[1], s.tmpLearnts[maxAt] = s.tmpLearnts[maxAt], s.tmpLearnts[1]
	}

	return s.tmpLearnts, backtrackLevel
}

// glueProtectThreshold is the LBD at or below which a freshly learnt long
// clause is marked protected: a "glue clause" in Glucose's terminology,
// cheap to keep and disproportionately useful in later propagation, so
// ReduceDB must not sweep it away on the very next pass.
const glueProtectThreshold = 2

// record attaches a freshly learnt clause and immediately enqueues its
// FUIP (always clause[0]), which is unit under the backtrack level
// analyze just computed. Unlike AddClause, the literal order is never
// disturbed: the FUIP must stay at index 0 so it becomes the clause's
// enqueued literal rather than one of its watched-but-false antecedents.
// glue is the clause's literal block distance, used to protect tight
// glue clauses from the next ReduceDB pass.
func (s *Solver) record(clause []Literal, glue int) {
	lits := append([]Literal(nil), clause...)

	switch len(lits) {
	case 1:
		s.enqueue(lits[0], NoReason)
	case 2:
		s.attachBinClause(lits[0], lits[1], true)
		s.enqueue(lits[0], BinaryReason(lits[1], true))
	case 3:
		s.attachTriClause(lits[0], lits[1], lits[2])
		s.enqueue(lits[0], TernaryReason(lits[1], lits[2]))
	default:
		ref := s.arena.Alloc(lits, true)
		s.attachLongClause(ref)
		s.learnts = append(s.learnts, ref)
		s.enqueue(lits[0], LongReason(ref))
		if glue <= glueProtectThreshold {
			s.arena.Get(ref).setProtected()
		}
	}
}

// Search runs the CDCL loop until a model is found, the formula is shown
// unsatisfiable, or a resource bound (nConflicts or MaxConflicts) is hit,
// in which case it returns Unknown for a later restart with wider bounds.
// Reaching nLearnts does not stop the search: it triggers ReduceDB.
func (s *Solver) Search(nConflicts, nLearnts int) LBool {
	if !s.ok {
		return False
	}

	s.TotalRestarts++
	conflictCount := 0

	for !s.shouldStop() {
		s.TotalIterations++

		if confl := s.propagate(); !confl.IsNone() {
			conflictCount++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.ok = false
				return False
			}

			learntClause, backtrackLevel := s.analyze(confl)
			g := s.glue(learntClause)
			if s.opts.UpdateGlues {
				s.glueEMA.Update(float64(g))
			}
			s.CancelUntil(backtrackLevel)
			s.record(learntClause, g)

			s.decayClaActivity()
			s.decayVarActivity()

			continue
		}

		if s.decisionLevel() == 0 {
			s.Simplify()
		}

		if len(s.learnts)-s.NumAssigns() >= nLearnts {
			s.ReduceDB()
		}

		if s.NumAssigns() == s.NumVariables() {
			s.saveModel()
			s.CancelUntil(0)
			return True
		}

		if conflictCount > nConflicts {
			s.CancelUntil(0)
			return Unknown
		}

		l := s.order.NextDecision(s)
		s.assume(l)
	}

	return Unknown
}

// glue computes the literal block distance of a freshly learnt clause:
// the number of distinct decision levels among its literals, an estimate
// of how "reusable" the clause is in future search.
func (s *Solver) glue(lits []Literal) int {
	levels := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		levels[s.varDat[l.Var()].level] = struct{}{}
	}
	return len(levels)
}

// Solve runs Search in restart rounds of growing resource bounds until a
// definite answer is reached (spec's CDCL driver is an external
// collaborator; this is the minimal loop that exercises C1-C5 end to end).
func (s *Solver) Solve() LBool {
	numConflicts := 100
	numLearnts := s.NumConstraints() / 3
	status := Unknown

	s.printSeparator()
	s.printSearchHeader()
	s.printSeparator()

	for status == Unknown {
		status = s.Search(numConflicts, numLearnts)
		numConflicts += numConflicts / 10
		numLearnts += numLearnts / 20

		if s.shouldStop() {
			break
		}
	}

	s.printSearchStats()
	s.printSeparator()

	s.CancelUntil(0)
	return status
}

func (s *Solver) saveModel() {
	s.Model = make([]LBool, len(s.assigns))
	copy(s.Model, s.assigns)
}
