package sat

// ClauseCleaner is the external collaborator spec §6.2 names for
// database upkeep between search phases: shrinking clauses as variables
// become permanently fixed and keeping the XOR store in sync with them.
type ClauseCleaner struct {
	s *Solver
}

func newClauseCleaner(s *Solver) *ClauseCleaner {
	return &ClauseCleaner{s: s}
}

// CleanAll simplifies the CNF database (Solver.Simplify) and then folds
// every decision-level-0 assignment made since the last call into the
// XOR store, propagating any XOR clause that became unit and flagging
// the formula unsatisfiable if one became empty with the wrong parity.
func (cc *ClauseCleaner) CleanAll() bool {
	s := cc.s
	if !s.Simplify() {
		return false
	}

	for s.xors.cleanCursor < s.trailLim0() {
		l := s.trail[s.xors.cleanCursor]
		s.xors.cleanCursor++

		units, contradiction := s.xors.ShrinkOnAssign(l.Var(), l.IsPositive())
		if contradiction {
			s.ok = false
			return false
		}
		for _, idx := range units {
			c := s.xors.Clause(idx)
			if len(c.vars) != 1 {
				continue
			}
			unit := PositiveLiteral(c.vars[0])
			if !c.rhs {
				unit = unit.Opposite()
			}
			if !s.enqueue(unit, NoReason) {
				s.ok = false
				return false
			}
		}
	}

	return true
}

// trailLim0 returns the trail length at decision level 0 (the number of
// permanently-fixed literals), or the whole trail if still at level 0.
func (s *Solver) trailLim0() int {
	if len(s.trailLim) == 0 {
		return len(s.trail)
	}
	return s.trailLim[0]
}
