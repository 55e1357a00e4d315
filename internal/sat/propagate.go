package sat

// propagate drains the trail to a fixpoint. Binary and ternary watchers
// are cheap enough that the entire trail is walked to a binary/ternary
// fixpoint (via qheadbin) before a single long-clause watcher is ever
// touched (via qheadlong): a long clause consulted once is an order of
// magnitude more expensive than a binary/ternary check, so the scheduler
// avoids visiting one until every unit implied by cheaper clauses has
// already been discovered (spec §4.4.3).
//
// It returns NoReason on a clean fixpoint, or the antecedent of whichever
// clause first went empty.
func (s *Solver) propagate() Reason {
	for {
		for s.qheadbin < len(s.trail) {
			p := s.trail[s.qheadbin]
			s.qheadbin++
			if confl := s.propBinTriAt(p, true); !confl.IsNone() {
				s.qhead = s.qheadbin
				return confl
			}
		}

		if s.qheadlong >= len(s.trail) {
			break
		}
		p := s.trail[s.qheadlong]
		s.qheadlong++
		if confl := s.propLongAt(p); !confl.IsNone() {
			s.qhead = s.qheadlong
			return confl
		}
	}
	s.qhead = len(s.trail)
	return NoReason
}

// propagateNonLearntBin runs the restricted propagation mode of spec §6.1:
// only non-learnt binary watchers are consulted, so the consequences it
// finds hold regardless of which learnt clauses have been derived so far.
// Nothing in this module calls it; the prober's binary-only passes use
// propBinOnlyAt.
func (s *Solver) propagateNonLearntBin() Reason {
	head := s.qheadbin
	for head < len(s.trail) {
		p := s.trail[head]
		head++
		if confl := s.propBinTriAt(p, false); !confl.IsNone() {
			return confl
		}
	}
	s.qheadbin = head
	return NoReason
}

// propBinTriAt scans the binary and ternary watchers of p, the trail
// literal most recently assigned true (spec §4.4.4). includeLearnt gates
// whether learnt binary clauses are consulted (propagateNonLearntBin sets
// it false). Ternary clauses carry no learnt bit in this core, so they
// are consulted only when includeLearnt is set.
func (s *Solver) propBinTriAt(p Literal, includeLearnt bool) Reason {
	ws := s.watches[p.Int()]
	for _, w := range ws {
		s.bogoProps++
		switch {
		case w.IsBinary():
			if w.Learnt() && !includeLearnt {
				continue
			}
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

		case w.IsTri():
			if !includeLearnt {
				continue
			}
			o1, o2 := w.Other(), w.Other2()
			v1, v2 := s.LitValue(o1), s.LitValue(o2)
			if v1 == True || v2 == True {
				continue
			}
			switch {
			case v1 == False && v2 == False:
				s.failBinLit = o2
				return TernaryReason(p.Opposite(), o1)
			case v1 == False:
				s.enqueue(o2, TernaryReason(p.Opposite(), o1))
				s.propsTri++
			case v2 == False:
				s.enqueue(o1, TernaryReason(p.Opposite(), o2))
				s.propsTri++
			}
		}
	}
	return NoReason
}

// propLongAt scans the long-clause watchers of p, moving each one to a
// fresh watched literal when its current pair no longer blocks
// propagation (spec §4.4.4 "long clause watcher"). Unlike binary/ternary
// watchers, long watchers are not permanent: this is the only propagation
// routine that mutates a watchList in place.
func (s *Solver) propLongAt(p Literal) Reason {
	ws := s.watches[p.Int()]
	i, j := 0, 0
	var confl Reason

	for i < len(ws) {
		w := ws[i]
		if !w.IsLong() {
			ws[j] = w
			i++
			j++
			continue
		}

		if s.LitValue(w.Blocker()) == True {
			ws[j] = w
			i++
			j++
			continue
		}

		s.bogoProps += 4
		c := s.arena.Get(w.Ref())
		lits := c.literals

		// Normalize so that lits[1] is the literal falsified by p, and
		// lits[0] the clause's other watched literal.
		if lits[0] == p.Opposite() {
			lits[0], lits[1] = lits[1], lits[0]
		}

		if s.LitValue(lits[0]) == True {
			w.SetBlocker(lits[0])
			ws[j] = w
			i++
			j++
			continue
		}

		moved := false
		for k := 2; k < len(lits); k++ {
			if s.LitValue(lits[k]) != False {
				lits[1], lits[k] = lits[k], lits[1]
				s.watch(lits[1].Opposite(), NewLongWatch(w.Ref(), lits[0]))
				moved = true
				break
			}
		}
		if moved {
			i++
			continue
		}

		// No replacement found: lits[1] stays, lits[0] must become true.
		w.SetBlocker(lits[0])
		ws[j] = w
		i++
		j++

		if c.IsLearnt() {
			s.propsLongRed++
		} else {
			s.propsLongIrred++
		}

		if !s.enqueue(lits[0], LongReason(w.Ref())) {
			confl = LongReason(w.Ref())
			// Copy the remaining watchers down before bailing out.
			for ; i < len(ws); i++ {
				ws[j] = ws[i]
				j++
			}
			s.watches[p.Int()] = ws[:j]
			return confl
		}
	}

	s.watches[p.Int()] = ws[:j]
	return NoReason
}

// explain returns the false literals of reason's antecedent clause that
// are not the literal it propagated (or, if conflict is true, every false
// literal of the fully-falsified clause). The returned slice aliases
// Solver-owned scratch storage and is only valid until the next call to
// explain.
func (s *Solver) explain(reason Reason, conflict bool) []Literal {
	switch {
	case reason.IsBinary():
		if conflict {
			return []Literal{reason.Other(), s.failBinLit}
		}
		return []Literal{reason.Other()}

	case reason.IsTernary():
		o1, o2 := reason.Others()
		if conflict {
			return []Literal{o1, o2, s.failBinLit}
		}
		return []Literal{o1, o2}

	case reason.IsLong():
		c := s.arena.Get(reason.Offset())
		if c.IsLearnt() {
			s.bumpClaActivity(reason.Offset())
		}
		if conflict {
			return c.Literals()
		}
		return c.Literals()[1:]

	default:
		return nil
	}
}
