package sat

// Reattacher drives the bulk detach/reattach cycle spec §6.2 names as an
// external collaborator's job: before a structural rewrite of the clause
// database (arena compaction, variable elimination), every long clause's
// watchers must be pulled out of the watch lists, and put back afterward
// pointing at whatever literals/offsets the rewrite left behind.
type Reattacher struct {
	s *Solver
}

func newReattacher(s *Solver) *Reattacher {
	return &Reattacher{s: s}
}

// DetachAllLong removes every long clause's watch entries, leaving
// binary/ternary watchers untouched (they never move).
func (r *Reattacher) DetachAllLong() {
	s := r.s
	for i := range s.watches {
		ws := s.watches[i]
		j := 0
		for _, w := range ws {
			if w.IsLong() {
				continue
			}
			ws[j] = w
			j++
		}
		s.watches[i] = ws[:j]
	}
}

// ReattachAllLong re-registers watchers for every clause still listed in
// constraints/learnts, using each clause's current literals[0]/[1] as the
// watched pair. Call after DetachAllLong and any rewrite of those lists.
func (r *Reattacher) ReattachAllLong() {
	s := r.s
	for _, ref := range s.constraints {
		s.attachLongClause(ref)
	}
	for _, ref := range s.learnts {
		s.attachLongClause(ref)
	}
}

// CompactArena drops deleted clause slots from the arena and rewrites
// every long watcher, reason and constraints/learnts entry to the moved
// offsets (spec §4.2: "the watch index must then be rewritten in
// lockstep"). It must only be called at decision level 0 so that no
// reason needs to survive the move while still pointing at a live trail
// entry mid-analysis.
func (s *Solver) CompactArena() {
	if s.decisionLevel() != 0 {
		panic("CompactArena called above the root decision level")
	}

	moves, next := s.arena.Compact()
	remap := make(map[ClauseRef]ClauseRef, len(moves))
	for _, m := range moves {
		remap[m.Old] = m.New
	}

	s.reattacher.DetachAllLong()
	s.arena = *next

	for i, ref := range s.constraints {
		s.constraints[i] = remap[ref]
	}
	for i, ref := range s.learnts {
		s.learnts[i] = remap[ref]
	}
	for v := range s.varDat {
		r := &s.varDat[v].reason
		if r.IsLong() {
			r.ref = remap[r.ref]
		}
	}

	s.reattacher.ReattachAllLong()

	for i := range s.watches {
		s.watches[i].sortByRank()
	}
}
