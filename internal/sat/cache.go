package sat

// cacheMergeInto appends implied to root's cached transitive-implication
// set (spec §3.6 "transOTFCache", §4.5.2 "append the segment, excluding
// the decision, to transOTFCache[¬ℓ₁]"). Merged, not replaced: a literal
// already in the cache from an earlier probe stays even if this branch's
// propagation happens to be weaker (e.g. because intervening learning
// shrank the formula).
func (s *Solver) cacheMergeInto(root Literal, implied []Literal) {
	if len(implied) == 0 {
		return
	}
	existing := s.transCache[root.Int()]
	seen := make(map[Literal]bool, len(existing)+len(implied))
	for _, l := range existing {
		seen[l] = true
	}
	for _, l := range implied {
		if !seen[l] {
			seen[l] = true
			existing = append(existing, l)
		}
	}
	s.transCache[root.Int()] = existing
}

// replayCache is the prober's step-1 cache-based propagation pass (spec
// §4.5.1): for every literal with a non-empty cached implication set,
// assuming it true and enqueueing its cached implications directly is
// far cheaper than re-deriving them through propagation. Returns false
// if replaying the cache reveals the formula is unsatisfiable.
func (s *Solver) replayCache() bool {
	for lit := 0; lit < len(s.transCache); lit++ {
		// transCache[¬ℓ] holds the implications of ℓ.
		root := Literal(lit).Opposite()
		cached := s.transCache[lit]
		if len(cached) == 0 {
			continue
		}
		if s.LitValue(root) != Unknown {
			continue
		}

		s.NewDecisionLevel()
		if !s.enqueue(root, probeRootReason()) {
			s.CancelUntil(0)
			continue
		}
		conflict := false
		for _, q := range cached {
			switch s.LitValue(q) {
			case False:
				conflict = true
			case Unknown:
				s.enqueue(q, hyperBinaryReason(root.Opposite(), true, true, true))
			}
			if conflict {
				break
			}
		}
		s.CancelUntil(0)

		if conflict {
			if !s.enqueue(root.Opposite(), NoReason) {
				s.ok = false
				return false
			}
			s.Simplify()
		}
	}
	return true
}
