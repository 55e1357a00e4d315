package sat

// ClauseRef is a stable 32-bit offset into the clause arena. It is the
// only way long clauses are referenced from watch lists and reasons
// (spec §4.2/§9).
type ClauseRef int32

// ClauseRefNull is a sentinel ClauseRef that never refers to a live
// clause.
const ClauseRefNull ClauseRef = -1

// ClauseArena owns every long (size >= 4) clause in a single growable
// region addressed by stable offsets. Binary and ternary clauses never
// enter the arena (spec §3.3).
type ClauseArena struct {
	clauses []Clause
	// free lists offsets freed by Delete that Alloc may reuse before
	// growing the backing slice, keeping offsets dense across a
	// probe-heavy run that adds and retracts many hyper-binary-adjacent
	// clauses.
	free []ClauseRef
}

// Alloc stores a new long clause and returns its offset. The literals are
// copied into a pooled backing slice (clauses_alloc.go) so Free can
// return it to the pool.
func (a *ClauseArena) Alloc(lits []Literal, learnt bool) ClauseRef {
	ref := a.litRef(lits)
	entry := Clause{
		literalsRef: ref,
		literals:    (*ref)[:len(lits)],
		prevPos:     2,
	}
	if learnt {
		entry.statusMask |= statusLearnt
	}

	if n := len(a.free); n > 0 {
		r := a.free[n-1]
		a.free = a.free[:n-1]
		a.clauses[r] = entry
		return r
	}

	a.clauses = append(a.clauses, entry)
	return ClauseRef(len(a.clauses) - 1)
}

func (a *ClauseArena) litRef(lits []Literal) *[]Literal {
	ref := allocSlice(len(lits))
	*ref = append((*ref)[:0], lits...)
	return ref
}

// Get returns the clause stored at ref. The returned pointer is only
// valid until the next Compact.
func (a *ClauseArena) Get(ref ClauseRef) *Clause {
	return &a.clauses[ref]
}

// Delete marks ref's slot as reusable and returns its backing literal
// slice to the pool. Callers must have already removed both of the
// clause's watcher entries.
func (a *ClauseArena) Delete(ref ClauseRef) {
	c := &a.clauses[ref]
	c.statusMask |= statusDeleted
	if c.literalsRef != nil {
		freeSlice(c.literalsRef)
	}
	c.literalsRef = nil
	c.literals = nil
	a.free = append(a.free, ref)
}

// Len returns the number of slots in the arena, including deleted ones
// (i.e. one past the highest offset ever handed out).
func (a *ClauseArena) Len() int { return len(a.clauses) }

// CompactionMove records that a compaction moved a surviving clause from
// Old to New. Solver.CompactArena, which drives Compact, uses these
// records to rewrite watchers and reasons.
type CompactionMove struct {
	Old, New ClauseRef
}

// Compact scans the arena, drops deleted slots, and returns a fresh arena
// alongside the list of (old, new) offset moves so the caller can rewrite
// every Watched{Long} and Reason{Long} it holds (spec §4.2: "the watch
// index must then be rewritten in lockstep").
func (a *ClauseArena) Compact() ([]CompactionMove, *ClauseArena) {
	moves := make([]CompactionMove, 0, len(a.clauses))
	next := &ClauseArena{clauses: make([]Clause, 0, len(a.clauses))}

	for old := range a.clauses {
		c := &a.clauses[old]
		if c.isDeleted() {
			continue
		}
		newRef := ClauseRef(len(next.clauses))
		next.clauses = append(next.clauses, *c)
		moves = append(moves, CompactionMove{Old: ClauseRef(old), New: newRef})
	}

	return moves, next
}
