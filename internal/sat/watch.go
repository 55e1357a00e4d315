package sat

// watchedKind discriminates the three shapes of watcher (spec §3.3/§9
// "Tagged watcher").
type watchedKind uint8

const (
	watchedBin watchedKind = iota
	watchedTri
	watchedLong
)

// Watched is an entry on a literal's watch list. Exactly one of the three
// shapes is meaningful, selected by kind:
//
//   - Bin:  other is the binary clause's other literal, learnt its flag.
//   - Tri:  other, other2 are the ternary clause's other two literals.
//   - Long: ref is the arena offset, blocker a literal of the clause
//     cached for a fast satisfiability short-circuit.
type Watched struct {
	kind    watchedKind
	other   Literal
	other2  Literal // Tri only
	learnt  bool    // Bin only
	ref     ClauseRef
	blocker Literal // Long only
}

// NewBinWatch builds a binary watcher.
func NewBinWatch(other Literal, learnt bool) Watched {
	return Watched{kind: watchedBin, other: other, learnt: learnt}
}

// NewTriWatch builds a ternary watcher.
func NewTriWatch(other1, other2 Literal) Watched {
	return Watched{kind: watchedTri, other: other1, other2: other2}
}

// NewLongWatch builds a long-clause watcher.
func NewLongWatch(ref ClauseRef, blocker Literal) Watched {
	return Watched{kind: watchedLong, ref: ref, blocker: blocker}
}

func (w Watched) IsBinary() bool { return w.kind == watchedBin }
func (w Watched) IsTri() bool    { return w.kind == watchedTri }
func (w Watched) IsLong() bool   { return w.kind == watchedLong }

func (w Watched) Other() Literal    { return w.other }
func (w Watched) Other2() Literal   { return w.other2 }
func (w Watched) Learnt() bool      { return w.learnt }
func (w Watched) Ref() ClauseRef    { return w.ref }
func (w Watched) Blocker() Literal       { return w.blocker }
func (w *Watched) SetBlocker(l Literal) { w.blocker = l }

// watchList is the ordered list of watchers attached to one literal.
type watchList []Watched

func (ws *watchList) push(w Watched) {
	*ws = append(*ws, w)
}

// removeBin deletes the single Bin(other, learnt) entry, preserving the
// relative order of the remaining watchers (spec testable property 1:
// watch mirror symmetry must hold after removal on both sides).
func (ws *watchList) removeBin(other Literal, learnt bool) {
	s := *ws
	for i, w := range s {
		if w.kind == watchedBin && w.other == other && w.learnt == learnt {
			copy(s[i:], s[i+1:])
			*ws = s[:len(s)-1]
			return
		}
	}
}

// removeLong deletes the single Long(ref, ...) entry.
func (ws *watchList) removeLong(ref ClauseRef) {
	s := *ws
	for i, w := range s {
		if w.kind == watchedLong && w.ref == ref {
			copy(s[i:], s[i+1:])
			*ws = s[:len(s)-1]
			return
		}
	}
}

// find reports whether a Bin(other, learnt) entry is present.
func (ws watchList) find(other Literal, learnt bool) bool {
	for _, w := range ws {
		if w.kind == watchedBin && w.other == other && w.learnt == learnt {
			return true
		}
	}
	return false
}

// watchRank orders Bin < Tri < Long so that the binary-first layout
// improves cache behaviour (spec §4.3: "sorting is a maintenance
// operation ... propagation does not assume sorted order but the
// binary-first layout improves cache behaviour").
func watchRank(k watchedKind) int {
	switch k {
	case watchedBin:
		return 0
	case watchedTri:
		return 1
	default:
		return 2
	}
}

// sortByRank stably reorders the list to the binary/ternary/long layout
// watchRank defines. Insertion sort: watch lists are short and this runs
// only as part of a full-database maintenance pass, never on the
// propagation hot path.
func (ws *watchList) sortByRank() {
	s := *ws
	for i := 1; i < len(s); i++ {
		w := s[i]
		j := i - 1
		for j >= 0 && watchRank(s[j].kind) > watchRank(w.kind) {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = w
	}
}
