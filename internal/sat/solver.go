package sat

import (
	"fmt"
	"log"
)

// elimKind tags why a variable is no longer a free decision candidate
// (spec §3.1 "elimination tag"). The algorithms that actually perform
// elimination/replacement/decomposition are external collaborators
// (spec §6.2); the core only needs to remember and respect the tag.
type elimKind uint8

const (
	elimNone elimKind = iota
	elimBySubsumer
	elimByXorSubsumer
	elimQueuedVarReplacer
	elimByPartHandler
)

// varData is the per-variable bookkeeping of spec §3.1.
type varData struct {
	level    int
	reason   Reason
	elim     elimKind
	polarity LBool // phase-saving hint
}

// Options configures a Solver. Defaults are CryptoMiniSat-derived (see
// SPEC_FULL.md "Configuration").
type Options struct {
	ClauseDecay   float64
	VariableDecay float64
	MaxConflicts  int64
	PhaseSaving   bool

	// Prober knobs (spec §4.5).
	FailedLitMultiplier float64
	DoHyperBinRes       bool
	DoRemUselessBins    bool
	DoBinXorFind        bool

	// DoCacheOTFSSR gates the probe-time transitive-implication cache
	// (spec §3.6 transOTFCache, §4.5.1 step 1): when set, every probe
	// branch's implied literals are merged into a per-literal cache, and
	// from the second call to Probe onward that cache is replayed as a
	// cheap propagation pass before the three visitation orders run.
	DoCacheOTFSSR       bool
	DoMultiLevelProbing bool
	MultiLevelThreshold int
	UpdateGlues         bool
}

// DefaultOptions mirrors the teacher's historical constants where the
// original source (CryptoMiniSat's Solver/FailedLitSearcher.cpp) names one.
var DefaultOptions = Options{
	ClauseDecay:         0.999,
	VariableDecay:       0.95,
	MaxConflicts:        -1,
	PhaseSaving:         false,
	FailedLitMultiplier: 1.0,
	DoHyperBinRes:       true,
	DoRemUselessBins:    true,
	DoBinXorFind:        true,
	DoCacheOTFSSR:       true,
	DoMultiLevelProbing: false,
	MultiLevelThreshold: 30,
	UpdateGlues:         true,
}

// Solver owns the clause arena, watch index, trail and assignment table
// described in spec §3-4 (components C1-C4), plus the ambient CDCL
// search loop that exercises them end to end.
type Solver struct {
	opts Options

	// C2: clause storage.
	arena       ClauseArena
	constraints []ClauseRef
	learnts     []ClauseRef
	clauseInc   float64
	clauseDecay float64

	// Variable ordering (ambient CDCL driver + prober's third
	// visitation order, spec §4.5.1 step 4).
	activities []float64
	varInc     float64
	varDecay   float64
	order      *VarOrder

	// C3: watch index, sized 2*nVars, indexed by Literal.Int().
	watches []watchList

	// Assignment table (spec §3.1): assigns[v] is the truth value of v.
	assigns []LBool
	varDat  []varData

	// Trail.
	trail    []Literal
	trailLim []int
	qhead    int
	qheadbin int
	qheadlong int

	// Conflict reporting (spec §4.4.4).
	failBinLit Literal

	// Per-propagation counters (spec §4.4.6).
	propsBinRed, propsBinIrred   uint64
	propsTri                     uint64
	propsLongRed, propsLongIrred uint64
	bogoProps                    uint64

	// hyperbinDeferred counts anchor-selection calls that reasoned through
	// a virtual hyper-binary edge without materializing it into the watch
	// lists (DoHyperBinRes disabled), read back out by Probe via
	// ProbeStats.
	hyperbinDeferred int

	// hyperImplied collects, for the probe branch currently being
	// propagated, every literal propagateFull derived through a ternary
	// or long clause rather than a direct binary edge from root (spec
	// §4.5.5). Reset at the start of each branch, consumed by
	// hyperBinResolution at its end.
	hyperImplied []Literal

	// dontRemoveAncestor guards useless-binary removal against cascading
	// away the very path a pass relies on (spec §4.5.6). Cleared at the
	// start of each binOnlyRepropagate pass.
	dontRemoveAncestor *ResetSet

	// Per-literal true/false occurrence counts (SPEC_FULL.md §3 item 6),
	// feeding the prober's polarity-imbalance ordering.
	polPos, polNeg []uint64

	// Binary clauses flagged redundant by the most recent probing pass
	// (spec §4.5.6), pending a batched RemoveUselessBins call.
	uselessBin map[binKey]struct{}

	// transCache[l.Opposite()] is the cached set of literals transitively
	// implied by l, accumulated across probe branches (spec §3.6
	// transOTFCache, §4.5.1 step 1). Indexed by Literal.Int(), merged
	// (never replaced) on every branch that derives through l. cacheSeeded is false until
	// the first Probe call completes, since the cache has nothing to
	// replay before then.
	transCache   [][]Literal
	cacheSeeded  bool

	// Whether the problem has reached a top-level conflict.
	ok bool

	// Search statistics.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64

	// Last model found by Solve.
	Model []LBool

	// Scratch set used by conflict analysis.
	seenVar *ResetSet

	// Temporary slices reused across calls to avoid churn.
	tmpLearnts []Literal

	glueEMA *EMA

	// XOR bookkeeping (spec §4.5.4), read by the prober, written here and
	// by the external var-replacer/cleaner.
	xors *xorStore

	// External collaborators, minimally but really implemented
	// (spec §6.2).
	replacer   *VarReplacer
	cleaner    *ClauseCleaner
	reattacher *Reattacher
}

// NewDefaultSolver returns a solver configured with default options.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver returns an empty solver (no variables, no clauses) ready for
// AddVariable/AddClause calls.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		opts:        opts,
		clauseDecay: opts.ClauseDecay,
		varDecay:    opts.VariableDecay,
		clauseInc:   1,
		varInc:      1,
		ok:          true,
		failBinLit:  LitUndef,
		order:              NewVarOrder(opts.VariableDecay, opts.PhaseSaving),
		seenVar:            &ResetSet{},
		dontRemoveAncestor: &ResetSet{},
		xors:               newXorStore(),
		glueEMA:            NewEMA(0.95),
	}
	s.replacer = newVarReplacer(s)
	s.cleaner = newClauseCleaner(s)
	s.reattacher = newReattacher(s)
	return s
}

func (s *Solver) NumVariables() int   { return len(s.assigns) }
func (s *Solver) NumAssigns() int     { return len(s.trail) }
func (s *Solver) NumConstraints() int { return len(s.constraints) }
func (s *Solver) NumLearnts() int     { return len(s.learnts) }

// Ok reports whether the formula is still (as far as known) satisfiable.
func (s *Solver) Ok() bool { return s.ok }

func (s *Solver) VarValue(v Var) LBool { return s.assigns[v] }

// LitValue returns value(l): assigns[l.Var()], flipped if l is negative.
func (s *Solver) LitValue(l Literal) LBool {
	v := s.assigns[l.Var()]
	if l.IsPositive() {
		return v
	}
	return v.Opposite()
}

func (s *Solver) VarElim(v Var) elimKind  { return s.varDat[v].elim }
func (s *Solver) VarLevel(v Var) int      { return s.varDat[v].level }
func (s *Solver) VarReason(v Var) Reason  { return s.varDat[v].reason }

// newVar creates a new SAT variable (spec §6.1, C1). The hard cap of 2^30
// variables (spec §7 "Resource exhaustion") aborts the program, matching
// the original's exit(-1): reaching it is not a recoverable condition in
// this core.
func (s *Solver) newVar() Var {
	v := Var(s.NumVariables())
	if int(v) >= maxVars {
		log.Fatalf("variable cap reached (%d)", maxVars)
	}

	s.watches = append(s.watches, nil, nil)
	s.assigns = append(s.assigns, Unknown)
	s.varDat = append(s.varDat, varData{level: -1})
	s.activities = append(s.activities, 0)
	s.polPos = append(s.polPos, 0)
	s.polNeg = append(s.polNeg, 0)
	s.seenVar.Expand()
	s.dontRemoveAncestor.Expand()
	s.order.AddVar(0, true)
	s.xors.expand()
	s.transCache = append(s.transCache, nil, nil)

	return v
}

// AddVariable is the exported form of newVar (spec §6.1 "newVar() -> Var").
func (s *Solver) AddVariable() Var { return s.newVar() }

// watch registers w on watch's watch list, to be woken up when watch is
// assigned to true.
func (s *Solver) watch(watch Literal, w Watched) {
	s.watches[watch.Int()].push(w)
}

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// DecisionLevel exposes decisionLevel (spec §6.1).
func (s *Solver) DecisionLevel() int { return s.decisionLevel() }

// NewDecisionLevel opens a new decision level on the trail.
func (s *Solver) NewDecisionLevel() { s.trailLim = append(s.trailLim, len(s.trail)) }

// enqueue requires value(l) != False (spec §4.4.2); the caller must check
// for a conflict before calling if l might already be false.
func (s *Solver) enqueue(l Literal, reason Reason) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	}

	v := l.Var()
	if l.IsPositive() {
		s.assigns[v] = True
	} else {
		s.assigns[v] = False
	}
	s.varDat[v].level = s.decisionLevel()
	s.varDat[v].reason = reason
	s.trail = append(s.trail, l)
	return true
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.Var()

	s.order.Reinsert(v, s.assigns[v])
	s.varDat[v].polarity = s.assigns[v]
	s.assigns[v] = Unknown
	s.varDat[v].level = -1
	s.varDat[v].reason = NoReason

	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// CancelUntil backtracks to the given decision level, rewinding qhead,
// qheadbin and qheadlong with it.
func (s *Solver) CancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
	if s.qhead > len(s.trail) {
		s.qhead = len(s.trail)
	}
	if s.qheadbin > len(s.trail) {
		s.qheadbin = len(s.trail)
	}
	if s.qheadlong > len(s.trail) {
		s.qheadlong = len(s.trail)
	}
}

func (s *Solver) bumpClaActivity(ref ClauseRef) {
	c := s.arena.Get(ref)
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		s.clauseInc *= 1e-100
		for _, r := range s.learnts {
			s.arena.Get(r).activity *= 1e-100
		}
	}
}

func (s *Solver) bumpVarActivity(v Var) {
	s.activities[v] += s.varInc
	if s.activities[v] > 1e100 {
		s.varInc *= 1e-100
		for i := range s.activities {
			s.activities[i] *= 1e-100
		}
	}
	s.order.BumpScore(v)
}

func (s *Solver) decayClaActivity() { s.clauseInc *= s.clauseDecay }
func (s *Solver) decayVarActivity() { s.order.DecayScores() }

// getUnitaries returns the literals forced true at decision level 0
// (spec §6.1).
func (s *Solver) getUnitaries() []Literal {
	if len(s.trailLim) == 0 {
		out := make([]Literal, len(s.trail))
		copy(out, s.trail)
		return out
	}
	out := make([]Literal, s.trailLim[0])
	copy(out, s.trail[:s.trailLim[0]])
	return out
}

// countNumBinClauses counts distinct binary clauses, optionally including
// learnt and/or non-learnt ones (spec §6.1).
func (s *Solver) countNumBinClauses(alsoLearnt, alsoNonLearnt bool) int {
	num := 0
	for _, ws := range s.watches {
		for _, w := range ws {
			if !w.IsBinary() {
				continue
			}
			if w.Learnt() && alsoLearnt {
				num++
			} else if !w.Learnt() && alsoNonLearnt {
				num++
			}
		}
	}
	return num / 2
}

// getBinWatchSize counts binary watchers on lit, optionally including
// learnt ones (spec §6.1).
func (s *Solver) getBinWatchSize(alsoLearnt bool, lit Literal) int {
	num := 0
	for _, w := range s.watches[lit.Int()] {
		if w.IsBinary() && (alsoLearnt || !w.Learnt()) {
			num++
		}
	}
	return num
}

func (s *Solver) shouldStop() bool {
	return s.opts.MaxConflicts >= 0 && s.opts.MaxConflicts <= s.TotalConflicts
}

// attachBinClause wires both watch-side entries of a binary clause (spec
// §3.3/§4.1: binary clauses live only in the two endpoints' watch lists,
// never in the arena). Following the teacher's convention, a clause
// literal x is watched at index x.Opposite(): the entry is examined when
// x.Opposite() is assigned true, i.e. when x itself is falsified.
func (s *Solver) attachBinClause(a, b Literal, learnt bool) {
	s.watch(a.Opposite(), NewBinWatch(b, learnt))
	s.watch(b.Opposite(), NewBinWatch(a, learnt))
}

func (s *Solver) detachBinClause(a, b Literal, learnt bool) {
	s.watches[a.Opposite().Int()].removeBin(b, learnt)
	s.watches[b.Opposite().Int()].removeBin(a, learnt)
}

// attachTriClause wires all three watch-side entries of a ternary clause
// (spec §3.3: ternary clauses are inlined watch entries, watched on all
// three literals so any one of them being falsified can trigger the other
// two).
func (s *Solver) attachTriClause(a, b, c Literal) {
	s.watch(a.Opposite(), NewTriWatch(b, c))
	s.watch(b.Opposite(), NewTriWatch(a, c))
	s.watch(c.Opposite(), NewTriWatch(a, b))
}

// attachLongClause wires the two watched literals (lits[0], lits[1]) of an
// arena clause, caching a third literal as the blocker (spec §3.3/§9).
func (s *Solver) attachLongClause(ref ClauseRef) {
	c := s.arena.Get(ref)
	lits := c.Literals()
	blocker := lits[0]
	if len(lits) > 2 {
		blocker = lits[2]
	}
	s.watch(lits[0].Opposite(), NewLongWatch(ref, blocker))
	s.watch(lits[1].Opposite(), NewLongWatch(ref, blocker))
}

func (s *Solver) detachLongClause(ref ClauseRef) {
	c := s.arena.Get(ref)
	lits := c.Literals()
	s.watches[lits[0].Opposite().Int()].removeLong(ref)
	s.watches[lits[1].Opposite().Int()].removeLong(ref)
}

// AddClause adds a (non-learnt) clause, dispatching on its size into the
// binary/ternary/long representations of spec §3.3. Tautologies are
// dropped silently and duplicate literals are removed, matching the
// original's simplifyClause-on-add behaviour; a clause reduced to empty
// marks the formula unsatisfiable (spec §7 "Clause triggers an immediate
// top-level conflict at add time").
func (s *Solver) AddClause(lits []Literal) bool {
	return s.addClause(lits, false)
}

// AddLearntClause adds a clause flagged as learnt. The CDCL driver
// (record) and hyper-binary resolution attach their clauses directly and
// do not go through it.
func (s *Solver) AddLearntClause(lits []Literal) bool {
	return s.addClause(lits, true)
}

func (s *Solver) addClause(lits []Literal, learnt bool) bool {
	if !s.ok {
		return false
	}

	ls := append([]Literal(nil), lits...)
	sortLiterals(ls)

	out := ls[:0]
	var prev Literal = LitUndef
	for _, l := range ls {
		if s.decisionLevel() == 0 {
			switch s.LitValue(l) {
			case True:
				return true // satisfied at level 0
			case False:
				continue // drop falsified literal
			}
		}
		if l == prev {
			continue // duplicate
		}
		if prev != LitUndef && l == prev.Opposite() {
			return true // tautology
		}
		out = append(out, l)
		prev = l
	}
	ls = out

	for _, l := range ls {
		if l.IsPositive() {
			s.polPos[l.Var()]++
		} else {
			s.polNeg[l.Var()]++
		}
	}

	switch len(ls) {
	case 0:
		s.ok = false
		return false
	case 1:
		if !s.enqueue(ls[0], NoReason) {
			s.ok = false
			return false
		}
		return true
	case 2:
		s.attachBinClause(ls[0], ls[1], learnt)
		return true
	case 3:
		s.attachTriClause(ls[0], ls[1], ls[2])
		return true
	default:
		ref := s.arena.Alloc(ls, learnt)
		s.attachLongClause(ref)
		if learnt {
			s.learnts = append(s.learnts, ref)
		} else {
			s.constraints = append(s.constraints, ref)
		}
		return true
	}
}

// sortLiterals sorts literals so that duplicate/opposite-literal detection
// during addClause is a single linear scan.
func sortLiterals(ls []Literal) {
	for i := 1; i < len(ls); i++ {
		l := ls[i]
		j := i - 1
		for j >= 0 && ls[j] > l {
			ls[j+1] = ls[j]
			j--
		}
		ls[j+1] = l
	}
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c      iterations      conflicts       restarts        learnts")
}

func (s *Solver) printSearchStats() {
	fmt.Printf("c %14d %14d %14d %14d\n", s.TotalIterations, s.TotalConflicts, s.TotalRestarts, len(s.learnts))
}
