package sat

import "testing"

// TestSearch_LearnsAndBacktracks builds a formula where a conflict at a deep
// decision level must be resolved into a clause that backjumps past an
// unrelated decision, matching the FUIP scheme (spec §4.6 analyze/record).
func TestSearch_LearnsAndBacktracks(t *testing.T) {
	s, v := newTestSolver(4)
	// Decision on v0 is irrelevant to the conflict below.
	// (v1 or v2), (v1 or v3), (not v2 or not v3): deciding v1=false forces
	// v2=true and v3=true, which conflict.
	s.AddClause([]Literal{PositiveLiteral(v[1]), PositiveLiteral(v[2])})
	s.AddClause([]Literal{PositiveLiteral(v[1]), PositiveLiteral(v[3])})
	s.AddClause([]Literal{NegativeLiteral(v[2]), NegativeLiteral(v[3])})

	s.NewDecisionLevel()
	s.enqueue(PositiveLiteral(v[0]), NoReason)
	if confl := s.propagate(); !confl.IsNone() {
		t.Fatalf("unexpected conflict after deciding v0: %+v", confl)
	}

	s.NewDecisionLevel()
	s.enqueue(NegativeLiteral(v[1]), NoReason)
	confl := s.propagate()
	if confl.IsNone() {
		t.Fatal("expected a conflict once v1 is decided false")
	}

	learnt, btLevel := s.analyze(confl)
	if len(learnt) == 0 {
		t.Fatal("analyze produced an empty learnt clause")
	}
	if btLevel >= s.decisionLevel() {
		t.Errorf("backtrack level %d should be below current level %d", btLevel, s.decisionLevel())
	}

	before := s.NumLearnts()
	s.CancelUntil(btLevel)
	s.record(learnt, s.glue(learnt))
	if s.NumLearnts() <= before && len(learnt) >= 2 {
		t.Errorf("record() did not add the learnt clause to the learnt database")
	}
}

func TestSearch_SolveWithRestarts(t *testing.T) {
	s, v := newTestSolver(5)
	// A small chain forcing multiple conflicts across a few variables.
	s.AddClause([]Literal{PositiveLiteral(v[0]), PositiveLiteral(v[1])})
	s.AddClause([]Literal{NegativeLiteral(v[0]), PositiveLiteral(v[2])})
	s.AddClause([]Literal{NegativeLiteral(v[1]), PositiveLiteral(v[3])})
	s.AddClause([]Literal{NegativeLiteral(v[2]), NegativeLiteral(v[3]), PositiveLiteral(v[4])})
	s.AddClause([]Literal{NegativeLiteral(v[4]), PositiveLiteral(v[0])})

	got := s.Solve()
	if got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}
}

func TestReduceDB_ConsumesProtectionReprieve(t *testing.T) {
	s, v := newTestSolver(4)
	ref := s.arena.Alloc([]Literal{
		PositiveLiteral(v[0]), PositiveLiteral(v[1]), PositiveLiteral(v[2]), PositiveLiteral(v[3]),
	}, true)
	s.attachLongClause(ref)
	s.learnts = append(s.learnts, ref)
	s.arena.Get(ref).setProtected()

	s.ReduceDB()
	if len(s.learnts) != 1 {
		t.Fatalf("protected clause was deleted on its first ReduceDB pass: len(learnts) = %d", len(s.learnts))
	}
	if s.arena.Get(ref).isProtected() {
		t.Error("ReduceDB should have consumed the protection on the pass that kept the clause")
	}

	s.ReduceDB()
	if len(s.learnts) != 0 {
		t.Errorf("clause survived a second ReduceDB pass after losing protection: len(learnts) = %d", len(s.learnts))
	}
}

func TestSearch_Glue(t *testing.T) {
	s, v := newTestSolver(3)
	s.NewDecisionLevel()
	s.enqueue(PositiveLiteral(v[0]), NoReason)
	s.NewDecisionLevel()
	s.enqueue(PositiveLiteral(v[1]), NoReason)

	g := s.glue([]Literal{PositiveLiteral(v[0]), PositiveLiteral(v[1])})
	if g != 2 {
		t.Errorf("glue() = %d, want 2 (two distinct decision levels)", g)
	}

	g = s.glue([]Literal{PositiveLiteral(v[0])})
	if g != 1 {
		t.Errorf("glue() = %d, want 1 for a single-literal clause", g)
	}
	_ = v[2]
}
