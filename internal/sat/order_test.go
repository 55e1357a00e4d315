package sat

import "testing"

func TestVarOrder_BumpScoreReordersDecisions(t *testing.T) {
	vo := NewVarOrder(0.95, false)
	vo.AddVar(0, false)
	vo.AddVar(0, false)
	vo.AddVar(0, false)

	vo.BumpScore(Var(2))
	vo.BumpScore(Var(2))
	vo.BumpScore(Var(1))

	s := NewDefaultSolver()
	s.AddVariable()
	s.AddVariable()
	s.AddVariable()

	first := vo.NextDecision(s)
	if first.Var() != Var(2) {
		t.Errorf("first decision = var %d, want var 2 (highest bumped score)", first.Var())
	}
}

func TestVarOrder_ReinsertRestoresSavedPhase(t *testing.T) {
	vo := NewVarOrder(0.95, true)
	vo.AddVar(0, false)
	vo.Reinsert(Var(0), False)

	s := NewDefaultSolver()
	s.AddVariable()

	got := vo.NextDecision(s)
	if got != NegativeLiteral(Var(0)) {
		t.Errorf("NextDecision() = %v, want the saved negative phase", got)
	}
}

func TestVarOrder_SnapshotIsDescendingAndFrozen(t *testing.T) {
	vo := NewVarOrder(0.95, false)
	for i := 0; i < 4; i++ {
		vo.AddVar(0, false)
	}
	vo.BumpScore(Var(3))
	vo.BumpScore(Var(3))
	vo.BumpScore(Var(1))

	snap := vo.Snapshot(nil)
	vars := snap.Vars()
	if len(vars) != 4 {
		t.Fatalf("Snapshot().Vars() has %d entries, want 4", len(vars))
	}
	if vars[0] != Var(3) {
		t.Errorf("first snapshot entry = var %d, want var 3 (highest score)", vars[0])
	}

	// Bumping after the snapshot was taken must not change it.
	vo.BumpScore(Var(0))
	vo.BumpScore(Var(0))
	vo.BumpScore(Var(0))
	if snap.Vars()[0] != Var(3) {
		t.Errorf("snapshot mutated after being taken: %v", snap.Vars())
	}
}

func TestVarOrder_SnapshotFiltersCandidates(t *testing.T) {
	vo := NewVarOrder(0.95, false)
	for i := 0; i < 3; i++ {
		vo.AddVar(0, false)
	}

	snap := vo.Snapshot(func(v Var) bool { return v != Var(1) })
	for _, v := range snap.Vars() {
		if v == Var(1) {
			t.Errorf("Snapshot() included filtered-out var 1: %v", snap.Vars())
		}
	}
	if len(snap.Vars()) != 2 {
		t.Errorf("Snapshot() has %d entries, want 2", len(snap.Vars()))
	}
}
