package sat

import "testing"

func TestProbe_FindsFailedLiteral(t *testing.T) {
	s, v := newTestSolver(2)
	// v0 true forces both v1 and not-v1 through two binary clauses, so
	// v0 must be false.
	s.AddClause([]Literal{NegativeLiteral(v[0]), PositiveLiteral(v[1])})
	s.AddClause([]Literal{NegativeLiteral(v[0]), NegativeLiteral(v[1])})

	st := s.Probe()
	if st.Failed == 0 {
		t.Errorf("Probe() found no failed literal, want at least one (v0)")
	}
	if s.VarValue(v[0]) != False {
		t.Errorf("VarValue(v0) = %v, want False after probing", s.VarValue(v[0]))
	}
}

func TestProbe_DeferredHyperBinWithoutMaterializing(t *testing.T) {
	opts := DefaultOptions
	opts.DoHyperBinRes = false
	opts.DoRemUselessBins = true
	s := NewSolver(opts)
	v := make([]Var, 4)
	for i := range v {
		v[i] = s.AddVariable()
	}

	// A ternary clause gives v0 => (v1 or v2); forcing v2 false then
	// forces v1, a hyper-implied derivation that hyperBinResolution routes
	// through deferHyperBin (DoHyperBinRes is off) once v0 is the probe's
	// root.
	s.AddClause([]Literal{NegativeLiteral(v[0]), PositiveLiteral(v[1]), PositiveLiteral(v[2])})
	s.AddClause([]Literal{NegativeLiteral(v[0]), NegativeLiteral(v[2])})

	st := s.Probe()
	if st.UNSAT {
		t.Fatal("Probe() reported UNSAT unexpectedly")
	}
	if st.HyperBinSkipped == 0 {
		t.Errorf("HyperBinSkipped = 0, want at least one deferred hyper-binary edge")
	}
}

// TestProbe_XorClauseShrinkFindsEquivalence exercises spec §4.5.2/§4.5.4's
// XOR-clause-derived 2-XOR recovery channel: an XOR clause over {a, b, c}
// shrinks to size two identically in both of root's probe branches (two
// separate binary clauses force a to the same value regardless of root's
// phase), so the resulting (b, c) parity constraint is unconditional and
// must be queued to the variable replacer.
func TestProbe_XorClauseShrinkFindsEquivalence(t *testing.T) {
	s, v := newTestSolver(4)
	root, a, b, c := v[0], v[1], v[2], v[3]

	// a is forced true whichever way root goes.
	s.AddClause([]Literal{NegativeLiteral(root), PositiveLiteral(a)})
	s.AddClause([]Literal{PositiveLiteral(root), PositiveLiteral(a)})

	s.xors.Add([]Var{a, b, c}, true) // a xor b xor c == true

	st := s.Probe()
	if st.UNSAT {
		t.Fatal("Probe() reported UNSAT unexpectedly")
	}
	if st.XorClauseEquiv == 0 {
		t.Fatalf("XorClauseEquiv = 0, want at least one XOR-clause-derived equivalence")
	}

	repB := s.replacer.Representative(PositiveLiteral(b))
	repC := s.replacer.Representative(PositiveLiteral(c))
	if repB.Var() != repC.Var() {
		t.Errorf("b and c were not unified by the variable replacer: rep(b)=%v rep(c)=%v", repB, repC)
	}
}

func TestProbe_RespectsMultiLevelThreshold(t *testing.T) {
	opts := DefaultOptions
	opts.DoMultiLevelProbing = true
	opts.MultiLevelThreshold = 2
	s := NewSolver(opts)
	for i := 0; i < 5; i++ {
		s.AddVariable()
	}

	got := s.activityOrder()
	if len(got) != 2 {
		t.Errorf("activityOrder() returned %d vars, want 2 (MultiLevelThreshold)", len(got))
	}
}
