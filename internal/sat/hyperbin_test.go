package sat

import "testing"

// TestHyperBinResolution_AnchorsAtSharedParent exercises spec §4.5.5's
// anchor-selection procedure on a formula where the naive root anchor and
// the in-degree-aware anchor genuinely differ and the in-degree-aware one
// is the only *sound* choice: probing v0 false forces v1 (binary), v1
// forces both v2 and v3 (binary), and only once both v2 and v3 are known
// does the ternary clause force v4 — a hyper-binary fact. v2 and v3 are
// each, alone, insufficient to entail v4 (the ternary clause needs both),
// so v1 — their shared binary parent — is the only literal anchorHyperBin
// could soundly use instead of root.
func TestHyperBinResolution_AnchorsAtSharedParent(t *testing.T) {
	s, v := newTestSolver(5)

	s.AddClause([]Literal{PositiveLiteral(v[0]), PositiveLiteral(v[1])})
	s.AddClause([]Literal{NegativeLiteral(v[1]), PositiveLiteral(v[2])})
	s.AddClause([]Literal{NegativeLiteral(v[1]), PositiveLiteral(v[3])})
	s.AddClause([]Literal{NegativeLiteral(v[2]), NegativeLiteral(v[3]), PositiveLiteral(v[4])})

	st := s.Probe()
	if st.UNSAT {
		t.Fatal("Probe() reported UNSAT unexpectedly")
	}

	if _, ok := s.findBin(PositiveLiteral(v[1]), PositiveLiteral(v[4])); !ok {
		t.Errorf("no binary clause (¬v1, v4): hyper-binary resolution did not anchor at the shared parent v1")
	}
	if _, ok := s.findBin(NegativeLiteral(v[0]), PositiveLiteral(v[4])); ok {
		t.Errorf("found binary clause (v0, v4): hyper-binary resolution anchored naively at root instead of v1")
	}
}

// TestHyperBinResolution_DisabledDefersWithoutAnchoring confirms that with
// DoHyperBinRes off, no anchor selection runs at all (every hyper-implied
// literal is left on a deferred/virtual reason, spec §4.4.5), even though
// binOnlyRepropagate (and therefore useless-bin detection) still runs.
func TestHyperBinResolution_DisabledDefersWithoutAnchoring(t *testing.T) {
	opts := DefaultOptions
	opts.DoHyperBinRes = false
	s := NewSolver(opts)
	v := make([]Var, 5)
	for i := range v {
		v[i] = s.AddVariable()
	}

	s.AddClause([]Literal{PositiveLiteral(v[0]), PositiveLiteral(v[1])})
	s.AddClause([]Literal{NegativeLiteral(v[1]), PositiveLiteral(v[2])})
	s.AddClause([]Literal{NegativeLiteral(v[1]), PositiveLiteral(v[3])})
	s.AddClause([]Literal{NegativeLiteral(v[2]), NegativeLiteral(v[3]), PositiveLiteral(v[4])})

	st := s.Probe()
	if st.UNSAT {
		t.Fatal("Probe() reported UNSAT unexpectedly")
	}
	if st.HyperBinSkipped == 0 {
		t.Errorf("HyperBinSkipped = 0, want at least one deferred hyper-binary edge")
	}
	if _, ok := s.findBin(PositiveLiteral(v[1]), PositiveLiteral(v[4])); ok {
		t.Errorf("found a materialized (¬v1, v4) clause with DoHyperBinRes disabled")
	}
}
