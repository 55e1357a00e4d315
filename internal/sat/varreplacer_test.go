package sat

import "testing"

func TestVarReplacer_SameSignEquivalence(t *testing.T) {
	r := newVarReplacer(NewDefaultSolver())
	if !r.AddEquivalence(0, 1, true) { // v0 == v1
		t.Fatal("AddEquivalence rejected a fresh fact")
	}

	if r.Representative(PositiveLiteral(0)) != r.Representative(PositiveLiteral(1)) {
		t.Errorf("v0 and v1 should share a representative after v0 == v1")
	}
	if r.Representative(NegativeLiteral(0)) != r.Representative(NegativeLiteral(1)) {
		t.Errorf("!v0 and !v1 should share a representative after v0 == v1")
	}
}

func TestVarReplacer_OppositeSignEquivalence(t *testing.T) {
	r := newVarReplacer(NewDefaultSolver())
	if !r.AddEquivalence(0, 1, false) { // v0 == !v1
		t.Fatal("AddEquivalence rejected a fresh fact")
	}

	if r.Representative(PositiveLiteral(0)) != r.Representative(NegativeLiteral(1)) {
		t.Errorf("v0 and !v1 should share a representative after v0 == !v1")
	}
}

func TestVarReplacer_DetectsContradiction(t *testing.T) {
	r := newVarReplacer(NewDefaultSolver())
	if !r.AddEquivalence(0, 1, true) { // v0 == v1
		t.Fatal("AddEquivalence rejected a fresh fact")
	}
	if r.AddEquivalence(0, 1, false) { // v0 == !v1 contradicts the above
		t.Error("AddEquivalence should reject a contradictory fact")
	}
}

func TestVarReplacer_TransitiveChain(t *testing.T) {
	r := newVarReplacer(NewDefaultSolver())
	if !r.AddEquivalence(0, 1, true) { // v0 == v1
		t.Fatal("first AddEquivalence failed")
	}
	if !r.AddEquivalence(1, 2, false) { // v1 == !v2
		t.Fatal("second AddEquivalence failed")
	}

	// Transitively, v0 == !v2.
	if r.Representative(PositiveLiteral(0)) != r.Representative(NegativeLiteral(2)) {
		t.Errorf("v0 should be equivalent to !v2 through the v1 chain")
	}
	if r.AddEquivalence(0, 2, true) { // v0 == v2 contradicts the known v0 == !v2
		t.Error("AddEquivalence should reject v0 == v2 given the known v0 == !v2 chain")
	}
}
