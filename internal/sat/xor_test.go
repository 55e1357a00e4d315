package sat

import "testing"

func newTestXorStore(nVars int) *xorStore {
	x := newXorStore()
	for i := 0; i < nVars; i++ {
		x.expand()
	}
	return x
}

func TestXorStore_AddCancelsDuplicateVars(t *testing.T) {
	x := newTestXorStore(3)
	x.Add([]Var{0, 1, 1, 2}, true)

	c := x.Clause(0)
	if len(c.vars) != 2 || c.vars[0] != 0 || c.vars[1] != 2 {
		t.Errorf("Add() did not cancel the duplicate var: got %v", c.vars)
	}
	if !c.rhs {
		t.Errorf("Add() changed rhs unexpectedly: got %v", c.rhs)
	}
}

func TestXorStore_ShrinkOnAssignBecomesUnit(t *testing.T) {
	x := newTestXorStore(2)
	x.Add([]Var{0, 1}, true) // v0 xor v1 == true

	units, contradiction := x.ShrinkOnAssign(0, true) // v0 = true
	if contradiction {
		t.Fatal("unexpected contradiction")
	}
	if len(units) != 1 || units[0] != 0 {
		t.Fatalf("ShrinkOnAssign() units = %v, want [0]", units)
	}
	c := x.Clause(0)
	if len(c.vars) != 1 || c.vars[0] != 1 {
		t.Errorf("unit clause vars = %v, want [1]", c.vars)
	}
	if c.rhs {
		t.Errorf("rhs should have flipped to false since v0 was assigned true, got %v", c.rhs)
	}
}

func TestXorStore_ShrinkOnAssignDetectsContradiction(t *testing.T) {
	x := newTestXorStore(1)
	x.Add([]Var{0}, true) // v0 == true

	_, contradiction := x.ShrinkOnAssign(0, false) // v0 = false
	if !contradiction {
		t.Error("expected a contradiction: v0 == true but assigned false")
	}
}

func TestXorStore_ShrinkOnAssignSatisfied(t *testing.T) {
	x := newTestXorStore(1)
	x.Add([]Var{0}, true) // v0 == true

	_, contradiction := x.ShrinkOnAssign(0, true) // v0 = true
	if contradiction {
		t.Error("assigning v0 = true should satisfy v0 == true, not contradict it")
	}
}

func TestTwoLongXor_Canonicalize(t *testing.T) {
	a := TwoLongXor{V0: 3, V1: 1, RHS: true}.Canonicalize()
	b := TwoLongXor{V0: 1, V1: 3, RHS: true}.Canonicalize()
	if a != b {
		t.Errorf("Canonicalize() not order-independent: %v vs %v", a, b)
	}
}
