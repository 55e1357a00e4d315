package sat

import "testing"

func TestLiteral_Opposite(t *testing.T) {
	v := Var(3)
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	if pos.Opposite() != neg {
		t.Errorf("pos.Opposite() = %v, want %v", pos.Opposite(), neg)
	}
	if neg.Opposite() != pos {
		t.Errorf("neg.Opposite() = %v, want %v", neg.Opposite(), pos)
	}
	if pos.Opposite().Opposite() != pos {
		t.Errorf("double opposite did not round-trip")
	}
}

func TestLiteral_VarAndSign(t *testing.T) {
	v := Var(7)
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	if pos.Var() != v || neg.Var() != v {
		t.Errorf("Var() mismatch: pos=%v neg=%v want %v", pos.Var(), neg.Var(), v)
	}
	if !pos.IsPositive() {
		t.Errorf("PositiveLiteral should be positive")
	}
	if neg.IsPositive() {
		t.Errorf("NegativeLiteral should not be positive")
	}
	if pos.Sign() != 0 || neg.Sign() != 1 {
		t.Errorf("Sign() mismatch: pos=%d neg=%d", pos.Sign(), neg.Sign())
	}
}

func TestLiteral_Int_IsContiguous(t *testing.T) {
	for v := Var(0); v < 10; v++ {
		pos := PositiveLiteral(v)
		neg := NegativeLiteral(v)
		if neg.Int() != pos.Int()+1 {
			t.Errorf("literal indices for var %d are not contiguous: pos=%d neg=%d", v, pos.Int(), neg.Int())
		}
	}
}
