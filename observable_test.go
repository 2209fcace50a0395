package macq

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestExpectationPauliZ(t *testing.T) {
	tests := []struct {
		basis string
		want  float64
	}{
		{"0", 1},
		{"1", -1},
	}

	for _, tt := range tests {
		qs := mustNew(t, 1)
		if err := qs.InitBasis(tt.basis); err != nil {
			t.Fatal(err)
		}
		got, err := qs.ExpectationValue(Gate{Kind: GateZ, Target: 0, Control: NoControl, Control2: NoControl})
		if err != nil {
			t.Fatal(err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("⟨%s|Z|%s⟩ = %v, want %v", tt.basis, tt.basis, got, tt.want)
		}
	}
}

func TestExpectationPauliX(t *testing.T) {
	// |+⟩ is the +1 eigenstate of X; |0⟩ has zero X expectation.
	qs := mustNew(t, 1)
	if err := qs.ApplyH(0); err != nil {
		t.Fatal(err)
	}
	got, err := qs.ExpectationValue(Gate{Kind: GateX, Target: 0, Control: NoControl, Control2: NoControl})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 1) {
		t.Errorf("⟨+|X|+⟩ = %v, want 1", got)
	}

	if err := qs.InitBasis("0"); err != nil {
		t.Fatal(err)
	}
	got, err = qs.ExpectationValue(Gate{Kind: GateX, Target: 0, Control: NoControl, Control2: NoControl})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 0) {
		t.Errorf("⟨0|X|0⟩ = %v, want 0", got)
	}
}

func TestExpectationTensorProduct(t *testing.T) {
	// ⟨01|Z⊗Z|01⟩ = (+1)·(−1) = −1 with Z on both qubits.
	qs := mustNew(t, 2)
	if err := qs.InitBasis("10"); err != nil {
		t.Fatal(err)
	}
	got, err := qs.ExpectationValue(
		Gate{Kind: GateZ, Target: 0, Control: NoControl, Control2: NoControl},
		Gate{Kind: GateZ, Target: 1, Control: NoControl, Control2: NoControl},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, -1) {
		t.Errorf("⟨ZZ⟩ = %v, want -1", got)
	}
}

func TestExpectationBellCorrelation(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.ApplyH(0); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyCNOT(0, 1); err != nil {
		t.Fatal(err)
	}
	got, err := qs.ExpectationValue(
		Gate{Kind: GateZ, Target: 0, Control: NoControl, Control2: NoControl},
		Gate{Kind: GateZ, Target: 1, Control: NoControl, Control2: NoControl},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 1) {
		t.Errorf("Bell ⟨ZZ⟩ = %v, want 1", got)
	}
}

func TestExpectationLeavesStateIntact(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.ApplyRy(0, math.Pi/5); err != nil {
		t.Fatal(err)
	}
	before := qs.Clone()
	if _, err := qs.ExpectationValue(Gate{Kind: GateX, Target: 0, Control: NoControl, Control2: NoControl}); err != nil {
		t.Fatal(err)
	}
	if !statesAlmostEqual(qs, before) {
		t.Error("ExpectationValue mutated the state")
	}
}

func TestExpectationRejectsBadGate(t *testing.T) {
	qs := mustNew(t, 1)
	_, err := qs.ExpectationValue(Gate{Kind: GateZ, Target: 3, Control: NoControl, Control2: NoControl})
	if !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("out-of-range observable error = %v, want ErrInvalidIndex", err)
	}
}
