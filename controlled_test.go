package macq

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestBellState(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.ApplyH(0); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyCNOT(0, 1); err != nil {
		t.Fatal(err)
	}

	invSqrt2 := 1 / math.Sqrt2
	wants := []complex128{complex(invSqrt2, 0), 0, 0, complex(invSqrt2, 0)}
	for i, want := range wants {
		if !almostEqualC(qs.Amplitude(i), want) {
			t.Errorf("Bell amplitude[%d] = %v, want %v", i, qs.Amplitude(i), want)
		}
	}
}

func TestCNOTBasisAction(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00", "00"},
		{"10", "11"}, // control qubit 0 set, target qubit 1 flips
		{"01", "01"},
		{"11", "10"},
	}

	qs := mustNew(t, 2)
	for _, tt := range tests {
		if err := qs.InitBasis(tt.in); err != nil {
			t.Fatal(err)
		}
		if err := qs.ApplyCNOT(0, 1); err != nil {
			t.Fatal(err)
		}
		wantIdx := basisIndex(tt.want)
		if !almostEqualC(qs.Amplitude(wantIdx), 1) {
			t.Errorf("CNOT|%s⟩: amplitude[%d] = %v, want 1", tt.in, wantIdx, qs.Amplitude(wantIdx))
		}
	}
}

// basisIndex converts a bitstring (character q = qubit q) to a basis index.
func basisIndex(bitstring string) int {
	idx := 0
	for i := 0; i < len(bitstring); i++ {
		if bitstring[i] == '1' {
			idx |= 1 << i
		}
	}
	return idx
}

func TestCZPhase(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.InitBasis("11"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyCZ(0, 1); err != nil {
		t.Fatal(err)
	}
	if !almostEqualC(qs.Amplitude(3), -1) {
		t.Errorf("CZ|11⟩ amplitude[3] = %v, want -1", qs.Amplitude(3))
	}

	if err := qs.InitBasis("10"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyCZ(0, 1); err != nil {
		t.Fatal(err)
	}
	if !almostEqualC(qs.Amplitude(1), 1) {
		t.Errorf("CZ|10⟩ amplitude[1] = %v, want 1", qs.Amplitude(1))
	}
}

func TestCPPhase(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.InitBasis("11"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyCP(0, 1, math.Pi/2); err != nil {
		t.Fatal(err)
	}
	if !almostEqualC(qs.Amplitude(3), complex(0, 1)) {
		t.Errorf("CP(pi/2)|11⟩ amplitude[3] = %v, want i", qs.Amplitude(3))
	}
}

func TestSwap(t *testing.T) {
	qs := mustNew(t, 3)
	if err := qs.InitBasis("100"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplySwap(0, 2); err != nil {
		t.Fatal(err)
	}
	// qubit 0's 1 moves to qubit 2: bitstring 001, index 4.
	if !almostEqualC(qs.Amplitude(4), 1) {
		t.Errorf("amplitude[4] = %v, want 1", qs.Amplitude(4))
	}

	// Swapping a qubit with itself is a no-op.
	before := qs.Clone()
	if err := qs.ApplySwap(1, 1); err != nil {
		t.Fatal(err)
	}
	if !statesAlmostEqual(qs, before) {
		t.Error("self-swap changed the state")
	}
}

func TestToffoliTruthTable(t *testing.T) {
	for input := 0; input < 8; input++ {
		qs := mustNew(t, 3)
		bits := fmt.Sprintf("%c%c%c", '0'+rune(input&1), '0'+rune((input>>1)&1), '0'+rune((input>>2)&1))
		if err := qs.InitBasis(bits); err != nil {
			t.Fatal(err)
		}
		if err := qs.ApplyToffoli(0, 1, 2); err != nil {
			t.Fatal(err)
		}

		want := input
		if input&1 != 0 && input&2 != 0 {
			want ^= 4
		}
		if !almostEqualC(qs.Amplitude(want), 1) {
			t.Errorf("Toffoli on input %03b: amplitude[%d] = %v, want 1", input, want, qs.Amplitude(want))
		}
	}
}

func TestFredkinTruthTable(t *testing.T) {
	for input := 0; input < 8; input++ {
		qs := mustNew(t, 3)
		if err := qs.SetAmplitude(0, 0); err != nil {
			t.Fatal(err)
		}
		if err := qs.SetAmplitude(input, 1); err != nil {
			t.Fatal(err)
		}
		if err := qs.ApplyFredkin(0, 1, 2); err != nil {
			t.Fatal(err)
		}

		want := input
		if input&1 != 0 {
			// Control set: exchange bits 1 and 2.
			b1, b2 := (input>>1)&1, (input>>2)&1
			want = (input &^ 6) | b1<<2 | b2<<1
		}
		if !almostEqualC(qs.Amplitude(want), 1) {
			t.Errorf("Fredkin on input %03b: amplitude[%d] = %v, want 1", input, want, qs.Amplitude(want))
		}
	}
}

func TestControlledGatesSelfInverse(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*QuantumState) error
	}{
		{"CNOT", func(qs *QuantumState) error { return qs.ApplyCNOT(0, 2) }},
		{"CY", func(qs *QuantumState) error { return qs.ApplyCY(1, 0) }},
		{"CZ", func(qs *QuantumState) error { return qs.ApplyCZ(2, 1) }},
		{"SWAP", func(qs *QuantumState) error { return qs.ApplySwap(0, 2) }},
		{"Toffoli", func(qs *QuantumState) error { return qs.ApplyToffoli(0, 1, 2) }},
		{"Fredkin", func(qs *QuantumState) error { return qs.ApplyFredkin(2, 0, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := mustNew(t, 3)
			randomizeState(t, qs, 99)
			want := qs.Clone()

			if err := tt.apply(qs); err != nil {
				t.Fatal(err)
			}
			if err := tt.apply(qs); err != nil {
				t.Fatal(err)
			}
			if !statesAlmostEqual(qs, want) {
				t.Errorf("%s applied twice is not the identity", tt.name)
			}
		})
	}
}

func TestControlledGatesRejectBadArgs(t *testing.T) {
	qs := mustNew(t, 3)
	if err := qs.ApplyCNOT(1, 1); !errors.Is(err, ErrInvalidGate) {
		t.Errorf("CNOT with equal qubits error = %v, want ErrInvalidGate", err)
	}
	if err := qs.ApplyCNOT(0, 3); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("CNOT with bad target error = %v, want ErrInvalidIndex", err)
	}
	if err := qs.ApplyToffoli(0, 0, 2); !errors.Is(err, ErrInvalidGate) {
		t.Errorf("Toffoli with duplicate controls error = %v, want ErrInvalidGate", err)
	}
}
