package macq

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

// randomizeState fills the state with seeded random amplitudes and
// normalizes, so kernel tests run on something other than basis states.
func randomizeState(t *testing.T, qs *QuantumState, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < qs.VectorSize(); i++ {
		if err := qs.SetAmplitude(i, complex(rng.NormFloat64(), rng.NormFloat64())); err != nil {
			t.Fatal(err)
		}
	}
	if err := qs.Normalize(); err != nil {
		t.Fatal(err)
	}
}

func statesAlmostEqual(a, b *QuantumState) bool {
	if a.VectorSize() != b.VectorSize() {
		return false
	}
	for i := 0; i < a.VectorSize(); i++ {
		if !almostEqualC(a.Amplitude(i), b.Amplitude(i)) {
			return false
		}
	}
	return true
}

func TestSelfInversePairs(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*QuantumState, int) error
	}{
		{"X", (*QuantumState).ApplyX},
		{"Y", (*QuantumState).ApplyY},
		{"Z", (*QuantumState).ApplyZ},
		{"H", (*QuantumState).ApplyH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for numQubits := 1; numQubits <= 8; numQubits++ {
				qs := mustNew(t, numQubits)
				randomizeState(t, qs, int64(numQubits))
				want := qs.Clone()

				target := numQubits / 2
				if err := tt.apply(qs, target); err != nil {
					t.Fatal(err)
				}
				if err := tt.apply(qs, target); err != nil {
					t.Fatal(err)
				}
				if !statesAlmostEqual(qs, want) {
					t.Errorf("%s applied twice on %d qubits is not the identity", tt.name, numQubits)
				}
			}
		})
	}
}

func TestInverseGatePairs(t *testing.T) {
	angle := 0.7342
	tests := []struct {
		name    string
		forward func(*QuantumState) error
		inverse func(*QuantumState) error
	}{
		{"S/Sdg", func(qs *QuantumState) error { return qs.ApplyS(1) }, func(qs *QuantumState) error { return qs.ApplySdg(1) }},
		{"T/Tdg", func(qs *QuantumState) error { return qs.ApplyT(1) }, func(qs *QuantumState) error { return qs.ApplyTdg(1) }},
		{"Rx", func(qs *QuantumState) error { return qs.ApplyRx(0, angle) }, func(qs *QuantumState) error { return qs.ApplyRx(0, -angle) }},
		{"Ry", func(qs *QuantumState) error { return qs.ApplyRy(2, angle) }, func(qs *QuantumState) error { return qs.ApplyRy(2, -angle) }},
		{"Rz", func(qs *QuantumState) error { return qs.ApplyRz(0, angle) }, func(qs *QuantumState) error { return qs.ApplyRz(0, -angle) }},
		{"Phase", func(qs *QuantumState) error { return qs.ApplyPhase(1, angle) }, func(qs *QuantumState) error { return qs.ApplyPhase(1, -angle) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := mustNew(t, 3)
			randomizeState(t, qs, 42)
			want := qs.Clone()

			if err := tt.forward(qs); err != nil {
				t.Fatal(err)
			}
			if err := tt.inverse(qs); err != nil {
				t.Fatal(err)
			}
			if !statesAlmostEqual(qs, want) {
				t.Errorf("%s followed by its inverse is not the identity", tt.name)
			}
		})
	}
}

func TestUnitarityPreservesNorm(t *testing.T) {
	qs := mustNew(t, 5)
	randomizeState(t, qs, 7)
	rng := rand.New(rand.NewSource(11))

	ops := []func() error{
		func() error { return qs.ApplyH(rng.Intn(5)) },
		func() error { return qs.ApplyX(rng.Intn(5)) },
		func() error { return qs.ApplyY(rng.Intn(5)) },
		func() error { return qs.ApplyZ(rng.Intn(5)) },
		func() error { return qs.ApplyS(rng.Intn(5)) },
		func() error { return qs.ApplyT(rng.Intn(5)) },
		func() error { return qs.ApplyRx(rng.Intn(5), rng.Float64()*2*math.Pi) },
		func() error { return qs.ApplyRy(rng.Intn(5), rng.Float64()*2*math.Pi) },
		func() error { return qs.ApplyRz(rng.Intn(5), rng.Float64()*2*math.Pi) },
		func() error { return qs.ApplyPhase(rng.Intn(5), rng.Float64()*2*math.Pi) },
	}
	for step := 0; step < 100; step++ {
		if err := ops[rng.Intn(len(ops))](); err != nil {
			t.Fatal(err)
		}
	}
	if !almostEqual(qs.Norm(), 1) {
		t.Errorf("norm after 100 random gates = %v, want 1", qs.Norm())
	}
}

func TestHadamardSuperposition(t *testing.T) {
	qs := mustNew(t, 1)
	if err := qs.ApplyH(0); err != nil {
		t.Fatal(err)
	}
	invSqrt2 := 1 / math.Sqrt2
	if !almostEqualC(qs.Amplitude(0), complex(invSqrt2, 0)) {
		t.Errorf("H|0⟩ amplitude[0] = %v, want %v", qs.Amplitude(0), invSqrt2)
	}
	if !almostEqualC(qs.Amplitude(1), complex(invSqrt2, 0)) {
		t.Errorf("H|0⟩ amplitude[1] = %v, want %v", qs.Amplitude(1), invSqrt2)
	}
}

func TestPauliXFlipsBasis(t *testing.T) {
	qs := mustNew(t, 3)
	if err := qs.InitBasis("010"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyX(0); err != nil {
		t.Fatal(err)
	}
	// 010 with qubit 0 flipped is 110, index 3.
	if !almostEqualC(qs.Amplitude(3), 1) {
		t.Errorf("amplitude[3] = %v, want 1", qs.Amplitude(3))
	}
}

func TestPauliYOnBasisStates(t *testing.T) {
	qs := mustNew(t, 1)
	if err := qs.ApplyY(0); err != nil {
		t.Fatal(err)
	}
	// Y|0⟩ = i|1⟩
	if !almostEqualC(qs.Amplitude(1), complex(0, 1)) {
		t.Errorf("Y|0⟩ amplitude[1] = %v, want i", qs.Amplitude(1))
	}

	if err := qs.InitBasis("1"); err != nil {
		t.Fatal(err)
	}
	if err := qs.ApplyY(0); err != nil {
		t.Fatal(err)
	}
	// Y|1⟩ = -i|0⟩
	if !almostEqualC(qs.Amplitude(0), complex(0, -1)) {
		t.Errorf("Y|1⟩ amplitude[0] = %v, want -i", qs.Amplitude(0))
	}
}

func TestSSquaredIsZ(t *testing.T) {
	got := mustNew(t, 2)
	randomizeState(t, got, 3)
	want := got.Clone()

	if err := got.ApplyS(1); err != nil {
		t.Fatal(err)
	}
	if err := got.ApplyS(1); err != nil {
		t.Fatal(err)
	}
	if err := want.ApplyZ(1); err != nil {
		t.Fatal(err)
	}
	if !statesAlmostEqual(got, want) {
		t.Error("S·S does not equal Z")
	}
}

func TestGateRejectsBadTarget(t *testing.T) {
	qs := mustNew(t, 2)
	if err := qs.ApplyH(2); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("ApplyH(2) error = %v, want ErrInvalidIndex", err)
	}
	if err := qs.ApplyRx(-1, 0.5); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("ApplyRx(-1) error = %v, want ErrInvalidIndex", err)
	}
}
