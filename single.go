package macq

import (
	"math"
	"math/cmplx"
)

// Single-qubit kernels. Each pairs amplitudes (idx, idx|1<<target) via
// forPairs and applies the gate's 2x2 unitary to (a0, a1) in place.

// ApplyX applies the Pauli-X (NOT) gate: swaps each pair.
func (qs *QuantumState) ApplyX(target int) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	qs.forPairs(target, func(idx0, idx1 int) {
		qs.amps[idx0], qs.amps[idx1] = qs.amps[idx1], qs.amps[idx0]
	})
	return nil
}

// ApplyY applies the Pauli-Y gate: (a0, a1) -> (-i*a1, i*a0).
func (qs *QuantumState) ApplyY(target int) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	qs.forPairs(target, func(idx0, idx1 int) {
		a0, a1 := qs.amps[idx0], qs.amps[idx1]
		qs.amps[idx0] = -1i * a1
		qs.amps[idx1] = 1i * a0
	})
	return nil
}

// ApplyZ applies the Pauli-Z gate: negates the |1⟩ component.
func (qs *QuantumState) ApplyZ(target int) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	qs.forPairs(target, func(_, idx1 int) {
		qs.amps[idx1] = -qs.amps[idx1]
	})
	return nil
}

// ApplyH applies the Hadamard gate: (a0, a1) -> ((a0+a1)/√2, (a0-a1)/√2).
func (qs *QuantumState) ApplyH(target int) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	invSqrt2 := complex(1/math.Sqrt2, 0)
	qs.forPairs(target, func(idx0, idx1 int) {
		a0, a1 := qs.amps[idx0], qs.amps[idx1]
		qs.amps[idx0] = invSqrt2 * (a0 + a1)
		qs.amps[idx1] = invSqrt2 * (a0 - a1)
	})
	return nil
}

// ApplyS applies the phase gate S (√Z): multiplies the |1⟩ component by i.
func (qs *QuantumState) ApplyS(target int) error {
	return qs.applyPhaseFactor(target, 1i)
}

// ApplySdg applies S†.
func (qs *QuantumState) ApplySdg(target int) error {
	return qs.applyPhaseFactor(target, -1i)
}

// ApplyT applies the T gate (π/8): multiplies the |1⟩ component by e^{iπ/4}.
func (qs *QuantumState) ApplyT(target int) error {
	return qs.applyPhaseFactor(target, cmplx.Exp(1i*math.Pi/4))
}

// ApplyTdg applies T†.
func (qs *QuantumState) ApplyTdg(target int) error {
	return qs.applyPhaseFactor(target, cmplx.Exp(-1i*math.Pi/4))
}

// ApplyPhase applies the phase-shift gate P(φ): |1⟩ component gains e^{iφ}.
func (qs *QuantumState) ApplyPhase(target int, phi float64) error {
	return qs.applyPhaseFactor(target, cmplx.Exp(complex(0, phi)))
}

func (qs *QuantumState) applyPhaseFactor(target int, factor complex128) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	qs.forPairs(target, func(_, idx1 int) {
		qs.amps[idx1] *= factor
	})
	return nil
}

// ApplyRx rotates the target qubit by theta around the X axis.
func (qs *QuantumState) ApplyRx(target int, theta float64) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	qs.forPairs(target, func(idx0, idx1 int) {
		a0, a1 := qs.amps[idx0], qs.amps[idx1]
		qs.amps[idx0] = c*a0 + js*a1
		qs.amps[idx1] = js*a0 + c*a1
	})
	return nil
}

// ApplyRy rotates the target qubit by theta around the Y axis.
func (qs *QuantumState) ApplyRy(target int, theta float64) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	qs.forPairs(target, func(idx0, idx1 int) {
		a0, a1 := qs.amps[idx0], qs.amps[idx1]
		qs.amps[idx0] = c*a0 - s*a1
		qs.amps[idx1] = s*a0 + c*a1
	})
	return nil
}

// ApplyRz rotates the target qubit by theta around the Z axis:
// (a0, a1) -> (e^{-iθ/2}a0, e^{iθ/2}a1).
func (qs *QuantumState) ApplyRz(target int, theta float64) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	phasePos := cmplx.Exp(complex(0, theta/2))
	phaseNeg := cmplx.Exp(complex(0, -theta/2))
	qs.forPairs(target, func(idx0, idx1 int) {
		qs.amps[idx0] *= phaseNeg
		qs.amps[idx1] *= phasePos
	})
	return nil
}
