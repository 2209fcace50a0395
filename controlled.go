package macq

import (
	"math/cmplx"

	"github.com/pkg/errors"
)

// Controlled kernels iterate the full index space once. Pair rewrites are
// guarded with idx < pair so each unordered pair is visited exactly once,
// which also keeps parallel chunks free of write conflicts.

// ApplyCNOT flips the target qubit where the control qubit is 1.
func (qs *QuantumState) ApplyCNOT(control, target int) error {
	if err := qs.checkQubits(control, target); err != nil {
		return err
	}
	maskControl := 1 << control
	maskTarget := 1 << target
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if i&maskControl != 0 {
				pair := i ^ maskTarget
				if i < pair {
					qs.amps[i], qs.amps[pair] = qs.amps[pair], qs.amps[i]
				}
			}
		}
	})
	return nil
}

// ApplyCY applies Pauli-Y to the target where the control qubit is 1.
func (qs *QuantumState) ApplyCY(control, target int) error {
	if err := qs.checkQubits(control, target); err != nil {
		return err
	}
	maskControl := 1 << control
	maskTarget := 1 << target
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			// Visit each pair from its target-bit-0 side.
			if i&maskControl != 0 && i&maskTarget == 0 {
				j := i | maskTarget
				a0, a1 := qs.amps[i], qs.amps[j]
				qs.amps[i] = -1i * a1
				qs.amps[j] = 1i * a0
			}
		}
	})
	return nil
}

// ApplyCZ negates amplitudes where both qubits are 1.
func (qs *QuantumState) ApplyCZ(control, target int) error {
	if err := qs.checkQubits(control, target); err != nil {
		return err
	}
	mask := (1 << control) | (1 << target)
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if i&mask == mask {
				qs.amps[i] = -qs.amps[i]
			}
		}
	})
	return nil
}

// ApplyCP applies a controlled phase e^{iφ} where both qubits are 1.
func (qs *QuantumState) ApplyCP(control, target int, phi float64) error {
	if err := qs.checkQubits(control, target); err != nil {
		return err
	}
	phase := cmplx.Exp(complex(0, phi))
	mask := (1 << control) | (1 << target)
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if i&mask == mask {
				qs.amps[i] *= phase
			}
		}
	})
	return nil
}

// ApplySwap exchanges two qubits. Equal indices are a no-op.
func (qs *QuantumState) ApplySwap(qubit1, qubit2 int) error {
	if err := qs.checkTarget(qubit1); err != nil {
		return err
	}
	if err := qs.checkTarget(qubit2); err != nil {
		return err
	}
	if qubit1 == qubit2 {
		return nil
	}
	mask1 := 1 << qubit1
	mask2 := 1 << qubit2
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if (i&mask1 != 0) != (i&mask2 != 0) {
				pair := i ^ mask1 ^ mask2
				if i < pair {
					qs.amps[i], qs.amps[pair] = qs.amps[pair], qs.amps[i]
				}
			}
		}
	})
	return nil
}

// ApplyToffoli (CCNOT) flips the target where both control qubits are 1.
func (qs *QuantumState) ApplyToffoli(control1, control2, target int) error {
	if err := qs.checkQubits(control1, control2, target); err != nil {
		return err
	}
	maskControls := (1 << control1) | (1 << control2)
	maskTarget := 1 << target
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if i&maskControls == maskControls {
				pair := i ^ maskTarget
				if i < pair {
					qs.amps[i], qs.amps[pair] = qs.amps[pair], qs.amps[i]
				}
			}
		}
	})
	return nil
}

// ApplyFredkin (CSWAP) exchanges qubit1 and qubit2 where the control is 1.
func (qs *QuantumState) ApplyFredkin(control, qubit1, qubit2 int) error {
	if err := qs.checkQubits(control, qubit1, qubit2); err != nil {
		return errors.Wrap(err, "fredkin")
	}
	maskControl := 1 << control
	mask1 := 1 << qubit1
	mask2 := 1 << qubit2
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if i&maskControl != 0 && (i&mask1 != 0) != (i&mask2 != 0) {
				pair := i ^ mask1 ^ mask2
				if i < pair {
					qs.amps[i], qs.amps[pair] = qs.amps[pair], qs.amps[i]
				}
			}
		}
	})
	return nil
}
