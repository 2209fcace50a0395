package macq

import (
	"math"

	"github.com/pkg/errors"
)

// Noise channels use a stochastic single-trajectory model: one uniform draw
// decides between the channel's jump operator and its no-jump operator, and
// the state is renormalized either way. Repeated application models
// continuous decay at O(2^n) per step instead of O(2^{2n}) density-matrix
// evolution.

// ApplyAmplitudeDamping applies one trajectory step of the amplitude-damping
// channel with strength gamma in [0,1]. With probability gamma·P(1) the
// qubit emits and falls to |0⟩; otherwise the no-jump operator
// diag(1, √(1-gamma)) damps the |1⟩ component.
func (qs *QuantumState) ApplyAmplitudeDamping(target int, gamma float64) error {
	if err := qs.checkNoiseArgs(target, gamma); err != nil {
		return err
	}
	prob1 := qs.subspaceProb(1 << target)
	if qs.rng.Float64() < gamma*prob1 {
		// Jump: the 1-subspace amplitude moves to the 0-subspace.
		qs.forPairs(target, func(idx0, idx1 int) {
			qs.amps[idx0] = qs.amps[idx1]
			qs.amps[idx1] = 0
		})
	} else {
		damp := complex(math.Sqrt(1-gamma), 0)
		qs.forPairs(target, func(_, idx1 int) {
			qs.amps[idx1] *= damp
		})
	}
	return qs.Normalize()
}

// ApplyPhaseDamping applies one trajectory step of the phase-damping channel.
// The jump (probability gamma·P(1)) projects the qubit onto |1⟩; the no-jump
// branch damps the |1⟩ component, and renormalization then skews the state
// toward |0⟩ so that populations are preserved on average.
func (qs *QuantumState) ApplyPhaseDamping(target int, gamma float64) error {
	if err := qs.checkNoiseArgs(target, gamma); err != nil {
		return err
	}
	prob1 := qs.subspaceProb(1 << target)
	if qs.rng.Float64() < gamma*prob1 {
		qs.forPairs(target, func(idx0, _ int) {
			qs.amps[idx0] = 0
		})
	} else {
		damp := complex(math.Sqrt(1-gamma), 0)
		qs.forPairs(target, func(_, idx1 int) {
			qs.amps[idx1] *= damp
		})
	}
	return qs.Normalize()
}

// ApplyDepolarizing applies one trajectory step of the depolarizing channel:
// with probability p one of X, Y, Z is applied uniformly at random, else the
// state is left alone. The applied operator is unitary, so no
// renormalization is needed.
func (qs *QuantumState) ApplyDepolarizing(target int, p float64) error {
	if err := qs.checkNoiseArgs(target, p); err != nil {
		return err
	}
	if qs.rng.Float64() >= p {
		return nil
	}
	switch qs.rng.Intn(3) {
	case 0:
		return qs.ApplyX(target)
	case 1:
		return qs.ApplyY(target)
	default:
		return qs.ApplyZ(target)
	}
}

func (qs *QuantumState) checkNoiseArgs(target int, strength float64) error {
	if err := qs.checkTarget(target); err != nil {
		return err
	}
	if strength < 0 || strength > 1 {
		return errors.Wrapf(ErrInvalidGate, "noise strength %v outside [0,1]", strength)
	}
	return nil
}
