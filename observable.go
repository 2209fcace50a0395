package macq

import (
	"math/cmplx"

	"github.com/pkg/errors"
)

// ExpectationValue computes ⟨ψ|O|ψ⟩ where O is the product of the given
// gate descriptors, applied left to right to a scratch clone of the state.
// The caller's state is never mutated. O is assumed Hermitian; the imaginary
// part of the inner product is discarded.
func (qs *QuantumState) ExpectationValue(observable ...Gate) (float64, error) {
	if qs == nil {
		return 0, ErrNilState
	}
	if len(observable) == 0 {
		return 0, errors.Wrap(ErrInvalidGate, "empty observable")
	}
	scratch := qs.Clone()
	for _, g := range observable {
		if err := scratch.ApplyGate(g); err != nil {
			return 0, errors.Wrapf(err, "observable gate %s", g.Kind)
		}
	}
	value := sumRange(qs.vectorSize, func(start, end int) float64 {
		total := 0.0
		for i := start; i < end; i++ {
			total += real(cmplx.Conj(qs.amps[i]) * scratch.amps[i])
		}
		return total
	})
	return value, nil
}
