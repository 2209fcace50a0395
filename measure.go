package macq

import "math"

// Measure performs a projective measurement of one qubit: a single Bernoulli
// draw on the qubit's marginal, then collapse and renormalization of the
// surviving subspace. Returns the outcome 0 or 1, or -1 on an invalid qubit
// index (in which case the state is untouched). Outcome probabilities are
// prob0/(prob0+prob1), so a not-yet-normalized state still measures sanely.
func (qs *QuantumState) Measure(qubit int) int {
	if qs == nil || qubit < 0 || qubit >= qs.numQubits {
		return -1
	}
	mask := 1 << qubit
	prob1 := qs.subspaceProb(mask)
	prob0 := qs.normSquared() - prob1
	if prob0+prob1 < normEpsilon {
		return -1
	}

	result := 1
	if qs.rng.Float64() < prob0/(prob0+prob1) {
		result = 0
	}

	probOutcome := prob1
	if result == 0 {
		probOutcome = prob0
	}
	inv := complex(1/math.Sqrt(probOutcome), 0)
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			if (i&mask != 0) == (result == 1) {
				qs.amps[i] *= inv
			} else {
				qs.amps[i] = 0
			}
		}
	})
	return result
}

// Probability returns the probability mass of the qubit's |1⟩ subspace
// without mutating the state, or -1.0 on an invalid qubit index.
func (qs *QuantumState) Probability(qubit int) float64 {
	if qs == nil || qubit < 0 || qubit >= qs.numQubits {
		return -1.0
	}
	return qs.subspaceProb(1 << qubit)
}

// BasisProbability returns |amplitude|^2 of one basis state, or -1.0 on an
// out-of-range index.
func (qs *QuantumState) BasisProbability(basisIndex int) float64 {
	if qs == nil || basisIndex < 0 || basisIndex >= qs.vectorSize {
		return -1.0
	}
	a := qs.amps[basisIndex]
	return real(a)*real(a) + imag(a)*imag(a)
}
