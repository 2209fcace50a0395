package macq

import (
	"math/cmplx"

	"github.com/pkg/errors"
)

// DensityMatrix is a mixed-state representation: a row-major dim×dim
// Hermitian, trace-1 matrix over dim = 2^numQubits basis states. It never
// shares storage with the state it was built from.
//
// The 2^{2n} footprint bounds practical qubit counts far lower than the
// pure-state path: roughly half as many qubits for the same memory budget.
type DensityMatrix struct {
	numQubits int
	dim       int
	data      []complex128
}

// NewDensityMatrix allocates a zeroed matrix for numQubits qubits.
func NewDensityMatrix(numQubits int) (*DensityMatrix, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, errors.Wrapf(ErrInvalidQubits, "num_qubits must be in 1..%d, got %d", MaxQubits, numQubits)
	}
	dim := 1 << numQubits
	if err := checkBufferFits(uint64(dim) * uint64(dim) * 16); err != nil {
		return nil, err
	}
	return &DensityMatrix{
		numQubits: numQubits,
		dim:       dim,
		data:      make([]complex128, dim*dim),
	}, nil
}

// FromState builds the pure-state density matrix ρ = |ψ⟩⟨ψ|, i.e.
// ρ[i,j] = ψ[i]·conj(ψ[j]).
func FromState(qs *QuantumState) (*DensityMatrix, error) {
	if qs == nil {
		return nil, ErrNilState
	}
	dm, err := NewDensityMatrix(qs.numQubits)
	if err != nil {
		return nil, err
	}
	forRange(dm.dim, func(start, end int) {
		for i := start; i < end; i++ {
			row := dm.data[i*dm.dim : (i+1)*dm.dim]
			ai := qs.amps[i]
			for j := 0; j < dm.dim; j++ {
				row[j] = ai * cmplx.Conj(qs.amps[j])
			}
		}
	})
	return dm, nil
}

// NumQubits returns the qubit count.
func (dm *DensityMatrix) NumQubits() int { return dm.numQubits }

// Dim returns the matrix dimension, 2^NumQubits.
func (dm *DensityMatrix) Dim() int { return dm.dim }

// At returns ρ[i,j], or 0 when either index is out of range.
func (dm *DensityMatrix) At(i, j int) complex128 {
	if dm == nil || i < 0 || i >= dm.dim || j < 0 || j >= dm.dim {
		return 0
	}
	return dm.data[i*dm.dim+j]
}

// BasisProbability returns the diagonal entry ρ[i,i] as a real probability,
// or -1.0 on an out-of-range index. For a matrix built with FromState this
// reproduces QuantumState.BasisProbability for every index.
func (dm *DensityMatrix) BasisProbability(i int) float64 {
	if dm == nil || i < 0 || i >= dm.dim {
		return -1.0
	}
	return real(dm.data[i*dm.dim+i])
}

// Trace returns Tr ρ, ≈1 for a physical state.
func (dm *DensityMatrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < dm.dim; i++ {
		tr += dm.data[i*dm.dim+i]
	}
	return tr
}

// Purity returns Tr ρ², 1 for a pure state and 1/dim for the maximally
// mixed state.
func (dm *DensityMatrix) Purity() float64 {
	p := sumRange(dm.dim, func(start, end int) float64 {
		total := 0.0
		for i := start; i < end; i++ {
			for j := 0; j < dm.dim; j++ {
				// Hermitian: ρ[j,i] = conj(ρ[i,j]), so Tr ρ² sums |ρ[i,j]|².
				a := dm.data[i*dm.dim+j]
				total += real(a)*real(a) + imag(a)*imag(a)
			}
		}
		return total
	})
	return p
}

// PartialTrace sums out the traced qubits and returns the reduced density
// matrix over the remaining ones, preserving their relative order. Fails
// with ErrInvalidIndex on an out-of-range or duplicated traced qubit, and
// with ErrInvalidGate when every qubit would be traced away.
func (dm *DensityMatrix) PartialTrace(traced []int) (*DensityMatrix, error) {
	if dm == nil {
		return nil, ErrNilState
	}
	seen := 0
	for _, q := range traced {
		if q < 0 || q >= dm.numQubits {
			return nil, errors.Wrapf(ErrInvalidIndex, "traced qubit %d outside [0, %d)", q, dm.numQubits)
		}
		if seen&(1<<q) != 0 {
			return nil, errors.Wrapf(ErrInvalidIndex, "traced qubit %d duplicated", q)
		}
		seen |= 1 << q
	}
	retained := make([]int, 0, dm.numQubits-len(traced))
	for q := 0; q < dm.numQubits; q++ {
		if seen&(1<<q) == 0 {
			retained = append(retained, q)
		}
	}
	if len(retained) == 0 {
		return nil, errors.Wrap(ErrInvalidGate, "cannot trace out every qubit")
	}

	reduced, err := NewDensityMatrix(len(retained))
	if err != nil {
		return nil, err
	}
	tracedList := make([]int, 0, len(traced))
	for q := 0; q < dm.numQubits; q++ {
		if seen&(1<<q) != 0 {
			tracedList = append(tracedList, q)
		}
	}
	dimT := 1 << len(tracedList)
	forRange(reduced.dim, func(start, end int) {
		for r1 := start; r1 < end; r1++ {
			base1 := depositBits(0, r1, retained)
			for r2 := 0; r2 < reduced.dim; r2++ {
				base2 := depositBits(0, r2, retained)
				var sum complex128
				for t := 0; t < dimT; t++ {
					i := depositBits(base1, t, tracedList)
					j := depositBits(base2, t, tracedList)
					sum += dm.data[i*dm.dim+j]
				}
				reduced.data[r1*reduced.dim+r2] = sum
			}
		}
	})
	return reduced, nil
}
