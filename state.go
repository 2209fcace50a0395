package macq

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

// MaxQubits caps dense state-vector simulation. 2^30 complex128 amplitudes
// is 16 GiB, the edge of what a single machine handles.
const MaxQubits = 30

// normEpsilon is the norm below which a vector is treated as zero.
const normEpsilon = 1e-10

// QuantumState is a pure n-qubit state: 2^n complex amplitudes, index bit q
// holding the value of qubit q (qubit 0 is the least-significant bit).
// Instances are exclusively owned by their caller; see the package doc.
type QuantumState struct {
	numQubits  int
	vectorSize int
	amps       []complex128
	rng        *rand.Rand
}

// New creates a state of numQubits qubits initialized to |0...0⟩.
func New(numQubits int) (*QuantumState, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, errors.Wrapf(ErrInvalidQubits, "num_qubits must be in 1..%d, got %d", MaxQubits, numQubits)
	}
	size := 1 << numQubits
	if err := checkBufferFits(uint64(size) * 16); err != nil {
		return nil, err
	}
	qs := &QuantumState{
		numQubits:  numQubits,
		vectorSize: size,
		amps:       make([]complex128, size),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	qs.amps[0] = 1
	return qs, nil
}

// checkBufferFits refuses buffers that exceed available system memory, so a
// 30-qubit request on a small machine fails with ErrOutOfMemory instead of
// taking the process down.
func checkBufferFits(bytes uint64) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		// No memory stats on this platform; let the allocation try.
		return nil
	}
	if bytes > vm.Available {
		return errors.Wrapf(ErrOutOfMemory, "buffer needs %d bytes, %d available", bytes, vm.Available)
	}
	return nil
}

// NumQubits returns the qubit count.
func (qs *QuantumState) NumQubits() int { return qs.numQubits }

// VectorSize returns the amplitude buffer length, 2^NumQubits.
func (qs *QuantumState) VectorSize() int { return qs.vectorSize }

// Reseed makes subsequent measurement and noise draws deterministic.
func (qs *QuantumState) Reseed(seed int64) {
	qs.rng = rand.New(rand.NewSource(seed))
}

// Clone returns an independent deep copy. The copy carries its own random
// source, seeded from the parent's so that a reseeded parent yields
// reproducible clone trajectories.
func (qs *QuantumState) Clone() *QuantumState {
	if qs == nil {
		return nil
	}
	amps := make([]complex128, qs.vectorSize)
	copy(amps, qs.amps)
	return &QuantumState{
		numQubits:  qs.numQubits,
		vectorSize: qs.vectorSize,
		amps:       amps,
		rng:        rand.New(rand.NewSource(qs.rng.Int63())),
	}
}

// InitBasis resets the state to the computational basis state described by
// bitstring, where character q ('0' or '1') is the value of qubit q.
func (qs *QuantumState) InitBasis(bitstring string) error {
	if qs == nil {
		return ErrNilState
	}
	if len(bitstring) != qs.numQubits {
		return errors.Wrapf(ErrInvalidIndex, "bitstring length %d != num_qubits %d", len(bitstring), qs.numQubits)
	}
	index := 0
	for i := 0; i < len(bitstring); i++ {
		switch bitstring[i] {
		case '1':
			index |= 1 << i
		case '0':
		default:
			return errors.Wrapf(ErrInvalidIndex, "bitstring must contain only '0' or '1', got %q", bitstring[i])
		}
	}
	clear(qs.amps)
	qs.amps[index] = 1
	return nil
}

// Norm returns the Euclidean norm of the state vector, an O(2^n) scan.
func (qs *QuantumState) Norm() float64 {
	return math.Sqrt(qs.normSquared())
}

func (qs *QuantumState) normSquared() float64 {
	return sumRange(qs.vectorSize, func(start, end int) float64 {
		total := 0.0
		for i := start; i < end; i++ {
			a := qs.amps[i]
			total += real(a)*real(a) + imag(a)*imag(a)
		}
		return total
	})
}

// Normalize rescales the state to unit norm. The zero vector (norm below
// 1e-10) is not a physical state and is rejected without mutation.
func (qs *QuantumState) Normalize() error {
	if qs == nil {
		return ErrNilState
	}
	norm := qs.Norm()
	if norm < normEpsilon {
		return errors.Wrap(ErrInvalidGate, "cannot normalize zero state")
	}
	inv := complex(1/norm, 0)
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			qs.amps[i] *= inv
		}
	})
	return nil
}

// Amplitude returns the amplitude of one basis state, or 0 when the index
// is out of range.
func (qs *QuantumState) Amplitude(basisIndex int) complex128 {
	if qs == nil || basisIndex < 0 || basisIndex >= qs.vectorSize {
		return 0
	}
	return qs.amps[basisIndex]
}

// SetAmplitude overwrites one basis amplitude. Intended for tests and debug
// construction of non-physical states; callers normalize afterwards.
func (qs *QuantumState) SetAmplitude(basisIndex int, amplitude complex128) error {
	if qs == nil {
		return ErrNilState
	}
	if basisIndex < 0 || basisIndex >= qs.vectorSize {
		return errors.Wrapf(ErrInvalidIndex, "basis index %d outside [0, %d)", basisIndex, qs.vectorSize)
	}
	qs.amps[basisIndex] = amplitude
	return nil
}

// Probabilities returns |amp|^2 for every basis state. O(2^n) allocation;
// callers with large states should prefer Probability and BasisProbability.
func (qs *QuantumState) Probabilities() []float64 {
	probs := make([]float64, qs.vectorSize)
	forRange(qs.vectorSize, func(start, end int) {
		for i := start; i < end; i++ {
			a := qs.amps[i]
			probs[i] = real(a)*real(a) + imag(a)*imag(a)
		}
	})
	return probs
}

// checkTarget validates a single qubit index against the state.
func (qs *QuantumState) checkTarget(target int) error {
	if qs == nil {
		return ErrNilState
	}
	if target < 0 || target >= qs.numQubits {
		return errors.Wrapf(ErrInvalidIndex, "qubit %d outside [0, %d)", target, qs.numQubits)
	}
	return nil
}

// checkQubits validates that every index is in range and all are distinct.
func (qs *QuantumState) checkQubits(qubits ...int) error {
	if qs == nil {
		return ErrNilState
	}
	seen := 0
	for _, q := range qubits {
		if q < 0 || q >= qs.numQubits {
			return errors.Wrapf(ErrInvalidIndex, "qubit %d outside [0, %d)", q, qs.numQubits)
		}
		if seen&(1<<q) != 0 {
			return errors.Wrapf(ErrInvalidGate, "duplicate qubit %d", q)
		}
		seen |= 1 << q
	}
	return nil
}

// forPairs visits every amplitude pair (idx, idx|1<<target) exactly once.
// This is the block/stride partition of the buffer expressed branch-free:
// pair p maps to idx0 with bit target clear, idx1 = idx0 + 2^target.
func (qs *QuantumState) forPairs(target int, fn func(idx0, idx1 int)) {
	blockSize := 1 << target
	forRange(qs.vectorSize>>1, func(start, end int) {
		for p := start; p < end; p++ {
			idx0 := ((p >> target) << (target + 1)) | (p & (blockSize - 1))
			fn(idx0, idx0|blockSize)
		}
	})
}

// subspaceProb sums |amp|^2 over indices where all mask bits are set.
func (qs *QuantumState) subspaceProb(mask int) float64 {
	return sumRange(qs.vectorSize, func(start, end int) float64 {
		total := 0.0
		for i := start; i < end; i++ {
			if i&mask == mask {
				a := qs.amps[i]
				total += real(a)*real(a) + imag(a)*imag(a)
			}
		}
		return total
	})
}
