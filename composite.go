package macq

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
)

// ApplyQFT applies the quantum Fourier transform to the register described
// by qubits, where qubits[0] is the least-significant bit of the register
// value. Stages run from the most significant register qubit down: Hadamard,
// then controlled phases π/2^d with every lower qubit at bit distance d,
// followed by a bit-order reversal. With inverse set, the exact adjoint
// sequence runs (reversed stages, negated phases).
//
// When the register is the entire state in ascending qubit order the
// transform is delegated to an FFT, O(n·2^n) instead of O(n²·2^n).
func (qs *QuantumState) ApplyQFT(qubits []int, inverse bool) error {
	if err := qs.checkQubits(qubits...); err != nil {
		return errors.Wrap(err, "qft")
	}
	if len(qubits) == 0 {
		return errors.Wrap(ErrInvalidGate, "qft on empty register")
	}
	if qs.isFullAscendingRegister(qubits) {
		qs.applyQFTviaFFT(inverse)
		return nil
	}

	m := len(qubits)
	if !inverse {
		for j := m - 1; j >= 0; j-- {
			qs.mustApply(qs.ApplyH(qubits[j]))
			for k := j - 1; k >= 0; k-- {
				qs.mustApply(qs.ApplyCP(qubits[k], qubits[j], math.Pi/float64(int(1)<<(j-k))))
			}
		}
		for i, j := 0, m-1; i < j; i, j = i+1, j-1 {
			qs.mustApply(qs.ApplySwap(qubits[i], qubits[j]))
		}
	} else {
		for i, j := 0, m-1; i < j; i, j = i+1, j-1 {
			qs.mustApply(qs.ApplySwap(qubits[i], qubits[j]))
		}
		for j := 0; j < m; j++ {
			for k := 0; k < j; k++ {
				qs.mustApply(qs.ApplyCP(qubits[k], qubits[j], -math.Pi/float64(int(1)<<(j-k))))
			}
			qs.mustApply(qs.ApplyH(qubits[j]))
		}
	}
	return nil
}

// mustApply panics on errors from sub-gates whose arguments were already
// validated; a failure here is a kernel bug, not caller misuse.
func (qs *QuantumState) mustApply(err error) {
	if err != nil {
		panic(err)
	}
}

func (qs *QuantumState) isFullAscendingRegister(qubits []int) bool {
	if len(qubits) != qs.numQubits {
		return false
	}
	for i, q := range qubits {
		if q != i {
			return false
		}
	}
	return true
}

// applyQFTviaFFT uses the DFT identity for the full-register transform:
// QFT|x⟩ has amplitudes (1/√N)·Σ_x e^{2πixk/N}ψ_x, which is the unnormalized
// inverse FFT scaled by √N; the inverse QFT is the forward FFT over √N.
func (qs *QuantumState) applyQFTviaFFT(inverse bool) {
	n := float64(qs.vectorSize)
	if !inverse {
		out := fft.IFFT(qs.amps) // includes the 1/N factor
		scale := complex(math.Sqrt(n), 0)
		for i := range out {
			qs.amps[i] = out[i] * scale
		}
	} else {
		out := fft.FFT(qs.amps)
		scale := complex(1/math.Sqrt(n), 0)
		for i := range out {
			qs.amps[i] = out[i] * scale
		}
	}
}

// ApplyModExp maps |x⟩|y⟩ to |x⟩|y·a^x mod N⟩, with x read from the control
// register and y from the target register (both little-endian over their
// qubit lists). It is realized as one controlled multiplication permutation
// per control bit k, multiplying by a^(2^k) mod N. Target values at or above
// N pass through unchanged; the operation is only a permutation of the
// sub-N values when gcd(a, N) == 1, and callers are expected to pad inputs
// accordingly (Shor-style usage).
func (qs *QuantumState) ApplyModExp(a, n int, controls, targets []int) error {
	if qs == nil {
		return ErrNilState
	}
	if n < 2 || a < 1 {
		return errors.Wrapf(ErrInvalidGate, "mod_exp needs a >= 1 and N >= 2, got a=%d N=%d", a, n)
	}
	if len(controls) == 0 || len(targets) == 0 {
		return errors.Wrap(ErrInvalidGate, "mod_exp needs non-empty control and target registers")
	}
	all := make([]int, 0, len(controls)+len(targets))
	all = append(all, controls...)
	all = append(all, targets...)
	if err := qs.checkQubits(all...); err != nil {
		return errors.Wrap(err, "mod_exp")
	}

	scratch := make([]complex128, qs.vectorSize)
	mult := a % n
	for k, controlQubit := range controls {
		if k > 0 {
			mult = (mult * mult) % n // a^(2^k) mod N by repeated squaring
		}
		if mult == 1 {
			continue
		}
		controlMask := 1 << controlQubit
		clear(scratch)
		for i, amp := range qs.amps {
			if amp == 0 {
				continue
			}
			j := i
			if i&controlMask != 0 {
				y := extractBits(i, targets)
				if y < n {
					j = depositBits(i, (y*mult)%n, targets)
				}
			}
			scratch[j] += amp
		}
		qs.amps, scratch = scratch, qs.amps
	}
	return nil
}

// extractBits reads the register value encoded at the given qubits of index,
// with qubits[0] the least-significant bit.
func extractBits(index int, qubits []int) int {
	v := 0
	for pos, q := range qubits {
		if index&(1<<q) != 0 {
			v |= 1 << pos
		}
	}
	return v
}

// depositBits writes value into the register bits of index, leaving every
// other bit untouched.
func depositBits(index, value int, qubits []int) int {
	for pos, q := range qubits {
		if value&(1<<pos) != 0 {
			index |= 1 << q
		} else {
			index &^= 1 << q
		}
	}
	return index
}
