// Package macq is a dense state-vector quantum circuit simulator.
//
// A QuantumState holds 2^n complex amplitudes for up to 30 qubits, indexed
// little-endian: bit q of a basis index is the value of qubit q. Gate
// kernels mutate the vector in place in O(2^n); measurement and noise
// channels collapse and renormalize it. A DensityMatrix view supports
// partial trace over qubit subsets for mixed-state analysis, and
// ExpectationValue evaluates observables without touching the caller's
// state.
//
// States are exclusively owned: no operation may run concurrently with
// another on the same instance. Clone produces an independent copy that a
// different owner can use freely.
package macq
