package macq

import "github.com/pkg/errors"

// The closed set of engine failure kinds. Every fallible operation returns
// one of these, usually wrapped with context; match with errors.Is.
var (
	// ErrInvalidQubits is returned when a state is created outside 1..MaxQubits.
	ErrInvalidQubits = errors.New("invalid qubit count")

	// ErrOutOfMemory is returned when an amplitude or matrix buffer would not fit.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidGate marks a semantically malformed operation, such as a
	// controlled gate whose control and target coincide.
	ErrInvalidGate = errors.New("invalid gate")

	// ErrInvalidIndex marks an out-of-range qubit or basis index, a malformed
	// basis string, or a bad traced-qubit set.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrNilState is returned when an operation receives a nil state handle.
	ErrNilState = errors.New("nil state")
)
