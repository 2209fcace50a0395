package macq

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Op is a single circuit operation placed on the timeline. Unlike Gate it
// also covers register-wide operations, noise injections and measurements.
type Op struct {
	Type      string    // "H", "CX", "QFT", "MOD_EXP", "NOISE", "MEASURE", ...
	Target    int       // -1 when the op works on register lists instead
	Control   int       // -1 if not a controlled op
	Control2  int       // -1 if no second control / swap partner
	Qubits    []int     // register for QFT and MOD_EXP targets
	Controls  []int     // control register for MOD_EXP
	Params    []float64 // rotation angle, phase, or noise strength
	A, N      int       // MOD_EXP base and modulus
	CBit      string    // classical bit receiving a MEASURE outcome
	NoiseType string    // "amp", "phase" or "depol" when Type == "NOISE"
	Step      int       // position on the circuit timeline
}

// opQubits returns every qubit index the op references.
func (op Op) opQubits() []int {
	qs := make([]int, 0, 3+len(op.Qubits)+len(op.Controls))
	for _, q := range []int{op.Target, op.Control, op.Control2} {
		if q >= 0 {
			qs = append(qs, q)
		}
	}
	qs = append(qs, op.Qubits...)
	qs = append(qs, op.Controls...)
	return qs
}

// opReferences reports whether the op touches the given qubit.
func (op Op) opReferences(qubit int) bool {
	return slices.Contains(op.opQubits(), qubit)
}

// Circuit is an ordered program of operations over a fixed qubit count.
type Circuit struct {
	NumQubits int
	Ops       []Op
	MaxSteps  int
}

// NewCircuit creates an empty circuit.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// nextFreeStep returns the earliest step at which an op touching the given
// qubits can run: one past the last scheduled op on any of them.
func (c *Circuit) nextFreeStep(qubits []int) int {
	step := 0
	for _, op := range c.Ops {
		for _, q := range qubits {
			if op.opReferences(q) && op.Step >= step {
				step = op.Step + 1
			}
		}
	}
	return step
}

// push appends the op, scheduling it automatically when Step is negative.
func (c *Circuit) push(op Op) {
	if op.Step < 0 {
		op.Step = c.nextFreeStep(op.opQubits())
	}
	c.Ops = append(c.Ops, op)
	if op.Step >= c.MaxSteps {
		c.MaxSteps = op.Step + 1
	}
}

// AddGate appends a named gate with automatic step placement. An optional
// control qubit makes it a controlled gate.
func (c *Circuit) AddGate(opType string, target int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.push(Op{Type: opType, Target: target, Control: ctrl, Control2: -1, Step: -1})
}

// AddParameterizedGate appends a gate carrying angle parameters.
func (c *Circuit) AddParameterizedGate(opType string, target int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.push(Op{Type: opType, Target: target, Control: ctrl, Control2: -1, Params: params, Step: -1})
}

// AddToffoli appends a doubly-controlled X gate.
func (c *Circuit) AddToffoli(control1, control2, target int) {
	c.push(Op{Type: "CCX", Target: target, Control: control1, Control2: control2, Step: -1})
}

// AddFredkin appends a controlled swap of qubit1 and qubit2.
func (c *Circuit) AddFredkin(control, qubit1, qubit2 int) {
	c.push(Op{Type: "CSWAP", Target: qubit1, Control: control, Control2: qubit2, Step: -1})
}

// AddQFT appends a quantum Fourier transform (or its inverse) over the register.
func (c *Circuit) AddQFT(qubits []int, inverse bool) {
	opType := "QFT"
	if inverse {
		opType = "QFT_INV"
	}
	c.push(Op{Type: opType, Target: -1, Control: -1, Control2: -1, Qubits: slices.Clone(qubits), Step: -1})
}

// AddModExp appends a modular exponentiation |x⟩|y⟩ → |x⟩|y·a^x mod N⟩
// with x on the control register and y on the target register.
func (c *Circuit) AddModExp(a, n int, controls, targets []int) {
	c.push(Op{
		Type: "MOD_EXP", Target: -1, Control: -1, Control2: -1,
		A: a, N: n,
		Controls: slices.Clone(controls), Qubits: slices.Clone(targets),
		Step: -1,
	})
}

// AddNoise appends an explicit noise injection on one qubit. noiseType is
// "amp", "phase" or "depol".
func (c *Circuit) AddNoise(target int, noiseType string, strength float64) {
	c.push(Op{Type: "NOISE", Target: target, Control: -1, Control2: -1, NoiseType: noiseType, Params: []float64{strength}, Step: -1})
}

// AddMeasure appends a measurement of one qubit into the named classical
// bit. An empty name defaults to "c<qubit>".
func (c *Circuit) AddMeasure(qubit int, cbit string) {
	c.push(Op{Type: "MEASURE", Target: qubit, Control: -1, Control2: -1, CBit: cbit, Step: -1})
}

// RemoveOpsOnQubit removes all ops that reference the given qubit index.
func (c *Circuit) RemoveOpsOnQubit(qubit int) {
	c.Ops = slices.DeleteFunc(c.Ops, func(op Op) bool {
		return op.opReferences(qubit)
	})
}

// OpsAtStep returns the ops scheduled at the given step.
func (c *Circuit) OpsAtStep(step int) []Op {
	var ops []Op
	for _, op := range c.Ops {
		if op.Step == step {
			ops = append(ops, op)
		}
	}
	return ops
}

// Result carries the output of one circuit execution.
type Result struct {
	RunID         string         // unique id for logs and session tracking
	State         *QuantumState  // final state, owned by the caller
	Outcomes      map[string]int // classical bit name -> measured value
	MeasuredBits  []string       // classical bit names in program order
	Probabilities []float64      // basis probabilities; nil above probSnapshotLimit
}

// probSnapshotLimit bounds the qubit count for which Execute materializes
// the full basis-probability vector on the Result.
const probSnapshotLimit = 16

// ExecOptions configures Execute.
type ExecOptions struct {
	Initial    *QuantumState // starting state, consumed; fresh |0...0⟩ when nil
	NoiseLevel float64       // per-gate noise strength; 0 disables injection
	Seed       int64         // measurement and noise seed; 0 keeps the default
}

// Execute runs the circuit in step order and returns the final state with
// measurement outcomes. With a non-zero NoiseLevel every applied gate is
// followed by depolarizing noise on each qubit it touched plus amplitude
// damping on its target, each at half the level.
func (c *Circuit) Execute(opts ExecOptions) (*Result, error) {
	qs := opts.Initial
	if qs == nil {
		var err error
		if qs, err = New(max(c.NumQubits, 1)); err != nil {
			return nil, err
		}
	}
	if opts.Seed != 0 {
		qs.Reseed(opts.Seed)
	}

	ops := slices.Clone(c.Ops)
	slices.SortStableFunc(ops, func(a, b Op) int { return a.Step - b.Step })

	res := &Result{
		RunID:    uuid.NewString(),
		Outcomes: map[string]int{},
	}
	for _, op := range ops {
		if err := applyOp(qs, op, res); err != nil {
			return nil, errors.Wrapf(err, "step %d: %s", op.Step, op.Type)
		}
		if opts.NoiseLevel > 0 && op.Type != "MEASURE" && op.Type != "NOISE" {
			if err := injectNoise(qs, op, opts.NoiseLevel); err != nil {
				return nil, errors.Wrapf(err, "step %d: noise after %s", op.Step, op.Type)
			}
		}
	}

	// Measured bit names follow the program as written, not the timeline:
	// auto-scheduling may pull a later measurement onto an earlier step.
	for _, op := range c.Ops {
		if op.Type != "MEASURE" {
			continue
		}
		if cbit := measureCBit(op); !slices.Contains(res.MeasuredBits, cbit) {
			res.MeasuredBits = append(res.MeasuredBits, cbit)
		}
	}

	res.State = qs
	if qs.NumQubits() <= probSnapshotLimit {
		res.Probabilities = qs.Probabilities()
	}
	return res, nil
}

// measureCBit returns the classical bit name a MEASURE op writes to,
// defaulting to "c<qubit>".
func measureCBit(op Op) string {
	if op.CBit != "" {
		return op.CBit
	}
	return "c" + strconv.Itoa(op.Target)
}

// injectNoise models a noisy device after one gate: depolarizing on every
// qubit the gate touched plus amplitude damping on the target.
func injectNoise(qs *QuantumState, op Op, level float64) error {
	for _, q := range op.opQubits() {
		if err := qs.ApplyDepolarizing(q, level*0.5); err != nil {
			return err
		}
	}
	if op.Target >= 0 {
		return qs.ApplyAmplitudeDamping(op.Target, level*0.5)
	}
	return nil
}

// applyOp dispatches one op against the state, recording measurement
// outcomes on the result.
func applyOp(qs *QuantumState, op Op, res *Result) error {
	angle := 0.0
	if len(op.Params) > 0 {
		angle = op.Params[0]
	}
	switch op.Type {
	case "I", "ID":
		return qs.checkTarget(op.Target)
	case "H":
		return qs.ApplyH(op.Target)
	case "X":
		return qs.ApplyX(op.Target)
	case "Y":
		return qs.ApplyY(op.Target)
	case "Z":
		return qs.ApplyZ(op.Target)
	case "S":
		return qs.ApplyS(op.Target)
	case "SDG":
		return qs.ApplySdg(op.Target)
	case "T":
		return qs.ApplyT(op.Target)
	case "TDG":
		return qs.ApplyTdg(op.Target)
	case "P", "PHASE":
		return qs.ApplyPhase(op.Target, angle)
	case "RX":
		return qs.ApplyRx(op.Target, angle)
	case "RY":
		return qs.ApplyRy(op.Target, angle)
	case "RZ":
		return qs.ApplyRz(op.Target, angle)
	case "CX", "CNOT":
		return qs.ApplyCNOT(op.Control, op.Target)
	case "CY":
		return qs.ApplyCY(op.Control, op.Target)
	case "CZ":
		return qs.ApplyCZ(op.Control, op.Target)
	case "CP":
		return qs.ApplyCP(op.Control, op.Target, angle)
	case "SWAP":
		return qs.ApplySwap(op.Control, op.Target)
	case "CCX", "TOFFOLI":
		return qs.ApplyToffoli(op.Control, op.Control2, op.Target)
	case "CSWAP", "FREDKIN":
		return qs.ApplyFredkin(op.Control, op.Target, op.Control2)
	case "QFT":
		return qs.ApplyQFT(op.Qubits, false)
	case "QFT_INV":
		return qs.ApplyQFT(op.Qubits, true)
	case "MOD_EXP":
		return qs.ApplyModExp(op.A, op.N, op.Controls, op.Qubits)
	case "NOISE":
		switch op.NoiseType {
		case "amp":
			return qs.ApplyAmplitudeDamping(op.Target, angle)
		case "phase":
			return qs.ApplyPhaseDamping(op.Target, angle)
		case "depol":
			return qs.ApplyDepolarizing(op.Target, angle)
		default:
			return errors.Wrapf(ErrInvalidGate, "unknown noise type %q", op.NoiseType)
		}
	case "MEASURE":
		outcome := qs.Measure(op.Target)
		if outcome < 0 {
			return errors.Wrapf(ErrInvalidIndex, "measure qubit %d", op.Target)
		}
		res.Outcomes[measureCBit(op)] = outcome
		return nil
	default:
		return errors.Wrapf(ErrInvalidGate, "unknown op type %q", op.Type)
	}
}

// Sample executes the circuit repeatedly from |0...0⟩ and histograms the
// measured classical bits, keyed by their concatenated values in program
// order. Each shot draws fresh randomness; with a non-zero
// seed, shot i runs with seed+i so runs stay reproducible.
func (c *Circuit) Sample(shots int, opts ExecOptions) (map[string]int, error) {
	if shots < 1 {
		return nil, errors.Wrap(ErrInvalidGate, "sample needs at least one shot")
	}
	counts := map[string]int{}
	for shot := 0; shot < shots; shot++ {
		shotOpts := opts
		if opts.Initial != nil {
			shotOpts.Initial = opts.Initial.Clone()
		}
		if opts.Seed != 0 {
			shotOpts.Seed = opts.Seed + int64(shot)
		}
		res, err := c.Execute(shotOpts)
		if err != nil {
			return nil, err
		}
		var key strings.Builder
		for _, cbit := range res.MeasuredBits {
			key.WriteByte(byte('0' + res.Outcomes[cbit]))
		}
		counts[key.String()]++
	}
	return counts, nil
}

// Frequencies converts Sample counts into relative frequencies.
func Frequencies(counts map[string]int) map[string]float64 {
	keys := make([]string, 0, len(counts))
	vals := make([]float64, 0, len(counts))
	for k, v := range counts {
		keys = append(keys, k)
		vals = append(vals, float64(v))
	}
	freqs := make(map[string]float64, len(counts))
	total := floats.Sum(vals)
	if total == 0 {
		return freqs
	}
	floats.Scale(1/total, vals)
	for i, k := range keys {
		freqs[k] = vals[i]
	}
	return freqs
}
