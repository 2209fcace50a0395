package macq

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The qlang format is a line-oriented circuit description. Each line is one
// time step; ops sharing a line are separated by ";". Targets are comma
// lists, controls are separated from targets by "-":
//
//	H 0, 1, 2
//	RX(pi/2) 0
//	CNOT 0-1
//	TOFFOLI 0,1-2
//	QFT 0,1,2
//	MOD_EXP(7, 15) 0,1,2,3-4,5,6,7
//	NOISE_AMP(0.1) 0
//	measure 0 -> c0
//
// "#" starts a comment.

// Pre-compiled regexps for qlang parsing.
var (
	qlangOpRegex      = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)(?:\s*\(\s*([^)]*)\s*\))?\s+([\d\s,]+(?:-[\d\s,]+)?)$`)
	qlangMeasureRegex = regexp.MustCompile(`(?i)^measure\s+(\d+)\s*->\s*(\w+)$`)
)

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, -pi/2.
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseParamExpr parses a single parameter expression, supporting plain
// numbers and pi expressions ("pi", "pi/2", "3*pi/4", "-pi", "2pi").
// Returns the parsed value and true on success.
func parseParamExpr(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	s = strings.ToLower(strings.ReplaceAll(s, "π", "pi"))
	matches := piExprRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}
	negative := matches[1] == "-"
	coeffStr := matches[2]
	denomStr := matches[3]

	coeff := 1.0
	if coeffStr != "" {
		var err error
		coeff, err = strconv.ParseFloat(coeffStr, 64)
		if err != nil {
			return 0, false
		}
	}

	result := coeff * math.Pi

	if denomStr != "" {
		denom, err := strconv.ParseFloat(denomStr, 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		result /= denom
	}

	if negative {
		result = -result
	}
	return result, true
}

// formatParam formats a parameter value, using pi notation when possible.
func formatParam(val float64) string {
	type piForm struct {
		value   float64
		display string
	}
	piForms := []piForm{
		{2 * math.Pi, "2*pi"},
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 3, "pi/3"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 6, "pi/6"},
		{math.Pi / 8, "pi/8"},
		{3 * math.Pi / 4, "3*pi/4"},
		{3 * math.Pi / 2, "3*pi/2"},
		{2 * math.Pi / 3, "2*pi/3"},
	}

	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}

	return fmt.Sprintf("%g", val)
}

// parseQubitList parses a comma-separated list of qubit indices.
func parseQubitList(s string) ([]int, error) {
	var qubits []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		q, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("bad qubit index %q", part)
		}
		qubits = append(qubits, q)
	}
	if len(qubits) == 0 {
		return nil, errors.New("empty qubit list")
	}
	return qubits, nil
}

// parseParamList parses a comma-separated list of parameter expressions.
func parseParamList(s string) ([]float64, error) {
	var params []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val, ok := parseParamExpr(part)
		if !ok {
			return nil, errors.Errorf("bad parameter %q", part)
		}
		params = append(params, val)
	}
	return params, nil
}

// singleQubitOps are ops that take a target list and fan out one op per qubit.
var singleQubitOps = map[string]bool{
	"I": true, "ID": true, "H": true, "X": true, "Y": true, "Z": true,
	"S": true, "SDG": true, "T": true, "TDG": true,
}

// rotationOps are single-qubit ops carrying one angle parameter.
var rotationOps = map[string]bool{
	"RX": true, "RY": true, "RZ": true, "P": true, "PHASE": true,
}

// noiseOps maps qlang noise op names to channel identifiers.
var noiseOps = map[string]string{
	"NOISE_AMP":   "amp",
	"NOISE_PHASE": "phase",
	"NOISE_DEPOL": "depol",
}

// ParseQLang parses qlang text and rebuilds the circuit from it. The qubit
// count is derived from the highest index referenced, or kept if larger.
func (c *Circuit) ParseQLang(src string) error {
	c.Ops = nil
	c.MaxSteps = 0
	step := 0

	for lineNo, rawLine := range strings.Split(src, "\n") {
		line := rawLine
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		placed := false
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := c.parseStatement(stmt, step); err != nil {
				return errors.Wrapf(err, "line %d", lineNo+1)
			}
			placed = true
		}
		if placed {
			step++
		}
	}

	maxQubit := -1
	for _, op := range c.Ops {
		for _, q := range op.opQubits() {
			maxQubit = max(maxQubit, q)
		}
	}
	c.NumQubits = max(c.NumQubits, maxQubit+1)
	return nil
}

// parseStatement parses one qlang op and appends it at the given step.
func (c *Circuit) parseStatement(stmt string, step int) error {
	if matches := qlangMeasureRegex.FindStringSubmatch(stmt); matches != nil {
		qubit, _ := strconv.Atoi(matches[1])
		c.push(Op{Type: "MEASURE", Target: qubit, Control: -1, Control2: -1, CBit: matches[2], Step: step})
		return nil
	}

	matches := qlangOpRegex.FindStringSubmatch(stmt)
	if matches == nil {
		return errors.Errorf("unrecognized statement %q", stmt)
	}
	opType := strings.ToUpper(matches[1])
	paramsStr := matches[2]
	operand := matches[3]

	var left, right []int
	var err error
	if before, after, found := strings.Cut(operand, "-"); found {
		if left, err = parseQubitList(before); err != nil {
			return err
		}
		if right, err = parseQubitList(after); err != nil {
			return err
		}
	} else {
		if right, err = parseQubitList(operand); err != nil {
			return err
		}
	}

	switch {
	case singleQubitOps[opType]:
		if left != nil {
			return errors.Errorf("%s takes no controls", opType)
		}
		for _, q := range right {
			c.push(Op{Type: opType, Target: q, Control: -1, Control2: -1, Step: step})
		}
		return nil

	case rotationOps[opType]:
		params, err := parseParamList(paramsStr)
		if err != nil {
			return err
		}
		if len(params) != 1 {
			return errors.Errorf("%s needs exactly one angle", opType)
		}
		if left != nil {
			return errors.Errorf("%s takes no controls", opType)
		}
		for _, q := range right {
			c.push(Op{Type: opType, Target: q, Control: -1, Control2: -1, Params: params, Step: step})
		}
		return nil

	case opType == "CNOT" || opType == "CX" || opType == "CY" || opType == "CZ" || opType == "SWAP":
		if len(left) != 1 || len(right) != 1 {
			return errors.Errorf("%s needs one control and one target, like \"%s 0-1\"", opType, opType)
		}
		c.push(Op{Type: opType, Target: right[0], Control: left[0], Control2: -1, Step: step})
		return nil

	case opType == "CP":
		params, err := parseParamList(paramsStr)
		if err != nil {
			return err
		}
		if len(params) != 1 || len(left) != 1 || len(right) != 1 {
			return errors.New("CP needs one angle, one control and one target")
		}
		c.push(Op{Type: "CP", Target: right[0], Control: left[0], Control2: -1, Params: params, Step: step})
		return nil

	case opType == "TOFFOLI" || opType == "CCX":
		if len(left) != 2 || len(right) != 1 {
			return errors.Errorf("%s needs two controls and one target, like \"TOFFOLI 0,1-2\"", opType)
		}
		c.push(Op{Type: "CCX", Target: right[0], Control: left[0], Control2: left[1], Step: step})
		return nil

	case opType == "FREDKIN" || opType == "CSWAP":
		if len(left) != 1 || len(right) != 2 {
			return errors.Errorf("%s needs one control and two targets, like \"FREDKIN 0-1,2\"", opType)
		}
		c.push(Op{Type: "CSWAP", Target: right[0], Control: left[0], Control2: right[1], Step: step})
		return nil

	case opType == "QFT" || opType == "QFT_INV":
		if left != nil {
			return errors.Errorf("%s takes a single register", opType)
		}
		c.push(Op{Type: opType, Target: -1, Control: -1, Control2: -1, Qubits: right, Step: step})
		return nil

	case opType == "MOD_EXP":
		params, err := parseParamList(paramsStr)
		if err != nil {
			return err
		}
		if len(params) != 2 {
			return errors.New("MOD_EXP needs a base and a modulus, like \"MOD_EXP(7, 15)\"")
		}
		a, n := int(params[0]), int(params[1])
		if float64(a) != params[0] || float64(n) != params[1] {
			return errors.New("MOD_EXP base and modulus must be integers")
		}
		if left == nil {
			return errors.New("MOD_EXP needs a control register and a target register, like \"MOD_EXP(7, 15) 0,1-2,3\"")
		}
		c.push(Op{Type: "MOD_EXP", Target: -1, Control: -1, Control2: -1, A: a, N: n, Controls: left, Qubits: right, Step: step})
		return nil

	default:
		if channel, ok := noiseOps[opType]; ok {
			params, err := parseParamList(paramsStr)
			if err != nil {
				return err
			}
			if len(params) != 1 || left != nil {
				return errors.Errorf("%s needs one strength and a target list", opType)
			}
			for _, q := range right {
				c.push(Op{Type: "NOISE", Target: q, Control: -1, Control2: -1, NoiseType: channel, Params: params, Step: step})
			}
			return nil
		}
		return errors.Errorf("unknown op %q", opType)
	}
}

// formatOp renders one op as a qlang statement.
func formatOp(op Op) string {
	switch op.Type {
	case "MEASURE":
		cbit := op.CBit
		if cbit == "" {
			cbit = "c" + strconv.Itoa(op.Target)
		}
		return fmt.Sprintf("measure %d -> %s", op.Target, cbit)
	case "NOISE":
		name := "NOISE_AMP"
		switch op.NoiseType {
		case "phase":
			name = "NOISE_PHASE"
		case "depol":
			name = "NOISE_DEPOL"
		}
		strength := 0.0
		if len(op.Params) > 0 {
			strength = op.Params[0]
		}
		return fmt.Sprintf("%s(%g) %d", name, strength, op.Target)
	case "CCX":
		return fmt.Sprintf("TOFFOLI %d,%d-%d", op.Control, op.Control2, op.Target)
	case "CSWAP":
		return fmt.Sprintf("FREDKIN %d-%d,%d", op.Control, op.Target, op.Control2)
	case "CP":
		angle := 0.0
		if len(op.Params) > 0 {
			angle = op.Params[0]
		}
		return fmt.Sprintf("CP(%s) %d-%d", formatParam(angle), op.Control, op.Target)
	case "QFT", "QFT_INV":
		return fmt.Sprintf("%s %s", op.Type, joinQubits(op.Qubits))
	case "MOD_EXP":
		return fmt.Sprintf("MOD_EXP(%d, %d) %s-%s", op.A, op.N, joinQubits(op.Controls), joinQubits(op.Qubits))
	default:
		if op.Control >= 0 {
			return fmt.Sprintf("%s %d-%d", op.Type, op.Control, op.Target)
		}
		if len(op.Params) > 0 {
			return fmt.Sprintf("%s(%s) %d", op.Type, formatParam(op.Params[0]), op.Target)
		}
		return fmt.Sprintf("%s %d", op.Type, op.Target)
	}
}

func joinQubits(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, ",")
}

// ToQLang renders the circuit as qlang text, one time step per line.
// ParseQLang round-trips the output, scheduling included.
func (c *Circuit) ToQLang() string {
	var sb strings.Builder
	for step := 0; step < c.MaxSteps; step++ {
		var stmts []string
		for _, op := range c.Ops {
			if op.Step == step {
				stmts = append(stmts, formatOp(op))
			}
		}
		if len(stmts) > 0 {
			sb.WriteString(strings.Join(stmts, "; "))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
