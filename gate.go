package macq

import "github.com/pkg/errors"

// GateKind enumerates the gate descriptor variants.
type GateKind int

const (
	GateI GateKind = iota
	GateX
	GateY
	GateZ
	GateH
	GateS
	GateT
	GateSdg
	GateTdg
	GateRx
	GateRy
	GateRz
	GateCX
	GateCY
	GateCZ
	GateSwap
	GateCCX
	GateCSwap
)

var gateKindNames = [...]string{
	GateI: "I", GateX: "X", GateY: "Y", GateZ: "Z", GateH: "H",
	GateS: "S", GateT: "T", GateSdg: "SDG", GateTdg: "TDG",
	GateRx: "RX", GateRy: "RY", GateRz: "RZ",
	GateCX: "CX", GateCY: "CY", GateCZ: "CZ", GateSwap: "SWAP",
	GateCCX: "CCX", GateCSwap: "CSWAP",
}

func (k GateKind) String() string {
	if k < 0 || int(k) >= len(gateKindNames) {
		return "UNKNOWN"
	}
	return gateKindNames[k]
}

// NoControl marks an unused control slot in a Gate descriptor.
const NoControl = -1

// Gate is a gate passed as data rather than invoked directly, e.g. to the
// observable evaluator. Control and Control2 are NoControl when unused; for
// GateCSwap, Target and Control2 are the swapped pair.
type Gate struct {
	Kind     GateKind
	Target   int
	Control  int
	Control2 int
	Angle    float64
	Phase    float64
}

// ApplyGate dispatches a gate descriptor onto the kernel set.
func (qs *QuantumState) ApplyGate(g Gate) error {
	switch g.Kind {
	case GateI:
		return qs.checkTarget(g.Target)
	case GateX:
		return qs.ApplyX(g.Target)
	case GateY:
		return qs.ApplyY(g.Target)
	case GateZ:
		return qs.ApplyZ(g.Target)
	case GateH:
		return qs.ApplyH(g.Target)
	case GateS:
		return qs.ApplyS(g.Target)
	case GateT:
		return qs.ApplyT(g.Target)
	case GateSdg:
		return qs.ApplySdg(g.Target)
	case GateTdg:
		return qs.ApplyTdg(g.Target)
	case GateRx:
		return qs.ApplyRx(g.Target, g.Angle)
	case GateRy:
		return qs.ApplyRy(g.Target, g.Angle)
	case GateRz:
		return qs.ApplyRz(g.Target, g.Angle)
	case GateCX:
		return qs.ApplyCNOT(g.Control, g.Target)
	case GateCY:
		return qs.ApplyCY(g.Control, g.Target)
	case GateCZ:
		return qs.ApplyCZ(g.Control, g.Target)
	case GateSwap:
		return qs.ApplySwap(g.Control, g.Target)
	case GateCCX:
		return qs.ApplyToffoli(g.Control, g.Control2, g.Target)
	case GateCSwap:
		return qs.ApplyFredkin(g.Control, g.Target, g.Control2)
	default:
		return errors.Wrapf(ErrInvalidGate, "unknown gate kind %d", g.Kind)
	}
}
