package ast

// NodeEdge names one step from a node to a specific child (or slice of
// children), used to localize an error to a subexpression without keeping
// a pointer into the tree that produced it.
type NodeEdge int

const (
	IndIndexTypes NodeEdge = iota
	IndVconDefs
	VconDefParamTypes
	VconDefIndexArgs
	VconInd
	ForParamTypes
	ForReturnType
	AppCallee
	AppArgs
	MatchMatchee
	MatchReturnType
	MatchCases
	FunParamTypes
	FunReturnType
	FunReturnVal
)

func (e NodeEdge) String() string {
	switch e {
	case IndIndexTypes:
		return "Ind.IndexTypes"
	case IndVconDefs:
		return "Ind.VconDefs"
	case VconDefParamTypes:
		return "VconDef.ParamTypes"
	case VconDefIndexArgs:
		return "VconDef.IndexArgs"
	case VconInd:
		return "Vcon.Ind"
	case ForParamTypes:
		return "For.ParamTypes"
	case ForReturnType:
		return "For.ReturnType"
	case AppCallee:
		return "App.Callee"
	case AppArgs:
		return "App.Args"
	case MatchMatchee:
		return "Match.Matchee"
	case MatchReturnType:
		return "Match.ReturnType"
	case MatchCases:
		return "Match.Cases"
	case FunParamTypes:
		return "Fun.ParamTypes"
	case FunReturnType:
		return "Fun.ReturnType"
	case FunReturnVal:
		return "Fun.ReturnVal"
	default:
		return "<unknown-edge>"
	}
}

// NodeStep is one hop of a NodePath: an edge out of a node, plus an index
// into that edge's slice when the edge leads to more than one child (e.g.
// the third element of Ind.VconDefs). Index is unused (zero) for
// single-child edges such as ForReturnType.
type NodeStep struct {
	Edge  NodeEdge
	Index int
}

// NodePath is a sequence of steps from some understood root expression
// (typically the ind being positivity-checked) down to the subexpression
// that violates an invariant. Positivity and recursion errors carry a
// NodePath rather than an *Expr so the error value stays comparable and
// serializable.
type NodePath []NodeStep

// Append returns a new NodePath with step appended, leaving p untouched.
func (p NodePath) Append(edge NodeEdge, index int) NodePath {
	out := make(NodePath, len(p)+1)
	copy(out, p)
	out[len(p)] = NodeStep{Edge: edge, Index: index}
	return out
}

func (p NodePath) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	s := ""
	for i, step := range p {
		if i > 0 {
			s += " / "
		}
		s += step.Edge.String()
		if step.Edge == IndVconDefs || step.Edge == MatchCases || step.Edge == AppArgs ||
			step.Edge == ForParamTypes || step.Edge == IndIndexTypes ||
			step.Edge == VconDefParamTypes || step.Edge == VconDefIndexArgs ||
			step.Edge == FunParamTypes {
			s += indexSuffix(step.Index)
		}
	}
	return s
}

func indexSuffix(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "[0]"
	}
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "[" + string(buf) + "]"
}
