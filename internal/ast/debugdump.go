package ast

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// DebugDump renders an expression's full structure, including every
// variant's scalar fields and nested children, for use in test failure
// messages. It is never used in error paths the kernel itself produces.
func DebugDump[A AuxDataFamily](e Expr[A]) string {
	switch e.Tag() {
	case TagInd:
		return dumpConfig.Sdump(e.AsInd())
	case TagVcon:
		return dumpConfig.Sdump(e.AsVcon())
	case TagMatch:
		return dumpConfig.Sdump(e.AsMatch())
	case TagFun:
		return dumpConfig.Sdump(e.AsFun())
	case TagApp:
		return dumpConfig.Sdump(e.AsApp())
	case TagFor:
		return dumpConfig.Sdump(e.AsFor())
	case TagDeb:
		return dumpConfig.Sdump(e.AsDeb())
	case TagUniverse:
		return dumpConfig.Sdump(e.AsUniverse())
	default:
		return "<invalid Expr>"
	}
}
