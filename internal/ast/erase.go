package ast

// EraseAux converts an expression in any aux-data family to the Minimal
// family, discarding every node's Aux payload. Digests are unaffected
// (Testable Property 7), since they never depend on Aux in the first
// place; this is purely a type-level conversion so the evaluator and
// type checker, which only ever work in Minimal, can accept a frontend's
// annotated tree.
func EraseAux[A AuxDataFamily](e Expr[A]) Expr[Minimal] {
	switch e.Tag() {
	case TagInd:
		o := e.AsInd()
		indexTypes := eraseAuxSlice(o.IndexTypes)
		defs := make([]VconDef[Minimal], len(o.VconDefs))
		for i, d := range o.VconDefs {
			defs[i] = VconDef[Minimal]{
				ParamTypes: eraseAuxSlice(d.ParamTypes),
				IndexArgs:  eraseAuxSlice(d.IndexArgs),
				Aux:        Minimal{},
			}
		}
		return NewInd(o.Universe, o.Name, indexTypes, defs, Minimal{})

	case TagVcon:
		o := e.AsVcon()
		return NewVcon(EraseAux(o.Ind), o.VconIndex, Minimal{})

	case TagMatch:
		o := e.AsMatch()
		cases := make([]MatchCase[Minimal], len(o.Cases))
		for i, c := range o.Cases {
			cases[i] = MatchCase[Minimal]{Arity: c.Arity, ReturnVal: EraseAux(c.ReturnVal), Aux: Minimal{}}
		}
		return NewMatch(EraseAux(o.Matchee), o.ReturnTypeArity, EraseAux(o.ReturnType), cases, Minimal{})

	case TagFun:
		o := e.AsFun()
		fun, err := NewFun(o.DecreasingIndex, eraseAuxSlice(o.ParamTypes), EraseAux(o.ReturnType), EraseAux(o.ReturnVal), Minimal{})
		if err != nil {
			// o is already a well-formed Fun; erasing Aux from its
			// children can't make its parameter list empty.
			panic(err)
		}
		return fun

	case TagApp:
		o := e.AsApp()
		return NewApp(EraseAux(o.Callee), eraseAuxSlice(o.Args), Minimal{})

	case TagFor:
		o := e.AsFor()
		return NewFor(eraseAuxSlice(o.ParamTypes), EraseAux(o.ReturnType), Minimal{})

	case TagDeb:
		o := e.AsDeb()
		return NewDeb[Minimal](o.Index, Minimal{})

	case TagUniverse:
		return NewUniverse[Minimal](e.AsUniverse().Universe, Minimal{})

	default:
		panic("ast: Expr with no populated variant")
	}
}

func eraseAuxSlice[A AuxDataFamily](exprs []Expr[A]) []Expr[Minimal] {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]Expr[Minimal], len(exprs))
	for i, e := range exprs {
		out[i] = EraseAux(e)
	}
	return out
}
