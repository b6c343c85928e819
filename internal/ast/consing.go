package ast

import "errors"

// ErrFunHasZeroParams is returned by NewFun when paramTypes is empty. A
// Fun always binds at least one parameter; a would-be zero-param Fun is
// better written as its ReturnVal directly (there is no argument for a
// recursive call to decrease on, and no binder for ReturnVal to close
// over), so construction rejects it rather than silently accepting a
// degenerate node.
var ErrFunHasZeroParams = errors.New("ast: Fun must have at least one parameter")

// This file holds the hash-consing smart constructors: the only way to
// build an Expr[A]. Each constructor computes the node's digest from its
// own scalar fields and its children's digests (never from Aux), then
// wraps the node in a Hashed cell. Nullary For and App collapse to their
// contents here, enforcing Invariant 1 at construction time rather than
// leaving it to callers.

// NewInd constructs an Ind expression.
func NewInd[A AuxDataFamily](universe Universe, name string, indexTypes []Expr[A], vconDefs []VconDef[A], aux A) Expr[A] {
	d := newDigestBuilder(TagInd).
		writeUniverse(universe).
		writeString(name).
		writeExprs(exprsToDigesters(indexTypes))
	writeVconDefDigests(d, vconDefs)

	node := &Ind[A]{Universe: universe, Name: name, IndexTypes: indexTypes, VconDefs: vconDefs, Aux: aux}
	return Expr[A]{tag: TagInd, ind: &Hashed[*Ind[A]]{Value: node, Digest: d.sum()}}
}

func writeVconDefDigests[A AuxDataFamily](d *digestBuilder, defs []VconDef[A]) {
	d.writeUint64(uint64(len(defs)))
	for _, def := range defs {
		d.writeExprs(exprsToDigesters(def.ParamTypes))
		d.writeExprs(exprsToDigesters(def.IndexArgs))
	}
}

// NewVcon constructs a Vcon expression referencing the vconIndex-th value
// constructor of ind.
func NewVcon[A AuxDataFamily](ind Expr[A], vconIndex uint64, aux A) Expr[A] {
	d := newDigestBuilder(TagVcon).writeDigest(ind.Digest()).writeUint64(vconIndex)
	node := &Vcon[A]{Ind: ind, VconIndex: vconIndex, Aux: aux}
	return Expr[A]{tag: TagVcon, vcon: &Hashed[*Vcon[A]]{Value: node, Digest: d.sum()}}
}

// NewMatch constructs a Match expression.
func NewMatch[A AuxDataFamily](matchee Expr[A], returnTypeArity uint64, returnType Expr[A], cases []MatchCase[A], aux A) Expr[A] {
	d := newDigestBuilder(TagMatch).
		writeDigest(matchee.Digest()).
		writeUint64(returnTypeArity).
		writeDigest(returnType.Digest()).
		writeUint64(uint64(len(cases)))
	for _, c := range cases {
		d.writeUint64(c.Arity).writeDigest(c.ReturnVal.Digest())
	}

	node := &Match[A]{Matchee: matchee, ReturnTypeArity: returnTypeArity, ReturnType: returnType, Cases: cases, Aux: aux}
	return Expr[A]{tag: TagMatch, mtch: &Hashed[*Match[A]]{Value: node, Digest: d.sum()}}
}

// NewFun constructs a Fun expression. decreasingIndex is nil for a
// non-recursive fun. Returns ErrFunHasZeroParams if paramTypes is empty.
func NewFun[A AuxDataFamily](decreasingIndex *uint64, paramTypes []Expr[A], returnType Expr[A], returnVal Expr[A], aux A) (Expr[A], error) {
	if len(paramTypes) == 0 {
		return Expr[A]{}, ErrFunHasZeroParams
	}

	d := newDigestBuilder(TagFun)
	if decreasingIndex != nil {
		d.writeBool(true).writeUint64(*decreasingIndex)
	} else {
		d.writeBool(false)
	}
	d.writeExprs(exprsToDigesters(paramTypes)).
		writeDigest(returnType.Digest()).
		writeDigest(returnVal.Digest())

	var di *uint64
	if decreasingIndex != nil {
		v := *decreasingIndex
		di = &v
	}
	node := &Fun[A]{DecreasingIndex: di, ParamTypes: paramTypes, ReturnType: returnType, ReturnVal: returnVal, Aux: aux}
	return Expr[A]{tag: TagFun, fun: &Hashed[*Fun[A]]{Value: node, Digest: d.sum()}}, nil
}

// NewApp constructs an App expression. A nullary application (no args)
// collapses to callee itself, per Invariant 1.
func NewApp[A AuxDataFamily](callee Expr[A], args []Expr[A], aux A) Expr[A] {
	if len(args) == 0 {
		return callee
	}

	d := newDigestBuilder(TagApp).
		writeDigest(callee.Digest()).
		writeExprs(exprsToDigesters(args))

	node := &App[A]{Callee: callee, Args: args, Aux: aux}
	return Expr[A]{tag: TagApp, app: &Hashed[*App[A]]{Value: node, Digest: d.sum()}}
}

// NewFor constructs a For expression. A nullary for (no params) collapses
// to its return type, per Invariant 1.
func NewFor[A AuxDataFamily](paramTypes []Expr[A], returnType Expr[A], aux A) Expr[A] {
	if len(paramTypes) == 0 {
		return returnType
	}

	d := newDigestBuilder(TagFor).
		writeExprs(exprsToDigesters(paramTypes)).
		writeDigest(returnType.Digest())

	node := &For[A]{ParamTypes: paramTypes, ReturnType: returnType, Aux: aux}
	return Expr[A]{tag: TagFor, for_: &Hashed[*For[A]]{Value: node, Digest: d.sum()}}
}

// NewDeb constructs a de Bruijn variable reference.
func NewDeb[A AuxDataFamily](index uint64, aux A) Expr[A] {
	d := newDigestBuilder(TagDeb).writeUint64(index)
	node := &Deb[A]{Index: index, Aux: aux}
	return Expr[A]{tag: TagDeb, deb: &Hashed[*Deb[A]]{Value: node, Digest: d.sum()}}
}

// NewUniverse constructs a universe-token expression.
func NewUniverse[A AuxDataFamily](u Universe, aux A) Expr[A] {
	d := newDigestBuilder(TagUniverse).writeUniverse(u)
	node := &UniverseNode[A]{Universe: u, Aux: aux}
	return Expr[A]{tag: TagUniverse, univ: &Hashed[*UniverseNode[A]]{Value: node, Digest: d.sum()}}
}

// Accessors. Each panics if called on an Expr holding a different variant;
// callers are expected to switch on Tag() first (see Visit).

func (e Expr[A]) AsInd() *Ind[A] {
	if e.tag != TagInd {
		panic("ast: Expr is not an Ind")
	}
	return e.ind.Value
}

func (e Expr[A]) AsVcon() *Vcon[A] {
	if e.tag != TagVcon {
		panic("ast: Expr is not a Vcon")
	}
	return e.vcon.Value
}

func (e Expr[A]) AsMatch() *Match[A] {
	if e.tag != TagMatch {
		panic("ast: Expr is not a Match")
	}
	return e.mtch.Value
}

func (e Expr[A]) AsFun() *Fun[A] {
	if e.tag != TagFun {
		panic("ast: Expr is not a Fun")
	}
	return e.fun.Value
}

func (e Expr[A]) AsApp() *App[A] {
	if e.tag != TagApp {
		panic("ast: Expr is not an App")
	}
	return e.app.Value
}

func (e Expr[A]) AsFor() *For[A] {
	if e.tag != TagFor {
		panic("ast: Expr is not a For")
	}
	return e.for_.Value
}

func (e Expr[A]) AsDeb() *Deb[A] {
	if e.tag != TagDeb {
		panic("ast: Expr is not a Deb")
	}
	return e.deb.Value
}

func (e Expr[A]) AsUniverse() *UniverseNode[A] {
	if e.tag != TagUniverse {
		panic("ast: Expr is not a Universe")
	}
	return e.univ.Value
}

// IsUniverse reports whether e is a Universe expression.
func (e Expr[A]) IsUniverse() bool { return e.tag == TagUniverse }
