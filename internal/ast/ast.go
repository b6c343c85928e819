// Package ast defines the kernel's term representation: a closed,
// eight-variant expression algebra encoded with de Bruijn indices, wrapped
// in hash-consed cells so that every subterm carries a stable content digest.
//
// The algebra is parameterized by an AuxDataFamily so that a frontend can
// attach its own auxiliary data (e.g. source spans) to every node while the
// kernel itself only ever looks at the Minimal family.
package ast

import "fmt"

// AuxDataFamily is implemented by the per-node auxiliary payload a frontend
// chooses to carry through the kernel. Digests never include this payload:
// two expressions differing only in aux data hash identically (Testable
// Property 7).
type AuxDataFamily interface {
	comparable
}

// Minimal is the aux-data family the kernel itself constructs and consumes.
// It carries nothing.
type Minimal struct{}

// Universe is a universe token: Set_n (erasable=false) or Prop_n
// (erasable=true).
type Universe struct {
	Level    uint64
	Erasable bool
}

func (u Universe) String() string {
	if u.Erasable {
		return fmt.Sprintf("Prop%d", u.Level)
	}
	return fmt.Sprintf("Set%d", u.Level)
}

// Succ returns the universe one level up in the same family, i.e. the type
// of Universe(u) per §4.4.
func (u Universe) Succ() Universe {
	return Universe{Level: u.Level + 1, Erasable: u.Erasable}
}

// Expr[A] is the closed, eight-variant expression sum. Exactly one of the
// embedded pointer fields is non-nil; Tag reports which.
type Expr[A AuxDataFamily] struct {
	tag  Tag
	ind  *Hashed[*Ind[A]]
	vcon *Hashed[*Vcon[A]]
	mtch *Hashed[*Match[A]]
	fun  *Hashed[*Fun[A]]
	app  *Hashed[*App[A]]
	for_ *Hashed[*For[A]]
	deb  *Hashed[*Deb[A]]
	univ *Hashed[*UniverseNode[A]]
}

// Tag identifies which of the eight Expr variants is populated.
type Tag int

const (
	TagInd Tag = iota
	TagVcon
	TagMatch
	TagFun
	TagApp
	TagFor
	TagDeb
	TagUniverse
)

func (t Tag) String() string {
	switch t {
	case TagInd:
		return "Ind"
	case TagVcon:
		return "Vcon"
	case TagMatch:
		return "Match"
	case TagFun:
		return "Fun"
	case TagApp:
		return "App"
	case TagFor:
		return "For"
	case TagDeb:
		return "Deb"
	case TagUniverse:
		return "Universe"
	default:
		return "<unknown-tag>"
	}
}

// Tag reports which variant this expression holds.
func (e Expr[A]) Tag() Tag { return e.tag }

// Digest returns the content digest of this expression, ignoring aux data.
func (e Expr[A]) Digest() Digest {
	switch e.tag {
	case TagInd:
		return e.ind.Digest
	case TagVcon:
		return e.vcon.Digest
	case TagMatch:
		return e.mtch.Digest
	case TagFun:
		return e.fun.Digest
	case TagApp:
		return e.app.Digest
	case TagFor:
		return e.for_.Digest
	case TagDeb:
		return e.deb.Digest
	case TagUniverse:
		return e.univ.Digest
	default:
		panic("ast: Expr with no populated variant")
	}
}

// Ind is an inductive type former.
//
//	Ind(universe, name, index_types, vcon_defs)
//
// index_types is dependent: index_types[i] is checked/evaluated under a
// context extended by index_types[0..i]. vcon_defs is checked under Γ
// extended by one binder for the ind's own recursive self-reference (de
// Bruijn index 0 inside a vcon_def refers to the ind itself).
type Ind[A AuxDataFamily] struct {
	Universe   Universe
	Name       string
	IndexTypes []Expr[A]
	VconDefs   []VconDef[A]
	Aux        A
}

// VconDef is a value-constructor definition belonging to an Ind. It is not
// itself an Expr variant.
//
// ParamTypes is dependent (each param type is checked under the previous
// params). IndexArgs is independent, checked under Γ extended by all
// params, and supplies this constructor's instantiation of the ind's
// indices.
type VconDef[A AuxDataFamily] struct {
	ParamTypes []Expr[A]
	IndexArgs  []Expr[A]
	Aux        A
}

// Vcon references the VconIndex-th value constructor of Ind.
type Vcon[A AuxDataFamily] struct {
	Ind       Expr[A]
	VconIndex uint64
	Aux       A
}

// MatchCase is one arm of a Match. ReturnVal is written under Arity
// binders introduced by the corresponding vcon's parameters; Arity must
// equal that vcon's ParamTypes length.
type MatchCase[A AuxDataFamily] struct {
	Arity     uint64
	ReturnVal Expr[A]
	Aux       A
}

// Match is dependent case analysis.
//
// ReturnTypeArity must equal 1 + len(matchee_type.IndexTypes): ReturnType
// is written under that many binders, the ind's indices followed by the
// matchee itself. len(Cases) must equal len(matchee_type_ind.VconDefs).
type Match[A AuxDataFamily] struct {
	Matchee         Expr[A]
	ReturnTypeArity uint64
	ReturnType      Expr[A]
	Cases           []MatchCase[A]
	Aux             A
}

// Fun is a possibly-recursive function value.
//
// DecreasingIndex == nil means non-recursive. DecreasingIndex != nil means
// recursive, and *DecreasingIndex names the parameter that must strictly
// decrease on every self-call (checked by the recursion checker).
//
// ReturnType and ReturnVal are both under the parameter binders; ReturnVal
// is additionally under one more binder referring to the function itself.
type Fun[A AuxDataFamily] struct {
	DecreasingIndex *uint64
	ParamTypes      []Expr[A]
	ReturnType      Expr[A]
	ReturnVal       Expr[A]
	Aux             A
}

// App is multi-argument application. Args is non-empty (nullary App
// collapses to Callee at construction time) and independent.
type App[A AuxDataFamily] struct {
	Callee Expr[A]
	Args   []Expr[A]
	Aux    A
}

// For is a dependent product type. ReturnType is under the param binders.
// A nullary For collapses to ReturnType at construction time.
type For[A AuxDataFamily] struct {
	ParamTypes []Expr[A]
	ReturnType Expr[A]
	Aux        A
}

// Deb is a de Bruijn variable reference; index 0 is the innermost binder.
type Deb[A AuxDataFamily] struct {
	Index uint64
	Aux   A
}

// UniverseNode is a universe token appearing as an expression.
type UniverseNode[A AuxDataFamily] struct {
	Universe Universe
	Aux      A
}
