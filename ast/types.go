// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// TypeKind is the kind of a type term.
type TypeKind int

const (
	// TypeBottom is the type of no values, written "!".
	TypeBottom TypeKind = iota
	// TypeBool is the type of booleans.
	TypeBool
	// TypeInt is the type of arbitrary precision integers.
	TypeInt
	// TypeFe is the type of field elements.
	TypeFe
	// TypeString is the type of strings.
	TypeString
	// TypeCol is the type of columns.
	TypeCol
	// TypeExpr is the type of algebraic expressions.
	TypeExpr
	// TypeNamed is a reference to a declared type, with optional
	// generic arguments.
	TypeNamed
	// TypeArray is an array type with an optional length.
	TypeArray
	// TypeTuple is a tuple type; the empty tuple is the unit type.
	TypeTuple
	// TypeFunc is a function type.
	TypeFunc
	// TypeVar is a type variable bound by an enclosing scheme.
	TypeVar
)

var elementaryTypes = map[string]TypeKind{
	"bool":   TypeBool,
	"int":    TypeInt,
	"fe":     TypeFe,
	"string": TypeString,
	"col":    TypeCol,
	"expr":   TypeExpr,
}

// ElementaryType maps the name of a built-in elementary type to its
// kind.
func ElementaryType(name string) (TypeKind, bool) {
	k, ok := elementaryTypes[name]
	return k, ok
}

// A Type is a node in the type AST. It is parameterized by the
// representation L of array lengths: the parser produces types over
// expression lengths (Type[Expr]), while later phases use evaluated
// uint64 lengths (Type[uint64]).
type Type[L any] struct {
	// Kind is the type's kind; see above.
	Kind TypeKind

	// Base and Length describe a TypeArray. A nil Length denotes an
	// unsized array.
	Base   *Type[L]
	Length *L

	// Items holds the element types of a TypeTuple.
	Items []Type[L]

	// Params and Value describe a TypeFunc.
	Params []Type[L]
	Value  *Type[L]

	// Path and TypeArgs describe a TypeNamed. A nil TypeArgs
	// distinguishes a plain reference from one applied to an empty
	// argument list.
	Path     SymbolPath
	TypeArgs []Type[L]

	// Var is the variable name of a TypeVar.
	Var string
}

// Equal tells whether t and u are structurally equal.
func (t *Type[L]) Equal(u *Type[L]) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	default:
		return true
	case TypeNamed:
		return t.Path.Equal(u.Path) && (t.TypeArgs == nil) == (u.TypeArgs == nil) &&
			typesEqual(t.TypeArgs, u.TypeArgs)
	case TypeArray:
		return t.Base.Equal(u.Base) && lengthEqual(t.Length, u.Length)
	case TypeTuple:
		return typesEqual(t.Items, u.Items)
	case TypeFunc:
		return typesEqual(t.Params, u.Params) && t.Value.Equal(u.Value)
	case TypeVar:
		return t.Var == u.Var
	}
}

func typesEqual[L any](t, u []Type[L]) bool {
	if len(t) != len(u) {
		return false
	}
	for i := range t {
		if !t[i].Equal(&u[i]) {
			return false
		}
	}
	return true
}

func lengthEqual[L any](a, b *L) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if ae, ok := any(a).(*Expr); ok {
		return ae.Equal(any(b).(*Expr))
	}
	return reflect.DeepEqual(*a, *b)
}

// String renders t the way it is written: "int[8]", "(int, fe)",
// "T, T -> T", and so on.
func (t *Type[L]) String() string {
	switch t.Kind {
	case TypeBottom:
		return "!"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFe:
		return "fe"
	case TypeString:
		return "string"
	case TypeCol:
		return "col"
	case TypeExpr:
		return "expr"
	case TypeNamed:
		if t.TypeArgs == nil {
			return t.Path.String()
		}
		return t.Path.String() + "<" + typeList(t.TypeArgs) + ">"
	case TypeArray:
		if t.Length == nil {
			return t.Base.String() + "[]"
		}
		return t.Base.String() + "[" + lengthString(t.Length) + "]"
	case TypeTuple:
		return "(" + typeList(t.Items) + ")"
	case TypeFunc:
		if len(t.Params) == 0 {
			return "-> " + t.Value.String()
		}
		return typeList(t.Params) + " -> " + t.Value.String()
	case TypeVar:
		return t.Var
	}
	panic("bad type")
}

func typeList[L any](ts []Type[L]) string {
	strs := make([]string, len(ts))
	for i := range ts {
		strs[i] = ts[i].String()
	}
	return strings.Join(strs, ", ")
}

func lengthString[L any](l *L) string {
	if s, ok := any(l).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(*l)
}

// MapToTypeVars rewrites, in place, every plain named reference whose
// single-part name appears in vars into a type variable. The parser
// produces TypeNamed for all paths; scheme constructors apply this to
// bring declared variables into scope.
func (t *Type[L]) MapToTypeVars(vars map[string]bool) {
	switch t.Kind {
	case TypeNamed:
		if name, ok := t.Path.IsIdentifier(); ok && t.TypeArgs == nil && vars[name] {
			*t = Type[L]{Kind: TypeVar, Var: name}
			return
		}
		for i := range t.TypeArgs {
			t.TypeArgs[i].MapToTypeVars(vars)
		}
	case TypeArray:
		t.Base.MapToTypeVars(vars)
	case TypeTuple:
		for i := range t.Items {
			t.Items[i].MapToTypeVars(vars)
		}
	case TypeFunc:
		for i := range t.Params {
			t.Params[i].MapToTypeVars(vars)
		}
		t.Value.MapToTypeVars(vars)
	}
}

// ConcreteType converts a parsed type into one whose array lengths
// are evaluated numbers. Every length must be an integer literal that
// fits in a uint64.
func ConcreteType(t *Type[Expr]) (*Type[uint64], error) {
	u := &Type[uint64]{Kind: t.Kind, Path: t.Path, Var: t.Var}
	var err error
	if t.Base != nil {
		if u.Base, err = ConcreteType(t.Base); err != nil {
			return nil, err
		}
	}
	if t.Length != nil {
		if t.Length.Kind != ExprNumber {
			return nil, fmt.Errorf("array length must be a number, not %s", t.Length)
		}
		if !t.Length.Value.IsUint64() {
			return nil, fmt.Errorf("array length %s does not fit in 64 bits", t.Length.Value)
		}
		n := t.Length.Value.Uint64()
		u.Length = &n
	}
	if u.Items, err = concreteTypes(t.Items); err != nil {
		return nil, err
	}
	if u.Params, err = concreteTypes(t.Params); err != nil {
		return nil, err
	}
	if t.Value != nil {
		if u.Value, err = ConcreteType(t.Value); err != nil {
			return nil, err
		}
	}
	if t.TypeArgs != nil {
		if u.TypeArgs, err = concreteTypes(t.TypeArgs); err != nil {
			return nil, err
		}
		if u.TypeArgs == nil {
			u.TypeArgs = []Type[uint64]{}
		}
	}
	return u, nil
}

func concreteTypes(ts []Type[Expr]) ([]Type[uint64], error) {
	if ts == nil {
		return nil, nil
	}
	us := make([]Type[uint64], len(ts))
	for i := range ts {
		u, err := ConcreteType(&ts[i])
		if err != nil {
			return nil, err
		}
		us[i] = *u
	}
	return us, nil
}

// A TypeBound declares one scheme variable together with the set of
// bounds it must satisfy.
type TypeBound struct {
	Name string
	// Bounds holds the bound identifiers, sorted and deduplicated.
	Bounds []string
}

// MakeTypeBound returns the bound for name, normalizing bounds into a
// sorted set.
func MakeTypeBound(name string, bounds []string) TypeBound {
	set := make(map[string]bool, len(bounds))
	for _, b := range bounds {
		set[b] = true
	}
	norm := make([]string, 0, len(set))
	for b := range set {
		norm = append(norm, b)
	}
	sort.Strings(norm)
	return TypeBound{Name: name, Bounds: norm}
}

// String renders the bound the way it is written.
func (b TypeBound) String() string {
	if len(b.Bounds) == 0 {
		return b.Name
	}
	return b.Name + ": " + strings.Join(b.Bounds, " + ")
}

// TypeBounds is an ordered list of scheme variables with bounds.
type TypeBounds struct {
	Vars []TypeBound
}

// Names returns the set of declared variable names.
func (b TypeBounds) Names() map[string]bool {
	names := make(map[string]bool, len(b.Vars))
	for _, v := range b.Vars {
		names[v.Name] = true
	}
	return names
}

// Equal tells whether b and c declare the same variables with the
// same bounds, in the same order.
func (b TypeBounds) Equal(c TypeBounds) bool {
	if len(b.Vars) != len(c.Vars) {
		return false
	}
	for i := range b.Vars {
		if b.Vars[i].Name != c.Vars[i].Name {
			return false
		}
		if len(b.Vars[i].Bounds) != len(c.Vars[i].Bounds) {
			return false
		}
		for j := range b.Vars[i].Bounds {
			if b.Vars[i].Bounds[j] != c.Vars[i].Bounds[j] {
				return false
			}
		}
	}
	return true
}

// String renders the bounds list the way it is written.
func (b TypeBounds) String() string {
	strs := make([]string, len(b.Vars))
	for i, v := range b.Vars {
		strs[i] = v.String()
	}
	return strings.Join(strs, ", ")
}

// A TypeScheme pairs a type with the bounds of its quantified
// variables. A scheme without variables is a plain type.
type TypeScheme[L any] struct {
	Vars TypeBounds
	Type Type[L]
}

// MakeTypeScheme returns the scheme quantifying ty over vars,
// rewriting named references to declared variables into type
// variables.
func MakeTypeScheme[L any](vars TypeBounds, ty Type[L]) TypeScheme[L] {
	ty.MapToTypeVars(vars.Names())
	return TypeScheme[L]{Vars: vars, Type: ty}
}

// Equal tells whether s and u are structurally equal.
func (s *TypeScheme[L]) Equal(u *TypeScheme[L]) bool {
	return s.Vars.Equal(u.Vars) && s.Type.Equal(&u.Type)
}

// String renders the scheme; variables precede the type, as in
// "T: Ord. T -> T".
func (s *TypeScheme[L]) String() string {
	if len(s.Vars.Vars) == 0 {
		return s.Type.String()
	}
	return s.Vars.String() + ". " + s.Type.String()
}
