// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"math/big"
	"strings"
)

// PatKind is the kind of a pattern.
type PatKind int

const (
	// PatError is an erroneous pattern.
	PatError PatKind = iota
	// PatCatchAll is the "_" pattern; it matches anything.
	PatCatchAll
	// PatEllipsis is the ".." pattern. It may appear only as a direct
	// element of a PatArray, where it matches any number of elements.
	PatEllipsis
	// PatNumber matches an integer literal; the literal may be
	// negative.
	PatNumber
	// PatString matches a string literal.
	PatString
	// PatTuple matches a tuple elementwise.
	PatTuple
	// PatArray matches an array elementwise, modulo one ellipsis.
	PatArray
	// PatEnum matches an enum variant by path. The parser produces
	// PatEnum for every identifier-shaped pattern; resolution
	// downgrades unresolved single-name paths to PatVariable.
	PatEnum
	// PatVariable binds a variable. It is never produced by the
	// parser.
	PatVariable
)

// A Pattern is a node in the pattern AST used by match arms and let
// bindings.
type Pattern struct {
	// SourceRef locates the pattern in its input.
	SourceRef

	// Kind is the pattern's kind; see above.
	Kind PatKind

	// Value is the matched literal of a PatNumber.
	Value *big.Int

	// Str holds the matched literal of a PatString and the bound name
	// of a PatVariable.
	Str string

	// List holds the element patterns of a PatTuple and PatArray.
	List []*Pattern

	// Path is the variant path of a PatEnum.
	Path SymbolPath

	// Args holds the argument patterns of a PatEnum. A nil Args
	// distinguishes a bare variant path from one applied to
	// arguments.
	Args []*Pattern
}

// Equal tells whether p and q are structurally equal, ignoring source
// references.
func (p *Pattern) Equal(q *Pattern) bool {
	if p.Kind == PatError || p.Kind != q.Kind {
		return false
	}
	switch p.Kind {
	default:
		panic("bad pattern")
	case PatCatchAll, PatEllipsis:
		return true
	case PatNumber:
		return p.Value.Cmp(q.Value) == 0
	case PatString, PatVariable:
		return p.Str == q.Str
	case PatTuple, PatArray:
		return patsEqual(p.List, q.List)
	case PatEnum:
		if !p.Path.Equal(q.Path) {
			return false
		}
		if (p.Args == nil) != (q.Args == nil) {
			return false
		}
		return patsEqual(p.Args, q.Args)
	}
}

func patsEqual(p, q []*Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].Equal(q[i]) {
			return false
		}
	}
	return true
}

// Vars appends the names bound by p to vars, in syntactic order.
func (p *Pattern) Vars(vars []string) []string {
	switch p.Kind {
	case PatVariable:
		vars = append(vars, p.Str)
	case PatTuple, PatArray:
		for _, q := range p.List {
			vars = q.Vars(vars)
		}
	case PatEnum:
		for _, q := range p.Args {
			vars = q.Vars(vars)
		}
	}
	return vars
}

// String renders p the way it is written.
func (p *Pattern) String() string {
	switch p.Kind {
	case PatError:
		return "<error>"
	case PatCatchAll:
		return "_"
	case PatEllipsis:
		return ".."
	case PatNumber:
		return p.Value.String()
	case PatString:
		return "\"" + p.Str + "\""
	case PatTuple:
		return "(" + patList(p.List) + ")"
	case PatArray:
		return "[" + patList(p.List) + "]"
	case PatEnum:
		if p.Args == nil {
			return p.Path.String()
		}
		return p.Path.String() + "(" + patList(p.Args) + ")"
	case PatVariable:
		return p.Str
	}
	panic("bad pattern")
}

func patList(ps []*Pattern) string {
	strs := make([]string, len(ps))
	for i, p := range ps {
		strs[i] = p.String()
	}
	return strings.Join(strs, ", ")
}
