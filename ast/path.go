// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import "strings"

// A Part is one segment of a symbol path: either the "super" segment,
// referring to the enclosing module, or a named segment.
type Part struct {
	// Super is true for a "super" segment; Name is empty then.
	Super bool
	// Name is the segment's identifier. A leading empty name marks an
	// absolute path.
	Name string
}

// String renders the part the way it is written.
func (p Part) String() string {
	if p.Super {
		return "super"
	}
	return p.Name
}

// Equal tells whether p and q are the same part.
func (p Part) Equal(q Part) bool {
	return p == q
}

// A SymbolPath is a non-empty sequence of parts naming a symbol
// relative to some module. The parser accepts "super" in any
// position, including the final one; rejecting a path that does not
// end in a named part is left to resolution.
type SymbolPath struct {
	Parts []Part
}

// NewSymbolPath returns the path with the given named parts. An
// absolute path is written with a leading empty name.
func NewSymbolPath(names ...string) SymbolPath {
	parts := make([]Part, len(names))
	for i, n := range names {
		parts[i] = Part{Name: n}
	}
	return SymbolPath{Parts: parts}
}

// IsEmpty tells whether p has no parts. Parsed paths are never
// empty; the zero value is used for optional path slots.
func (p SymbolPath) IsEmpty() bool {
	return len(p.Parts) == 0
}

// IsAbsolute tells whether p was written with a leading "::".
func (p SymbolPath) IsAbsolute() bool {
	return len(p.Parts) > 0 && !p.Parts[0].Super && p.Parts[0].Name == ""
}

// Name returns the identifier of the final part, or empty for an
// empty path.
func (p SymbolPath) Name() string {
	if len(p.Parts) == 0 {
		return ""
	}
	return p.Parts[len(p.Parts)-1].Name
}

// IsIdentifier reports whether p is a single plain name, returning
// the name when it is.
func (p SymbolPath) IsIdentifier() (string, bool) {
	if len(p.Parts) != 1 || p.Parts[0].Super || p.Parts[0].Name == "" {
		return "", false
	}
	return p.Parts[0].Name, true
}

// Join returns p extended by q's parts.
func (p SymbolPath) Join(q SymbolPath) SymbolPath {
	parts := make([]Part, 0, len(p.Parts)+len(q.Parts))
	parts = append(parts, p.Parts...)
	parts = append(parts, q.Parts...)
	return SymbolPath{Parts: parts}
}

// WithPart returns p extended by a named part.
func (p SymbolPath) WithPart(name string) SymbolPath {
	parts := make([]Part, 0, len(p.Parts)+1)
	parts = append(parts, p.Parts...)
	parts = append(parts, Part{Name: name})
	return SymbolPath{Parts: parts}
}

// Equal tells whether p and q are the same path.
func (p SymbolPath) Equal(q SymbolPath) bool {
	if len(p.Parts) != len(q.Parts) {
		return false
	}
	for i := range p.Parts {
		if p.Parts[i] != q.Parts[i] {
			return false
		}
	}
	return true
}

// String renders p with "::" separators; an absolute path renders
// with a leading "::".
func (p SymbolPath) String() string {
	strs := make([]string, len(p.Parts))
	for i, part := range p.Parts {
		strs[i] = part.String()
	}
	return strings.Join(strs, "::")
}

// A GenericPath is a symbol path with optional explicit type
// arguments ("turbofish") attached to its final part.
type GenericPath struct {
	Path SymbolPath
	// TypeArgs holds the explicit type arguments; nil when the
	// reference carries none.
	TypeArgs []Type[Expr]
}

// Equal tells whether p and q are the same generic path.
func (p GenericPath) Equal(q GenericPath) bool {
	if !p.Path.Equal(q.Path) {
		return false
	}
	if (p.TypeArgs == nil) != (q.TypeArgs == nil) || len(p.TypeArgs) != len(q.TypeArgs) {
		return false
	}
	for i := range p.TypeArgs {
		if !p.TypeArgs[i].Equal(&q.TypeArgs[i]) {
			return false
		}
	}
	return true
}

// String renders p, including any turbofish.
func (p GenericPath) String() string {
	if p.TypeArgs == nil {
		return p.Path.String()
	}
	strs := make([]string, len(p.TypeArgs))
	for i := range p.TypeArgs {
		strs[i] = p.TypeArgs[i].String()
	}
	return p.Path.String() + "::<" + strings.Join(strs, ", ") + ">"
}
