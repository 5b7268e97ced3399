// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package ast defines the abstract syntax tree produced by parsing
// PIL files and ASM modules: expressions, patterns, types and type
// schemes, PIL statements, and the machine declaration tree. Every
// node carries a SourceRef locating it in the original input by byte
// offsets.
//
// Nodes are constructed by package syntax and are immutable
// afterwards from the parser's viewpoint; completed trees may be
// freely shared across goroutines.
package ast

import "fmt"

// A SourceRef locates a span of source text. FileID identifies the
// input in whatever registry the embedding application keeps; Start
// and End are byte offsets into that input, with Start <= End. The
// zero SourceRef denotes an unknown location.
type SourceRef struct {
	// FileID identifies the parsed input.
	FileID int
	// FileName is the name of the parsed input, if known. It is
	// carried for diagnostics only and does not participate in
	// equality.
	FileName string
	// Start and End delimit the referenced bytes, half-open.
	Start int
	End   int
}

// IsNone tells whether r is the unknown location.
func (r SourceRef) IsNone() bool {
	return r == SourceRef{}
}

// Contains tells whether r covers all of s. Refs from different
// files never contain each other.
func (r SourceRef) Contains(s SourceRef) bool {
	return r.FileID == s.FileID && r.Start <= s.Start && s.End <= r.End
}

// String renders r as "name:start-end". An unnamed input renders
// as "<input>".
func (r SourceRef) String() string {
	name := r.FileName
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d-%d", name, r.Start, r.End)
}

// Position is a line/column pair, both 1-based.
type Position struct {
	Line   int
	Column int
}

// Resolve computes the line and column of r's start offset by
// scanning source, which must be the text r was parsed from. Offsets
// past the end of source resolve to the final position.
func (r SourceRef) Resolve(source string) Position {
	p := Position{Line: 1, Column: 1}
	for i := 0; i < r.Start && i < len(source); i++ {
		if source[i] == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}
