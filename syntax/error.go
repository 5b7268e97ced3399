// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"

	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

// ErrorKind classifies parse-time errors.
type ErrorKind int

const (
	// LexError indicates malformed input below the token level:
	// unterminated strings or comments, illegal characters, malformed
	// numeric literals.
	LexError ErrorKind = iota
	// ParseError indicates an unexpected token or unexpected end of
	// input.
	ParseError
	// ActionError indicates syntactically well-formed input rejected
	// by a validator: unknown machine properties, duplicate
	// parameters, unliftable link targets, unrepresentable numbers.
	ActionError
)

// String renders the kind's tag.
func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case ActionError:
		return "error"
	}
	panic("bad error kind")
}

// Error is the single error surface of the parser: a source range, a
// kind, and a message. Rendering beyond Error is delegated to the
// reporting collaborator. Parsing is non-recovering: the first error
// aborts the parse and no partial AST is returned.
type Error struct {
	// Ref locates the offending input range.
	Ref ast.SourceRef
	// Kind classifies the error.
	Kind ErrorKind
	// Msg is the human-readable message.
	Msg string
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Ref, e.Kind, e.Msg)
}

func errorf(ref ast.SourceRef, kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Ref: ref, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
