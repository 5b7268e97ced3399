// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package pilcom implements the frontend for PIL, a domain specific
// language for describing arithmetic constraint systems, and for its
// assembly dialect, which describes state machines that compile down
// to PIL.
//
// The frontend comprises a lexer, a parser, and a typed abstract
// syntax tree. Package syntax parses source text into the AST defined
// in package ast; every AST node carries a source reference tying it
// back to a byte range of the input for diagnostics. Parsing is pure:
// one input string in, one AST (or one error) out.
//
// Semantic analysis, name resolution, and lowering are performed by
// downstream packages that consume the AST produced here.
package pilcom
