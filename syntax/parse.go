// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package syntax parses PIL and ASM source text into the AST of
// package ast. The parser is a hand-written recursive-descent parser
// with precedence climbing for expressions; it is pure and
// re-entrant, and aborts at the first error.
package syntax

import (
	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

// Mode determines the parser's entry production.
type Mode int

const (
	// ModePILFile parses a flat list of PIL statements.
	ModePILFile Mode = iota
	// ModeASMModule parses a (possibly nested) ASM module tree.
	ModeASMModule
	// ModeExpression parses a single expression.
	ModeExpression
	// ModeType parses a type with expression array lengths.
	ModeType
	// ModeTypeNumber parses a type whose array lengths must be
	// numbers.
	ModeTypeNumber
	// ModeSymbolPath parses a symbol path.
	ModeSymbolPath
	// ModeTypeVarBounds parses a type variable bounds list.
	ModeTypeVarBounds
	// ModeInstructionDeclaration, ModeRegisterDeclaration, and
	// ModeLinkDeclaration parse a single machine statement of the
	// named kind.
	ModeInstructionDeclaration
	ModeRegisterDeclaration
	ModeLinkDeclaration
	// ModeFunctionStatement parses a single machine function
	// statement.
	ModeFunctionStatement
)

// Parser parses a single input. The input text is borrowed for the
// duration of the parse; the result is deposited in the field
// matching the parser's mode.
type Parser struct {
	// File is the input's name, used in source references and error
	// locations.
	File string
	// FileID identifies the input in the embedder's registry.
	FileID int
	// Body is the text to parse.
	Body string
	// Mode governs how the parser is started; see above.
	Mode Mode

	// PILFile contains the parse result in ModePILFile.
	PILFile *ast.PILFile
	// Module contains the parse result in ModeASMModule.
	Module *ast.ASMModule
	// Expr contains the parse result in ModeExpression.
	Expr *ast.Expr
	// Type contains the parse result in ModeType.
	Type *ast.Type[ast.Expr]
	// TypeNum contains the parse result in ModeTypeNumber.
	TypeNum *ast.Type[uint64]
	// Path contains the parse result in ModeSymbolPath.
	Path ast.SymbolPath
	// Bounds contains the parse result in ModeTypeVarBounds.
	Bounds ast.TypeBounds
	// Statement contains the parse result in
	// ModeInstructionDeclaration, ModeRegisterDeclaration, and
	// ModeLinkDeclaration.
	Statement *ast.MachineStatement
	// FnStatement contains the parse result in ModeFunctionStatement.
	FnStatement *ast.FunctionStatement

	toks []token
	idx  int
}

// ParsePIL parses source as a PIL file.
func ParsePIL(source string, fileID int) (*ast.PILFile, error) {
	p := &Parser{FileID: fileID, Body: source, Mode: ModePILFile}
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.PILFile, nil
}

// ParseASM parses source as an ASM module.
func ParseASM(source string, fileID int) (*ast.ASMModule, error) {
	p := &Parser{FileID: fileID, Body: source, Mode: ModeASMModule}
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.Module, nil
}

// Parse parses the parser's body and reports the first error
// encountered, if any. The result is deposited in the field matching
// the parser's mode.
func (p *Parser) Parse() error {
	lx := &lexer{src: p.Body, fileID: p.FileID, fileName: p.File}
	toks, err := lx.lexAll()
	if err != nil {
		return err
	}
	p.toks, p.idx = toks, 0
	if err := p.parseEntry(); err != nil {
		return err
	}
	return nil
}

func (p *Parser) parseEntry() *Error {
	var err *Error
	switch p.Mode {
	case ModePILFile:
		p.PILFile, err = p.parsePILFile()
	case ModeASMModule:
		p.Module, err = p.parseModuleBody(true)
	case ModeExpression:
		if p.Expr, err = p.parseExpr(); err == nil {
			err = p.expectEOF()
		}
	case ModeType:
		if p.Type, err = p.parseType(); err == nil {
			err = p.expectEOF()
		}
	case ModeTypeNumber:
		var ty *ast.Type[ast.Expr]
		if ty, err = p.parseType(); err == nil {
			if err = p.expectEOF(); err == nil {
				num, cerr := ast.ConcreteType(ty)
				if cerr != nil {
					return errorf(p.refAll(), ActionError, "%s", cerr)
				}
				p.TypeNum = num
			}
		}
	case ModeSymbolPath:
		if p.Path, err = p.parsePath(false); err == nil {
			err = p.expectEOF()
		}
	case ModeTypeVarBounds:
		if p.Bounds, err = p.parseTypeVarBounds(); err == nil {
			err = p.expectEOF()
		}
	case ModeInstructionDeclaration:
		if !p.atKw("instr") {
			return p.unexpected("keyword \"instr\"")
		}
		if p.Statement, err = p.parseInstructionDecl(); err == nil {
			err = p.expectEOF()
		}
	case ModeRegisterDeclaration:
		if !p.atKw("reg") {
			return p.unexpected("keyword \"reg\"")
		}
		if p.Statement, err = p.parseRegisterDecl(); err == nil {
			err = p.expectEOF()
		}
	case ModeLinkDeclaration:
		if !p.atKw("link") {
			return p.unexpected("keyword \"link\"")
		}
		if p.Statement, err = p.parseLinkStatement(); err == nil {
			err = p.expectEOF()
		}
	case ModeFunctionStatement:
		if p.FnStatement, err = p.parseFunctionStatement(); err == nil {
			err = p.expectEOF()
		}
	}
	return err
}

// Token access.

func (p *Parser) cur() token {
	if p.idx < len(p.toks) {
		return p.toks[p.idx]
	}
	return token{kind: tokEOF, start: len(p.Body), end: len(p.Body)}
}

func (p *Parser) peek(n int) token {
	if p.idx+n < len(p.toks) {
		return p.toks[p.idx+n]
	}
	return token{kind: tokEOF, start: len(p.Body), end: len(p.Body)}
}

func (p *Parser) advance() token {
	tok := p.cur()
	if p.idx < len(p.toks) {
		p.idx++
	}
	return tok
}

func (p *Parser) at(kind tokKind) bool {
	return p.cur().kind == kind
}

func (p *Parser) atKw(text string) bool {
	tok := p.cur()
	return tok.kind == tokKeyword && tok.text == text
}

// atIdent tells whether the current token is acceptable as an
// ordinary identifier; special identifiers qualify.
func (p *Parser) atIdent() bool {
	tok := p.cur()
	return tok.kind == tokIdent || tok.kind == tokUpperIdent ||
		tok.kind == tokKeyword && specialIdents[tok.text]
}

// Source references.

func (p *Parser) tokRef(tok token) ast.SourceRef {
	return ast.SourceRef{FileID: p.FileID, FileName: p.File, Start: tok.start, End: tok.end}
}

// refFrom brackets the input from start to the end of the last
// consumed token.
func (p *Parser) refFrom(start int) ast.SourceRef {
	end := start
	if p.idx > 0 {
		end = p.toks[p.idx-1].end
	}
	return ast.SourceRef{FileID: p.FileID, FileName: p.File, Start: start, End: end}
}

func (p *Parser) refAll() ast.SourceRef {
	return ast.SourceRef{FileID: p.FileID, FileName: p.File, Start: 0, End: len(p.Body)}
}

func (p *Parser) span(a, b ast.SourceRef) ast.SourceRef {
	return ast.SourceRef{FileID: p.FileID, FileName: p.File, Start: a.Start, End: b.End}
}

// Errors and expectations.

func (p *Parser) parseErrorf(format string, args ...interface{}) *Error {
	return errorf(p.tokRef(p.cur()), ParseError, format, args...)
}

func (p *Parser) unexpected(expected string) *Error {
	return p.parseErrorf("unexpected %s, expected %s", p.cur().describe(), expected)
}

func (p *Parser) expect(kind tokKind) (token, *Error) {
	if !p.at(kind) {
		return token{}, p.unexpected("\"" + opStrings[kind] + "\"")
	}
	return p.advance(), nil
}

func (p *Parser) expectKw(text string) (token, *Error) {
	if !p.atKw(text) {
		return token{}, p.unexpected("keyword \"" + text + "\"")
	}
	return p.advance(), nil
}

func (p *Parser) expectEOF() *Error {
	if !p.at(tokEOF) {
		return p.parseErrorf("unexpected %s after end of input", p.cur().describe())
	}
	return nil
}

// identifier consumes an ordinary identifier; the special
// identifiers are admitted.
func (p *Parser) identifier() (string, *Error) {
	if !p.atIdent() {
		return "", p.unexpected("identifier")
	}
	return p.advance().text, nil
}

// expectGreater consumes a closing ">". A ">>" token is split so that
// nested generic argument lists close properly.
func (p *Parser) expectGreater() *Error {
	switch p.cur().kind {
	case tokGreater:
		p.advance()
		return nil
	case tokRsh:
		tok := p.toks[p.idx]
		p.toks[p.idx] = token{kind: tokGreater, start: tok.start + 1, end: tok.end}
		return nil
	}
	return p.unexpected("\">\"")
}
