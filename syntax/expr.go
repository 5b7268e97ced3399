// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math/big"

	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

var binops = map[tokKind]ast.BinaryOperator{
	tokOrOr:    ast.OpLogicalOr,
	tokAndAnd:  ast.OpLogicalAnd,
	tokLess:    ast.OpLess,
	tokLE:      ast.OpLessEqual,
	tokEqEq:    ast.OpEqual,
	tokEq:      ast.OpIdentity,
	tokNE:      ast.OpNotEqual,
	tokGE:      ast.OpGreaterEqual,
	tokGreater: ast.OpGreater,
	tokPipe:    ast.OpBinaryOr,
	tokCaret:   ast.OpBinaryXor,
	tokAmp:     ast.OpBinaryAnd,
	tokLsh:     ast.OpShiftLeft,
	tokRsh:     ast.OpShiftRight,
	tokPlus:    ast.OpAdd,
	tokMinus:   ast.OpSub,
	tokStar:    ast.OpMul,
	tokSlash:   ast.OpDiv,
	tokPercent: ast.OpMod,
	tokPower:   ast.OpPow,
}

// parseExpr parses a full expression. Lambdas are admitted only here,
// at the top of the expression hierarchy, resolving the ambiguity of
// "|" with binary or.
func (p *Parser) parseExpr() (*ast.Expr, *Error) {
	switch {
	case p.atKw("query"):
		p.advance()
		return p.parseLambda(ast.Query)
	case p.atKw("constr"):
		p.advance()
		return p.parseLambda(ast.Constr)
	case p.at(tokPipe) || p.at(tokOrOr):
		return p.parseLambda(ast.Pure)
	}
	return p.parseBinary(1)
}

func (p *Parser) parseLambda(kind ast.FunctionKind) (*ast.Expr, *Error) {
	start := p.cur().start
	var params []*ast.Pattern
	if p.at(tokOrOr) {
		p.advance()
	} else {
		if _, err := p.expect(tokPipe); err != nil {
			return nil, err
		}
		for {
			pat, err := p.parsePattern(false)
			if err != nil {
				return nil, err
			}
			params = append(params, pat)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokPipe); err != nil {
			return nil, err
		}
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprLambda,
		FuncKind:  kind,
		Params:    params,
		Left:      body,
	}, nil
}

// parseBinary implements the precedence ladder by precedence
// climbing. Comparison operators are non-associative: a second
// comparison at the same level is a parse error.
func (p *Parser) parseBinary(min int) (*ast.Expr, *Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	compared := false
	for {
		op, ok := binops[p.cur().kind]
		if !ok || op.Precedence() < min {
			return left, nil
		}
		if op.IsComparison() {
			if compared {
				return nil, p.parseErrorf("comparison operators do not chain")
			}
			compared = true
		}
		p.advance()
		var right *ast.Expr
		switch {
		case op.IsComparison():
			right, err = p.parseBinary(op.Precedence() + 1)
		case op.RightAssociative():
			right, err = p.parseBinary(op.Precedence())
		default:
			right, err = p.parseBinary(op.Precedence() + 1)
		}
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{
			SourceRef: p.span(left.SourceRef, right.SourceRef),
			Kind:      ast.ExprBinop,
			BinOp:     op,
			Left:      left,
			Right:     right,
		}
	}
}

func (p *Parser) parseUnary() (*ast.Expr, *Error) {
	var op ast.UnaryOperator
	switch p.cur().kind {
	case tokMinus:
		op = ast.OpMinus
	case tokBang:
		op = ast.OpLogicalNot
	default:
		return p.parsePostfix()
	}
	start := p.advance().start
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprUnop,
		UnOp:      op,
		Left:      operand,
	}, nil
}

func (p *Parser) parsePostfix() (*ast.Expr, *Error) {
	e, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().kind {
		case tokLBracket:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket); err != nil {
				return nil, err
			}
			e = &ast.Expr{
				SourceRef: p.refFrom(e.Start),
				Kind:      ast.ExprIndex,
				Left:      e,
				Right:     index,
			}
		case tokLParen:
			p.advance()
			args, err := p.parseExprList(tokRParen)
			if err != nil {
				return nil, err
			}
			e = &ast.Expr{
				SourceRef: p.refFrom(e.Start),
				Kind:      ast.ExprCall,
				Left:      e,
				List:      args,
			}
		case tokPrime:
			p.advance()
			e = &ast.Expr{
				SourceRef: p.refFrom(e.Start),
				Kind:      ast.ExprUnop,
				UnOp:      ast.OpNext,
				Left:      e,
			}
		default:
			return e, nil
		}
	}
}

// parseExprList parses a comma-separated, possibly empty expression
// list up to (and including) the given closing token. Trailing commas
// are not admitted.
func (p *Parser) parseExprList(close tokKind) ([]*ast.Expr, *Error) {
	var list []*ast.Expr
	if p.at(close) {
		p.advance()
		return list, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseTerm() (*ast.Expr, *Error) {
	tok := p.cur()
	switch tok.kind {
	case tokNumber:
		p.advance()
		return &ast.Expr{SourceRef: p.tokRef(tok), Kind: ast.ExprNumber, Value: tok.value}, nil
	case tokString:
		p.advance()
		return &ast.Expr{SourceRef: p.tokRef(tok), Kind: ast.ExprString, Str: tok.text}, nil
	case tokPublicIdent:
		p.advance()
		return &ast.Expr{SourceRef: p.tokRef(tok), Kind: ast.ExprPublicReference, Str: tok.text}, nil
	case tokConstIdent:
		p.advance()
		return &ast.Expr{
			SourceRef: p.tokRef(tok),
			Kind:      ast.ExprReference,
			Ref:       ast.GenericPath{Path: ast.NewSymbolPath("%" + tok.text)},
		}, nil
	case tokLBrace:
		return p.parseBlockExpr()
	case tokLBracket:
		p.advance()
		items, err := p.parseExprList(tokRBracket)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{SourceRef: p.refFrom(tok.start), Kind: ast.ExprArray, List: items}, nil
	case tokLParen:
		return p.parseTupleOrParen()
	case tokDollarBrace:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
		return &ast.Expr{SourceRef: p.refFrom(tok.start), Kind: ast.ExprFreeInput, Left: inner}, nil
	case tokKeyword:
		switch tok.text {
		case "match":
			return p.parseMatch()
		case "if":
			return p.parseIf()
		case "super":
			return p.parseReference()
		}
		if specialIdents[tok.text] {
			return p.parseReference()
		}
	case tokIdent, tokUpperIdent, tokColonColon:
		return p.parseReference()
	}
	return nil, p.unexpected("expression")
}

func (p *Parser) parseReference() (*ast.Expr, *Error) {
	start := p.cur().start
	path, err := p.parseGenericPath()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{SourceRef: p.refFrom(start), Kind: ast.ExprReference, Ref: path}, nil
}

func (p *Parser) parseMatch() (*ast.Expr, *Error) {
	start := p.advance().start // "match"
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for !p.at(tokRBrace) {
		pat, err := p.parsePattern(false)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokFatArrow); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Value: value})
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprMatch,
		Left:      scrutinee,
		Arms:      arms,
	}, nil
}

func (p *Parser) parseIf() (*ast.Expr, *Error) {
	start := p.advance().start // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(tokLBrace) {
		return nil, p.unexpected("\"{\"")
	}
	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKw("else"); err != nil {
		return nil, err
	}
	var elseBody *ast.Expr
	if p.atKw("if") {
		elseBody, err = p.parseIf()
	} else if p.at(tokLBrace) {
		elseBody, err = p.parseBlockExpr()
	} else {
		return nil, p.unexpected("\"{\" or \"if\"")
	}
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprIf,
		Cond:      cond,
		Left:      body,
		Right:     elseBody,
	}, nil
}

// parseBlockExpr parses "{ statement* trailing? }". The block's value
// is its trailing expression, if present.
func (p *Parser) parseBlockExpr() (*ast.Expr, *Error) {
	start := p.advance().start // "{"
	var (
		stmts    []*ast.BlockStatement
		trailing *ast.Expr
	)
	for !p.at(tokRBrace) {
		if p.atKw("let") {
			letStart := p.advance().start
			pat, err := p.parsePattern(false)
			if err != nil {
				return nil, err
			}
			var ty *ast.Type[ast.Expr]
			if p.at(tokColon) {
				p.advance()
				if ty, err = p.parseType(); err != nil {
					return nil, err
				}
			}
			var value *ast.Expr
			if p.at(tokEq) {
				p.advance()
				if value, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(tokSemi); err != nil {
				return nil, err
			}
			stmts = append(stmts, &ast.BlockStatement{
				SourceRef: p.refFrom(letStart),
				Let:       true,
				Pat:       pat,
				Type:      ty,
				Expr:      value,
			})
			continue
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.at(tokSemi) {
			p.advance()
			stmts = append(stmts, &ast.BlockStatement{SourceRef: e.SourceRef, Expr: e})
			continue
		}
		trailing = e
		break
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprBlock,
		Block:     stmts,
		Left:      trailing,
	}, nil
}

// parseTupleOrParen parses "()", "(e)", and "(e1, e2, ...)". A
// parenthesized single expression is not a one-tuple; it collapses to
// the inner expression.
func (p *Parser) parseTupleOrParen() (*ast.Expr, *Error) {
	start := p.advance().start // "("
	if p.at(tokRParen) {
		p.advance()
		return &ast.Expr{SourceRef: p.refFrom(start), Kind: ast.ExprTuple}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(tokRParen) {
		p.advance()
		return first, nil
	}
	items := []*ast.Expr{first}
	for p.at(tokComma) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &ast.Expr{SourceRef: p.refFrom(start), Kind: ast.ExprTuple, List: items}, nil
}

// Patterns.

// parsePattern parses a pattern. The ellipsis pattern is admitted
// only as a direct element of an array pattern.
func (p *Parser) parsePattern(allowEllipsis bool) (*ast.Pattern, *Error) {
	tok := p.cur()
	switch tok.kind {
	case tokEllipsis:
		if !allowEllipsis {
			return nil, p.parseErrorf("\"..\" is only allowed inside array patterns")
		}
		p.advance()
		return &ast.Pattern{SourceRef: p.tokRef(tok), Kind: ast.PatEllipsis}, nil
	case tokNumber:
		p.advance()
		return &ast.Pattern{SourceRef: p.tokRef(tok), Kind: ast.PatNumber, Value: tok.value}, nil
	case tokMinus:
		p.advance()
		num, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{
			SourceRef: p.refFrom(tok.start),
			Kind:      ast.PatNumber,
			Value:     new(big.Int).Neg(num.value),
		}, nil
	case tokString:
		p.advance()
		return &ast.Pattern{SourceRef: p.tokRef(tok), Kind: ast.PatString, Str: tok.text}, nil
	case tokLParen:
		return p.parseTuplePattern()
	case tokLBracket:
		p.advance()
		var items []*ast.Pattern
		for !p.at(tokRBracket) {
			item, err := p.parsePattern(true)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return &ast.Pattern{SourceRef: p.refFrom(tok.start), Kind: ast.PatArray, List: items}, nil
	case tokKeyword:
		if tok.text == "_" {
			p.advance()
			return &ast.Pattern{SourceRef: p.tokRef(tok), Kind: ast.PatCatchAll}, nil
		}
		if tok.text != "super" && !specialIdents[tok.text] {
			break
		}
		fallthrough
	case tokIdent, tokUpperIdent, tokColonColon:
		return p.parseEnumPattern()
	}
	return nil, p.unexpected("pattern")
}

// parseEnumPattern parses an identifier-shaped pattern. Every bare
// path becomes an enum pattern; resolution later downgrades
// unresolved single names to variables.
func (p *Parser) parseEnumPattern() (*ast.Pattern, *Error) {
	start := p.cur().start
	path, err := p.parsePath(false)
	if err != nil {
		return nil, err
	}
	pat := &ast.Pattern{Kind: ast.PatEnum, Path: path}
	if p.at(tokLParen) {
		p.advance()
		for {
			arg, err := p.parsePattern(false)
			if err != nil {
				return nil, err
			}
			pat.Args = append(pat.Args, arg)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}
	pat.SourceRef = p.refFrom(start)
	return pat, nil
}

func (p *Parser) parseTuplePattern() (*ast.Pattern, *Error) {
	start := p.advance().start // "("
	if p.at(tokRParen) {
		p.advance()
		return &ast.Pattern{SourceRef: p.refFrom(start), Kind: ast.PatTuple}, nil
	}
	first, err := p.parsePattern(false)
	if err != nil {
		return nil, err
	}
	if p.at(tokRParen) {
		p.advance()
		return first, nil
	}
	items := []*ast.Pattern{first}
	for p.at(tokComma) {
		p.advance()
		pat, err := p.parsePattern(false)
		if err != nil {
			return nil, err
		}
		items = append(items, pat)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &ast.Pattern{SourceRef: p.refFrom(start), Kind: ast.PatTuple, List: items}, nil
}

// Paths.

// parsePath parses a symbol path. Segments are separated by "::" or,
// for compatibility with namespaced polynomial references, ".". When
// nonSpecial is set, the special identifiers are rejected as
// segments, so that the type grammar can tell primitive types from
// named types.
func (p *Parser) parsePath(nonSpecial bool) (ast.SymbolPath, *Error) {
	var parts []ast.Part
	if p.at(tokColonColon) {
		p.advance()
		parts = append(parts, ast.Part{Name: ""})
	}
	for {
		part, err := p.parsePathPart(nonSpecial)
		if err != nil {
			return ast.SymbolPath{}, err
		}
		parts = append(parts, part)
		if !p.atPathSep() {
			return ast.SymbolPath{Parts: parts}, nil
		}
		p.advance()
	}
}

func (p *Parser) parsePathPart(nonSpecial bool) (ast.Part, *Error) {
	tok := p.cur()
	if tok.kind == tokKeyword && tok.text == "super" {
		p.advance()
		return ast.Part{Super: true}, nil
	}
	if nonSpecial && tok.kind == tokKeyword {
		return ast.Part{}, p.unexpected("identifier")
	}
	name, err := p.identifier()
	if err != nil {
		return ast.Part{}, err
	}
	return ast.Part{Name: name}, nil
}

// atPathSep tells whether the current token continues a path: a "::"
// or "." followed by a path segment.
func (p *Parser) atPathSep() bool {
	if !p.at(tokColonColon) && !p.at(tokDot) {
		return false
	}
	next := p.peek(1)
	switch next.kind {
	case tokIdent, tokUpperIdent:
		return true
	case tokKeyword:
		return next.text == "super" || specialIdents[next.text]
	}
	return false
}

// parseGenericPath parses a symbol path with an optional turbofish
// "::<T, ...>" attached to its final part.
func (p *Parser) parseGenericPath() (ast.GenericPath, *Error) {
	path, err := p.parsePath(false)
	if err != nil {
		return ast.GenericPath{}, err
	}
	if !p.at(tokColonColon) || p.peek(1).kind != tokLess {
		return ast.GenericPath{Path: path}, nil
	}
	p.advance() // "::"
	p.advance() // "<"
	args := []ast.Type[ast.Expr]{}
	for {
		ty, err := p.parseTypeTerm()
		if err != nil {
			return ast.GenericPath{}, err
		}
		args = append(args, *ty)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if err := p.expectGreater(); err != nil {
		return ast.GenericPath{}, err
	}
	return ast.GenericPath{Path: path, TypeArgs: args}, nil
}

// Types.

// parseType parses a full type, including unparenthesized function
// types "T1, T2 -> T". The value of a function type is itself a type
// but takes no bare parameter list; nested multi-parameter functions
// are written parenthesized.
func (p *Parser) parseType() (*ast.Type[ast.Expr], *Error) {
	if p.at(tokArrow) {
		p.advance()
		value, err := p.parseTypeValue()
		if err != nil {
			return nil, err
		}
		return &ast.Type[ast.Expr]{Kind: ast.TypeFunc, Params: []ast.Type[ast.Expr]{}, Value: value}, nil
	}
	first, err := p.parseTypeTerm()
	if err != nil {
		return nil, err
	}
	if !p.at(tokComma) && !p.at(tokArrow) {
		return first, nil
	}
	params := []ast.Type[ast.Expr]{*first}
	for p.at(tokComma) {
		p.advance()
		ty, err := p.parseTypeTerm()
		if err != nil {
			return nil, err
		}
		params = append(params, *ty)
	}
	if _, err := p.expect(tokArrow); err != nil {
		return nil, err
	}
	value, err := p.parseTypeValue()
	if err != nil {
		return nil, err
	}
	return &ast.Type[ast.Expr]{Kind: ast.TypeFunc, Params: params, Value: value}, nil
}

func (p *Parser) parseTypeValue() (*ast.Type[ast.Expr], *Error) {
	if p.at(tokArrow) {
		p.advance()
		value, err := p.parseTypeValue()
		if err != nil {
			return nil, err
		}
		return &ast.Type[ast.Expr]{Kind: ast.TypeFunc, Params: []ast.Type[ast.Expr]{}, Value: value}, nil
	}
	ty, err := p.parseTypeTerm()
	if err != nil {
		return nil, err
	}
	if p.at(tokArrow) {
		p.advance()
		value, err := p.parseTypeValue()
		if err != nil {
			return nil, err
		}
		return &ast.Type[ast.Expr]{Kind: ast.TypeFunc, Params: []ast.Type[ast.Expr]{*ty}, Value: value}, nil
	}
	return ty, nil
}

var primitiveTypes = map[string]ast.TypeKind{
	"bool":   ast.TypeBool,
	"int":    ast.TypeInt,
	"fe":     ast.TypeFe,
	"string": ast.TypeString,
	"col":    ast.TypeCol,
	"expr":   ast.TypeExpr,
}

func (p *Parser) parseTypeTerm() (*ast.Type[ast.Expr], *Error) {
	var base *ast.Type[ast.Expr]
	tok := p.cur()
	switch tok.kind {
	case tokBang:
		p.advance()
		base = &ast.Type[ast.Expr]{Kind: ast.TypeBottom}
	case tokLParen:
		p.advance()
		if p.at(tokRParen) {
			p.advance()
			base = &ast.Type[ast.Expr]{Kind: ast.TypeTuple, Items: []ast.Type[ast.Expr]{}}
			break
		}
		first, err := p.parseTypeValue()
		if err != nil {
			return nil, err
		}
		if p.at(tokRParen) {
			p.advance()
			base = first
			break
		}
		items := []ast.Type[ast.Expr]{*first}
		for p.at(tokComma) {
			p.advance()
			ty, err := p.parseTypeValue()
			if err != nil {
				return nil, err
			}
			items = append(items, *ty)
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		base = &ast.Type[ast.Expr]{Kind: ast.TypeTuple, Items: items}
	case tokKeyword:
		if kind, ok := primitiveTypes[tok.text]; ok {
			p.advance()
			base = &ast.Type[ast.Expr]{Kind: kind}
			break
		}
		if tok.text != "super" {
			return nil, p.unexpected("type")
		}
		fallthrough
	case tokIdent, tokUpperIdent, tokColonColon:
		path, err := p.parsePath(true)
		if err != nil {
			return nil, err
		}
		base = &ast.Type[ast.Expr]{Kind: ast.TypeNamed, Path: path}
		if p.at(tokLess) {
			p.advance()
			args := []ast.Type[ast.Expr]{}
			for {
				ty, err := p.parseTypeTerm()
				if err != nil {
					return nil, err
				}
				args = append(args, *ty)
				if !p.at(tokComma) {
					break
				}
				p.advance()
			}
			if err := p.expectGreater(); err != nil {
				return nil, err
			}
			base.TypeArgs = args
		}
	default:
		return nil, p.unexpected("type")
	}
	for p.at(tokLBracket) {
		p.advance()
		var length *ast.Expr
		if !p.at(tokRBracket) {
			var err *Error
			if length, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		base = &ast.Type[ast.Expr]{Kind: ast.TypeArray, Base: base, Length: length}
	}
	return base, nil
}

// parseTypeVarBounds parses "V1: B1 + B2, V2, ..." into a bounds
// list.
func (p *Parser) parseTypeVarBounds() (ast.TypeBounds, *Error) {
	var bounds ast.TypeBounds
	for {
		name, err := p.identifier()
		if err != nil {
			return ast.TypeBounds{}, err
		}
		var ids []string
		if p.at(tokColon) {
			p.advance()
			for {
				id, err := p.identifier()
				if err != nil {
					return ast.TypeBounds{}, err
				}
				ids = append(ids, id)
				if !p.at(tokPlus) {
					break
				}
				p.advance()
			}
		}
		bounds.Vars = append(bounds.Vars, ast.MakeTypeBound(name, ids))
		if !p.at(tokComma) {
			return bounds, nil
		}
		p.advance()
	}
}
