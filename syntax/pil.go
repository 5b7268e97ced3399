// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math"

	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

func (p *Parser) parsePILFile() (*ast.PILFile, *Error) {
	file := &ast.PILFile{}
	for !p.at(tokEOF) {
		stmt, err := p.parsePilStatement()
		if err != nil {
			return nil, err
		}
		file.Statements = append(file.Statements, stmt)
	}
	return file, nil
}

func (p *Parser) parsePilStatement() (*ast.PilStatement, *Error) {
	switch {
	case p.atKw("include"):
		start := p.advance().start
		path, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilInclude,
			Name:      path.text,
		}, nil
	case p.atKw("namespace"):
		return p.parseNamespace()
	case p.atKw("let"):
		start := p.advance().start
		name, scheme, value, err := p.parseLetTail(false)
		if err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilLet,
			Name:      name,
			Scheme:    scheme,
			Value:     value,
		}, nil
	case p.atKw("pol") || p.atKw("col"):
		return p.parsePolyStatement()
	case p.atKw("public"):
		return p.parsePublicDeclaration()
	case p.atKw("enum"):
		start := p.cur().start
		decl, err := p.parseEnumDecl()
		if err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilEnumDeclaration,
			Enum:      decl,
		}, nil
	case p.atKw("trait"):
		start := p.cur().start
		decl, err := p.parseTraitDecl()
		if err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilTraitDeclaration,
			Trait:     decl,
		}, nil
	}
	return p.parseIdentityStatement()
}

func (p *Parser) parseNamespace() (*ast.PilStatement, *Error) {
	start := p.advance().start // "namespace"
	stmt := &ast.PilStatement{Kind: ast.PilNamespace}
	if p.atIdent() || p.at(tokColonColon) || p.atKw("super") {
		path, err := p.parsePath(false)
		if err != nil {
			return nil, err
		}
		stmt.Path = path
	}
	if p.at(tokLParen) {
		p.advance()
		degree, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		stmt.Degree = degree
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	stmt.SourceRef = p.refFrom(start)
	return stmt, nil
}

// parseLetTail parses the remainder of a let statement after the
// "let" keyword: optional bounds, the name, an optional type
// annotation, and the (possibly required) bound value.
func (p *Parser) parseLetTail(requireValue bool) (string, *ast.TypeScheme[ast.Expr], *ast.Expr, *Error) {
	var bounds ast.TypeBounds
	if p.at(tokLess) {
		p.advance()
		var err *Error
		if bounds, err = p.parseTypeVarBounds(); err != nil {
			return "", nil, nil, err
		}
		if err := p.expectGreater(); err != nil {
			return "", nil, nil, err
		}
	}
	name, err := p.identifier()
	if err != nil {
		return "", nil, nil, err
	}
	var scheme *ast.TypeScheme[ast.Expr]
	if p.at(tokColon) {
		p.advance()
		ty, err := p.parseType()
		if err != nil {
			return "", nil, nil, err
		}
		s := ast.MakeTypeScheme(bounds, *ty)
		scheme = &s
	} else if len(bounds.Vars) > 0 {
		return "", nil, nil, p.parseErrorf("type variable bounds require a type annotation")
	}
	var value *ast.Expr
	if requireValue && !p.at(tokEq) {
		return "", nil, nil, p.unexpected("\"=\"")
	}
	if p.at(tokEq) {
		p.advance()
		var verr *Error
		if value, verr = p.parseExpr(); verr != nil {
			return "", nil, nil, verr
		}
	}
	if _, serr := p.expect(tokSemi); serr != nil {
		return "", nil, nil, serr
	}
	return name, scheme, value, nil
}

// parsePolyStatement parses the "pol"/"col" statement family. The
// keyword pairs pol/col, constant/fixed, and commit/witness are
// synonyms and produce identical trees.
func (p *Parser) parsePolyStatement() (*ast.PilStatement, *Error) {
	start := p.advance().start // "pol" or "col"
	switch {
	case p.atKw("constant") || p.atKw("fixed"):
		p.advance()
		return p.parseConstantTail(start)
	case p.atKw("commit") || p.atKw("witness"):
		p.advance()
		return p.parseCommitTail(start)
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.PilStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.PilPolynomialDefinition,
		Name:      name,
		Value:     value,
	}, nil
}

func (p *Parser) parseConstantTail(start int) (*ast.PilStatement, *Error) {
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	switch p.cur().kind {
	case tokLParen:
		value, err := p.parseFixedLambda(ast.Pure)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilConstantDefinition,
			Name:      name,
			Value:     value,
		}, nil
	case tokEq:
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilConstantDefinition,
			Name:      name,
			Value:     value,
		}, nil
	}
	names, err := p.parsePolyNameList(name)
	if err != nil {
		return nil, err
	}
	return &ast.PilStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.PilConstantDeclaration,
		Names:     names,
	}, nil
}

func (p *Parser) parseCommitTail(start int) (*ast.PilStatement, *Error) {
	stmt := &ast.PilStatement{Kind: ast.PilCommitDeclaration}
	if p.atKw("stage") {
		p.advance()
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		num, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		if !num.value.IsUint64() || num.value.Uint64() > math.MaxUint32 {
			return nil, errorf(p.tokRef(num), ActionError, "stage %s does not fit in 32 bits", num.value)
		}
		stage := uint32(num.value.Uint64())
		stmt.Stage = &stage
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if p.at(tokLParen) {
		query, err := p.parseFixedLambda(ast.Query)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		stmt.Names = []ast.PolynomialName{{Name: name}}
		stmt.Query = query
		stmt.SourceRef = p.refFrom(start)
		return stmt, nil
	}
	names, err := p.parsePolyNameList(name)
	if err != nil {
		return nil, err
	}
	stmt.Names = names
	stmt.SourceRef = p.refFrom(start)
	return stmt, nil
}

// parseFixedLambda parses "(params) { body }" for fixed column
// definitions and "(params) query body" for witness queries, building
// a function literal either way.
func (p *Parser) parseFixedLambda(kind ast.FunctionKind) (*ast.Expr, *Error) {
	start := p.advance().start // "("
	var params []*ast.Pattern
	for !p.at(tokRParen) {
		tok := p.cur()
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Pattern{
			SourceRef: p.tokRef(tok),
			Kind:      ast.PatEnum,
			Path:      ast.NewSymbolPath(name),
		})
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	var body *ast.Expr
	switch kind {
	case ast.Query:
		if _, err := p.expectKw("query"); err != nil {
			return nil, err
		}
		var err *Error
		if body, err = p.parseExpr(); err != nil {
			return nil, err
		}
	default:
		if _, err := p.expect(tokLBrace); err != nil {
			return nil, err
		}
		var err *Error
		if body, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
	}
	return &ast.Expr{
		SourceRef: p.refFrom(start),
		Kind:      ast.ExprLambda,
		FuncKind:  kind,
		Params:    params,
		Left:      body,
	}, nil
}

// parsePolyNameList parses the remainder of a polynomial declaration
// list, the first name having been consumed already.
func (p *Parser) parsePolyNameList(first string) ([]ast.PolynomialName, *Error) {
	names := []ast.PolynomialName{{Name: first}}
	finish := func(i int) *Error {
		if !p.at(tokLBracket) {
			return nil
		}
		p.advance()
		size, err := p.parseExpr()
		if err != nil {
			return err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return err
		}
		names[i].ArraySize = size
		return nil
	}
	if err := finish(0); err != nil {
		return nil, err
	}
	for p.at(tokComma) {
		p.advance()
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		names = append(names, ast.PolynomialName{Name: name})
		if err := finish(len(names) - 1); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parsePublicDeclaration() (*ast.PilStatement, *Error) {
	start := p.advance().start // "public"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEq); err != nil {
		return nil, err
	}
	path, err := p.parsePath(false)
	if err != nil {
		return nil, err
	}
	stmt := &ast.PilStatement{
		Kind: ast.PilPublicDeclaration,
		Name: name,
		Path: path,
	}
	if p.at(tokLBracket) {
		p.advance()
		if stmt.Index, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	if stmt.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	stmt.SourceRef = p.refFrom(start)
	return stmt, nil
}

func (p *Parser) parseEnumDecl() (*ast.EnumDecl, *Error) {
	p.advance() // "enum"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	decl := &ast.EnumDecl{Name: name}
	if p.at(tokLess) {
		p.advance()
		if decl.TypeVars, err = p.parseTypeVarBounds(); err != nil {
			return nil, err
		}
		if err := p.expectGreater(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	vars := decl.TypeVars.Names()
	for !p.at(tokRBrace) {
		vname, err := p.identifier()
		if err != nil {
			return nil, err
		}
		variant := ast.EnumVariant{Name: vname}
		if p.at(tokLParen) {
			p.advance()
			variant.Fields = []ast.Type[ast.Expr]{}
			for {
				ty, err := p.parseTypeTerm()
				if err != nil {
					return nil, err
				}
				ty.MapToTypeVars(vars)
				variant.Fields = append(variant.Fields, *ty)
				if !p.at(tokComma) {
					break
				}
				p.advance()
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
		}
		decl.Variants = append(decl.Variants, variant)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseTraitDecl() (*ast.TraitDecl, *Error) {
	p.advance() // "trait"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	decl := &ast.TraitDecl{Name: name}
	if _, err := p.expect(tokLess); err != nil {
		return nil, err
	}
	for {
		v, err := p.identifier()
		if err != nil {
			return nil, err
		}
		decl.TypeVars = append(decl.TypeVars, v)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if err := p.expectGreater(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	vars := make(map[string]bool, len(decl.TypeVars))
	for _, v := range decl.TypeVars {
		vars[v] = true
	}
	for !p.at(tokRBrace) {
		fname, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ty.MapToTypeVars(vars)
		decl.Functions = append(decl.Functions, ast.TraitFunction{Name: fname, Type: *ty})
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseSelected parses "(selector $)? expression", one side of a
// plookup or permutation identity.
func (p *Parser) parseSelected() (ast.SelectedExpressions, *Error) {
	first, err := p.parseExpr()
	if err != nil {
		return ast.SelectedExpressions{}, err
	}
	if !p.at(tokDollar) {
		return ast.SelectedExpressions{Expr: first}, nil
	}
	p.advance()
	body, err := p.parseExpr()
	if err != nil {
		return ast.SelectedExpressions{}, err
	}
	return ast.SelectedExpressions{Selector: first, Expr: body}, nil
}

// parseIdentityStatement parses the statement forms that begin with
// an expression: plookup and permutation identities, connect
// identities, and bare expression statements.
func (p *Parser) parseIdentityStatement() (*ast.PilStatement, *Error) {
	start := p.cur().start
	lhs, err := p.parseSelected()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atKw("in"):
		p.advance()
		rhs, err := p.parseSelected()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilPlookupIdentity,
			SelLeft:   lhs,
			SelRight:  rhs,
		}, nil
	case p.atKw("is"):
		p.advance()
		rhs, err := p.parseSelected()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilPermutationIdentity,
			SelLeft:   lhs,
			SelRight:  rhs,
		}, nil
	case p.atKw("connect"):
		if lhs.Selector != nil {
			return nil, p.parseErrorf("connect identities take no selector")
		}
		if lhs.Expr.Kind != ast.ExprArray {
			return nil, errorf(lhs.Expr.SourceRef, ParseError, "connect expects a bracketed expression list")
		}
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if rhs.Kind != ast.ExprArray {
			return nil, errorf(rhs.SourceRef, ParseError, "connect expects a bracketed expression list")
		}
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
		return &ast.PilStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.PilConnectIdentity,
			Left:      lhs.Expr.List,
			Right:     rhs.List,
		}, nil
	}
	if lhs.Selector != nil {
		return nil, p.unexpected("keyword \"in\" or \"is\"")
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.PilStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.PilExpression,
		Value:     lhs.Expr,
	}, nil
}
