// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

// parseModuleBody parses module statements until end of input (top
// level) or a closing brace (nested modules).
func (p *Parser) parseModuleBody(top bool) (*ast.ASMModule, *Error) {
	module := &ast.ASMModule{}
	for {
		if top && p.at(tokEOF) || !top && p.at(tokRBrace) {
			return module, nil
		}
		stmt, err := p.parseModuleStatement()
		if err != nil {
			return nil, err
		}
		module.Statements = append(module.Statements, stmt)
	}
}

func (p *Parser) parseModuleStatement() (*ast.ModuleStatement, *Error) {
	switch {
	case p.atKw("machine"):
		return p.parseMachine()
	case p.atKw("let"):
		start := p.advance().start
		name, scheme, value, err := p.parseLetTail(true)
		if err != nil {
			return nil, err
		}
		return &ast.ModuleStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.ModuleLet,
			Name:      name,
			Scheme:    scheme,
			Value:     value,
		}, nil
	case p.atKw("enum"):
		start := p.cur().start
		decl, err := p.parseEnumDecl()
		if err != nil {
			return nil, err
		}
		return &ast.ModuleStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.ModuleEnum,
			Name:      decl.Name,
			Enum:      decl,
		}, nil
	case p.atKw("trait"):
		start := p.cur().start
		decl, err := p.parseTraitDecl()
		if err != nil {
			return nil, err
		}
		return &ast.ModuleStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.ModuleTrait,
			Name:      decl.Name,
			Trait:     decl,
		}, nil
	case p.atKw("use"):
		return p.parseUse()
	case p.atKw("mod"):
		return p.parseMod()
	}
	return nil, p.unexpected("module statement")
}

func (p *Parser) parseUse() (*ast.ModuleStatement, *Error) {
	start := p.advance().start // "use"
	path, err := p.parsePath(false)
	if err != nil {
		return nil, err
	}
	// The default alias is the final path segment.
	name := path.Name()
	if p.atKw("as") {
		p.advance()
		if name, err = p.identifier(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.ModuleStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.ModuleImport,
		Name:      name,
		Path:      path,
	}, nil
}

func (p *Parser) parseMod() (*ast.ModuleStatement, *Error) {
	start := p.advance().start // "mod"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	stmt := &ast.ModuleStatement{Kind: ast.ModuleNested, Name: name}
	if p.at(tokSemi) {
		p.advance()
		stmt.SourceRef = p.refFrom(start)
		return stmt, nil
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	if stmt.Module, err = p.parseModuleBody(false); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	stmt.SourceRef = p.refFrom(start)
	return stmt, nil
}

func (p *Parser) parseMachine() (*ast.ModuleStatement, *Error) {
	start := p.advance().start // "machine"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	machine := &ast.Machine{}
	if p.at(tokLParen) {
		paramsStart := p.cur().start
		p.advance()
		var params []ast.Param
		for !p.at(tokRParen) {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		mp, merr := ast.MachineParamsFromList(params)
		if merr != nil {
			return nil, errorf(p.refFrom(paramsStart), ActionError, "%s", merr)
		}
		machine.Params = mp
	}
	if p.atKw("with") {
		propsStart := p.cur().start
		p.advance()
		var props []ast.MachineProperty
		for {
			ptok := p.cur()
			pname, err := p.identifier()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokColon); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			props = append(props, ast.MachineProperty{
				SourceRef: p.refFrom(ptok.start),
				Name:      pname,
				Value:     value,
			})
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		properties, perr := ast.MachinePropertiesFromList(props)
		if perr != nil {
			return nil, errorf(p.refFrom(propsStart), ActionError, "%s", perr)
		}
		machine.Properties = properties
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	for !p.at(tokRBrace) {
		stmt, err := p.parseMachineStatement()
		if err != nil {
			return nil, err
		}
		machine.Statements = append(machine.Statements, stmt)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.ModuleStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.ModuleMachine,
		Name:      name,
		Machine:   machine,
	}, nil
}

// parseParam parses "name" with an optional "[index]" and an optional
// ": Type".
func (p *Parser) parseParam() (ast.Param, *Error) {
	name, err := p.identifier()
	if err != nil {
		return ast.Param{}, err
	}
	param := ast.Param{Name: name}
	if p.at(tokLBracket) {
		p.advance()
		num, err := p.expect(tokNumber)
		if err != nil {
			return ast.Param{}, err
		}
		param.Index = num.value
		if _, err := p.expect(tokRBracket); err != nil {
			return ast.Param{}, err
		}
	}
	if p.at(tokColon) {
		p.advance()
		ty, err := p.parsePath(false)
		if err != nil {
			return ast.Param{}, err
		}
		param.Type = &ty
	}
	return param, nil
}

// parseParams parses a bare input parameter list with an optional
// "-> outputs" tail, as used by instructions, operations, and
// functions.
func (p *Parser) parseParams() (ast.Params, *Error) {
	var params ast.Params
	for p.atIdent() {
		param, err := p.parseParam()
		if err != nil {
			return ast.Params{}, err
		}
		params.Inputs = append(params.Inputs, param)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if p.at(tokArrow) {
		p.advance()
		for {
			param, err := p.parseParam()
			if err != nil {
				return ast.Params{}, err
			}
			params.Outputs = append(params.Outputs, param)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
	}
	return params, nil
}

func (p *Parser) parseMachineStatement() (*ast.MachineStatement, *Error) {
	switch {
	case p.atKw("reg"):
		return p.parseRegisterDecl()
	case p.atKw("instr"):
		return p.parseInstructionDecl()
	case p.atKw("link"):
		return p.parseLinkStatement()
	case p.atKw("function"):
		return p.parseFunctionDecl()
	case p.atKw("operation"):
		return p.parseOperationDecl()
	}
	// A machine statement starting with a path is a submachine
	// instantiation when an instance name follows; anything else is
	// an embedded PIL statement.
	if p.atIdent() || p.at(tokColonColon) {
		save := p.idx
		start := p.cur().start
		if path, err := p.parsePath(false); err == nil && p.atIdent() {
			name, _ := p.identifier()
			var args []*ast.Expr
			if p.at(tokLParen) {
				p.advance()
				var aerr *Error
				if args, aerr = p.parseExprList(tokRParen); aerr != nil {
					return nil, aerr
				}
			}
			if _, err := p.expect(tokSemi); err != nil {
				return nil, err
			}
			return &ast.MachineStatement{
				SourceRef: p.refFrom(start),
				Kind:      ast.MachineSubmachine,
				Name:      name,
				Path:      path,
				Args:      args,
			}, nil
		}
		p.idx = save
	}
	start := p.cur().start
	pil, err := p.parsePilStatement()
	if err != nil {
		return nil, err
	}
	return &ast.MachineStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.MachinePil,
		Pil:       pil,
	}, nil
}

func (p *Parser) parseRegisterDecl() (*ast.MachineStatement, *Error) {
	start := p.advance().start // "reg"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	flag := ast.FlagNone
	if p.at(tokLBracket) {
		p.advance()
		switch p.cur().kind {
		case tokAtPC:
			flag = ast.FlagPC
		case tokLE:
			flag = ast.FlagAssignment
		case tokAtR:
			flag = ast.FlagReadOnly
		default:
			return nil, p.unexpected("register flag \"@pc\", \"<=\", or \"@r\"")
		}
		p.advance()
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.MachineStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.MachineRegister,
		Name:      name,
		Flag:      flag,
	}, nil
}

func (p *Parser) parseInstructionDecl() (*ast.MachineStatement, *Error) {
	start := p.advance().start // "instr"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	instr := &ast.Instruction{}
	if instr.Params, err = p.parseParams(); err != nil {
		return nil, err
	}
	for p.atKw("link") {
		link, err := p.parseLinkDecl()
		if err != nil {
			return nil, err
		}
		instr.Links = append(instr.Links, link)
	}
	if p.at(tokLBrace) {
		if instr.Body, err = p.parseInstructionBody(); err != nil {
			return nil, err
		}
	} else if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.MachineStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.MachineInstruction,
		Name:      name,
		Instr:     instr,
	}, nil
}

// parseInstructionBody parses "{ element, ... }" where each element
// is a constraint expression or a plookup or permutation identity.
func (p *Parser) parseInstructionBody() ([]*ast.PilStatement, *Error) {
	p.advance() // "{"
	body := []*ast.PilStatement{}
	for !p.at(tokRBrace) {
		start := p.cur().start
		lhs, err := p.parseSelected()
		if err != nil {
			return nil, err
		}
		var stmt *ast.PilStatement
		switch {
		case p.atKw("in"):
			p.advance()
			rhs, err := p.parseSelected()
			if err != nil {
				return nil, err
			}
			stmt = &ast.PilStatement{
				SourceRef: p.refFrom(start),
				Kind:      ast.PilPlookupIdentity,
				SelLeft:   lhs,
				SelRight:  rhs,
			}
		case p.atKw("is"):
			p.advance()
			rhs, err := p.parseSelected()
			if err != nil {
				return nil, err
			}
			stmt = &ast.PilStatement{
				SourceRef: p.refFrom(start),
				Kind:      ast.PilPermutationIdentity,
				SelLeft:   lhs,
				SelRight:  rhs,
			}
		default:
			if lhs.Selector != nil {
				return nil, p.unexpected("keyword \"in\" or \"is\"")
			}
			stmt = &ast.PilStatement{
				SourceRef: p.refFrom(start),
				Kind:      ast.PilExpression,
				Value:     lhs.Expr,
			}
		}
		body = append(body, stmt)
		if !p.at(tokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return body, nil
}

// parseLinkDecl parses "link flag => target" or "link flag ~>
// target", lifting the target into a callable reference.
func (p *Parser) parseLinkDecl() (*ast.LinkDeclaration, *Error) {
	start := p.advance().start // "link"
	flag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var permutation bool
	switch p.cur().kind {
	case tokFatArrow:
	case tokSquiggleArrow:
		permutation = true
	default:
		return nil, p.unexpected("\"=>\" or \"~>\"")
	}
	p.advance()
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	link, lerr := ast.CallableRefFromExpr(target)
	if lerr != nil {
		return nil, errorf(target.SourceRef, ActionError, "%s", lerr)
	}
	return &ast.LinkDeclaration{
		SourceRef:     p.refFrom(start),
		Flag:          flag,
		Link:          link,
		IsPermutation: permutation,
	}, nil
}

func (p *Parser) parseLinkStatement() (*ast.MachineStatement, *Error) {
	start := p.cur().start
	link, err := p.parseLinkDecl()
	if err != nil {
		return nil, err
	}
	if _, serr := p.expect(tokSemi); serr != nil {
		return nil, serr
	}
	return &ast.MachineStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.MachineLink,
		Link:      link,
	}, nil
}

func (p *Parser) parseFunctionDecl() (*ast.MachineStatement, *Error) {
	start := p.advance().start // "function"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	body := []*ast.FunctionStatement{}
	for !p.at(tokRBrace) {
		stmt, err := p.parseFunctionStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.MachineStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.MachineFunction,
		Name:      name,
		Params:    params,
		Body:      body,
	}, nil
}

func (p *Parser) parseOperationDecl() (*ast.MachineStatement, *Error) {
	start := p.advance().start // "operation"
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	stmt := &ast.MachineStatement{Kind: ast.MachineOperation, Name: name}
	if p.at(tokLess) {
		p.advance()
		num, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		stmt.OperationID = num.value
		if err := p.expectGreater(); err != nil {
			return nil, err
		}
	}
	if stmt.Params, err = p.parseParams(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	stmt.SourceRef = p.refFrom(start)
	return stmt, nil
}

func (p *Parser) parseFunctionStatement() (*ast.FunctionStatement, *Error) {
	switch p.cur().kind {
	case tokDotDebug:
		return p.parseDebugDirective()
	case tokKeyword:
		if p.atKw("return") {
			start := p.advance().start
			var args []*ast.Expr
			if !p.at(tokSemi) {
				for {
					e, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, e)
					if !p.at(tokComma) {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(tokSemi); err != nil {
				return nil, err
			}
			return &ast.FunctionStatement{
				SourceRef: p.refFrom(start),
				Kind:      ast.FnReturn,
				Args:      args,
			}, nil
		}
	}
	start := p.cur().start
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	switch p.cur().kind {
	case tokColon:
		p.advance()
		return &ast.FunctionStatement{
			SourceRef: p.refFrom(start),
			Kind:      ast.FnLabel,
			Name:      name,
		}, nil
	case tokComma, tokAssign, tokLE:
		return p.parseAssignmentTail(start, name)
	}
	var args []*ast.Expr
	if !p.at(tokSemi) {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.FunctionStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.FnInstruction,
		Name:      name,
		Args:      args,
	}, nil
}

// parseAssignmentTail parses the remainder of "lhs, ... <== rhs;" or
// "lhs, ... <=X= rhs;", the first left-hand name having been
// consumed.
func (p *Parser) parseAssignmentTail(start int, first string) (*ast.FunctionStatement, *Error) {
	names := []string{first}
	for p.at(tokComma) {
		p.advance()
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	var regs []string
	switch p.cur().kind {
	case tokAssign:
		p.advance()
	case tokLE:
		p.advance()
		for {
			reg, err := p.identifier()
			if err != nil {
				return nil, err
			}
			regs = append(regs, reg)
			if !p.at(tokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(tokEq); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("\"<==\" or \"<=\"")
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.FunctionStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.FnAssignment,
		Names:     names,
		Regs:      regs,
		Value:     value,
	}, nil
}

func (p *Parser) parseDebugDirective() (*ast.FunctionStatement, *Error) {
	start := p.advance().start // ".debug"
	dir := &ast.DebugDirective{}
	num := func() (uint64, *Error) {
		tok, err := p.expect(tokNumber)
		if err != nil {
			return 0, err
		}
		if !tok.value.IsUint64() {
			return 0, errorf(p.tokRef(tok), ActionError, "number %s does not fit in 64 bits", tok.value)
		}
		return tok.value.Uint64(), nil
	}
	var err *Error
	switch {
	case p.atKw("file"):
		p.advance()
		dir.Kind = ast.DebugFile
		if dir.FileNumber, err = num(); err != nil {
			return nil, err
		}
		d, serr := p.expect(tokString)
		if serr != nil {
			return nil, serr
		}
		dir.Dir = d.text
		f, serr := p.expect(tokString)
		if serr != nil {
			return nil, serr
		}
		dir.File = f.text
	case p.atKw("loc"):
		p.advance()
		dir.Kind = ast.DebugLoc
		if dir.FileNumber, err = num(); err != nil {
			return nil, err
		}
		if dir.Line, err = num(); err != nil {
			return nil, err
		}
		if dir.Column, err = num(); err != nil {
			return nil, err
		}
	case p.atKw("insn"):
		p.advance()
		dir.Kind = ast.DebugOriginalInstruction
		s, serr := p.expect(tokString)
		if serr != nil {
			return nil, serr
		}
		dir.Insn = s.text
	default:
		return nil, p.unexpected("\"file\", \"loc\", or \"insn\"")
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.FunctionStatement{
		SourceRef: p.refFrom(start),
		Kind:      ast.FnDebugDirective,
		Debug:     dir,
	}, nil
}
