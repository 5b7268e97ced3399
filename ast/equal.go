// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

// Structural equality for the statement-level AST. Source references
// are ignored throughout, as in Expr.Equal.

// Equal tells whether n and m declare the same polynomial.
func (n PolynomialName) Equal(m PolynomialName) bool {
	if n.Name != m.Name {
		return false
	}
	if (n.ArraySize == nil) != (m.ArraySize == nil) {
		return false
	}
	return n.ArraySize == nil || n.ArraySize.Equal(m.ArraySize)
}

// Equal tells whether s and t select the same expressions.
func (s SelectedExpressions) Equal(t SelectedExpressions) bool {
	if (s.Selector == nil) != (t.Selector == nil) {
		return false
	}
	if s.Selector != nil && !s.Selector.Equal(t.Selector) {
		return false
	}
	if (s.Expr == nil) != (t.Expr == nil) {
		return false
	}
	return s.Expr == nil || s.Expr.Equal(t.Expr)
}

// Equal tells whether d and e are the same enum declaration.
func (d *EnumDecl) Equal(e *EnumDecl) bool {
	if d.Name != e.Name || !d.TypeVars.Equal(e.TypeVars) || len(d.Variants) != len(e.Variants) {
		return false
	}
	for i := range d.Variants {
		v, w := d.Variants[i], e.Variants[i]
		if v.Name != w.Name || (v.Fields == nil) != (w.Fields == nil) || !typesEqual(v.Fields, w.Fields) {
			return false
		}
	}
	return true
}

// Equal tells whether d and e are the same trait declaration.
func (d *TraitDecl) Equal(e *TraitDecl) bool {
	if d.Name != e.Name || len(d.TypeVars) != len(e.TypeVars) || len(d.Functions) != len(e.Functions) {
		return false
	}
	for i := range d.TypeVars {
		if d.TypeVars[i] != e.TypeVars[i] {
			return false
		}
	}
	for i := range d.Functions {
		if d.Functions[i].Name != e.Functions[i].Name ||
			!d.Functions[i].Type.Equal(&e.Functions[i].Type) {
			return false
		}
	}
	return true
}

func schemesEqual(s, t *TypeScheme[Expr]) bool {
	if (s == nil) != (t == nil) {
		return false
	}
	return s == nil || s.Equal(t)
}

func optExprEqual(e, f *Expr) bool {
	if (e == nil) != (f == nil) {
		return false
	}
	return e == nil || e.Equal(f)
}

func polyNamesEqual(n, m []PolynomialName) bool {
	if len(n) != len(m) {
		return false
	}
	for i := range n {
		if !n[i].Equal(m[i]) {
			return false
		}
	}
	return true
}

// Equal tells whether s and t are structurally equal statements.
func (s *PilStatement) Equal(t *PilStatement) bool {
	if s.Kind == PilError || s.Kind != t.Kind {
		return false
	}
	switch s.Kind {
	default:
		panic("bad statement")
	case PilInclude:
		return s.Name == t.Name
	case PilNamespace:
		return s.Path.Equal(t.Path) && optExprEqual(s.Degree, t.Degree)
	case PilLet:
		return s.Name == t.Name && schemesEqual(s.Scheme, t.Scheme) && optExprEqual(s.Value, t.Value)
	case PilPolynomialDefinition, PilConstantDefinition:
		return s.Name == t.Name && s.Value.Equal(t.Value)
	case PilPublicDeclaration:
		return s.Name == t.Name && s.Path.Equal(t.Path) &&
			optExprEqual(s.Index, t.Index) && s.Value.Equal(t.Value)
	case PilConstantDeclaration:
		return polyNamesEqual(s.Names, t.Names)
	case PilCommitDeclaration:
		if (s.Stage == nil) != (t.Stage == nil) || s.Stage != nil && *s.Stage != *t.Stage {
			return false
		}
		return polyNamesEqual(s.Names, t.Names) && optExprEqual(s.Query, t.Query)
	case PilEnumDeclaration:
		return s.Enum.Equal(t.Enum)
	case PilTraitDeclaration:
		return s.Trait.Equal(t.Trait)
	case PilPlookupIdentity, PilPermutationIdentity:
		return s.SelLeft.Equal(t.SelLeft) && s.SelRight.Equal(t.SelRight)
	case PilConnectIdentity:
		return exprsEqual(s.Left, t.Left) && exprsEqual(s.Right, t.Right)
	case PilExpression:
		return s.Value.Equal(t.Value)
	}
}

// Equal tells whether p and q are the same parameter.
func (p Param) Equal(q Param) bool {
	if p.Name != q.Name {
		return false
	}
	if (p.Index == nil) != (q.Index == nil) || p.Index != nil && p.Index.Cmp(q.Index) != 0 {
		return false
	}
	if (p.Type == nil) != (q.Type == nil) {
		return false
	}
	return p.Type == nil || p.Type.Equal(*q.Type)
}

func paramsEqual(p, q []Param) bool {
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

// Equal tells whether p and q are the same parameter lists.
func (p Params) Equal(q Params) bool {
	return paramsEqual(p.Inputs, q.Inputs) && paramsEqual(p.Outputs, q.Outputs)
}

// Equal tells whether c and d route the same call.
func (c CallableRef) Equal(d CallableRef) bool {
	return c.Instance == d.Instance && c.Callable == d.Callable &&
		exprsEqual(c.Inputs, d.Inputs) && exprsEqual(c.Outputs, d.Outputs)
}

// Equal tells whether l and m are the same link declaration.
func (l *LinkDeclaration) Equal(m *LinkDeclaration) bool {
	return l.Flag.Equal(m.Flag) && l.Link.Equal(m.Link) && l.IsPermutation == m.IsPermutation
}

// Equal tells whether i and j declare the same instruction.
func (i *Instruction) Equal(j *Instruction) bool {
	if !i.Params.Equal(j.Params) || len(i.Links) != len(j.Links) {
		return false
	}
	for k := range i.Links {
		if !i.Links[k].Equal(j.Links[k]) {
			return false
		}
	}
	if (i.Body == nil) != (j.Body == nil) || len(i.Body) != len(j.Body) {
		return false
	}
	for k := range i.Body {
		if !i.Body[k].Equal(j.Body[k]) {
			return false
		}
	}
	return true
}

// Equal tells whether p and q are the same validated properties.
func (p MachineProperties) Equal(q MachineProperties) bool {
	return optExprEqual(p.Degree, q.Degree) &&
		optExprEqual(p.MinDegree, q.MinDegree) &&
		optExprEqual(p.MaxDegree, q.MaxDegree) &&
		p.Latch == q.Latch && p.OperationID == q.OperationID &&
		p.CallSelectors == q.CallSelectors
}

// Equal tells whether p and q are the same validated parameters.
func (p MachineParams) Equal(q MachineParams) bool {
	if len(p.Params) != len(q.Params) {
		return false
	}
	for i := range p.Params {
		if p.Params[i].Name != q.Params[i].Name || !p.Params[i].Type.Equal(q.Params[i].Type) {
			return false
		}
	}
	return true
}

// Equal tells whether s and t are structurally equal machine
// statements.
func (s *MachineStatement) Equal(t *MachineStatement) bool {
	if s.Kind == MachineStatementError || s.Kind != t.Kind {
		return false
	}
	switch s.Kind {
	default:
		panic("bad statement")
	case MachineSubmachine:
		return s.Name == t.Name && s.Path.Equal(t.Path) && exprsEqual(s.Args, t.Args)
	case MachineRegister:
		return s.Name == t.Name && s.Flag == t.Flag
	case MachineInstruction:
		return s.Name == t.Name && s.Instr.Equal(t.Instr)
	case MachineLink:
		return s.Link.Equal(t.Link)
	case MachinePil:
		return s.Pil.Equal(t.Pil)
	case MachineFunction:
		if s.Name != t.Name || !s.Params.Equal(t.Params) || len(s.Body) != len(t.Body) {
			return false
		}
		for i := range s.Body {
			if !s.Body[i].Equal(t.Body[i]) {
				return false
			}
		}
		return true
	case MachineOperation:
		if (s.OperationID == nil) != (t.OperationID == nil) {
			return false
		}
		if s.OperationID != nil && s.OperationID.Cmp(t.OperationID) != 0 {
			return false
		}
		return s.Name == t.Name && s.Params.Equal(t.Params)
	}
}

// Equal tells whether m and n define the same machine.
func (m *Machine) Equal(n *Machine) bool {
	if !m.Params.Equal(n.Params) || !m.Properties.Equal(n.Properties) ||
		len(m.Statements) != len(n.Statements) {
		return false
	}
	for i := range m.Statements {
		if !m.Statements[i].Equal(n.Statements[i]) {
			return false
		}
	}
	return true
}

// Equal tells whether s and t are structurally equal module
// statements.
func (s *ModuleStatement) Equal(t *ModuleStatement) bool {
	if s.Kind == ModuleError || s.Kind != t.Kind || s.Name != t.Name {
		return false
	}
	switch s.Kind {
	default:
		panic("bad statement")
	case ModuleMachine:
		return s.Machine.Equal(t.Machine)
	case ModuleLet:
		return schemesEqual(s.Scheme, t.Scheme) && optExprEqual(s.Value, t.Value)
	case ModuleEnum:
		return s.Enum.Equal(t.Enum)
	case ModuleTrait:
		return s.Trait.Equal(t.Trait)
	case ModuleImport:
		return s.Path.Equal(t.Path)
	case ModuleNested:
		if (s.Module == nil) != (t.Module == nil) {
			return false
		}
		return s.Module == nil || s.Module.Equal(t.Module)
	}
}

// Equal tells whether a and b are the same module tree.
func (a *ASMModule) Equal(b *ASMModule) bool {
	if len(a.Statements) != len(b.Statements) {
		return false
	}
	for i := range a.Statements {
		if !a.Statements[i].Equal(b.Statements[i]) {
			return false
		}
	}
	return true
}

// Equal tells whether d and e are the same directive.
func (d *DebugDirective) Equal(e *DebugDirective) bool {
	return *d == *e
}

// Equal tells whether s and t are structurally equal function
// statements.
func (s *FunctionStatement) Equal(t *FunctionStatement) bool {
	if s.Kind == FunctionStatementError || s.Kind != t.Kind {
		return false
	}
	switch s.Kind {
	default:
		panic("bad statement")
	case FnAssignment:
		if len(s.Names) != len(t.Names) || len(s.Regs) != len(t.Regs) {
			return false
		}
		for i := range s.Names {
			if s.Names[i] != t.Names[i] {
				return false
			}
		}
		for i := range s.Regs {
			if s.Regs[i] != t.Regs[i] {
				return false
			}
		}
		return s.Value.Equal(t.Value)
	case FnInstruction:
		return s.Name == t.Name && exprsEqual(s.Args, t.Args)
	case FnLabel:
		return s.Name == t.Name
	case FnDebugDirective:
		return s.Debug.Equal(t.Debug)
	case FnReturn:
		return exprsEqual(s.Args, t.Args)
	}
}
