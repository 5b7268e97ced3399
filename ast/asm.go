// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"math/big"
	"strings"
)

// An ASMModule is the root of a parsed ASM input: a tree of module
// statements, possibly containing nested modules.
type ASMModule struct {
	Statements []*ModuleStatement
}

// ModuleStatementKind is the kind of a module-level statement.
type ModuleStatementKind int

const (
	// ModuleError is an erroneous statement.
	ModuleError ModuleStatementKind = iota
	// ModuleMachine defines a machine under the statement's name.
	ModuleMachine
	// ModuleLet binds a module-level name to a typed expression.
	ModuleLet
	// ModuleEnum and ModuleTrait wrap enum and trait declarations as
	// symbol definitions.
	ModuleEnum
	ModuleTrait
	// ModuleImport brings a path into scope, optionally renamed.
	ModuleImport
	// ModuleNested defines a nested module, either locally (with a
	// body) or externally (to be loaded from its own file).
	ModuleNested
)

// A ModuleStatement is a single statement of an ASM module.
type ModuleStatement struct {
	// SourceRef locates the statement in its input.
	SourceRef

	// Kind is the statement's kind; see above.
	Kind ModuleStatementKind

	// Name is the defined symbol: the machine, binding, enum, trait,
	// or module name, or the import alias. An import without "as"
	// defaults its alias to the final path segment.
	Name string

	// Machine holds the definition of a ModuleMachine.
	Machine *Machine

	// Scheme and Value hold the optional type scheme and the bound
	// expression of a ModuleLet.
	Scheme *TypeScheme[Expr]
	Value  *Expr

	// Enum and Trait hold the declaration of a ModuleEnum and
	// ModuleTrait.
	Enum  *EnumDecl
	Trait *TraitDecl

	// Path is the imported path of a ModuleImport.
	Path SymbolPath

	// Module holds the body of a local ModuleNested; nil for an
	// external module.
	Module *ASMModule
}

// A Machine is a machine definition: constructor parameters,
// properties, and a statement list.
type Machine struct {
	Params     MachineParams
	Properties MachineProperties
	Statements []*MachineStatement
}

// A MachineParam is one validated machine constructor parameter.
type MachineParam struct {
	Name string
	// Type names the submachine type satisfying this parameter.
	Type SymbolPath
}

// MachineParams is the validated parameter list of a machine.
type MachineParams struct {
	Params []MachineParam
}

// MachineParamsFromList validates a parsed parameter list: every
// parameter must be written "name: Type" with a plain named type,
// and names must be unique.
func MachineParamsFromList(params []Param) (MachineParams, error) {
	var mp MachineParams
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p.Name] {
			return MachineParams{}, fmt.Errorf("duplicate machine parameter %q", p.Name)
		}
		seen[p.Name] = true
		if p.Index != nil {
			return MachineParams{}, fmt.Errorf("machine parameter %q may not carry an index", p.Name)
		}
		if p.Type == nil || p.Type.IsEmpty() {
			return MachineParams{}, fmt.Errorf("machine parameter %q must be typed \"%s: Type\"", p.Name, p.Name)
		}
		mp.Params = append(mp.Params, MachineParam{Name: p.Name, Type: *p.Type})
	}
	return mp, nil
}

// A MachineProperty is one parsed "name: value" entry of a machine's
// "with" clause, before validation.
type MachineProperty struct {
	SourceRef
	Name  string
	Value *Expr
}

// MachineProperties is the validated property set of a machine.
type MachineProperties struct {
	// Degree, MinDegree, and MaxDegree constrain the number of rows.
	Degree    *Expr
	MinDegree *Expr
	MaxDegree *Expr
	// Latch, OperationID, and CallSelectors name columns of the
	// machine; empty when absent.
	Latch         string
	OperationID   string
	CallSelectors string
}

// MachinePropertiesFromList validates a parsed property list: keys
// must be unique and drawn from the recognized set, and the column
// valued properties must be plain identifiers.
func MachinePropertiesFromList(props []MachineProperty) (MachineProperties, error) {
	var mp MachineProperties
	seen := make(map[string]bool)
	for _, p := range props {
		if seen[p.Name] {
			return MachineProperties{}, fmt.Errorf("duplicate machine property %q", p.Name)
		}
		seen[p.Name] = true
		switch p.Name {
		case "degree":
			mp.Degree = p.Value
		case "min_degree":
			mp.MinDegree = p.Value
		case "max_degree":
			mp.MaxDegree = p.Value
		case "latch":
			name, err := propertyColumn(p)
			if err != nil {
				return MachineProperties{}, err
			}
			mp.Latch = name
		case "operation_id":
			name, err := propertyColumn(p)
			if err != nil {
				return MachineProperties{}, err
			}
			mp.OperationID = name
		case "call_selectors":
			name, err := propertyColumn(p)
			if err != nil {
				return MachineProperties{}, err
			}
			mp.CallSelectors = name
		default:
			return MachineProperties{}, fmt.Errorf("unknown machine property %q", p.Name)
		}
	}
	return mp, nil
}

func propertyColumn(p MachineProperty) (string, error) {
	if p.Value.Kind == ExprReference && p.Value.Ref.TypeArgs == nil {
		if name, ok := p.Value.Ref.Path.IsIdentifier(); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("machine property %q must be a plain identifier, not %s", p.Name, p.Value)
}

// RegisterFlag qualifies a register declaration.
type RegisterFlag int

const (
	// FlagNone marks an ordinary register.
	FlagNone RegisterFlag = iota
	// FlagPC marks the program counter, written "[@pc]".
	FlagPC
	// FlagAssignment marks an assignment register, written "[<=]".
	FlagAssignment
	// FlagReadOnly marks a read-only register, written "[@r]".
	FlagReadOnly
)

// A Param is one parameter of an instruction, operation, function, or
// machine, as parsed.
type Param struct {
	Name string
	// Index is the optional bracketed index following the name.
	Index *big.Int
	// Type is the optional declared type path; nil when untyped.
	Type *SymbolPath
}

// String renders the parameter the way it is written.
func (p Param) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Index != nil {
		fmt.Fprintf(&b, "[%s]", p.Index)
	}
	if p.Type != nil {
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	return b.String()
}

// Params is an input/output parameter list; outputs follow "->".
type Params struct {
	Inputs  []Param
	Outputs []Param
}

// An Instruction is the parameter list and body of an instruction
// declaration. Links precede the body; a nil Body distinguishes
// "instr i links... ;" from "instr i links... {}".
type Instruction struct {
	Params Params
	Links  []*LinkDeclaration
	Body   []*PilStatement
}

// A CallableRef routes operands to an operation of a submachine
// instance. It is produced by lifting a call-shaped expression.
type CallableRef struct {
	Instance string
	Callable string
	// Inputs are the arguments of the call; Outputs the assigned
	// left-hand sides, if any.
	Inputs  []*Expr
	Outputs []*Expr
}

// CallableRefFromExpr lifts a parsed link target into a CallableRef.
// The expression must be a call "instance.operation(inputs)",
// optionally assigned with "=" to an output or tuple of outputs.
func CallableRefFromExpr(e *Expr) (CallableRef, error) {
	var outputs []*Expr
	if e.Kind == ExprBinop && e.BinOp == OpIdentity {
		if e.Left.Kind == ExprTuple {
			outputs = e.Left.List
		} else {
			outputs = []*Expr{e.Left}
		}
		e = e.Right
	}
	if e.Kind != ExprCall || e.Left.Kind != ExprReference || e.Left.Ref.TypeArgs != nil {
		return CallableRef{}, fmt.Errorf("link target must be a call of the form instance.operation(...), not %s", e)
	}
	parts := e.Left.Ref.Path.Parts
	if len(parts) != 2 || parts[0].Super || parts[1].Super || parts[0].Name == "" {
		return CallableRef{}, fmt.Errorf("link target %s must name instance.operation", e.Left)
	}
	return CallableRef{
		Instance: parts[0].Name,
		Callable: parts[1].Name,
		Inputs:   e.List,
		Outputs:  outputs,
	}, nil
}

// A LinkDeclaration routes an instruction's operands to a submachine
// operation, either as a lookup ("=>") or a permutation ("~>"),
// gated by a flag expression.
type LinkDeclaration struct {
	SourceRef
	Flag          *Expr
	Link          CallableRef
	IsPermutation bool
}

// MachineStatementKind is the kind of a statement inside a machine
// body.
type MachineStatementKind int

const (
	// MachineStatementError is an erroneous statement.
	MachineStatementError MachineStatementKind = iota
	// MachineSubmachine instantiates a submachine.
	MachineSubmachine
	// MachineRegister declares a register.
	MachineRegister
	// MachineInstruction declares an instruction.
	MachineInstruction
	// MachineLink declares a machine-level link.
	MachineLink
	// MachinePil embeds a PIL statement.
	MachinePil
	// MachineFunction declares a function.
	MachineFunction
	// MachineOperation declares an operation.
	MachineOperation
)

// A MachineStatement is a single statement of a machine body.
type MachineStatement struct {
	// SourceRef locates the statement in its input.
	SourceRef

	// Kind is the statement's kind; see above.
	Kind MachineStatementKind

	// Name is the declared identifier: the submachine instance,
	// register, instruction, function, or operation name.
	Name string

	// Path is the machine type of a MachineSubmachine.
	Path SymbolPath

	// Args holds the constructor arguments of a MachineSubmachine.
	Args []*Expr

	// Flag qualifies a MachineRegister.
	Flag RegisterFlag

	// Instr holds the declaration of a MachineInstruction.
	Instr *Instruction

	// Link holds the declaration of a MachineLink.
	Link *LinkDeclaration

	// Pil holds the embedded statement of a MachinePil.
	Pil *PilStatement

	// Params holds the parameter list of a MachineFunction and
	// MachineOperation.
	Params Params

	// OperationID is the optional numeric id of a MachineOperation.
	OperationID *big.Int

	// Body holds the statements of a MachineFunction.
	Body []*FunctionStatement
}

// FunctionStatementKind is the kind of a statement inside a machine
// function body.
type FunctionStatementKind int

const (
	// FunctionStatementError is an erroneous statement.
	FunctionStatementError FunctionStatementKind = iota
	// FnAssignment assigns an expression to one or more registers,
	// optionally via named assignment registers.
	FnAssignment
	// FnInstruction invokes a declared instruction.
	FnInstruction
	// FnLabel declares a jump target.
	FnLabel
	// FnDebugDirective records a ".debug" directive.
	FnDebugDirective
	// FnReturn returns zero or more values.
	FnReturn
)

// A FunctionStatement is a single statement of a machine function
// body.
type FunctionStatement struct {
	// SourceRef locates the statement in its input.
	SourceRef

	// Kind is the statement's kind; see above.
	Kind FunctionStatementKind

	// Names holds the left-hand sides of an FnAssignment.
	Names []string

	// Regs names the assignment registers of an FnAssignment written
	// "lhs <=X= rhs"; nil for the "<==" form.
	Regs []string

	// Value is the right-hand side of an FnAssignment.
	Value *Expr

	// Name is the label of an FnLabel and the instruction of an
	// FnInstruction.
	Name string

	// Args holds the arguments of an FnInstruction and the returned
	// values of an FnReturn.
	Args []*Expr

	// Debug holds the directive of an FnDebugDirective.
	Debug *DebugDirective
}

// DebugDirectiveKind is the kind of a ".debug" directive.
type DebugDirectiveKind int

const (
	// DebugFile registers a source file under a number.
	DebugFile DebugDirectiveKind = iota
	// DebugLoc attaches a file/line/column location to the following
	// statements.
	DebugLoc
	// DebugOriginalInstruction records the instruction text this code
	// was compiled from.
	DebugOriginalInstruction
)

// A DebugDirective carries the payload of a ".debug" directive.
type DebugDirective struct {
	Kind DebugDirectiveKind

	// FileNumber identifies the file in DebugFile and DebugLoc.
	FileNumber uint64
	// Dir and File are the registered directory and file name of a
	// DebugFile.
	Dir  string
	File string
	// Line and Column locate a DebugLoc.
	Line   uint64
	Column uint64
	// Insn is the original instruction text of a
	// DebugOriginalInstruction.
	Insn string
}
