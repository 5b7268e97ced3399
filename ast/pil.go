// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

// A PILFile is the root of a parsed PIL file: a flat list of
// statements.
type PILFile struct {
	Statements []*PilStatement
}

// PilStatementKind is the kind of a PIL statement.
type PilStatementKind int

const (
	// PilError is an erroneous statement.
	PilError PilStatementKind = iota
	// PilInclude records an include directive; expansion is performed
	// downstream.
	PilInclude
	// PilNamespace starts a namespace with an optional name and an
	// optional degree.
	PilNamespace
	// PilLet binds a name to an optional typed value.
	PilLet
	// PilPolynomialDefinition defines an intermediate polynomial.
	PilPolynomialDefinition
	// PilPublicDeclaration declares a public value as a cell of a
	// polynomial.
	PilPublicDeclaration
	// PilConstantDeclaration declares fixed polynomials.
	PilConstantDeclaration
	// PilConstantDefinition defines a fixed polynomial by a function.
	PilConstantDefinition
	// PilCommitDeclaration declares witness polynomials, optionally
	// staged and with a query function.
	PilCommitDeclaration
	// PilEnumDeclaration declares an enum.
	PilEnumDeclaration
	// PilTraitDeclaration declares a trait.
	PilTraitDeclaration
	// PilPlookupIdentity constrains the left selected expressions to
	// appear among the right ones.
	PilPlookupIdentity
	// PilPermutationIdentity constrains the left selected expressions
	// to be a permutation of the right ones.
	PilPermutationIdentity
	// PilConnectIdentity is a copy-constraint between two expression
	// lists.
	PilConnectIdentity
	// PilExpression is a bare expression statement, most commonly a
	// polynomial identity built with "=".
	PilExpression
)

// A PolynomialName declares one polynomial, optionally as an array.
type PolynomialName struct {
	Name string
	// ArraySize is the declared array length, or nil for a scalar
	// polynomial.
	ArraySize *Expr
}

// SelectedExpressions is one side of a plookup or permutation
// identity: an expression, usually an array literal, gated by an
// optional selector.
type SelectedExpressions struct {
	// Selector gates the rows taking part in the identity; nil
	// selects every row.
	Selector *Expr
	// Expr holds the selected expressions.
	Expr *Expr
}

// An EnumVariant is one variant of an enum declaration.
type EnumVariant struct {
	Name string
	// Fields holds the variant's field types; nil distinguishes a
	// fieldless variant from one with an empty field list.
	Fields []Type[Expr]
}

// An EnumDecl is an enum declaration: a name, optional bounded type
// variables, and a list of variants.
type EnumDecl struct {
	Name     string
	TypeVars TypeBounds
	Variants []EnumVariant
}

// A TraitFunction is one function member of a trait, typed by a
// function type.
type TraitFunction struct {
	Name string
	Type Type[Expr]
}

// A TraitDecl is a trait declaration: a name, its type variables, and
// its typed function members.
type TraitDecl struct {
	Name      string
	TypeVars  []string
	Functions []TraitFunction
}

// A PilStatement is a single statement of a PIL file. A single struct
// represents all statement kinds; Kind discriminates, and the
// documented subset of fields is meaningful for each kind.
type PilStatement struct {
	// SourceRef locates the statement in its input.
	SourceRef

	// Kind is the statement's kind; see above.
	Kind PilStatementKind

	// Name holds the included path of a PilInclude and the declared
	// name of a PilLet, PilPolynomialDefinition,
	// PilPublicDeclaration, and PilConstantDefinition.
	Name string

	// Path is the namespace name of a PilNamespace (optional) and the
	// referenced polynomial of a PilPublicDeclaration.
	Path SymbolPath

	// Degree is the namespace degree of a PilNamespace; optional.
	Degree *Expr

	// Scheme is the optional type scheme of a PilLet.
	Scheme *TypeScheme[Expr]

	// Value holds the bound value of a PilLet (optional), the
	// defining expression of a PilPolynomialDefinition and
	// PilConstantDefinition, the row index of a
	// PilPublicDeclaration, and the expression of a PilExpression.
	Value *Expr

	// Index is the optional array index of a PilPublicDeclaration.
	Index *Expr

	// Names holds the declared polynomials of a
	// PilConstantDeclaration and PilCommitDeclaration.
	Names []PolynomialName

	// Stage is the optional stage of a PilCommitDeclaration.
	Stage *uint32

	// Query is the optional query function of a PilCommitDeclaration.
	Query *Expr

	// Enum and Trait hold the declaration of a PilEnumDeclaration and
	// PilTraitDeclaration.
	Enum  *EnumDecl
	Trait *TraitDecl

	// SelLeft and SelRight are the two sides of a PilPlookupIdentity
	// and PilPermutationIdentity.
	SelLeft  SelectedExpressions
	SelRight SelectedExpressions

	// Left and Right are the two lists of a PilConnectIdentity.
	Left  []*Expr
	Right []*Expr
}
