// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"math/big"
	"testing"
)

func TestExprDigest(t *testing.T) {
	add := &Expr{Kind: ExprBinop, BinOp: OpAdd, Left: numExpr(1), Right: numExpr(2)}
	// Digests identify syntactic content, independent of location.
	located := &Expr{
		SourceRef: SourceRef{FileID: 7, Start: 100, End: 105},
		Kind:      ExprBinop, BinOp: OpAdd,
		Left:  &Expr{SourceRef: SourceRef{FileID: 7, Start: 100, End: 101}, Kind: ExprNumber, Value: big.NewInt(1)},
		Right: &Expr{SourceRef: SourceRef{FileID: 7, Start: 104, End: 105}, Kind: ExprNumber, Value: big.NewInt(2)},
	}
	if add.Digest() != located.Digest() {
		t.Error("digest depends on source location")
	}

	sub := &Expr{Kind: ExprBinop, BinOp: OpSub, Left: numExpr(1), Right: numExpr(2)}
	if add.Digest() == sub.Digest() {
		t.Error("different operators share a digest")
	}
	swapped := &Expr{Kind: ExprBinop, BinOp: OpAdd, Left: numExpr(2), Right: numExpr(1)}
	if add.Digest() == swapped.Digest() {
		t.Error("operand order ignored")
	}
	if numExpr(1).Digest() == refExpr("x").Digest() {
		t.Error("number and reference share a digest")
	}
}

func TestPatternDigest(t *testing.T) {
	bare := &Pattern{Kind: PatEnum, Path: NewSymbolPath("X")}
	applied := &Pattern{Kind: PatEnum, Path: NewSymbolPath("X"), Args: []*Pattern{}}
	if bare.Digest() == applied.Digest() {
		t.Error("bare and applied enum patterns share a digest")
	}
	neg := &Pattern{Kind: PatNumber, Value: big.NewInt(-1)}
	pos := &Pattern{Kind: PatNumber, Value: big.NewInt(1)}
	if neg.Digest() == pos.Digest() {
		t.Error("sign ignored")
	}
}

func TestTypeDigest(t *testing.T) {
	intT := Type[Expr]{Kind: TypeInt}
	sized := Type[Expr]{Kind: TypeArray, Base: &intT, Length: numExpr(2)}
	unsized := Type[Expr]{Kind: TypeArray, Base: &intT}
	if sized.Digest() == unsized.Digest() {
		t.Error("sized and unsized arrays share a digest")
	}
	if intT.Digest() == (&Type[Expr]{Kind: TypeFe}).Digest() {
		t.Error("int and fe share a digest")
	}
}
