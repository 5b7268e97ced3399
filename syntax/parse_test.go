// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math/big"
	"strings"
	"testing"

	"github.com/0xEigenLabs/powdr-pilcom/ast"
)

func num(n int64) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprNumber, Value: big.NewInt(n)}
}

func str(s string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprString, Str: s}
}

func ref(names ...string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprReference, Ref: ast.GenericPath{Path: ast.NewSymbolPath(names...)}}
}

func binop(op ast.BinaryOperator, l, r *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBinop, BinOp: op, Left: l, Right: r}
}

func unop(op ast.UnaryOperator, e *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprUnop, UnOp: op, Left: e}
}

func call(fn *ast.Expr, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCall, Left: fn, List: args}
}

func arr(items ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprArray, List: items}
}

func tup(items ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprTuple, List: items}
}

func block(trailing *ast.Expr, stmts ...*ast.BlockStatement) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBlock, Block: stmts, Left: trailing}
}

func enumPat(names ...string) *ast.Pattern {
	return &ast.Pattern{Kind: ast.PatEnum, Path: ast.NewSymbolPath(names...)}
}

func parseExprString(t *testing.T, s string) *ast.Expr {
	t.Helper()
	p := &Parser{Body: s, Mode: ModeExpression}
	if err := p.Parse(); err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return p.Expr
}

func TestParseExpr(t *testing.T) {
	for _, c := range []struct {
		s    string
		want *ast.Expr
	}{
		{"x", ref("x")},
		{"a + b * c'", binop(ast.OpAdd, ref("a"),
			binop(ast.OpMul, ref("b"), unop(ast.OpNext, ref("c"))))},
		{"a * b + c", binop(ast.OpAdd,
			binop(ast.OpMul, ref("a"), ref("b")), ref("c"))},
		{"2 ** 3 ** 2", binop(ast.OpPow, num(2), binop(ast.OpPow, num(3), num(2)))},
		{"a - b - c", binop(ast.OpSub, binop(ast.OpSub, ref("a"), ref("b")), ref("c"))},
		{"-2 ** 3", binop(ast.OpPow, unop(ast.OpMinus, num(2)), num(3))},
		{"2 ** -3", binop(ast.OpPow, num(2), unop(ast.OpMinus, num(3)))},
		{"!a && b || c", binop(ast.OpLogicalOr,
			binop(ast.OpLogicalAnd, unop(ast.OpLogicalNot, ref("a")), ref("b")),
			ref("c"))},
		{"1 << 2 + 3", binop(ast.OpShiftLeft, num(1), binop(ast.OpAdd, num(2), num(3)))},
		{"a & b ^ c | d", binop(ast.OpBinaryOr,
			binop(ast.OpBinaryXor, binop(ast.OpBinaryAnd, ref("a"), ref("b")), ref("c")),
			ref("d"))},
		{"a = b", binop(ast.OpIdentity, ref("a"), ref("b"))},
		{"a == b", binop(ast.OpEqual, ref("a"), ref("b"))},
		{"(a < b) < c", binop(ast.OpLess, binop(ast.OpLess, ref("a"), ref("b")), ref("c"))},
		{"(a)", ref("a")},
		{"()", tup()},
		{"(a, b)", tup(ref("a"), ref("b"))},
		{"[1, 2][0]", &ast.Expr{Kind: ast.ExprIndex, Left: arr(num(1), num(2)), Right: num(0)}},
		{"f(1)(2)", call(call(ref("f"), num(1)), num(2))},
		{"f()", call(ref("f"))},
		{"a.b.c", ref("a", "b", "c")},
		{"a::b::c", ref("a", "b", "c")},
		{"::std::x", ref("", "std", "x")},
		{"%N + 1", binop(ast.OpAdd, ref("%N"), num(1))},
		{":pub", &ast.Expr{Kind: ast.ExprPublicReference, Str: "pub"}},
		{`"hi"`, str("hi")},
		{"${ y }", &ast.Expr{Kind: ast.ExprFreeInput, Left: ref("y")}},
		{"|x| x + 1", &ast.Expr{
			Kind:   ast.ExprLambda,
			Params: []*ast.Pattern{enumPat("x")},
			Left:   binop(ast.OpAdd, ref("x"), num(1)),
		}},
		{"|| 1", &ast.Expr{Kind: ast.ExprLambda, Left: num(1)}},
		{"query |x| x", &ast.Expr{
			Kind:     ast.ExprLambda,
			FuncKind: ast.Query,
			Params:   []*ast.Pattern{enumPat("x")},
			Left:     ref("x"),
		}},
		{"constr || 0 = 0", &ast.Expr{
			Kind:     ast.ExprLambda,
			FuncKind: ast.Constr,
			Left:     binop(ast.OpIdentity, num(0), num(0)),
		}},
		{"if a { 1 } else { 2 }", &ast.Expr{
			Kind:  ast.ExprIf,
			Cond:  ref("a"),
			Left:  block(num(1)),
			Right: block(num(2)),
		}},
		{"if a { 1 } else if b { 2 } else { 3 }", &ast.Expr{
			Kind: ast.ExprIf,
			Cond: ref("a"),
			Left: block(num(1)),
			Right: &ast.Expr{
				Kind:  ast.ExprIf,
				Cond:  ref("b"),
				Left:  block(num(2)),
				Right: block(num(3)),
			},
		}},
		{"{ let x = 1; f(x); x }", block(ref("x"),
			&ast.BlockStatement{Let: true, Pat: enumPat("x"), Expr: num(1)},
			&ast.BlockStatement{Expr: call(ref("f"), ref("x"))},
		)},
		{"match x { 0 => 1, _ => 2 }", &ast.Expr{
			Kind: ast.ExprMatch,
			Left: ref("x"),
			Arms: []ast.MatchArm{
				{Pattern: &ast.Pattern{Kind: ast.PatNumber, Value: big.NewInt(0)}, Value: num(1)},
				{Pattern: &ast.Pattern{Kind: ast.PatCatchAll}, Value: num(2)},
			},
		}},
		{"std::convert::fe(x)", call(ref("std", "convert", "fe"), ref("x"))},
		{"x::<int>", &ast.Expr{Kind: ast.ExprReference, Ref: ast.GenericPath{
			Path:     ast.NewSymbolPath("x"),
			TypeArgs: []ast.Type[ast.Expr]{{Kind: ast.TypeInt}},
		}}},
		{"f::<int, fe>(1)", call(&ast.Expr{Kind: ast.ExprReference, Ref: ast.GenericPath{
			Path:     ast.NewSymbolPath("f"),
			TypeArgs: []ast.Type[ast.Expr]{{Kind: ast.TypeInt}, {Kind: ast.TypeFe}},
		}}, num(1))},
	} {
		got := parseExprString(t, c.s)
		if !got.Equal(c.want) {
			t.Errorf("%s: got %s, want %s", c.s, got, c.want)
		}
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, c := range []struct {
		s    string
		frag string
	}{
		{"a < b < c", "chain"},
		{"a = b = c", "chain"},
		{"a <= b == c", "chain"},
		{"(a,)", "expected expression"},
		{"(,)", "expected expression"},
		{"1 +", "expected expression"},
		{"${ x", "expected \"}\""},
		{"..", "expected expression"},
		{"a b", "after end of input"},
		{"match x { .. => 1 }", "array patterns"},
		{"|..| 1", "array patterns"},
		{"match x { (a, ..) => 1 }", "array patterns"},
		{"true", "expected expression"},
	} {
		p := &Parser{Body: c.s, Mode: ModeExpression}
		err := p.Parse()
		if err == nil {
			t.Errorf("%s: expected error", c.s)
			continue
		}
		if !strings.Contains(err.Error(), c.frag) {
			t.Errorf("%s: error %q does not mention %q", c.s, err, c.frag)
		}
		if perr := err.(*Error); perr.Kind != ParseError {
			t.Errorf("%s: kind %v, want parse error", c.s, perr.Kind)
		}
	}
}

func TestParsePatterns(t *testing.T) {
	for _, c := range []struct {
		s    string
		want *ast.Pattern
	}{
		{"_", &ast.Pattern{Kind: ast.PatCatchAll}},
		{"5", &ast.Pattern{Kind: ast.PatNumber, Value: big.NewInt(5)}},
		{"-5", &ast.Pattern{Kind: ast.PatNumber, Value: big.NewInt(-5)}},
		{`"s"`, &ast.Pattern{Kind: ast.PatString, Str: "s"}},
		{"x", enumPat("x")},
		{"None", enumPat("None")},
		{"a::b(c)", func() *ast.Pattern {
			p := enumPat("a", "b")
			p.Args = []*ast.Pattern{enumPat("c")}
			return p
		}()},
		{"(x, y)", &ast.Pattern{Kind: ast.PatTuple,
			List: []*ast.Pattern{enumPat("x"), enumPat("y")}}},
		{"()", &ast.Pattern{Kind: ast.PatTuple}},
		{"[1, .., y]", &ast.Pattern{Kind: ast.PatArray, List: []*ast.Pattern{
			{Kind: ast.PatNumber, Value: big.NewInt(1)},
			{Kind: ast.PatEllipsis},
			enumPat("y"),
		}}},
		{"Some((a, b))", func() *ast.Pattern {
			p := enumPat("Some")
			p.Args = []*ast.Pattern{{Kind: ast.PatTuple,
				List: []*ast.Pattern{enumPat("a"), enumPat("b")}}}
			return p
		}()},
	} {
		e := parseExprString(t, "match z { "+c.s+" => 0 }")
		got := e.Arms[0].Pattern
		if !got.Equal(c.want) {
			t.Errorf("%s: got %s, want %s", c.s, got, c.want)
		}
	}
}

func parseTypeString(t *testing.T, s string) *ast.Type[ast.Expr] {
	t.Helper()
	p := &Parser{Body: s, Mode: ModeType}
	if err := p.Parse(); err != nil {
		t.Fatalf("parse type %q: %v", s, err)
	}
	return p.Type
}

func TestParseType(t *testing.T) {
	intT := ast.Type[ast.Expr]{Kind: ast.TypeInt}
	feT := ast.Type[ast.Expr]{Kind: ast.TypeFe}
	for _, c := range []struct {
		s    string
		want *ast.Type[ast.Expr]
	}{
		{"int", &intT},
		{"fe", &feT},
		{"bool", &ast.Type[ast.Expr]{Kind: ast.TypeBool}},
		{"string", &ast.Type[ast.Expr]{Kind: ast.TypeString}},
		{"col", &ast.Type[ast.Expr]{Kind: ast.TypeCol}},
		{"expr", &ast.Type[ast.Expr]{Kind: ast.TypeExpr}},
		{"!", &ast.Type[ast.Expr]{Kind: ast.TypeBottom}},
		{"int[2]", &ast.Type[ast.Expr]{Kind: ast.TypeArray, Base: &intT, Length: num(2)}},
		{"int[]", &ast.Type[ast.Expr]{Kind: ast.TypeArray, Base: &intT}},
		{"int[2][3]", &ast.Type[ast.Expr]{
			Kind:   ast.TypeArray,
			Base:   &ast.Type[ast.Expr]{Kind: ast.TypeArray, Base: &intT, Length: num(2)},
			Length: num(3),
		}},
		{"()", &ast.Type[ast.Expr]{Kind: ast.TypeTuple, Items: []ast.Type[ast.Expr]{}}},
		{"(int, fe)", &ast.Type[ast.Expr]{Kind: ast.TypeTuple, Items: []ast.Type[ast.Expr]{intT, feT}}},
		{"(int)", &intT},
		{"-> int", &ast.Type[ast.Expr]{Kind: ast.TypeFunc, Params: []ast.Type[ast.Expr]{}, Value: &intT}},
		{"int, fe -> int", &ast.Type[ast.Expr]{
			Kind:   ast.TypeFunc,
			Params: []ast.Type[ast.Expr]{intT, feT},
			Value:  &intT,
		}},
		{"int -> fe -> int", &ast.Type[ast.Expr]{
			Kind:   ast.TypeFunc,
			Params: []ast.Type[ast.Expr]{intT},
			Value: &ast.Type[ast.Expr]{
				Kind:   ast.TypeFunc,
				Params: []ast.Type[ast.Expr]{feT},
				Value:  &intT,
			},
		}},
		{"T", &ast.Type[ast.Expr]{Kind: ast.TypeNamed, Path: ast.NewSymbolPath("T")}},
		{"a::B", &ast.Type[ast.Expr]{Kind: ast.TypeNamed, Path: ast.NewSymbolPath("a", "B")}},
		{"Option<int>", &ast.Type[ast.Expr]{
			Kind:     ast.TypeNamed,
			Path:     ast.NewSymbolPath("Option"),
			TypeArgs: []ast.Type[ast.Expr]{intT},
		}},
		{"Option<Option<int>>", &ast.Type[ast.Expr]{
			Kind: ast.TypeNamed,
			Path: ast.NewSymbolPath("Option"),
			TypeArgs: []ast.Type[ast.Expr]{{
				Kind:     ast.TypeNamed,
				Path:     ast.NewSymbolPath("Option"),
				TypeArgs: []ast.Type[ast.Expr]{intT},
			}},
		}},
		{"T[] -> int", &ast.Type[ast.Expr]{
			Kind: ast.TypeFunc,
			Params: []ast.Type[ast.Expr]{{
				Kind: ast.TypeArray,
				Base: &ast.Type[ast.Expr]{Kind: ast.TypeNamed, Path: ast.NewSymbolPath("T")},
			}},
			Value: &intT,
		}},
	} {
		got := parseTypeString(t, c.s)
		if !got.Equal(c.want) {
			t.Errorf("%s: got %s, want %s", c.s, got, c.want)
		}
	}
}

func TestParseTypeNumber(t *testing.T) {
	p := &Parser{Body: "int[8]", Mode: ModeTypeNumber}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if p.TypeNum.Kind != ast.TypeArray || *p.TypeNum.Length != 8 {
		t.Errorf("got %s, want int[8]", p.TypeNum)
	}

	p = &Parser{Body: "int[n]", Mode: ModeTypeNumber}
	err := p.Parse()
	if err == nil {
		t.Fatal("expected error for symbolic length")
	}
	if perr := err.(*Error); perr.Kind != ActionError {
		t.Errorf("kind %v, want action error", perr.Kind)
	}
}

func TestParseSymbolPath(t *testing.T) {
	for _, c := range []struct {
		s    string
		want ast.SymbolPath
	}{
		{"a", ast.NewSymbolPath("a")},
		{"a::b::c", ast.NewSymbolPath("a", "b", "c")},
		{"::a::b", ast.NewSymbolPath("", "a", "b")},
		{"super::x", ast.SymbolPath{Parts: []ast.Part{{Super: true}, {Name: "x"}}}},
	} {
		p := &Parser{Body: c.s, Mode: ModeSymbolPath}
		if err := p.Parse(); err != nil {
			t.Fatalf("%s: %v", c.s, err)
		}
		if !p.Path.Equal(c.want) {
			t.Errorf("%s: got %s, want %s", c.s, p.Path, c.want)
		}
	}
}

func TestParseTypeVarBounds(t *testing.T) {
	p := &Parser{Body: "T: Add + Sub, U", Mode: ModeTypeVarBounds}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	want := ast.TypeBounds{Vars: []ast.TypeBound{
		ast.MakeTypeBound("T", []string{"Sub", "Add"}),
		ast.MakeTypeBound("U", nil),
	}}
	if !p.Bounds.Equal(want) {
		t.Errorf("got %s, want %s", p.Bounds, want)
	}
}

// Identifier-keyword coexistence: the special identifiers are
// ordinary identifiers everywhere except in type symbol paths.
func TestSpecialIdentifiers(t *testing.T) {
	for _, s := range []string{"fe", "int", "expr", "bool", "file", "loc", "insn"} {
		got := parseExprString(t, s+" + 1")
		if !got.Equal(binop(ast.OpAdd, ref(s), num(1))) {
			t.Errorf("%s not usable as identifier", s)
		}
	}
	// In a type path, "int" is the primitive, never a named type.
	got := parseTypeString(t, "int")
	if got.Kind != ast.TypeInt {
		t.Errorf("got %v, want primitive int", got.Kind)
	}
	// A named type cannot be called "int".
	p := &Parser{Body: "m::int", Mode: ModeType}
	if err := p.Parse(); err == nil {
		t.Error("expected error for special identifier in type path")
	}
}

func TestSourceRefs(t *testing.T) {
	src := "  a + (b * c)  "
	e := parseExprString(t, src)
	if e.Start != 2 || e.End != 12 {
		t.Errorf("root range [%d, %d), want [2, 12)", e.Start, e.End)
	}
	var check func(e *ast.Expr)
	check = func(e *ast.Expr) {
		if e == nil {
			return
		}
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			t.Errorf("bad range [%d, %d)", e.Start, e.End)
		}
		for _, child := range []*ast.Expr{e.Cond, e.Left, e.Right} {
			if child == nil {
				continue
			}
			if !e.SourceRef.Contains(child.SourceRef) {
				t.Errorf("parent [%d, %d) does not contain child [%d, %d)",
					e.Start, e.End, child.Start, child.End)
			}
			check(child)
		}
	}
	check(e)
}

// Number round-trip: underscore separators and bases do not affect
// the parsed value.
func TestNumberLiterals(t *testing.T) {
	for _, c := range []struct {
		s    string
		want int64
	}{
		{"1_000_000", 1000000},
		{"0x10", 16},
		{"0xff_ff", 65535},
		{"0", 0},
		{"0x_10", 16},
	} {
		got := parseExprString(t, c.s)
		if got.Kind != ast.ExprNumber || got.Value.Cmp(big.NewInt(c.want)) != 0 {
			t.Errorf("%s: got %s, want %d", c.s, got, c.want)
		}
	}
}
