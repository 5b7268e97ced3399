// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"math/big"
	"strings"
	"testing"
)

func refExpr(names ...string) *Expr {
	return &Expr{Kind: ExprReference, Ref: GenericPath{Path: NewSymbolPath(names...)}}
}

func TestMachinePropertiesFromList(t *testing.T) {
	props, err := MachinePropertiesFromList([]MachineProperty{
		{Name: "degree", Value: numExpr(8)},
		{Name: "min_degree", Value: numExpr(4)},
		{Name: "max_degree", Value: numExpr(16)},
		{Name: "latch", Value: refExpr("instr_return")},
		{Name: "operation_id", Value: refExpr("op")},
		{Name: "call_selectors", Value: refExpr("sel")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !props.Degree.Equal(numExpr(8)) || !props.MinDegree.Equal(numExpr(4)) ||
		!props.MaxDegree.Equal(numExpr(16)) {
		t.Errorf("degrees %+v", props)
	}
	if props.Latch != "instr_return" || props.OperationID != "op" || props.CallSelectors != "sel" {
		t.Errorf("columns %+v", props)
	}

	for _, c := range []struct {
		props []MachineProperty
		frag  string
	}{
		{[]MachineProperty{{Name: "color", Value: numExpr(1)}}, "unknown machine property"},
		{[]MachineProperty{
			{Name: "degree", Value: numExpr(8)},
			{Name: "degree", Value: numExpr(9)},
		}, "duplicate machine property"},
		{[]MachineProperty{{Name: "latch", Value: numExpr(1)}}, "plain identifier"},
		{[]MachineProperty{{Name: "latch", Value: refExpr("a", "b")}}, "plain identifier"},
	} {
		_, err := MachinePropertiesFromList(c.props)
		if err == nil {
			t.Errorf("%+v: expected error", c.props)
			continue
		}
		if !strings.Contains(err.Error(), c.frag) {
			t.Errorf("error %q does not mention %q", err, c.frag)
		}
	}
}

func TestMachineParamsFromList(t *testing.T) {
	mem := NewSymbolPath("Memory")
	params, err := MachineParamsFromList([]Param{
		{Name: "mem", Type: &mem},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(params.Params) != 1 || params.Params[0].Name != "mem" ||
		!params.Params[0].Type.Equal(mem) {
		t.Errorf("params %+v", params)
	}

	if _, err := MachineParamsFromList([]Param{
		{Name: "a", Type: &mem}, {Name: "a", Type: &mem},
	}); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate params: %v", err)
	}
	if _, err := MachineParamsFromList([]Param{{Name: "a"}}); err == nil ||
		!strings.Contains(err.Error(), "must be typed") {
		t.Errorf("untyped param: %v", err)
	}
	if _, err := MachineParamsFromList([]Param{
		{Name: "a", Index: big.NewInt(1), Type: &mem},
	}); err == nil || !strings.Contains(err.Error(), "index") {
		t.Errorf("indexed param: %v", err)
	}
}

func TestCallableRefFromExpr(t *testing.T) {
	read := &Expr{
		Kind: ExprCall,
		Left: refExpr("mem", "read"),
		List: []*Expr{refExpr("X")},
	}
	ref, err := CallableRefFromExpr(read)
	if err != nil {
		t.Fatal(err)
	}
	want := CallableRef{Instance: "mem", Callable: "read", Inputs: []*Expr{refExpr("X")}}
	if !ref.Equal(want) {
		t.Errorf("got %+v, want %+v", ref, want)
	}

	assigned := &Expr{
		Kind:  ExprBinop,
		BinOp: OpIdentity,
		Left:  refExpr("Y"),
		Right: read,
	}
	ref, err = CallableRefFromExpr(assigned)
	if err != nil {
		t.Fatal(err)
	}
	if len(ref.Outputs) != 1 || !ref.Outputs[0].Equal(refExpr("Y")) {
		t.Errorf("outputs %v", ref.Outputs)
	}

	multi := &Expr{
		Kind:  ExprBinop,
		BinOp: OpIdentity,
		Left:  &Expr{Kind: ExprTuple, List: []*Expr{refExpr("A"), refExpr("B")}},
		Right: read,
	}
	ref, err = CallableRefFromExpr(multi)
	if err != nil {
		t.Fatal(err)
	}
	if len(ref.Outputs) != 2 {
		t.Errorf("outputs %v", ref.Outputs)
	}

	for _, bad := range []*Expr{
		numExpr(1),
		refExpr("mem", "read"),
		{Kind: ExprCall, Left: refExpr("f"), List: nil},
		{Kind: ExprCall, Left: refExpr("a", "b", "c"), List: nil},
	} {
		if _, err := CallableRefFromExpr(bad); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestPatternVars(t *testing.T) {
	pat := &Pattern{Kind: PatTuple, List: []*Pattern{
		{Kind: PatVariable, Str: "x"},
		{Kind: PatArray, List: []*Pattern{
			{Kind: PatEllipsis},
			{Kind: PatVariable, Str: "y"},
		}},
		{Kind: PatEnum, Path: NewSymbolPath("Some"), Args: []*Pattern{
			{Kind: PatVariable, Str: "z"},
		}},
	}}
	vars := pat.Vars(nil)
	if len(vars) != 3 || vars[0] != "x" || vars[1] != "y" || vars[2] != "z" {
		t.Errorf("vars %v", vars)
	}
}
