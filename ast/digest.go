// Copyright 2017 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package ast

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/base/digest"

	pilcom "github.com/0xEigenLabs/powdr-pilcom"
)

// Digest returns a digest that identifies e's syntactic content,
// independent of source location. Downstream passes use digests as
// cache and deduplication keys.
func (e *Expr) Digest() digest.Digest {
	w := pilcom.Digester.NewWriter()
	e.digest(w)
	return w.Digest()
}

// Digest returns a digest identifying p's syntactic content.
func (p *Pattern) Digest() digest.Digest {
	w := pilcom.Digester.NewWriter()
	p.digest(w)
	return w.Digest()
}

// Digest returns a digest identifying t's syntactic content.
func (t *Type[L]) Digest() digest.Digest {
	w := pilcom.Digester.NewWriter()
	t.digest(w)
	return w.Digest()
}

func writeN(w io.Writer, n int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	w.Write(b[:])
}

func writeString(w io.Writer, s string) {
	writeN(w, len(s))
	io.WriteString(w, s)
}

func writePath(w io.Writer, p SymbolPath) {
	writeN(w, len(p.Parts))
	for _, part := range p.Parts {
		if part.Super {
			io.WriteString(w, "!super")
		} else {
			writeString(w, part.Name)
		}
	}
}

func (e *Expr) digest(w io.Writer) {
	writeN(w, int(e.Kind))
	switch e.Kind {
	case ExprNumber:
		b := e.Value.Bytes()
		writeN(w, len(b))
		w.Write(b)
	case ExprString, ExprPublicReference:
		writeString(w, e.Str)
	case ExprReference:
		writePath(w, e.Ref.Path)
		writeN(w, len(e.Ref.TypeArgs))
		for i := range e.Ref.TypeArgs {
			e.Ref.TypeArgs[i].digest(w)
		}
	case ExprBinop:
		writeN(w, int(e.BinOp))
		e.Left.digest(w)
		e.Right.digest(w)
	case ExprUnop:
		writeN(w, int(e.UnOp))
		e.Left.digest(w)
	case ExprIndex:
		e.Left.digest(w)
		e.Right.digest(w)
	case ExprCall:
		e.Left.digest(w)
		digestExprs(w, e.List)
	case ExprLambda:
		writeN(w, int(e.FuncKind))
		writeN(w, len(e.Params))
		for _, p := range e.Params {
			p.digest(w)
		}
		e.Left.digest(w)
	case ExprArray, ExprTuple:
		digestExprs(w, e.List)
	case ExprMatch:
		e.Left.digest(w)
		writeN(w, len(e.Arms))
		for _, a := range e.Arms {
			a.Pattern.digest(w)
			a.Value.digest(w)
		}
	case ExprIf:
		e.Cond.digest(w)
		e.Left.digest(w)
		e.Right.digest(w)
	case ExprBlock:
		writeN(w, len(e.Block))
		for _, s := range e.Block {
			if s.Let {
				io.WriteString(w, "!let")
				s.Pat.digest(w)
				if s.Type != nil {
					s.Type.digest(w)
				}
			}
			if s.Expr != nil {
				s.Expr.digest(w)
			}
		}
		if e.Left != nil {
			e.Left.digest(w)
		}
	case ExprFreeInput:
		e.Left.digest(w)
	}
}

func digestExprs(w io.Writer, es []*Expr) {
	writeN(w, len(es))
	for _, e := range es {
		e.digest(w)
	}
}

func (p *Pattern) digest(w io.Writer) {
	writeN(w, int(p.Kind))
	switch p.Kind {
	case PatNumber:
		writeN(w, p.Value.Sign())
		b := p.Value.Bytes()
		writeN(w, len(b))
		w.Write(b)
	case PatString, PatVariable:
		writeString(w, p.Str)
	case PatTuple, PatArray:
		writeN(w, len(p.List))
		for _, q := range p.List {
			q.digest(w)
		}
	case PatEnum:
		writePath(w, p.Path)
		if p.Args == nil {
			writeN(w, -1)
			break
		}
		writeN(w, len(p.Args))
		for _, q := range p.Args {
			q.digest(w)
		}
	}
}

func (t *Type[L]) digest(w io.Writer) {
	writeN(w, int(t.Kind))
	switch t.Kind {
	case TypeNamed:
		writePath(w, t.Path)
		writeN(w, len(t.TypeArgs))
		for i := range t.TypeArgs {
			t.TypeArgs[i].digest(w)
		}
	case TypeArray:
		t.Base.digest(w)
		if t.Length == nil {
			writeN(w, 0)
			break
		}
		writeN(w, 1)
		if e, ok := any(t.Length).(*Expr); ok {
			e.digest(w)
		} else {
			writeString(w, lengthString(t.Length))
		}
	case TypeTuple:
		writeN(w, len(t.Items))
		for i := range t.Items {
			t.Items[i].digest(w)
		}
	case TypeFunc:
		writeN(w, len(t.Params))
		for i := range t.Params {
			t.Params[i].digest(w)
		}
		t.Value.digest(w)
	case TypeVar:
		writeString(w, t.Var)
	}
}
