// Copyright 2024 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package scalar

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
)

// Equal returns true if the two expressions are structurally identical. Two
// nil expressions are equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch t := a.(type) {
	case *Variable:
		o, ok := b.(*Variable)
		return ok && t.Col == o.Col
	case *Const:
		o, ok := b.(*Const)
		if !ok {
			return false
		}
		cmp, ok := t.Value.Compare(o.Value)
		return ok && cmp == 0
	case *Comparison:
		o, ok := b.(*Comparison)
		return ok && t.Op == o.Op && Equal(t.Left, o.Left) && Equal(t.Right, o.Right)
	case *And:
		o, ok := b.(*And)
		return ok && Equal(t.Left, o.Left) && Equal(t.Right, o.Right)
	}
	panic(errors.AssertionFailedf("unhandled scalar expression %T", a))
}

const (
	hashNil byte = iota
	hashVariable
	hashInt
	hashString
	hashBool
	hashComparison
	hashAnd
)

// Hash feeds a structural encoding of the expression into h. Expressions
// that are Equal produce the same hash input.
func Hash(h *xxhash.Digest, e Expr) {
	var buf [9]byte
	writeInt := func(tag byte, v int64) {
		buf[0] = tag
		binary.LittleEndian.PutUint64(buf[1:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	switch t := e.(type) {
	case nil:
		_, _ = h.Write([]byte{hashNil})
	case *Variable:
		writeInt(hashVariable, int64(t.Col))
	case *Const:
		switch d := t.Value.(type) {
		case DInt:
			writeInt(hashInt, int64(d))
		case DString:
			writeInt(hashString, int64(len(d)))
			_, _ = h.WriteString(string(d))
		case DBool:
			v := int64(0)
			if d {
				v = 1
			}
			writeInt(hashBool, v)
		default:
			panic(errors.AssertionFailedf("unhandled datum %T", d))
		}
	case *Comparison:
		writeInt(hashComparison, int64(t.Op))
		Hash(h, t.Left)
		Hash(h, t.Right)
	case *And:
		_, _ = h.Write([]byte{hashAnd})
		Hash(h, t.Left)
		Hash(h, t.Right)
	default:
		panic(errors.AssertionFailedf("unhandled scalar expression %T", e))
	}
}

// Fingerprint returns a 64-bit structural hash of the expression.
func Fingerprint(e Expr) uint64 {
	h := xxhash.New()
	Hash(h, e)
	return h.Sum64()
}

// OuterCols returns the columns referenced by the expression, in ascending
// order and without duplicates.
func OuterCols(e Expr) opt.ColList {
	seen := make(map[opt.ColumnID]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case *Variable:
			seen[t.Col] = struct{}{}
		case *Comparison:
			walk(t.Left)
			walk(t.Right)
		case *And:
			walk(t.Left)
			walk(t.Right)
		}
	}
	walk(e)
	cols := make(opt.ColList, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	opt.SortColList(cols)
	return cols
}

// Conjuncts flattens nested conjunctions into the list of their terms. A nil
// expression has no conjuncts.
func Conjuncts(e Expr) []Expr {
	if e == nil {
		return nil
	}
	if and, ok := e.(*And); ok {
		return append(Conjuncts(and.Left), Conjuncts(and.Right)...)
	}
	return []Expr{e}
}

// MakeAnd builds a left-deep conjunction of the given terms. It returns nil if
// there are no terms.
func MakeAnd(terms ...Expr) Expr {
	var res Expr
	for _, t := range terms {
		if res == nil {
			res = t
			continue
		}
		res = &And{Left: res, Right: t}
	}
	return res
}

// ColumnComparison returns the column and constant of a comparison of the
// form <column> <op> <constant>. ok is false for any other expression shape.
func ColumnComparison(e Expr) (col opt.ColumnID, op CmpOp, val Datum, ok bool) {
	cmp, isCmp := e.(*Comparison)
	if !isCmp {
		return 0, 0, nil, false
	}
	v, isVar := cmp.Left.(*Variable)
	c, isConst := cmp.Right.(*Const)
	if !isVar || !isConst {
		return 0, 0, nil, false
	}
	return v.Col, cmp.Op, c.Value, true
}

// EvalFilter returns true if the filter holds for a row. lookup returns the
// value of a column of the row, or false if the value is NULL. A comparison
// involving NULL or incomparable values does not hold.
func EvalFilter(e Expr, lookup func(opt.ColumnID) (Datum, bool)) bool {
	switch t := e.(type) {
	case *And:
		return EvalFilter(t.Left, lookup) && EvalFilter(t.Right, lookup)
	case *Comparison:
		left, ok := evalDatum(t.Left, lookup)
		if !ok {
			return false
		}
		right, ok := evalDatum(t.Right, lookup)
		if !ok {
			return false
		}
		cmp, ok := left.Compare(right)
		return ok && t.Op.Holds(cmp)
	case *Variable, *Const:
		d, ok := evalDatum(t, lookup)
		b, isBool := d.(DBool)
		return ok && isBool && bool(b)
	}
	panic(errors.AssertionFailedf("unexpected filter expression %T", e))
}

func evalDatum(e Expr, lookup func(opt.ColumnID) (Datum, bool)) (Datum, bool) {
	switch t := e.(type) {
	case *Variable:
		return lookup(t.Col)
	case *Const:
		return t.Value, true
	}
	panic(errors.AssertionFailedf("cannot evaluate %T as a value", e))
}
