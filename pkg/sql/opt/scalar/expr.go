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

// Package scalar is the small predicate algebra used by scan operators:
// column references, constants, comparisons and conjunctions. Predicates are
// immutable once constructed and may be shared freely between operators.
package scalar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
)

// Expr is a scalar expression.
type Expr interface {
	fmt.Stringer

	// format writes the expression, naming columns with colName.
	format(b *strings.Builder, colName func(opt.ColumnID) string)
}

// Variable is a reference to a column.
type Variable struct {
	Col opt.ColumnID
}

// Const is a constant value.
type Const struct {
	Value Datum
}

// Comparison compares two scalar expressions.
type Comparison struct {
	Op          CmpOp
	Left, Right Expr
}

// And is the conjunction of two boolean expressions.
type And struct {
	Left, Right Expr
}

var (
	_ Expr = &Variable{}
	_ Expr = &Const{}
	_ Expr = &Comparison{}
	_ Expr = &And{}
)

// CmpOp is a comparison operator.
type CmpOp uint8

const (
	EqOp CmpOp = iota + 1
	NeOp
	LtOp
	LeOp
	GtOp
	GeOp
)

var cmpOpNames = map[CmpOp]string{
	EqOp: "=",
	NeOp: "!=",
	LtOp: "<",
	LeOp: "<=",
	GtOp: ">",
	GeOp: ">=",
}

func (op CmpOp) String() string {
	if s, ok := cmpOpNames[op]; ok {
		return s
	}
	return fmt.Sprintf("CmpOp(%d)", op)
}

// Commute returns the operator that gives the same result when the operands
// are swapped.
func (op CmpOp) Commute() CmpOp {
	switch op {
	case LtOp:
		return GtOp
	case LeOp:
		return GeOp
	case GtOp:
		return LtOp
	case GeOp:
		return LeOp
	}
	return op
}

// Holds returns true if a comparison whose operands compared as cmp (-1, 0,
// +1) satisfies the operator.
func (op CmpOp) Holds(cmp int) bool {
	switch op {
	case EqOp:
		return cmp == 0
	case NeOp:
		return cmp != 0
	case LtOp:
		return cmp < 0
	case LeOp:
		return cmp <= 0
	case GtOp:
		return cmp > 0
	case GeOp:
		return cmp >= 0
	}
	return false
}

// Datum is a constant value.
type Datum interface {
	fmt.Stringer

	// Compare returns -1, 0 or +1 if the receiver is less than, equal to, or
	// greater than other. ok is false if the two datums are not comparable.
	Compare(other Datum) (cmp int, ok bool)
}

// DInt is an integer datum.
type DInt int64

// DString is a string datum.
type DString string

// DBool is a boolean datum.
type DBool bool

func (d DInt) String() string { return strconv.FormatInt(int64(d), 10) }
func (d DString) String() string { return "'" + strings.ReplaceAll(string(d), "'", "''") + "'" }
func (d DBool) String() string { return strconv.FormatBool(bool(d)) }

// Compare implements Datum.
func (d DInt) Compare(other Datum) (int, bool) {
	o, ok := other.(DInt)
	if !ok {
		return 0, false
	}
	switch {
	case d < o:
		return -1, true
	case d > o:
		return 1, true
	}
	return 0, true
}

// Compare implements Datum.
func (d DString) Compare(other Datum) (int, bool) {
	o, ok := other.(DString)
	if !ok {
		return 0, false
	}
	return strings.Compare(string(d), string(o)), true
}

// Compare implements Datum.
func (d DBool) Compare(other Datum) (int, bool) {
	o, ok := other.(DBool)
	if !ok {
		return 0, false
	}
	switch {
	case d == o:
		return 0, true
	case !bool(d):
		return -1, true
	}
	return 1, true
}

func defaultColName(col opt.ColumnID) string {
	return fmt.Sprintf("@%d", col)
}

func (v *Variable) String() string { return Format(v, nil) }
func (c *Const) String() string { return Format(c, nil) }
func (c *Comparison) String() string { return Format(c, nil) }
func (a *And) String() string { return Format(a, nil) }

func (v *Variable) format(b *strings.Builder, colName func(opt.ColumnID) string) {
	b.WriteString(colName(v.Col))
}

func (c *Const) format(b *strings.Builder, _ func(opt.ColumnID) string) {
	b.WriteString(c.Value.String())
}

func (c *Comparison) format(b *strings.Builder, colName func(opt.ColumnID) string) {
	c.Left.format(b, colName)
	b.WriteByte(' ')
	b.WriteString(c.Op.String())
	b.WriteByte(' ')
	c.Right.format(b, colName)
}

func (a *And) format(b *strings.Builder, colName func(opt.ColumnID) string) {
	a.Left.format(b, colName)
	b.WriteString(" AND ")
	a.Right.format(b, colName)
}

// Format returns the expression as text, naming columns with colName. If
// colName is nil, columns are printed as @<id>.
func Format(e Expr, colName func(opt.ColumnID) string) string {
	if colName == nil {
		colName = defaultColName
	}
	var b strings.Builder
	e.format(&b, colName)
	return b.String()
}
