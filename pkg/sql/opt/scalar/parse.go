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
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/parser"
	"vitess.io/vitess/go/vt/sqlparser"
)

// ColumnResolver maps a column name to its id and type family.
type ColumnResolver func(name string) (opt.ColumnID, cat.Family, bool)

var parseCmpOps = map[string]CmpOp{
	sqlparser.EqualStr:        EqOp,
	sqlparser.NotEqualStr:     NeOp,
	sqlparser.LessThanStr:     LtOp,
	sqlparser.LessEqualStr:    LeOp,
	sqlparser.GreaterThanStr:  GtOp,
	sqlparser.GreaterEqualStr: GeOp,
}

// ParseFilter parses a conjunction of simple comparisons of the form
//
//	<column> <op> <literal> [AND <column> <op> <literal> ...]
//
// where literal is an integer, a single-quoted string, or true/false. The
// column may also appear on the right-hand side. Other expressions (OR, NOT,
// arithmetic, functions) are rejected.
func ParseFilter(text string, resolve ColumnResolver) (Expr, error) {
	ast, err := parser.ParseFilter(text)
	if err != nil || ast == nil {
		return nil, err
	}
	var terms []Expr
	if err := convertConjuncts(ast, resolve, &terms); err != nil {
		return nil, err
	}
	return MakeAnd(terms...), nil
}

func convertConjuncts(e sqlparser.Expr, resolve ColumnResolver, terms *[]Expr) error {
	switch t := e.(type) {
	case *sqlparser.AndExpr:
		if err := convertConjuncts(t.Left, resolve, terms); err != nil {
			return err
		}
		return convertConjuncts(t.Right, resolve, terms)
	case *sqlparser.ParenExpr:
		return convertConjuncts(t.Expr, resolve, terms)
	case *sqlparser.ComparisonExpr:
		cmp, err := convertComparison(t, resolve)
		if err != nil {
			return err
		}
		*terms = append(*terms, cmp)
		return nil
	}
	return errors.Newf("cannot parse filter term %q", sqlparser.String(e))
}

func convertComparison(t *sqlparser.ComparisonExpr, resolve ColumnResolver) (Expr, error) {
	term := sqlparser.String(t)
	op, ok := parseCmpOps[t.Operator]
	if !ok {
		return nil, errors.Newf("unsupported operator %s in filter term %q", t.Operator, term)
	}
	left, right := t.Left, t.Right
	if _, ok := left.(*sqlparser.ColName); !ok {
		left, right = right, left
		op = op.Commute()
	}
	colName, ok := left.(*sqlparser.ColName)
	if !ok || !colName.Qualifier.IsEmpty() {
		return nil, errors.Newf("cannot parse filter term %q", term)
	}
	name := colName.Name.String()
	col, family, ok := resolve(name)
	if !ok {
		return nil, errors.Newf("column %q does not exist", name)
	}
	val, err := convertLiteral(right)
	if err != nil {
		return nil, errors.Wrapf(err, "filter term %q", term)
	}
	if datumFamily(val) != family {
		return nil, errors.Newf("cannot compare %s column %q with %s", family, name, val)
	}
	return &Comparison{Op: op, Left: &Variable{Col: col}, Right: &Const{Value: val}}, nil
}

func convertLiteral(e sqlparser.Expr) (Datum, error) {
	switch v := e.(type) {
	case sqlparser.BoolVal:
		return DBool(v), nil
	case *sqlparser.SQLVal:
		switch v.Type {
		case sqlparser.StrVal:
			return DString(v.Val), nil
		case sqlparser.IntVal:
			i, err := strconv.ParseInt(string(v.Val), 10, 64)
			if err != nil {
				return nil, errors.Newf("invalid literal %s", v.Val)
			}
			return DInt(i), nil
		}
		return nil, errors.Newf("invalid literal %s", sqlparser.String(v))
	case *sqlparser.UnaryExpr:
		if v.Operator == sqlparser.UMinusStr {
			if d, err := convertLiteral(v.Expr); err == nil {
				if i, ok := d.(DInt); ok {
					return -i, nil
				}
			}
		}
	}
	return nil, errors.Newf("invalid literal %s", sqlparser.String(e))
}

func datumFamily(d Datum) cat.Family {
	switch d.(type) {
	case DInt:
		return cat.IntFamily
	case DString:
		return cat.StringFamily
	case DBool:
		return cat.BoolFamily
	}
	return 0
}
