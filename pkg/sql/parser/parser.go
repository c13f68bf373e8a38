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

// Package parser reads the small amount of SQL the module accepts: the
// CREATE TABLE statements that declare the system tables, column types, and
// the boolean expressions used as scan filters. Parsing is delegated to the
// vitess MySQL parser; this package only checks that the statement has the
// expected shape and extracts what callers need from its AST.
package parser

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"vitess.io/vitess/go/vt/sqlparser"
)

// ColumnDef is a column of a CREATE TABLE statement.
type ColumnDef struct {
	Name string
	// Type is the upper-cased type name, e.g. VARCHAR.
	Type string
	// Width is the declared length of the type, or 0 if none was given.
	Width   int
	NotNull bool
}

// CreateTable is a parsed CREATE TABLE statement.
type CreateTable struct {
	Schema  string
	Name    string
	Columns []ColumnDef
}

// ParseCreateTable parses a single CREATE TABLE statement.
func ParseCreateTable(sql string) (*CreateTable, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "parsing table definition")
	}
	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr {
		return nil, errors.Newf("expected CREATE TABLE, found %s", sqlparser.String(stmt))
	}
	if ddl.TableSpec == nil {
		return nil, errors.Newf("table %s has no column definitions", ddl.NewName.Name.String())
	}
	ct := &CreateTable{
		Schema: ddl.NewName.Qualifier.String(),
		Name:   ddl.NewName.Name.String(),
	}
	for _, col := range ddl.TableSpec.Columns {
		def := ColumnDef{
			Name:    col.Name.String(),
			Type:    strings.ToUpper(col.Type.Type),
			NotNull: bool(col.Type.NotNull),
		}
		if col.Type.Length != nil {
			w, err := strconv.Atoi(string(col.Type.Length.Val))
			if err != nil {
				return nil, errors.Wrapf(err, "table %s: column %s", ct.Name, def.Name)
			}
			def.Width = w
		}
		ct.Columns = append(ct.Columns, def)
	}
	return ct, nil
}

// ParseColumnType parses a column type such as BIGINT or VARCHAR(16) and
// returns the upper-cased type name and the declared width. The text is
// tokenized, not parsed, so type names the MySQL grammar does not know
// (STRING) are accepted and left to the caller to validate.
func ParseColumnType(text string) (typ string, width int, err error) {
	tkn := sqlparser.NewStringTokenizer(text)
	next := func() (int, []byte) { return tkn.Scan() }

	id, val := next()
	if id == 0 || id == sqlparser.LEX_ERROR || len(val) == 0 {
		return "", 0, errors.Newf("invalid column type %q", text)
	}
	typ = strings.ToUpper(string(val))
	id, val = next()
	if id == '(' {
		if id, val = next(); id != sqlparser.INTEGRAL {
			return "", 0, errors.Newf("invalid length in column type %q", text)
		}
		if width, err = strconv.Atoi(string(val)); err != nil {
			return "", 0, errors.Wrapf(err, "column type %q", text)
		}
		if id, _ = next(); id != ')' {
			return "", 0, errors.Newf("invalid column type %q", text)
		}
		id, _ = next()
	}
	if id != 0 {
		return "", 0, errors.Newf("invalid column type %q", text)
	}
	return typ, width, nil
}

// ParseFilter parses a boolean expression, as it would appear in a WHERE
// clause, and returns its AST. An empty text returns a nil expression.
func ParseFilter(text string) (sqlparser.Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	stmt, err := sqlparser.Parse("SELECT 1 FROM t WHERE " + text)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse filter %q", text)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok || sel.Where == nil {
		return nil, errors.Newf("cannot parse filter %q", text)
	}
	if len(sel.GroupBy) != 0 || sel.Having != nil || len(sel.OrderBy) != 0 || sel.Limit != nil {
		return nil, errors.Newf("filter %q must be a single expression", text)
	}
	return sel.Where.Expr, nil
}
