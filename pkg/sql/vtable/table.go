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

// Package vtable declares the system tables. Each table is described by a
// CREATE TABLE statement and registered under a constant identifier from
// catconstants.
package vtable

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/catconstants"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/parser"
)

// Table is a system table. It implements cat.Table with type cat.SchemaTable.
// System tables are never partitioned.
type Table struct {
	id       cat.StableID
	schema   string
	name     string
	cols     []cat.Column
	rowCount float64
}

var _ cat.Table = (*Table)(nil)

// defaultRowCount is the row count estimate of a system table whose size is
// not known.
const defaultRowCount = 1000

// Define parses a CREATE TABLE statement and returns the system table it
// describes. The table name must be qualified with its schema.
func Define(id cat.StableID, create string) (*Table, error) {
	ct, err := parser.ParseCreateTable(create)
	if err != nil {
		return nil, err
	}
	if ct.Schema == "" {
		return nil, errors.Newf("system table %s must be qualified with its schema", ct.Name)
	}
	t := &Table{id: id, schema: strings.ToLower(ct.Schema), name: strings.ToLower(ct.Name), rowCount: defaultRowCount}
	for _, def := range ct.Columns {
		family, ok := cat.ParseFamily(def.Type)
		if !ok {
			return nil, errors.Newf("table %s: unsupported column type %s", t.name, def.Type)
		}
		t.cols = append(t.cols, cat.Column{
			Name:     strings.ToLower(def.Name),
			Family:   family,
			Width:    def.Width,
			Nullable: !def.NotNull,
		})
	}
	if len(t.cols) == 0 {
		return nil, errors.Newf("table %s has no columns", t.name)
	}
	return t, nil
}

// MustDefine is like Define but panics on error. It is used for the static
// table definitions in this package.
func MustDefine(id cat.StableID, create string) *Table {
	t, err := Define(id, create)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "invalid system table %d", id))
	}
	return t
}

// ID is part of the cat.Table interface.
func (t *Table) ID() cat.StableID { return t.id }

// Name is part of the cat.Table interface.
func (t *Table) Name() string { return t.name }

// QualifiedName returns the name of the table prefixed with its schema.
func (t *Table) QualifiedName() string { return t.schema + "." + t.name }

// Type is part of the cat.Table interface.
func (t *Table) Type() cat.TableType { return cat.SchemaTable }

// ColumnCount is part of the cat.Table interface.
func (t *Table) ColumnCount() int { return len(t.cols) }

// Column is part of the cat.Table interface.
func (t *Table) Column(i cat.ColumnOrdinal) *cat.Column { return &t.cols[i] }

// IsPartitioned is part of the cat.Table interface.
func (t *Table) IsPartitioned() bool { return false }

// PartitionColumn is part of the cat.Table interface.
func (t *Table) PartitionColumn() cat.ColumnOrdinal { return 0 }

// PartitionCount is part of the cat.Table interface.
func (t *Table) PartitionCount() int { return 0 }

// RowCount is part of the cat.Table interface.
func (t *Table) RowCount() float64 { return t.rowCount }

// WithRowCount returns a copy of the table with the given row count
// estimate.
func (t *Table) WithRowCount(rows float64) *Table {
	cp := *t
	cp.rowCount = rows
	return &cp
}

// BEMetricsTable is the be_metrics system table.
var BEMetricsTable = MustDefine(catconstants.BEMetricsTableID, BEMetrics)

// InformationSchemaTablesTable is the information_schema.tables system table.
var InformationSchemaTablesTable = MustDefine(catconstants.InformationSchemaTablesTableID, InformationSchemaTables)

// Catalog resolves the names of the system tables. Names may be qualified
// with the information_schema prefix.
type Catalog struct{}

var _ cat.Catalog = Catalog{}

// All returns the system tables in identifier order.
func All() []*Table {
	return []*Table{InformationSchemaTablesTable, BEMetricsTable}
}

// ResolveTable is part of the cat.Catalog interface.
func (Catalog) ResolveTable(_ context.Context, name string) (cat.Table, error) {
	name = strings.TrimPrefix(strings.ToLower(name), catconstants.InformationSchemaName+".")
	for _, t := range All() {
		if t.name == name {
			return t, nil
		}
	}
	return nil, errors.Newf("system table %q does not exist", name)
}
