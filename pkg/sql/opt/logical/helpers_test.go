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

package logical

import (
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
)

type testTable struct {
	id      cat.StableID
	name    string
	typ     cat.TableType
	cols    []cat.Column
	partCol cat.ColumnOrdinal
	parts   int
	rows    float64
}

var _ cat.Table = (*testTable)(nil)

func (t *testTable) ID() cat.StableID { return t.id }
func (t *testTable) Name() string { return t.name }
func (t *testTable) Type() cat.TableType { return t.typ }
func (t *testTable) ColumnCount() int { return len(t.cols) }
func (t *testTable) Column(i cat.ColumnOrdinal) *cat.Column { return &t.cols[i] }
func (t *testTable) IsPartitioned() bool { return t.parts > 0 }
func (t *testTable) PartitionColumn() cat.ColumnOrdinal { return t.partCol }
func (t *testTable) PartitionCount() int { return t.parts }
func (t *testTable) RowCount() float64 { return t.rows }

func intCols(names ...string) []cat.Column {
	cols := make([]cat.Column, len(names))
	for i, n := range names {
		cols[i] = cat.Column{Name: n, Family: cat.IntFamily}
	}
	return cols
}

// testTables are the tables used by the tests in this package. Column ids in
// tests are the column ordinal plus one.
var testTables = map[string]*testTable{
	"kt": {id: 1, name: "kt", typ: cat.KuduTable, cols: intCols("a", "b", "c"), parts: 4, rows: 1000},
	"ht": {id: 2, name: "ht", typ: cat.HiveTable, cols: intCols("x", "y"), rows: 500},
	"it": {id: 3, name: "it", typ: cat.IcebergTable, cols: intCols("p", "q"), parts: 8, rows: 800},
	"jt": {id: 4, name: "jt", typ: cat.JDBCTable, cols: intCols("x"), rows: 10},
	"st": {id: 5, name: "st", typ: cat.SchemaTable, cols: intCols("be_id", "value"), rows: 100},
}

func testResolver(tab cat.Table) func(string) (opt.ColumnID, cat.Family, bool) {
	return func(name string) (opt.ColumnID, cat.Family, bool) {
		for i := 0; i < tab.ColumnCount(); i++ {
			if c := tab.Column(i); c.Name == name {
				return opt.ColumnID(i + 1), c.Family, true
			}
		}
		return 0, 0, false
	}
}

// buildKudu returns a KuduScan over kt that maps the given ordinals.
func buildKudu(ords ...cat.ColumnOrdinal) *KuduScan {
	b := NewBuilder[KuduScan]().SetTable(testTables["kt"])
	for _, ord := range ords {
		b.AddColumn(opt.ColumnID(ord+1), ord)
	}
	return b.Build()
}
