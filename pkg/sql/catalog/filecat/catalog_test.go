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

package filecat

import (
	"context"
	"testing"

	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/catconstants"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	c, err := LoadFile(context.Background(), "testdata/catalog.yaml")
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	c := loadTestCatalog(t)

	var names []string
	for _, tab := range c.Tables() {
		names = append(names, tab.Name())
	}
	require.Equal(t, []string{"customers", "events", "orders", "snapshots"}, names)

	tab, err := c.ResolveTable(ctx, "ORDERS")
	require.NoError(t, err)
	require.Equal(t, cat.StableID(1), tab.ID())
	require.Equal(t, cat.KuduTable, tab.Type())
	require.Equal(t, 3, tab.ColumnCount())
	require.Equal(t, "VARCHAR(16)", tab.Column(1).SQLType())
	require.True(t, tab.Column(1).Nullable)
	require.True(t, tab.IsPartitioned())
	require.Equal(t, 0, tab.PartitionColumn())
	require.Equal(t, 3, tab.PartitionCount())
	require.Equal(t, float64(100000), tab.RowCount())

	tab, err = c.ResolveTable(ctx, "events")
	require.NoError(t, err)
	require.Equal(t, cat.StableID(40), tab.ID())

	tab, err = c.ResolveTable(ctx, "snapshots")
	require.NoError(t, err)
	require.False(t, tab.IsPartitioned())
	require.Equal(t, 0, tab.PartitionCount())

	tab, err = c.ResolveTable(ctx, "information_schema.be_metrics")
	require.NoError(t, err)
	require.Equal(t, cat.StableID(catconstants.BEMetricsTableID), tab.ID())

	_, err = c.ResolveTable(ctx, "missing")
	require.ErrorContains(t, err, `table "missing" does not exist`)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		yaml string
		err  string
	}{
		{`tables: [{name: t, type: parquet, columns: [{name: a, type: BIGINT}]}]`, `unsupported table type "parquet"`},
		{`tables: [{name: t, type: schema, columns: [{name: a, type: BIGINT}]}]`, `unsupported table type "schema"`},
		{`tables: [{name: t, type: kudu}]`, "table has no columns"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: FLOAT}]}]`, `unsupported type "FLOAT"`},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: "VARCHAR(x)"}]}]`, `column "a": invalid length in column type "VARCHAR(x)"`},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}, {name: A, type: BIGINT}]}]`, `duplicate column "a"`},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}]}, {name: t, type: hive, columns: [{name: a, type: BIGINT}]}]`, `duplicate table "t"`},
		{`tables: [{name: t, type: kudu, colums: []}]`, "parsing catalog"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}], partitions: {column: b, range: [{id: 1}]}}]`, `partition column "b" does not exist`},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}], partitions: {column: a}}]`, "exactly one of list or range"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}], partitions: {column: a, range: [{id: 1, to: 5}, {id: 1, from: 5}]}}]`, "duplicate partition id 1"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}], partitions: {column: a, range: [{id: 1, from: 5, to: 5}]}}]`, "empty range [5, 5)"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: VARCHAR}], partitions: {column: a, range: [{id: 1, to: 5}]}}]`, "range partitions require a BIGINT column"},
		{`tables: [{name: t, type: kudu, columns: [{name: a, type: BIGINT}], partitions: {column: a, list: [{id: 1, values: [x]}]}}]`, `value x does not match BIGINT column "a"`},
	}
	for _, tc := range testCases {
		_, err := Load([]byte(tc.yaml))
		require.ErrorContains(t, err, tc.err, "yaml: %s", tc.yaml)
	}
}

func cmp(col opt.ColumnID, op scalar.CmpOp, d scalar.Datum) scalar.Expr {
	return &scalar.Comparison{Op: op, Left: &scalar.Variable{Col: col}, Right: &scalar.Const{Value: d}}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	c := loadTestCatalog(t)
	orders, err := c.ResolveTable(ctx, "orders")
	require.NoError(t, err)
	events, err := c.ResolveTable(ctx, "events")
	require.NoError(t, err)

	// The scans below assign column id 5 to the partition column.
	const partCol = opt.ColumnID(5)
	testCases := []struct {
		name  string
		tab   cat.Table
		preds []scalar.Expr
		want  []cat.PartitionID
	}{
		{"no predicates", orders, nil, []cat.PartitionID{1, 2, 3}},
		{"eq", orders, []scalar.Expr{cmp(partCol, scalar.EqOp, scalar.DInt(1500))}, []cat.PartitionID{2}},
		{"eq lower bound", orders, []scalar.Expr{cmp(partCol, scalar.EqOp, scalar.DInt(1000))}, []cat.PartitionID{2}},
		{"lt", orders, []scalar.Expr{cmp(partCol, scalar.LtOp, scalar.DInt(1000))}, []cat.PartitionID{1}},
		{"le", orders, []scalar.Expr{cmp(partCol, scalar.LeOp, scalar.DInt(1000))}, []cat.PartitionID{1, 2}},
		{"gt", orders, []scalar.Expr{cmp(partCol, scalar.GtOp, scalar.DInt(1999))}, []cat.PartitionID{3}},
		{"ge", orders, []scalar.Expr{cmp(partCol, scalar.GeOp, scalar.DInt(1999))}, []cat.PartitionID{2, 3}},
		{
			"conjunction",
			orders,
			[]scalar.Expr{scalar.MakeAnd(
				cmp(partCol, scalar.GeOp, scalar.DInt(500)),
				cmp(partCol, scalar.LtOp, scalar.DInt(1000)),
			)},
			[]cat.PartitionID{1},
		},
		{
			"contradiction",
			orders,
			[]scalar.Expr{
				cmp(partCol, scalar.LtOp, scalar.DInt(10)),
				cmp(partCol, scalar.GtOp, scalar.DInt(5000)),
			},
			[]cat.PartitionID{},
		},
		{"other column", orders, []scalar.Expr{cmp(6, scalar.EqOp, scalar.DInt(1))}, []cat.PartitionID{1, 2, 3}},
		{"list eq", events, []scalar.Expr{cmp(partCol, scalar.EqOp, scalar.DString("2024-01-02"))}, []cat.PartitionID{10}},
		{"list ne", events, []scalar.Expr{cmp(partCol, scalar.NeOp, scalar.DString("2024-01-03"))}, []cat.PartitionID{10}},
		{"list gt", events, []scalar.Expr{cmp(partCol, scalar.GtOp, scalar.DString("2024-01-02"))}, []cat.PartitionID{11}},
		{"list miss", events, []scalar.Expr{cmp(partCol, scalar.EqOp, scalar.DString("2023-12-31"))}, []cat.PartitionID{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := c.Prune(ctx, tc.tab, partCol, tc.preds)
			require.NoError(t, err)
			require.Equal(t, tc.want, ids)
		})
	}

	snapshots, err := c.ResolveTable(ctx, "snapshots")
	require.NoError(t, err)
	_, err = c.Prune(ctx, snapshots, partCol, nil)
	require.ErrorContains(t, err, "not partitioned")
}
