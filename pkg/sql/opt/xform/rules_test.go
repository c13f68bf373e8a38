// Copyright 2018 The Cockroach Authors.
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

package xform

import (
	"context"
	"testing"

	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/filecat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/optbuilder"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/stretchr/testify/require"
)

func testScan(t *testing.T, table, filter string, limit int64) (logical.Operator, *filecat.Catalog) {
	t.Helper()
	ctx := context.Background()
	catalog, err := filecat.LoadFile(ctx, "testdata/catalog.yaml")
	require.NoError(t, err)
	op, err := optbuilder.New(ctx, catalog, opt.NewMetadata()).Build(table, filter, limit)
	require.NoError(t, err)
	return op, catalog
}

func formatPreds(preds []scalar.Expr) []string {
	res := make([]string, len(preds))
	for i, p := range preds {
		res[i] = p.String()
	}
	return res
}

func TestRuleNames(t *testing.T) {
	require.Equal(t, "SplitScanPredicates", SplitScanPredicates.String())
	require.Equal(t, "PruneScanPartitions", PruneScanPartitions.String())
	require.Equal(t, "Unknown", startExploreRule.String())
	require.Equal(t, "Unknown", NumRuleNames.String())
}

func TestSplitScanPredicates(t *testing.T) {
	rc := &ruleContext{ctx: context.Background()}

	op, _ := testScan(t, "orders", "id >= 1000 AND region = 'eu' AND id < 2000", opt.NoLimit)
	alt := logical.Accept[logical.Operator](op, rule(predicateRule(splitScanPredicates)), rc)
	require.NotNil(t, alt)

	p := alt.(logical.PredicateScan).ScanPredicates()
	require.Equal(t, []string{"@1 >= 1000", "@1 < 2000"}, formatPreds(p.PartitionPredicates()))
	require.Equal(t, []string{"@2 = 'eu'"}, formatPreds(p.ResidualPredicates()))
	require.False(t, p.IsResolved())
	require.True(t, scalar.Equal(op.Predicate(), alt.Predicate()))
	require.True(t, op.(logical.PredicateScan).ScanPredicates().IsEmpty())

	// The rule does not apply again once the predicate is split.
	require.Nil(t, splitScanPredicates(alt.(logical.PredicateScan), rc))

	// Scans without a predicate are left alone.
	bare, _ := testScan(t, "orders", "", opt.NoLimit)
	require.Nil(t, splitScanPredicates(bare.(logical.PredicateScan), rc))

	// Scans without scan predicates never match.
	jdbc, _ := testScan(t, "customers", "active = true", opt.NoLimit)
	require.Nil(t, logical.Accept[logical.Operator](jdbc, rule(predicateRule(splitScanPredicates)), rc))
}

func TestPruneScanPartitions(t *testing.T) {
	ctx := context.Background()
	op, catalog := testScan(t, "events", "day != '2024-01-02' AND kind = 'view'", opt.NoLimit)
	rc := &ruleContext{ctx: ctx, pruner: catalog}

	// Nothing to prune with before the predicate is split.
	require.Nil(t, pruneScanPartitions(op.(logical.PredicateScan), rc))

	split := splitScanPredicates(op.(logical.PredicateScan), rc).(logical.PredicateScan)
	pruned := pruneScanPartitions(split, rc)
	require.NotNil(t, pruned)
	ids, ok := pruned.(logical.PredicateScan).ScanPredicates().ResolvedPartitions()
	require.True(t, ok)
	require.Len(t, ids, 2)
	require.EqualValues(t, 1, ids[0])
	require.EqualValues(t, 3, ids[1])
	require.False(t, pruned.IsEmptyOutputRows())

	// Resolved scans are not pruned again.
	require.Nil(t, pruneScanPartitions(pruned.(logical.PredicateScan), rc))

	// Without a pruner the rule does not apply.
	require.Nil(t, pruneScanPartitions(split, &ruleContext{ctx: ctx}))
}

func TestLimitPusher(t *testing.T) {
	op, _ := testScan(t, "orders", "", opt.NoLimit)

	limited := logical.Accept[logical.Operator, int64](op, limitPusher{}, 10)
	require.Equal(t, int64(10), limited.Limit())
	require.Equal(t, opt.NoLimit, op.Limit())

	// A larger limit does not loosen an existing one.
	same := logical.Accept[logical.Operator, int64](limited, limitPusher{}, 20)
	require.Same(t, limited, same)

	tighter := logical.Accept[logical.Operator, int64](limited, limitPusher{}, 5)
	require.Equal(t, int64(5), tighter.Limit())

	schema, _ := testScan(t, "information_schema.be_metrics", "", opt.NoLimit)
	require.Equal(t, int64(0), logical.Accept[logical.Operator, int64](schema, limitPusher{}, 0).Limit())
}
