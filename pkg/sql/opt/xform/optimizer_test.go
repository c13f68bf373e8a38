// Copyright 2018 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/filecat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/optbuilder"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/xform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *filecat.Catalog {
	t.Helper()
	catalog, err := filecat.LoadFile(context.Background(), "testdata/catalog.yaml")
	require.NoError(t, err)
	return catalog
}

func buildScan(t *testing.T, catalog cat.Catalog, table, filter string) logical.Operator {
	t.Helper()
	b := optbuilder.New(context.Background(), catalog, opt.NewMetadata())
	op, err := b.Build(table, filter, opt.NoLimit)
	require.NoError(t, err)
	return op
}

// TestOptimize runs the optimize command over testdata/optimize:
//
//	optimize table=<name> [limit=N] [workers=N] [rounds=N] [pruning=false]
//	  [split=false] [format=memo]
//	<filter>
func TestOptimize(t *testing.T) {
	ctx := context.Background()
	catalog := loadCatalog(t)

	datadriven.RunTest(t, "testdata/optimize", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "optimize":
			var table string
			d.ScanArgs(t, "table", &table)
			limit := opt.NoLimit
			d.MaybeScanArgs(t, "limit", &limit)

			opts := xform.DefaultOptions()
			d.MaybeScanArgs(t, "workers", &opts.MaxWorkers)
			d.MaybeScanArgs(t, "rounds", &opts.MaxRounds)
			d.MaybeScanArgs(t, "pruning", &opts.PartitionPruning)
			d.MaybeScanArgs(t, "split", &opts.SplitPredicates)
			var format string
			d.MaybeScanArgs(t, "format", &format)

			root := buildScan(t, catalog, table, strings.TrimSpace(d.Input))
			o := xform.NewOptimizer(opts, catalog, nil /* metrics */)
			res, err := o.Optimize(ctx, root, limit)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			if format == "memo" {
				return res.Memo.String()
			}

			var b strings.Builder
			fmt.Fprintf(&b, "alternatives: %d\n", res.Alternatives)
			fmt.Fprintf(&b, "rounds: %d\n", res.Rounds)
			fmt.Fprintf(&b, "cost: %s\n", res.Cost)
			if res.EmptyOutput {
				b.WriteString("empty output\n")
			}
			b.WriteString(res.Best.String())
			return b.String()

		default:
			d.Fatalf(t, "unknown command %s", d.Cmd)
			return ""
		}
	})
}

func TestOptimizeMetrics(t *testing.T) {
	ctx := context.Background()
	catalog := loadCatalog(t)
	metrics := xform.NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	require.Error(t, metrics.Register(reg))

	o := xform.NewOptimizer(xform.DefaultOptions(), catalog, metrics)
	_, err := o.Optimize(ctx, buildScan(t, catalog, "orders", "id >= 2000 AND region = 'eu'"), opt.NoLimit)
	require.NoError(t, err)
	_, err = o.Optimize(ctx, buildScan(t, catalog, "orders", "id >= 5000 AND id < 1000"), opt.NoLimit)
	require.NoError(t, err)

	rule := func(name xform.RuleName) float64 {
		return testutil.ToFloat64(metrics.RuleApplications.WithLabelValues(name.String()))
	}
	require.Equal(t, 2.0, rule(xform.SplitScanPredicates))
	require.Equal(t, 2.0, rule(xform.PruneScanPartitions))
	require.Equal(t, 4.0, testutil.ToFloat64(metrics.AlternativesAdded))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.EmptyOutputScans))
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.InternalErrors))

	n, err := testutil.GatherAndCount(reg, "scanopt_exploration_rounds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

type failingPruner struct {
	panicErr error
}

func (p failingPruner) Prune(
	context.Context, cat.Table, opt.ColumnID, []scalar.Expr,
) ([]cat.PartitionID, error) {
	if p.panicErr != nil {
		panic(p.panicErr)
	}
	return nil, errors.New("partition metadata unavailable")
}

func TestOptimizeErrors(t *testing.T) {
	ctx := context.Background()
	catalog := loadCatalog(t)
	root := buildScan(t, catalog, "orders", "id < 1000")

	t.Run("pruner error", func(t *testing.T) {
		metrics := xform.NewMetrics()
		o := xform.NewOptimizer(xform.DefaultOptions(), failingPruner{}, metrics)
		_, err := o.Optimize(ctx, root, opt.NoLimit)
		require.ErrorContains(t, err, "pruning partitions of orders: partition metadata unavailable")
		require.Equal(t, 1.0, testutil.ToFloat64(metrics.InternalErrors))
	})

	t.Run("assertion in worker", func(t *testing.T) {
		metrics := xform.NewMetrics()
		pruner := failingPruner{panicErr: errors.AssertionFailedf("bad partition bounds")}
		o := xform.NewOptimizer(xform.DefaultOptions(), pruner, metrics)
		_, err := o.Optimize(ctx, root, opt.NoLimit)
		require.True(t, errors.HasAssertionFailure(err))
		require.ErrorContains(t, err, "bad partition bounds")
		require.Equal(t, 1.0, testutil.ToFloat64(metrics.InternalErrors))
	})

	t.Run("invalid input", func(t *testing.T) {
		metrics := xform.NewMetrics()
		o := xform.NewOptimizer(xform.DefaultOptions(), catalog, metrics)
		_, err := o.Optimize(ctx, root, -5)
		require.EqualError(t, err, "invalid limit -5")

		bad := xform.DefaultOptions()
		bad.MaxWorkers = 0
		_, err = xform.NewOptimizer(bad, catalog, metrics).Optimize(ctx, root, opt.NoLimit)
		require.ErrorContains(t, err, "max_workers")
		require.Equal(t, 0.0, testutil.ToFloat64(metrics.InternalErrors))
	})

	t.Run("canceled", func(t *testing.T) {
		metrics := xform.NewMetrics()
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		o := xform.NewOptimizer(xform.DefaultOptions(), catalog, metrics)
		_, err := o.Optimize(ctx, root, opt.NoLimit)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 0.0, testutil.ToFloat64(metrics.InternalErrors))
	})
}

func TestOptimizeWithoutPruner(t *testing.T) {
	catalog := loadCatalog(t)
	root := buildScan(t, catalog, "orders", "id < 1000")
	o := xform.NewOptimizer(xform.DefaultOptions(), nil /* pruner */, nil /* metrics */)
	res, err := o.Optimize(context.Background(), root, opt.NoLimit)
	require.NoError(t, err)
	require.Equal(t, 2, res.Alternatives)
	require.True(t, logical.Equal(root, res.Best))
}

// TestOptimizeConcurrent runs optimizations that share an optimizer, its
// metrics and the catalog.
func TestOptimizeConcurrent(t *testing.T) {
	ctx := context.Background()
	catalog := loadCatalog(t)
	metrics := xform.NewMetrics()
	opts := xform.DefaultOptions()
	opts.MaxWorkers = 2
	o := xform.NewOptimizer(opts, catalog, metrics)

	const n = 16
	roots := make([]logical.Operator, n)
	for i := range roots {
		roots[i] = buildScan(t, catalog, "orders", "id >= 1000 AND id < 2000 AND region = 'eu'")
	}
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := o.Optimize(ctx, roots[i], opt.NoLimit)
			if err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = res.Best.String()
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Equal(t, results[0], results[i])
	}
	require.Contains(t, results[0], "partitions: 2")
	require.Equal(t, float64(2*n), testutil.ToFloat64(metrics.AlternativesAdded))
}
