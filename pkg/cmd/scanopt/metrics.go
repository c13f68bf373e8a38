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

package main

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/server/status"
	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/catconstants"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/optbuilder"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/xform"
	"github.com/cockroachdb/logicalscan/pkg/sql/vtable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var beMetricsTableName = catconstants.InformationSchemaName + "." + vtable.BEMetricsTable.Name()

func newMetricsCmd(cliCtx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "plan a scan, then show the optimizer metrics as be_metrics rows",
		Long: `Plans a scan of --table like explain does, then scans
information_schema.be_metrics for backend --backend-id, applying --where.`,
		Args: cobra.NoArgs,
		RunE: runE(func(ctx context.Context, cmd *cobra.Command) error {
			catalog, err := cliCtx.loadCatalog(ctx)
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			metrics := xform.NewMetrics()
			if err := metrics.Register(reg); err != nil {
				return err
			}
			if _, err := cliCtx.plan(ctx, catalog, metrics); err != nil {
				return err
			}

			// The scan of be_metrics is planned like any other scan.
			root, err := optbuilder.New(ctx, catalog, opt.NewMetadata()).Build(beMetricsTableName, cliCtx.where, opt.NoLimit)
			if err != nil {
				return errors.Wrap(err, "--where")
			}
			res, err := xform.NewOptimizer(xform.DefaultOptions(), catalog, nil /* metrics */).Optimize(ctx, root, opt.NoLimit)
			if err != nil {
				return err
			}
			scan, ok := res.Best.(*logical.SchemaScan)
			if !ok {
				return errors.AssertionFailedf("unexpected plan for %s: %s", beMetricsTableName, res.Best)
			}
			rows, err := status.NewMetricsRecorder(cliCtx.backendID, reg).Scan(ctx, scan)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), cliCtx.format, metricsColumns(), metricsRows(rows))
		}),
	}
	addPlanFlags(cmd.Flags(), cliCtx)
	cmd.Flags().Int64Var(&cliCtx.backendID, "backend-id", 1, "id of the backend the metrics belong to")
	cmd.Flags().StringVar(&cliCtx.where, "where", "", "filter over the be_metrics columns, e.g. \"value > 0\"")
	return cmd
}

func metricsColumns() []string {
	t := vtable.BEMetricsTable
	cols := make([]string, t.ColumnCount())
	for i := range cols {
		cols[i] = t.Column(i).Name
	}
	return cols
}

func metricsRows(rows []status.Row) [][]string {
	res := make([][]string, len(rows))
	for i, r := range rows {
		labels := r.Labels
		if labels == "" {
			labels = "NULL"
		}
		res[i] = []string{
			strconv.FormatInt(r.BEID, 10),
			r.Name,
			labels,
			strconv.FormatInt(r.Value, 10),
		}
	}
	return res
}
