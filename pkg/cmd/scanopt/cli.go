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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/filecat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/optbuilder"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/xform"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
	"github.com/cockroachdb/logtags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliContext holds the values of the command line flags.
type cliContext struct {
	catalogPath string
	format      string
	verbosity   int32
	logFormat   string

	// Flags of the commands that plan a scan.
	table      string
	filter     string
	limit      int64
	configPath string
	showMemo   bool

	backendID int64
	where     string
}

func newRootCmd() *cobra.Command {
	cliCtx := &cliContext{}
	root := &cobra.Command{
		Use:          "scanopt",
		Short:        "plan scans of external tables",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cliCtx.format {
			case "pretty", "tsv":
			default:
				return errors.Newf("unknown format %q, expected pretty or tsv", cliCtx.format)
			}
			log.SetVerbosity(cliCtx.verbosity)
			return log.SetFormat(cliCtx.logFormat)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cliCtx.catalogPath, "catalog", "", "YAML file describing the tables")
	flags.StringVar(&cliCtx.format, "format", "pretty", "output format of tables: pretty or tsv")
	flags.Int32Var(&cliCtx.verbosity, "v", 0, "log verbosity")
	flags.StringVar(&cliCtx.logFormat, "log-format", "crdb-v1",
		"format of log entries: "+strings.Join(log.FormatNames(), ", "))

	root.AddCommand(
		newExplainCmd(cliCtx),
		newTablesCmd(cliCtx),
		newMetricsCmd(cliCtx),
	)
	return root
}

// addPlanFlags adds the flags that describe the scan to plan.
func addPlanFlags(flags *pflag.FlagSet, cliCtx *cliContext) {
	flags.StringVar(&cliCtx.table, "table", "", "table to scan")
	flags.StringVar(&cliCtx.filter, "filter", "", "filter, e.g. \"id >= 10 AND region = 'eu'\"")
	flags.Int64Var(&cliCtx.limit, "limit", opt.NoLimit, "maximum number of rows; -1 is unbounded")
	flags.StringVar(&cliCtx.configPath, "config", "", "YAML file with optimizer options")
}

func (c *cliContext) loadCatalog(ctx context.Context) (*filecat.Catalog, error) {
	if c.catalogPath == "" {
		return nil, errors.New("--catalog is required")
	}
	return filecat.LoadFile(ctx, c.catalogPath)
}

func (c *cliContext) loadOptions() (xform.Options, error) {
	if c.configPath == "" {
		return xform.DefaultOptions(), nil
	}
	return xform.LoadOptionsFile(c.configPath)
}

// plan builds the scan described by the flags and optimizes it.
func (c *cliContext) plan(
	ctx context.Context, catalog *filecat.Catalog, metrics *xform.Metrics,
) (xform.Result, error) {
	if c.table == "" {
		return xform.Result{}, errors.New("--table is required")
	}
	opts, err := c.loadOptions()
	if err != nil {
		return xform.Result{}, err
	}
	root, err := optbuilder.New(ctx, catalog, opt.NewMetadata()).Build(c.table, c.filter, opt.NoLimit)
	if err != nil {
		return xform.Result{}, err
	}
	return xform.NewOptimizer(opts, catalog, metrics).Optimize(ctx, root, c.limit)
}

// runE adapts a command body that takes a context.
func runE(fn func(ctx context.Context, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(logtags.AddTag(ctx, "cmd", cmd.Name()), cmd)
	}
}
