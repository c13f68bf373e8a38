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
	"fmt"

	"github.com/cockroachdb/logicalscan/pkg/sql/opt/xform"
	"github.com/spf13/cobra"
)

func newExplainCmd(cliCtx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "show the cheapest plan for a scan",
		Long: `Plans a scan of --table, applying --filter and --limit, and prints the
cheapest alternative found by the optimizer along with its cost.`,
		Args: cobra.NoArgs,
		RunE: runE(func(ctx context.Context, cmd *cobra.Command) error {
			catalog, err := cliCtx.loadCatalog(ctx)
			if err != nil {
				return err
			}
			res, err := cliCtx.plan(ctx, catalog, xform.NewMetrics())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if cliCtx.showMemo {
				fmt.Fprint(w, res.Memo.String())
				return nil
			}
			fmt.Fprintf(w, "cost: %s\n", res.Cost)
			fmt.Fprintf(w, "alternatives: %d\n", res.Alternatives)
			if res.EmptyOutput {
				fmt.Fprintln(w, "empty output")
			}
			fmt.Fprint(w, res.Best.String())
			return nil
		}),
	}
	addPlanFlags(cmd.Flags(), cliCtx)
	cmd.Flags().BoolVar(&cliCtx.showMemo, "memo", false, "print every alternative that was explored")
	return cmd
}
