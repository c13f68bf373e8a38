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

	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/vtable"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var tablesColumns = []string{"TABLE_NAME", "TABLE_TYPE", "PARTITION_COUNT", "ROW_COUNT"}

func newTablesCmd(cliCtx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "list the tables of the catalog",
		Args:  cobra.NoArgs,
		RunE: runE(func(ctx context.Context, cmd *cobra.Command) error {
			catalog, err := cliCtx.loadCatalog(ctx)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, t := range catalog.Tables() {
				rows = append(rows, tableRow(t.Name(), t))
			}
			for _, t := range vtable.All() {
				rows = append(rows, tableRow(t.QualifiedName(), t))
			}
			return printTable(cmd.OutOrStdout(), cliCtx.format, tablesColumns, rows)
		}),
	}
}

func tableRow(name string, t cat.Table) []string {
	return []string{
		name,
		t.Type().String(),
		strconv.Itoa(t.PartitionCount()),
		humanize.Comma(int64(t.RowCount())),
	}
}
