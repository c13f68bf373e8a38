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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// printTable writes rows under a header row, either as a pretty table or as
// tab-separated values.
func printTable(w io.Writer, format string, cols []string, rows [][]string) error {
	switch format {
	case "tsv":
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = '\t'
		_ = csvWriter.Write(cols)
		return csvWriter.WriteAll(rows)

	default:
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader(cols)
		table.AppendBulk(rows)
		table.Render()
		suffix := "s"
		if len(rows) == 1 {
			suffix = ""
		}
		_, err := fmt.Fprintf(w, "(%d row%s)\n", len(rows), suffix)
		return err
	}
}
