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
	"strconv"
	"strings"

	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/logicalscan/pkg/util/treeprinter"
	"github.com/cockroachdb/redact"
	"github.com/dustin/go-humanize"
)

// Format adds op to the tree as a child of tp, along with its columns, limit,
// predicates and partitions:
//
//	kudu-scan t
//	 ├── columns: a:1 b:2
//	 ├── limit: 10
//	 ├── partition-predicates: a > 5
//	 └── partitions: 2,3
//
// Columns are named after the scanned table columns.
func Format(tp treeprinter.Node, op Operator) treeprinter.Node {
	n := tp.Childf("%s %s", op.Op(), op.Table().Name())
	colName := columnNamer(op)

	var b strings.Builder
	op.ColumnMapping().ForEach(func(col opt.ColumnID, _ cat.ColumnOrdinal) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(colName(col))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(col)))
	})
	n.Childf("columns: %s", b.String())

	if limit := op.Limit(); limit != opt.NoLimit {
		n.Childf("limit: %s", humanize.Comma(limit))
	}
	if pred := op.Predicate(); pred != nil {
		n.Childf("predicate: %s", scalar.Format(pred, colName))
	}

	ps, ok := op.(PredicateScan)
	if !ok {
		return n
	}
	p := ps.ScanPredicates()
	if preds := p.PartitionPredicates(); len(preds) > 0 {
		n.Childf("partition-predicates: %s", formatList(preds, colName))
	}
	if preds := p.ResidualPredicates(); len(preds) > 0 {
		n.Childf("residual-predicates: %s", formatList(preds, colName))
	}
	if op.Table().IsPartitioned() {
		ids, ok := p.ResolvedPartitions()
		switch {
		case !ok:
			n.Child("partitions: unresolved")
		case len(ids) == 0:
			n.Child("partitions: none (empty output)")
		default:
			var b strings.Builder
			for i, id := range ids {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.FormatInt(int64(id), 10))
			}
			n.Childf("partitions: %s", b.String())
		}
	}
	return n
}

// FormatOperator returns op formatted as a tree.
func FormatOperator(op Operator) string {
	tp := treeprinter.New()
	Format(tp, op)
	return tp.String()
}

func formatList(preds []scalar.Expr, colName func(opt.ColumnID) string) string {
	var b strings.Builder
	for i, e := range preds {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(scalar.Format(e, colName))
	}
	return b.String()
}

// columnNamer returns a function that names the columns of op after the
// table columns they map to. Columns that are not mapped are printed by id.
func columnNamer(op Operator) func(opt.ColumnID) string {
	tab := op.Table()
	m := op.ColumnMapping()
	return func(col opt.ColumnID) string {
		if ord, ok := m.Ordinal(col); ok && ord < tab.ColumnCount() {
			return tab.Column(ord).Name
		}
		return "@" + strconv.Itoa(int(col))
	}
}

// safeFormat prints the variant and the table name. The table name is user
// data and is redacted.
func safeFormat(w redact.SafePrinter, op Operator) {
	w.Printf("%s %s", op.Op(), op.Table().Name())
}

func (s *KuduScan) String() string { return FormatOperator(s) }
func (s *HiveScan) String() string { return FormatOperator(s) }
func (s *IcebergScan) String() string { return FormatOperator(s) }
func (s *JDBCScan) String() string { return FormatOperator(s) }
func (s *SchemaScan) String() string { return FormatOperator(s) }

// SafeFormat implements redact.SafeFormatter.
func (s *KuduScan) SafeFormat(w redact.SafePrinter, _ rune) { safeFormat(w, s) }

// SafeFormat implements redact.SafeFormatter.
func (s *HiveScan) SafeFormat(w redact.SafePrinter, _ rune) { safeFormat(w, s) }

// SafeFormat implements redact.SafeFormatter.
func (s *IcebergScan) SafeFormat(w redact.SafePrinter, _ rune) { safeFormat(w, s) }

// SafeFormat implements redact.SafeFormatter.
func (s *JDBCScan) SafeFormat(w redact.SafePrinter, _ rune) { safeFormat(w, s) }

// SafeFormat implements redact.SafeFormatter.
func (s *SchemaScan) SafeFormat(w redact.SafePrinter, _ rune) { safeFormat(w, s) }
