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
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"golang.org/x/exp/maps"
)

// ColumnMapping associates the columns of a scanned table with the column
// ids the optimizer uses to refer to them. It maintains both directions of
// the association; in a built operator the two directions always form a
// bijection over the scanned columns.
//
// A ColumnMapping has no mutators, so a value may be shared between
// operators. Builders work on private copies of the underlying maps.
type ColumnMapping struct {
	colToRef map[cat.ColumnOrdinal]opt.ColumnID
	refToCol map[opt.ColumnID]cat.ColumnOrdinal
}

// makeColumnMapping copies the given maps into a new mapping. It does not
// validate them; see check.
func makeColumnMapping(
	refToCol map[opt.ColumnID]cat.ColumnOrdinal, colToRef map[cat.ColumnOrdinal]opt.ColumnID,
) ColumnMapping {
	return ColumnMapping{colToRef: copyMap(colToRef), refToCol: copyMap(refToCol)}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	res := make(map[K]V, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}

// Len returns the number of mapped columns.
func (m ColumnMapping) Len() int {
	return len(m.refToCol)
}

// ColumnID returns the column id mapped to the table column at the given
// ordinal.
func (m ColumnMapping) ColumnID(ord cat.ColumnOrdinal) (opt.ColumnID, bool) {
	col, ok := m.colToRef[ord]
	return col, ok
}

// Ordinal returns the table column ordinal mapped to the given column id.
func (m ColumnMapping) Ordinal(col opt.ColumnID) (cat.ColumnOrdinal, bool) {
	ord, ok := m.refToCol[col]
	return ord, ok
}

// OutputCols returns the mapped column ids in ascending order.
func (m ColumnMapping) OutputCols() opt.ColList {
	cols := opt.ColList(maps.Keys(m.refToCol))
	opt.SortColList(cols)
	return cols
}

// ForEach calls fn for every mapped column, in ascending column id order.
func (m ColumnMapping) ForEach(fn func(col opt.ColumnID, ord cat.ColumnOrdinal)) {
	for _, col := range m.OutputCols() {
		fn(col, m.refToCol[col])
	}
}

// Equal returns true if both mappings contain the same associations.
func (m ColumnMapping) Equal(other ColumnMapping) bool {
	if len(m.refToCol) != len(other.refToCol) || len(m.colToRef) != len(other.colToRef) {
		return false
	}
	for col, ord := range m.refToCol {
		if o, ok := other.refToCol[col]; !ok || o != ord {
			return false
		}
	}
	for ord, col := range m.colToRef {
		if c, ok := other.colToRef[ord]; !ok || c != col {
			return false
		}
	}
	return true
}

// check verifies that the two directions form a bijection, that every
// ordinal exists in the table, and that no column id is zero.
func (m ColumnMapping) check(tab cat.Table) error {
	if len(m.refToCol) != len(m.colToRef) {
		return errors.AssertionFailedf(
			"column mapping is not a bijection: %d column refs, %d table columns",
			len(m.refToCol), len(m.colToRef),
		)
	}
	// Iterate in a fixed order so that the reported violation is
	// deterministic.
	cols := maps.Keys(m.refToCol)
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
	for _, col := range cols {
		ord := m.refToCol[col]
		if col == 0 {
			return errors.AssertionFailedf("column mapping contains the unknown column id 0")
		}
		if ord < 0 || ord >= tab.ColumnCount() {
			return errors.AssertionFailedf(
				"column %d maps to ordinal %d, but table %s has %d columns",
				col, ord, tab.Name(), tab.ColumnCount(),
			)
		}
		if back, ok := m.colToRef[ord]; !ok || back != col {
			return errors.AssertionFailedf(
				"column mapping is not a bijection: column %d maps to ordinal %d, which maps back to column %d",
				col, ord, back,
			)
		}
	}
	return nil
}
