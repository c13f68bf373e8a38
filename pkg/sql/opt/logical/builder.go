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
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
)

// Variant is satisfied by a pointer to one of the scan operator structs. It
// gives Builder access to the fields shared by every variant. Only the
// operators of this package can satisfy it, but other packages may use it to
// write functions that are generic over the variant.
type Variant[T any] interface {
	*T
	Operator
	base() *scanBase
	expectedTableType() cat.TableType
}

// Builder constructs a new immutable scan operator of variant T, either from
// scratch or by copying an existing operator and applying edits to the copy.
// It is the only way to construct operators, so a rewrite rule can never
// modify an operator that is already part of a plan.
//
// A Builder is editable until Build is called. Build hands the operator off
// and moves the builder to its terminal state; any further call panics with
// an assertion failure. A Builder must not be shared between goroutines.
//
// The second type parameter is inferred, so builders are created as:
//
//	b := logical.NewBuilder[logical.KuduScan]()
type Builder[T any, PT Variant[T]] struct {
	op       PT
	refToCol map[opt.ColumnID]cat.ColumnOrdinal
	colToRef map[cat.ColumnOrdinal]opt.ColumnID
	built    bool
}

// NewBuilder returns an editable builder holding a blank operator of variant
// T. The blank operator has no table, no columns, no predicate and no limit.
func NewBuilder[T any, PT Variant[T]]() *Builder[T, PT] {
	b := &Builder[T, PT]{
		op:       PT(new(T)),
		refToCol: make(map[opt.ColumnID]cat.ColumnOrdinal),
		colToRef: make(map[cat.ColumnOrdinal]opt.ColumnID),
	}
	b.op.base().limit = opt.NoLimit
	return b
}

// WithOperator seeds the builder with every field of src. The column mapping
// and the ScanPredicates state are deep-copied, so edits made through the
// builder never affect src.
func (b *Builder[T, PT]) WithOperator(src PT) *Builder[T, PT] {
	b.checkEditable()
	if src == nil {
		panic(errors.AssertionFailedf("cannot seed %s builder from a nil operator", b.op.Op()))
	}
	op := PT(new(T))
	*op = *src
	base := op.base()
	b.refToCol = copyMap(base.cols.refToCol)
	b.colToRef = copyMap(base.cols.colToRef)
	base.cols = ColumnMapping{}
	if h, ok := any(op).(predicateHolder); ok {
		p := h.scanPredicates()
		*p = p.Clone()
	}
	b.op = op
	return b
}

// SetTable sets the scanned table. The table type must match the variant
// being built; a mismatch is a programming error and panics.
func (b *Builder[T, PT]) SetTable(tab cat.Table) *Builder[T, PT] {
	b.checkEditable()
	b.checkTable(tab)
	b.op.base().table = tab
	return b
}

// AddColumn maps the table column at ordinal ord to the column id col.
func (b *Builder[T, PT]) AddColumn(col opt.ColumnID, ord cat.ColumnOrdinal) *Builder[T, PT] {
	b.checkEditable()
	b.refToCol[col] = ord
	b.colToRef[ord] = col
	return b
}

// SetColumnMaps replaces both directions of the column mapping. The maps are
// copied; Build verifies that they form a bijection.
func (b *Builder[T, PT]) SetColumnMaps(
	refToCol map[opt.ColumnID]cat.ColumnOrdinal, colToRef map[cat.ColumnOrdinal]opt.ColumnID,
) *Builder[T, PT] {
	b.checkEditable()
	b.refToCol = copyMap(refToCol)
	b.colToRef = copyMap(colToRef)
	return b
}

// SetLimit sets the row limit. opt.NoLimit removes the limit.
func (b *Builder[T, PT]) SetLimit(limit int64) *Builder[T, PT] {
	b.checkEditable()
	b.op.base().limit = limit
	return b
}

// SetPredicate sets the residual predicate. A nil predicate removes it.
func (b *Builder[T, PT]) SetPredicate(pred scalar.Expr) *Builder[T, PT] {
	b.checkEditable()
	b.op.base().predicate = pred
	return b
}

// SetScanPredicates replaces the ScanPredicates state of the operator. It
// panics if variant T has no ScanPredicates state.
func (b *Builder[T, PT]) SetScanPredicates(p ScanPredicates) *Builder[T, PT] {
	b.checkEditable()
	h, ok := any(b.op).(predicateHolder)
	if !ok {
		panic(errors.AssertionFailedf("%s does not have scan predicates", b.op.Op()))
	}
	*h.scanPredicates() = p.Clone()
	return b
}

// Build validates the operator and returns it. The builder is terminal
// afterwards.
func (b *Builder[T, PT]) Build() PT {
	b.checkEditable()
	base := b.op.base()
	if base.table == nil {
		panic(errors.AssertionFailedf("%s requires a table", b.op.Op()))
	}
	b.checkTable(base.table)
	if !opt.ValidLimit(base.limit) {
		panic(errors.AssertionFailedf("%s has invalid limit %d", b.op.Op(), base.limit))
	}

	// The builder is done with the maps, so the operator takes them over.
	base.cols = ColumnMapping{colToRef: b.colToRef, refToCol: b.refToCol}
	if err := base.cols.check(base.table); err != nil {
		panic(errors.Wrapf(err, "building %s", b.op.Op()))
	}

	op := b.op
	var zero PT
	b.op = zero
	b.refToCol = nil
	b.colToRef = nil
	b.built = true
	return op
}

func (b *Builder[T, PT]) checkEditable() {
	if b.built {
		var zero PT
		panic(errors.AssertionFailedf("%s builder used after Build", zero.Op()))
	}
}

func (b *Builder[T, PT]) checkTable(tab cat.Table) {
	if tab == nil {
		panic(errors.AssertionFailedf("%s requires a table", b.op.Op()))
	}
	if typ, want := tab.Type(), b.op.expectedTableType(); typ != want {
		panic(errors.AssertionFailedf(
			"%s cannot scan %s table %s, expected a %s table", b.op.Op(), typ, tab.Name(), want,
		))
	}
}
