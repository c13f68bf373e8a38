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
	"github.com/cockroachdb/redact"
)

// Operator is a logical scan over an external or system table. Operators are
// immutable once built and may be shared by any number of plan alternatives
// and read concurrently. The only way to derive a modified operator is
// through a Builder seeded from the original.
//
// The set of implementations is closed: KuduScan, HiveScan, IcebergScan,
// JDBCScan and SchemaScan. Passes that need per-variant behavior implement
// Visitor and call Accept.
type Operator interface {
	redact.SafeFormatter

	// Op returns the variant tag of the operator.
	Op() opt.Operator

	// Table returns the scanned table. The table is owned by the catalog.
	Table() cat.Table

	// ColumnMapping returns the association between the scanned table
	// columns and the column ids produced by the operator.
	ColumnMapping() ColumnMapping

	// Limit returns the maximum number of rows to produce, or opt.NoLimit.
	Limit() int64

	// Predicate returns the residual filter applied to the scanned rows, or
	// nil if there is none.
	Predicate() scalar.Expr

	// OutputCols returns the column ids produced by the scan, in ascending
	// order.
	OutputCols() opt.ColList

	// IsEmptyOutputRows returns true if it is known without reading any data
	// that the scan produces no rows. This is the case when the table is
	// partitioned and partition pruning selected no partition.
	IsEmptyOutputRows() bool

	// String returns the operator formatted as a tree, using table column
	// names.
	String() string

	isLogicalOp()
}

// PredicateScan is implemented by the operators that own a ScanPredicates
// state: KuduScan, HiveScan and IcebergScan.
type PredicateScan interface {
	Operator

	// ScanPredicates returns the partition pruning state of the scan.
	ScanPredicates() ScanPredicates
}

// scanBase holds the fields shared by every scan variant.
type scanBase struct {
	table     cat.Table
	cols      ColumnMapping
	limit     int64
	predicate scalar.Expr
}

func (s *scanBase) base() *scanBase { return s }

func (*scanBase) isLogicalOp() {}

// Table is part of the Operator interface.
func (s *scanBase) Table() cat.Table { return s.table }

// ColumnMapping is part of the Operator interface.
func (s *scanBase) ColumnMapping() ColumnMapping { return s.cols }

// Limit is part of the Operator interface.
func (s *scanBase) Limit() int64 { return s.limit }

// Predicate is part of the Operator interface.
func (s *scanBase) Predicate() scalar.Expr { return s.predicate }

// OutputCols is part of the Operator interface.
func (s *scanBase) OutputCols() opt.ColList { return s.cols.OutputCols() }

// IsEmptyOutputRows is part of the Operator interface. Scans without a
// partition pruning state always have to read the table.
func (s *scanBase) IsEmptyOutputRows() bool { return false }

// predicateScanBase extends scanBase with a ScanPredicates state.
type predicateScanBase struct {
	scanBase
	preds ScanPredicates
}

// ScanPredicates is part of the PredicateScan interface. ScanPredicates is a
// value type with no mutators, so the state can be handed out directly.
func (s *predicateScanBase) ScanPredicates() ScanPredicates { return s.preds }

// IsEmptyOutputRows is part of the Operator interface. It never triggers
// partition resolution: an unresolved state reports false.
func (s *predicateScanBase) IsEmptyOutputRows() bool {
	if !s.table.IsPartitioned() {
		return false
	}
	ids, ok := s.preds.ResolvedPartitions()
	return ok && len(ids) == 0
}

func (s *predicateScanBase) scanPredicates() *ScanPredicates { return &s.preds }

// predicateHolder is implemented by the variants that embed
// predicateScanBase.
type predicateHolder interface {
	scanPredicates() *ScanPredicates
}

// KuduScan scans a Kudu table.
type KuduScan struct {
	predicateScanBase
}

// HiveScan scans a Hive table.
type HiveScan struct {
	predicateScanBase
}

// IcebergScan scans an Iceberg table.
type IcebergScan struct {
	predicateScanBase
}

// JDBCScan scans a table of a remote database reached over JDBC.
type JDBCScan struct {
	scanBase
}

// SchemaScan scans a system schema table, such as be_metrics.
type SchemaScan struct {
	scanBase
}

var _ PredicateScan = (*KuduScan)(nil)
var _ PredicateScan = (*HiveScan)(nil)
var _ PredicateScan = (*IcebergScan)(nil)
var _ Operator = (*JDBCScan)(nil)
var _ Operator = (*SchemaScan)(nil)

// Op is part of the Operator interface.
func (*KuduScan) Op() opt.Operator { return opt.KuduScanOp }

// Op is part of the Operator interface.
func (*HiveScan) Op() opt.Operator { return opt.HiveScanOp }

// Op is part of the Operator interface.
func (*IcebergScan) Op() opt.Operator { return opt.IcebergScanOp }

// Op is part of the Operator interface.
func (*JDBCScan) Op() opt.Operator { return opt.JDBCScanOp }

// Op is part of the Operator interface.
func (*SchemaScan) Op() opt.Operator { return opt.SchemaScanOp }

func (*KuduScan) expectedTableType() cat.TableType { return cat.KuduTable }
func (*HiveScan) expectedTableType() cat.TableType { return cat.HiveTable }
func (*IcebergScan) expectedTableType() cat.TableType { return cat.IcebergTable }
func (*JDBCScan) expectedTableType() cat.TableType { return cat.JDBCTable }
func (*SchemaScan) expectedTableType() cat.TableType { return cat.SchemaTable }

// WithScanPredicates returns a new KuduScan that is identical to the receiver
// except for its ScanPredicates state, which is replaced by p.
func (s *KuduScan) WithScanPredicates(p ScanPredicates) *KuduScan {
	return NewBuilder[KuduScan]().WithOperator(s).SetScanPredicates(p).Build()
}

// WithScanPredicates returns a new HiveScan that is identical to the receiver
// except for its ScanPredicates state, which is replaced by p.
func (s *HiveScan) WithScanPredicates(p ScanPredicates) *HiveScan {
	return NewBuilder[HiveScan]().WithOperator(s).SetScanPredicates(p).Build()
}

// WithScanPredicates returns a new IcebergScan that is identical to the
// receiver except for its ScanPredicates state, which is replaced by p.
func (s *IcebergScan) WithScanPredicates(p ScanPredicates) *IcebergScan {
	return NewBuilder[IcebergScan]().WithOperator(s).SetScanPredicates(p).Build()
}

// WithScanPredicates mints a new operator of the same variant as op with its
// ScanPredicates state replaced by p. It panics with an assertion failure if
// op does not own a ScanPredicates state.
func WithScanPredicates(op Operator, p ScanPredicates) PredicateScan {
	switch t := op.(type) {
	case *KuduScan:
		return t.WithScanPredicates(p)
	case *HiveScan:
		return t.WithScanPredicates(p)
	case *IcebergScan:
		return t.WithScanPredicates(p)
	}
	panic(errors.AssertionFailedf("%s does not have scan predicates", op.Op()))
}
