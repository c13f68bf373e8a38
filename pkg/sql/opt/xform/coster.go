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

package xform

import (
	"math"

	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/memo"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
)

// Coster estimates the cost of scans. The estimate is the number of rows
// read, weighted by the cost of reading a row from the source, plus a fixed
// cost per partition opened.
type Coster struct{}

var _ logical.Visitor[memo.Cost, struct{}] = Coster{}

const (
	// kuduRowCost and the other row costs are the relative costs of reading
	// one row from each kind of source.
	kuduRowCost    = 1.0
	hiveRowCost    = 1.5
	icebergRowCost = 1.2
	jdbcRowCost    = 2.0
	schemaRowCost  = 0.5

	// partitionOpenCost is the cost of starting to read a partition.
	partitionOpenCost = 10.0

	// filterSelectivity is the fraction of rows assumed to pass a conjunct
	// that was not used for pruning.
	filterSelectivity = 1.0 / 3.0

	// hugeRowCount is the row estimate above which a scan is penalized with
	// memo.HugeCostPenalty.
	hugeRowCount = 1e12
)

// ComputeCost returns the estimated cost of op.
func (c Coster) ComputeCost(op logical.Operator) memo.Cost {
	return logical.Accept[memo.Cost, struct{}](op, c, struct{}{})
}

// VisitKuduScan is part of the logical.Visitor interface.
func (Coster) VisitKuduScan(op *logical.KuduScan, _ struct{}) memo.Cost {
	return computeScanCost(op, kuduRowCost)
}

// VisitHiveScan is part of the logical.Visitor interface.
func (Coster) VisitHiveScan(op *logical.HiveScan, _ struct{}) memo.Cost {
	return computeScanCost(op, hiveRowCost)
}

// VisitIcebergScan is part of the logical.Visitor interface.
func (Coster) VisitIcebergScan(op *logical.IcebergScan, _ struct{}) memo.Cost {
	return computeScanCost(op, icebergRowCost)
}

// VisitJDBCScan is part of the logical.Visitor interface.
func (Coster) VisitJDBCScan(op *logical.JDBCScan, _ struct{}) memo.Cost {
	return computeScanCost(op, jdbcRowCost)
}

// VisitSchemaScan is part of the logical.Visitor interface.
func (Coster) VisitSchemaScan(op *logical.SchemaScan, _ struct{}) memo.Cost {
	return computeScanCost(op, schemaRowCost)
}

// EstimateRows returns the estimated number of rows produced by op.
//
// For a partitioned table, the table row count is scaled by the fraction of
// partitions read. Every conjunct of the predicate that has not been applied
// through pruning reduces the estimate to a third. The limit caps the
// result.
func EstimateRows(op logical.Operator) float64 {
	if op.IsEmptyOutputRows() {
		return 0
	}
	tab := op.Table()
	rows := tab.RowCount()

	conjuncts := len(scalar.Conjuncts(op.Predicate()))
	if ps, ok := op.(logical.PredicateScan); ok {
		p := ps.ScanPredicates()
		partition, residual := len(p.PartitionPredicates()), len(p.ResidualPredicates())
		if partition+residual > 0 {
			conjuncts = partition + residual
		}
		if ids, resolved := p.ResolvedPartitions(); resolved && tab.IsPartitioned() && tab.PartitionCount() > 0 {
			rows *= float64(len(ids)) / float64(tab.PartitionCount())
			conjuncts -= partition
		}
	}
	rows *= math.Pow(filterSelectivity, float64(conjuncts))

	if limit := op.Limit(); limit != opt.NoLimit && float64(limit) < rows {
		rows = float64(limit)
	}
	return rows
}

// partitionsRead returns the number of partitions a scan opens, and whether
// that is every partition of the table.
func partitionsRead(op logical.Operator) (n int, full bool) {
	tab := op.Table()
	if !tab.IsPartitioned() {
		return 1, false
	}
	if ps, ok := op.(logical.PredicateScan); ok {
		if ids, resolved := ps.ScanPredicates().ResolvedPartitions(); resolved {
			return len(ids), len(ids) == tab.PartitionCount()
		}
	}
	return tab.PartitionCount(), true
}

func computeScanCost(op logical.Operator, rowCost float64) memo.Cost {
	if op.IsEmptyOutputRows() {
		return memo.Cost{}
	}
	var cost memo.Cost
	rows := EstimateRows(op)
	parts, full := partitionsRead(op)
	cost.C = rows*rowCost + float64(parts)*partitionOpenCost
	if full && op.Limit() == opt.NoLimit {
		cost.Flags |= memo.FullScanPenalty
		cost.IncrFullScanCount()
	}
	if op.Limit() == opt.NoLimit {
		cost.Flags |= memo.UnboundedCardinality
	}
	if rows > hugeRowCount {
		cost.Flags |= memo.HugeCostPenalty
	}
	return cost
}
