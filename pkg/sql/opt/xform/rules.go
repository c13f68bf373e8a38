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
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/redact"
)

// PartitionPruner computes the partitions of a table that may hold rows
// satisfying a set of predicates. partCol is the column id that the scan
// assigned to the table's partition column.
type PartitionPruner interface {
	Prune(
		ctx context.Context, tab cat.Table, partCol opt.ColumnID, preds []scalar.Expr,
	) ([]cat.PartitionID, error)
}

// RuleName identifies an exploration rule.
type RuleName uint8

const (
	startExploreRule RuleName = iota

	// SplitScanPredicates splits the predicate of a scan over a partitioned
	// table into the conjuncts that constrain the partition column, which can
	// be used for pruning, and the residual conjuncts.
	SplitScanPredicates

	// PruneScanPartitions resolves the partitions a scan must read from its
	// partition predicates.
	PruneScanPartitions

	// NumRuleNames tracks the number of rules.
	NumRuleNames
)

var ruleNames = [NumRuleNames]string{
	SplitScanPredicates: "SplitScanPredicates",
	PruneScanPartitions: "PruneScanPartitions",
}

func (r RuleName) String() string {
	if r <= startExploreRule || r >= NumRuleNames {
		return "Unknown"
	}
	return ruleNames[r]
}

// SafeValue implements redact.SafeValue.
func (RuleName) SafeValue() {}

var _ redact.SafeValue = RuleName(0)

// ruleContext is passed to the rules through logical.Accept.
type ruleContext struct {
	ctx    context.Context
	pruner PartitionPruner
}

// rule is an exploration rule. It returns the alternative it derived from the
// visited operator, or nil if it does not apply.
type rule = logical.Visitor[logical.Operator, *ruleContext]

// predicateRule adapts a rule that only applies to scans that own a
// ScanPredicates state.
type predicateRule func(op logical.PredicateScan, rc *ruleContext) logical.Operator

var _ rule = predicateRule(nil)

func (r predicateRule) VisitKuduScan(op *logical.KuduScan, rc *ruleContext) logical.Operator {
	return r(op, rc)
}

func (r predicateRule) VisitHiveScan(op *logical.HiveScan, rc *ruleContext) logical.Operator {
	return r(op, rc)
}

func (r predicateRule) VisitIcebergScan(op *logical.IcebergScan, rc *ruleContext) logical.Operator {
	return r(op, rc)
}

func (predicateRule) VisitJDBCScan(*logical.JDBCScan, *ruleContext) logical.Operator {
	return nil
}

func (predicateRule) VisitSchemaScan(*logical.SchemaScan, *ruleContext) logical.Operator {
	return nil
}

// partitionColumn returns the column id the scan assigned to the partition
// column of its table. ok is false if the table is not partitioned or the
// partition column is not scanned.
func partitionColumn(op logical.Operator) (col opt.ColumnID, ok bool) {
	tab := op.Table()
	if !tab.IsPartitioned() {
		return 0, false
	}
	return op.ColumnMapping().ColumnID(tab.PartitionColumn())
}

// splitScanPredicates implements SplitScanPredicates. The scan's predicate
// is left unchanged: partition pruning is conservative, so the partition
// predicates must still be applied to the rows that are read.
func splitScanPredicates(op logical.PredicateScan, _ *ruleContext) logical.Operator {
	p := op.ScanPredicates()
	if op.Predicate() == nil || len(p.PartitionPredicates()) > 0 || len(p.ResidualPredicates()) > 0 {
		return nil
	}
	partCol, partitioned := partitionColumn(op)
	var partition, residual []scalar.Expr
	for _, cond := range scalar.Conjuncts(op.Predicate()) {
		if col, _, _, ok := scalar.ColumnComparison(cond); ok && partitioned && col == partCol {
			partition = append(partition, cond)
		} else {
			residual = append(residual, cond)
		}
	}
	return logical.WithScanPredicates(op, p.WithPartitionPredicates(partition...).WithResidualPredicates(residual...))
}

// pruneScanPartitions implements PruneScanPartitions.
func pruneScanPartitions(op logical.PredicateScan, rc *ruleContext) logical.Operator {
	p := op.ScanPredicates()
	if rc.pruner == nil || p.IsResolved() || len(p.PartitionPredicates()) == 0 {
		return nil
	}
	partCol, ok := partitionColumn(op)
	if !ok {
		return nil
	}
	ids, err := rc.pruner.Prune(rc.ctx, op.Table(), partCol, p.PartitionPredicates())
	if err != nil {
		panic(errors.Wrapf(err, "pruning partitions of %s", op.Table().Name()))
	}
	return logical.WithScanPredicates(op, p.WithResolvedPartitions(ids...))
}

// limitPusher derives a copy of a scan with a row limit. It is a visitor
// since setting the limit needs the builder of the concrete variant.
type limitPusher struct{}

var _ logical.Visitor[logical.Operator, int64] = limitPusher{}

func withLimit[T any, PT logical.Variant[T]](op PT, limit int64) logical.Operator {
	if op.Limit() != opt.NoLimit && op.Limit() <= limit {
		return op
	}
	return logical.NewBuilder[T, PT]().WithOperator(op).SetLimit(limit).Build()
}

func (limitPusher) VisitKuduScan(op *logical.KuduScan, limit int64) logical.Operator {
	return withLimit(op, limit)
}

func (limitPusher) VisitHiveScan(op *logical.HiveScan, limit int64) logical.Operator {
	return withLimit(op, limit)
}

func (limitPusher) VisitIcebergScan(op *logical.IcebergScan, limit int64) logical.Operator {
	return withLimit(op, limit)
}

func (limitPusher) VisitJDBCScan(op *logical.JDBCScan, limit int64) logical.Operator {
	return withLimit(op, limit)
}

func (limitPusher) VisitSchemaScan(op *logical.SchemaScan, limit int64) logical.Operator {
	return withLimit(op, limit)
}
