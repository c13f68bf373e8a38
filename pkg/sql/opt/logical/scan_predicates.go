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

	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	mapset "github.com/deckarep/golang-set/v2"
)

// ScanPredicates is the filter state owned by a scan over a partitioned
// source. It holds the predicates that can be evaluated against partition
// boundaries alone (partition predicates), the remaining residual predicates,
// and, once partition pruning has run, the set of partitions the scan must
// read.
//
// ScanPredicates has value semantics: every With* method returns a new value
// and leaves the receiver untouched, and no method exposes the internal
// collections. Unresolved partitions are represented by a nil set; a non-nil
// empty set means pruning ran and no partition matched.
type ScanPredicates struct {
	partitionPreds []scalar.Expr
	residualPreds  []scalar.Expr
	selected       mapset.Set[cat.PartitionID]
}

// PartitionPredicates returns a copy of the partition-pruning predicates.
func (p ScanPredicates) PartitionPredicates() []scalar.Expr {
	return append([]scalar.Expr(nil), p.partitionPreds...)
}

// ResidualPredicates returns a copy of the residual predicates.
func (p ScanPredicates) ResidualPredicates() []scalar.Expr {
	return append([]scalar.Expr(nil), p.residualPreds...)
}

// IsResolved returns true if partition pruning has run for the current
// partition predicates.
func (p ScanPredicates) IsResolved() bool {
	return p.selected != nil
}

// ResolvedPartitions returns the selected partitions in ascending order. ok is
// false if pruning has not run yet; callers must not treat that case like an
// empty result.
func (p ScanPredicates) ResolvedPartitions() (ids []cat.PartitionID, ok bool) {
	if p.selected == nil {
		return nil, false
	}
	ids = p.selected.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, true
}

// IsEmpty returns true if the state holds no predicates and is unresolved.
func (p ScanPredicates) IsEmpty() bool {
	return len(p.partitionPreds) == 0 && len(p.residualPreds) == 0 && p.selected == nil
}

// WithPartitionPredicates returns a copy of the state with the partition
// predicates replaced. Since the resolved partitions were computed from the
// previous partition predicates, the result is unresolved.
func (p ScanPredicates) WithPartitionPredicates(preds ...scalar.Expr) ScanPredicates {
	res := p.Clone()
	res.partitionPreds = dedupPredicates(preds)
	res.selected = nil
	return res
}

// WithResidualPredicates returns a copy of the state with the residual
// predicates replaced. Residual predicates do not affect pruning, so the
// resolved partitions are kept.
func (p ScanPredicates) WithResidualPredicates(preds ...scalar.Expr) ScanPredicates {
	res := p.Clone()
	res.residualPreds = dedupPredicates(preds)
	return res
}

// WithResolvedPartitions returns a copy of the state with the given
// partitions selected. Passing no ids resolves the state to "no partitions".
func (p ScanPredicates) WithResolvedPartitions(ids ...cat.PartitionID) ScanPredicates {
	res := p.Clone()
	res.selected = mapset.NewThreadUnsafeSet[cat.PartitionID](ids...)
	return res
}

// Clone returns a deep copy of the state. The copy shares no collection with
// the receiver. Predicate expressions are immutable and are shared.
func (p ScanPredicates) Clone() ScanPredicates {
	res := ScanPredicates{
		partitionPreds: append([]scalar.Expr(nil), p.partitionPreds...),
		residualPreds:  append([]scalar.Expr(nil), p.residualPreds...),
	}
	if p.selected != nil {
		res.selected = p.selected.Clone()
	}
	return res
}

// Equal returns true if both states hold the same predicate sets and the same
// resolution. The order in which predicates were added does not matter.
func (p ScanPredicates) Equal(other ScanPredicates) bool {
	if !predicatesEqual(p.partitionPreds, other.partitionPreds) ||
		!predicatesEqual(p.residualPreds, other.residualPreds) {
		return false
	}
	if p.selected == nil || other.selected == nil {
		return p.selected == nil && other.selected == nil
	}
	return p.selected.Equal(other.selected)
}

// predicatesEqual compares two de-duplicated predicate sets.
func predicatesEqual(a, b []scalar.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for _, e := range a {
		if !containsPredicate(b, e) {
			return false
		}
	}
	return true
}

func containsPredicate(preds []scalar.Expr, e scalar.Expr) bool {
	for _, existing := range preds {
		if scalar.Equal(existing, e) {
			return true
		}
	}
	return false
}

// dedupPredicates copies preds, dropping nil entries and structural
// duplicates while keeping the first occurrence order.
func dedupPredicates(preds []scalar.Expr) []scalar.Expr {
	var res []scalar.Expr
	for _, e := range preds {
		if e != nil && !containsPredicate(res, e) {
			res = append(res, e)
		}
	}
	return res
}
