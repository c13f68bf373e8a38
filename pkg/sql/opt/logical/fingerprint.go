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
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
)

// Equal returns true if the two operators are logically identical: same
// variant, same table, same column mapping, limit and predicate, and, for
// variants that have one, the same ScanPredicates state. Operators are
// compared by content, never by address.
func Equal(a, b Operator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Op() != b.Op() ||
		a.Table().ID() != b.Table().ID() ||
		a.Limit() != b.Limit() ||
		!a.ColumnMapping().Equal(b.ColumnMapping()) ||
		!scalar.Equal(a.Predicate(), b.Predicate()) {
		return false
	}
	if pa, ok := a.(PredicateScan); ok {
		return pa.ScanPredicates().Equal(b.(PredicateScan).ScanPredicates())
	}
	return true
}

// Fingerprint returns a structural hash of the operator. Operators that are
// Equal have the same fingerprint.
func Fingerprint(op Operator) uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}

	write(uint64(op.Op()))
	write(uint64(op.Table().ID()))
	m := op.ColumnMapping()
	write(uint64(m.Len()))
	m.ForEach(func(col opt.ColumnID, ord cat.ColumnOrdinal) {
		write(uint64(col))
		write(uint64(ord))
	})
	write(uint64(op.Limit()))
	scalar.Hash(h, op.Predicate())

	if ps, ok := op.(PredicateScan); ok {
		p := ps.ScanPredicates()
		// Predicate sets are unordered, so their members are hashed in
		// fingerprint order.
		for _, preds := range [][]scalar.Expr{p.PartitionPredicates(), p.ResidualPredicates()} {
			fps := make([]uint64, len(preds))
			for i, e := range preds {
				fps[i] = scalar.Fingerprint(e)
			}
			sort.Slice(fps, func(i, j int) bool { return fps[i] < fps[j] })
			write(uint64(len(fps)))
			for _, fp := range fps {
				write(fp)
			}
		}
		if ids, ok := p.ResolvedPartitions(); ok {
			write(uint64(len(ids)))
			for _, id := range ids {
				write(uint64(id))
			}
		} else {
			write(^uint64(0))
		}
	}
	return h.Sum64()
}
