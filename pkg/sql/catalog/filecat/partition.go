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

package filecat

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
)

type partitionsDef struct {
	Column string              `yaml:"column"`
	List   []listPartitionDef  `yaml:"list"`
	Range  []rangePartitionDef `yaml:"range"`
}

type listPartitionDef struct {
	ID     int64         `yaml:"id"`
	Values []interface{} `yaml:"values"`
}

type rangePartitionDef struct {
	ID   int64  `yaml:"id"`
	From *int64 `yaml:"from"`
	To   *int64 `yaml:"to"`
}

// partitioning describes how a table is split into partitions. Either every
// partition is a list of values or every partition is a half-open range
// [lo, hi) of integers, where a nil bound is unbounded.
type partitioning struct {
	col   cat.ColumnOrdinal
	parts []partition
}

type partition struct {
	id     cat.PartitionID
	values []scalar.Datum
	ranged bool
	lo, hi *int64
}

func makePartitioning(t *Table, def *partitionsDef) (*partitioning, error) {
	p := &partitioning{col: -1}
	for i := range t.cols {
		if t.cols[i].Name == def.Column {
			p.col = i
		}
	}
	if p.col < 0 {
		return nil, errors.Newf("partition column %q does not exist", def.Column)
	}
	col := &t.cols[p.col]
	if (len(def.List) == 0) == (len(def.Range) == 0) {
		return nil, errors.New("exactly one of list or range partitions must be given")
	}

	ids := make(map[int64]struct{})
	checkID := func(id int64) error {
		if _, ok := ids[id]; ok {
			return errors.Newf("duplicate partition id %d", id)
		}
		ids[id] = struct{}{}
		return nil
	}
	for _, ld := range def.List {
		if err := checkID(ld.ID); err != nil {
			return nil, err
		}
		part := partition{id: cat.PartitionID(ld.ID)}
		for _, v := range ld.Values {
			d, err := makeDatum(col, v)
			if err != nil {
				return nil, errors.Wrapf(err, "partition %d", ld.ID)
			}
			part.values = append(part.values, d)
		}
		p.parts = append(p.parts, part)
	}
	for _, rd := range def.Range {
		if err := checkID(rd.ID); err != nil {
			return nil, err
		}
		if col.Family != cat.IntFamily {
			return nil, errors.Newf("range partitions require a %s column", cat.IntFamily)
		}
		if rd.From != nil && rd.To != nil && *rd.From >= *rd.To {
			return nil, errors.Newf("partition %d: empty range [%d, %d)", rd.ID, *rd.From, *rd.To)
		}
		p.parts = append(p.parts, partition{id: cat.PartitionID(rd.ID), ranged: true, lo: rd.From, hi: rd.To})
	}
	sort.Slice(p.parts, func(i, j int) bool { return p.parts[i].id < p.parts[j].id })
	return p, nil
}

func makeDatum(col *cat.Column, v interface{}) (scalar.Datum, error) {
	switch t := v.(type) {
	case int:
		if col.Family == cat.IntFamily {
			return scalar.DInt(t), nil
		}
	case string:
		if col.Family == cat.StringFamily {
			return scalar.DString(t), nil
		}
	case bool:
		if col.Family == cat.BoolFamily {
			return scalar.DBool(t), nil
		}
	}
	return nil, errors.Newf("value %v does not match %s column %q", v, col.Family, col.Name)
}

// mayContain returns true if the partition may hold a value v for which
// "v op c" holds.
func (p *partition) mayContain(op scalar.CmpOp, c scalar.Datum) bool {
	if !p.ranged {
		for _, v := range p.values {
			cmp, ok := v.Compare(c)
			if !ok || op.Holds(cmp) {
				return true
			}
		}
		return false
	}

	ci, ok := c.(scalar.DInt)
	if !ok {
		return true
	}
	n := int64(ci)
	switch op {
	case scalar.EqOp:
		return (p.lo == nil || *p.lo <= n) && (p.hi == nil || n < *p.hi)
	case scalar.NeOp:
		return p.lo == nil || p.hi == nil || *p.hi-*p.lo != 1 || *p.lo != n
	case scalar.LtOp:
		return p.lo == nil || *p.lo < n
	case scalar.LeOp:
		return p.lo == nil || *p.lo <= n
	case scalar.GtOp:
		return p.hi == nil || n < *p.hi-1
	case scalar.GeOp:
		return p.hi == nil || n < *p.hi
	}
	return true
}

// Prune returns the partitions of tab that may hold rows satisfying all of
// preds, in ascending id order. partCol is the column id the scan assigned to
// the partition column. Conjuncts that are not comparisons between partCol
// and a constant do not prune anything.
func (c *Catalog) Prune(
	ctx context.Context, tab cat.Table, partCol opt.ColumnID, preds []scalar.Expr,
) ([]cat.PartitionID, error) {
	t, ok := tab.(*Table)
	if !ok || t.parts == nil {
		return nil, errors.Newf("table %q is not partitioned", tab.Name())
	}
	var conds []scalar.Expr
	for _, pred := range preds {
		conds = append(conds, scalar.Conjuncts(pred)...)
	}

	res := make([]cat.PartitionID, 0, len(t.parts.parts))
	for i := range t.parts.parts {
		part := &t.parts.parts[i]
		keep := true
		for _, cond := range conds {
			col, op, val, ok := scalar.ColumnComparison(cond)
			if !ok || col != partCol {
				continue
			}
			if !part.mayContain(op, val) {
				keep = false
				break
			}
		}
		if keep {
			res = append(res, part.id)
		}
	}
	if log.V(2) {
		log.Infof(ctx, "pruned %s to %d of %d partitions", t.name, len(res), len(t.parts.parts))
	}
	return res, nil
}
