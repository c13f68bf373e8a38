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

// Package memo stores the alternatives the optimizer has found for a query.
// Logically equivalent scans are kept together in a group, and each scan is
// interned by structure: adding a scan that is Equal to one already in the
// memo is a no-op. The memo may be read and written by concurrent workers.
package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/util/syncutil"
)

// GroupID identifies a group of logically equivalent operators. Group ids
// start at 1; 0 is never a valid group.
type GroupID int32

// ExprOrdinal is the position of an operator within its group.
type ExprOrdinal int32

// Memo holds groups of logically equivalent scans along with the best
// alternative found so far for each group.
type Memo struct {
	mu struct {
		syncutil.Mutex
		groups   []group
		// interned maps operator fingerprints to the operators that have it.
		interned map[uint64][]exprRef
		root     GroupID
	}
}

type group struct {
	exprs    []logical.Operator
	best     ExprOrdinal
	bestCost Cost
}

type exprRef struct {
	group GroupID
	ord   ExprOrdinal
}

// New returns an empty memo.
func New() *Memo {
	m := &Memo{}
	m.mu.interned = make(map[uint64][]exprRef)
	return m
}

// AddGroup adds op to the memo as the first member of a new group, and
// returns the group. If an Equal operator is already part of a group, that
// group is returned instead and added is false.
func (m *Memo) AddGroup(op logical.Operator) (id GroupID, added bool) {
	fp := logical.Fingerprint(op)
	m.mu.Lock()
	defer m.mu.Unlock()
	if ref, ok := m.lookupLocked(op, fp); ok {
		return ref.group, false
	}
	m.mu.groups = append(m.mu.groups, group{best: -1, bestCost: MaxCost})
	id = GroupID(len(m.mu.groups))
	m.addLocked(id, op, fp)
	if m.mu.root == 0 {
		m.mu.root = id
	}
	return id, true
}

// AddToGroup adds op as an alternative to the given group. It returns false
// if an Equal operator is already in the group. Adding an operator that
// already belongs to another group is an internal error, since operators of
// different groups are not equivalent.
func (m *Memo) AddToGroup(id GroupID, op logical.Operator) (added bool) {
	fp := logical.Fingerprint(op)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	if ref, ok := m.lookupLocked(op, fp); ok {
		if ref.group != id {
			panic(errors.AssertionFailedf(
				"%s is already in group %d and cannot be added to group %d", op, ref.group, id,
			))
		}
		return false
	}
	m.addLocked(id, op, fp)
	return true
}

// RootGroup returns the group of the first operator added to the memo, or 0
// if the memo is empty.
func (m *Memo) RootGroup() GroupID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.root
}

// NumGroups returns the number of groups in the memo.
func (m *Memo) NumGroups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mu.groups)
}

// GroupSize returns the number of operators in the group.
func (m *Memo) GroupSize(id GroupID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	return len(m.mu.groups[id-1].exprs)
}

// Expr returns the operator at the given position of the group.
func (m *Memo) Expr(id GroupID, ord ExprOrdinal) logical.Operator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	exprs := m.mu.groups[id-1].exprs
	if ord < 0 || int(ord) >= len(exprs) {
		panic(errors.AssertionFailedf("group %d has no expression %d", id, ord))
	}
	return exprs[ord]
}

// Exprs returns the operators of the group in the order they were added.
func (m *Memo) Exprs(id GroupID) []logical.Operator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	return append([]logical.Operator(nil), m.mu.groups[id-1].exprs...)
}

// SetBest records the operator at ord as the best alternative of the group if
// cost is lower than the cost of the current best alternative. It returns
// true if the best alternative changed.
func (m *Memo) SetBest(id GroupID, ord ExprOrdinal, cost Cost) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	g := &m.mu.groups[id-1]
	if ord < 0 || int(ord) >= len(g.exprs) {
		panic(errors.AssertionFailedf("group %d has no expression %d", id, ord))
	}
	if g.best >= 0 && !cost.Less(g.bestCost) {
		return false
	}
	g.best, g.bestCost = ord, cost
	return true
}

// Best returns the best alternative of the group and its cost. ok is false if
// no alternative has been costed.
func (m *Memo) Best(id GroupID) (op logical.Operator, cost Cost, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkGroupLocked(id)
	g := &m.mu.groups[id-1]
	if g.best < 0 {
		return nil, MaxCost, false
	}
	return g.exprs[g.best], g.bestCost, true
}

func (m *Memo) lookupLocked(op logical.Operator, fp uint64) (exprRef, bool) {
	for _, ref := range m.mu.interned[fp] {
		if logical.Equal(m.mu.groups[ref.group-1].exprs[ref.ord], op) {
			return ref, true
		}
	}
	return exprRef{}, false
}

func (m *Memo) addLocked(id GroupID, op logical.Operator, fp uint64) {
	g := &m.mu.groups[id-1]
	ref := exprRef{group: id, ord: ExprOrdinal(len(g.exprs))}
	g.exprs = append(g.exprs, op)
	m.mu.interned[fp] = append(m.mu.interned[fp], ref)
}

func (m *Memo) checkGroupLocked(id GroupID) {
	if id <= 0 || int(id) > len(m.mu.groups) {
		panic(errors.AssertionFailedf("group %d does not exist", id))
	}
}
