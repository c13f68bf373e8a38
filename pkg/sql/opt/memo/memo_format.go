// Copyright 2018 The Cockroach Authors.
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

package memo

import (
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/util/treeprinter"
)

// String formats the memo as a tree with one node per group, listing the
// alternatives of each group in the order they were added:
//
//	memo (1 group)
//	 └── G1 (best: #2, cost: 10.00)
//	      ├── #1
//	      │    └── kudu-scan t
//	      │         └── ...
//	      └── #2
//	           └── kudu-scan t
//	                └── ...
func (m *Memo) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	tp := treeprinter.New()
	var root treeprinter.Node
	if n := len(m.mu.groups); n == 1 {
		root = tp.Child("memo (1 group)")
	} else {
		root = tp.Childf("memo (%d groups)", n)
	}
	for i := range m.mu.groups {
		g := &m.mu.groups[i]
		var n treeprinter.Node
		if g.best >= 0 {
			n = root.Childf("G%d (best: #%d, cost: %s)", i+1, g.best+1, g.bestCost)
		} else {
			n = root.Childf("G%d", i+1)
		}
		for j, e := range g.exprs {
			logical.Format(n.Childf("#%d", j+1), e)
		}
	}
	return tp.String()
}
