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

package optbuilder

import (
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
)

// scope holds the columns that filter expressions may reference while a scan
// is being built.
type scope struct {
	cols []scopeColumn
}

// scopeColumn is a column bound in a scope.
type scopeColumn struct {
	name   string
	id     opt.ColumnID
	family cat.Family
}

// makeTableScope returns a scope holding every column of the table registered
// in the metadata under tabID.
func makeTableScope(md *opt.Metadata, tabID opt.TableID) *scope {
	tab := md.TableMeta(tabID).Table
	s := &scope{cols: make([]scopeColumn, tab.ColumnCount())}
	for i := range s.cols {
		col := tab.Column(i)
		s.cols[i] = scopeColumn{name: col.Name, id: tabID.ColumnID(i), family: col.Family}
	}
	return s
}

// resolve implements scalar.ColumnResolver.
func (s *scope) resolve(name string) (opt.ColumnID, cat.Family, bool) {
	for i := range s.cols {
		if s.cols[i].name == name {
			return s.cols[i].id, s.cols[i].family, true
		}
	}
	return 0, 0, false
}
