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

package opt

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnID uniquely identifies the usage of a column within the scope of a
// query. ColumnID 0 is reserved to mean "unknown column". Column ids are
// handed out by Metadata and are never reused within a query.
type ColumnID int32

// ColList is a list of column ids.
type ColList []ColumnID

// String prints the list in the form "(1,2,3)".
func (cl ColList) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range cl {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", c)
	}
	b.WriteByte(')')
	return b.String()
}

// Equals returns true if the two lists contain the same columns in the same
// order.
func (cl ColList) Equals(other ColList) bool {
	if len(cl) != len(other) {
		return false
	}
	for i := range cl {
		if cl[i] != other[i] {
			return false
		}
	}
	return true
}

// SortColList sorts the list in ascending column id order, in place.
func SortColList(cl ColList) {
	sort.Slice(cl, func(i, j int) bool { return cl[i] < cl[j] })
}

// ColumnMeta stores information about one of the columns stored in the
// metadata.
type ColumnMeta struct {
	// MetaID is the identifier for this column that is unique within the
	// query metadata.
	MetaID ColumnID

	// Alias is the name of the column, used when formatting.
	Alias string

	// Table is the table the column belongs to.
	Table TableID
}
