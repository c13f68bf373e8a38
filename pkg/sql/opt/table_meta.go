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
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/util/syncutil"
)

// TableID uniquely identifies the usage of a table within the scope of a
// query. TableID 0 is reserved to mean "unknown table".
//
// Internally, the TableID consists of an index into the Metadata.tables slice,
// as well as the ColumnID of the first column in the table. Subsequent columns
// have sequential ids, relative to their ordinal position in the table.
type TableID uint64

const (
	tableIDMask = 0xffffffff
)

// ColumnID returns the metadata id of the column at the given ordinal position
// in the table.
//
// NOTE: This method cannot do bounds checking, so it's up to the caller to
// ensure that a column really does exist at this ordinal position.
func (t TableID) ColumnID(ord int) ColumnID {
	return t.firstColID() + ColumnID(ord)
}

// ColumnOrdinal returns the ordinal position of the given column in its base
// table.
func (t TableID) ColumnOrdinal(id ColumnID) int {
	return int(id - t.firstColID())
}

// makeTableID constructs a new TableID from its component parts.
func makeTableID(index int, firstColID ColumnID) TableID {
	// Bias the table index by 1.
	return TableID((uint64(index+1) << 32) | uint64(firstColID))
}

// firstColID returns the ColumnID of the first column in the table.
func (t TableID) firstColID() ColumnID {
	return ColumnID(t & tableIDMask)
}

// index returns the index of the table in Metadata.tables. It's biased by 1, so
// that TableID 0 can be be reserved to mean "unknown table".
func (t TableID) index() int {
	return int((t>>32)&tableIDMask) - 1
}

// TableMeta stores information about one of the tables stored in the metadata.
type TableMeta struct {
	// MetaID is the identifier for this table that is unique within the query
	// metadata.
	MetaID TableID

	// Table is a reference to the table in the catalog.
	Table cat.Table

	// Alias is an alternate name for the base table to be used for formatting,
	// debugging, EXPLAIN output, etc. It is set to "" if no alias was specified.
	Alias string
}

// Name returns the table alias, if it was specified, or else the table's name.
func (tm *TableMeta) Name() string {
	if tm.Alias != "" {
		return tm.Alias
	}
	return tm.Table.Name()
}

// Metadata is the column registry of a query: it hands out globally unique
// column ids for every table added to the query. Operators reference the ids
// but never own them.
//
// Metadata may be shared by plan builders running in parallel, so all access
// is synchronized.
type Metadata struct {
	mu struct {
		syncutil.Mutex
		tables []TableMeta
		cols   []ColumnMeta
	}
}

// NewMetadata returns an empty column registry.
func NewMetadata() *Metadata {
	return &Metadata{}
}

// AddTable registers a table and allocates one column id per table column.
// Column ids of a table are contiguous and follow the column ordinals.
func (md *Metadata) AddTable(tab cat.Table, alias string) TableID {
	md.mu.Lock()
	defer md.mu.Unlock()

	tabID := makeTableID(len(md.mu.tables), ColumnID(len(md.mu.cols)+1))
	md.mu.tables = append(md.mu.tables, TableMeta{MetaID: tabID, Table: tab, Alias: alias})
	for i, n := 0, tab.ColumnCount(); i < n; i++ {
		md.mu.cols = append(md.mu.cols, ColumnMeta{
			MetaID: tabID.ColumnID(i),
			Alias:  tab.Column(i).Name,
			Table:  tabID,
		})
	}
	return tabID
}

// TableMeta looks up the metadata for the table associated with the given
// table id.
func (md *Metadata) TableMeta(tabID TableID) TableMeta {
	md.mu.Lock()
	defer md.mu.Unlock()
	idx := tabID.index()
	if idx < 0 || idx >= len(md.mu.tables) {
		panic(errors.AssertionFailedf("table %d is not registered", tabID))
	}
	return md.mu.tables[idx]
}

// ColumnMeta looks up the metadata for the column with the given id.
func (md *Metadata) ColumnMeta(id ColumnID) ColumnMeta {
	md.mu.Lock()
	defer md.mu.Unlock()
	if id <= 0 || int(id) > len(md.mu.cols) {
		panic(errors.AssertionFailedf("column %d is not registered", id))
	}
	return md.mu.cols[id-1]
}

// NumColumns returns the number of columns registered so far.
func (md *Metadata) NumColumns() int {
	md.mu.Lock()
	defer md.mu.Unlock()
	return len(md.mu.cols)
}

// TableColumns returns the ids of all columns of the given table, in ordinal
// order.
func (md *Metadata) TableColumns(tabID TableID) ColList {
	tm := md.TableMeta(tabID)
	n := tm.Table.ColumnCount()
	cols := make(ColList, n)
	for i := range cols {
		cols[i] = tabID.ColumnID(i)
	}
	return cols
}
