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

// Package cat contains the interfaces the optimizer uses to look up catalog
// objects. The catalog itself is an external collaborator: operators only
// reference tables through these interfaces and never own them.
package cat

import (
	"context"
	"fmt"
)

// StableID permanently and uniquely identifies a catalog object (table, view,
// system table) within its catalog.
type StableID uint64

// ColumnOrdinal is the ordinal position of a column within its table.
type ColumnOrdinal = int

// PartitionID identifies a storage partition of a table.
type PartitionID int64

// TableType identifies the source a table is served from. Scan operators are
// specialized per table type.
type TableType uint8

const (
	// UnknownTable is the zero value; no table may report it.
	UnknownTable TableType = iota
	// KuduTable is a table stored in an external Kudu cluster.
	KuduTable
	// HiveTable is a table registered in an external Hive metastore.
	HiveTable
	// IcebergTable is an Apache Iceberg table.
	IcebergTable
	// JDBCTable is a table in an external database reached over JDBC.
	JDBCTable
	// SchemaTable is an information-schema style table whose rows are
	// produced by the system itself.
	SchemaTable

	numTableTypes
)

var tableTypeNames = [numTableTypes]string{
	UnknownTable: "unknown",
	KuduTable:    "kudu",
	HiveTable:    "hive",
	IcebergTable: "iceberg",
	JDBCTable:    "jdbc",
	SchemaTable:  "schema",
}

func (t TableType) String() string {
	if t >= numTableTypes {
		return fmt.Sprintf("TableType(%d)", t)
	}
	return tableTypeNames[t]
}

// SafeValue implements redact.SafeValue.
func (TableType) SafeValue() {}

// ParseTableType returns the table type with the given name.
func ParseTableType(s string) (TableType, bool) {
	for i := KuduTable; i < numTableTypes; i++ {
		if tableTypeNames[i] == s {
			return i, true
		}
	}
	return UnknownTable, false
}

// Table is an interface to a table in the catalog. Implementations must be
// safe for concurrent use by multiple readers.
type Table interface {
	// ID is the stable identifier for this table.
	ID() StableID

	// Name is the unqualified name of the table.
	Name() string

	// Type returns the source type of the table.
	Type() TableType

	// ColumnCount returns the number of columns in the table.
	ColumnCount() int

	// Column returns the column at the given ordinal position.
	Column(i ColumnOrdinal) *Column

	// IsPartitioned returns true if the table is split into partitions that
	// a scan can skip. An unpartitioned table is always scanned whole.
	IsPartitioned() bool

	// PartitionColumn returns the ordinal of the column the table is
	// partitioned by. It is only meaningful if IsPartitioned is true.
	PartitionColumn() ColumnOrdinal

	// PartitionCount returns the number of partitions in the table; it is
	// zero for unpartitioned tables.
	PartitionCount() int

	// RowCount returns the estimated number of rows in the table.
	RowCount() float64
}

// Catalog resolves table names to tables.
type Catalog interface {
	// ResolveTable returns the table with the given name, or an error if no
	// such table exists.
	ResolveTable(ctx context.Context, name string) (Table, error)
}
