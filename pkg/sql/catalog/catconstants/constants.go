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

// Package catconstants holds the identifiers of the system schema and of the
// system tables. They are compile-time constants; nothing allocates them at
// run time.
package catconstants

import "math"

// InformationSchemaName is the name of the schema holding the system tables.
const InformationSchemaName = "information_schema"

// Identifiers of the system schema and its tables. They count down from
// math.MaxUint32, while the external catalogs allocate table ids upward from
// 1, so the two ranges never meet.
const (
	InformationSchemaID = math.MaxUint32 - iota
	InformationSchemaTablesTableID
	BEMetricsTableID

	// MinSchemaTableID is the smallest identifier reserved for system
	// tables. New system tables must be added above this line.
	MinSchemaTableID = math.MaxUint32 - 100
)

// IsSchemaTableID returns true if id is reserved for a system table.
func IsSchemaTableID(id uint64) bool {
	return id >= MinSchemaTableID && id < InformationSchemaID
}
