// Copyright 2017 The Cockroach Authors.
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

	"github.com/cockroachdb/redact"
)

// Operator identifies the variant of a logical operator. Each variant has
// exactly one method on logical.Visitor.
type Operator uint8

const (
	// UnknownOp is the zero value; no operator reports it.
	UnknownOp Operator = iota

	// -- Scan operators over external catalog tables --

	// KuduScanOp scans a Kudu table.
	KuduScanOp
	// HiveScanOp scans a Hive table.
	HiveScanOp
	// IcebergScanOp scans an Iceberg table.
	IcebergScanOp
	// JDBCScanOp scans a table in an external database through JDBC. JDBC
	// sources do not expose partitions, so the scan has no predicate state.
	JDBCScanOp

	// -- Scan operators over system tables --

	// SchemaScanOp scans an information-schema table such as be_metrics.
	SchemaScanOp

	// NumOperators tracks the total count of operators.
	NumOperators
)

var opNames = [NumOperators]string{
	UnknownOp:     "unknown",
	KuduScanOp:    "kudu-scan",
	HiveScanOp:    "hive-scan",
	IcebergScanOp: "iceberg-scan",
	JDBCScanOp:    "jdbc-scan",
	SchemaScanOp:  "schema-scan",
}

func (op Operator) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("Operator(%d)", op)
	}
	return opNames[op]
}

// SafeFormat implements redact.SafeFormatter. Operator names never contain
// user data.
func (op Operator) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(op.String()))
}
