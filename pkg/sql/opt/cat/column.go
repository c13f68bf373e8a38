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

package cat

import "fmt"

// Family is the type family of a column.
type Family uint8

const (
	// IntFamily is a 64-bit signed integer.
	IntFamily Family = iota + 1
	// StringFamily is variable-length text, optionally bounded by Width.
	StringFamily
	// BoolFamily is a boolean.
	BoolFamily
)

func (f Family) String() string {
	switch f {
	case IntFamily:
		return "BIGINT"
	case StringFamily:
		return "VARCHAR"
	case BoolFamily:
		return "BOOLEAN"
	}
	return fmt.Sprintf("Family(%d)", f)
}

// ParseFamily parses the SQL spelling of a family.
func ParseFamily(s string) (Family, bool) {
	switch s {
	case "int", "bigint", "INT", "BIGINT":
		return IntFamily, true
	case "string", "varchar", "STRING", "VARCHAR":
		return StringFamily, true
	case "bool", "boolean", "BOOL", "BOOLEAN":
		return BoolFamily, true
	}
	return 0, false
}

// Column describes a single table column.
type Column struct {
	Name     string
	Family   Family
	Width    int
	Nullable bool
}

// SQLType returns the SQL spelling of the column type, e.g. VARCHAR(64).
func (c *Column) SQLType() string {
	if c.Family == StringFamily && c.Width > 0 {
		return fmt.Sprintf("VARCHAR(%d)", c.Width)
	}
	return c.Family.String()
}
