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

package memo

import (
	"math"
	"strconv"
	"strings"
)

// Cost is the best-effort approximation of the actual cost of executing a
// scan. Costs are only meaningful relative to each other.
type Cost struct {
	C     float64
	Flags CostFlags

	// aux carries information that is accumulated while costing but that
	// never affects comparisons.
	aux costAux
}

// costAux is auxiliary information tracked by Cost.
type costAux struct {
	// fullScanCount is the number of scans that read every partition of a
	// partitioned table. It saturates at math.MaxUint8.
	fullScanCount uint8
}

// CostFlags are penalties that take precedence over the cost value. A cost
// with a higher flag value is always more expensive, whatever the values of
// C. The flags are ordered by priority.
type CostFlags uint8

const (
	// UnboundedCardinality is set for scans that have no row limit.
	UnboundedCardinality CostFlags = 1 << iota
	// FullScanPenalty is set for scans that read every partition of a
	// partitioned table.
	FullScanPenalty
	// HugeCostPenalty is set for scans that must be avoided whenever an
	// alternative exists.
	HugeCostPenalty
)

// MaxCost is the maximum possible cost.
var MaxCost = Cost{
	C:     math.Inf(+1),
	Flags: HugeCostPenalty | FullScanPenalty | UnboundedCardinality,
}

// Less returns true if this cost is lower than the given cost.
func (c Cost) Less(other Cost) bool {
	if c.Flags != other.Flags {
		return c.Flags < other.Flags
	}
	// Two alternatives with the same cost can have slightly different floating
	// point results, so costs within a small number of units of least
	// precision are treated as equal. Since the mantissa is in the low bits,
	// the bit representations can be compared as integers.
	const ulpTolerance = 1000
	return math.Float64bits(c.C)+ulpTolerance <= math.Float64bits(other.C)
}

// Add adds the other cost to this cost.
func (c *Cost) Add(other Cost) {
	c.C += other.C
	c.Flags |= other.Flags
	if sum := int(c.aux.fullScanCount) + int(other.aux.fullScanCount); sum > math.MaxUint8 {
		c.aux.fullScanCount = math.MaxUint8
	} else {
		c.aux.fullScanCount = uint8(sum)
	}
}

// IncrFullScanCount records that the cost includes a full scan.
func (c *Cost) IncrFullScanCount() {
	if c.aux.fullScanCount < math.MaxUint8 {
		c.aux.fullScanCount++
	}
}

// FullScanCount returns the number of full scans included in the cost.
func (c Cost) FullScanCount() int {
	return int(c.aux.fullScanCount)
}

func (c Cost) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(c.C, 'f', 2, 64))
	if c.Flags != 0 {
		b.WriteString(" [")
		b.WriteString(c.Flags.String())
		b.WriteByte(']')
	}
	return b.String()
}

func (f CostFlags) String() string {
	var parts []string
	if f&HugeCostPenalty != 0 {
		parts = append(parts, "huge-cost")
	}
	if f&FullScanPenalty != 0 {
		parts = append(parts, "full-scan")
	}
	if f&UnboundedCardinality != 0 {
		parts = append(parts, "unbounded")
	}
	return strings.Join(parts, " ")
}
