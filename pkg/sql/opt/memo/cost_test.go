// Copyright 2018 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"math"
	"testing"
)

func TestCostLess(t *testing.T) {
	testCases := []struct {
		left, right Cost
		expected    bool
	}{
		{Cost{C: 0.0}, Cost{C: 1.0}, true},
		{Cost{C: 0.0}, Cost{C: 1e-20}, true},
		{Cost{C: 0.0}, Cost{C: 0.0}, false},
		{Cost{C: 1.0}, Cost{C: 0.0}, false},
		{Cost{C: 1e-20}, Cost{C: 1.0000000000001e-20}, false},
		{Cost{C: 1e-20}, Cost{C: 1.000001e-20}, true},
		{Cost{C: 1}, Cost{C: 1.00000000000001}, false},
		{Cost{C: 1}, Cost{C: 1.00000001}, true},
		{Cost{C: 1000}, Cost{C: 1000.00000000001}, false},
		{Cost{C: 1000}, Cost{C: 1000.00001}, true},
		{Cost{C: 1.0, Flags: FullScanPenalty}, Cost{C: 1.0}, false},
		{Cost{C: 1.0}, Cost{C: 1.0, Flags: HugeCostPenalty}, true},
		{Cost{C: 1.0, Flags: FullScanPenalty | HugeCostPenalty}, Cost{C: 1.0}, false},
		{Cost{C: 1.0, Flags: FullScanPenalty}, Cost{C: 1.0, Flags: HugeCostPenalty}, true},
		{MaxCost, Cost{C: 1.0}, false},
		{Cost{C: 0.0}, MaxCost, true},
		{MaxCost, MaxCost, false},
		{MaxCost, Cost{C: 1.0, Flags: FullScanPenalty}, false},
		{Cost{C: 1.0, Flags: HugeCostPenalty}, MaxCost, true},
		{Cost{C: 2.0}, Cost{C: 1.0, Flags: UnboundedCardinality}, true},
		{Cost{C: 1.0, Flags: UnboundedCardinality}, Cost{C: 2.0}, false},
		// Auxiliary information should not affect the comparison.
		{Cost{C: 1.0, aux: costAux{0}}, Cost{C: 1.0, aux: costAux{1}}, false},
	}
	for _, tc := range testCases {
		if tc.left.Less(tc.right) != tc.expected {
			t.Errorf("expected %v.Less(%v) to be %v", tc.left, tc.right, tc.expected)
		}
	}
}

func TestCostAdd(t *testing.T) {
	testCases := []struct {
		left, right, expected Cost
	}{
		{Cost{C: 1.0}, Cost{C: 2.0}, Cost{C: 3.0}},
		{Cost{C: 0.0}, Cost{C: 0.0}, Cost{C: 0.0}},
		{Cost{C: -1.0}, Cost{C: 1.0}, Cost{C: 0.0}},
		{Cost{C: 1.5}, Cost{C: 2.5}, Cost{C: 4.0}},
		{Cost{C: 1.0, Flags: FullScanPenalty}, Cost{C: 2.0}, Cost{C: 3.0, Flags: FullScanPenalty}},
		{Cost{C: 1.0}, Cost{C: 2.0, Flags: HugeCostPenalty}, Cost{C: 3.0, Flags: HugeCostPenalty}},
		{Cost{C: 1.0, Flags: UnboundedCardinality}, Cost{C: 2.0, Flags: HugeCostPenalty}, Cost{C: 3.0, Flags: HugeCostPenalty | UnboundedCardinality}},
		{Cost{C: 1.0, aux: costAux{1}}, Cost{C: 1.0, aux: costAux{2}}, Cost{C: 2.0, aux: costAux{3}}},
		{Cost{C: 1.0, aux: costAux{200}}, Cost{C: 1.0, aux: costAux{100}}, Cost{C: 2.0, aux: costAux{255}}},
	}
	for _, tc := range testCases {
		tc.left.Add(tc.right)
		if tc.left != tc.expected {
			t.Errorf("expected %v.Add(%v) to be %v, got %v", tc.left, tc.right, tc.expected, tc.left)
		}
	}
}

func TestCostString(t *testing.T) {
	c := Cost{C: 12.345}
	if s := c.String(); s != "12.35" && s != "12.34" {
		t.Errorf("unexpected cost string %q", s)
	}
	c = Cost{C: 1, Flags: FullScanPenalty | UnboundedCardinality}
	if s := c.String(); s != "1.00 [full-scan unbounded]" {
		t.Errorf("unexpected cost string %q", s)
	}
	c.IncrFullScanCount()
	c.IncrFullScanCount()
	if c.FullScanCount() != 2 {
		t.Errorf("expected 2 full scans, got %d", c.FullScanCount())
	}
	c.aux.fullScanCount = math.MaxUint8
	c.IncrFullScanCount()
	if c.FullScanCount() != math.MaxUint8 {
		t.Errorf("expected full scan count to saturate, got %d", c.FullScanCount())
	}
}
