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

package scalar

import (
	"testing"

	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/stretchr/testify/require"
)

func testResolver(name string) (opt.ColumnID, cat.Family, bool) {
	switch name {
	case "k":
		return 1, cat.IntFamily, true
	case "region":
		return 2, cat.StringFamily, true
	case "active":
		return 3, cat.BoolFamily, true
	}
	return 0, 0, false
}

func TestParseFilter(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"k > 5", "@1 > 5"},
		{"k>=5", "@1 >= 5"},
		{"region = 'us'", "@2 = 'us'"},
		{"region <> 'it''s'", "@2 != 'it''s'"},
		{"k < 10 AND region = 'eu' and active = true", "@1 < 10 AND @2 = 'eu' AND @3 = true"},
		{"region = 'rock AND roll' AND k > 1", "@2 = 'rock AND roll' AND @1 > 1"},
		{"region = 'it''s AND that''s'", "@2 = 'it''s AND that''s'"},
		{"(k > 1 AND k < 5) AND region != 'x'", "@1 > 1 AND @1 < 5 AND @2 != 'x'"},
		{"5 < k", "@1 > 5"},
		{"k = -3", "@1 = -3"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := ParseFilter(tc.in, testResolver)
			require.NoError(t, err)
			if tc.expected == "" {
				require.Nil(t, e)
				return
			}
			require.Equal(t, tc.expected, e.String())
		})
	}
}

func TestParseFilterErrors(t *testing.T) {
	testCases := []struct {
		in  string
		err string
	}{
		{"k", `cannot parse filter term "k"`},
		{"z = 1", `column "z" does not exist`},
		{"k = 'x'", `cannot compare BIGINT column "k" with 'x'`},
		{"k = 1.5", `invalid literal 1.5`},
		{"k = 1 OR k = 2", `cannot parse filter term`},
		{"k LIKE 'x'", `unsupported operator like`},
		{"t.k = 1", `cannot parse filter term`},
		{"k = ", `cannot parse filter`},
	}
	for _, tc := range testCases {
		_, err := ParseFilter(tc.in, testResolver)
		require.Error(t, err, tc.in)
		require.Contains(t, err.Error(), tc.err)
	}
}

func TestEqualAndFingerprint(t *testing.T) {
	parse := func(s string) Expr {
		e, err := ParseFilter(s, testResolver)
		require.NoError(t, err)
		return e
	}
	a := parse("k > 5 AND region = 'us'")
	b := parse("k > 5 AND region = 'us'")
	c := parse("k > 5 AND region = 'eu'")
	d := parse("k >= 5 AND region = 'us'")

	require.True(t, Equal(a, b))
	require.Equal(t, Fingerprint(a), Fingerprint(b))
	require.False(t, Equal(a, c))
	require.NotEqual(t, Fingerprint(a), Fingerprint(c))
	require.False(t, Equal(a, d))
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(a, nil))
	require.False(t, Equal(&Const{Value: DInt(1)}, &Const{Value: DString("1")}))
	require.NotEqual(t, Fingerprint(&Const{Value: DInt(1)}), Fingerprint(&Const{Value: DBool(true)}))
}

func TestConjunctsAndOuterCols(t *testing.T) {
	e, err := ParseFilter("region = 'us' AND k > 1 AND k < 9", testResolver)
	require.NoError(t, err)

	conj := Conjuncts(e)
	require.Len(t, conj, 3)
	require.Equal(t, "@2 = 'us'", conj[0].String())
	require.Equal(t, "@1 < 9", conj[2].String())
	require.Equal(t, opt.ColList{1, 2}, OuterCols(e))
	require.Nil(t, Conjuncts(nil))
	require.Nil(t, MakeAnd())
	require.True(t, Equal(e, MakeAnd(conj...)))

	col, op, val, ok := ColumnComparison(conj[1])
	require.True(t, ok)
	require.Equal(t, opt.ColumnID(1), col)
	require.Equal(t, GtOp, op)
	require.Equal(t, DInt(1), val)

	_, _, _, ok = ColumnComparison(e)
	require.False(t, ok)
}

func TestFormatWithNames(t *testing.T) {
	e, err := ParseFilter("k > 5", testResolver)
	require.NoError(t, err)
	require.Equal(t, "k:1 > 5", Format(e, func(c opt.ColumnID) string {
		return "k:1"
	}))
}

func TestCmpOpHolds(t *testing.T) {
	require.True(t, EqOp.Holds(0))
	require.False(t, EqOp.Holds(1))
	require.True(t, NeOp.Holds(-1))
	require.True(t, LtOp.Holds(-1))
	require.True(t, LeOp.Holds(0))
	require.True(t, GtOp.Holds(1))
	require.False(t, GeOp.Holds(-1))
}

func TestDatumCompare(t *testing.T) {
	cmp, ok := DBool(false).Compare(DBool(true))
	require.True(t, ok)
	require.Equal(t, -1, cmp)
	cmp, ok = DString("b").Compare(DString("a"))
	require.True(t, ok)
	require.Equal(t, 1, cmp)
	_, ok = DInt(1).Compare(DString("a"))
	require.False(t, ok)
}

func TestEvalFilter(t *testing.T) {
	row := map[opt.ColumnID]Datum{1: DInt(7), 3: DBool(true)}
	lookup := func(col opt.ColumnID) (Datum, bool) {
		d, ok := row[col]
		return d, ok
	}
	testCases := []struct {
		filter   string
		expected bool
	}{
		{"k = 7", true},
		{"k > 7", false},
		{"k >= 7 AND active = true", true},
		{"k >= 7 AND active = false", false},
		// NULL never compares.
		{"region = 'eu'", false},
		{"region != 'eu'", false},
	}
	for _, tc := range testCases {
		t.Run(tc.filter, func(t *testing.T) {
			e, err := ParseFilter(tc.filter, testResolver)
			require.NoError(t, err)
			require.Equal(t, tc.expected, EvalFilter(e, lookup))
		})
	}

	require.True(t, EvalFilter(&Variable{Col: 3}, lookup))
	require.False(t, EvalFilter(&Const{Value: DInt(1)}, lookup))
	require.Panics(t, func() { EvalFilter(&Comparison{Op: EqOp, Left: &And{}, Right: &Const{}}, lookup) })
}
