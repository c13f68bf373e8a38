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

package treeprinter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreePrinter(t *testing.T) {
	tp := New()
	root := tp.Child("root")
	a := root.Child("a")
	a.Childf("a%d", 1)
	a.Child("a2")
	root.Child("b").Child("b1")

	expected := `root
 ├── a
 │    ├── a1
 │    └── a2
 └── b
      └── b1
`
	require.Equal(t, expected, tp.String())
}

func TestTreePrinterEmpty(t *testing.T) {
	require.Equal(t, "", New().String())
	tp := New()
	tp.Child("leaf")
	require.Equal(t, "leaf\n", tp.String())
}
