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

package xform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultOptions(), o)

	o, err = ParseOptions([]byte("partition_pruning: false\nmax_workers: 16\n"))
	require.NoError(t, err)
	require.False(t, o.PartitionPruning)
	require.True(t, o.SplitPredicates)
	require.Equal(t, 16, o.MaxWorkers)
	require.Equal(t, 8, o.MaxRounds)

	_, err = ParseOptions([]byte("max_worker: 2\n"))
	require.ErrorContains(t, err, "parsing optimizer options")

	_, err = ParseOptions([]byte("max_workers: 0\n"))
	require.EqualError(t, err, "max_workers must be at least 1, got 0")

	_, err = ParseOptions([]byte("max_rounds: -1\n"))
	require.EqualError(t, err, "max_rounds must not be negative, got -1")
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("split_predicates: false\n"), 0644))
	o, err := LoadOptionsFile(path)
	require.NoError(t, err)
	require.False(t, o.SplitPredicates)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "reading optimizer options")
}
