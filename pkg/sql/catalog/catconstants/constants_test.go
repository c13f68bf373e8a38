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

package catconstants

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaTableIDs(t *testing.T) {
	require.Equal(t, uint64(math.MaxUint32), uint64(InformationSchemaID))
	require.Equal(t, uint64(math.MaxUint32-2), uint64(BEMetricsTableID))
	require.True(t, IsSchemaTableID(BEMetricsTableID))
	require.True(t, IsSchemaTableID(InformationSchemaTablesTableID))
	require.False(t, IsSchemaTableID(InformationSchemaID))
	require.False(t, IsSchemaTableID(1))
}
