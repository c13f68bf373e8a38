// Copyright 2019 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package opt

// NoLimit is the row-count limit of an operator that may return any number
// of rows.
const NoLimit int64 = -1

// ValidLimit returns true if limit is either NoLimit or a non-negative row
// count.
func ValidLimit(limit int64) bool {
	return limit == NoLimit || limit >= 0
}
