// Copyright 2019 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package log

import (
	"os"

	"github.com/cockroachdb/logicalscan/pkg/util/syncutil"
)

var exitOverride struct {
	syncutil.Mutex
	f func(int)
}

// SetExitFunc allows setting a function that will be called to exit
// the process when a Fatal message is generated.
//
// Call with a nil function to undo.
func SetExitFunc(f func(int)) {
	exitOverride.Lock()
	defer exitOverride.Unlock()
	exitOverride.f = f
}

// ResetExitFunc undoes any prior call to SetExitFunc.
func ResetExitFunc() {
	SetExitFunc(nil)
}

func exit(code int) {
	exitOverride.Lock()
	f := exitOverride.f
	exitOverride.Unlock()
	if f != nil {
		f(code)
		return
	}
	os.Exit(code)
}
