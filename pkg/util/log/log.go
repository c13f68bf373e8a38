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

// Package log is a small context-aware logging facility in the style of the
// server log package: entries carry a severity, the caller position, the
// logging tags attached to the context, and a message whose arguments are
// rendered with redaction markers unless they are marked safe.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/logicalscan/pkg/util/syncutil"
	"github.com/cockroachdb/redact"
)

// Severity identifies the importance of a log entry.
type Severity int32

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityChar = [...]byte{'I', 'W', 'E', 'F'}

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	}
	return fmt.Sprintf("Severity(%d)", int32(s))
}

// SafeValue implements redact.SafeValue.
func (Severity) SafeValue() {}

var logging struct {
	verbosity atomic.Int32

	mu struct {
		syncutil.Mutex
		out        io.Writer
		redactable bool
		minSev     Severity
		format     logFormatter
		now        func() time.Time
	}
}

func init() {
	logging.mu.out = os.Stderr
	logging.mu.format = formatCrdbV1{}
	logging.mu.now = time.Now
}

// SetOutput redirects all subsequent entries to w and returns a function that
// restores the previous destination.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out = prev
	}
}

// SetRedactable controls whether entries keep redaction markers around unsafe
// arguments. When false (the default), markers are stripped.
func SetRedactable(redactable bool) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.redactable = redactable
}

// SetMinSeverity drops entries below sev.
func SetMinSeverity(sev Severity) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.minSev = sev
}

// SetVerbosity sets the level up to which V returns true.
func SetVerbosity(level int32) {
	logging.verbosity.Store(level)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityInfo, 1, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityWarning, 1, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityError, 1, format, args)
}

// Fatalf logs to the FATAL severity and then terminates the process (or
// calls the function installed with SetExitFunc).
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityFatal, 1, format, args)
	exit(255)
}

// VEventf logs at INFO severity if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, SeverityInfo, 1, format, args)
	}
}

// Safe marks a value as not containing sensitive information.
func Safe(v interface{}) redact.SafeValue {
	return redact.Safe(v)
}

// caller returns the base file name and line of the function depth frames
// above the caller of caller.
func caller(depth int) (string, int) {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "???", 0
	}
	return filepath.Base(file), line
}
