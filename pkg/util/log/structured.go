// Copyright 2015 The Cockroach Authors.
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
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	formatTags(ctx, &buf)
	buf.WriteString(fmt.Sprintf(format, args...))
	return buf.String()
}

func formatTags(ctx context.Context, buf *strings.Builder) {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return
	}
	buf.WriteByte('[')
	buf.WriteString(tags.String())
	buf.WriteString("] ")
}

// addStructured creates a structured log entry and writes it to the
// configured output.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	file, line := caller(depth + 1)
	msg := redact.Sprintf(format, args...)

	logging.mu.Lock()
	defer logging.mu.Unlock()
	if sev < logging.mu.minSev {
		return
	}

	entry := logEntry{
		sev:        sev,
		time:       logging.mu.now(),
		file:       file,
		line:       line,
		tags:       logtags.FromContext(ctx),
		redactable: logging.mu.redactable,
	}
	if entry.redactable {
		entry.msg = string(msg)
	} else {
		entry.msg = msg.StripMarkers()
	}
	// Errors writing the log are dropped; there is nowhere left to report them.
	_, _ = logging.mu.out.Write([]byte(logging.mu.format.formatEntry(entry)))
}
