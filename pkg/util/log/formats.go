// Copyright 2020 The Cockroach Authors.
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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// logEntry is a log entry before formatting.
type logEntry struct {
	sev  Severity
	time time.Time
	file string
	line int
	tags *logtags.Buffer
	// redactable is true if msg keeps its redaction markers.
	redactable bool
	msg        string
}

type logFormatter interface {
	formatterName() string
	// formatEntry formats an entry, including the trailing newline.
	formatEntry(entry logEntry) string
}

var formatters = func() map[string]logFormatter {
	m := make(map[string]logFormatter)
	r := func(f logFormatter) {
		m[f.formatterName()] = f
	}
	r(formatCrdbV1{})
	r(formatJSONFull{})
	r(formatJSONCompact{})
	return m
}()

// FormatNames returns the names accepted by SetFormat.
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetFormat selects the format of subsequent entries by name. The default is
// crdb-v1.
func SetFormat(name string) error {
	f, ok := formatters[name]
	if !ok {
		return errors.Newf("unknown log format %q, expected one of: %s",
			name, redact.Safe(strings.Join(FormatNames(), ", ")))
	}
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.format = f
	return nil
}

// formatCrdbV1 is the plain text format:
//
//	I240102 15:04:05.000000 file.go:12 [tag1,tag2=x] message
type formatCrdbV1 struct{}

func (formatCrdbV1) formatterName() string { return "crdb-v1" }

func (formatCrdbV1) formatEntry(entry logEntry) string {
	var buf strings.Builder
	buf.WriteByte(severityChar[entry.sev])
	buf.WriteString(entry.time.Format("060102 15:04:05.000000"))
	fmt.Fprintf(&buf, " %s:%d ", entry.file, entry.line)
	if entry.tags != nil && len(entry.tags.Get()) > 0 {
		buf.WriteByte('[')
		buf.WriteString(entry.tags.String())
		buf.WriteString("] ")
	}
	buf.WriteString(entry.msg)
	buf.WriteByte('\n')
	return buf.String()
}
