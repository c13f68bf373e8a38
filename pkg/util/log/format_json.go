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
	"strconv"
	"strings"
	"unicode/utf8"
)

type formatJSONFull struct{}

func (formatJSONFull) formatterName() string { return "json" }

func (formatJSONFull) formatEntry(entry logEntry) string {
	return formatJSON(entry, tagVerbose)
}

type formatJSONCompact struct{}

func (formatJSONCompact) formatterName() string { return "json-compact" }

func (formatJSONCompact) formatEntry(entry logEntry) string {
	return formatJSON(entry, tagCompact)
}

// jsonTags holds the compact and verbose key of each field.
var jsonTags = map[byte][2]string{
	't': {"t", "timestamp"},
	'S': {"sev", "severity"},
	'f': {"f", "file"},
	'l': {"l", "line"},
	'r': {"r", "redactable"},
	'g': {"tags", "tags"},
	'm': {"message", "message"},
}

type tagChoice int

const (
	tagCompact tagChoice = 0
	tagVerbose tagChoice = 1
)

// formatJSON formats an entry as a single-line JSON object, e.g.
//
//	{"timestamp":"1700000000.000000000","severity":"INFO","file":"x.go",
//	 "line":12,"redactable":0,"tags":{"n":"1"},"message":"hello"}
//
// The timestamp is the number of seconds since the epoch, with nanosecond
// precision.
func formatJSON(entry logEntry, tags tagChoice) string {
	var buf strings.Builder
	key := func(c byte) {
		buf.WriteByte('"')
		buf.WriteString(jsonTags[c][tags])
		buf.WriteString(`":`)
	}

	buf.WriteByte('{')
	key('t')
	buf.WriteByte('"')
	buf.WriteString(strconv.FormatInt(entry.time.Unix(), 10))
	buf.WriteByte('.')
	ns := strconv.Itoa(entry.time.Nanosecond())
	buf.WriteString(strings.Repeat("0", 9-len(ns)))
	buf.WriteString(ns)
	buf.WriteString(`",`)

	key('S')
	buf.WriteByte('"')
	if tags == tagCompact {
		buf.WriteByte(severityChar[entry.sev])
	} else {
		buf.WriteString(entry.sev.String())
	}
	buf.WriteString(`",`)

	key('f')
	buf.WriteByte('"')
	escapeString(&buf, entry.file)
	buf.WriteString(`",`)

	key('l')
	buf.WriteString(strconv.Itoa(entry.line))
	buf.WriteByte(',')

	key('r')
	if entry.redactable {
		buf.WriteByte('1')
	} else {
		buf.WriteByte('0')
	}

	if entry.tags != nil && len(entry.tags.Get()) > 0 {
		buf.WriteByte(',')
		key('g')
		buf.WriteByte('{')
		for i, t := range entry.tags.Get() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			escapeString(&buf, t.Key())
			buf.WriteString(`":"`)
			escapeString(&buf, t.ValueStr())
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}

	buf.WriteByte(',')
	key('m')
	buf.WriteByte('"')
	escapeString(&buf, entry.msg)
	buf.WriteString("\"}\n")
	return buf.String()
}

// escapeString writes s escaped for use inside a JSON string.
func escapeString(buf *strings.Builder, s string) {
	const hex = "0123456789abcdef"
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c < 0x20:
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[c>>4])
				buf.WriteByte(hex[c&0xf])
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString(`\ufffd`)
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
}
