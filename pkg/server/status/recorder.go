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

// Package status exposes the metrics of a backend as rows of the
// information_schema.be_metrics table.
package status

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/catalog/catconstants"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/logicalscan/pkg/sql/vtable"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	prometheusgo "github.com/prometheus/client_model/go"
)

// Ordinals of the be_metrics columns.
const (
	beIDOrdinal cat.ColumnOrdinal = iota
	nameOrdinal
	labelsOrdinal
	valueOrdinal
)

// Row is a row of be_metrics.
type Row struct {
	BEID int64
	Name string
	// Labels is empty for metrics without labels, which is read as NULL.
	Labels string
	Value  int64
}

// Datum returns the value of the column with the given ordinal. ok is false
// if the value is NULL.
func (r *Row) Datum(ord cat.ColumnOrdinal) (_ scalar.Datum, ok bool) {
	switch ord {
	case beIDOrdinal:
		return scalar.DInt(r.BEID), true
	case nameOrdinal:
		return scalar.DString(r.Name), true
	case labelsOrdinal:
		if r.Labels == "" {
			return nil, false
		}
		return scalar.DString(r.Labels), true
	case valueOrdinal:
		return scalar.DInt(r.Value), true
	}
	panic(errors.AssertionFailedf("be_metrics has no column %d", ord))
}

// MetricsRecorder produces the be_metrics rows of one backend from the
// metrics gathered by a prometheus registry.
type MetricsRecorder struct {
	beID     int64
	gatherer prometheus.Gatherer
}

// NewMetricsRecorder creates a recorder for the backend with the given id.
func NewMetricsRecorder(beID int64, gatherer prometheus.Gatherer) *MetricsRecorder {
	return &MetricsRecorder{beID: beID, gatherer: gatherer}
}

// Rows returns a row per metric, ordered by name and labels. Histograms and
// summaries produce a _count and a _sum row. Values are rounded to the
// nearest integer. Metrics whose value is not finite or does not fit in a
// BIGINT are skipped.
func (r *MetricsRecorder) Rows(ctx context.Context) ([]Row, error) {
	families, err := r.gatherer.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gathering metrics")
	}
	nameWidth := vtable.BEMetricsTable.Column(nameOrdinal).Width
	labelsWidth := vtable.BEMetricsTable.Column(labelsOrdinal).Width

	var rows []Row
	add := func(name, labels string, v float64) {
		rounded := math.Round(v)
		if math.IsNaN(v) || rounded < math.MinInt64 || rounded >= math.MaxInt64 {
			log.VEventf(ctx, 2, "skipping metric %s%s with value %v", name, labels, v)
			return
		}
		rows = append(rows, Row{
			BEID:   r.beID,
			Name:   truncate(name, nameWidth),
			Labels: truncate(labels, labelsWidth),
			Value:  int64(rounded),
		})
	}
	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case prometheusgo.MetricType_COUNTER:
				add(name, labels, m.GetCounter().GetValue())
			case prometheusgo.MetricType_GAUGE:
				add(name, labels, m.GetGauge().GetValue())
			case prometheusgo.MetricType_UNTYPED:
				add(name, labels, m.GetUntyped().GetValue())
			case prometheusgo.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				add(name+"_count", labels, float64(h.GetSampleCount()))
				add(name+"_sum", labels, h.GetSampleSum())
			case prometheusgo.MetricType_SUMMARY:
				s := m.GetSummary()
				add(name+"_count", labels, float64(s.GetSampleCount()))
				add(name+"_sum", labels, s.GetSampleSum())
			default:
				log.Warningf(ctx, "metric %s has unsupported type %s", name, log.Safe(mf.GetType()))
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Labels < rows[j].Labels
	})
	return rows, nil
}

// Scan returns the rows produced by a scan of be_metrics: the rows that
// satisfy the scan's predicate, up to its limit.
func (r *MetricsRecorder) Scan(ctx context.Context, op *logical.SchemaScan) ([]Row, error) {
	if id := op.Table().ID(); id != cat.StableID(catconstants.BEMetricsTableID) {
		return nil, errors.Newf("%s is not a scan of be_metrics", op)
	}
	if op.Limit() == 0 || op.IsEmptyOutputRows() {
		return nil, nil
	}
	all, err := r.Rows(ctx)
	if err != nil {
		return nil, err
	}
	pred := op.Predicate()
	m := op.ColumnMapping()
	var res []Row
	for i := range all {
		row := &all[i]
		if pred != nil && !scalar.EvalFilter(pred, func(col opt.ColumnID) (scalar.Datum, bool) {
			ord, ok := m.Ordinal(col)
			if !ok {
				panic(errors.AssertionFailedf("column %d is not scanned by %s", col, op))
			}
			return row.Datum(ord)
		}) {
			continue
		}
		res = append(res, *row)
		if op.Limit() != opt.NoLimit && int64(len(res)) >= op.Limit() {
			break
		}
	}
	return res, nil
}

// formatLabels formats label pairs the way the prometheus text format does,
// e.g. {rule="SplitScanPredicates"}. The client library sorts labels by name.
func formatLabels(pairs []*prometheusgo.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.GetName())
		b.WriteString(`="`)
		b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(p.GetValue()))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// truncate shortens s to at most width bytes without splitting a UTF-8
// sequence. A width of zero means unbounded.
func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	// Back up to the start of the rune that straddles the cut, if any. Bytes
	// before it are kept even if they are not valid UTF-8.
	for cut := width; cut > 0 && cut > width-utf8.UTFMax; cut-- {
		if utf8.RuneStart(s[cut]) {
			return s[:cut]
		}
	}
	return s[:width]
}
