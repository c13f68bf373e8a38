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
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the optimizer does. A single Metrics may be shared by
// any number of optimizers.
type Metrics struct {
	RuleApplications  *prometheus.CounterVec
	AlternativesAdded prometheus.Counter
	EmptyOutputScans  prometheus.Counter
	InternalErrors    prometheus.Counter
	Rounds            prometheus.Histogram
}

// NewMetrics creates the optimizer metrics. They are not registered.
func NewMetrics() *Metrics {
	return &Metrics{
		RuleApplications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scanopt",
			Name:      "rule_applications_total",
			Help:      "Number of times an exploration rule produced an alternative.",
		}, []string{"rule"}),
		AlternativesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanopt",
			Name:      "alternatives_added_total",
			Help:      "Number of new alternatives added to the memo.",
		}),
		EmptyOutputScans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanopt",
			Name:      "empty_output_scans_total",
			Help:      "Number of optimizations that found a scan with no output rows.",
		}),
		InternalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanopt",
			Name:      "internal_errors_total",
			Help:      "Number of optimizations that failed with an internal error.",
		}),
		Rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scanopt",
			Name:      "exploration_rounds",
			Help:      "Number of exploration rounds per optimization.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}
}

// Register registers all metrics with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.RuleApplications, m.AlternativesAdded, m.EmptyOutputScans, m.InternalErrors, m.Rounds,
	} {
		if err := r.Register(c); err != nil {
			return errors.Wrap(err, "registering optimizer metrics")
		}
	}
	return nil
}
