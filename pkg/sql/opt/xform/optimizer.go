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

// Package xform explores alternative forms of a scan and picks the cheapest
// one. Alternatives are derived by rules that are applied concurrently, and
// are collected in a memo group together with the original scan.
package xform

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/memo"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
	"github.com/cockroachdb/logicalscan/pkg/util/syncutil"
	"github.com/cockroachdb/logtags"
	"golang.org/x/sync/errgroup"
)

// Optimizer explores and costs the alternatives of a scan.
type Optimizer struct {
	opts    Options
	pruner  PartitionPruner
	metrics *Metrics
	coster  Coster
	rules   []ruleEntry

	// errEvery rate limits the warnings logged for internal errors.
	errEvery *log.EveryN
}

type ruleEntry struct {
	name RuleName
	rule rule
}

// Result is the outcome of an optimization.
type Result struct {
	// Best is the cheapest alternative.
	Best logical.Operator
	// Cost is the cost of Best.
	Cost memo.Cost
	// Alternatives is the number of alternatives in the memo group, the
	// original scan included.
	Alternatives int
	// Rounds is the number of exploration rounds that ran.
	Rounds int
	// EmptyOutput is true if an alternative was found that is known to
	// produce no rows. Best is that alternative.
	EmptyOutput bool
	// Memo holds the explored alternatives.
	Memo *memo.Memo
}

// NewOptimizer creates an optimizer. pruner may be nil, in which case no
// partitions are pruned. metrics may be nil.
func NewOptimizer(opts Options, pruner PartitionPruner, metrics *Metrics) *Optimizer {
	if metrics == nil {
		metrics = NewMetrics()
	}
	o := &Optimizer{opts: opts, pruner: pruner, metrics: metrics, errEvery: log.Every(10 * time.Second)}
	if opts.SplitPredicates {
		o.rules = append(o.rules, ruleEntry{SplitScanPredicates, predicateRule(splitScanPredicates)})
	}
	if opts.PartitionPruning && pruner != nil {
		o.rules = append(o.rules, ruleEntry{PruneScanPartitions, predicateRule(pruneScanPartitions)})
	}
	return o
}

// Optimize explores the alternatives of root and returns the cheapest one. If
// limit is not opt.NoLimit, it is pushed into the scan first.
//
// Exploration runs in rounds. In each round, the rules are applied to every
// alternative found in the previous round, using up to Options.MaxWorkers
// goroutines. Exploration stops when a round finds nothing new, when
// Options.MaxRounds is reached, or as soon as an alternative with no output
// rows is found.
//
// Internal errors raised as panics while exploring are returned as errors.
func (o *Optimizer) Optimize(
	ctx context.Context, root logical.Operator, limit int64,
) (Result, error) {
	if err := o.opts.Validate(); err != nil {
		return Result{}, err
	}
	if !opt.ValidLimit(limit) {
		return Result{}, errors.Newf("invalid limit %d", limit)
	}
	ctx = logtags.AddTag(ctx, "scan", root.Table().Name())
	res, err := o.optimize(ctx, root, limit)
	if err != nil {
		if ctx.Err() == nil {
			o.metrics.InternalErrors.Inc()
			if o.errEvery.ShouldLog() {
				log.Warningf(ctx, "optimizing %s: %v", root, err)
			}
		}
		return Result{}, err
	}
	if res.EmptyOutput {
		o.metrics.EmptyOutputScans.Inc()
		log.VEventf(ctx, 1, "%s produces no rows", res.Best)
	}
	return res, nil
}

func (o *Optimizer) optimize(
	ctx context.Context, root logical.Operator, limit int64,
) (res Result, err error) {
	defer opt.CatchOptimizerError(&err)

	if limit != opt.NoLimit {
		root = logical.Accept[logical.Operator, int64](root, limitPusher{}, limit)
	}

	m := memo.New()
	grp, _ := m.AddGroup(root)
	var empty atomic.Bool
	empty.Store(root.IsEmptyOutputRows())

	frontier := []logical.Operator{root}
	rounds := 0
	for ; rounds < o.opts.MaxRounds && len(frontier) > 0 && !empty.Load(); rounds++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var mu syncutil.Mutex
		var next []logical.Operator

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(o.opts.MaxWorkers)
		for _, op := range frontier {
			op := op
			g.Go(func() (err error) {
				defer opt.CatchOptimizerError(&err)
				for _, alt := range o.explore(gCtx, op) {
					if !m.AddToGroup(grp, alt) {
						continue
					}
					o.metrics.AlternativesAdded.Inc()
					if alt.IsEmptyOutputRows() {
						empty.Store(true)
					}
					mu.Lock()
					next = append(next, alt)
					mu.Unlock()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		log.VEventf(ctx, 2, "round %d added %d alternatives", rounds+1, len(next))
		frontier = next
	}
	o.metrics.Rounds.Observe(float64(rounds))

	res = o.pickBest(m, grp)
	res.Rounds = rounds
	return res, nil
}

// explore applies every enabled rule to op and returns the alternatives they
// produced.
func (o *Optimizer) explore(ctx context.Context, op logical.Operator) []logical.Operator {
	rc := &ruleContext{ctx: ctx, pruner: o.pruner}
	var alts []logical.Operator
	for _, r := range o.rules {
		alt := logical.Accept[logical.Operator](op, r.rule, rc)
		if alt == nil {
			continue
		}
		o.metrics.RuleApplications.WithLabelValues(r.name.String()).Inc()
		if log.V(3) {
			log.Infof(ctx, "%s: %s", r.name, alt)
		}
		alts = append(alts, alt)
	}
	return alts
}

// pickBest costs every alternative of the group and records the cheapest in
// the memo. Alternatives are visited in a canonical order, so that ties are
// resolved the same way however the exploration was scheduled.
func (o *Optimizer) pickBest(m *memo.Memo, grp memo.GroupID) Result {
	exprs := m.Exprs(grp)
	type costed struct {
		ord  memo.ExprOrdinal
		text string
		cost memo.Cost
	}
	all := make([]costed, len(exprs))
	for i, e := range exprs {
		all[i] = costed{ord: memo.ExprOrdinal(i), text: e.String(), cost: o.coster.ComputeCost(e)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ord == 0 || all[j].ord == 0 {
			return all[i].ord == 0
		}
		return all[i].text < all[j].text
	})
	for _, c := range all {
		m.SetBest(grp, c.ord, c.cost)
	}
	best, cost, _ := m.Best(grp)
	return Result{
		Best:         best,
		Cost:         cost,
		Alternatives: len(exprs),
		EmptyOutput:  best.IsEmptyOutputRows(),
		Memo:         m,
	}
}
