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

package logical

import "github.com/cockroachdb/errors"

// Visitor is implemented by passes that operate on scan operators, such as
// costing and rewrite rules. It has one method per operator variant; adding a
// variant adds a method, so every pass must handle it before the code
// compiles again.
//
// R is the result type of the pass and C the type of the context value that
// is passed through Accept. Visitors must not modify the operator they visit.
type Visitor[R, C any] interface {
	VisitKuduScan(op *KuduScan, ctx C) R
	VisitHiveScan(op *HiveScan, ctx C) R
	VisitIcebergScan(op *IcebergScan, ctx C) R
	VisitJDBCScan(op *JDBCScan, ctx C) R
	VisitSchemaScan(op *SchemaScan, ctx C) R
}

// Accept calls the method of v that corresponds to the variant of op, and
// returns its result unchanged.
func Accept[R, C any](op Operator, v Visitor[R, C], ctx C) R {
	switch t := op.(type) {
	case *KuduScan:
		return v.VisitKuduScan(t, ctx)
	case *HiveScan:
		return v.VisitHiveScan(t, ctx)
	case *IcebergScan:
		return v.VisitIcebergScan(t, ctx)
	case *JDBCScan:
		return v.VisitJDBCScan(t, ctx)
	case *SchemaScan:
		return v.VisitSchemaScan(t, ctx)
	}
	panic(errors.AssertionFailedf("unhandled operator %T", op))
}

// VisitorFunc adapts a function into a Visitor that treats every variant the
// same way.
type VisitorFunc[R, C any] func(op Operator, ctx C) R

var _ Visitor[bool, struct{}] = VisitorFunc[bool, struct{}](nil)

// VisitKuduScan is part of the Visitor interface.
func (f VisitorFunc[R, C]) VisitKuduScan(op *KuduScan, ctx C) R { return f(op, ctx) }

// VisitHiveScan is part of the Visitor interface.
func (f VisitorFunc[R, C]) VisitHiveScan(op *HiveScan, ctx C) R { return f(op, ctx) }

// VisitIcebergScan is part of the Visitor interface.
func (f VisitorFunc[R, C]) VisitIcebergScan(op *IcebergScan, ctx C) R { return f(op, ctx) }

// VisitJDBCScan is part of the Visitor interface.
func (f VisitorFunc[R, C]) VisitJDBCScan(op *JDBCScan, ctx C) R { return f(op, ctx) }

// VisitSchemaScan is part of the Visitor interface.
func (f VisitorFunc[R, C]) VisitSchemaScan(op *SchemaScan, ctx C) R { return f(op, ctx) }
