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

// Package optbuilder constructs the initial scan operator of a query from a
// table name, an optional filter and an optional row limit. The result is
// handed to the optimizer for exploration.
package optbuilder

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/logical"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
)

// Builder holds the context needed to build scans of the tables of a catalog.
// Column ids are allocated in md, which may be shared with other builders.
type Builder struct {
	ctx     context.Context
	catalog cat.Catalog
	md      *opt.Metadata
}

// New creates a new Builder.
func New(ctx context.Context, catalog cat.Catalog, md *opt.Metadata) *Builder {
	return &Builder{ctx: ctx, catalog: catalog, md: md}
}

// Build resolves the named table, registers it in the metadata and returns a
// scan of all its columns. filter is a conjunction of comparisons as accepted
// by scalar.ParseFilter; it may be empty. limit is opt.NoLimit or a
// non-negative row count.
//
// Errors caused by the input are returned. Internal errors are raised as
// assertion failures by the code building the operator; they are caught and
// returned as well.
func (b *Builder) Build(tableName, filter string, limit int64) (_ logical.Operator, err error) {
	defer opt.CatchOptimizerError(&err)

	tab, err := b.catalog.ResolveTable(b.ctx, strings.TrimSpace(tableName))
	if err != nil {
		return nil, err
	}
	tabID := b.md.AddTable(tab, "")
	pred, err := scalar.ParseFilter(filter, makeTableScope(b.md, tabID).resolve)
	if err != nil {
		return nil, errors.Wrapf(err, "filter on %s", tab.Name())
	}
	op, err := BuildScan(b.md, tabID, pred, limit)
	if err != nil {
		return nil, err
	}
	log.VEventf(b.ctx, 2, "built %s", op)
	return op, nil
}

// BuildScan returns a scan of every column of the table registered under
// tabID. The scan variant is chosen by the table type. filter may be nil.
func BuildScan(
	md *opt.Metadata, tabID opt.TableID, filter scalar.Expr, limit int64,
) (logical.Operator, error) {
	if !opt.ValidLimit(limit) {
		return nil, errors.Newf("invalid limit %d", limit)
	}
	tab := md.TableMeta(tabID).Table
	for _, col := range scalar.OuterCols(filter) {
		if md.ColumnMeta(col).Table != tabID {
			return nil, errors.Newf("filter references column %d, which does not belong to %s", col, tab.Name())
		}
	}
	switch tab.Type() {
	case cat.KuduTable:
		return buildVariant[logical.KuduScan](tab, tabID, filter, limit), nil
	case cat.HiveTable:
		return buildVariant[logical.HiveScan](tab, tabID, filter, limit), nil
	case cat.IcebergTable:
		return buildVariant[logical.IcebergScan](tab, tabID, filter, limit), nil
	case cat.JDBCTable:
		return buildVariant[logical.JDBCScan](tab, tabID, filter, limit), nil
	case cat.SchemaTable:
		return buildVariant[logical.SchemaScan](tab, tabID, filter, limit), nil
	}
	return nil, errors.Newf("scans of %s tables are not supported", tab.Type())
}

func buildVariant[T any, PT logical.Variant[T]](
	tab cat.Table, tabID opt.TableID, filter scalar.Expr, limit int64,
) PT {
	b := logical.NewBuilder[T, PT]().SetTable(tab).SetLimit(limit).SetPredicate(filter)
	for i := 0; i < tab.ColumnCount(); i++ {
		b.AddColumn(tabID.ColumnID(i), i)
	}
	return b.Build()
}
