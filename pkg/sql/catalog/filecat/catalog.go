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

// Package filecat implements a static catalog of external tables described by
// a YAML file:
//
//	tables:
//	  - name: orders
//	    type: kudu
//	    rows: 100000
//	    columns:
//	      - {name: id, type: BIGINT}
//	      - {name: region, type: VARCHAR(16), nullable: true}
//	    partitions:
//	      column: id
//	      range:
//	        - {id: 1, to: 1000}
//	        - {id: 2, from: 1000}
//
// System tables from the vtable package resolve as well. The catalog is
// read-only once loaded and may be shared by concurrent readers.
package filecat

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logicalscan/pkg/sql/opt/cat"
	"github.com/cockroachdb/logicalscan/pkg/sql/parser"
	"github.com/cockroachdb/logicalscan/pkg/sql/vtable"
	"github.com/cockroachdb/logicalscan/pkg/util/log"
	"gopkg.in/yaml.v2"
)

type catalogDef struct {
	Tables []tableDef `yaml:"tables"`
}

type tableDef struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	ID         uint64         `yaml:"id"`
	Rows       float64        `yaml:"rows"`
	Columns    []columnDef    `yaml:"columns"`
	Partitions *partitionsDef `yaml:"partitions"`
}

type columnDef struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// Catalog is a cat.Catalog whose tables are loaded from YAML.
type Catalog struct {
	tables map[string]*Table
}

var _ cat.Catalog = (*Catalog)(nil)

// Table is a table of the catalog.
type Table struct {
	id    cat.StableID
	name  string
	typ   cat.TableType
	cols  []cat.Column
	rows  float64
	parts *partitioning
}

var _ cat.Table = (*Table)(nil)

// LoadFile loads a catalog from the YAML file at path.
func LoadFile(ctx context.Context, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog")
	}
	c, err := Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading catalog %s", path)
	}
	log.Infof(ctx, "loaded %d tables from %s", len(c.tables), log.Safe(path))
	return c, nil
}

// Load parses a catalog from YAML.
func Load(data []byte) (*Catalog, error) {
	var def catalogDef
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}
	c := &Catalog{tables: make(map[string]*Table, len(def.Tables))}
	for i := range def.Tables {
		td := &def.Tables[i]
		t, err := makeTable(td, i)
		if err != nil {
			return nil, errors.Wrapf(err, "table %q", td.Name)
		}
		if _, ok := c.tables[t.name]; ok {
			return nil, errors.Newf("duplicate table %q", t.name)
		}
		c.tables[t.name] = t
	}
	return c, nil
}

func makeTable(td *tableDef, idx int) (*Table, error) {
	if td.Name == "" {
		return nil, errors.New("table name is required")
	}
	typ, ok := cat.ParseTableType(strings.ToLower(td.Type))
	if !ok || typ == cat.SchemaTable {
		return nil, errors.Newf("unsupported table type %q", td.Type)
	}
	if len(td.Columns) == 0 {
		return nil, errors.New("table has no columns")
	}
	t := &Table{
		id:   cat.StableID(td.ID),
		name: strings.ToLower(td.Name),
		typ:  typ,
		rows: td.Rows,
	}
	if t.id == 0 {
		t.id = cat.StableID(idx + 1)
	}
	seen := make(map[string]struct{}, len(td.Columns))
	for _, cd := range td.Columns {
		col, err := makeColumn(cd)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[col.Name]; ok {
			return nil, errors.Newf("duplicate column %q", col.Name)
		}
		seen[col.Name] = struct{}{}
		t.cols = append(t.cols, col)
	}
	if td.Partitions != nil {
		p, err := makePartitioning(t, td.Partitions)
		if err != nil {
			return nil, errors.Wrap(err, "partitions")
		}
		t.parts = p
	}
	return t, nil
}

func makeColumn(cd columnDef) (cat.Column, error) {
	if cd.Name == "" {
		return cat.Column{}, errors.Newf("invalid column %q of type %q", cd.Name, cd.Type)
	}
	typ, width, err := parser.ParseColumnType(cd.Type)
	if err != nil {
		return cat.Column{}, errors.Wrapf(err, "column %q", cd.Name)
	}
	family, ok := cat.ParseFamily(typ)
	if !ok {
		return cat.Column{}, errors.Newf("column %q: unsupported type %q", cd.Name, cd.Type)
	}
	return cat.Column{Name: strings.ToLower(cd.Name), Family: family, Width: width, Nullable: cd.Nullable}, nil
}

// ResolveTable is part of the cat.Catalog interface. Names that are not
// found in the file are looked up among the system tables.
func (c *Catalog) ResolveTable(ctx context.Context, name string) (cat.Table, error) {
	if t, ok := c.tables[strings.ToLower(name)]; ok {
		return t, nil
	}
	if t, err := (vtable.Catalog{}).ResolveTable(ctx, name); err == nil {
		return t, nil
	}
	return nil, errors.Newf("table %q does not exist", name)
}

// Tables returns the tables of the catalog ordered by name. System tables
// are not included.
func (c *Catalog) Tables() []*Table {
	res := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].name < res[j].name })
	return res
}

// ID is part of the cat.Table interface.
func (t *Table) ID() cat.StableID { return t.id }

// Name is part of the cat.Table interface.
func (t *Table) Name() string { return t.name }

// Type is part of the cat.Table interface.
func (t *Table) Type() cat.TableType { return t.typ }

// ColumnCount is part of the cat.Table interface.
func (t *Table) ColumnCount() int { return len(t.cols) }

// Column is part of the cat.Table interface.
func (t *Table) Column(i cat.ColumnOrdinal) *cat.Column { return &t.cols[i] }

// IsPartitioned is part of the cat.Table interface.
func (t *Table) IsPartitioned() bool { return t.parts != nil }

// PartitionColumn is part of the cat.Table interface.
func (t *Table) PartitionColumn() cat.ColumnOrdinal {
	if t.parts == nil {
		return 0
	}
	return t.parts.col
}

// PartitionCount is part of the cat.Table interface.
func (t *Table) PartitionCount() int {
	if t.parts == nil {
		return 0
	}
	return len(t.parts.parts)
}

// RowCount is part of the cat.Table interface.
func (t *Table) RowCount() float64 { return t.rows }
