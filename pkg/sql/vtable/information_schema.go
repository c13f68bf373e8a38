// Copyright 2018 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package vtable

// Identifiers are quoted because several column names (NAME, VALUE, TABLES)
// are MySQL keywords.

// InformationSchemaTables describes the schema of the
// information_schema.tables table, which lists the tables known to the
// catalog.
const InformationSchemaTables = `
CREATE TABLE information_schema.` + "`tables`" + ` (
  ` + "`TABLE_NAME`" + `      VARCHAR(256) NOT NULL,
  ` + "`TABLE_TYPE`" + `      VARCHAR(16) NOT NULL,
  ` + "`PARTITION_COUNT`" + ` BIGINT NOT NULL,
  ` + "`ROW_COUNT`" + `       BIGINT NOT NULL
)`

// BEMetrics describes the schema of the information_schema.be_metrics table,
// which exposes the metrics of each backend as rows.
const BEMetrics = `
CREATE TABLE information_schema.be_metrics (
  ` + "`BE_ID`" + `  BIGINT NOT NULL,
  ` + "`NAME`" + `   VARCHAR(2048) NOT NULL,
  ` + "`LABELS`" + ` VARCHAR(2048),
  ` + "`VALUE`" + `  BIGINT
)`
