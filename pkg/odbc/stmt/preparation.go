// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

// Preparation is the result of compiling one statement text on a handle.
// Only the column count and descriptions change after it is created, and they
// are refreshed on every execution.
type Preparation struct {
	stmt       native.Stmt
	sql        string
	storedProc bool
	params     int
	rawColumns int
	descs      []*native.ColumnDesc
}

func newPreparation(stmt native.Stmt, sql string) (*Preparation, error) {
	if rc := stmt.Prepare(sql); rc.IsError() {
		return nil, nativeError(ErrCompile, "SQLPrepare", rc, stmt.Diagnostics())
	}
	params, rc := stmt.NumParams()
	if rc.IsError() {
		return nil, nativeError(ErrCompile, "SQLNumParams", rc, stmt.Diagnostics())
	}
	return &Preparation{
		stmt:       stmt,
		sql:        sql,
		storedProc: IsStoredProcedure(sql),
		params:     params,
	}, nil
}

func (p *Preparation) SQL() string {
	return p.sql
}

func (p *Preparation) IsStoredProcedure() bool {
	return p.storedProc
}

// Params is the number of parameter markers reported by the driver.
func (p *Preparation) Params() int {
	return p.params
}

// RawColumns is the column count reported by the driver for the current result.
func (p *Preparation) RawColumns() int {
	return p.rawColumns
}

// Columns is the column count the caller sees. outputs is the number of
// output bindings of the last execution.
func (p *Preparation) Columns(outputs int, procOutputColumns bool) int {
	return AdjustColumnCount(p.storedProc && procOutputColumns, p.rawColumns, outputs)
}

// refresh reads the shape of the result set produced by the last execution.
func (p *Preparation) refresh() error {
	n, rc := p.stmt.NumResultCols()
	if rc.IsError() {
		return nativeError(ErrExecute, "SQLNumResultCols", rc, p.stmt.Diagnostics())
	}
	p.rawColumns = n
	p.descs = make([]*native.ColumnDesc, n)
	return nil
}

func (p *Preparation) reset() {
	p.rawColumns = 0
	p.descs = nil
}

// describe returns the description of the 0-based column pos.
func (p *Preparation) describe(pos int) (*native.ColumnDesc, error) {
	if pos < 0 || pos >= len(p.descs) {
		return nil, invalidColumnError(pos)
	}
	if p.descs[pos] == nil {
		desc, rc := p.stmt.DescribeCol(pos + 1)
		if rc.IsError() {
			return nil, nativeError(ErrFetch, "SQLDescribeCol", rc, p.stmt.Diagnostics())
		}
		p.descs[pos] = &desc
	}
	return p.descs[pos], nil
}
