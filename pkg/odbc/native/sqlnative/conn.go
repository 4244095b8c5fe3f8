// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlnative

import (
	"database/sql"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

var _ native.Conn = (*Conn)(nil)

// Conn is one pinned database/sql connection.
type Conn struct {
	db      *sql.DB
	conn    *sql.Conn
	dialect *dialect
	diags   []native.Diag
}

func (c *Conn) AllocStmt() (native.Stmt, native.Return) {
	c.diags = nil
	if c.conn == nil {
		c.diags = []native.Diag{newDiag(stateConnNotOpen, "connection is closed")}
		return nil, native.Error
	}
	return &Stmt{conn: c, affected: -1}, native.Success
}

func (c *Conn) Diagnostics() []native.Diag {
	return c.diags
}

func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := errors.Collect(errCloseConn, c.conn.Close(), c.db.Close())
	c.conn = nil
	return err
}
