// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sqlnative emulates the native call interface on top of
// database/sql, so statements can run against SQLite or MySQL without an
// ODBC driver manager. Escape sequences are rewritten into the syntax of the
// data source and column values are handed out with the GetData protocol.
package sqlnative

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	errOpenConn  = errors.New("open connection failed")
	errCloseConn = errors.New("close connection failed")
)

func init() {
	native.Register(DriverSQLite, &Driver{sqlDriver: "sqlite", dialect: dialectSQLite})
	native.Register(DriverMySQL, &Driver{sqlDriver: "mysql", dialect: dialectMySQL})
}

// Driver opens database/sql connections.
type Driver struct {
	sqlDriver string
	dialect   *dialect
}

// Open opens one connection. A native connection is a single session, so the
// pool is pinned to one connection.
func (d *Driver) Open(dsn string) (native.Conn, error) {
	if d.sqlDriver == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}
	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	db.SetMaxOpenConns(1)
	conn, err := db.Conn(context.Background())
	if err != nil {
		return nil, errors.Collect(errOpenConn, err, db.Close())
	}
	return &Conn{db: db, conn: conn, dialect: d.dialect}, nil
}
