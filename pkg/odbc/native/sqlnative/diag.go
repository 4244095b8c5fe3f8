// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlnative

import (
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"modernc.org/sqlite"
)

// Extra SQLSTATE values raised by the emulation.
const (
	stateWrongParamCount = "07002"
	stateRestrictedType  = "07006"
	stateInvalidCast     = "22018"
	stateIntegrity       = "23000"
	stateTableNotFound   = "42S02"
	stateConnNotOpen     = "08003"
)

// sqliteConstraint is SQLITE_CONSTRAINT, the primary result code of all
// constraint violations.
const sqliteConstraint = 19

// diagFromError maps an error of the database/sql driver to a diagnostic record.
func diagFromError(err error) native.Diag {
	d := native.Diag{State: native.StateGeneralError, Message: err.Error()}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		d.NativeError = int32(myErr.Number)
		d.Message = myErr.Message
		if state := string(myErr.SQLState[:]); strings.Trim(state, "\x00") != "" {
			d.State = state
		}
		return d
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		d.NativeError = int32(liteErr.Code())
		msg := liteErr.Error()
		switch {
		case liteErr.Code()&0xff == sqliteConstraint:
			d.State = stateIntegrity
		case strings.Contains(msg, "syntax error"):
			d.State = native.StateSyntaxError
		case strings.Contains(msg, "no such table"):
			d.State = stateTableNotFound
		}
	}
	return d
}

func newDiag(state, msg string) native.Diag {
	return native.Diag{State: state, Message: msg}
}
