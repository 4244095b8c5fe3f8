// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build odbc && cgo

package cgoodbc

/*
#cgo linux LDFLAGS: -lodbc
#cgo darwin LDFLAGS: -lodbc
#cgo windows LDFLAGS: -lodbc32
#include <stdlib.h>
#include <string.h>
#include <sql.h>
#include <sqlext.h>

static SQLRETURN allocEnv(SQLHENV *env) {
	SQLRETURN rc = SQLAllocHandle(SQL_HANDLE_ENV, SQL_NULL_HANDLE, env);
	if (!SQL_SUCCEEDED(rc)) {
		return rc;
	}
	return SQLSetEnvAttr(*env, SQL_ATTR_ODBC_VERSION, (SQLPOINTER)SQL_OV_ODBC3, 0);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

const DriverName = "odbc"

const maxMessageLen = 1024

var (
	errAllocEnv  = errors.New("allocate ODBC environment failed")
	errConnect   = errors.New("connect to data source failed")
	errCloseConn = errors.New("close connection failed")
)

func init() {
	native.Register(DriverName, &Driver{})
}

// Driver shares one ODBC environment among all connections.
type Driver struct {
	once sync.Once
	env  C.SQLHENV
	err  error
}

func (d *Driver) init() error {
	d.once.Do(func() {
		if rc := native.Return(C.allocEnv(&d.env)); rc.IsError() {
			d.err = errors.Wrapf(errAllocEnv, "%s", rc)
		}
	})
	return d.err
}

// Open connects with SQLDriverConnect, dsn is an ODBC connection string.
func (d *Driver) Open(dsn string) (native.Conn, error) {
	if err := d.init(); err != nil {
		return nil, err
	}
	var dbc C.SQLHDBC
	if rc := native.Return(C.SQLAllocHandle(C.SQL_HANDLE_DBC, C.SQLHANDLE(d.env), (*C.SQLHANDLE)(unsafe.Pointer(&dbc)))); rc.IsError() {
		return nil, errors.Wrapf(errConnect, "%s", native.FormatDiags(diagnostics(C.SQL_HANDLE_ENV, C.SQLHANDLE(d.env))))
	}
	cdsn := C.CString(dsn)
	defer C.free(unsafe.Pointer(cdsn))
	rc := native.Return(C.SQLDriverConnect(dbc, nil, (*C.SQLCHAR)(unsafe.Pointer(cdsn)), C.SQL_NTS, nil, 0, nil, C.SQL_DRIVER_NOPROMPT))
	if rc.IsError() {
		diags := diagnostics(C.SQL_HANDLE_DBC, C.SQLHANDLE(dbc))
		C.SQLFreeHandle(C.SQL_HANDLE_DBC, C.SQLHANDLE(dbc))
		return nil, errors.Wrapf(errConnect, "%s", native.FormatDiags(diags))
	}
	return &Conn{dbc: dbc}, nil
}

var _ native.Conn = (*Conn)(nil)

type Conn struct {
	dbc   C.SQLHDBC
	diags []native.Diag
}

func (c *Conn) AllocStmt() (native.Stmt, native.Return) {
	var h C.SQLHSTMT
	rc := native.Return(C.SQLAllocHandle(C.SQL_HANDLE_STMT, C.SQLHANDLE(c.dbc), (*C.SQLHANDLE)(unsafe.Pointer(&h))))
	c.diags = nil
	if rc.IsError() {
		c.diags = diagnostics(C.SQL_HANDLE_DBC, C.SQLHANDLE(c.dbc))
		return nil, rc
	}
	return &Stmt{h: h, dbc: c.dbc}, rc
}

func (c *Conn) Diagnostics() []native.Diag {
	return c.diags
}

func (c *Conn) Close() error {
	if c.dbc == nil {
		return nil
	}
	var errs []error
	if rc := native.Return(C.SQLDisconnect(c.dbc)); rc.IsError() {
		errs = append(errs, errors.New(native.FormatDiags(diagnostics(C.SQL_HANDLE_DBC, C.SQLHANDLE(c.dbc)))))
	}
	if rc := native.Return(C.SQLFreeHandle(C.SQL_HANDLE_DBC, C.SQLHANDLE(c.dbc))); rc.IsError() {
		errs = append(errs, errors.Errorf("SQLFreeHandle returned %s", rc))
	}
	c.dbc = nil
	return errors.Collect(errCloseConn, errs...)
}

// diagnostics reads all diagnostic records of the handle.
func diagnostics(handleType C.SQLSMALLINT, h C.SQLHANDLE) []native.Diag {
	var diags []native.Diag
	state := (*C.SQLCHAR)(C.malloc(6))
	msg := (*C.SQLCHAR)(C.malloc(maxMessageLen))
	defer C.free(unsafe.Pointer(state))
	defer C.free(unsafe.Pointer(msg))
	for i := C.SQLSMALLINT(1); ; i++ {
		var nativeErr C.SQLINTEGER
		var msgLen C.SQLSMALLINT
		rc := native.Return(C.SQLGetDiagRec(handleType, h, i, state, &nativeErr, msg, maxMessageLen, &msgLen))
		if !rc.Succeeded() {
			break
		}
		n := min(int(msgLen), maxMessageLen-1)
		diags = append(diags, native.Diag{
			State:       C.GoStringN((*C.char)(unsafe.Pointer(state)), 5),
			NativeError: int32(nativeErr),
			Message:     C.GoStringN((*C.char)(unsafe.Pointer(msg)), C.int(n)),
		})
	}
	return diags
}
