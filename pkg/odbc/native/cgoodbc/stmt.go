// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build odbc && cgo

package cgoodbc

/*
#include <stdlib.h>
#include <string.h>
#include <sql.h>
#include <sqlext.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

const maxColumnNameLen = 256

var _ native.Stmt = (*Stmt)(nil)

// cParam is a parameter buffer in C memory. The driver reads it during
// execution, so it lives until the parameters are reset.
type cParam struct {
	param *native.Param
	data  unsafe.Pointer
	size  int
	ind   *C.SQLLEN
}

func (p *cParam) free() {
	if p.data != nil {
		C.free(p.data)
	}
	C.free(unsafe.Pointer(p.ind))
}

// Stmt wraps a SQLHSTMT.
type Stmt struct {
	h      C.SQLHSTMT
	dbc    C.SQLHDBC
	params map[int]*cParam
	// tokens maps the value pointer of a data-at-exec parameter back to its position.
	tokens map[unsafe.Pointer]int
	rc     native.Return
	// nativeDiags holds the records of a failed SQLNativeSql, which
	// reports on the connection handle.
	nativeDiags []native.Diag
}

func (s *Stmt) handle() C.SQLHANDLE {
	return C.SQLHANDLE(s.h)
}

func (s *Stmt) ret(rc C.SQLRETURN) native.Return {
	s.nativeDiags = nil
	s.rc = native.Return(rc)
	return s.rc
}

func (s *Stmt) Prepare(query string) native.Return {
	cq := C.CString(query)
	defer C.free(unsafe.Pointer(cq))
	return s.ret(C.SQLPrepare(s.h, (*C.SQLCHAR)(unsafe.Pointer(cq)), C.SQL_NTS))
}

func (s *Stmt) NumParams() (int, native.Return) {
	var n C.SQLSMALLINT
	rc := s.ret(C.SQLNumParams(s.h, &n))
	return int(n), rc
}

func (s *Stmt) NumResultCols() (int, native.Return) {
	var n C.SQLSMALLINT
	rc := s.ret(C.SQLNumResultCols(s.h, &n))
	return int(n), rc
}

func (s *Stmt) DescribeCol(col int) (native.ColumnDesc, native.Return) {
	name := (*C.SQLCHAR)(C.malloc(maxColumnNameLen))
	defer C.free(unsafe.Pointer(name))
	var nameLen, dataType, digits, nullable C.SQLSMALLINT
	var size C.SQLULEN
	rc := s.ret(C.SQLDescribeCol(s.h, C.SQLUSMALLINT(col), name, maxColumnNameLen, &nameLen, &dataType, &size, &digits, &nullable))
	if rc.IsError() {
		return native.ColumnDesc{}, rc
	}
	n := min(int(nameLen), maxColumnNameLen-1)
	return native.ColumnDesc{
		Name:          C.GoStringN((*C.char)(unsafe.Pointer(name)), C.int(n)),
		Type:          native.SQLType(dataType),
		Size:          uint64(size),
		DecimalDigits: int16(digits),
		Nullable:      native.Nullability(nullable),
	}, rc
}

func (s *Stmt) BindParameter(pos int, p *native.Param) native.Return {
	cp := &cParam{param: p, ind: (*C.SQLLEN)(C.malloc(C.size_t(unsafe.Sizeof(C.SQLLEN(0)))))}
	*cp.ind = C.SQLLEN(p.Indicator)
	switch {
	case p.Indicator == native.DataAtExec:
		// The value pointer is only a token returned by SQLParamData.
		cp.data = C.malloc(1)
		*cp.ind = C.SQL_DATA_AT_EXEC
	case len(p.Data) > 0:
		cp.size = len(p.Data)
		cp.data = C.CBytes(p.Data)
	}
	if s.params == nil {
		s.params = make(map[int]*cParam)
		s.tokens = make(map[unsafe.Pointer]int)
	}
	if old, ok := s.params[pos]; ok {
		delete(s.tokens, old.data)
		old.free()
	}
	s.params[pos] = cp
	if p.Indicator == native.DataAtExec {
		s.tokens[cp.data] = pos
	}
	return s.ret(C.SQLBindParameter(s.h, C.SQLUSMALLINT(pos), C.SQLSMALLINT(p.Direction),
		C.SQLSMALLINT(p.CType), C.SQLSMALLINT(p.SQLType), C.SQLULEN(p.ColumnSize), 0,
		C.SQLPOINTER(cp.data), C.SQLLEN(cp.size), cp.ind))
}

func (s *Stmt) ResetParams() native.Return {
	rc := s.ret(C.SQLFreeStmt(s.h, C.SQL_RESET_PARAMS))
	s.freeParams()
	return rc
}

func (s *Stmt) freeParams() {
	for _, cp := range s.params {
		cp.free()
	}
	s.params = nil
	s.tokens = nil
}

func (s *Stmt) Execute() native.Return {
	rc := s.ret(C.SQLExecute(s.h))
	if rc.Succeeded() || rc == native.NoData {
		s.syncOutputs()
	}
	return rc
}

func (s *Stmt) ParamData() (int, native.Return) {
	var token C.SQLPOINTER
	rc := s.ret(C.SQLParamData(s.h, &token))
	if rc == native.NeedData {
		return s.tokens[unsafe.Pointer(token)], rc
	}
	if rc.Succeeded() || rc == native.NoData {
		s.syncOutputs()
	}
	return 0, rc
}

// syncOutputs copies the values of output parameters back to Go memory.
func (s *Stmt) syncOutputs() {
	for _, cp := range s.params {
		if cp.param.Direction == native.ParamInput || cp.data == nil {
			continue
		}
		copy(cp.param.Data, unsafe.Slice((*byte)(cp.data), cp.size))
		cp.param.Indicator = int64(*cp.ind)
	}
}

func (s *Stmt) PutData(chunk []byte, ind int64) native.Return {
	if ind == native.NullData || len(chunk) == 0 {
		return s.ret(C.SQLPutData(s.h, nil, C.SQLLEN(ind)))
	}
	data := C.CBytes(chunk)
	defer C.free(data)
	return s.ret(C.SQLPutData(s.h, C.SQLPOINTER(data), C.SQLLEN(ind)))
}

func (s *Stmt) Cancel() native.Return {
	return s.ret(C.SQLCancel(s.h))
}

func (s *Stmt) RowCount() (int64, native.Return) {
	var n C.SQLLEN
	rc := s.ret(C.SQLRowCount(s.h, &n))
	return int64(n), rc
}

func (s *Stmt) Fetch() native.Return {
	return s.ret(C.SQLFetch(s.h))
}

// GetData reads into C memory first. Character data gets room for the
// terminating NUL, so buf receives exactly len(buf) bytes of the value.
func (s *Stmt) GetData(col int, ctype native.CType, buf []byte) (int64, native.Return) {
	size := len(buf)
	if ctype == native.CChar {
		size++
	}
	cbuf := C.malloc(C.size_t(max(size, 1)))
	defer C.free(cbuf)
	var ind C.SQLLEN
	rc := s.ret(C.SQLGetData(s.h, C.SQLUSMALLINT(col), C.SQLSMALLINT(ctype), C.SQLPOINTER(cbuf), C.SQLLEN(size), &ind))
	if !rc.Succeeded() {
		return int64(ind), rc
	}
	n := len(buf)
	if ind >= 0 && int(ind) < n {
		n = int(ind)
	}
	if n > 0 {
		copy(buf, unsafe.Slice((*byte)(cbuf), n))
	}
	return int64(ind), rc
}

// NativeSQL runs SQLNativeSql on the connection that owns the statement.
func (s *Stmt) NativeSQL(query string) (string, native.Return) {
	cq := C.CString(query)
	defer C.free(unsafe.Pointer(cq))
	size := 2*len(query) + 256
	out := (*C.SQLCHAR)(C.malloc(C.size_t(size)))
	defer C.free(unsafe.Pointer(out))
	var outLen C.SQLINTEGER
	rc := native.Return(C.SQLNativeSql(s.dbc, (*C.SQLCHAR)(unsafe.Pointer(cq)), C.SQL_NTS, out, C.SQLINTEGER(size), &outLen))
	s.rc = native.Success
	s.nativeDiags = nil
	if rc.IsError() {
		s.nativeDiags = diagnostics(C.SQL_HANDLE_DBC, C.SQLHANDLE(s.dbc))
		return "", rc
	}
	n := min(int(outLen), size-1)
	return C.GoStringN((*C.char)(unsafe.Pointer(out)), C.int(n)), rc
}

func (s *Stmt) CloseCursor() native.Return {
	return s.ret(C.SQLCloseCursor(s.h))
}

func (s *Stmt) Diagnostics() []native.Diag {
	if s.nativeDiags != nil {
		return s.nativeDiags
	}
	if s.rc == native.Success || s.rc == native.NeedData || s.rc == native.NoData {
		return nil
	}
	return diagnostics(C.SQL_HANDLE_STMT, s.handle())
}

func (s *Stmt) Free() native.Return {
	rc := s.ret(C.SQLFreeHandle(C.SQL_HANDLE_STMT, s.handle()))
	s.freeParams()
	return rc
}
