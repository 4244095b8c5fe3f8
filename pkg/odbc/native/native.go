// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package native is the call interface between the statement engine and an
// ODBC driver. The methods mirror the ODBC C functions of the same name and
// report their outcome as a Return code; the details of a failure are read
// with Diagnostics right after the call.
package native

import (
	"fmt"
	"strings"
)

// Return mirrors SQLRETURN.
type Return int16

const (
	Success         Return = 0
	SuccessWithInfo Return = 1
	StillExecuting  Return = 2
	NeedData        Return = 99
	NoData          Return = 100
	Error           Return = -1
	InvalidHandle   Return = -2
)

// Succeeded reports SQL_SUCCEEDED(rc).
func (r Return) Succeeded() bool {
	return r == Success || r == SuccessWithInfo
}

// IsError reports whether the call failed. NeedData and NoData are part of
// the normal protocol.
func (r Return) IsError() bool {
	switch r {
	case Success, SuccessWithInfo, NeedData, NoData:
		return false
	}
	return true
}

func (r Return) String() string {
	switch r {
	case Success:
		return "SQL_SUCCESS"
	case SuccessWithInfo:
		return "SQL_SUCCESS_WITH_INFO"
	case StillExecuting:
		return "SQL_STILL_EXECUTING"
	case NeedData:
		return "SQL_NEED_DATA"
	case NoData:
		return "SQL_NO_DATA"
	case Error:
		return "SQL_ERROR"
	case InvalidHandle:
		return "SQL_INVALID_HANDLE"
	}
	return fmt.Sprintf("SQLRETURN(%d)", int16(r))
}

// Length and indicator values.
const (
	NullData   int64 = -1
	DataAtExec int64 = -2
	NoTotal    int64 = -4
)

// CType is the C data type of a buffer, SQL_C_*.
type CType int16

const (
	CChar          CType = 1
	CDouble        CType = 8
	CBinary        CType = -2
	CBit           CType = -7
	CSBigInt       CType = -25
	CTypeTimestamp CType = 93
)

// SQLType is the SQL data type of a column or a parameter, SQL_*.
type SQLType int16

const (
	TypeUnknown       SQLType = 0
	TypeChar          SQLType = 1
	TypeNumeric       SQLType = 2
	TypeDecimal       SQLType = 3
	TypeInteger       SQLType = 4
	TypeSmallInt      SQLType = 5
	TypeFloat         SQLType = 6
	TypeReal          SQLType = 7
	TypeDouble        SQLType = 8
	TypeVarchar       SQLType = 12
	TypeBoolean       SQLType = 16
	TypeDate          SQLType = 91
	TypeTime          SQLType = 92
	TypeTimestamp     SQLType = 93
	TypeLongVarchar   SQLType = -1
	TypeBinary        SQLType = -2
	TypeVarBinary     SQLType = -3
	TypeLongVarBinary SQLType = -4
	TypeBigInt        SQLType = -5
	TypeTinyInt       SQLType = -6
	TypeBit           SQLType = -7
	TypeWChar         SQLType = -8
	TypeWVarchar      SQLType = -9
	TypeWLongVarchar  SQLType = -10
	TypeGUID          SQLType = -11
)

// IsLong reports types whose values are unbounded and read in chunks.
func (t SQLType) IsLong() bool {
	switch t {
	case TypeLongVarchar, TypeWLongVarchar, TypeLongVarBinary:
		return true
	}
	return false
}

// Nullability mirrors SQL_NO_NULLS, SQL_NULLABLE and SQL_NULLABLE_UNKNOWN.
type Nullability int16

const (
	NoNulls         Nullability = 0
	Nullable        Nullability = 1
	NullableUnknown Nullability = 2
)

// ParamDirection mirrors SQL_PARAM_INPUT, SQL_PARAM_INPUT_OUTPUT and SQL_PARAM_OUTPUT.
type ParamDirection int16

const (
	ParamInput       ParamDirection = 1
	ParamInputOutput ParamDirection = 2
	ParamOutput      ParamDirection = 4
)

// Well-known SQLSTATE values.
const (
	StateWarning             = "01000"
	StateRightTruncated      = "01004"
	StateInvalidCursorState  = "24000"
	StateFunctionSequence    = "HY010"
	StateInvalidDescriptor   = "07009"
	StateOptionalFeature     = "HYC00"
	StateGeneralError        = "HY000"
	StateSyntaxError         = "42000"
	StateInvalidStringLength = "HY090"
)

// Diag is one diagnostic record, as returned by SQLGetDiagRec.
type Diag struct {
	State       string `json:"state"`
	NativeError int32  `json:"native_error"`
	Message     string `json:"message"`
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] (%d) %s", d.State, d.NativeError, d.Message)
}

// FormatDiags joins diagnostic records for error messages.
func FormatDiags(diags []Diag) string {
	parts := make([]string, 0, len(diags))
	for _, d := range diags {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

// HasState reports whether any record carries the SQLSTATE.
func HasState(diags []Diag, state string) bool {
	for _, d := range diags {
		if d.State == state {
			return true
		}
	}
	return false
}

// ColumnDesc is the result of SQLDescribeCol.
type ColumnDesc struct {
	Name          string
	Type          SQLType
	Size          uint64
	DecimalDigits int16
	Nullable      Nullability
}

// Param describes one parameter marker for BindParameter.
//
// Data holds the value in the layout of CType. Indicator is the length of the
// value, NullData or DataAtExec. For output parameters the driver writes the
// value back into Data and Indicator once the statement is executed, so the
// Param must stay untouched until then.
type Param struct {
	Direction  ParamDirection
	CType      CType
	SQLType    SQLType
	ColumnSize uint64
	Data       []byte
	Indicator  int64
}

//go:generate mockgen -destination=mock/mock_native.go -package=mock github.com/pingcap/odbcexec/pkg/odbc/native Stmt,Conn

// Stmt is one statement handle. A Stmt is not safe for concurrent use.
type Stmt interface {
	Prepare(query string) Return
	NumParams() (int, Return)
	// NumResultCols reports the columns of the current result set.
	NumResultCols() (int, Return)
	// DescribeCol describes the 1-based column col.
	DescribeCol(col int) (ColumnDesc, Return)
	// BindParameter binds the 1-based parameter pos. The driver keeps p until
	// the execution that uses it completes.
	BindParameter(pos int, p *Param) Return
	ResetParams() Return
	// Execute returns NeedData when a parameter was bound with DataAtExec.
	Execute() Return
	// ParamData returns the position of the next parameter that needs data
	// together with NeedData, or the result of the execution once all data is sent.
	ParamData() (pos int, rc Return)
	// PutData sends a chunk of the current data-at-exec parameter. ind is the
	// length of chunk or NullData.
	PutData(chunk []byte, ind int64) Return
	// Cancel abandons an execution that still waits for data-at-exec parameters.
	Cancel() Return
	RowCount() (int64, Return)
	Fetch() Return
	// GetData reads the 1-based column col of the current row into buf.
	GetData(col int, ctype CType, buf []byte) (ind int64, rc Return)
	NativeSQL(query string) (string, Return)
	CloseCursor() Return
	// Diagnostics returns the records of the last call.
	Diagnostics() []Diag
	Free() Return
}

// Conn is one connection handle.
type Conn interface {
	AllocStmt() (Stmt, Return)
	Diagnostics() []Diag
	Close() error
}

// Driver opens connections.
type Driver interface {
	Open(dsn string) (Conn, error)
}
