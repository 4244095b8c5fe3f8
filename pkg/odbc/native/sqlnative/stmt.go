// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlnative

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"github.com/spf13/cast"
)

const timestampLayout = "2006-01-02 15:04:05.999999999"

var _ native.Stmt = (*Stmt)(nil)

// Stmt emulates a statement handle with a prepared *sql.Stmt.
type Stmt struct {
	conn      *Conn
	prepared  *sql.Stmt
	query     string
	isQuery   bool
	numParams int
	params    []*native.Param

	// data-at-exec state of the running execution
	pending []int
	putPos  int
	putData map[int][]byte
	putNull map[int]bool

	rows     *sql.Rows
	columns  []*sql.ColumnType
	row      []any
	offsets  []int
	done     []bool
	affected int64

	diags []native.Diag
	freed bool
}

func (s *Stmt) fail(state, format string, args ...any) native.Return {
	s.diags = append(s.diags, newDiag(state, fmt.Sprintf(format, args...)))
	return native.Error
}

func (s *Stmt) failErr(err error) native.Return {
	s.diags = append(s.diags, diagFromError(err))
	return native.Error
}

func (s *Stmt) begin() bool {
	s.diags = nil
	return !s.freed
}

func (s *Stmt) Prepare(query string) native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	s.closeRows()
	s.closePrepared()
	s.params = nil
	translated, err := s.conn.dialect.translate(query)
	if err != nil {
		if errors.Is(err, errReturnValue) {
			return s.fail(native.StateOptionalFeature, "%s", err.Error())
		}
		return s.fail(native.StateSyntaxError, "%s", err.Error())
	}
	numParams := countMarkers(translated)
	if err := s.compile(translated, numParams); err != nil {
		return s.failErr(err)
	}
	prepared, err := s.conn.conn.PrepareContext(context.Background(), translated)
	if err != nil {
		return s.failErr(err)
	}
	s.prepared = prepared
	s.query = translated
	s.isQuery = s.conn.dialect.isQuery(translated)
	s.numParams = numParams
	return native.Success
}

// compile makes the data source parse query and resolve the objects it uses
// without running it. Markers are bound to NULL.
func (s *Stmt) compile(query string, markers int) error {
	if !s.conn.dialect.explain || !singleStatement(query) {
		return nil
	}
	if kw, _ := splitKeyword(skipLeading(query)); strings.EqualFold(kw, "EXPLAIN") {
		return nil
	}
	rows, err := s.conn.conn.QueryContext(context.Background(), "EXPLAIN "+query, make([]any, markers)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func (s *Stmt) NumParams() (int, native.Return) {
	if !s.begin() {
		return 0, native.InvalidHandle
	}
	if s.prepared == nil {
		return 0, s.fail(native.StateFunctionSequence, "statement is not prepared")
	}
	return s.numParams, native.Success
}

func (s *Stmt) NumResultCols() (int, native.Return) {
	if !s.begin() {
		return 0, native.InvalidHandle
	}
	return len(s.columns), native.Success
}

func (s *Stmt) DescribeCol(col int) (native.ColumnDesc, native.Return) {
	if !s.begin() {
		return native.ColumnDesc{}, native.InvalidHandle
	}
	if col < 1 || col > len(s.columns) {
		return native.ColumnDesc{}, s.fail(native.StateInvalidDescriptor, "invalid descriptor index %d", col)
	}
	return describe(s.columns[col-1]), native.Success
}

func (s *Stmt) BindParameter(pos int, p *native.Param) native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	if s.prepared == nil {
		return s.fail(native.StateFunctionSequence, "statement is not prepared")
	}
	if pos < 1 || pos > s.numParams {
		return s.fail(native.StateInvalidDescriptor, "invalid parameter number %d", pos)
	}
	for len(s.params) < pos {
		s.params = append(s.params, nil)
	}
	s.params[pos-1] = p
	return native.Success
}

func (s *Stmt) ResetParams() native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	s.params = nil
	s.resetPut()
	return native.Success
}

func (s *Stmt) Execute() native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	if s.prepared == nil {
		return s.fail(native.StateFunctionSequence, "statement is not prepared")
	}
	if s.rows != nil {
		return s.fail(native.StateInvalidCursorState, "cursor is still open")
	}
	s.resetPut()
	for i, p := range s.params {
		if p != nil && p.Indicator == native.DataAtExec {
			s.pending = append(s.pending, i+1)
		}
	}
	if len(s.pending) > 0 {
		return native.NeedData
	}
	return s.run()
}

func (s *Stmt) ParamData() (int, native.Return) {
	if !s.begin() {
		return 0, native.InvalidHandle
	}
	if len(s.pending) == 0 && s.putPos == 0 {
		return 0, s.fail(native.StateFunctionSequence, "no data-at-exec parameter is pending")
	}
	if len(s.pending) > 0 {
		s.putPos = s.pending[0]
		s.pending = s.pending[1:]
		return s.putPos, native.NeedData
	}
	s.putPos = 0
	return 0, s.run()
}

func (s *Stmt) PutData(chunk []byte, ind int64) native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	if s.putPos == 0 {
		return s.fail(native.StateFunctionSequence, "no data-at-exec parameter is current")
	}
	if ind == native.NullData {
		s.putNull[s.putPos] = true
		return native.Success
	}
	if ind < 0 || ind > int64(len(chunk)) {
		return s.fail(native.StateInvalidStringLength, "invalid length %d", ind)
	}
	s.putData[s.putPos] = append(s.putData[s.putPos], chunk[:ind]...)
	return native.Success
}

// Cancel drops the data sent for the pending execution.
func (s *Stmt) Cancel() native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	s.resetPut()
	return native.Success
}

// run executes the prepared statement with all parameter values at hand.
func (s *Stmt) run() native.Return {
	args := make([]any, 0, len(s.params))
	if len(s.params) != s.numParams {
		return s.fail(stateWrongParamCount, "%d parameters are bound, %d expected", len(s.params), s.numParams)
	}
	for i, p := range s.params {
		if p == nil {
			return s.fail(stateWrongParamCount, "parameter %d is not bound", i+1)
		}
		if p.Direction != native.ParamInput {
			return s.fail(native.StateOptionalFeature, "output parameters are not supported")
		}
		v, rc := s.paramValue(i+1, p)
		if rc != native.Success {
			return rc
		}
		args = append(args, v)
	}
	s.resetPut()
	ctx := context.Background()
	if s.isQuery {
		rows, err := s.prepared.QueryContext(ctx, args...)
		if err != nil {
			return s.failErr(err)
		}
		columns, err := rows.ColumnTypes()
		if err != nil {
			rows.Close()
			return s.failErr(err)
		}
		s.rows, s.columns, s.affected = rows, columns, -1
		return native.Success
	}
	res, err := s.prepared.ExecContext(ctx, args...)
	if err != nil {
		return s.failErr(err)
	}
	s.columns = nil
	s.affected = -1
	if n, err := res.RowsAffected(); err == nil {
		s.affected = n
	}
	return native.Success
}

func (s *Stmt) paramValue(pos int, p *native.Param) (any, native.Return) {
	if p.Indicator == native.DataAtExec {
		if s.putNull[pos] {
			return nil, native.Success
		}
		data := s.putData[pos]
		if p.CType == native.CBinary {
			if data == nil {
				data = []byte{}
			}
			return data, native.Success
		}
		return string(data), native.Success
	}
	if p.Indicator == native.NullData {
		return nil, native.Success
	}
	if size := native.FixedSize(p.CType); size > 0 && len(p.Data) < size {
		return nil, s.fail(native.StateInvalidStringLength, "parameter %d buffer is too small", pos)
	}
	switch p.CType {
	case native.CSBigInt:
		return native.DecodeInt64(p.Data), native.Success
	case native.CDouble:
		return native.DecodeFloat64(p.Data), native.Success
	case native.CBit:
		return native.DecodeBool(p.Data), native.Success
	case native.CTypeTimestamp:
		return native.DecodeTimestamp(p.Data), native.Success
	case native.CChar, native.CBinary:
		if p.Indicator < 0 || p.Indicator > int64(len(p.Data)) {
			return nil, s.fail(native.StateInvalidStringLength, "parameter %d has invalid length %d", pos, p.Indicator)
		}
		data := p.Data[:p.Indicator]
		if p.CType == native.CChar {
			return string(data), native.Success
		}
		return append([]byte{}, data...), native.Success
	}
	return nil, s.fail(stateRestrictedType, "parameter %d has unsupported C type %d", pos, p.CType)
}

func (s *Stmt) RowCount() (int64, native.Return) {
	if !s.begin() {
		return 0, native.InvalidHandle
	}
	return s.affected, native.Success
}

func (s *Stmt) Fetch() native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	if s.rows == nil {
		return s.fail(native.StateInvalidCursorState, "no open cursor")
	}
	s.row = nil
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return s.failErr(err)
		}
		return native.NoData
	}
	values := make([]any, len(s.columns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return s.failErr(err)
	}
	s.row = values
	s.offsets = make([]int, len(values))
	s.done = make([]bool, len(values))
	return native.Success
}

func (s *Stmt) GetData(col int, ctype native.CType, buf []byte) (int64, native.Return) {
	if !s.begin() {
		return 0, native.InvalidHandle
	}
	if s.row == nil {
		return 0, s.fail(native.StateInvalidCursorState, "no current row")
	}
	if col < 1 || col > len(s.row) {
		return 0, s.fail(native.StateInvalidDescriptor, "invalid descriptor index %d", col)
	}
	idx := col - 1
	if s.done[idx] {
		return 0, native.NoData
	}
	v := s.row[idx]
	if v == nil {
		s.done[idx] = true
		return native.NullData, native.Success
	}
	if size := native.FixedSize(ctype); size > 0 {
		if len(buf) < size {
			return 0, s.fail(native.StateInvalidStringLength, "buffer of %d bytes is too small", len(buf))
		}
		if rc := s.convertFixed(v, ctype, buf); rc != native.Success {
			return 0, rc
		}
		s.done[idx] = true
		return int64(size), native.Success
	}
	if ctype != native.CChar && ctype != native.CBinary {
		return 0, s.fail(stateRestrictedType, "unsupported C type %d", ctype)
	}
	data := toBytes(v)[s.offsets[idx]:]
	n := copy(buf, data)
	s.offsets[idx] += n
	if n < len(data) {
		s.diags = append(s.diags, newDiag(native.StateRightTruncated, "string data, right truncated"))
		return int64(len(data)), native.SuccessWithInfo
	}
	s.done[idx] = true
	return int64(len(data)), native.Success
}

func (s *Stmt) convertFixed(v any, ctype native.CType, buf []byte) native.Return {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	var err error
	switch ctype {
	case native.CSBigInt:
		var n int64
		if n, err = cast.ToInt64E(v); err == nil {
			copy(buf, native.EncodeInt64(n))
		}
	case native.CDouble:
		var f float64
		if f, err = cast.ToFloat64E(v); err == nil {
			copy(buf, native.EncodeFloat64(f))
		}
	case native.CBit:
		var b bool
		if b, err = cast.ToBoolE(v); err == nil {
			copy(buf, native.EncodeBool(b))
		}
	case native.CTypeTimestamp:
		var t time.Time
		if t, err = cast.ToTimeE(v); err == nil {
			copy(buf, native.EncodeTimestamp(t))
		}
	}
	if err != nil {
		return s.fail(stateInvalidCast, "invalid character value for cast: %s", err.Error())
	}
	return native.Success
}

func toBytes(v any) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	case int64:
		return strconv.AppendInt(nil, x, 10)
	case float64:
		return strconv.AppendFloat(nil, x, 'g', -1, 64)
	case bool:
		if x {
			return []byte("1")
		}
		return []byte("0")
	case time.Time:
		return []byte(x.Format(timestampLayout))
	}
	return []byte(cast.ToString(v))
}

func (s *Stmt) NativeSQL(query string) (string, native.Return) {
	if !s.begin() {
		return "", native.InvalidHandle
	}
	out, err := s.conn.dialect.translate(query)
	if err != nil {
		return "", s.fail(native.StateSyntaxError, "%s", err.Error())
	}
	return out, native.Success
}

func (s *Stmt) CloseCursor() native.Return {
	if !s.begin() {
		return native.InvalidHandle
	}
	if s.rows == nil {
		return s.fail(native.StateInvalidCursorState, "no open cursor")
	}
	if err := s.closeRows(); err != nil {
		return s.failErr(err)
	}
	return native.Success
}

func (s *Stmt) Diagnostics() []native.Diag {
	return s.diags
}

func (s *Stmt) Free() native.Return {
	if s.freed {
		return native.InvalidHandle
	}
	s.diags = nil
	s.closeRows()
	s.closePrepared()
	s.params = nil
	s.freed = true
	return native.Success
}

func (s *Stmt) closeRows() error {
	s.row = nil
	s.columns = nil
	if s.rows == nil {
		return nil
	}
	err := s.rows.Close()
	s.rows = nil
	return err
}

func (s *Stmt) closePrepared() {
	if s.prepared != nil {
		s.prepared.Close()
		s.prepared = nil
	}
}

func (s *Stmt) resetPut() {
	s.pending = nil
	s.putPos = 0
	s.putData = make(map[int][]byte)
	s.putNull = make(map[int]bool)
}
