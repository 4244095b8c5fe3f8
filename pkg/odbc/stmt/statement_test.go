// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/lib/util/logger"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"github.com/pingcap/odbcexec/pkg/odbc/native/sqlnative"
	"github.com/stretchr/testify/require"
)

func newTestConn(t *testing.T) native.Conn {
	conn, err := native.Open(sqlnative.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, conn.Close())
	})
	return conn
}

func newTestStatement(t *testing.T, conn native.Conn, opts Options) *Statement {
	lg, _ := logger.CreateLoggerForTest(t)
	s, err := New(conn, opts, lg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func execSQL(t *testing.T, conn native.Conn, sql string, bindings ...Binding) {
	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile(sql))
	require.NoError(t, s.Bind(bindings...))
}

func TestSelectLoop(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (id INTEGER, name VARCHAR(20))")
	for i := 1; i <= 5; i++ {
		execSQL(t, conn, "INSERT INTO t VALUES (?, ?)", Bind(i), Bind(strings.Repeat("x", i)))
	}

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("SELECT id FROM t ORDER BY id"))
	require.Equal(t, StatePrepared, s.State())
	require.NoError(t, s.Bind())
	require.Equal(t, 1, s.ColumnsReturned())
	require.Equal(t, StateHasRows, s.State())

	var ids []int
	for {
		ok, err := s.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		var id int
		require.NoError(t, s.Next(Into(&id)))
		require.Equal(t, StateRowConsumed, s.State())
		ids = append(ids, id)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids)
	require.Equal(t, StateExhausted, s.State())

	// Exhausted cursors stay exhausted.
	for i := 0; i < 2; i++ {
		ok, err := s.HasNext()
		require.NoError(t, err)
		require.False(t, ok)
		require.ErrorIs(t, s.Next(Into(new(int))), ErrInvalidCursorState)
	}
}

func TestColumnsAndMeta(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (a INTEGER, b REAL, c BLOB, d DATETIME, e BOOLEAN, f DECIMAL(10,2))")

	s := newTestStatement(t, conn, DefaultOptions())
	_, err := s.MetaColumn(0)
	require.ErrorIs(t, err, ErrInvalidAccess)

	require.NoError(t, s.Compile("SELECT a, b, c FROM t"))
	require.Zero(t, s.ColumnsReturned())
	require.NoError(t, s.Bind())
	require.Equal(t, 3, s.ColumnsReturned())

	col, err := s.MetaColumn(0)
	require.NoError(t, err)
	require.Equal(t, "a", col.Name)
	require.Equal(t, TypeInt64, col.Type)
	col, err = s.MetaColumn(1)
	require.NoError(t, err)
	require.Equal(t, TypeDouble, col.Type)
	col, err = s.MetaColumn(2)
	require.NoError(t, err)
	require.Equal(t, TypeBlob, col.Type)
	require.Equal(t, 2, col.Position)

	for _, pos := range []int{-1, 3, 100} {
		_, err = s.MetaColumn(pos)
		require.ErrorIs(t, err, ErrInvalidAccess)
		require.Contains(t, err.Error(), "invalid column number")
	}

	// The cache is dropped by Clear.
	cols, err := s.Columns()
	require.NoError(t, err)
	require.Len(t, cols, 3)
	require.NoError(t, s.Clear())
	require.Zero(t, s.ColumnsReturned())
	_, err = s.MetaColumn(0)
	require.ErrorIs(t, err, ErrInvalidAccess)

	require.NoError(t, s.Compile("SELECT d, e, f FROM t"))
	require.NoError(t, s.Bind())
	cols, err = s.Columns()
	require.NoError(t, err)
	require.Equal(t, TypeTimestamp, cols[0].Type)
	require.Equal(t, TypeBool, cols[1].Type)
	require.Equal(t, TypeDecimal, cols[2].Type)
}

func TestValueRoundTrip(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (i INTEGER, r REAL, s VARCHAR(20), b BLOB, d DATETIME, n INTEGER)")
	ts := time.Date(2024, 2, 29, 23, 59, 58, 0, time.UTC)
	execSQL(t, conn, "INSERT INTO t VALUES (?, ?, ?, ?, ?, ?)",
		Bind(int64(-42)), Bind(2.5), Bind("hello"), Bind([]byte{0, 1, 2}), Bind(ts), Null(native.TypeInteger))

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("SELECT i, r, s, b, d, n FROM t"))
	require.NoError(t, s.Bind())

	var (
		i   int64
		r   float64
		str string
		b   []byte
		d   time.Time
		n   *int
	)
	require.NoError(t, s.Next(Into(&i, &r), Into(&str, &b), Into(&d, &n)))
	require.EqualValues(t, -42, i)
	require.Equal(t, 2.5, r)
	require.Equal(t, "hello", str)
	require.Equal(t, []byte{0, 1, 2}, b)
	require.True(t, ts.Equal(d), d.String())
	require.Nil(t, n)
}

func TestExtractionCoverage(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (a INTEGER, b INTEGER)")
	execSQL(t, conn, "INSERT INTO t VALUES (1, 2)")

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("SELECT a, b FROM t"))
	require.NoError(t, s.Bind())
	var a int
	require.ErrorIs(t, s.Next(Into(&a)), ErrInvalidAccess)

	// The failed row poisons the cursor until Clear.
	_, err := s.HasNext()
	require.ErrorIs(t, err, ErrInvalidCursorState)
	require.ErrorIs(t, s.Next(Into(&a, &a)), ErrInvalidCursorState)

	require.NoError(t, s.Clear())
	require.Equal(t, StatePrepared, s.State())
	require.NoError(t, s.Bind())
	var b int
	require.NoError(t, s.Next(Into(&a, &b)))
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)
}

func TestRecordSet(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (a INTEGER, b VARCHAR(10))")
	execSQL(t, conn, "INSERT INTO t VALUES (1, 'x'), (2, NULL)")

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("SELECT a, b FROM t ORDER BY a"))
	require.NoError(t, s.Bind())
	for {
		ok, err := s.HasNext()
		require.NoError(t, err)
		if !ok {
			break
		}
		require.NoError(t, s.Next())
	}
	rs := s.RecordSet()
	require.NotNil(t, rs)
	require.Equal(t, 2, rs.RowCount())
	require.Len(t, rs.Columns(), 2)
	require.Equal(t, "b", rs.Columns()[1].Name)
	v, err := rs.Value(0, 1)
	require.NoError(t, err)
	require.Equal(t, "x", v)
	v, err = rs.Value(1, 1)
	require.NoError(t, err)
	require.Nil(t, v)
	_, err = rs.Value(2, 0)
	require.ErrorIs(t, err, ErrInvalidAccess)

	// A record set after other extractions takes the remaining columns.
	require.NoError(t, s.Clear())
	require.NoError(t, s.Bind())
	var ids []int
	rest := NewRecordSet()
	s.SetExtractions(IntoSlice(&ids), rest)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, []int{1, 2}, ids)
	require.Len(t, rest.Columns(), 1)
	require.Equal(t, [][]any{{"x"}, {nil}}, rest.Rows())
}

func TestDeferredRoundTrip(t *testing.T) {
	tests := [][][]byte{
		{},
		{[]byte("single chunk")},
		{bytes.Repeat([]byte{'a'}, 100), bytes.Repeat([]byte{'b'}, 100), {}, bytes.Repeat([]byte{'c'}, 55)},
	}
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (id INTEGER, data BLOB)")
	opts := DefaultOptions()
	opts.ChunkSize = minChunkSize
	for i, chunks := range tests {
		execSQL(t, conn, "INSERT INTO t VALUES (?, ?)", Bind(i), Chunks(native.TypeLongVarBinary, chunks...))
	}
	execSQL(t, conn, "INSERT INTO t VALUES (?, ?)", Bind(len(tests)), Deferred(nil, native.TypeLongVarBinary))

	before, err := metrics.ReadCounter(metrics.ChunkCounter.WithLabelValues(metrics.DirectionGet))
	require.NoError(t, err)
	s := newTestStatement(t, conn, opts)
	require.NoError(t, s.Compile("SELECT data FROM t WHERE id = ?"))
	for i, chunks := range tests {
		require.NoError(t, s.Bind(Bind(i)))
		var data []byte
		require.NoError(t, s.Next(Into(&data)))
		require.True(t, bytes.Equal(bytes.Join(chunks, nil), data), "case %d", i)
		require.NoError(t, s.Clear())
	}
	require.NoError(t, s.Bind(Bind(len(tests))))
	var data any = "not null"
	require.NoError(t, s.Next(Into(&data)))
	require.Nil(t, data)
	after, err := metrics.ReadCounter(metrics.ChunkCounter.WithLabelValues(metrics.DirectionGet))
	require.NoError(t, err)
	// The 255 byte value doesn't fit into the first 64 byte buffer.
	require.GreaterOrEqual(t, after-before, 2)
}

func TestStreamBinding(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (data TEXT)")
	text := strings.Repeat("0123456789", 100)
	execSQL(t, conn, "INSERT INTO t VALUES (?)", Stream(strings.NewReader(text), 64, native.TypeLongVarchar))

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("SELECT data FROM t"))
	require.NoError(t, s.Bind())
	var out string
	require.NoError(t, s.Next(Into(&out)))
	require.Equal(t, text, out)
}

func TestAtExecBinding(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (s TEXT, b BLOB, i INTEGER)")
	opts := DefaultOptions()
	opts.AutoBind = false
	opts.ChunkSize = minChunkSize

	before, err := metrics.ReadCounter(metrics.ChunkCounter.WithLabelValues(metrics.DirectionPut))
	require.NoError(t, err)
	s := newTestStatement(t, conn, opts)
	text := strings.Repeat("abc", 100)
	require.NoError(t, s.Compile("INSERT INTO t VALUES (?, ?, ?)"))
	require.NoError(t, s.Bind(Bind(text), Bind([]byte{}), Bind(7)))
	require.EqualValues(t, 1, s.AffectedRows())
	require.Equal(t, StateExhausted, s.State())
	after, err := metrics.ReadCounter(metrics.ChunkCounter.WithLabelValues(metrics.DirectionPut))
	require.NoError(t, err)
	// 300 bytes in 64 byte chunks and one empty put.
	require.Equal(t, 6, after-before)

	q := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, q.Compile("SELECT s, length(b), i FROM t"))
	require.NoError(t, q.Bind())
	var (
		out string
		n   int
		i   int
	)
	require.NoError(t, q.Next(Into(&out, &n, &i)))
	require.Equal(t, text, out)
	require.Zero(t, n)
	require.Equal(t, 7, i)
}

func TestUseAndReexecute(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (id INTEGER)")

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("INSERT INTO t VALUES (?)"))
	id := 1
	require.NoError(t, s.Bind(Use(&id)))
	require.ErrorIs(t, s.Bind(Use(&id)), ErrPrecondition)
	require.NoError(t, s.Clear())
	id = 2
	require.NoError(t, s.Bind(Use(&id)))

	q := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, q.Compile("SELECT id FROM t ORDER BY id"))
	require.NoError(t, q.Bind())
	var ids []int64
	require.NoError(t, q.Next(IntoSlice(&ids)))
	require.NoError(t, q.Next(IntoSlice(&ids)))
	require.Equal(t, []int64{1, 2}, ids)
}

func TestClear(t *testing.T) {
	conn := newTestConn(t)
	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	require.Equal(t, StateUnprepared, s.State())

	require.NoError(t, s.Compile("SELECT 1"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	require.Equal(t, StatePrepared, s.State())
	require.True(t, s.CanBind())

	require.NoError(t, s.Bind())
	ok, err := s.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	require.Equal(t, StatePrepared, s.State())
	require.Equal(t, cursorNoRow, s.cursor)

	require.NoError(t, s.Reset())
	require.Equal(t, StateUnprepared, s.State())
	require.Empty(t, s.SQL())
	require.False(t, s.CanBind())
}

func TestPreconditions(t *testing.T) {
	conn := newTestConn(t)
	s := newTestStatement(t, conn, DefaultOptions())

	require.ErrorIs(t, s.Bind(), ErrPrecondition)
	_, err := s.HasNext()
	require.ErrorIs(t, err, ErrPrecondition)
	require.ErrorIs(t, s.Next(), ErrPrecondition)
	_, err = s.NativeSQL()
	require.ErrorIs(t, err, ErrPrecondition)

	require.ErrorIs(t, s.Compile(""), ErrEmptyStatement)
	require.ErrorIs(t, s.Compile(" \n\t"), ErrEmptyStatement)
	require.Equal(t, StateUnprepared, s.State())

	require.NoError(t, s.Compile("SELECT 1"))
	require.NoError(t, s.Compile("SELECT 2"))
	require.NoError(t, s.Bind())
	require.ErrorIs(t, s.Compile("SELECT 3"), ErrPrecondition)
	require.ErrorIs(t, s.Bind(), ErrPrecondition)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Compile("SELECT 1"), ErrClosed)
	require.NoError(t, s.Clear())
}

func TestNativeErrors(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY)")

	s := newTestStatement(t, conn, DefaultOptions())
	err := s.Compile("SELEC id FROM t")
	require.ErrorIs(t, err, ErrCompile)
	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "SQLPrepare", nerr.Op)
	require.Equal(t, native.StateSyntaxError, nerr.SQLState())
	require.Contains(t, err.Error(), "42000")
	require.Equal(t, StateUnprepared, s.State())

	err = s.Compile("SELECT id FROM missing")
	require.ErrorIs(t, err, ErrCompile)
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "42S02", nerr.SQLState())
	require.False(t, s.CanBind())

	require.NoError(t, s.Compile("INSERT INTO t VALUES (?)"))
	require.NoError(t, s.Bind(Bind(1)))
	require.NoError(t, s.Clear())
	err = s.Bind(Bind(1))
	require.ErrorIs(t, err, ErrExecute)
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "23000", nerr.SQLState())
	require.Equal(t, StatePrepared, s.State())

	err = s.Bind(Bind(struct{}{}))
	require.ErrorIs(t, err, ErrBind)
	require.Equal(t, StatePrepared, s.State())

	err = s.Bind(Bind(1), Bind(2))
	require.ErrorIs(t, err, ErrBind)
}

func TestStoredProcedure(t *testing.T) {
	conn := newTestConn(t)
	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("{call upper(?)}"))
	require.True(t, s.IsStoredProcedure())
	sql, err := s.NativeSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT upper(?)", sql)
	require.Equal(t, StatePrepared, s.State())

	require.NoError(t, s.Bind(Bind("abc")))
	require.Equal(t, 1, s.ColumnsReturned())
	var out string
	require.NoError(t, s.Next(Into(&out)))
	require.Equal(t, "ABC", out)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Compile("SELECT {fn UCASE('x')}"))
	require.False(t, s.IsStoredProcedure())
}

func TestRetryAfterChunkFailure(t *testing.T) {
	conn := newTestConn(t)
	execSQL(t, conn, "CREATE TABLE t (data BLOB)")

	s := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, s.Compile("INSERT INTO t VALUES (?)"))
	require.ErrorIs(t, s.Bind(Deferred(failingSource{}, native.TypeLongVarBinary)), ErrChunkTransfer)
	require.True(t, s.CanBind())
	require.NoError(t, s.Bind(Chunks(native.TypeLongVarBinary, []byte("ab"), []byte("cd"))))
	require.EqualValues(t, 1, s.AffectedRows())

	q := newTestStatement(t, conn, DefaultOptions())
	require.NoError(t, q.Compile("SELECT data FROM t"))
	require.NoError(t, q.Bind())
	var out []byte
	require.NoError(t, q.Next(Into(&out)))
	require.Equal(t, []byte("abcd"), out)
	ok, err := q.HasNext()
	require.NoError(t, err)
	require.False(t, ok)
}
