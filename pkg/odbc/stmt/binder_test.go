// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"math"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/lib/util/logger"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"github.com/stretchr/testify/require"
)

type celsius float64

type upperValuer string

var _ driver.Valuer = upperValuer("")

func (v upperValuer) Value() (driver.Value, error) {
	return strings.ToUpper(string(v)), nil
}

func TestEncodeParam(t *testing.T) {
	ts := time.Date(2024, 2, 29, 13, 14, 15, 123456789, time.UTC)
	n := 5
	var nilPtr *int
	tests := []struct {
		v       any
		ctype   native.CType
		sqlType native.SQLType
		data    []byte
		null    bool
	}{
		{v: nil, ctype: native.CChar, sqlType: native.TypeVarchar, null: true},
		{v: typedNull{sqlType: native.TypeBigInt}, ctype: native.CSBigInt, sqlType: native.TypeBigInt, null: true},
		{v: []byte(nil), ctype: native.CBinary, sqlType: native.TypeVarBinary, null: true},
		{v: nilPtr, ctype: native.CChar, sqlType: native.TypeVarchar, null: true},
		{v: int8(-3), ctype: native.CSBigInt, sqlType: native.TypeBigInt, data: native.EncodeInt64(-3)},
		{v: uint32(7), ctype: native.CSBigInt, sqlType: native.TypeBigInt, data: native.EncodeInt64(7)},
		{v: &n, ctype: native.CSBigInt, sqlType: native.TypeBigInt, data: native.EncodeInt64(5)},
		{v: celsius(1.5), ctype: native.CDouble, sqlType: native.TypeDouble, data: native.EncodeFloat64(1.5)},
		{v: true, ctype: native.CBit, sqlType: native.TypeBit, data: []byte{1}},
		{v: "abc", ctype: native.CChar, sqlType: native.TypeVarchar, data: []byte("abc")},
		{v: strings.Repeat("x", 20), ctype: native.CChar, sqlType: native.TypeLongVarchar, data: []byte(strings.Repeat("x", 20))},
		{v: []byte{1, 2}, ctype: native.CBinary, sqlType: native.TypeVarBinary, data: []byte{1, 2}},
		{v: bytes.Repeat([]byte{1}, 17), ctype: native.CBinary, sqlType: native.TypeLongVarBinary, data: bytes.Repeat([]byte{1}, 17)},
		{v: ts, ctype: native.CTypeTimestamp, sqlType: native.TypeTimestamp, data: native.EncodeTimestamp(ts)},
		{v: upperValuer("abc"), ctype: native.CChar, sqlType: native.TypeVarchar, data: []byte("ABC")},
		{v: sql.NullInt64{}, ctype: native.CChar, sqlType: native.TypeVarchar, null: true},
		{v: sql.NullInt64{Int64: 9, Valid: true}, ctype: native.CSBigInt, sqlType: native.TypeBigInt, data: native.EncodeInt64(9)},
	}
	for i, test := range tests {
		p, err := encodeParam(test.v, 16)
		require.NoError(t, err, "case %d", i)
		require.Equal(t, native.ParamInput, p.Direction, "case %d", i)
		require.Equal(t, test.ctype, p.CType, "case %d", i)
		require.Equal(t, test.sqlType, p.SQLType, "case %d", i)
		if test.null {
			require.Equal(t, native.NullData, p.Indicator, "case %d", i)
			continue
		}
		require.Equal(t, test.data, p.Data, "case %d", i)
		require.EqualValues(t, len(test.data), p.Indicator, "case %d", i)
	}

	for i, v := range []any{uint64(math.MaxUint64), struct{}{}, []int{1}, make(chan int)} {
		_, err := encodeParam(v, 16)
		require.Error(t, err, "case %d", i)
	}
}

func TestDecodeParam(t *testing.T) {
	ts := time.Date(2001, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		param  native.Param
		expect any
	}{
		{native.Param{CType: native.CSBigInt, Data: native.EncodeInt64(-1), Indicator: 8}, int64(-1)},
		{native.Param{CType: native.CDouble, Data: native.EncodeFloat64(2.5), Indicator: 8}, 2.5},
		{native.Param{CType: native.CBit, Data: []byte{1}, Indicator: 1}, true},
		{native.Param{CType: native.CTypeTimestamp, Data: native.EncodeTimestamp(ts), Indicator: native.TimestampSize}, ts},
		{native.Param{CType: native.CChar, Data: []byte("abc\x00\x00"), Indicator: 3}, "abc"},
		{native.Param{CType: native.CBinary, Data: []byte{1, 2, 3}, Indicator: 2}, []byte{1, 2}},
		{native.Param{CType: native.CChar, Data: []byte("abc"), Indicator: native.NoTotal}, "abc"},
		{native.Param{CType: native.CSBigInt, Data: make([]byte, 8), Indicator: native.NullData}, nil},
	}
	for i, test := range tests {
		require.Equal(t, test.expect, decodeParam(&test.param), "case %d", i)
	}
}

func TestAssign(t *testing.T) {
	var (
		s   string
		i8  int8
		u   uint
		f   float32
		b   bool
		buf []byte
		ts  time.Time
		ptr *int64
		v   any
		ns  sql.NullString
	)
	require.NoError(t, assign(&s, int64(12)))
	require.Equal(t, "12", s)
	require.NoError(t, assign(&i8, "-5"))
	require.EqualValues(t, -5, i8)
	require.NoError(t, assign(&u, int64(3)))
	require.EqualValues(t, 3, u)
	require.NoError(t, assign(&f, 0.5))
	require.EqualValues(t, 0.5, f)
	require.NoError(t, assign(&b, "true"))
	require.True(t, b)
	require.NoError(t, assign(&buf, "bytes"))
	require.Equal(t, []byte("bytes"), buf)
	require.NoError(t, assign(&ts, "2020-01-02 03:04:05"))
	require.Equal(t, 2020, ts.Year())
	require.NoError(t, assign(&ptr, int64(4)))
	require.EqualValues(t, 4, *ptr)
	require.NoError(t, assign(&ptr, nil))
	require.Nil(t, ptr)
	require.NoError(t, assign(&v, "any"))
	require.Equal(t, "any", v)
	require.NoError(t, assign(&ns, "scanned"))
	require.Equal(t, sql.NullString{String: "scanned", Valid: true}, ns)
	require.NoError(t, assign(&s, nil))
	require.Empty(t, s)

	src := []byte("copy")
	require.NoError(t, assign(&buf, src))
	src[0] = 'C'
	require.Equal(t, []byte("copy"), buf)

	require.ErrorIs(t, assign(&i8, int64(1000)), ErrExtract)
	require.ErrorIs(t, assign(&u, int64(-1)), ErrExtract)
	require.ErrorIs(t, assign(&i8, "abc"), ErrExtract)
	require.ErrorIs(t, assign(s, "not a pointer"), ErrExtract)
	require.ErrorIs(t, assign((*int)(nil), int64(1)), ErrExtract)
	require.ErrorIs(t, assign(&[]int{}, []byte{1}), ErrExtract)
}

func TestChunkSources(t *testing.T) {
	collect := func(src ChunkSource) ([][]byte, error) {
		var chunks [][]byte
		for {
			chunk, more, err := src.NextChunk()
			if err != nil {
				return chunks, err
			}
			chunks = append(chunks, append([]byte(nil), chunk...))
			if !more {
				return chunks, nil
			}
		}
	}

	chunks, err := collect(newBytesSource([]byte("abcdefg"), 3))
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("abc"), []byte("def"), []byte("g")}, chunks)

	chunks, err = collect(&readerSource{r: strings.NewReader("abcdef"), buf: make([]byte, 3)})
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("abc"), []byte("def"), nil}, chunks)

	chunks, err = collect(&readerSource{r: iotest.OneByteReader(strings.NewReader("abcd")), buf: make([]byte, 3)})
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("abc"), []byte("d")}, chunks)

	_, err = collect(&readerSource{r: iotest.ErrReader(errors.New("broken")), buf: make([]byte, 3)})
	require.Error(t, err)

	chunks, err = collect(&sliceSource{})
	require.NoError(t, err)
	require.Equal(t, [][]byte{nil}, chunks)
}

func TestBindingValues(t *testing.T) {
	n := 1
	b := Use(&n)
	n = 2
	v, err := b.Value()
	require.NoError(t, err)
	require.Equal(t, 2, v)

	v, err = Use((*int)(nil)).Value()
	require.NoError(t, err)
	require.Nil(t, v)
	_, err = Use(n).Value()
	require.Error(t, err)

	v, err = Out(&n).Value()
	require.NoError(t, err)
	require.Nil(t, v)
	require.Equal(t, DirOut, Out(&n).Direction())
	require.Equal(t, DirInOut, InOut(&n).Direction())

	d := Chunks(native.TypeLongVarchar, []byte("a"))
	v, err = d.Value()
	require.NoError(t, err)
	require.Same(t, d, v)
	require.Equal(t, native.TypeLongVarchar, d.SQLType())
}

func TestNewParam(t *testing.T) {
	lg, _ := logger.CreateLoggerForTest(t)
	opts := DefaultOptions()
	opts.AutoBind = false
	opts.ChunkSize = minChunkSize
	b := newBinder(nil, opts.normalize(), lg)

	// Without auto binding, strings are sent at execution time.
	bp, err := b.newParam(Bind(strings.Repeat("a", 100)))
	require.NoError(t, err)
	require.True(t, bp.deferred)
	require.Equal(t, native.DataAtExec, bp.param.Indicator)
	require.Equal(t, native.TypeVarchar, bp.param.SQLType)
	chunk, more, err := bp.source.NextChunk()
	require.NoError(t, err)
	require.Len(t, chunk, minChunkSize)
	require.True(t, more)

	bp, err = b.newParam(Bind(3))
	require.NoError(t, err)
	require.False(t, bp.deferred)

	bp, err = b.newParam(Null(native.TypeVarchar))
	require.NoError(t, err)
	require.False(t, bp.deferred)
	require.Equal(t, native.NullData, bp.param.Indicator)

	s := "in"
	bp, err = b.newParam(InOut(&s))
	require.NoError(t, err)
	require.NotNil(t, bp.output)
	require.Equal(t, native.ParamInputOutput, bp.param.Direction)
	require.Len(t, bp.param.Data, opts.MaxFieldSize)
	require.EqualValues(t, 2, bp.param.Indicator)
	require.Equal(t, []byte("in"), bp.param.Data[:2])

	var ts time.Time
	bp, err = b.newParam(Out(&ts))
	require.NoError(t, err)
	require.Equal(t, native.CTypeTimestamp, bp.param.CType)
	require.Len(t, bp.param.Data, native.TimestampSize)

	n := int64(1)
	_, err = b.newParam(InOut(&n))
	require.NoError(t, err)
	f := 1.5
	_, err = b.newParam(Out(&f))
	require.NoError(t, err)

	_, err = b.newParam(Out(n))
	require.Error(t, err)
	_, err = b.newParam(Out(&struct{}{}))
	require.Error(t, err)
	var nums []int
	_, err = b.newParam(Out(&nums))
	require.Error(t, err)
}
