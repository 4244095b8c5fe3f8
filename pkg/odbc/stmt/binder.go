// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"database/sql/driver"
	"math"
	"reflect"
	"time"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"go.uber.org/zap"
)

const (
	bigIntSize    = 19
	doubleSize    = 15
	timestampSize = 29
)

type boundParam struct {
	param    *native.Param
	deferred bool
	source   ChunkSource
	output   OutputBinding
}

// Binder turns bindings into native parameters. The parameters are owned by
// the binder until the execution that uses them completes.
type Binder struct {
	stmt    native.Stmt
	opts    Options
	lg      *zap.Logger
	params  []boundParam
	outputs int
}

func newBinder(stmt native.Stmt, opts Options, lg *zap.Logger) *Binder {
	return &Binder{stmt: stmt, opts: opts, lg: lg}
}

// Bind replaces all parameter bindings of the handle.
func (b *Binder) Bind(bindings []Binding) error {
	b.release()
	b.outputs = 0
	if rc := b.stmt.ResetParams(); rc.IsError() {
		return nativeError(ErrBind, "SQLFreeStmt", rc, b.stmt.Diagnostics())
	}
	for i, binding := range bindings {
		pos := i + 1
		bp, err := b.newParam(binding)
		if err != nil {
			b.release()
			return errors.WithStack(errors.Wrapf(ErrBind, "parameter %d: %w", pos, err))
		}
		if rc := b.stmt.BindParameter(pos, bp.param); rc.IsError() {
			b.release()
			return nativeError(ErrBind, "SQLBindParameter", rc, b.stmt.Diagnostics())
		}
		b.params = append(b.params, bp)
		if bp.output != nil {
			b.outputs++
		}
	}
	return nil
}

// Outputs is the number of output bindings of the last Bind.
func (b *Binder) Outputs() int {
	return b.outputs
}

// PutData streams the value of the data-at-exec parameter at pos.
func (b *Binder) PutData(pos int) error {
	if pos < 1 || pos > len(b.params) || !b.params[pos-1].deferred {
		return causeError(ErrChunkTransfer, "SQLParamData", errors.Errorf("no data-at-exec parameter at position %d", pos))
	}
	bp := b.params[pos-1]
	if bp.source == nil {
		if rc := b.stmt.PutData(nil, native.NullData); rc.IsError() {
			return nativeError(ErrChunkTransfer, "SQLPutData", rc, b.stmt.Diagnostics())
		}
		return nil
	}
	var total int64
	sent := 0
	for {
		chunk, more, err := bp.source.NextChunk()
		if err != nil {
			return causeError(ErrChunkTransfer, "NextChunk", err)
		}
		// An empty value still needs one call.
		if len(chunk) > 0 || (!more && sent == 0) {
			if rc := b.stmt.PutData(chunk, int64(len(chunk))); rc.IsError() {
				return nativeError(ErrChunkTransfer, "SQLPutData", rc, b.stmt.Diagnostics())
			}
			sent++
			total += int64(len(chunk))
		}
		if !more {
			break
		}
	}
	metrics.ChunkCounter.WithLabelValues(metrics.DirectionPut).Add(float64(sent))
	metrics.ChunkBytesCounter.WithLabelValues(metrics.DirectionPut).Add(float64(total))
	b.lg.Debug("sent data-at-exec parameter", zap.Int("position", pos), zap.Int("chunks", sent), zap.Int64("bytes", total))
	return nil
}

// Synchronize stores the values of output parameters into their targets.
func (b *Binder) Synchronize() error {
	for i, bp := range b.params {
		if bp.output == nil {
			continue
		}
		v := decodeParam(bp.param)
		if err := bp.output.SetOutput(v); err != nil {
			return errors.WithStack(errors.Wrapf(ErrExtract, "output parameter %d: %w", i+1, err))
		}
	}
	return nil
}

func (b *Binder) release() {
	b.params = nil
}

func (b *Binder) newParam(binding Binding) (boundParam, error) {
	v, err := binding.Value()
	if err != nil {
		return boundParam{}, err
	}
	if ob, ok := binding.(OutputBinding); ok && binding.Direction() != DirIn {
		p, err := b.outputParam(ob.Target(), v, binding.Direction())
		return boundParam{param: p, output: ob}, err
	}
	if d, ok := v.(*DeferredBinding); ok {
		ctype := native.CChar
		if columnDataType(d.sqlType) == TypeBlob {
			ctype = native.CBinary
		}
		p := &native.Param{
			Direction: native.ParamInput,
			CType:     ctype,
			SQLType:   d.sqlType,
			Indicator: native.DataAtExec,
		}
		return boundParam{param: p, deferred: true, source: d.src}, nil
	}
	p, err := encodeParam(v, b.opts.MaxFieldSize)
	if err != nil {
		return boundParam{}, err
	}
	if !b.opts.AutoBind && p.Indicator != native.NullData && (p.CType == native.CChar || p.CType == native.CBinary) {
		src := newBytesSource(p.Data, b.opts.ChunkSize)
		p.Data = nil
		p.Indicator = native.DataAtExec
		return boundParam{param: p, deferred: true, source: src}, nil
	}
	return boundParam{param: p}, nil
}

func (b *Binder) outputParam(target, v any, dir Direction) (*native.Param, error) {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Pointer || tv.IsNil() {
		return nil, errors.Errorf("output target %T is not a non-nil pointer", target)
	}
	et := tv.Type().Elem()
	for et.Kind() == reflect.Pointer {
		et = et.Elem()
	}
	ctype, sqlType, size, err := outputLayout(et, b.opts.MaxFieldSize)
	if err != nil {
		return nil, err
	}
	p := &native.Param{
		Direction:  dir.native(),
		CType:      ctype,
		SQLType:    sqlType,
		ColumnSize: uint64(size),
		Data:       make([]byte, size),
	}
	if dir != DirInOut {
		return p, nil
	}
	in, err := encodeParam(v, b.opts.MaxFieldSize)
	if err != nil {
		return nil, err
	}
	if in.Indicator == native.NullData {
		p.Indicator = native.NullData
		return p, nil
	}
	if in.CType != ctype {
		return nil, errors.Errorf("input value %T does not match output target %T", v, target)
	}
	if len(in.Data) > len(p.Data) {
		return nil, errors.Errorf("input value of %d bytes exceeds the output buffer", len(in.Data))
	}
	copy(p.Data, in.Data)
	p.Indicator = in.Indicator
	return p, nil
}

func outputLayout(t reflect.Type, maxFieldSize int) (native.CType, native.SQLType, int, error) {
	if t == timeType {
		return native.CTypeTimestamp, native.TypeTimestamp, native.TimestampSize, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return native.CBit, native.TypeBit, 1, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return native.CSBigInt, native.TypeBigInt, 8, nil
	case reflect.Float32, reflect.Float64:
		return native.CDouble, native.TypeDouble, 8, nil
	case reflect.String, reflect.Interface:
		return native.CChar, native.TypeVarchar, maxFieldSize, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return native.CBinary, native.TypeVarBinary, maxFieldSize, nil
		}
	}
	return 0, 0, 0, errors.Errorf("unsupported output type %s", t)
}

func nullParam(t native.SQLType) *native.Param {
	ctype := columnDataType(t).cType()
	return &native.Param{
		Direction:  native.ParamInput,
		CType:      ctype,
		SQLType:    t,
		ColumnSize: 1,
		Indicator:  native.NullData,
	}
}

func fixedParam(ctype native.CType, t native.SQLType, size uint64, data []byte) *native.Param {
	return &native.Param{
		Direction:  native.ParamInput,
		CType:      ctype,
		SQLType:    t,
		ColumnSize: size,
		Data:       data,
		Indicator:  int64(len(data)),
	}
}

func varParam(ctype native.CType, t, long native.SQLType, data []byte, maxFieldSize int) *native.Param {
	if len(data) > maxFieldSize {
		t = long
	}
	return &native.Param{
		Direction:  native.ParamInput,
		CType:      ctype,
		SQLType:    t,
		ColumnSize: uint64(max(len(data), 1)),
		Data:       data,
		Indicator:  int64(len(data)),
	}
}

// encodeParam lays out an input value for BindParameter.
func encodeParam(v any, maxFieldSize int) (*native.Param, error) {
	switch x := v.(type) {
	case nil:
		return nullParam(native.TypeVarchar), nil
	case typedNull:
		return nullParam(x.sqlType), nil
	case time.Time:
		return fixedParam(native.CTypeTimestamp, native.TypeTimestamp, timestampSize, native.EncodeTimestamp(x)), nil
	case []byte:
		if x == nil {
			return nullParam(native.TypeVarBinary), nil
		}
		return varParam(native.CBinary, native.TypeVarBinary, native.TypeLongVarBinary, x, maxFieldSize), nil
	case string:
		return varParam(native.CChar, native.TypeVarchar, native.TypeLongVarchar, []byte(x), maxFieldSize), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nullParam(native.TypeVarchar), nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return nil, err
		}
		if _, again := dv.(driver.Valuer); again {
			return nil, errors.Errorf("%T returned another driver.Valuer", v)
		}
		return encodeParam(dv, maxFieldSize)
	}
	switch rv.Kind() {
	case reflect.Pointer:
		return encodeParam(rv.Elem().Interface(), maxFieldSize)
	case reflect.Bool:
		return fixedParam(native.CBit, native.TypeBit, 1, native.EncodeBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fixedParam(native.CSBigInt, native.TypeBigInt, bigIntSize, native.EncodeInt64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.Errorf("unsigned value %d overflows BIGINT", u)
		}
		return fixedParam(native.CSBigInt, native.TypeBigInt, bigIntSize, native.EncodeInt64(int64(u))), nil
	case reflect.Float32, reflect.Float64:
		return fixedParam(native.CDouble, native.TypeDouble, doubleSize, native.EncodeFloat64(rv.Float())), nil
	case reflect.String:
		return varParam(native.CChar, native.TypeVarchar, native.TypeLongVarchar, []byte(rv.String()), maxFieldSize), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return encodeParam(rv.Bytes(), maxFieldSize)
		}
	}
	return nil, errors.Errorf("unsupported parameter type %T", v)
}

// decodeParam reads the value the driver wrote into an output parameter.
func decodeParam(p *native.Param) any {
	if p.Indicator == native.NullData {
		return nil
	}
	switch p.CType {
	case native.CSBigInt:
		return native.DecodeInt64(p.Data)
	case native.CDouble:
		return native.DecodeFloat64(p.Data)
	case native.CBit:
		return native.DecodeBool(p.Data)
	case native.CTypeTimestamp:
		return native.DecodeTimestamp(p.Data)
	}
	n := len(p.Data)
	if p.Indicator >= 0 && p.Indicator < int64(n) {
		n = int(p.Indicator)
	}
	if p.CType == native.CBinary {
		return append([]byte(nil), p.Data[:n]...)
	}
	return string(p.Data[:n])
}
