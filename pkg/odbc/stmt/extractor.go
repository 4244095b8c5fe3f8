// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"bytes"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"github.com/siddontang/go/hack"
	"go.uber.org/zap"
)

// Extractor reads the columns of the current row with GetData.
type Extractor struct {
	stmt native.Stmt
	opts Options
	lg   *zap.Logger
}

func newExtractor(stmt native.Stmt, opts Options, lg *zap.Logger) *Extractor {
	return &Extractor{stmt: stmt, opts: opts, lg: lg}
}

// Row reads all columns of the current row. Columns must be read in order and
// only once, so nothing is handed out unless the whole row is read.
func (e *Extractor) Row(columns []*MetaColumn) ([]any, error) {
	values := make([]any, len(columns))
	for i, col := range columns {
		v, err := e.column(col)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (e *Extractor) column(col *MetaColumn) (any, error) {
	ctype := col.Type.cType()
	if size := native.FixedSize(ctype); size > 0 {
		return e.fixed(col, ctype, size)
	}
	data, null, err := e.variable(col, ctype)
	if err != nil || null {
		return nil, err
	}
	if ctype == native.CBinary {
		return data, nil
	}
	// data is owned by this call.
	return hack.String(data), nil
}

func (e *Extractor) fixed(col *MetaColumn, ctype native.CType, size int) (any, error) {
	buf := make([]byte, size)
	ind, rc := e.stmt.GetData(col.Position+1, ctype, buf)
	if rc == native.NoData {
		return nil, causeError(ErrFetch, "SQLGetData", errors.Errorf("column %d has no data", col.Position))
	}
	if rc.IsError() {
		return nil, nativeError(ErrFetch, "SQLGetData", rc, e.stmt.Diagnostics())
	}
	if ind == native.NullData {
		return nil, nil
	}
	switch ctype {
	case native.CSBigInt:
		return native.DecodeInt64(buf), nil
	case native.CDouble:
		return native.DecodeFloat64(buf), nil
	case native.CBit:
		return native.DecodeBool(buf), nil
	}
	return native.DecodeTimestamp(buf), nil
}

// streamed reports whether the column is read in chunks without a size bound.
func (e *Extractor) streamed(col *MetaColumn) bool {
	return col.SQLType.IsLong() || col.Length == 0 || col.Length > uint64(e.opts.MaxFieldSize)
}

// variable reads a character or binary column. The driver truncates a value
// that doesn't fit into the buffer and reports the remaining length or
// NoTotal, the following calls continue where the last one stopped.
func (e *Extractor) variable(col *MetaColumn, ctype native.CType) ([]byte, bool, error) {
	streamed := e.streamed(col)
	size := e.opts.ChunkSize
	if !streamed {
		size = int(max(col.Length, 1))
	}
	buf := make([]byte, size)
	total, chunks := 0, 0
	for {
		space := len(buf) - total
		ind, rc := e.stmt.GetData(col.Position+1, ctype, buf[total:])
		if rc == native.NoData {
			break
		}
		if rc.IsError() {
			kind := ErrFetch
			if chunks > 0 {
				kind = ErrChunkTransfer
			}
			return nil, false, nativeError(kind, "SQLGetData", rc, e.stmt.Diagnostics())
		}
		chunks++
		if ind == native.NullData {
			return nil, true, nil
		}
		if ind != native.NoTotal && ind <= int64(space) {
			total += int(ind)
			break
		}
		if rc == native.Success {
			total = len(buf)
			break
		}
		total = len(buf)
		next := 2 * len(buf)
		if ind != native.NoTotal {
			next = max(next, total+int(ind)-space)
		}
		if !streamed {
			if ind != native.NoTotal && total+int(ind)-space > e.opts.MaxFieldSize {
				return nil, false, e.truncation(col)
			}
			next = min(next, e.opts.MaxFieldSize)
			if next <= total {
				return nil, false, e.truncation(col)
			}
		}
		grown := make([]byte, next)
		copy(grown, buf[:total])
		buf = grown
	}
	if chunks > 1 {
		metrics.ChunkCounter.WithLabelValues(metrics.DirectionGet).Add(float64(chunks))
		metrics.ChunkBytesCounter.WithLabelValues(metrics.DirectionGet).Add(float64(total))
		e.lg.Debug("read column in chunks", zap.Int("column", col.Position), zap.Int("chunks", chunks), zap.Int("bytes", total))
	}
	data := buf[:total]
	// Short values must not keep the whole chunk buffer alive.
	if len(buf)-total > total {
		data = bytes.Clone(data)
	}
	return data, false, nil
}

func (e *Extractor) truncation(col *MetaColumn) error {
	return errors.WithStack(errors.Wrapf(ErrDataTruncation, "column %s exceeds the max field size %d", col.Name, e.opts.MaxFieldSize))
}
