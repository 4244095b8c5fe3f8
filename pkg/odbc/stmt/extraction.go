// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"reflect"

	"github.com/pingcap/odbcexec/lib/util/errors"
)

// Extraction receives the values of consecutive columns of a row. The
// extractions passed to a statement must cover exactly all result columns.
type Extraction interface {
	NumColumnsHandled() int
	// Extract receives NumColumnsHandled values of the current row. The
	// values are int64, float64, bool, string, []byte, time.Time or nil.
	Extract(values []any) error
}

// columnBinder is implemented by extractions that take whatever columns are
// left. The statement calls it before every row.
type columnBinder interface {
	bindColumns(columns []*MetaColumn)
}

type intoExtraction struct {
	ptrs []any
}

// Into stores consecutive columns into the variables ptrs point to. A
// pointer may also be a sql.Scanner.
func Into(ptrs ...any) Extraction {
	return &intoExtraction{ptrs: ptrs}
}

func (e *intoExtraction) NumColumnsHandled() int {
	return len(e.ptrs)
}

func (e *intoExtraction) Extract(values []any) error {
	for i, ptr := range e.ptrs {
		if err := assign(ptr, values[i]); err != nil {
			return err
		}
	}
	return nil
}

type sliceExtraction struct {
	ptr any
}

// IntoSlice appends one column of every row to the slice ptr points to.
func IntoSlice(ptr any) Extraction {
	return &sliceExtraction{ptr: ptr}
}

func (e *sliceExtraction) NumColumnsHandled() int {
	return 1
}

func (e *sliceExtraction) Extract(values []any) error {
	sv := reflect.ValueOf(e.ptr)
	if sv.Kind() != reflect.Pointer || sv.IsNil() || sv.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(ErrExtract, "destination %T is not a pointer to a slice", e.ptr)
	}
	slice := sv.Elem()
	elem := reflect.New(slice.Type().Elem())
	if err := assign(elem.Interface(), values[0]); err != nil {
		return err
	}
	slice.Set(reflect.Append(slice, elem.Elem()))
	return nil
}

// RecordSet keeps every row of a result in memory. It takes all columns that
// are not handled by the extractions before it.
type RecordSet struct {
	columns []*MetaColumn
	rows    [][]any
}

func NewRecordSet() *RecordSet {
	return &RecordSet{}
}

func (r *RecordSet) bindColumns(columns []*MetaColumn) {
	r.columns = columns
}

func (r *RecordSet) NumColumnsHandled() int {
	return len(r.columns)
}

func (r *RecordSet) Extract(values []any) error {
	row := make([]any, len(values))
	copy(row, values)
	r.rows = append(r.rows, row)
	return nil
}

func (r *RecordSet) Columns() []*MetaColumn {
	return r.columns
}

func (r *RecordSet) Rows() [][]any {
	return r.rows
}

func (r *RecordSet) RowCount() int {
	return len(r.rows)
}

// Value returns the value at the 0-based row and column.
func (r *RecordSet) Value(row, col int) (any, error) {
	if row < 0 || row >= len(r.rows) {
		return nil, errors.WithStack(errors.Wrapf(ErrInvalidAccess, "invalid row number: %d", row))
	}
	if col < 0 || col >= len(r.rows[row]) {
		return nil, invalidColumnError(col)
	}
	return r.rows[row][col], nil
}

// Reset drops all rows.
func (r *RecordSet) Reset() {
	r.columns = nil
	r.rows = nil
}
