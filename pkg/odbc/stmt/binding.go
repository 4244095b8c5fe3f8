// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"io"
	"reflect"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

// Direction is the direction of a parameter binding.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

func (d Direction) native() native.ParamDirection {
	switch d {
	case DirOut:
		return native.ParamOutput
	case DirInOut:
		return native.ParamInputOutput
	}
	return native.ParamInput
}

// Binding supplies the value of one parameter marker. Bindings are consumed
// in order, the first binding fills the first marker.
type Binding interface {
	Direction() Direction
	// Value is read once per execution.
	Value() (any, error)
}

// ChunkSource produces the value of a data-at-exec parameter piece by piece.
// more is false on the last chunk. The last chunk may be empty.
type ChunkSource interface {
	NextChunk() (chunk []byte, more bool, err error)
}

// OutputBinding receives the value written back by the driver.
type OutputBinding interface {
	Binding
	// Target is the pointer the output is stored into. Its element type
	// decides the C type of the parameter buffer.
	Target() any
	SetOutput(v any) error
}

type valueBinding struct {
	v any
}

// Bind binds a copy of v. Supported values are nil, integers, floats, bool,
// string, []byte, time.Time and driver.Valuer.
func Bind(v any) Binding {
	return &valueBinding{v: v}
}

func (b *valueBinding) Direction() Direction {
	return DirIn
}

func (b *valueBinding) Value() (any, error) {
	return b.v, nil
}

type refBinding struct {
	ptr any
}

// Use binds the variable ptr points to. The variable is read when the
// statement executes, so it can be changed between executions.
func Use(ptr any) Binding {
	return &refBinding{ptr: ptr}
}

func (b *refBinding) Direction() Direction {
	return DirIn
}

func (b *refBinding) Value() (any, error) {
	return deref(b.ptr)
}

func deref(ptr any) (any, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer {
		return nil, errors.Errorf("%T is not a pointer", ptr)
	}
	if v.IsNil() {
		return nil, nil
	}
	return v.Elem().Interface(), nil
}

// typedNull is a NULL with a known SQL type.
type typedNull struct {
	sqlType native.SQLType
}

type nullBinding struct {
	null typedNull
}

// Null binds NULL of the SQL type t.
func Null(t native.SQLType) Binding {
	return &nullBinding{null: typedNull{sqlType: t}}
}

func (b *nullBinding) Direction() Direction {
	return DirIn
}

func (b *nullBinding) Value() (any, error) {
	return b.null, nil
}

type outBinding struct {
	ptr any
	dir Direction
}

// Out binds ptr as an output parameter, e.g. "{call p(?)}". ptr must point to
// an integer, float, bool, string, []byte or time.Time.
func Out(ptr any) OutputBinding {
	return &outBinding{ptr: ptr, dir: DirOut}
}

// InOut sends the value ptr points to and stores the output into it.
func InOut(ptr any) OutputBinding {
	return &outBinding{ptr: ptr, dir: DirInOut}
}

func (b *outBinding) Direction() Direction {
	return b.dir
}

func (b *outBinding) Value() (any, error) {
	if b.dir == DirOut {
		return nil, nil
	}
	return deref(b.ptr)
}

func (b *outBinding) Target() any {
	return b.ptr
}

func (b *outBinding) SetOutput(v any) error {
	return assign(b.ptr, v)
}

// DeferredBinding is an input parameter whose value is sent at execution time.
type DeferredBinding struct {
	src     ChunkSource
	sqlType native.SQLType
}

// Deferred binds a value that is streamed from src when the statement
// executes. A nil src sends NULL.
func Deferred(src ChunkSource, t native.SQLType) *DeferredBinding {
	return &DeferredBinding{src: src, sqlType: t}
}

// Chunks streams the given chunks in order.
func Chunks(t native.SQLType, chunks ...[]byte) *DeferredBinding {
	return Deferred(&sliceSource{chunks: chunks}, t)
}

// Stream streams r in chunks of at most chunkSize bytes.
func Stream(r io.Reader, chunkSize int, t native.SQLType) *DeferredBinding {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return Deferred(&readerSource{r: r, buf: make([]byte, chunkSize)}, t)
}

func (b *DeferredBinding) Direction() Direction {
	return DirIn
}

func (b *DeferredBinding) Value() (any, error) {
	return b, nil
}

func (b *DeferredBinding) SQLType() native.SQLType {
	return b.sqlType
}

func (b *DeferredBinding) Source() ChunkSource {
	return b.src
}

type sliceSource struct {
	chunks [][]byte
	next   int
}

func (s *sliceSource) NextChunk() ([]byte, bool, error) {
	if s.next >= len(s.chunks) {
		return nil, false, nil
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, s.next < len(s.chunks), nil
}

type readerSource struct {
	r   io.Reader
	buf []byte
}

func (s *readerSource) NextChunk() ([]byte, bool, error) {
	n, err := io.ReadFull(s.r, s.buf)
	switch {
	case err == io.EOF:
		return nil, false, nil
	case err == io.ErrUnexpectedEOF:
		return s.buf[:n], false, nil
	case err != nil:
		return nil, false, err
	}
	return s.buf[:n], true, nil
}

// bytesSource splits one value into chunks.
type bytesSource struct {
	data []byte
	size int
}

func newBytesSource(data []byte, size int) *bytesSource {
	return &bytesSource{data: data, size: size}
}

func (s *bytesSource) NextChunk() ([]byte, bool, error) {
	if len(s.data) == 0 {
		return nil, false, nil
	}
	n := min(s.size, len(s.data))
	chunk := s.data[:n]
	s.data = s.data[n:]
	return chunk, len(s.data) > 0, nil
}
