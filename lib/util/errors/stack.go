// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
)

const defaultStackDepth = 48

var (
	_ error         = &Error{}
	_ fmt.Formatter = &Error{}
)

// Error attaches the call stack of its creation to another error.
// "%+v" and "%v" print the stack, "%s" prints the message only.
type Error struct {
	err   error
	trace []uintptr
}

// WithStack records the current stack. It returns nil for a nil error.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return withStackDepth(err, defaultStackDepth)
}

// WithStackDepth is WithStack with a custom number of recorded frames.
func WithStackDepth(err error, depth int) error {
	if err == nil {
		return nil
	}
	return withStackDepth(err, depth)
}

func withStackDepth(err error, depth int) *Error {
	e := &Error{err: err, trace: make([]uintptr, depth)}
	n := runtime.Callers(3, e.trace)
	e.trace = e.trace[:n]
	return e
}

func (e *Error) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		if st.Flag('+') {
			fmt.Fprintf(st, "%+v", e.err)
		} else {
			fmt.Fprintf(st, "%v", e.err)
		}
		e.writeTrace(st)
	case 's':
		fmt.Fprintf(st, "%s", e.err)
		if st.Flag('+') {
			e.writeTrace(st)
		}
	}
}

func (e *Error) writeTrace(w fmt.State) {
	frames := runtime.CallersFrames(e.trace)
	for {
		fr, more := frames.Next()
		fn := fr.Function
		if fn == "" {
			fn = "unknown"
		}
		io.WriteString(w, "\n")
		io.WriteString(w, fn)
		io.WriteString(w, "\n\t")
		io.WriteString(w, fr.File)
		if w.Flag('+') {
			io.WriteString(w, ":")
			io.WriteString(w, strconv.Itoa(fr.Line))
		}
		if !more {
			break
		}
	}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.err, target)
}

func (e *Error) As(target any) bool {
	return errors.As(e.err, target)
}

// Unwrap skips the stack layer on purpose, so it returns the cause of the
// wrapped error rather than the wrapped error itself.
func (e *Error) Unwrap() error {
	return errors.Unwrap(e.err)
}
