// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"strings"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

var (
	ErrAllocHandle        = errors.New("allocate statement handle failed")
	ErrCompile            = errors.New("compile statement failed")
	ErrBind               = errors.New("bind parameter failed")
	ErrExecute            = errors.New("execute statement failed")
	ErrFetch              = errors.New("fetch row failed")
	ErrExtract            = errors.New("extract column failed")
	ErrInvalidCursorState = errors.New("invalid cursor state")
	ErrInvalidAccess      = errors.New("invalid access")
	ErrDataTruncation     = errors.New("data truncated")
	ErrChunkTransfer      = errors.New("chunked data transfer failed")
	ErrPrecondition       = errors.New("statement precondition failed")
	ErrEmptyStatement     = errors.New("empty statements are illegal")
	ErrClosed             = errors.New("statement is closed")

	errCloseStatement = errors.New("close statement failed")
)

var _ error = &Error{}

// Error is a failed native call. errors.Is matches Kind, so callers test for
// the sentinels above and use errors.As to reach the diagnostics.
type Error struct {
	Kind  error
	Op    string
	Rc    native.Return
	Diags []native.Diag
	cause error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Op)
	if e.Rc != native.Success {
		sb.WriteString(" returned ")
		sb.WriteString(e.Rc.String())
	}
	if len(e.Diags) > 0 {
		sb.WriteString(": ")
		sb.WriteString(native.FormatDiags(e.Diags))
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.cause
}

// SQLState returns the state of the first diagnostic record, or "" if there is none.
func (e *Error) SQLState() string {
	if len(e.Diags) == 0 {
		return ""
	}
	return e.Diags[0].State
}

// NativeError returns the driver specific code of the first diagnostic record.
func (e *Error) NativeError() int32 {
	if len(e.Diags) == 0 {
		return 0
	}
	return e.Diags[0].NativeError
}

func nativeError(kind error, op string, rc native.Return, diags []native.Diag) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, Rc: rc, Diags: diags})
}

func causeError(kind error, op string, cause error) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, cause: cause})
}

func preconditionError(op string, state State) error {
	return errors.WithStack(errors.Wrapf(ErrPrecondition, "%s is not allowed in state %s", op, state))
}

func invalidColumnError(pos int) error {
	return errors.WithStack(errors.Wrapf(ErrInvalidAccess, "invalid column number: %d", pos))
}
