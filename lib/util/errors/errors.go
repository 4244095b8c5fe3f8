// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors re-exports the standard error helpers and adds stack traces,
// cause wrapping and error collection on top of them.
package errors

import (
	"errors"
	"fmt"
)

func New(text string) error {
	return errors.New(text)
}

func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Wrap returns an error that reports cerr as its class and keeps uerr as the
// underlying cause. errors.Is matches both.
func Wrap(cerr error, uerr error) error {
	if cerr == nil {
		return uerr
	}
	if uerr == nil {
		return nil
	}
	return &WError{cerr: cerr, uerr: uerr}
}

// Wrapf is Wrap with a formatted cause. A %w verb in msg keeps the wrapped
// error reachable.
func Wrapf(cerr error, msg string, args ...any) error {
	if cerr == nil {
		return nil
	}
	return &WError{cerr: cerr, uerr: fmt.Errorf(msg, args...)}
}

// Collect groups several errors under one class error. Nil errors are dropped
// and nil is returned when none is left.
func Collect(cerr error, uerr ...error) error {
	causes := make([]error, 0, len(uerr))
	for _, e := range uerr {
		if e != nil {
			causes = append(causes, e)
		}
	}
	if len(causes) == 0 {
		return nil
	}
	return &MError{cerr: cerr, uerr: causes}
}
