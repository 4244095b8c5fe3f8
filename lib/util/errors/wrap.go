// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	_ error = &WError{}
	_ error = &MError{}
)

// WError is the result of Wrap and Wrapf.
type WError struct {
	cerr error
	uerr error
}

func (e *WError) Format(st fmt.State, verb rune) {
	if st.Flag('+') {
		fmt.Fprintf(st, "%+v: %+v", e.cerr, e.uerr)
		return
	}
	fmt.Fprintf(st, "%v: %v", e.cerr, e.uerr)
}

func (e *WError) Error() string {
	return e.cerr.Error() + ": " + e.uerr.Error()
}

func (e *WError) Is(target error) bool {
	return errors.Is(e.cerr, target)
}

func (e *WError) Unwrap() error {
	return e.uerr
}

// MError is the result of Collect.
type MError struct {
	cerr error
	uerr []error
}

func (e *MError) Error() string {
	var sb strings.Builder
	if e.cerr != nil {
		sb.WriteString(e.cerr.Error())
		sb.WriteString(":")
	}
	for _, ue := range e.uerr {
		sb.WriteString("\n\t")
		sb.WriteString(ue.Error())
	}
	return sb.String()
}

func (e *MError) Is(target error) bool {
	if e.cerr != nil && errors.Is(e.cerr, target) {
		return true
	}
	for _, ue := range e.uerr {
		if errors.Is(ue, target) {
			return true
		}
	}
	return false
}

// Cause returns the collected non-nil errors.
func (e *MError) Cause() []error {
	return e.uerr
}
