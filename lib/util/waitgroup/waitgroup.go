// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package waitgroup

import (
	"sync"

	"go.uber.org/zap"
)

// WaitGroup runs goroutines and waits for them.
type WaitGroup struct {
	sync.WaitGroup
}

func (w *WaitGroup) Run(exec func()) {
	w.Add(1)
	go func() {
		defer w.Done()
		exec()
	}()
}

// RunWithRecover runs exec in a goroutine and logs its panic instead of
// crashing the process. recoverFn is called after the panic is logged.
func (w *WaitGroup) RunWithRecover(exec func(), recoverFn func(r any), logger *zap.Logger) {
	w.Add(1)
	go func() {
		defer w.recoverFromErr(recoverFn, logger)
		exec()
	}()
}

func (w *WaitGroup) recoverFromErr(recoverFn func(r any), logger *zap.Logger) {
	r := recover()
	defer func() {
		// If it panics again in recovery, quit ASAP.
		_ = recover()
	}()
	if r != nil && logger != nil {
		logger.Error("panic in the recoverable goroutine",
			zap.Reflect("r", r),
			zap.Stack("stack trace"))
	}
	// recoverFn may call Close(), which waits for this group.
	w.Done()
	if r != nil && recoverFn != nil {
		recoverFn(r)
	}
}
