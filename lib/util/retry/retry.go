// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	InfiniteCnt = 0
)

func NewBackOff(ctx context.Context, retryInterval time.Duration, retryCnt uint64) backoff.BackOff {
	var bo backoff.BackOff
	bo = backoff.NewConstantBackOff(retryInterval)
	if ctx != nil {
		bo = backoff.WithContext(bo, ctx)
	}
	if retryCnt != InfiniteCnt {
		bo = backoff.WithMaxRetries(bo, retryCnt)
	}
	return bo
}

// RetryNotify runs o until it succeeds, returns a backoff.Permanent error,
// the retry count is used up or ctx is done. notify is called on every failure.
func RetryNotify(ctx context.Context, o backoff.Operation, retryInterval time.Duration, retryCnt uint64,
	notify backoff.Notify) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return backoff.RetryNotify(o, NewBackOff(ctx, retryInterval, retryCnt), notify)
}
