// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/stretchr/testify/require"
)

func TestRetryNotify(t *testing.T) {
	errFail := errors.New("fail")
	var calls, notified int
	err := RetryNotify(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errFail
		}
		return nil
	}, time.Millisecond, 5, func(err error, _ time.Duration) {
		require.ErrorIs(t, err, errFail)
		notified++
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, 2, notified)

	calls = 0
	err = RetryNotify(context.Background(), func() error {
		calls++
		return errFail
	}, time.Millisecond, 2, func(error, time.Duration) {})
	require.ErrorIs(t, err, errFail)
	require.Equal(t, 3, calls)

	calls = 0
	err = RetryNotify(context.Background(), func() error {
		calls++
		return backoff.Permanent(errFail)
	}, time.Millisecond, 5, func(error, time.Duration) {})
	require.ErrorIs(t, err, errFail)
	require.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = RetryNotify(ctx, func() error { return nil }, time.Millisecond, 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}
