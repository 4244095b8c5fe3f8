// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestReadMetrics(t *testing.T) {
	counter := StmtOpCounter.WithLabelValues("test_read", ResultOK)
	before, err := ReadCounter(counter)
	require.NoError(t, err)
	counter.Add(2)
	after, err := ReadCounter(counter)
	require.NoError(t, err)
	require.Equal(t, before+2, after)

	OpenStmtGauge.Set(3)
	val, err := ReadGauge(OpenStmtGauge)
	require.NoError(t, err)
	require.Equal(t, 3, val)
	OpenStmtGauge.Set(0)

	observer := StmtOpDurationHistogram.WithLabelValues("test_read")
	observer.Observe(0.1)
	cnt, err := ReadHistogramCount(observer)
	require.NoError(t, err)
	require.EqualValues(t, 1, cnt)
}
