// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	LblPath   = "path"
	LblStatus = "status"
)

var (
	SessionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelSession,
			Name:      "connections",
			Help:      "Number of open driver connections.",
		})

	ConnectRetryCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelSession,
			Name:      "connect_retry",
			Help:      "Counter of retried connection attempts.",
		})

	APIRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelAPI,
			Name:      "requests",
			Help:      "Counter of HTTP API requests.",
		}, []string{LblPath, LblStatus})
)
