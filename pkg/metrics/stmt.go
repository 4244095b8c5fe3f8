// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	LblOp        = "op"
	LblResult    = "result"
	LblDirection = "direction"
)

// Values of LblResult.
const (
	ResultOK   = "ok"
	ResultFail = "fail"
)

// Values of LblDirection.
const (
	DirectionPut = "put"
	DirectionGet = "get"
)

var (
	StmtOpCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "op_total",
			Help:      "Counter of statement operations.",
		}, []string{LblOp, LblResult})

	StmtOpDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "op_duration_seconds",
			Help:      "Bucketed histogram of processing time (s) of statement operations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 26), // 10us ~ 335s
		}, []string{LblOp})

	ChunkBytesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "chunk_bytes",
			Help:      "Counter of bytes transferred in chunks.",
		}, []string{LblDirection})

	ChunkCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "chunks",
			Help:      "Counter of chunks transferred.",
		}, []string{LblDirection})

	RowsFetchedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "rows_fetched",
			Help:      "Counter of extracted rows.",
		})

	OpenStmtGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: ModuleODBCExec,
			Subsystem: LabelStmt,
			Name:      "open_statements",
			Help:      "Number of allocated statement handles.",
		})
)
