// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
)

const (
	ModuleODBCExec = "odbcexec"
)

// metrics labels.
const (
	LabelStmt    = "stmt"
	LabelSession = "session"
	LabelAPI     = "api"
)

var registerOnce sync.Once

// RegisterMetrics registers all collectors to the default registerer.
// It is safe to call it more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.DefaultRegisterer.Unregister(collectors.NewGoCollector())
		prometheus.MustRegister(collectors.NewGoCollector(collectors.WithGoCollections(collectors.GoRuntimeMetricsCollection | collectors.GoRuntimeMemStatsCollection)))

		prometheus.MustRegister(StmtOpCounter)
		prometheus.MustRegister(StmtOpDurationHistogram)
		prometheus.MustRegister(ChunkBytesCounter)
		prometheus.MustRegister(ChunkCounter)
		prometheus.MustRegister(RowsFetchedCounter)
		prometheus.MustRegister(OpenStmtGauge)
		prometheus.MustRegister(SessionGauge)
		prometheus.MustRegister(ConnectRetryCounter)
		prometheus.MustRegister(APIRequestCounter)
	})
}

// ReadCounter reads the value from the counter. It is only used for testing.
func ReadCounter(counter prometheus.Counter) (int, error) {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return 0, err
	}
	return int(metric.Counter.GetValue()), nil
}

// ReadGauge reads the value from the gauge. It is only used for testing.
func ReadGauge(gauge prometheus.Gauge) (int, error) {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		return 0, err
	}
	return int(metric.Gauge.GetValue()), nil
}

// ReadHistogramCount reads the sample count of the histogram. It is only used for testing.
func ReadHistogramCount(observer prometheus.Observer) (uint64, error) {
	var metric dto.Metric
	if err := observer.(prometheus.Metric).Write(&metric); err != nil {
		return 0, err
	}
	return metric.Histogram.GetSampleCount(), nil
}
