// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pingcap/odbcexec/lib/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func buildEncoder(cfg *config.Log) zapcore.Encoder {
	encfg := zap.NewProductionEncoderConfig()
	encfg.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.Format("2006/01/02 15:04:05.000 -07:00"))
	}
	encfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if cfg.Encoder == "json" {
		return zapcore.NewJSONEncoder(encfg)
	}
	return zapcore.NewConsoleEncoder(encfg)
}

// BuildLogger creates the process logger. The returned syncer must be closed
// when the logger is no longer used.
func BuildLogger(cfg *config.Log) (*zap.Logger, *AtomicWriteSyncer, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		var err error
		if level, err = zap.ParseAtomicLevel(cfg.Level); err != nil {
			return nil, nil, err
		}
	}
	syncer := &AtomicWriteSyncer{}
	if err := syncer.Rebuild(cfg); err != nil {
		return nil, nil, err
	}
	lg := zap.New(zapcore.NewCore(buildEncoder(cfg), syncer, level),
		zap.ErrorOutput(syncer), zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller())
	return lg, syncer, nil
}

type testingLog struct {
	*testing.T
	sync.Mutex
	buf bytes.Buffer
}

func (t *testingLog) Write(b []byte) (int, error) {
	t.Lock()
	defer t.Unlock()
	t.Logf("%s", b)
	return t.buf.Write(b)
}

func (t *testingLog) String() string {
	t.Lock()
	defer t.Unlock()
	return t.buf.String()
}

// CreateLoggerForTest returns both the logger and its content.
// Debug logs are kept so that tests can assert on them.
func CreateLoggerForTest(t *testing.T) (*zap.Logger, fmt.Stringer) {
	log := &testingLog{T: t}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(log),
		zap.DebugLevel,
	)).Named(t.Name()), log
}
