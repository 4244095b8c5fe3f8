// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package session opens native connections and runs statements on them.
package session

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pingcap/odbcexec/lib/config"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/lib/util/retry"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"github.com/pingcap/odbcexec/pkg/odbc/stmt"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed = errors.New("session is closed")
	errCloseSession  = errors.New("close session failed")
)

// Session owns one native connection. It is not safe for concurrent use.
type Session struct {
	lg   *zap.Logger
	opts stmt.Options
	conn native.Conn
}

// Open connects to the data source of cfg.Driver. Failed attempts are retried
// ConnectRetry times, or until ctx is done if ConnectRetry is 0.
func Open(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*Session, error) {
	lg = lg.With(zap.String("driver", cfg.Driver.Name))
	var conn native.Conn
	err := retry.RetryNotify(ctx, func() error {
		var err error
		conn, err = native.Open(cfg.Driver.Name, cfg.Driver.DSN)
		if errors.Is(err, native.ErrUnknownDriver) {
			return backoff.Permanent(err)
		}
		return err
	}, cfg.Driver.ConnectRetryInterval, cfg.Driver.ConnectRetry, func(err error, d time.Duration) {
		metrics.ConnectRetryCounter.Inc()
		lg.Warn("connect failed, retrying", zap.Duration("backoff", d), zap.Error(err))
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return New(conn, stmt.OptionsFromConfig(&cfg.Statement), lg), nil
}

// New wraps an open connection. The session closes it.
func New(conn native.Conn, opts stmt.Options, lg *zap.Logger) *Session {
	metrics.SessionGauge.Inc()
	lg.Info("session opened")
	return &Session{
		lg:   lg,
		opts: opts,
		conn: conn,
	}
}

func (s *Session) Options() stmt.Options {
	return s.opts
}

// NewStatement allocates a statement. The caller closes it.
func (s *Session) NewStatement() (*stmt.Statement, error) {
	if s.conn == nil {
		return nil, errors.WithStack(ErrSessionClosed)
	}
	return stmt.New(s.conn, s.opts, s.lg)
}

// WithStatement runs fn with a new statement and closes the statement when fn
// returns or panics.
func (s *Session) WithStatement(fn func(*stmt.Statement) error) (err error) {
	st, err := s.NewStatement()
	if err != nil {
		return err
	}
	defer func() {
		cerr := st.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			err = cerr
			return
		}
		s.lg.Warn("close statement", zap.String("stmt_id", st.ID()), zap.Error(cerr))
	}()
	return fn(st)
}

// Result is a fully read statement result.
type Result struct {
	Columns      []*stmt.MetaColumn `json:"columns,omitempty"`
	Rows         [][]any            `json:"rows,omitempty"`
	AffectedRows int64              `json:"affected_rows"`
	Warnings     []native.Diag      `json:"warnings,omitempty"`
}

// Exec compiles and executes sql, and reads the whole result.
func (s *Session) Exec(sql string, bindings ...stmt.Binding) (*Result, error) {
	var result Result
	err := s.WithStatement(func(st *stmt.Statement) error {
		if err := st.Compile(sql); err != nil {
			return err
		}
		if err := st.Bind(bindings...); err != nil {
			return err
		}
		result.AffectedRows = st.AffectedRows()
		if st.ColumnsReturned() > 0 {
			columns, err := st.Columns()
			if err != nil {
				return err
			}
			rs := stmt.NewRecordSet()
			for {
				ok, err := st.HasNext()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				if err := st.Next(rs); err != nil {
					return err
				}
			}
			result.Columns = columns
			result.Rows = rs.Rows()
		}
		result.Warnings = st.Warnings()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// NativeSQL returns sql as the driver would send it to the data source.
func (s *Session) NativeSQL(sql string) (string, error) {
	var out string
	err := s.WithStatement(func(st *stmt.Statement) error {
		if err := st.Compile(sql); err != nil {
			return err
		}
		var err error
		out, err = st.NativeSQL()
		return err
	})
	return out, err
}

// Close closes the connection. It can be called repeatedly.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	metrics.SessionGauge.Dec()
	s.lg.Info("session closed")
	return errors.Collect(errCloseSession, err)
}
