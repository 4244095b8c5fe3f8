// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"runtime"

	"github.com/pingcap/odbcexec/lib/config"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/pingcap/odbcexec/pkg/server/api"
	"github.com/pingcap/odbcexec/pkg/util/versioninfo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type Server struct {
	// the connection statements run on
	Session *session.Session
	// HTTP server
	APIServer *api.Server
}

func NewServer(ctx context.Context, cfg *config.Config, lg *zap.Logger) (srv *Server, err error) {
	srv = &Server{}
	ready := atomic.NewBool(false)

	printInfo(lg)
	metrics.RegisterMetrics()

	// setup session
	if srv.Session, err = session.Open(ctx, cfg, lg.Named("session")); err != nil {
		return
	}

	// setup http
	if srv.APIServer, err = api.NewServer(cfg.API, lg.Named("api"), srv.Session, ready); err != nil {
		return
	}

	ready.Toggle()
	return
}

func printInfo(lg *zap.Logger) {
	fields := []zap.Field{
		zap.String("Release Version", versioninfo.Version),
		zap.String("Git Commit Hash", versioninfo.GitHash),
		zap.String("Git Branch", versioninfo.GitBranch),
		zap.String("UTC Build Time", versioninfo.BuildTS),
		zap.String("GoVersion", runtime.Version()),
		zap.String("OS", runtime.GOOS),
		zap.String("Arch", runtime.GOARCH),
	}
	lg.Info("Welcome to odbcexec.", fields...)
}

func (s *Server) Close() error {
	errs := make([]error, 0, 2)
	if s.APIServer != nil {
		errs = append(errs, s.APIServer.Close())
	}
	if s.Session != nil {
		errs = append(errs, s.Session.Close())
	}
	return errors.Collect(ErrCloseServer, errs...)
}
