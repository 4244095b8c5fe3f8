// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/pingcap/odbcexec/lib/config"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/lib/util/waitgroup"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/pingcap/odbcexec/pkg/odbc/stmt"
	"go.uber.org/atomic"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefConnTimeout is used as timeout duration in the HTTP server.
	DefConnTimeout = 30 * time.Second
)

// Executor runs statements for the API. *session.Session implements it.
type Executor interface {
	Exec(sql string, bindings ...stmt.Binding) (*session.Result, error)
	NativeSQL(sql string) (string, error)
}

type Server struct {
	listener net.Listener
	wg       waitgroup.WaitGroup
	limit    ratelimit.Limiter
	ready    *atomic.Bool
	lg       *zap.Logger
	// The executor owns one connection, so requests are served one by one.
	mu   sync.Mutex
	exec Executor
}

func NewServer(cfg config.API, lg *zap.Logger, exec Executor, ready *atomic.Bool) (*Server, error) {
	limit := ratelimit.NewUnlimited()
	if cfg.RateLimit > 0 {
		limit = ratelimit.New(cfg.RateLimit)
	}
	h := &Server{
		limit: limit,
		ready: ready,
		lg:    lg,
		exec:  exec,
	}

	var err error
	h.listener, err = net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		h.rateLimit,
		h.attachLogger,
	)

	h.registerAPI(engine.Group("/api"))
	// The paths are consistent with other components.
	h.registerMetrics(engine.Group("metrics"))
	h.registerDebug(engine.Group("debug"))

	hsrv := http.Server{
		Handler:           gzhttp.GzipHandler(engine.Handler()),
		ReadHeaderTimeout: DefConnTimeout,
		IdleTimeout:       DefConnTimeout,
	}

	h.wg.RunWithRecover(func() {
		lg.Info("HTTP closed", zap.Error(hsrv.Serve(h.listener)))
	}, nil, h.lg)

	return h, nil
}

// Addr is the address the server listens on.
func (h *Server) Addr() string {
	return h.listener.Addr().String()
}

func (h *Server) rateLimit(c *gin.Context) {
	_ = h.limit.Take()
}

func (h *Server) attachLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	latency := time.Since(start)

	path := c.FullPath()
	if path == "" {
		path = "unknown"
	}
	metrics.APIRequestCounter.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()

	fields := make([]zapcore.Field, 0, 7)
	fields = append(fields,
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("ip", c.ClientIP()),
		zap.String("user-agent", c.Request.UserAgent()),
		zap.Duration("latency", latency),
	)

	switch {
	case len(c.Errors) > 0:
		errs := make([]error, 0, len(c.Errors))
		for _, e := range c.Errors {
			errs = append(errs, e)
		}
		fields = append(fields, zap.Errors("errs", errs))
		h.lg.Warn(c.Request.URL.Path, fields...)
	default:
		h.lg.Debug(c.Request.URL.Path, fields...)
	}
}

func (h *Server) readyState(c *gin.Context) {
	if !h.ready.Load() {
		c.Abort()
		c.JSON(http.StatusInternalServerError, "service not ready")
	}
}

func (h *Server) registerAPI(g *gin.RouterGroup) {
	h.registerSQL(g.Group("sql", h.readyState))
	h.registerMetrics(g.Group("metrics"))
	h.registerDebug(g.Group("debug"))
}

func (h *Server) Close() error {
	err := h.listener.Close()
	h.wg.Wait()
	return err
}
