// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/config"
	"github.com/pingcap/odbcexec/lib/util/logger"
	"github.com/pingcap/odbcexec/pkg/metrics"
	_ "github.com/pingcap/odbcexec/pkg/odbc/native/sqlnative"
	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

type httpOpts struct {
	reader io.Reader
	header map[string]string
}

type doHTTPFunc func(t *testing.T, method string, path string, opts httpOpts, f func(*testing.T, *http.Response))

func createServer(t *testing.T) (*Server, *atomic.Bool, doHTTPFunc) {
	metrics.RegisterMetrics()
	lg, _ := logger.CreateLoggerForTest(t)
	cfg := config.NewConfig()
	sess, err := session.Open(context.Background(), cfg, lg)
	require.NoError(t, err)
	ready := atomic.NewBool(true)
	srv, err := NewServer(config.API{
		Addr: "127.0.0.1:0",
	}, lg, sess, ready)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, srv.Close())
		require.NoError(t, sess.Close())
	})

	addr := fmt.Sprintf("http://%s", srv.Addr())
	return srv, ready, func(t *testing.T, method, pa string, opts httpOpts, f func(*testing.T, *http.Response)) {
		if pa[0] != '/' {
			pa = "/" + pa
		}
		req, err := http.NewRequest(method, fmt.Sprintf("%s%s", addr, pa), opts.reader)
		require.NoError(t, err)
		for key, value := range opts.header {
			req.Header.Set(key, value)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		f(t, resp)
		require.NoError(t, resp.Body.Close())
	}
}

func TestReady(t *testing.T) {
	_, ready, doHTTP := createServer(t)
	doHTTP(t, http.MethodGet, "/api/debug/health", httpOpts{}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusOK, r.StatusCode)
	})

	ready.Store(false)
	doHTTP(t, http.MethodPost, "/api/sql/exec", httpOpts{reader: strings.NewReader(`{"sql": "SELECT 1"}`)}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	doHTTP(t, http.MethodGet, "/api/debug/health", httpOpts{}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusBadGateway, r.StatusCode)
		var info healthInfo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&info))
		require.False(t, info.Ready)
	})
}
