// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDebug(t *testing.T) {
	_, ready, doHTTP := createServer(t)

	doHTTP(t, http.MethodGet, "/api/debug/health", httpOpts{}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusOK, r.StatusCode)
	})
	doHTTP(t, http.MethodPost, "/api/debug/health", httpOpts{}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusNotFound, r.StatusCode)
	})

	for _, path := range []string{"/debug/pprof/", "/api/debug/pprof/"} {
		doHTTP(t, http.MethodGet, path, httpOpts{}, func(t *testing.T, r *http.Response) {
			require.Equal(t, http.StatusOK, r.StatusCode)
		})
	}

	// pprof keeps working while the service is not ready.
	ready.Store(false)
	doHTTP(t, http.MethodGet, "/api/debug/pprof/", httpOpts{}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusOK, r.StatusCode)
	})
}
