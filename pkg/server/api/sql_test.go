// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type execResponse struct {
	Columns []struct {
		Name string `json:"name"`
	} `json:"columns"`
	Rows         [][]any `json:"rows"`
	AffectedRows int64   `json:"affected_rows"`
}

func TestSQLExec(t *testing.T) {
	_, _, doHTTP := createServer(t)
	exec := func(body string, status int) (execResponse, errorResponse) {
		var resp execResponse
		var errResp errorResponse
		doHTTP(t, http.MethodPost, "/api/sql/exec", httpOpts{reader: strings.NewReader(body)}, func(t *testing.T, r *http.Response) {
			require.Equal(t, status, r.StatusCode, body)
			if status == http.StatusOK {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
			} else {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&errResp))
			}
		})
		return resp, errResp
	}

	exec(`{"sql": "CREATE TABLE t (id INTEGER, name VARCHAR(20), score DOUBLE)"}`, http.StatusOK)
	resp, _ := exec(`{"sql": "INSERT INTO t VALUES (?, ?, ?)", "params": [1, "a", 1.5]}`, http.StatusOK)
	require.EqualValues(t, 1, resp.AffectedRows)
	exec(`{"sql": "INSERT INTO t VALUES (?, ?, ?)", "params": [2, null, 3]}`, http.StatusOK)

	resp, _ = exec(`{"sql": "SELECT id, name, score FROM t ORDER BY id"}`, http.StatusOK)
	require.Len(t, resp.Columns, 3)
	require.Equal(t, "name", resp.Columns[1].Name)
	require.Equal(t, [][]any{{float64(1), "a", 1.5}, {float64(2), nil, float64(3)}}, resp.Rows)

	_, errResp := exec(`{"sql": "SELEC 1"}`, http.StatusBadRequest)
	require.NotEmpty(t, errResp.SQLState)
	require.Contains(t, errResp.Error, "SQLPrepare")
	_, errResp = exec(`{"sql": "INSERT INTO missing VALUES (1)"}`, http.StatusBadRequest)
	require.Equal(t, "42S02", errResp.SQLState)
	exec(`{"sql": ""}`, http.StatusBadRequest)
	exec(`{"sql": "SELECT ?", "params": [{"a": 1}]}`, http.StatusBadRequest)
	exec(`not json`, http.StatusBadRequest)
}

func TestSQLNative(t *testing.T) {
	_, _, doHTTP := createServer(t)
	doHTTP(t, http.MethodPost, "/api/sql/native", httpOpts{reader: strings.NewReader(`{"sql": "SELECT {fn UCASE('a')}"}`)}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusOK, r.StatusCode)
		var resp nativeSQLResponse
		require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
		require.Equal(t, "SELECT UPPER('a')", resp.SQL)
	})
	doHTTP(t, http.MethodPost, "/api/sql/native", httpOpts{reader: strings.NewReader(`{"sql": "{?= call f}"}`)}, func(t *testing.T, r *http.Response) {
		require.Equal(t, http.StatusBadRequest, r.StatusCode)
	})
}
