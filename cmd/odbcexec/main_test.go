// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/pingcap/odbcexec/pkg/odbc/stmt"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecCmd(t *testing.T) {
	out, err := runCmd(t, "exec", "SELECT ? AS a, ? AS b, ? AS c", "-p", "1", "-p", `"x"`, "-p", "null")
	require.NoError(t, err)
	require.Contains(t, out, "a  b  c")
	require.Contains(t, out, "1  x  NULL")
	require.Contains(t, out, "1 rows in set")

	out, err = runCmd(t, "exec", "SELECT 1 AS n", "--format", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"rows": [`)
	require.Contains(t, out, `"name": "n"`)

	_, err = runCmd(t, "exec", "SELECT 1", "--format", "xml")
	require.Error(t, err)
	_, err = runCmd(t, "exec", "SELECT ?", "-p", "{")
	require.ErrorIs(t, err, session.ErrInvalidParam)
	_, err = runCmd(t, "exec", "SELEC 1")
	require.ErrorIs(t, err, stmt.ErrCompile)
}

func TestNativeSQLCmd(t *testing.T) {
	out, err := runCmd(t, "native-sql", "SELECT {fn UCASE('a')}")
	require.NoError(t, err)
	require.Equal(t, "SELECT UPPER('a')\n", out)
}

func TestConfigInfo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[statement]\nchunk-size = 4096\n"), 0o644))
	out, err := runCmd(t, "--config", file, "--config-info")
	require.NoError(t, err)
	require.Contains(t, out, "chunk-size = 4096")

	require.NoError(t, os.WriteFile(file, []byte("[statement]\nchunk-size = -1\n"), 0o644))
	_, err = runCmd(t, "--config", file, "--config-info")
	require.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printResult(&out, &session.Result{AffectedRows: 3}, formatTable))
	require.Equal(t, "3 rows affected\n", out.String())

	out.Reset()
	result := &session.Result{
		Columns: []*stmt.MetaColumn{{Name: "id"}, {Name: "data"}},
		Rows:    [][]any{{int64(1), []byte{0xab}}, {int64(20), nil}},
	}
	require.NoError(t, printResult(&out, result, formatTable))
	require.Equal(t, "id  data\n1   0xAB\n20  NULL\n2 rows in set\n", out.String())
}
