// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	Driver: Driver{
		Name:         "odbc",
		DSN:          "DSN=pg;UID=root",
		ConnectRetry: 5,
	},
	Statement: Statement{
		AutoBind:          false,
		MaxFieldSize:      4096,
		ChunkSize:         512,
		ProcOutputColumns: true,
	},
	API: API{
		Addr:      "0.0.0.0:3090",
		RateLimit: 10,
	},
	Log: Log{
		Encoder: "json",
		Level:   "debug",
		LogFile: LogFile{
			Filename:   ".",
			MaxSize:    10,
			MaxDays:    1,
			MaxBackups: 1,
		},
	},
}

func TestConfigRoundTrip(t *testing.T) {
	data, err := testConfig.ToBytes()
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, toml.Unmarshal(data, &cfg))
	require.Equal(t, testConfig, cfg)
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Check())
	require.True(t, cfg.Statement.AutoBind)
	require.Equal(t, "sqlite", cfg.Driver.Name)

	clone := cfg.Clone()
	clone.Driver.Name = "mysql"
	require.Equal(t, "sqlite", cfg.Driver.Name)
}

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		pre func(*Config)
		err error
	}{
		{
			pre: func(c *Config) { c.Driver.Name = "" },
			err: ErrInvalidConfigValue,
		},
		{
			pre: func(c *Config) { c.Statement.ChunkSize = 0 },
			err: ErrInvalidConfigValue,
		},
		{
			pre: func(c *Config) {
				c.Statement.ChunkSize = 1024
				c.Statement.MaxFieldSize = 1023
			},
			err: ErrInvalidConfigValue,
		},
		{
			pre: func(c *Config) { c.API.RateLimit = -1 },
			err: ErrInvalidConfigValue,
		},
		{
			pre: func(c *Config) { c.Log.Encoder = "tidb" },
			err: ErrInvalidConfigValue,
		},
		{
			pre: func(c *Config) { c.Statement.AutoBind = false },
		},
	}
	for i, tc := range tests {
		cfg := NewConfig()
		tc.pre(cfg)
		if tc.err != nil {
			require.ErrorIs(t, cfg.Check(), tc.err, "case %d", i)
		} else {
			require.NoError(t, cfg.Check(), "case %d", i)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odbcexec.toml")
	content := `
[driver]
name = "mysql"
dsn = "root@tcp(127.0.0.1:3306)/test"

[statement]
auto-bind = false
chunk-size = 128
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.Driver.Name)
	require.False(t, cfg.Statement.AutoBind)
	require.Equal(t, 128, cfg.Statement.ChunkSize)
	// untouched keys keep the defaults
	require.Equal(t, defaultMaxFieldSize, cfg.Statement.MaxFieldSize)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, NewConfig(), cfg)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}
