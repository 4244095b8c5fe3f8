// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/odbcexec/lib/util/errors"
)

var (
	ErrInvalidConfigValue = errors.New("invalid config value")
)

const (
	defaultChunkSize    = 32 * 1024
	defaultMaxFieldSize = 1024 * 1024
	maxChunkSize        = 64 * 1024 * 1024
)

type Config struct {
	Driver    Driver    `toml:"driver,omitempty" json:"driver,omitempty"`
	Statement Statement `toml:"statement,omitempty" json:"statement,omitempty"`
	API       API       `toml:"api,omitempty" json:"api,omitempty"`
	Log       Log       `toml:"log,omitempty" json:"log,omitempty"`
}

// Driver selects the native layer and the data source it connects to.
type Driver struct {
	// Name is a registered native driver: "odbc", "sqlite" or "mysql".
	Name string `toml:"name,omitempty" json:"name,omitempty"`
	// DSN is passed to the driver untouched. For "odbc" it is an ODBC
	// connection string, e.g. "DSN=pg;UID=root".
	DSN                  string        `toml:"dsn,omitempty" json:"dsn,omitempty"`
	ConnectRetry         uint64        `toml:"connect-retry,omitempty" json:"connect-retry,omitempty"`
	ConnectRetryInterval time.Duration `toml:"connect-retry-interval,omitempty" json:"connect-retry-interval,omitempty"`
}

type Statement struct {
	// AutoBind binds values directly. When it's false, strings and byte slices are
	// sent at execution time in chunks of ChunkSize.
	AutoBind bool `toml:"auto-bind" json:"auto-bind"`
	// MaxFieldSize bounds the values of columns that are not streamed.
	MaxFieldSize int `toml:"max-field-size,omitempty" json:"max-field-size,omitempty"`
	ChunkSize    int `toml:"chunk-size,omitempty" json:"chunk-size,omitempty"`
	// ProcOutputColumns is set for drivers that report the output parameters of
	// a call escape as result columns.
	ProcOutputColumns bool `toml:"proc-output-columns" json:"proc-output-columns"`
}

type API struct {
	Addr string `toml:"addr,omitempty" json:"addr,omitempty"`
	// RateLimit is the number of requests served per second.
	RateLimit int `toml:"rate-limit,omitempty" json:"rate-limit,omitempty"`
}

type Log struct {
	Encoder string  `toml:"encoder,omitempty" json:"encoder,omitempty"`
	Level   string  `toml:"level,omitempty" json:"level,omitempty"`
	LogFile LogFile `toml:"log-file,omitempty" json:"log-file,omitempty"`
}

type LogFile struct {
	Filename   string `toml:"filename,omitempty" json:"filename,omitempty"`
	MaxSize    int    `toml:"max-size,omitempty" json:"max-size,omitempty"`
	MaxDays    int    `toml:"max-days,omitempty" json:"max-days,omitempty"`
	MaxBackups int    `toml:"max-backups,omitempty" json:"max-backups,omitempty"`
}

func NewConfig() *Config {
	var cfg Config

	cfg.Driver.Name = "sqlite"
	cfg.Driver.DSN = "file::memory:"
	cfg.Driver.ConnectRetry = 3
	cfg.Driver.ConnectRetryInterval = time.Second

	cfg.Statement.AutoBind = true
	cfg.Statement.MaxFieldSize = defaultMaxFieldSize
	cfg.Statement.ChunkSize = defaultChunkSize

	cfg.API.Addr = "0.0.0.0:3090"
	cfg.API.RateLimit = 100

	cfg.Log.Level = "info"
	cfg.Log.Encoder = "console"
	cfg.Log.LogFile.MaxSize = 300
	cfg.Log.LogFile.MaxDays = 3
	cfg.Log.LogFile.MaxBackups = 3

	return &cfg
}

// LoadConfig reads a TOML file over the defaults and checks the result.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Clone() *Config {
	newCfg := *cfg
	return &newCfg
}

func (cfg *Config) Check() error {
	if cfg.Driver.Name == "" {
		return errors.Wrapf(ErrInvalidConfigValue, "driver.name must be set")
	}
	if cfg.Statement.ChunkSize <= 0 || cfg.Statement.ChunkSize > maxChunkSize {
		return errors.Wrapf(ErrInvalidConfigValue, "statement.chunk-size must be between 1 and 64M")
	}
	if cfg.Statement.MaxFieldSize < cfg.Statement.ChunkSize {
		return errors.Wrapf(ErrInvalidConfigValue, "statement.max-field-size must not be less than statement.chunk-size")
	}
	if cfg.API.RateLimit < 0 {
		return errors.Wrapf(ErrInvalidConfigValue, "api.rate-limit must not be negative")
	}
	switch cfg.Log.Encoder {
	case "json", "console", "":
	default:
		return errors.Wrapf(ErrInvalidConfigValue, "unsupported log encoder %s", cfg.Log.Encoder)
	}
	return nil
}

func (cfg *Config) ToBytes() ([]byte, error) {
	b := new(bytes.Buffer)
	err := toml.NewEncoder(b).Encode(cfg)
	return b.Bytes(), errors.WithStack(err)
}
