// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"github.com/pingcap/odbcexec/lib/config"
)

const (
	defaultChunkSize    = 32 * 1024
	defaultMaxFieldSize = 1024 * 1024
	minChunkSize        = 64
)

// Options tunes how a statement moves data through the native layer.
type Options struct {
	// AutoBind binds parameter values directly. Otherwise strings and byte
	// slices are sent in chunks at execution time.
	AutoBind bool
	// MaxFieldSize is the largest value read from a column that is not streamed.
	MaxFieldSize int
	// ChunkSize is the size of one data-at-exec chunk and the initial buffer
	// of a streamed column.
	ChunkSize int
	// ProcOutputColumns subtracts the output bindings of a call escape from
	// the columns the driver reports.
	ProcOutputColumns bool
}

func DefaultOptions() Options {
	return Options{
		AutoBind:     true,
		MaxFieldSize: defaultMaxFieldSize,
		ChunkSize:    defaultChunkSize,
	}
}

// OptionsFromConfig reads the statement section of the config.
func OptionsFromConfig(cfg *config.Statement) Options {
	return Options{
		AutoBind:          cfg.AutoBind,
		MaxFieldSize:      cfg.MaxFieldSize,
		ChunkSize:         cfg.ChunkSize,
		ProcOutputColumns: cfg.ProcOutputColumns,
	}.normalize()
}

func (o Options) normalize() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	} else if o.ChunkSize < minChunkSize {
		o.ChunkSize = minChunkSize
	}
	if o.MaxFieldSize <= 0 {
		o.MaxFieldSize = defaultMaxFieldSize
	}
	return o
}
