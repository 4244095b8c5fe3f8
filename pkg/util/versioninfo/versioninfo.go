// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package versioninfo

// These variables are set with -ldflags "-X" at build time.
var (
	Version   = "None"
	GitBranch = "None"
	GitHash   = "None"
	BuildTS   = "None"
)
