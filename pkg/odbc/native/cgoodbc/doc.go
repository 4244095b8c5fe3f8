// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cgoodbc binds the native call interface to an ODBC driver manager
// such as unixODBC and registers it as driver "odbc". The binding is only
// built with the "odbc" tag and cgo; without them the package is empty.
package cgoodbc
