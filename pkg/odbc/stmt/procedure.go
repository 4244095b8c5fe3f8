// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import "strings"

// IsStoredProcedure reports whether the text is an ODBC call escape, i.e. it
// starts with '{' and ends with '}' after trimming whitespace.
func IsStoredProcedure(sql string) bool {
	sql = strings.TrimSpace(sql)
	return len(sql) > 1 && sql[0] == '{' && sql[len(sql)-1] == '}'
}

// AdjustColumnCount returns the number of result columns the caller sees.
// Some drivers report the output parameters of a procedure as columns, so
// outputs are removed from raw for procedures. It never returns a negative count.
func AdjustColumnCount(isProc bool, raw, outputs int) int {
	if raw < 0 {
		raw = 0
	}
	if !isProc {
		return raw
	}
	return max(raw-outputs, 0)
}
