// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pingcap/odbcexec/lib/cli"
	"github.com/pingcap/odbcexec/lib/util/cmd"
	"github.com/pingcap/odbcexec/pkg/util/versioninfo"
)

func main() {
	rootCmd := cli.GetRootCmd()
	rootCmd.Version = fmt.Sprintf("%s, commit %s", versioninfo.Version, versioninfo.GitHash)
	rootCmd.Use = strings.Replace(rootCmd.Use, "odbcexecctl", os.Args[0], 1)
	cmd.RunRootCommand(rootCmd)
}
