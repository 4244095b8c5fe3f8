// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/pingcap/odbcexec/lib/config"
	"github.com/pingcap/odbcexec/lib/util/cmd"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/lib/util/logger"
	_ "github.com/pingcap/odbcexec/pkg/odbc/native/cgoodbc"
	_ "github.com/pingcap/odbcexec/pkg/odbc/native/sqlnative"
	"github.com/pingcap/odbcexec/pkg/server"
	"github.com/pingcap/odbcexec/pkg/util/versioninfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootContext struct {
	configFile string
	cfg        *config.Config
	lg         *zap.Logger
	syncer     *logger.AtomicWriteSyncer
}

func main() {
	cmd.RunRootCommand(newRootCmd())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          os.Args[0],
		Short:        "start the statement server",
		Version:      fmt.Sprintf("%s, commit %s", versioninfo.Version, versioninfo.GitHash),
		SilenceUsage: true,
	}
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rctx := &rootContext{}
	var configInfo bool
	rootCmd.PersistentFlags().StringVar(&rctx.configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&configInfo, "config-info", false, "output the effective config and exit")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig(rctx.configFile)
		if err != nil {
			return err
		}
		lg, syncer, err := logger.BuildLogger(&cfg.Log)
		if err != nil {
			return err
		}
		rctx.cfg, rctx.lg, rctx.syncer = cfg, lg, syncer
		return nil
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		_ = rctx.lg.Sync()
		return rctx.syncer.Close()
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if configInfo {
			b, err := rctx.cfg.ToBytes()
			if err != nil {
				return err
			}
			cmd.Print(string(b))
			return nil
		}
		srv, err := server.NewServer(cmd.Context(), rctx.cfg, rctx.lg)
		if err != nil {
			return errors.Wrapf(err, "fail to create server")
		}

		<-cmd.Context().Done()
		if e := srv.Close(); e != nil {
			err = errors.Wrapf(e, "shutdown with errors")
		}

		return err
	}

	rootCmd.AddCommand(newExecCmd(rctx))
	rootCmd.AddCommand(newNativeSQLCmd(rctx))
	return rootCmd
}
