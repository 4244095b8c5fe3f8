// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newExecCmd(rctx *rootContext) *cobra.Command {
	execCmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "execute a statement and print its result",
		Args:  cobra.ExactArgs(1),
	}
	params := execCmd.Flags().StringArrayP("param", "p", nil, "JSON value of the next parameter marker, e.g. 1, \"a\" or null")
	format := execCmd.Flags().String("format", formatTable, "output format, table or json")
	execCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if *format != formatTable && *format != formatJSON {
			return errors.Errorf("unsupported format %s", *format)
		}
		values := make([]any, 0, len(*params))
		for _, p := range *params {
			v, err := session.ParseParam([]byte(p))
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		bindings, err := session.Bindings(values)
		if err != nil {
			return err
		}
		sess, err := session.Open(cmd.Context(), rctx.cfg, rctx.lg.Named("session"))
		if err != nil {
			return err
		}
		defer closeSession(rctx, sess)
		result, err := sess.Exec(args[0], bindings...)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result, *format)
	}
	return execCmd
}

func newNativeSQLCmd(rctx *rootContext) *cobra.Command {
	nativeCmd := &cobra.Command{
		Use:   "native-sql <sql>",
		Short: "print the statement as the driver sends it to the data source",
		Args:  cobra.ExactArgs(1),
	}
	nativeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := session.Open(cmd.Context(), rctx.cfg, rctx.lg.Named("session"))
		if err != nil {
			return err
		}
		defer closeSession(rctx, sess)
		out, err := sess.NativeSQL(args[0])
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	}
	return nativeCmd
}

func closeSession(rctx *rootContext, sess *session.Session) {
	if err := sess.Close(); err != nil {
		rctx.lg.Warn("close session failed", zap.Error(err))
	}
}

func printResult(w io.Writer, result *session.Result, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(result))
	}
	if len(result.Columns) == 0 {
		_, err := fmt.Fprintf(w, "%d rows affected\n", result.AffectedRows)
		return errors.WithStack(err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	names := make([]string, 0, len(result.Columns))
	for _, col := range result.Columns {
		names = append(names, col.Name)
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, formatValue(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return errors.WithStack(err)
	}
	_, err := fmt.Fprintf(w, "%d rows in set\n", len(result.Rows))
	return errors.WithStack(err)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("0x%X", x)
	}
	return cast.ToString(v)
}
