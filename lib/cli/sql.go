// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/spf13/cobra"
)

const (
	sqlPrefix = "/api/sql"
)

type sqlRequest struct {
	SQL    string            `json:"sql"`
	Params []json.RawMessage `json:"params,omitempty"`
}

func GetSQLCmd(ctx *Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sql",
		Short: "run statements on the service",
	}

	// exec
	{
		execCmd := &cobra.Command{
			Use:   "exec <sql>",
			Short: "execute a statement and print its result",
			Args:  cobra.ExactArgs(1),
		}
		params := execCmd.Flags().StringArrayP("param", "p", nil, "JSON value of the next parameter marker, e.g. 1, \"a\" or null")
		execCmd.RunE = func(cmd *cobra.Command, args []string) error {
			req := sqlRequest{SQL: args[0]}
			for _, p := range *params {
				if !json.Valid([]byte(p)) {
					return errors.Errorf("param %s is not a JSON value", p)
				}
				req.Params = append(req.Params, json.RawMessage(p))
			}
			return postSQL(cmd, ctx, sqlPrefix+"/exec", &req)
		}
		rootCmd.AddCommand(execCmd)
	}

	// native
	{
		nativeCmd := &cobra.Command{
			Use:   "native <sql>",
			Short: "print the statement as the driver sends it to the data source",
			Args:  cobra.ExactArgs(1),
		}
		nativeCmd.RunE = func(cmd *cobra.Command, args []string) error {
			return postSQL(cmd, ctx, sqlPrefix+"/native", &sqlRequest{SQL: args[0]})
		}
		rootCmd.AddCommand(nativeCmd)
	}

	return rootCmd
}

func postSQL(cmd *cobra.Command, ctx *Context, path string, req *sqlRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return errors.WithStack(err)
	}
	resp, err := doRequest(cmd.Context(), ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	printJSON(cmd, resp)
	return nil
}
