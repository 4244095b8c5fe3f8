// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrNoAddress = errors.New("no API address is configured")

type Context struct {
	Logger *zap.Logger
	Client *http.Client
	CUrls  []string
}

// doRequest sends the request to the addresses in random order until one of
// them answers without a server error.
func doRequest(ctx context.Context, bctx *Context, method string, url string, body []byte) (string, error) {
	if len(bctx.CUrls) == 0 {
		return "", errors.WithStack(ErrNoAddress)
	}
	var sep string
	if len(url) > 0 && url[0] != '/' {
		sep = "/"
	}

	var rete string
	for _, i := range rand.Perm(len(bctx.CUrls)) {
		req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("http://%s%s%s", bctx.CUrls[i], sep, url), bytes.NewReader(body))
		if err != nil {
			return "", errors.WithStack(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := bctx.Client.Do(req)
		if err != nil {
			bctx.Logger.Warn("request failed", zap.String("addr", bctx.CUrls[i]), zap.Error(err))
			rete = err.Error()
			continue
		}
		resb, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()

		switch res.StatusCode {
		case http.StatusOK:
			return string(resb), nil
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Sprintf("bad request: %s", string(resb)), nil
		case http.StatusInternalServerError:
			rete = fmt.Sprintf("internal error: %s", string(resb))
			continue
		default:
			rete = fmt.Sprintf("%s: %s", res.Status, string(resb))
			continue
		}
	}

	return rete, nil
}

// printJSON indents resp if the indent flag is set.
func printJSON(cmd *cobra.Command, resp string) {
	indent, err := cmd.Flags().GetBool("indent")
	if err != nil || !indent || !json.Valid([]byte(resp)) {
		cmd.Println(resp)
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(resp), "", "  "); err != nil {
		cmd.Println(resp)
		return
	}
	cmd.Println(buf.String())
}
