// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/session"
	"github.com/pingcap/odbcexec/pkg/odbc/stmt"
)

var errInvalidRequest = errors.New("invalid request")

type sqlRequest struct {
	SQL string `json:"sql"`
	// Params fill the parameter markers in order, see session.Bindings.
	Params []any `json:"params,omitempty"`
}

type nativeSQLResponse struct {
	SQL string `json:"sql"`
}

type errorResponse struct {
	Error       string `json:"error"`
	SQLState    string `json:"sql_state,omitempty"`
	NativeError int32  `json:"native_error,omitempty"`
}

func (h *Server) SQLExec(c *gin.Context) {
	req, err := readSQLRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	bindings, err := session.Bindings(req.Params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.mu.Lock()
	result, err := h.exec.Exec(req.SQL, bindings...)
	h.mu.Unlock()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Server) SQLNative(c *gin.Context) {
	req, err := readSQLRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.mu.Lock()
	out, err := h.exec.NativeSQL(req.SQL)
	h.mu.Unlock()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nativeSQLResponse{SQL: out})
}

func (h *Server) registerSQL(group *gin.RouterGroup) {
	group.POST("/exec", h.SQLExec)
	group.POST("/native", h.SQLNative)
}

func readSQLRequest(c *gin.Context) (*sqlRequest, error) {
	var req sqlRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(errInvalidRequest, err)
	}
	return &req, nil
}

// fail responds with the status matching the error class. Statement errors
// carry the diagnostics of the driver.
func (h *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidRequest), errors.Is(err, session.ErrInvalidParam),
		errors.Is(err, stmt.ErrEmptyStatement),
		errors.Is(err, stmt.ErrCompile), errors.Is(err, stmt.ErrBind):
		status = http.StatusBadRequest
	case errors.Is(err, stmt.ErrExecute), errors.Is(err, stmt.ErrDataTruncation):
		status = http.StatusUnprocessableEntity
	}
	resp := errorResponse{Error: err.Error()}
	var serr *stmt.Error
	if errors.As(err, &serr) {
		resp.SQLState = serr.SQLState()
		resp.NativeError = serr.NativeError()
	}
	c.Errors = append(c.Errors, &gin.Error{
		Err:  err,
		Type: gin.ErrorTypePrivate,
	})
	c.JSON(status, resp)
}
