// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/pingcap/odbcexec/pkg/util/versioninfo"
)

type healthInfo struct {
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
}

func (h *Server) DebugHealth(c *gin.Context) {
	status := http.StatusOK
	ready := h.ready.Load()
	if !ready {
		status = http.StatusBadGateway
	}
	c.JSON(status, healthInfo{
		Ready:   ready,
		Version: versioninfo.Version,
	})
}

func (h *Server) registerDebug(group *gin.RouterGroup) {
	group.GET("/health", h.DebugHealth)
	pprof.RouteRegister(group, "/pprof")
}
