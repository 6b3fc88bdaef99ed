// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/common"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
)

// SharesHandler handles HTTP requests for NFS exports and the NFS service
type SharesHandler struct {
	logger logger.Logger
	ctl    *orchestrator.Controller
}

func NewSharesHandler(l logger.Logger, ctl *orchestrator.Controller) *SharesHandler {
	return &SharesHandler{logger: l, ctl: ctl}
}

// RegisterRoutes registers routes for the shares API
func (h *SharesHandler) RegisterRoutes(router *gin.RouterGroup) {
	nfs := router.Group("/nfs")
	{
		nfs.GET("/exports", h.listExports)
		nfs.GET("/exports/*filesystem", h.getExport)
		nfs.GET("/records", h.listRecords)
		nfs.POST("/share", h.share)
		nfs.POST("/unshare", h.unshare)
		nfs.GET("/divergence", h.divergence)

		nfs.GET("/status", h.status)
		nfs.POST("/enable", h.enable)
		nfs.POST("/disable", h.disable)
	}
}

var APIError = common.APIError

// listExports returns what the NFS server is exporting right now.
func (h *SharesHandler) listExports(c *gin.Context) {
	records, err := h.ctl.ListExports(c.Request.Context())
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": records})
}

// listRecords returns what the exports file says should be exported.
func (h *SharesHandler) listRecords(c *gin.Context) {
	records, err := h.ctl.ExportRecords()
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *SharesHandler) getExport(c *gin.Context) {
	fs := strings.TrimPrefix(c.Param("filesystem"), "/")
	if fs == "" {
		APIError(c, errors.New(errors.ServerRequestValidation, "filesystem is required"))
		return
	}

	records, err := h.ctl.ExportDetail(c.Request.Context(), fs)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filesystem": fs, "exports": records})
}

func (h *SharesHandler) share(c *gin.Context) {
	var req orchestrator.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	rec, err := h.ctl.Share(c.Request.Context(), req)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *SharesHandler) unshare(c *gin.Context) {
	var req orchestrator.UnshareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.ctl.Unshare(c.Request.Context(), req); err != nil {
		APIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SharesHandler) divergence(c *gin.Context) {
	d, err := h.ctl.Divergence(c.Request.Context())
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_sync": d.InSync(), "divergence": d})
}

func (h *SharesHandler) status(c *gin.Context) {
	st, err := h.ctl.NFSStatus(c.Request.Context())
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SharesHandler) enable(c *gin.Context) {
	if err := h.ctl.EnableNFS(c.Request.Context()); err != nil {
		APIError(c, err)
		return
	}
	h.logger.Info("NFS service enabled")
	c.Status(http.StatusOK)
}

func (h *SharesHandler) disable(c *gin.Context) {
	if err := h.ctl.DisableNFS(c.Request.Context()); err != nil {
		APIError(c, err)
		return
	}
	h.logger.Info("NFS service disabled")
	c.Status(http.StatusOK)
}
