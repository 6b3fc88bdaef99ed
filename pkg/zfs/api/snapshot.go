// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/internal/common"
)

type snapshotCreateRequest struct {
	Filesystem string `json:"filesystem" binding:"required"`
}

// snapshotRequest names a snapshot in full, pool/fs@label.
type snapshotRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) listSnapshots(c *gin.Context) {
	snaps, err := h.ctl.ListSnapshots(c.Request.Context(), c.Query("filesystem"))
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

func (h *Handler) createSnapshot(c *gin.Context) {
	var req snapshotCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	res, err := h.ctl.CreateSnapshot(c.Request.Context(), req.Filesystem)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) rollbackSnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.ctl.RollbackSnapshot(c.Request.Context(), req.Name); err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name})
}

func (h *Handler) destroySnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.ctl.DestroySnapshot(c.Request.Context(), req.Name); err != nil {
		APIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
