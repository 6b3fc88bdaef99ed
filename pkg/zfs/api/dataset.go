/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/internal/common"
	"github.com/stratastor/warren/pkg/orchestrator"
)

type setPropertyRequest struct {
	Property string `json:"property" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

func (h *Handler) listFilesystems(c *gin.Context) {
	fs, err := h.ctl.ListFilesystems(c.Request.Context())
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filesystems": fs})
}

func (h *Handler) createFilesystem(c *gin.Context) {
	var req orchestrator.FilesystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	res, err := h.ctl.CreateFilesystem(c.Request.Context(), req)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) destroyFilesystem(c *gin.Context) {
	if err := h.ctl.DestroyFilesystem(c.Request.Context(), filesystemName(c)); err != nil {
		APIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getFilesystemProperties accepts ?props=a,b to narrow the result; without
// it the standard inspect list is returned.
func (h *Handler) getFilesystemProperties(c *gin.Context) {
	name := filesystemName(c)

	var props []string
	if q := c.Query("props"); q != "" {
		props = strings.Split(q, ",")
	}

	out, err := h.ctl.FilesystemProperties(c.Request.Context(), name, props...)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "properties": out})
}

func (h *Handler) setFilesystemProperty(c *gin.Context) {
	var req setPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.ctl.SetFilesystemProperty(
		c.Request.Context(), filesystemName(c), req.Property, req.Value,
	); err != nil {
		APIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
