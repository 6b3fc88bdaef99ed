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

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/internal/common"
	"github.com/stratastor/warren/pkg/zfs/pool"
)

func (h *Handler) listPools(c *gin.Context) {
	pools, err := h.ctl.ListPools(c.Request.Context())
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func (h *Handler) createPool(c *gin.Context) {
	var cfg pool.CreateConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		common.BindError(c, err)
		return
	}

	if err := h.ctl.CreatePool(c.Request.Context(), cfg); err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": cfg.Name})
}

func (h *Handler) destroyPool(c *gin.Context) {
	if err := h.ctl.DestroyPool(c.Request.Context(), c.Param("name")); err != nil {
		APIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getPoolProperties(c *gin.Context) {
	name := c.Param("name")

	props, err := h.ctl.PoolProperties(c.Request.Context(), name)
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "properties": props})
}

func (h *Handler) getPoolStatus(c *gin.Context) {
	status, err := h.ctl.PoolStatus(c.Request.Context(), c.Param("name"))
	if err != nil {
		APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
