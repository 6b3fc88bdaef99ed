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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/internal/common"
	"github.com/stratastor/warren/pkg/orchestrator"
)

var APIError = common.APIError

// Handler exposes pool, filesystem and snapshot lifecycle over HTTP. Every
// request goes through the orchestrator; nothing here touches zfs directly.
type Handler struct {
	ctl *orchestrator.Controller
}

func NewHandler(ctl *orchestrator.Controller) *Handler {
	return &Handler{ctl: ctl}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	pools := router.Group("/pools")
	{
		pools.GET("", h.listPools)
		pools.POST("", h.createPool)
		pools.DELETE("/:name", h.destroyPool)
		pools.GET("/:name/properties", h.getPoolProperties)
		pools.GET("/:name/status", h.getPoolStatus)
	}

	filesystems := router.Group("/filesystems")
	{
		filesystems.GET("", h.listFilesystems)
		filesystems.POST("", h.createFilesystem)
		filesystems.DELETE("/*name", FilesystemParam(), h.destroyFilesystem)
		filesystems.GET("/properties/*name", FilesystemParam(), h.getFilesystemProperties)
		filesystems.PUT("/properties/*name", FilesystemParam(), h.setFilesystemProperty)
	}

	snapshots := router.Group("/snapshots")
	{
		snapshots.GET("", h.listSnapshots)
		snapshots.POST("", h.createSnapshot)
		snapshots.POST("/rollback", h.rollbackSnapshot)
		snapshots.DELETE("", h.destroySnapshot)
	}
}

const filesystemKey = "filesystem"

// FilesystemParam strips the leading slash gin leaves on a catch-all
// parameter, so "tank/data" arrives as "tank/data" and not "/tank/data".
func FilesystemParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(filesystemKey, strings.TrimPrefix(c.Param("name"), "/"))
		c.Next()
	}
}

func filesystemName(c *gin.Context) string {
	return c.GetString(filesystemKey)
}
