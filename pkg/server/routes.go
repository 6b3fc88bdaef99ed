// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/internal/constants"
	diskapi "github.com/stratastor/warren/pkg/disk/api"
	"github.com/stratastor/warren/pkg/health"
	"github.com/stratastor/warren/pkg/journal"
	journalapi "github.com/stratastor/warren/pkg/journal/api"
	"github.com/stratastor/warren/pkg/orchestrator"
	sharesapi "github.com/stratastor/warren/pkg/shares/api"
	zfsapi "github.com/stratastor/warren/pkg/zfs/api"
)

// NewRouter builds the engine. j may be nil, in which case the operations
// endpoint is not registered.
func NewRouter(l logger.Logger, cfg *config.Config, ctl *orchestrator.Controller, j *journal.Journal) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(l))

	allow, err := AllowNetworks(cfg.Server.AllowedNetworks)
	if err != nil {
		return nil, err
	}
	engine.Use(allow)

	started := time.Now()
	engine.GET(cfg.Health.Endpoint, func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Report{
			Status:  "healthy",
			Version: constants.Version,
			Uptime:  time.Since(started).Truncate(time.Second).String(),
		})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	zfsapi.NewHandler(ctl).RegisterRoutes(engine.Group(constants.APIZFS))
	sharesapi.NewSharesHandler(l, ctl).RegisterRoutes(engine.Group(constants.APIShares))
	diskapi.NewDiskHandler(ctl, l).RegisterRoutes(engine.Group(constants.APIDisk))
	if j != nil {
		journalapi.NewHandler(j).RegisterRoutes(engine.Group(constants.APIOperations))
	}

	return engine, nil
}
