// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"fmt"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/internal/constants"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/httpclient"
	"github.com/stratastor/warren/pkg/shares/nfs"
)

// Report is what the daemon's health endpoint returns.
type Report struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// DivergenceReport mirrors GET /shares/nfs/divergence.
type DivergenceReport struct {
	InSync     bool           `json:"in_sync"`
	Divergence nfs.Divergence `json:"divergence"`
}

// HealthChecker queries a running daemon on localhost.
type HealthChecker struct {
	Client   *httpclient.Client
	Logger   logger.Logger
	endpoint string
}

func NewHealthChecker(cfg *config.Config) (*HealthChecker, error) {
	l, err := logger.NewTag(config.NewLoggerConfig(cfg), "health")
	if err != nil {
		return nil, err
	}

	clientConfig := httpclient.NewClientConfig()
	clientConfig.Timeout = 5 * time.Second
	clientConfig.RetryCount = 3
	clientConfig.RetryWaitTime = 2 * time.Second
	clientConfig.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	return &HealthChecker{
		Client:   httpclient.NewClient(clientConfig),
		Logger:   l,
		endpoint: cfg.Health.Endpoint,
	}, nil
}

func (hc *HealthChecker) CheckHealth(ctx context.Context) (Report, error) {
	var report Report
	resp, err := hc.Client.NewRequest(httpclient.RequestConfig{
		Path:    hc.endpoint,
		Result:  &report,
		Context: ctx,
	}).Get()
	if err != nil {
		return report, errors.Wrap(err, errors.HealthCheckFailed).
			WithMetadata("endpoint", hc.endpoint)
	}
	if !resp.IsSuccess() {
		return report, errors.New(errors.HealthCheckFailed, "unhealthy").
			WithMetadata("status", resp.Status()).
			WithMetadata("response", resp.String())
	}
	return report, nil
}

// Divergence asks the daemon whether the exports file and the NFS server
// agree.
func (hc *HealthChecker) Divergence(ctx context.Context) (DivergenceReport, error) {
	var out DivergenceReport
	path := constants.APIShares + "/nfs/divergence"

	resp, err := hc.Client.NewRequest(httpclient.RequestConfig{
		Path:    path,
		Result:  &out,
		Context: ctx,
	}).Get()
	if err != nil {
		return out, errors.Wrap(err, errors.HealthCheckFailed).WithMetadata("endpoint", path)
	}
	if !resp.IsSuccess() {
		return out, errors.New(errors.HealthCheckFailed, "divergence query failed").
			WithMetadata("status", resp.Status()).
			WithMetadata("response", resp.String())
	}
	return out, nil
}
