// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
)

// APIResponse represents a standardized API response format
type APIResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents error information in API responses
type APIError struct {
	Code    int               `json:"code"`
	Domain  string            `json:"domain"`
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// DiskHandler serves the block device inventory
type DiskHandler struct {
	ctl    *orchestrator.Controller
	logger logger.Logger
}

func NewDiskHandler(ctl *orchestrator.Controller, logger logger.Logger) *DiskHandler {
	return &DiskHandler{ctl: ctl, logger: logger}
}

// RegisterRoutes registers all disk API routes
func (h *DiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.ListDevices)
	router.GET("/health", h.GetDeviceHealth)
}

// ListDevices returns every whole disk with its pool membership and
// SMART verdict.
func (h *DiskHandler) ListDevices(c *gin.Context) {
	devices, err := h.ctl.ListDevices(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	h.sendSuccess(c, http.StatusOK, gin.H{"devices": devices})
}

// GetDeviceHealth runs a SMART health check on ?path=.
func (h *DiskHandler) GetDeviceHealth(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		h.sendError(c, errors.New(errors.ServerRequestValidation, "path query parameter is required"))
		return
	}

	health, err := h.ctl.DeviceHealth(c.Request.Context(), path)
	if err != nil {
		h.sendError(c, err)
		return
	}
	h.sendSuccess(c, http.StatusOK, health)
}

func (h *DiskHandler) sendSuccess(c *gin.Context, statusCode int, result interface{}) {
	c.JSON(statusCode, APIResponse{Success: true, Result: result})
}

func (h *DiskHandler) sendError(c *gin.Context, err error) {
	_ = c.Error(err)
	response := APIResponse{Success: false}

	if we, ok := errors.As(err); ok {
		response.Error = &APIError{
			Code:    int(we.Code),
			Domain:  string(we.Domain),
			Kind:    string(we.Kind),
			Message: we.Message,
			Details: we.Details,
			Meta:    we.Metadata,
		}
		c.AbortWithStatusJSON(we.HTTPStatus, response)
		return
	}

	h.logger.Error("Unclassified disk API error", "err", err)
	response.Error = &APIError{
		Code:    errors.ServerInternalError,
		Domain:  string(errors.DomainServer),
		Kind:    string(errors.KindInternal),
		Message: err.Error(),
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, response)
}
