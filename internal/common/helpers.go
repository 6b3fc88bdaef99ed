// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
)

// APIError renders err as {"error": {...}} and aborts the chain. The error
// is also attached to the context so the request logger can see it.
func APIError(c *gin.Context, err error) {
	_ = c.Error(err)

	if we, ok := errors.As(err); ok {
		c.AbortWithStatusJSON(we.HTTPStatus, gin.H{
			"error": gin.H{
				"code":      we.Code,
				"domain":    we.Domain,
				"kind":      we.Kind,
				"message":   we.Message,
				"details":   we.Details,
				"metadata":  we.Metadata,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"message":   err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// BindError reports a request body or query that failed to bind.
func BindError(c *gin.Context, err error) {
	APIError(c, errors.New(errors.ServerRequestValidation, err.Error()))
}
