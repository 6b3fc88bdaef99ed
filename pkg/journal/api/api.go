// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/internal/common"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/journal"
)

// maxLimit caps a single page of the journal.
const maxLimit = 1000

type Handler struct {
	journal *journal.Journal
}

func NewHandler(j *journal.Journal) *Handler {
	return &Handler{journal: j}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	limit := journal.DefaultListLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxLimit {
			common.APIError(c, errors.New(errors.ServerRequestValidation,
				"limit must be between 1 and "+strconv.Itoa(maxLimit)).
				WithMetadata("limit", q))
			return
		}
		limit = n
	}

	records, err := h.journal.List(limit)
	if err != nil {
		common.APIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operations": records})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")

	rec, found, err := h.journal.Get(id)
	if err != nil {
		common.APIError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "operation not found", "id": id}})
		return
	}
	c.JSON(http.StatusOK, rec)
}
