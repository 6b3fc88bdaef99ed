// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/journal"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, n int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.journal.api")
	require.NoError(t, err)
	j, err := journal.Open(l, journal.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	for i := 0; i < n; i++ {
		require.NoError(t, j.Record(context.Background(), orchestrator.AuditRecord{
			ID:        fmt.Sprintf("op-%d", i),
			Time:      time.Date(2025, 1, 6, 10, 0, i, 0, time.UTC),
			Operation: "snapshot.create",
			Kind:      orchestrator.KindSnapshot,
			Outcome:   orchestrator.OutcomeSuccess,
		}))
	}

	router := gin.New()
	NewHandler(j).RegisterRoutes(router.Group("/api/v1/warren/operations"))
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListOperations(t *testing.T) {
	router := setup(t, 5)

	w := get(router, "/api/v1/warren/operations?limit=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Operations []orchestrator.AuditRecord `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Operations, 2)
	assert.Equal(t, "op-4", out.Operations[0].ID)
	assert.Equal(t, "op-3", out.Operations[1].ID)
}

func TestListRejectsBadLimit(t *testing.T) {
	router := setup(t, 0)

	for _, q := range []string{"0", "-1", "abc", "100000"} {
		w := get(router, "/api/v1/warren/operations?limit="+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetOperation(t *testing.T) {
	router := setup(t, 2)

	w := get(router, "/api/v1/warren/operations/op-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"snapshot.create"`)

	w = get(router, "/api/v1/warren/operations/op-9")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
