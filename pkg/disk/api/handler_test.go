// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stratastor/warren/pkg/zfs/common"
	"github.com/stratastor/warren/pkg/zfs/pool"
	"github.com/stratastor/warren/pkg/zfs/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDiskRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.disk.api")
	require.NoError(t, err)

	exports := filepath.Join(t.TempDir(), "exports")
	sim := testutil.NewSimulator(exports, testutil.DefaultDisks(3)...)
	ctl := orchestrator.NewWithInvoker(l, l, sim, orchestrator.Tools{ExportsFile: exports})
	require.NoError(t, ctl.CreatePool(context.Background(), pool.CreateConfig{
		Name:       "tank",
		Redundancy: common.Mirror,
		Devices:    []string{"/dev/sdb", "/dev/sdc"},
	}))

	router := gin.New()
	NewDiskHandler(ctl, l).RegisterRoutes(router.Group("/api/v1/warren/disks"))
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListDevices(t *testing.T) {
	router := setupDiskRouter(t)

	w := get(router, "/api/v1/warren/disks")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Devices []struct {
				Path  string `json:"path"`
				InUse bool   `json:"in_use"`
				Pool  string `json:"pool"`
			} `json:"devices"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Result.Devices, 3)

	inUse := map[string]string{}
	for _, d := range resp.Result.Devices {
		if d.InUse {
			inUse[d.Path] = d.Pool
		}
	}
	assert.Equal(t, map[string]string{"/dev/sdb": "tank", "/dev/sdc": "tank"}, inUse)
}

func TestDeviceHealth(t *testing.T) {
	router := setupDiskRouter(t)

	tests := []struct {
		name   string
		query  string
		status int
		code   int
		health string
	}{
		{"healthy", "?path=/dev/sdb", http.StatusOK, 0, "PASSED"},
		{"missing path", "", http.StatusBadRequest, errors.ServerRequestValidation, ""},
		{"outside /dev", "?path=/etc/passwd", http.StatusBadRequest, errors.DiskInvalidPath, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/api/v1/warren/disks/health"+tt.query)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			var resp struct {
				Success bool `json:"success"`
				Result  struct {
					Health string `json:"health"`
				} `json:"result"`
				Error *APIError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.code != 0 {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.code, resp.Error.Code)
				assert.False(t, resp.Success)
				return
			}
			assert.True(t, resp.Success)
			assert.Equal(t, tt.health, resp.Result.Health)
		})
	}
}
