// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stratastor/warren/pkg/zfs/common"
	"github.com/stratastor/warren/pkg/zfs/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Error struct {
		Code     int               `json:"code"`
		Kind     string            `json:"kind"`
		Metadata map[string]string `json:"metadata"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *testutil.Simulator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.zfs.api")
	require.NoError(t, err)

	exports := filepath.Join(t.TempDir(), "exports")
	now, _ := testutil.FixedClock(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	sim := testutil.NewSimulator(exports, testutil.DefaultDisks(4)...).WithClock(now)
	ctl := orchestrator.NewWithInvoker(l, l, sim, orchestrator.Tools{ExportsFile: exports}).WithClock(now)

	router := gin.New()
	NewHandler(ctl).RegisterRoutes(router.Group("/api/v1/warren/zfs"))
	return router, sim
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var out apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createPool(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/warren/zfs/pools", gin.H{
		"name":       "tank",
		"redundancy": "mirror",
		"devices":    []string{"/dev/sdb", "/dev/sdc"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPoolRoutes(t *testing.T) {
	router, _ := setupRouter(t)
	createPool(t, router)

	t.Run("list", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/v1/warren/zfs/pools", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var out struct {
			Pools []struct {
				Name   string `json:"name"`
				Health string `json:"health"`
			} `json:"pools"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Pools, 1)
		assert.Equal(t, "tank", out.Pools[0].Name)
		assert.Equal(t, "ONLINE", out.Pools[0].Health)
	})

	t.Run("status", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/api/v1/warren/zfs/pools/tank/status", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "tank")
	})

	t.Run("device in use", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/warren/zfs/pools", gin.H{
			"name":    "other",
			"devices": []string{"/dev/sdc", "/dev/sdd"},
		})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		e := decodeError(t, w)
		assert.Equal(t, errors.ZFSPoolDeviceInUse, e.Error.Code)
		assert.Equal(t, string(errors.KindPrecondition), e.Error.Kind)
		assert.Equal(t, "/dev/sdc", e.Error.Metadata[errors.MetaConflicts])
	})

	t.Run("missing body fields", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/warren/zfs/pools", gin.H{"name": "x"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.ServerRequestValidation, decodeError(t, w).Error.Code)
	})

	t.Run("destroy", func(t *testing.T) {
		w := do(t, router, http.MethodDelete, "/api/v1/warren/zfs/pools/tank", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = do(t, router, http.MethodDelete, "/api/v1/warren/zfs/pools/tank", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, errors.ZFSPoolNotFound, decodeError(t, w).Error.Code)
	})
}

func TestFilesystemRoutes(t *testing.T) {
	router, sim := setupRouter(t)
	createPool(t, router)

	w := do(t, router, http.MethodPost, "/api/v1/warren/zfs/filesystems", gin.H{
		"name":       "tank/data",
		"properties": gin.H{"quota": "1G"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res orchestrator.FilesystemResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"create", "permissions", "set:quota"}, res.Steps)
	assert.Equal(t, "775", sim.Mode("/tank/data"))

	w = do(t, router, http.MethodGet, "/api/v1/warren/zfs/filesystems/properties/tank/data?props=quota", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"1G"`)

	w = do(t, router, http.MethodGet, "/api/v1/warren/zfs/filesystems/properties/tank/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Properties []json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Properties, len(common.InspectProperties))

	w = do(t, router, http.MethodPut, "/api/v1/warren/zfs/filesystems/properties/tank/data",
		gin.H{"property": "org.example:note", "value": "a&b"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ZFSInvalidProperty, decodeError(t, w).Error.Code)

	w = do(t, router, http.MethodPut, "/api/v1/warren/zfs/filesystems/properties/tank/data",
		gin.H{"property": "compression", "value": "lz4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPut, "/api/v1/warren/zfs/filesystems/properties/tank/data",
		gin.H{"property": "Bad Name", "value": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ZFSInvalidProperty, decodeError(t, w).Error.Code)

	w = do(t, router, http.MethodDelete, "/api/v1/warren/zfs/filesystems/tank/data", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodDelete, "/api/v1/warren/zfs/filesystems/tank/data", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ZFSDatasetNotFound, decodeError(t, w).Error.Code)
}

func TestSnapshotRoutes(t *testing.T) {
	router, _ := setupRouter(t)
	createPool(t, router)
	w := do(t, router, http.MethodPost, "/api/v1/warren/zfs/filesystems", gin.H{"name": "tank/data"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/warren/zfs/snapshots", gin.H{"filesystem": "tank/data"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "tank/data@250106-100000", snap.Name)

	w = do(t, router, http.MethodGet, "/api/v1/warren/zfs/snapshots?filesystem=tank/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), snap.Name)

	w = do(t, router, http.MethodPost, "/api/v1/warren/zfs/snapshots/rollback", gin.H{"name": snap.Name})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodDelete, "/api/v1/warren/zfs/snapshots", gin.H{"name": "tank/data@nope"})
	require.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, errors.ZFSSnapshotNotFound, e.Error.Code)
	assert.Equal(t, snap.Name, e.Error.Metadata[errors.MetaSiblings])

	w = do(t, router, http.MethodDelete, "/api/v1/warren/zfs/snapshots", gin.H{"name": snap.Name})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
