// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/command/commandtest"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/orchestrator"
	"github.com/stratastor/warren/pkg/shares/nfs"
	"github.com/stratastor/warren/pkg/zfs/common"
	"github.com/stratastor/warren/pkg/zfs/pool"
	"github.com/stratastor/warren/pkg/zfs/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sharesEnv struct {
	router  *gin.Engine
	sim     *testutil.Simulator
	exports string
}

func setupAPITest(t *testing.T) *sharesEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "api-test")
	require.NoError(t, err)

	exports := filepath.Join(t.TempDir(), "exports")
	now, _ := testutil.FixedClock(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	sim := testutil.NewSimulator(exports, testutil.DefaultDisks(2)...).WithClock(now)
	ctl := orchestrator.NewWithInvoker(l, l, sim, orchestrator.Tools{ExportsFile: exports}).WithClock(now)

	ctx := context.Background()
	require.NoError(t, ctl.CreatePool(ctx, pool.CreateConfig{
		Name:       "tank",
		Redundancy: common.Mirror,
		Devices:    []string{"/dev/sdb", "/dev/sdc"},
	}))
	_, err = ctl.CreateFilesystem(ctx, orchestrator.FilesystemRequest{Name: "tank/data"})
	require.NoError(t, err)

	router := gin.New()
	NewSharesHandler(l, ctl).RegisterRoutes(router.Group("/api/v1/warren/shares"))
	return &sharesEnv{router: router, sim: sim, exports: exports}
}

func (e *sharesEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1/warren/shares"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var out struct {
		Error struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Error.Code
}

func TestShareLifecycle(t *testing.T) {
	env := setupAPITest(t)

	w := env.do(t, http.MethodPost, "/nfs/share", gin.H{"filesystem": "tank/data", "client": "10.0.0.0/24"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec nfs.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "/tank/data", rec.Path)
	assert.Equal(t, []string{"rw", "sync", "no_root_squash"}, rec.Options)

	data, err := os.ReadFile(env.exports)
	require.NoError(t, err)
	assert.Equal(t, "/tank/data 10.0.0.0/24(rw,sync,no_root_squash)\n", string(data))

	w = env.do(t, http.MethodGet, "/nfs/exports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "10.0.0.0/24")

	w = env.do(t, http.MethodGet, "/nfs/exports/tank/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Filesystem string       `json:"filesystem"`
		Exports    []nfs.Record `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "tank/data", detail.Filesystem)
	require.Len(t, detail.Exports, 1)
	assert.Equal(t, "10.0.0.0/24", detail.Exports[0].Client)

	w = env.do(t, http.MethodGet, "/nfs/records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/tank/data")

	w = env.do(t, http.MethodGet, "/nfs/divergence", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_sync":true`)

	w = env.do(t, http.MethodPost, "/nfs/share", gin.H{"filesystem": "tank/data", "client": "10.0.0.0/24"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errors.SharesAlreadyExists, errorCode(t, w))

	w = env.do(t, http.MethodPost, "/nfs/unshare", gin.H{"filesystem": "tank/data", "client": "10.0.0.0/24"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	data, err = os.ReadFile(env.exports)
	require.NoError(t, err)
	assert.Empty(t, string(data))

	w = env.do(t, http.MethodPost, "/nfs/unshare", gin.H{"filesystem": "tank/data", "client": "10.0.0.0/24"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.SharesNotFound, errorCode(t, w))
}

func TestShareValidation(t *testing.T) {
	env := setupAPITest(t)

	w := env.do(t, http.MethodPost, "/nfs/share", gin.H{"filesystem": "tank/data"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ServerRequestValidation, errorCode(t, w))

	w = env.do(t, http.MethodPost, "/nfs/share", gin.H{"filesystem": "tank/missing", "client": "*"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ZFSDatasetNotFound, errorCode(t, w))
}

func TestReloadDivergence(t *testing.T) {
	env := setupAPITest(t)
	env.sim.Fail("exportfs -ra", commandtest.Response{Stderr: "exportfs: failed\n", ExitCode: 1})

	w := env.do(t, http.MethodPost, "/nfs/share", gin.H{"filesystem": "tank/data", "client": "*"})
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, errors.SharesReloadDiverged, errorCode(t, w))

	w = env.do(t, http.MethodGet, "/nfs/divergence", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_sync":false`)
}

func TestServiceRoutes(t *testing.T) {
	env := setupAPITest(t)

	w := env.do(t, http.MethodPost, "/nfs/disable", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, env.sim.NFSActive())

	w = env.do(t, http.MethodGet, "/nfs/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st nfs.ServiceStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.False(t, st.Running)

	w = env.do(t, http.MethodPost, "/nfs/enable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.sim.NFSActive())
}
