package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintd/internal/testutil"
)

func TestHealth_WithSnapshot(t *testing.T) {
	svc := readyService()
	svc.BuiltAt = time.Now().Add(-30 * time.Second)
	hc := NewHealthController(svc)

	w := httptest.NewRecorder()
	hc.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, true, resp["snapshot_present"])
	assert.Equal(t, float64(1), resp["accounts"])
	assert.Equal(t, float64(1), resp["conflicts"])
	assert.GreaterOrEqual(t, resp["snapshot_age_seconds"].(float64), 30.0)
}

func TestHealth_WarmingUp(t *testing.T) {
	hc := NewHealthController(&testutil.MockTimelineService{})

	w := httptest.NewRecorder()
	hc.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "warming_up", resp["status"])
	assert.Equal(t, false, resp["snapshot_present"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(readyService())

	w := httptest.NewRecorder()
	hc.Health(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m5s", formatDuration(5*time.Second))
	assert.Equal(t, "1h1m1s", formatDuration(time.Hour+time.Minute+time.Second))
	assert.Equal(t, "25h0m0s", formatDuration(25*time.Hour))
}
