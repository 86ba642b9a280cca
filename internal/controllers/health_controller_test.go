package controllers

import (
	"net/http"
	"net/http/httptest"
	"scd/internal/models"
	"scd/internal/services"
	"scd/internal/testutil"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController(t *testing.T) {
	counters := services.NewCounterService(testutil.NewMockCounterStore(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	counters.RecordSend(models.CategoryGroup, 7, true)
	counters.RecordSend(models.CategoryGroup, 8, true)
	counters.RecordSend(models.CategoryPrivate, 9, true)

	hc := NewHealthController(counters, &testutil.MockLoadSampler{Pct: 42.5})

	rec := httptest.NewRecorder()
	hc.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.GroupToday)
	assert.Equal(t, 1, resp.PrivateToday)
	assert.Equal(t, 2, resp.Channels)
	assert.Equal(t, 42.5, resp.LoadPercent)
	assert.NotEmpty(t, resp.Date)
}

func TestHealthController_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(
		services.NewCounterService(testutil.NewMockCounterStore(), &testutil.MockLogger{}, testutil.NewMockMetrics()),
		&testutil.MockLoadSampler{},
	)

	rec := httptest.NewRecorder()
	hc.Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
