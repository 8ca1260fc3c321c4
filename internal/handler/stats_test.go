package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/vehicles"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestBucketWindowDefaults(t *testing.T) {
	// No parameters: one hour of data in one-minute buckets.
	boundaries, start, end, interval, err := bucketWindow(statsContext(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "1m", interval)
	assert.Len(t, boundaries, 61)
	assert.Equal(t, time.Hour, end.Sub(start))
}

func TestBucketWindowOneMinuteTenSeconds(t *testing.T) {
	boundaries, _, _, interval, err := bucketWindow(statsContext(t, "?time_range=1m&interval=10s"))
	require.NoError(t, err)

	assert.Equal(t, "10s", interval)
	assert.Len(t, boundaries, 7)
}

func TestBucketWindowRejectsUnknownValues(t *testing.T) {
	_, _, _, _, err := bucketWindow(statsContext(t, "?time_range=2w"))
	assert.Error(t, err)

	_, _, _, _, err = bucketWindow(statsContext(t, "?interval=30s"))
	assert.Error(t, err)
}
