package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/smart-parking/internal/config"
)

// Without a Redis client both middlewares must be transparent
// pass-throughs: the service runs fine with caching and rate limiting
// disabled.
func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	called := 0
	next := func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "ok")
	}

	cacheMW := NewRedisCache(config.CacheConfig{Enabled: true}, nil)
	limitMW := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)

	for _, mw := range []echo.MiddlewareFunc{cacheMW, limitMW} {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, called)
}

// A body larger than the capture limit must keep counting bytes after
// the buffer is full, otherwise the oversize check would pass and a
// truncated body would be cached.
func TestCaptureWriterCountsBytesPastLimit(t *testing.T) {
	cw := &captureWriter{
		ResponseWriter: httptest.NewRecorder(),
		status:         http.StatusOK,
		limit:          4,
	}

	n, err := cw.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = cw.Write([]byte("efgh"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, int64(8), cw.size)
	assert.Greater(t, cw.size, cw.limit)
	assert.Equal(t, "abcd", cw.buf.String())
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/stats/vehicles")
		return c
	}

	a := cacheKey("cache", ctxFor("/api/stats/vehicles?interval=1m"))
	b := cacheKey("cache", ctxFor("/api/stats/vehicles?interval=5m"))
	again := cacheKey("cache", ctxFor("/api/stats/vehicles?interval=1m"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
}
