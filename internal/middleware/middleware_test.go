package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
	"github.com/iliyamo/cinema-seat-picker/internal/utils"
)

const testSecret = "test-secret"

func ok(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"subject": subject(c)}) }

func protected() *echo.Echo {
	e := echo.New()
	e.GET("/op", ok, JWTAuth(testSecret), RequireRole("OPERATOR"))
	return e
}

func doGet(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := protected()

	rec := doGet(e, "/op", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = doGet(e, "/op", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	other, err := utils.NewAccessToken("another-secret", "op", "OPERATOR", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, "/op", other.Token).Code)

	good, err := utils.NewAccessToken(testSecret, "op@cinema.local", "OPERATOR", 5)
	require.NoError(t, err)
	rec = doGet(e, "/op", good.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subject":"op@cinema.local"}`, rec.Body.String())
}

func TestRequireRole_Forbidden(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "someone", "VIEWER", 5)
	require.NoError(t, err)
	rec := doGet(protected(), "/op", tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenBucket_LocalFallback(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.GET("/seats", ok, NewTokenBucket(cfg, nil))

	for i := 0; i < 2; i++ {
		rec := doGet(e, "/seats", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := doGet(e, "/seats", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestTokenBucket_Disabled(t *testing.T) {
	e := echo.New()
	e.GET("/seats", ok, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(e, "/seats", "").Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/order", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/seats/order")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /v1/seats/order", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:guest", buildRateKey(cfg, c))
	c.Set(ContextSubject, "op")
	assert.Equal(t, "rl:user:op", buildRateKey(cfg, c))
}

func TestCachedResponse_EncodeDecode(t *testing.T) {
	in := cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(`{"items":[]}`),
	}
	bs, err := in.encode()
	require.NoError(t, err)

	out, ok := decodeCachedResponse(bs)
	require.True(t, ok)
	assert.Equal(t, in, out)

	_, ok = decodeCachedResponse([]byte{0, 1})
	assert.False(t, ok)
	_, ok = decodeCachedResponse(append(bs[:4:4], 0xff, 0xff, 0xff, 0xff))
	assert.False(t, ok)
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/simulations")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	a := cacheKeyFrom(cfg, newCtx("/v1/simulations?limit=5"))
	b := cacheKeyFrom(cfg, newCtx("/v1/simulations?limit=10"))
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, a)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, newCtx("/v1/simulations?limit=5")), cacheKeyFrom(cfg, newCtx("/v1/simulations")))
}

func TestCaptureWriter_Overflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.overflowed())
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.overflowed())
	assert.Equal(t, "abcdef", rec.Body.String())
	assert.Equal(t, "abc", cw.buf.String())
}

func TestNewRedisCache_NilClientPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/v1/simulations", ok, NewRedisCache(config.CacheConfig{Enabled: true}, nil))
	rec := doGet(e, "/v1/simulations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestReplay_KeepsCurrentRequestID(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/simulations", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "current")

	replay(c, cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{
			echo.HeaderXRequestID:    {"stale"},
			echo.HeaderContentType:   {echo.MIMEApplicationJSON},
			echo.HeaderContentLength: {"12"},
			"X-Cache":                {"MISS"},
		},
		Body: []byte(`{"items":[]}`),
	})

	assert.Equal(t, []string{"current"}, rec.Header().Values(echo.HeaderXRequestID))
	assert.Equal(t, []string{"HIT"}, rec.Header().Values("X-Cache"))
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `{"items":[]}`, rec.Body.String())
}

func TestReplayable(t *testing.T) {
	assert.False(t, replayable("x-request-id"))
	assert.False(t, replayable("Content-Length"))
	assert.False(t, replayable("X-Cache"))
	assert.True(t, replayable("Content-Type"))
}
