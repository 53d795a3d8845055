package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
)

// captureWriter records the response status and body while forwarding both
// to the client.  Bytes beyond limit are forwarded but not recorded.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// overflowed reports whether the body exceeded the capture limit.
func (cw *captureWriter) overflowed() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cacheKeyFrom builds a stable cache key honouring prefix and strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", query}
	default: // "route_query"
		parts = []string{"route", route, "q", query}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// cachedResponse is what the cache stores per key.
type cachedResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// encode packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func (r cachedResponse) encode() ([]byte, error) {
	hdrJSON, err := json.Marshal(r.Header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(r.Body))
	binary.BigEndian.PutUint32(out[0:4], uint32(r.Status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], r.Body)
	return out, nil
}

func decodeCachedResponse(bs []byte) (cachedResponse, bool) {
	if len(bs) < 8 {
		return cachedResponse{}, false
	}
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return cachedResponse{}, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return cachedResponse{}, false
		}
	}
	return cachedResponse{
		Status: int(binary.BigEndian.Uint32(bs[0:4])),
		Header: hdr,
		Body:   bs[8+hlen:],
	}, true
}

// NewRedisCache replays cached 200 responses, headers included, for the
// configured methods.  Disabled when rdb is nil.  Requests sending
// Cache-Control: no-cache bypass the lookup but refresh the entry.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[strings.ToUpper(req.Method)] {
				return next(c)
			}

			ctx := req.Context()
			key := cacheKeyFrom(cfg, c)

			if !strings.Contains(req.Header.Get("Cache-Control"), "no-cache") {
				if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
					if cached, ok := decodeCachedResponse(bs); ok {
						replay(c, cached)
						return nil
					}
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflowed() {
				return nil
			}

			hdr := c.Response().Header().Clone()
			for k := range hdr {
				if !replayable(k) {
					hdr.Del(k)
				}
			}
			payload, err := cachedResponse{
				Status: cw.status,
				Header: hdr,
				Body:   cw.buf.Bytes(),
			}.encode()
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
				c.Logger().Warnf("[cache] store key=%s: %v", key, err)
			}
			return nil
		}
	}
}

func replay(c echo.Context, cached cachedResponse) {
	h := c.Response().Header()
	for k, vals := range cached.Header {
		if !replayable(k) {
			continue
		}
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(cached.Status)
	if len(cached.Body) > 0 {
		_, _ = c.Response().Write(cached.Body)
	}
}

// replayable reports whether a stored header may be copied onto a cache
// hit.  Per-response headers belong to the request being served.
func replayable(key string) bool {
	switch http.CanonicalHeaderKey(key) {
	case echo.HeaderContentLength, "X-Cache", echo.HeaderXRequestID:
		return false
	}
	return true
}
