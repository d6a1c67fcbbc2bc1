package middleware

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jondawson917/snappycamper/internal/config"
)

// bufferingWriter tees the response body so a successful payload can be
// stored after the handler runs.
type bufferingWriter struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

func (w *bufferingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponses caches successful GET responses in Redis, keyed by path and
// query string. Intended for the anonymous browse endpoints only — it must
// not wrap anything behind an identity gate, since the key does not include
// the caller. A pass-through when disabled or Redis is unavailable.
func CacheResponses(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cfg.Prefix + ":" + c.Request().URL.Path + "?" + c.Request().URL.RawQuery

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			bw := &bufferingWriter{
				ResponseWriter: c.Response().Writer,
				buf:            &bytes.Buffer{},
				status:         http.StatusOK,
			}
			c.Response().Writer = bw
			if err := next(c); err != nil {
				return err
			}
			if bw.status == http.StatusOK && bw.buf.Len() <= cfg.MaxBodyBytes {
				_ = rdb.Set(ctx, key, bw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
