package ratelimit

import (
	"strconv"
	"strings"
	"time"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var skipPaths = []string{"/health", "/metrics"}

// Observer is notified of every decision the limiter makes.
type Observer interface {
	OnAllow(route string)
	OnDeny(route string)
}

type Limiter struct {
	limiter  *limiter.Limiter
	observer Observer
}

// New builds an in-memory limiter from a formatted rate such as "100-S" or
// "1000-H". The observer may be nil.
func New(rate string, observer Observer) (*Limiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid rate limit: %q", rate)
	}
	return &Limiter{
		limiter:  limiter.New(memory.NewStore(), r),
		observer: observer,
	}, nil
}

// Middleware limits requests per client IP and reports the quota in the
// X-RateLimit-* headers. Health checks and metrics scrapes are never limited.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range skipPaths {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			route := c.Path()
			if route == "" {
				route = path
			}

			lctx, err := l.limiter.Get(c.Request().Context(), "ip:"+c.RealIP())
			if err != nil {
				logger.FromEchoContext(c).Err(err).Warn("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				retry := int(time.Until(time.Unix(lctx.Reset, 0)).Seconds())
				if retry < 0 {
					retry = 0
				}
				h.Set("Retry-After", strconv.Itoa(retry))
				if l.observer != nil {
					l.observer.OnDeny(route)
				}
				return errcodes.TooManyRequests()
			}

			if l.observer != nil {
				l.observer.OnAllow(route)
			}
			return next(c)
		}
	}
}
