package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fafutuka/quranaudio/pkg/audio"
	"github.com/fafutuka/quranaudio/pkg/binder"
	"github.com/fafutuka/quranaudio/pkg/config"
	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/metrics"
	"github.com/fafutuka/quranaudio/pkg/ratelimit"
	"github.com/fafutuka/quranaudio/pkg/recitations"
	"github.com/fafutuka/quranaudio/pkg/reciters"
	"github.com/fafutuka/quranaudio/pkg/testutils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	var observer ratelimit.Observer
	if cfg.MetricsEnabled {
		m := metrics.New()
		e.Use(m.Middleware())
		db.AddQueryHook(m.QueryHook())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
		observer = m
	}

	if cfg.RateLimit != "" {
		l, err := ratelimit.New(cfg.RateLimit, observer)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		e.Use(l.Middleware())
	}

	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	health.RegisterRoutes(e)
	e.GET("/", index)

	reciters.RegisterRoutes(e, db)
	recitations.RegisterRoutes(e, db)
	audio.RegisterRoutes(e, db, cfg)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
