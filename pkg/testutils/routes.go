// Package testutils provides test-only API endpoints for seeding and
// resetting the catalog. They're only registered when ENVIRONMENT=test.
package testutils

import (
	"github.com/fafutuka/quranaudio/pkg/audio"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers test-only routes.
// These endpoints should ONLY be registered in test environments.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		db:           db,
		audioService: audio.NewService(db),
	}

	test := e.Group("/test")
	test.POST("/timestamps", h.createTimestamps)
	test.DELETE("/catalog", h.deleteCatalog)
}
