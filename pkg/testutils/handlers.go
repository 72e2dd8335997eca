package testutils

import (
	"context"
	"net/http"

	"github.com/fafutuka/quranaudio/pkg/audio"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db           *bun.DB
	audioService *audio.Service
}

type timestampPayload struct {
	VerseKey      string           `json:"verse_key" validate:"required,versekey"`
	TimestampFrom int              `json:"timestamp_from" validate:"min=0"`
	TimestampTo   int              `json:"timestamp_to" validate:"gtefield=TimestampFrom"`
	Duration      int              `json:"duration" validate:"min=0"`
	Segments      []models.Segment `json:"segments,omitempty"`
}

// createTimestampsRequest is the request body for seeding verse timings.
type createTimestampsRequest struct {
	AudioFileID int                `json:"audio_file_id" validate:"required,min=1"`
	Timestamps  []timestampPayload `json:"timestamps" validate:"required,min=1,dive"`
}

type createTimestampsResponse struct {
	Created int `json:"created"`
}

// createTimestamps attaches verse timings to a full chapter recording.
// POST /test/timestamps.
func (h *handler) createTimestamps(c echo.Context) error {
	ctx := c.Request().Context()

	var req createTimestampsRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	timestamps := make([]*models.Timestamp, 0, len(req.Timestamps))
	for _, t := range req.Timestamps {
		timestamps = append(timestamps, &models.Timestamp{
			VerseKey:      t.VerseKey,
			TimestampFrom: t.TimestampFrom,
			TimestampTo:   t.TimestampTo,
			Duration:      t.Duration,
			Segments:      t.Segments,
		})
	}

	if err := h.audioService.CreateTimestamps(ctx, req.AudioFileID, timestamps); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createTimestampsResponse{
		Created: len(timestamps),
	}))
}

type deleteCatalogResponse struct {
	Deleted int `json:"deleted"`
}

// deleteCatalog empties every catalog table.
// DELETE /test/catalog.
func (h *handler) deleteCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	var deleted int64
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Children first for the foreign keys.
		for _, model := range []interface{}{
			(*models.Timestamp)(nil),
			(*models.AudioFile)(nil),
			(*models.Recitation)(nil),
			(*models.Reciter)(nil),
		} {
			res, err := tx.NewDelete().
				Model(model).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			n, _ := res.RowsAffected()
			deleted += n
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete catalog")
	}

	return errors.WithStack(c.JSON(http.StatusOK, deleteCatalogResponse{
		Deleted: int(deleted),
	}))
}
