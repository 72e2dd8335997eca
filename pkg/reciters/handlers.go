package reciters

import (
	"net/http"
	"strconv"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	reciterService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListRecitersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reciters, err := h.reciterService.ListReciters(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"reciters": reciters,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reciter")
	}

	reciter, err := h.reciterService.RetrieveReciter(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"reciter": reciter,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateReciterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reciter := &models.Reciter{
		Name:         params.Name,
		ArabicName:   &params.ArabicName,
		RelativePath: params.RelativePath,
		Format:       params.Format,
		FilesSize:    params.FilesSize,
	}
	if err := h.reciterService.CreateReciter(ctx, reciter); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"reciter": reciter,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reciter")
	}

	params := UpdateReciterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reciter, err := h.reciterService.RetrieveReciter(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateReciterOptions{}
	if params.Name != nil && *params.Name != reciter.Name {
		reciter.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.ArabicName != nil {
		reciter.ArabicName = params.ArabicName
		opts.Columns = append(opts.Columns, "arabic_name")
	}
	if params.RelativePath != nil && *params.RelativePath != reciter.RelativePath {
		reciter.RelativePath = *params.RelativePath
		opts.Columns = append(opts.Columns, "relative_path")
	}
	if params.Format != nil && *params.Format != reciter.Format {
		reciter.Format = *params.Format
		opts.Columns = append(opts.Columns, "format")
	}
	if params.FilesSize != nil && *params.FilesSize != reciter.FilesSize {
		reciter.FilesSize = *params.FilesSize
		opts.Columns = append(opts.Columns, "files_size")
	}

	if err := h.reciterService.UpdateReciter(ctx, reciter, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"reciter": reciter,
	}))
}

func (h *handler) deleteReciter(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Reciter")
	}

	if err := h.reciterService.DeleteReciter(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Reciter deleted successfully",
	}))
}
