package recitations

import (
	"net/http"
	"strconv"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	recitationService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListRecitationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	recitations, err := h.recitationService.ListRecitations(ctx, ListRecitationsOptions{
		ReciterID: params.ReciterID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Debug("listed recitations", logger.Data{
		"language": params.Language,
		"count":    len(recitations),
	})

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"recitations": recitations,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Recitation")
	}

	recitation, err := h.recitationService.RetrieveRecitation(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"recitation": recitation,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateRecitationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	recitation := &models.Recitation{
		ReciterID:      params.ReciterID,
		ReciterName:    params.ReciterName,
		Style:          &params.Style,
		TranslatedName: params.TranslatedName.model(),
	}
	if err := h.recitationService.CreateRecitation(ctx, recitation); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"recitation": recitation,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Recitation")
	}

	params := UpdateRecitationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	recitation, err := h.recitationService.RetrieveRecitation(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateRecitationOptions{}
	if params.ReciterID != nil {
		recitation.ReciterID = params.ReciterID
		opts.Columns = append(opts.Columns, "reciter_id")
	}
	if params.ReciterName != nil && *params.ReciterName != recitation.ReciterName {
		recitation.ReciterName = *params.ReciterName
		opts.Columns = append(opts.Columns, "reciter_name")
	}
	if params.Style != nil {
		recitation.Style = params.Style
		opts.Columns = append(opts.Columns, "style")
	}
	if params.TranslatedName != nil {
		recitation.TranslatedName = params.TranslatedName.model()
		opts.Columns = append(opts.Columns, "translated_name")
	}

	if err := h.recitationService.UpdateRecitation(ctx, recitation, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"recitation": recitation,
	}))
}

func (h *handler) deleteRecitation(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Recitation")
	}

	if err := h.recitationService.DeleteRecitation(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Recitation deleted successfully",
	}))
}
