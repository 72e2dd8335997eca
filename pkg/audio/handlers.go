package audio

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fafutuka/quranaudio/pkg/config"
	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/fafutuka/quranaudio/pkg/pagination"
	"github.com/fafutuka/quranaudio/pkg/scope"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	audioService *Service
	cfg          *config.Config
}

// idParam parses a positive integer path parameter used as a query argument.
func idParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, errcodes.InvalidArgument(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

func (h *handler) pageRequest(c echo.Context) (pagination.Request, error) {
	params := PageQuery{}
	if err := c.Bind(&params); err != nil {
		return pagination.Request{}, errors.WithStack(err)
	}

	page := 1
	if params.Page != nil {
		page = *params.Page
	}
	perPage := h.cfg.DefaultPerPage
	if params.PerPage != nil {
		perPage = *params.PerPage
	}
	return pagination.NewRequest(page, perPage, h.cfg.MaxPerPage)
}

func (h *handler) chapterAudio(c echo.Context) error {
	ctx := c.Request().Context()
	reciterID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	chapter, err := scope.New(scope.KindSurah, c.Param("chapter_number"))
	if err != nil {
		return err
	}

	params := ChapterAudioQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	audio, err := h.audioService.RetrieveChapterAudio(ctx, reciterID, chapter.Number, params.Segments)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"audio_file": audio,
	}))
}

func (h *handler) reciterAudioFiles(c echo.Context) error {
	ctx := c.Request().Context()
	reciterID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	params := ReciterAudioFilesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	files, err := h.audioService.ListReciterAudioFiles(ctx, reciterID)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Debug("listed reciter audio files", logger.Data{
		"reciter_id": reciterID,
		"language":   params.Language,
		"count":      len(files),
	})

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"audio_files": files,
	}))
}

func (h *handler) recitationAudioFiles(c echo.Context) error {
	ctx := c.Request().Context()
	recitationID, err := idParam(c, "recitation_id")
	if err != nil {
		return err
	}

	params := RecitationAudioFilesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	var fields []string
	if params.Fields != nil {
		fields, err = ParseFields(*params.Fields)
		if err != nil {
			return err
		}
	}

	result, err := h.audioService.ListRecitationAudioFiles(ctx, recitationID, RecitationFilters{
		ChapterNumber:   params.ChapterNumber,
		JuzNumber:       params.JuzNumber,
		PageNumber:      params.PageNumber,
		HizbNumber:      params.HizbNumber,
		RubElHizbNumber: params.RubElHizbNumber,
	}, fields)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

// scoped serves the paginated listing of one scope kind, reading the
// identifier from the named path parameter.
func (h *handler) scoped(kind scope.Kind, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		recitationID, err := idParam(c, "recitation_id")
		if err != nil {
			return err
		}

		identifier, err := url.PathUnescape(c.Param(param))
		if err != nil {
			return errcodes.InvalidArgument(fmt.Sprintf("invalid %s", param))
		}
		s, err := scope.New(kind, identifier)
		if err != nil {
			return err
		}

		req, err := h.pageRequest(c)
		if err != nil {
			return err
		}

		result, err := h.audioService.ListAyahRecitations(ctx, recitationID, s, req)
		if err != nil {
			return errors.WithStack(err)
		}

		return errors.WithStack(c.JSON(http.StatusOK, result))
	}
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Audio file")
	}

	af, err := h.audioService.RetrieveAudioFile(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"audio_file": af,
	}))
}

// checkVerseKey makes sure a verse recording belongs to the chapter it's
// filed under.
func checkVerseKey(chapterID int, verseKey *string) error {
	if verseKey == nil {
		return nil
	}
	key, err := models.ParseVerseKey(*verseKey)
	if err != nil {
		return errcodes.ValidationError(`"verse_key" should be a verse key like "2:255"`)
	}
	if key.Chapter != chapterID {
		return errcodes.ValidationError(fmt.Sprintf(`"verse_key" %s is not in chapter %d`, key, chapterID))
	}
	return nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAudioFilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if err := checkVerseKey(params.ChapterID, params.VerseKey); err != nil {
		return err
	}

	af := &models.AudioFile{
		RecitationID:    params.RecitationID,
		ChapterID:       params.ChapterID,
		VerseKey:        params.VerseKey,
		AudioURL:        params.AudioURL,
		Format:          params.Format,
		Duration:        params.Duration,
		FileSize:        params.FileSize,
		JuzNumber:       params.JuzNumber,
		PageNumber:      params.PageNumber,
		HizbNumber:      params.HizbNumber,
		RubElHizbNumber: params.RubElHizbNumber,
		TotalFiles:      params.TotalFiles,
	}
	if err := h.audioService.CreateAudioFile(ctx, af); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"audio_file": af,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Audio file")
	}

	params := UpdateAudioFilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	af, err := h.audioService.RetrieveAudioFile(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAudioFileOptions{}
	if params.ChapterID != nil && *params.ChapterID != af.ChapterID {
		af.ChapterID = *params.ChapterID
		opts.Columns = append(opts.Columns, "chapter_id")
	}
	if params.VerseKey != nil && (af.VerseKey == nil || *params.VerseKey != *af.VerseKey) {
		af.VerseKey = params.VerseKey
		opts.Columns = append(opts.Columns, "verse_key")
	}
	if params.AudioURL != nil && *params.AudioURL != af.AudioURL {
		af.AudioURL = *params.AudioURL
		af.URL = af.AudioURL
		opts.Columns = append(opts.Columns, "audio_url")
	}
	if params.Format != nil && *params.Format != af.Format {
		af.Format = *params.Format
		opts.Columns = append(opts.Columns, "format")
	}
	if params.Duration != nil && *params.Duration != af.Duration {
		af.Duration = *params.Duration
		opts.Columns = append(opts.Columns, "duration")
	}
	if params.FileSize != nil && *params.FileSize != af.FileSize {
		af.FileSize = *params.FileSize
		opts.Columns = append(opts.Columns, "file_size")
	}
	if params.JuzNumber != nil {
		af.JuzNumber = params.JuzNumber
		opts.Columns = append(opts.Columns, "juz_number")
	}
	if params.PageNumber != nil {
		af.PageNumber = params.PageNumber
		opts.Columns = append(opts.Columns, "page_number")
	}
	if params.HizbNumber != nil {
		af.HizbNumber = params.HizbNumber
		opts.Columns = append(opts.Columns, "hizb_number")
	}
	if params.RubElHizbNumber != nil {
		af.RubElHizbNumber = params.RubElHizbNumber
		opts.Columns = append(opts.Columns, "rub_el_hizb_number")
	}
	if params.TotalFiles != nil && *params.TotalFiles != af.TotalFiles {
		af.TotalFiles = *params.TotalFiles
		opts.Columns = append(opts.Columns, "total_files")
	}

	if err := checkVerseKey(af.ChapterID, af.VerseKey); err != nil {
		return err
	}

	if err := h.audioService.UpdateAudioFile(ctx, af, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"audio_file": af,
	}))
}

func (h *handler) deleteAudioFile(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Audio file")
	}

	if err := h.audioService.DeleteAudioFile(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Audio file deleted successfully",
	}))
}
