package audio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/fafutuka/quranaudio/pkg/pagination"
	"github.com/fafutuka/quranaudio/pkg/scope"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// UnknownReciterName is reported when a recitation listing can't find the
// recitation it belongs to.
const UnknownReciterName = "Unknown"

type RecitationFilters struct {
	ChapterNumber   *int
	JuzNumber       *int
	PageNumber      *int
	HizbNumber      *int
	RubElHizbNumber *int
}

type UpdateAudioFileOptions struct {
	Columns []string
}

// ChapterAudio is the full recording of a chapter with the timing of each of
// its verses.
type ChapterAudio struct {
	*models.AudioFile
	Timestamps []*models.Timestamp `json:"timestamps"`
}

type RecitationMeta struct {
	ReciterName string `json:"reciter_name"`
}

type RecitationAudioFiles struct {
	AudioFiles []*models.AudioFile `json:"audio_files"`
	Meta       RecitationMeta      `json:"meta"`

	fields []string
}

type AyahRecitations struct {
	AudioFiles []*models.AudioFile    `json:"audio_files"`
	Pagination pagination.Pagination `json:"pagination"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RetrieveChapterAudio finds the full recording of a chapter by any of the
// reciter's recitations. Segments are only included when includeSegments is
// set.
func (svc *Service) RetrieveChapterAudio(ctx context.Context, reciterID, chapter int, includeSegments bool) (*ChapterAudio, error) {
	af := &models.AudioFile{}
	err := svc.db.
		NewSelect().
		Model(af).
		Join("JOIN recitations AS rc ON rc.id = af.recitation_id").
		Where("rc.reciter_id = ?", reciterID).
		Where("af.chapter_id = ?", chapter).
		Where("af.verse_key IS NULL").
		Order("af.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Audio file")
		}
		return nil, errors.WithStack(err)
	}

	timestamps, err := svc.listTimestamps(ctx, af.ID, includeSegments)
	if err != nil {
		return nil, err
	}

	return &ChapterAudio{AudioFile: af, Timestamps: timestamps}, nil
}

func (svc *Service) listTimestamps(ctx context.Context, audioFileID int, includeSegments bool) ([]*models.Timestamp, error) {
	timestamps := []*models.Timestamp{}
	q := svc.db.
		NewSelect().
		Model(&timestamps).
		Where("ts.audio_file_id = ?", audioFileID).
		Order("ts.verse_number ASC")
	if !includeSegments {
		q = q.ExcludeColumn("segments")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if !includeSegments {
		for _, t := range timestamps {
			t.StripSegments()
		}
	}
	return timestamps, nil
}

// ListReciterAudioFiles returns every audio file of every recitation by the
// reciter, chapter recordings and verse recordings alike.
func (svc *Service) ListReciterAudioFiles(ctx context.Context, reciterID int) ([]*models.AudioFile, error) {
	files := []*models.AudioFile{}
	err := svc.db.
		NewSelect().
		Model(&files).
		Join("JOIN recitations AS rc ON rc.id = af.recitation_id").
		Where("rc.reciter_id = ?", reciterID).
		Order("af.recitation_id ASC", "af.chapter_id ASC", "af.verse_number ASC", "af.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return files, nil
}

// fieldColumns maps the names accepted by the fields projection to the column
// that has to be selected for them.
var fieldColumns = map[string]string{
	"id":                 "id",
	"recitation_id":      "recitation_id",
	"chapter_id":         "chapter_id",
	"verse_key":          "verse_key",
	"audio_url":          "audio_url",
	"url":                "audio_url",
	"format":             "format",
	"duration":           "duration",
	"file_size":          "file_size",
	"juz_number":         "juz_number",
	"page_number":        "page_number",
	"hizb_number":        "hizb_number",
	"rub_el_hizb_number": "rub_el_hizb_number",
	"total_files":        "total_files",
}

// ParseFields splits a comma separated fields parameter. id is always
// included.
func ParseFields(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		if _, ok := fieldColumns[f]; !ok {
			return nil, errcodes.InvalidArgument(fmt.Sprintf("unknown field %q", f))
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields, nil
}

// ListRecitationAudioFiles lists the audio files of a recitation narrowed by
// any filters that are set. When fields is non-empty only those columns are
// read and returned.
func (svc *Service) ListRecitationAudioFiles(ctx context.Context, recitationID int, filters RecitationFilters, fields []string) (*RecitationAudioFiles, error) {
	files := []*models.AudioFile{}
	q := svc.db.
		NewSelect().
		Model(&files).
		Where("af.recitation_id = ?", recitationID).
		Order("af.chapter_id ASC", "af.verse_number ASC", "af.id ASC")

	for _, f := range []struct {
		column string
		value  *int
	}{
		{"af.chapter_id", filters.ChapterNumber},
		{"af.juz_number", filters.JuzNumber},
		{"af.page_number", filters.PageNumber},
		{"af.hizb_number", filters.HizbNumber},
		{"af.rub_el_hizb_number", filters.RubElHizbNumber},
	} {
		if f.value != nil {
			q = q.Where(f.column+" = ?", *f.value)
		}
	}

	if len(fields) > 0 {
		columns := make([]string, 0, len(fields))
		seen := map[string]bool{}
		for _, f := range fields {
			c, ok := fieldColumns[f]
			if !ok {
				return nil, errcodes.InvalidArgument(fmt.Sprintf("unknown field %q", f))
			}
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
		q = q.Column(columns...)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	name, err := svc.reciterName(ctx, recitationID)
	if err != nil {
		return nil, err
	}

	return &RecitationAudioFiles{
		AudioFiles: files,
		Meta:       RecitationMeta{ReciterName: name},
		fields:     fields,
	}, nil
}

// reciterName is enrichment only: a missing recitation reads as
// UnknownReciterName, but storage errors are still returned.
func (svc *Service) reciterName(ctx context.Context, recitationID int) (string, error) {
	var name string
	err := svc.db.
		NewSelect().
		Model((*models.Recitation)(nil)).
		Column("reciter_name").
		Where("rc.id = ?", recitationID).
		Scan(ctx, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.FromContext(ctx).Warn("recitation not found for audio file listing", logger.Data{"recitation_id": recitationID})
			return UnknownReciterName, nil
		}
		return "", errors.WithStack(err)
	}
	return name, nil
}

// ListAyahRecitations pages through the verse recordings of a recitation that
// fall within the scope.
func (svc *Service) ListAyahRecitations(ctx context.Context, recitationID int, s scope.Scope, req pagination.Request) (*AyahRecitations, error) {
	pred, err := scope.Resolve(recitationID, s)
	if err != nil {
		return nil, err
	}

	files, meta, err := pagination.Fetch[models.AudioFile](ctx, svc.db, req, func(q *bun.SelectQuery) *bun.SelectQuery {
		return pred.Apply(q).Column(scope.Columns...).OrderExpr(scope.Order)
	})
	if err != nil {
		return nil, err
	}

	return &AyahRecitations{AudioFiles: files, Pagination: meta}, nil
}

func (svc *Service) RetrieveAudioFile(ctx context.Context, id int) (*models.AudioFile, error) {
	af := &models.AudioFile{}
	err := svc.db.
		NewSelect().
		Model(af).
		Where("af.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Audio file")
		}
		return nil, errors.WithStack(err)
	}
	return af, nil
}

// CreateAudioFile inserts the audio file. A recitation has at most one full
// recording of each chapter and one recording of each verse.
func (svc *Service) CreateAudioFile(ctx context.Context, af *models.AudioFile) error {
	af.Normalize()

	if af.IsChapter() {
		exists, err := svc.db.
			NewSelect().
			Model((*models.AudioFile)(nil)).
			Where("af.recitation_id = ?", af.RecitationID).
			Where("af.chapter_id = ?", af.ChapterID).
			Where("af.verse_key IS NULL").
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errDuplicateChapter(af)
		}
	}

	_, err := svc.db.
		NewInsert().
		Model(af).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return uniqueViolation(err, af)
	}
	af.Normalize()
	return nil
}

func (svc *Service) UpdateAudioFile(ctx context.Context, af *models.AudioFile, opts UpdateAudioFileOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	columns := append([]string{}, opts.Columns...)
	for _, c := range opts.Columns {
		if c == "verse_key" {
			columns = append(columns, "verse_number")
			break
		}
	}

	_, err := svc.db.
		NewUpdate().
		Model(af).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return uniqueViolation(err, af)
	}
	af.Normalize()
	return nil
}

// DeleteAudioFile removes the audio file along with its timestamps.
func (svc *Service) DeleteAudioFile(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewDelete().
			Model((*models.Timestamp)(nil)).
			Where("audio_file_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.
			NewDelete().
			Model((*models.AudioFile)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Audio file")
		}
		return nil
	})
}

// CreateTimestamps stores verse timings for a full chapter recording.
func (svc *Service) CreateTimestamps(ctx context.Context, audioFileID int, timestamps []*models.Timestamp) error {
	af, err := svc.RetrieveAudioFile(ctx, audioFileID)
	if err != nil {
		return err
	}
	if !af.IsChapter() {
		return errcodes.ValidationError("Timestamps can only be added to a full chapter recording")
	}
	if len(timestamps) == 0 {
		return nil
	}

	for _, t := range timestamps {
		t.AudioFileID = audioFileID
	}
	_, err = svc.db.
		NewInsert().
		Model(&timestamps).
		Exec(ctx)
	return errors.WithStack(err)
}

func errDuplicateChapter(af *models.AudioFile) error {
	return errcodes.ValidationError(fmt.Sprintf("Recitation %d already has a full recording of chapter %d", af.RecitationID, af.ChapterID))
}

func uniqueViolation(err error, af *models.AudioFile) error {
	if !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.WithStack(err)
	}
	if af.IsChapter() {
		return errDuplicateChapter(af)
	}
	return errcodes.ValidationError(fmt.Sprintf("Recitation %d already has a recording of verse %s", af.RecitationID, *af.VerseKey))
}
