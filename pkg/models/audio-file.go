package models

import (
	"context"

	"github.com/uptrace/bun"
)

const DefaultTotalFiles = 1

// AudioFile is either the full recording of a chapter (no verse key) or the
// recording of a single verse. The positional numbers are precomputed at
// ingestion so scopes can filter on them directly.
type AudioFile struct {
	bun.BaseModel `bun:"table:audio_files,alias:af"`

	ID              int     `bun:",pk,autoincrement" json:"id"`
	RecitationID    int     `bun:",notnull" json:"recitation_id,omitempty"`
	ChapterID       int     `bun:",notnull" json:"chapter_id"`
	VerseKey        *string `json:"verse_key"`
	VerseNumber     *int    `json:"-"`
	AudioURL        string  `bun:"audio_url,notnull" json:"audio_url"`
	URL             string  `bun:"-" json:"url"`
	Format          string  `bun:",notnull" json:"format"`
	Duration        float64 `bun:",notnull" json:"duration"`
	FileSize        int64   `bun:",notnull" json:"file_size"`
	JuzNumber       *int    `json:"juz_number,omitempty"`
	PageNumber      *int    `json:"page_number,omitempty"`
	HizbNumber      *int    `json:"hizb_number,omitempty"`
	RubElHizbNumber *int    `json:"rub_el_hizb_number,omitempty"`
	TotalFiles      int     `bun:",notnull" json:"total_files"`
}

var (
	_ bun.AfterScanRowHook       = (*AudioFile)(nil)
	_ bun.BeforeAppendModelHook = (*AudioFile)(nil)
)

func (a *AudioFile) AfterScanRow(_ context.Context) error {
	a.Normalize()
	return nil
}

// BeforeAppendModel canonicalizes verse_key and keeps verse_number in step
// with it on every write.
func (a *AudioFile) BeforeAppendModel(_ context.Context, _ bun.Query) error {
	n, err := canonicalizeVerseKey(a.VerseKey)
	if err != nil {
		return err
	}
	a.VerseNumber = n
	return nil
}

// IsChapter reports whether this is the full chapter recording.
func (a *AudioFile) IsChapter() bool {
	return a.VerseKey == nil
}

// Normalize fills in defaults for optional columns.
func (a *AudioFile) Normalize() {
	if a.Format == "" {
		a.Format = DefaultAudioFormat
	}
	if a.TotalFiles == 0 {
		a.TotalFiles = DefaultTotalFiles
	}
	if a.URL == "" {
		a.URL = a.AudioURL
	}
}
