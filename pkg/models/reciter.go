package models

import (
	"context"

	"github.com/uptrace/bun"
)

const DefaultAudioFormat = "mp3"

type Reciter struct {
	bun.BaseModel `bun:"table:reciters,alias:r"`

	ID           int     `bun:",pk,autoincrement" json:"id"`
	Name         string  `bun:",notnull" json:"name"`
	ArabicName   *string `json:"arabic_name"`
	RelativePath string  `bun:",notnull" json:"relative_path"`
	Format       string  `bun:",notnull" json:"format"`
	FilesSize    int64   `bun:",notnull" json:"files_size"`
}

var _ bun.AfterScanRowHook = (*Reciter)(nil)

func (r *Reciter) AfterScanRow(_ context.Context) error {
	r.Normalize()
	return nil
}

// Normalize fills in defaults for optional columns.
func (r *Reciter) Normalize() {
	if r.Format == "" {
		r.Format = DefaultAudioFormat
	}
}
