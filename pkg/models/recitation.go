package models

import (
	"context"

	"github.com/uptrace/bun"
)

type Recitation struct {
	bun.BaseModel `bun:"table:recitations,alias:rc"`

	ID             int            `bun:",pk,autoincrement" json:"id"`
	ReciterID      *int           `json:"reciter_id,omitempty"`
	ReciterName    string         `bun:",notnull" json:"reciter_name"`
	Style          *string        `json:"style"`
	TranslatedName TranslatedName `bun:",type:text" json:"translated_name"`
}

var _ bun.AfterScanRowHook = (*Recitation)(nil)

func (r *Recitation) AfterScanRow(_ context.Context) error {
	r.Normalize()
	return nil
}

// Normalize falls back to the reciter name in English when no translated name
// was stored.
func (r *Recitation) Normalize() {
	if r.TranslatedName.IsZero() {
		r.TranslatedName = TranslatedName{Name: r.ReciterName, LanguageName: DefaultLanguageName}
	}
}
