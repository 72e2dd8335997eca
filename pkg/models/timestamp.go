package models

import (
	"context"

	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// Timestamp is the timing of one verse within a full chapter recording.
type Timestamp struct {
	bun.BaseModel `bun:"table:timestamps,alias:ts"`

	ID            int      `bun:",pk,autoincrement" json:"-"`
	AudioFileID   int      `bun:",notnull" json:"-"`
	VerseKey      string   `bun:",notnull" json:"verse_key"`
	VerseNumber   int      `bun:",notnull" json:"-"`
	TimestampFrom int      `bun:",notnull" json:"timestamp_from"`
	TimestampTo   int      `bun:",notnull" json:"timestamp_to"`
	Duration      int      `bun:",notnull" json:"duration"`
	Segments      Segments `bun:",type:text" json:"segments"`
}

var (
	_ bun.AfterScanRowHook       = (*Timestamp)(nil)
	_ bun.BeforeAppendModelHook = (*Timestamp)(nil)
)

func (t *Timestamp) AfterScanRow(_ context.Context) error {
	t.Normalize()
	return nil
}

func (t *Timestamp) BeforeAppendModel(_ context.Context, _ bun.Query) error {
	k, err := ParseVerseKey(t.VerseKey)
	if err != nil {
		return err
	}
	t.VerseKey = k.String()
	t.VerseNumber = k.Number()
	return nil
}

// Normalize defaults a missing segment list to an empty one.
func (t *Timestamp) Normalize() {
	if t.Segments == nil {
		t.Segments = Segments{}
	}
}

// StripSegments drops the word timings so they're left out of the response.
func (t *Timestamp) StripSegments() {
	t.Segments = nil
}

// MarshalJSON only writes segments when they're present, so a stripped
// timestamp has no segments field at all while an empty list still shows up.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	type timestamp struct {
		VerseKey      string    `json:"verse_key"`
		TimestampFrom int       `json:"timestamp_from"`
		TimestampTo   int       `json:"timestamp_to"`
		Duration      int       `json:"duration"`
		Segments      *Segments `json:"segments,omitempty"`
	}
	out := timestamp{
		VerseKey:      t.VerseKey,
		TimestampFrom: t.TimestampFrom,
		TimestampTo:   t.TimestampTo,
		Duration:      t.Duration,
	}
	if t.Segments != nil {
		out.Segments = &t.Segments
	}
	return json.Marshal(out)
}
