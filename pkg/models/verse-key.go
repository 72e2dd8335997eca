package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// ChapterCount is the number of surahs.
	ChapterCount = 114
	// MaxVerse is the verse count of the longest surah (al-Baqarah).
	MaxVerse = 286
)

var ErrInvalidVerseKey = errors.New("invalid verse key")

// VerseKey addresses a single ayah, written as "<chapter>:<verse>".
type VerseKey struct {
	Chapter int
	Verse   int
}

// ParseVerseKey parses and range checks a verse key such as "2:255".
func ParseVerseKey(s string) (VerseKey, error) {
	chapter, verse, ok := strings.Cut(s, ":")
	if !ok {
		return VerseKey{}, errors.Wrapf(ErrInvalidVerseKey, "%q", s)
	}
	c, err := strconv.Atoi(chapter)
	if err != nil || c < 1 || c > ChapterCount {
		return VerseKey{}, errors.Wrapf(ErrInvalidVerseKey, "%q", s)
	}
	v, err := strconv.Atoi(verse)
	if err != nil || v < 1 || v > MaxVerse {
		return VerseKey{}, errors.Wrapf(ErrInvalidVerseKey, "%q", s)
	}
	return VerseKey{Chapter: c, Verse: v}, nil
}

func (k VerseKey) String() string {
	return fmt.Sprintf("%d:%d", k.Chapter, k.Verse)
}

// Number orders verse keys naturally across chapters, so "2:10" sorts after
// "2:9" and every verse of chapter 2 sorts after chapter 1.
func (k VerseKey) Number() int {
	return k.Chapter*1000 + k.Verse
}

// canonicalizeVerseKey rewrites an optional verse key in its canonical form
// ("03:001" becomes "3:1") and derives its ordering column. The unique index
// and the ayah lookups compare keys as text, so only canonical keys are stored.
func canonicalizeVerseKey(key *string) (*int, error) {
	if key == nil {
		return nil, nil
	}
	k, err := ParseVerseKey(*key)
	if err != nil {
		return nil, err
	}
	*key = k.String()
	n := k.Number()
	return &n, nil
}
