package models

import (
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioFileNormalize(t *testing.T) {
	t.Parallel()

	a := &AudioFile{ID: 1, ChapterID: 1, AudioURL: "https://example.com/001.mp3"}
	a.Normalize()

	assert.Equal(t, "mp3", a.Format)
	assert.Equal(t, 1, a.TotalFiles)
	assert.Equal(t, "https://example.com/001.mp3", a.URL)
	assert.True(t, a.IsChapter())

	b := &AudioFile{Format: "opus", TotalFiles: 3, AudioURL: "a", URL: "b"}
	b.Normalize()
	assert.Equal(t, "opus", b.Format)
	assert.Equal(t, 3, b.TotalFiles)
	assert.Equal(t, "b", b.URL)
}

func TestAudioFileVerseNumber(t *testing.T) {
	t.Parallel()

	key := "2:255"
	a := &AudioFile{VerseKey: &key}
	require.NoError(t, a.BeforeAppendModel(t.Context(), nil))
	require.NotNil(t, a.VerseNumber)
	assert.Equal(t, 2255, *a.VerseNumber)

	chapter := &AudioFile{}
	require.NoError(t, chapter.BeforeAppendModel(t.Context(), nil))
	assert.Nil(t, chapter.VerseNumber)

	bad := "2-255"
	assert.Error(t, (&AudioFile{VerseKey: &bad}).BeforeAppendModel(t.Context(), nil))
}

func TestVerseKeysAreStoredCanonically(t *testing.T) {
	t.Parallel()

	padded := "03:001"
	a := &AudioFile{VerseKey: &padded}
	require.NoError(t, a.BeforeAppendModel(t.Context(), nil))
	assert.Equal(t, "3:1", *a.VerseKey)
	assert.Equal(t, 3001, *a.VerseNumber)

	ts := &Timestamp{VerseKey: "+2:0255"}
	require.NoError(t, ts.BeforeAppendModel(t.Context(), nil))
	assert.Equal(t, "2:255", ts.VerseKey)
	assert.Equal(t, 2255, ts.VerseNumber)
}

func TestReciterNormalize(t *testing.T) {
	t.Parallel()

	r := &Reciter{Name: "Mishari Rashid al-Afasy"}
	r.Normalize()
	assert.Equal(t, "mp3", r.Format)
}

func TestRecitationNormalize(t *testing.T) {
	t.Parallel()

	r := &Recitation{ReciterName: "AbdulBaset AbdulSamad"}
	r.Normalize()
	assert.Equal(t, TranslatedName{Name: "AbdulBaset AbdulSamad", LanguageName: "en"}, r.TranslatedName)

	r = &Recitation{ReciterName: "x", TranslatedName: TranslatedName{Name: "y", LanguageName: "ar"}}
	r.Normalize()
	assert.Equal(t, "y", r.TranslatedName.Name)
}

func TestTranslatedNameScan(t *testing.T) {
	t.Parallel()

	want := TranslatedName{Name: "Mishari", LanguageName: "english"}

	t.Run("decodes text", func(t *testing.T) {
		t.Parallel()
		var tn TranslatedName
		require.NoError(t, tn.Scan(`{"name":"Mishari","language_name":"english"}`))
		assert.Equal(t, want, tn)

		tn = TranslatedName{}
		require.NoError(t, tn.Scan([]byte(`{"name":"Mishari","language_name":"english"}`)))
		assert.Equal(t, want, tn)
	})

	t.Run("passes structured values through", func(t *testing.T) {
		t.Parallel()
		var tn TranslatedName
		require.NoError(t, tn.Scan(want))
		assert.Equal(t, want, tn)

		tn = TranslatedName{}
		require.NoError(t, tn.Scan(map[string]interface{}{"name": "Mishari", "language_name": "english"}))
		assert.Equal(t, want, tn)
	})

	t.Run("null is zero", func(t *testing.T) {
		t.Parallel()
		tn := want
		require.NoError(t, tn.Scan(nil))
		assert.True(t, tn.IsZero())
	})

	t.Run("round trips through value", func(t *testing.T) {
		t.Parallel()
		v, err := want.Value()
		require.NoError(t, err)
		var tn TranslatedName
		require.NoError(t, tn.Scan(v))
		assert.Equal(t, want, tn)

		v, err = TranslatedName{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("rejects other types", func(t *testing.T) {
		t.Parallel()
		var tn TranslatedName
		assert.Error(t, tn.Scan(42))
	})
}

func TestSegmentsJSON(t *testing.T) {
	t.Parallel()

	var s Segments
	require.NoError(t, s.Scan(`[[1,0,630],[0,2,630,1200],{"position":3,"timestamp_from":1200,"timestamp_to":1800}]`))
	assert.Equal(t, Segments{
		{Position: 1, From: 0, To: 630},
		{Position: 2, From: 630, To: 1200},
		{Position: 3, From: 1200, To: 1800},
	}, s)

	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, `[[1,0,630],[2,630,1200],[3,1200,1800]]`, v)

	var bad Segments
	assert.Error(t, bad.Scan(`[[1,2]]`))
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	ts := Timestamp{
		VerseKey:      "1:1",
		TimestampFrom: 0,
		TimestampTo:   6050,
		Duration:      6050,
		Segments:      Segments{{Position: 1, From: 0, To: 630}},
	}

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verse_key":"1:1","timestamp_from":0,"timestamp_to":6050,"duration":6050,"segments":[[1,0,630]]}`, string(b))

	ts.StripSegments()
	b, err = json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verse_key":"1:1","timestamp_from":0,"timestamp_to":6050,"duration":6050}`, string(b))

	empty := Timestamp{VerseKey: "1:2"}
	empty.Normalize()
	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verse_key":"1:2","timestamp_from":0,"timestamp_to":0,"duration":0,"segments":[]}`, string(b))
}
