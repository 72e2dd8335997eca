package audio

import (
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/fafutuka/quranaudio/pkg/pagination"
	"github.com/fafutuka/quranaudio/pkg/scope"
	"github.com/segmentio/encoding/json"
)

// MarshalJSON writes only the projected fields of each audio file when a
// projection was requested.
func (r RecitationAudioFiles) MarshalJSON() ([]byte, error) {
	if len(r.fields) == 0 {
		type recitationAudioFiles RecitationAudioFiles
		return json.Marshal(recitationAudioFiles(r))
	}

	return json.Marshal(struct {
		AudioFiles []map[string]interface{} `json:"audio_files"`
		Meta       RecitationMeta           `json:"meta"`
	}{project(r.AudioFiles, r.fields), r.Meta})
}

// MarshalJSON writes the scoped listing with only the columns it selected, so
// unselected columns don't show up as zero values.
func (r AyahRecitations) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AudioFiles []map[string]interface{} `json:"audio_files"`
		Pagination pagination.Pagination    `json:"pagination"`
	}{project(r.AudioFiles, scope.Columns), r.Pagination})
}

func project(audioFiles []*models.AudioFile, fields []string) []map[string]interface{} {
	files := make([]map[string]interface{}, 0, len(audioFiles))
	for _, af := range audioFiles {
		out := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			out[f] = fieldValue(af, f)
		}
		files = append(files, out)
	}
	return files
}

func fieldValue(af *models.AudioFile, field string) interface{} {
	switch field {
	case "id":
		return af.ID
	case "recitation_id":
		return af.RecitationID
	case "chapter_id":
		return af.ChapterID
	case "verse_key":
		return af.VerseKey
	case "audio_url":
		return af.AudioURL
	case "url":
		return af.URL
	case "format":
		return af.Format
	case "duration":
		return af.Duration
	case "file_size":
		return af.FileSize
	case "juz_number":
		return af.JuzNumber
	case "page_number":
		return af.PageNumber
	case "hizb_number":
		return af.HizbNumber
	case "rub_el_hizb_number":
		return af.RubElHizbNumber
	case "total_files":
		return af.TotalFiles
	}
	return nil
}
