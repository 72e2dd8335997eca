package audio

type ChapterAudioQuery struct {
	Segments bool `query:"segments" json:"segments,omitempty"`
}

type ReciterAudioFilesQuery struct {
	Language string `query:"language" json:"language,omitempty" default:"en" mod:"trim,lcase" validate:"max=10"`
}

type RecitationAudioFilesQuery struct {
	ChapterNumber   *int    `query:"chapter_number" json:"chapter_number,omitempty" validate:"omitempty,min=1,max=114"`
	JuzNumber       *int    `query:"juz_number" json:"juz_number,omitempty" validate:"omitempty,min=1,max=30"`
	PageNumber      *int    `query:"page_number" json:"page_number,omitempty" validate:"omitempty,min=1,max=604"`
	HizbNumber      *int    `query:"hizb_number" json:"hizb_number,omitempty" validate:"omitempty,min=1,max=60"`
	RubElHizbNumber *int    `query:"rub_el_hizb_number" json:"rub_el_hizb_number,omitempty" validate:"omitempty,min=1,max=240"`
	Fields          *string `query:"fields" json:"fields,omitempty" validate:"omitempty,max=300"`
}

// PageQuery is left unvalidated here so an explicit page=0 reaches the
// pagination checks instead of being replaced by a default.
type PageQuery struct {
	Page    *int `query:"page" json:"page,omitempty"`
	PerPage *int `query:"per_page" json:"per_page,omitempty"`
}

type CreateAudioFilePayload struct {
	RecitationID    int     `json:"recitation_id" validate:"required,min=1"`
	ChapterID       int     `json:"chapter_id" validate:"required,min=1,max=114"`
	VerseKey        *string `json:"verse_key,omitempty" mod:"trim" validate:"omitempty,versekey"`
	AudioURL        string  `json:"audio_url" mod:"trim" validate:"required,max=2048"`
	Format          string  `json:"format,omitempty" mod:"trim,lcase" default:"mp3" validate:"max=16"`
	Duration        float64 `json:"duration,omitempty" validate:"min=0"`
	FileSize        int64   `json:"file_size,omitempty" validate:"min=0"`
	JuzNumber       *int    `json:"juz_number,omitempty" validate:"omitempty,min=1,max=30"`
	PageNumber      *int    `json:"page_number,omitempty" validate:"omitempty,min=1,max=604"`
	HizbNumber      *int    `json:"hizb_number,omitempty" validate:"omitempty,min=1,max=60"`
	RubElHizbNumber *int    `json:"rub_el_hizb_number,omitempty" validate:"omitempty,min=1,max=240"`
	TotalFiles      int     `json:"total_files,omitempty" default:"1" validate:"min=1"`
}

type UpdateAudioFilePayload struct {
	ChapterID       *int     `json:"chapter_id,omitempty" validate:"omitempty,min=1,max=114"`
	VerseKey        *string  `json:"verse_key,omitempty" mod:"trim" validate:"omitempty,versekey"`
	AudioURL        *string  `json:"audio_url,omitempty" mod:"trim" validate:"omitempty,min=1,max=2048"`
	Format          *string  `json:"format,omitempty" mod:"trim,lcase" validate:"omitempty,min=1,max=16"`
	Duration        *float64 `json:"duration,omitempty" validate:"omitempty,min=0"`
	FileSize        *int64   `json:"file_size,omitempty" validate:"omitempty,min=0"`
	JuzNumber       *int     `json:"juz_number,omitempty" validate:"omitempty,min=1,max=30"`
	PageNumber      *int     `json:"page_number,omitempty" validate:"omitempty,min=1,max=604"`
	HizbNumber      *int     `json:"hizb_number,omitempty" validate:"omitempty,min=1,max=60"`
	RubElHizbNumber *int     `json:"rub_el_hizb_number,omitempty" validate:"omitempty,min=1,max=240"`
	TotalFiles      *int     `json:"total_files,omitempty" validate:"omitempty,min=1"`
}
