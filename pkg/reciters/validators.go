package reciters

type ListRecitersQuery struct {
	Language string `query:"language" json:"language,omitempty" default:"en" mod:"trim,lcase" validate:"max=10"`
}

type CreateReciterPayload struct {
	Name         string `json:"name" mod:"trim" validate:"required,max=200"`
	ArabicName   string `json:"arabic_name" mod:"trim" validate:"required,max=200"`
	RelativePath string `json:"relative_path,omitempty" mod:"trim" validate:"max=500"`
	Format       string `json:"format,omitempty" mod:"trim,lcase" default:"mp3" validate:"max=16"`
	FilesSize    int64  `json:"files_size,omitempty" validate:"min=0"`
}

type UpdateReciterPayload struct {
	Name         *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	ArabicName   *string `json:"arabic_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	RelativePath *string `json:"relative_path,omitempty" mod:"trim" validate:"omitempty,max=500"`
	Format       *string `json:"format,omitempty" mod:"trim,lcase" validate:"omitempty,min=1,max=16"`
	FilesSize    *int64  `json:"files_size,omitempty" validate:"omitempty,min=0"`
}
