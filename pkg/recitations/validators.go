package recitations

import "github.com/fafutuka/quranaudio/pkg/models"

type ListRecitationsQuery struct {
	Language  string `query:"language" json:"language,omitempty" default:"en" mod:"trim,lcase" validate:"max=10"`
	ReciterID *int   `query:"reciter_id" json:"reciter_id,omitempty" validate:"omitempty,min=1"`
}

type TranslatedNamePayload struct {
	Name         string `json:"name" mod:"trim" validate:"required,max=200"`
	LanguageName string `json:"language_name" mod:"trim" validate:"required,max=50"`
}

func (p *TranslatedNamePayload) model() models.TranslatedName {
	if p == nil {
		return models.TranslatedName{}
	}
	return models.TranslatedName{Name: p.Name, LanguageName: p.LanguageName}
}

type CreateRecitationPayload struct {
	ReciterID      *int                   `json:"reciter_id,omitempty" validate:"omitempty,min=1"`
	ReciterName    string                 `json:"reciter_name" mod:"trim" validate:"required,max=200"`
	Style          string                 `json:"style" mod:"trim" validate:"required,max=100"`
	TranslatedName *TranslatedNamePayload `json:"translated_name,omitempty"`
}

type UpdateRecitationPayload struct {
	ReciterID      *int                   `json:"reciter_id,omitempty" validate:"omitempty,min=1"`
	ReciterName    *string                `json:"reciter_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	Style          *string                `json:"style,omitempty" mod:"trim" validate:"omitempty,min=1,max=100"`
	TranslatedName *TranslatedNamePayload `json:"translated_name,omitempty"`
}
