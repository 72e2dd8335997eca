package models

import (
	"database/sql/driver"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// TranslatedName is a localized recitation name. It's stored as JSON text.
type TranslatedName struct {
	Name         string `json:"name"`
	LanguageName string `json:"language_name"`
}

const DefaultLanguageName = "en"

func (t TranslatedName) IsZero() bool {
	return t.Name == "" && t.LanguageName == ""
}

func (t TranslatedName) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

// Scan decodes textual values and passes structured ones through unchanged.
func (t *TranslatedName) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TranslatedName{}
		return nil
	case string:
		return t.decode([]byte(v))
	case []byte:
		return t.decode(v)
	case TranslatedName:
		*t = v
		return nil
	case *TranslatedName:
		if v == nil {
			*t = TranslatedName{}
			return nil
		}
		*t = *v
		return nil
	case map[string]interface{}:
		name, _ := v["name"].(string)
		lang, _ := v["language_name"].(string)
		*t = TranslatedName{Name: name, LanguageName: lang}
		return nil
	}
	return errors.Errorf("unsupported translated_name type %T", src)
}

func (t *TranslatedName) decode(b []byte) error {
	*t = TranslatedName{}
	if len(b) == 0 {
		return nil
	}
	return errors.WithStack(json.Unmarshal(b, t))
}
