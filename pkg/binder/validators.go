package binder

import (
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/go-playground/validator/v10"
)

// verseKeyValidator ensures the value is a canonical "<chapter>:<verse>" key.
// Pointer fields are dereferenced by the validator, and nil pointers are
// skipped with `omitempty`.
func verseKeyValidator(fl validator.FieldLevel) bool {
	_, err := models.ParseVerseKey(fl.Field().String())
	return err == nil
}
