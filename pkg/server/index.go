package server

import (
	"net/http"

	"github.com/fafutuka/quranaudio/pkg/version"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var endpoints = map[string]string{
	"GET /chapter-reciters":                                                      "List all chapter reciters",
	"GET /recitations":                                                           "List all recitations",
	"GET /reciters/{id}/chapters/{chapter_number}":                               "Get chapter audio file",
	"GET /reciters/{id}/audio-files":                                             "Get all audio files for a reciter",
	"GET /recitation-audio-files/{recitation_id}":                                "Get audio files for a recitation",
	"GET /resources/recitations/{recitation_id}/{chapter_number}":                "Get ayah recitations for surah",
	"GET /resources/recitations/{recitation_id}/juz/{juz_number}":                "Get ayah recitations for juz",
	"GET /resources/recitations/{recitation_id}/pages/{page_number}":             "Get ayah recitations for page",
	"GET /resources/recitations/{recitation_id}/hizb/{hizb_number}":              "Get ayah recitations for hizb",
	"GET /resources/recitations/{recitation_id}/rub-el-hizb/{rub_el_hizb_number}": "Get ayah recitations for rub el hizb",
	"GET /resources/ayah-recitation/{recitation_id}/{ayah_key}":                  "Get ayah recitation",
}

func index(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Quran Audio API",
		"version":   version.Version,
		"endpoints": endpoints,
	}))
}
