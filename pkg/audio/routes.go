package audio

import (
	"github.com/fafutuka/quranaudio/pkg/config"
	"github.com/fafutuka/quranaudio/pkg/scope"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) {
	h := &handler{
		audioService: NewService(db),
		cfg:          cfg,
	}

	e.GET("/reciters/:id/chapters/:chapter_number", h.chapterAudio)
	e.GET("/reciters/:id/audio-files", h.reciterAudioFiles)
	e.GET("/recitation-audio-files/:recitation_id", h.recitationAudioFiles)

	resources := e.Group("/resources")
	resources.GET("/recitations/:recitation_id/:chapter_number", h.scoped(scope.KindSurah, "chapter_number"))
	resources.GET("/recitations/:recitation_id/juz/:juz_number", h.scoped(scope.KindJuz, "juz_number"))
	resources.GET("/recitations/:recitation_id/pages/:page_number", h.scoped(scope.KindPage, "page_number"))
	resources.GET("/recitations/:recitation_id/hizb/:hizb_number", h.scoped(scope.KindHizb, "hizb_number"))
	resources.GET("/recitations/:recitation_id/rub-el-hizb/:rub_el_hizb_number", h.scoped(scope.KindRubElHizb, "rub_el_hizb_number"))
	resources.GET("/ayah-recitation/:recitation_id/:ayah_key", h.scoped(scope.KindAyah, "ayah_key"))

	g := e.Group("/audio-files")
	g.GET("/:id", h.retrieve)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deleteAudioFile)
}
