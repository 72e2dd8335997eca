package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE reciters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				arabic_name TEXT,
				relative_path TEXT NOT NULL DEFAULT '',
				format TEXT NOT NULL DEFAULT 'mp3',
				files_size INTEGER NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE recitations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				reciter_id INTEGER REFERENCES reciters (id),
				reciter_name TEXT NOT NULL,
				style TEXT,
				translated_name TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_recitations_reciter_id ON recitations (reciter_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		// recitation_id is a plain reference, audio files aren't owned by a
		// recitation.
		_, err = db.Exec(`
			CREATE TABLE audio_files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				recitation_id INTEGER NOT NULL,
				chapter_id INTEGER NOT NULL,
				verse_key TEXT,
				verse_number INTEGER,
				audio_url TEXT NOT NULL,
				format TEXT NOT NULL DEFAULT 'mp3',
				duration REAL NOT NULL DEFAULT 0,
				file_size INTEGER NOT NULL DEFAULT 0,
				juz_number INTEGER,
				page_number INTEGER,
				hizb_number INTEGER,
				rub_el_hizb_number INTEGER,
				total_files INTEGER NOT NULL DEFAULT 1
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		indexes := []string{
			`CREATE INDEX ix_audio_files_recitation_chapter ON audio_files (recitation_id, chapter_id, verse_number)`,
			`CREATE INDEX ix_audio_files_recitation_juz ON audio_files (recitation_id, juz_number, verse_number)`,
			`CREATE INDEX ix_audio_files_recitation_page ON audio_files (recitation_id, page_number, verse_number)`,
			`CREATE INDEX ix_audio_files_recitation_hizb ON audio_files (recitation_id, hizb_number, verse_number)`,
			`CREATE INDEX ix_audio_files_recitation_rub_el_hizb ON audio_files (recitation_id, rub_el_hizb_number, verse_number)`,
			// One full chapter recording per (recitation, chapter).
			`CREATE UNIQUE INDEX ux_audio_files_chapter_recording ON audio_files (recitation_id, chapter_id) WHERE verse_key IS NULL`,
			`CREATE UNIQUE INDEX ux_audio_files_recitation_verse_key ON audio_files (recitation_id, verse_key) WHERE verse_key IS NOT NULL`,
		}
		for _, stmt := range indexes {
			_, err = db.Exec(stmt)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		_, err = db.Exec(`
			CREATE TABLE timestamps (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				audio_file_id INTEGER REFERENCES audio_files (id) ON DELETE CASCADE NOT NULL,
				verse_key TEXT NOT NULL,
				verse_number INTEGER NOT NULL,
				timestamp_from INTEGER NOT NULL,
				timestamp_to INTEGER NOT NULL,
				duration INTEGER NOT NULL DEFAULT 0,
				segments TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_timestamps_audio_file_id ON timestamps (audio_file_id, verse_number)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS timestamps")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS audio_files")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS recitations")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS reciters")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
