package scope

import (
	"fmt"
	"strconv"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/uptrace/bun"
)

// Kind is one of the Quranic addressing schemes an audio file listing can be
// scoped by.
type Kind string

const (
	KindSurah     Kind = "surah"
	KindJuz       Kind = "juz"
	KindPage      Kind = "page"
	KindHizb      Kind = "hizb"
	KindRubElHizb Kind = "rub_el_hizb"
	KindAyah      Kind = "ayah"
)

type division struct {
	column string
	label  string
	count  int
}

// divisions maps the numbered kinds to their positional column and the
// number of units in the mushaf.
var divisions = map[Kind]division{
	KindSurah:     {"af.chapter_id", "chapter number", models.ChapterCount},
	KindJuz:       {"af.juz_number", "juz number", 30},
	KindPage:      {"af.page_number", "page number", 604},
	KindHizb:      {"af.hizb_number", "hizb number", 60},
	KindRubElHizb: {"af.rub_el_hizb_number", "rub el hizb number", 240},
}

// Columns is the narrow projection used for every scoped listing. Timestamps
// are never attached to these results.
var Columns = []string{"id", "chapter_id", "verse_key", "audio_url", "format", "duration"}

// Order sorts verses naturally, across chapters for the multi chapter kinds.
const Order = "af.verse_number ASC, af.id ASC"

// Scope is a parsed kind and identifier. Number is set for the numbered kinds
// and VerseKey for ayah.
type Scope struct {
	Kind     Kind
	Number   int
	VerseKey models.VerseKey
}

// New parses and range checks the identifier for the given kind.
func New(kind Kind, identifier string) (Scope, error) {
	if kind == KindAyah {
		key, err := models.ParseVerseKey(identifier)
		if err != nil {
			return Scope{}, errcodes.InvalidArgument(fmt.Sprintf("invalid verse key %q", identifier))
		}
		return Scope{Kind: kind, VerseKey: key}, nil
	}

	d, ok := divisions[kind]
	if !ok {
		return Scope{}, errcodes.InvalidArgument(fmt.Sprintf("unknown scope %q", kind))
	}
	n, err := strconv.Atoi(identifier)
	if err != nil || n < 1 || n > d.count {
		return Scope{}, errcodes.InvalidArgument(fmt.Sprintf("%s must be between 1 and %d", d.label, d.count))
	}
	return Scope{Kind: kind, Number: n}, nil
}

func (s Scope) String() string {
	if s.Kind == KindAyah {
		return fmt.Sprintf("%s:%s", s.Kind, s.VerseKey)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.Number)
}

type clause struct {
	query string
	arg   interface{}
}

// Predicate is a conjunction of bound equality conditions over audio_files
// (aliased af).
type Predicate struct {
	clauses []clause
}

// Resolve builds the predicate selecting the audio files of a recitation that
// fall within the scope. Numbered kinds exclude the full chapter recording.
func Resolve(recitationID int, s Scope) (*Predicate, error) {
	if recitationID < 1 {
		return nil, errcodes.InvalidArgument("recitation id must be a positive integer")
	}

	p := &Predicate{clauses: []clause{{"af.recitation_id = ?", recitationID}}}

	if s.Kind == KindAyah {
		p.clauses = append(p.clauses, clause{"af.verse_key = ?", s.VerseKey.String()})
		return p, nil
	}

	d, ok := divisions[s.Kind]
	if !ok {
		return nil, errcodes.InvalidArgument(fmt.Sprintf("unknown scope %q", s.Kind))
	}
	p.clauses = append(p.clauses,
		clause{d.column + " = ?", s.Number},
		clause{"af.verse_key IS NOT NULL", nil},
	)
	return p, nil
}

// Apply adds the predicate to q.
func (p *Predicate) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	for _, c := range p.clauses {
		if c.arg == nil {
			q = q.Where(c.query)
			continue
		}
		q = q.Where(c.query, c.arg)
	}
	return q
}
