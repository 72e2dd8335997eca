package models

import (
	"database/sql/driver"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Segment is the timing of a single word within a verse. It's encoded as a
// compact [position, from, to] triple.
type Segment struct {
	Position int `json:"position"`
	From     int `json:"timestamp_from"`
	To       int `json:"timestamp_to"`
}

func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{s.Position, s.From, s.To})
}

// UnmarshalJSON accepts the triple form, the four element form that carries a
// segment index ahead of the word position, and the object form.
func (s *Segment) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '{' {
		type segment Segment
		var o segment
		if err := json.Unmarshal(b, &o); err != nil {
			return errors.WithStack(err)
		}
		*s = Segment(o)
		return nil
	}

	var parts []int
	if err := json.Unmarshal(b, &parts); err != nil {
		return errors.WithStack(err)
	}
	switch len(parts) {
	case 3:
		*s = Segment{Position: parts[0], From: parts[1], To: parts[2]}
	case 4:
		*s = Segment{Position: parts[1], From: parts[2], To: parts[3]}
	default:
		return errors.Errorf("segment has %d elements", len(parts))
	}
	return nil
}

// Segments is the ordered word timing list of a verse, stored as JSON text.
type Segments []Segment

func (s Segments) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

// Scan decodes textual values and passes structured ones through unchanged.
func (s *Segments) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		return s.decode([]byte(v))
	case []byte:
		return s.decode(v)
	case Segments:
		*s = v
		return nil
	case []Segment:
		*s = v
		return nil
	}
	return errors.Errorf("unsupported segments type %T", src)
}

func (s *Segments) decode(b []byte) error {
	*s = nil
	if len(b) == 0 {
		return nil
	}
	return errors.WithStack(json.Unmarshal(b, s))
}
