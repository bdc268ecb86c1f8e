package cif

import "github.com/cifkit/cifkit/internal/parse"

// storeSink is the parser's store-building Sink (spec §4.2): it turns the
// SAX-style event stream into Category/Row/Datablock structures on a
// File. Save-frames never occur outside dictionaries, so both hooks are
// no-ops here; the dictionary package has its own Sink for those.
type storeSink struct {
	file *File
	db   *Datablock
	cat  *Category
}

func newStoreSink(f *File) *storeSink {
	return &storeSink{file: f}
}

func (s *storeSink) BeginDatablock(name string) error {
	s.db = s.file.datablockOrCreate(name)
	s.cat = nil
	return nil
}

func (s *storeSink) BeginCategory(name string) error {
	s.cat = s.db.Get(name)
	return nil
}

func (s *storeSink) BeginRow() error {
	row := newRow(s.cat)
	s.cat.rows = append(s.cat.rows, row)
	return nil
}

func (s *storeSink) Item(category, item string, value parse.Value) error {
	cat := s.cat
	if existing := s.db.getExisting(category); existing != nil && len(existing.rows) > 0 {
		cat = existing
	}
	row := cat.rows[len(cat.rows)-1]
	idx := cat.GetColumnIx(item)
	v := Value{Text: value.Text, Kind: value.Kind}
	return cat.updateValue(row, idx, &v, false, false)
}

func (s *storeSink) BeginSaveFrame(name string) error { return nil }
func (s *storeSink) EndSaveFrame() error              { return nil }

// Global marks a top-level global_ block. cifkit attaches no semantics to
// it (spec §9 Open Question #1) beyond recording that one was seen.
func (s *storeSink) Global() error {
	s.file.sawGlobal = true
	return nil
}
