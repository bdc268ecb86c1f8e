package cif

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"

	"github.com/cifkit/cifkit/dictionary"
	"github.com/cifkit/cifkit/internal/mmap"
	"github.com/cifkit/cifkit/internal/parse"
	"github.com/cifkit/cifkit/internal/writer"
)

// gzipMagic is the two leading bytes of a gzip stream (spec §4.9).
var gzipMagic = [2]byte{0x1f, 0x8b}

// OpenOptions configures File.Open. The zero value is non-strict, silent
// (verbosity carried on the package-level knob), with no dictionary
// pre-attached.
type OpenOptions struct {
	// DictionaryName, if non-empty, is resolved via dictionary.Get and
	// attached immediately after parsing, as though LoadDictionary had
	// been called by hand.
	DictionaryName string

	// Strict is copied to the Strict flag of the dictionary attached via
	// DictionaryName; it has no effect when DictionaryName is empty.
	Strict bool
}

// File is a parsed CIF source: an ordered set of datablocks plus whatever
// dictionary is currently attached for validation (spec §3/§4.9).
type File struct {
	path       string
	datablocks []*Datablock
	index      map[string]int // lowercased datablock name -> index

	dict      *dictionary.Dictionary
	sawGlobal bool
}

func newFile() *File {
	return &File{index: make(map[string]int)}
}

// Datablocks returns every datablock in the file, in source order.
func (f *File) Datablocks() []*Datablock {
	out := make([]*Datablock, len(f.datablocks))
	copy(out, f.datablocks)
	return out
}

// Datablock returns the datablock named name, or nil if none exists.
func (f *File) Datablock(name string) *Datablock {
	if idx, ok := f.index[strings.ToLower(name)]; ok {
		return f.datablocks[idx]
	}
	return nil
}

func (f *File) datablockOrCreate(name string) *Datablock {
	if db := f.Datablock(name); db != nil {
		return db
	}
	db := newDatablock(name)
	f.index[strings.ToLower(name)] = len(f.datablocks)
	f.datablocks = append(f.datablocks, db)
	return db
}

// SawGlobal reports whether a top-level global_ block was seen while
// parsing (spec §9 Open Question #1: no further semantics attach to it).
func (f *File) SawGlobal() bool { return f.sawGlobal }

// Open reads path, gzip-sniffing its magic bytes regardless of file
// extension, and parses it into a File (spec §4.9).
func Open(path string, opts OpenOptions) (*File, error) {
	raw, err := readAll(path)
	if err != nil {
		return nil, wrapf(KindIO, err, "open %s", path)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyFile
	}
	if isGzip(raw) {
		raw, err = gunzipBytes(raw)
		if err != nil {
			return nil, wrapf(KindIO, err, "gunzip %s", path)
		}
	}

	f := newFile()
	f.path = path
	sink := newStoreSink(f)
	if err := parse.New(raw).Parse(sink); err != nil {
		if pe, ok := err.(*parse.Error); ok {
			return nil, &Error{Kind: KindParse, Msg: pe.Msg, Line: pe.Line}
		}
		return nil, wrapf(KindParse, err, "parse %s", path)
	}

	if opts.DictionaryName != "" {
		dict, err := dictionary.Get(opts.DictionaryName)
		if err != nil {
			return nil, err
		}
		dict.Strict = opts.Strict
		f.attachDictionary(dict)
	}
	return f, nil
}

// readAll reads the whole file via the mmap-backed fast path, copying
// out of the mapping before it's unmapped. Gzip detection happens on
// the resulting bytes regardless of how they were obtained (mmap does
// not help with a compressed stream, but sniffing the magic bytes is
// cheap either way, so the copy always happens up front).
func readAll(path string) ([]byte, error) {
	data, cleanup, err := mmap.Map(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func isGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == gzipMagic[0] && b[1] == gzipMagic[1]
}

func gunzipBytes(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// defaultDictionaryName is used by LoadDictionary("") when the first
// datablock has no audit_conform.dict_name item (spec §4.9).
const defaultDictionaryName = "mmcif_ddl"

// LoadDictionary resolves name via dictionary.Get and attaches it to
// every datablock's categories (spec §4.9). Passing "" infers the
// dictionary from audit_conform.dict_name in the first datablock,
// falling back to defaultDictionaryName if absent.
func (f *File) LoadDictionary(name string) (*dictionary.Dictionary, error) {
	if name == "" {
		name = f.inferDictionaryName()
	}
	dict, err := dictionary.Get(name)
	if err != nil {
		return nil, err
	}
	f.attachDictionary(dict)
	return dict, nil
}

func (f *File) inferDictionaryName() string {
	if len(f.datablocks) == 0 {
		return defaultDictionaryName
	}
	ac := f.datablocks[0].getExisting("audit_conform")
	if ac == nil || ac.Len() == 0 {
		return defaultDictionaryName
	}
	idx := ac.columnIndex("dict_name")
	v, ok := ac.rows[0].At(idx)
	if !ok || v.IsEmpty() {
		return defaultDictionaryName
	}
	return v.Text
}

func (f *File) attachDictionary(dict *dictionary.Dictionary) {
	f.dict = dict
	for _, db := range f.datablocks {
		_ = db.setValidator(dict)
	}
}

// ValidateLinks re-checks mandatory fields across every datablock
// against the currently attached dictionary. Parent/child link
// referential integrity is not checked. It is a no-op, successfully, if
// no dictionary is attached.
func (f *File) ValidateLinks() error {
	if f.dict == nil {
		return nil
	}
	for _, db := range f.datablocks {
		if err := db.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Save writes f back out in canonical form (spec §4.8/§4.9), atomically
// via temp-file-then-rename. A ".gz" suffix on path triggers gzip
// compression on write, matching the transparent-on-read behavior.
func (f *File) Save(path string) error {
	var buf bytes.Buffer
	if err := Write(&buf, f, WriteOptions{}); err != nil {
		return err
	}
	out := buf.Bytes()
	if strings.HasSuffix(path, ".gz") {
		var gzBuf bytes.Buffer
		zw := gzip.NewWriter(&gzBuf)
		if _, err := zw.Write(out); err != nil {
			return wrapf(KindIO, err, "gzip %s", path)
		}
		if err := zw.Close(); err != nil {
			return wrapf(KindIO, err, "gzip %s", path)
		}
		out = gzBuf.Bytes()
	}
	fw := &writer.FileWriter{Path: path}
	if err := fw.WriteCIF(out); err != nil {
		return wrapf(KindIO, err, "save %s", path)
	}
	return nil
}
