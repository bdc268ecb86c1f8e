package cif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenParsesPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.cif")
	src := "data_sample\n_entry.id  1ABC\nloop_\n_t.a\n_t.b\n1 'has space'\n2 bare\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	f, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	require.Len(t, f.Datablocks(), 1)

	db := f.Datablock("sample")
	require.NotNil(t, db)
	entry := db.Get("entry")
	v, ok := entry.Rows()[0].Value("id")
	require.True(t, ok)
	require.Equal(t, "1ABC", v.Text)

	tcat := db.Get("t")
	require.Equal(t, 2, tcat.Len())
	v, _ = tcat.Rows()[1].Value("b")
	require.Equal(t, "bare", v.Text)
}

func TestOpenRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.cif")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))

	_, err := Open(path, OpenOptions{})
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestSaveThenOpenRoundTrips(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("roundtrip")
	cat := db.Get("t")
	_, err := cat.Emplace(Field{Name: "a", Value: Str("1")}, Field{Name: "b", Value: Str("has space")})
	require.NoError(t, err)
	_, err = cat.Emplace(Field{Name: "a", Value: Str("2")}, Field{Name: "b", Value: Str("bare")})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.cif")
	require.NoError(t, f.Save(path))

	reopened, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	tcat := reopened.Datablock("roundtrip").Get("t")
	require.Equal(t, 2, tcat.Len())
	v, _ := tcat.Rows()[0].Value("b")
	require.Equal(t, "has space", v.Text)
}

func TestSaveGzipSuffixRoundTrips(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("gz")
	cat := db.Get("entry")
	_, err := cat.Emplace(Field{Name: "id", Value: Str("X1")})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.cif.gz")
	require.NoError(t, f.Save(path))

	reopened, err := Open(path, OpenOptions{})
	require.NoError(t, err)
	v, ok := reopened.Datablock("gz").Get("entry").Rows()[0].Value("id")
	require.True(t, ok)
	require.Equal(t, "X1", v.Text)
}

func TestInferDictionaryNameFallsBackToDefault(t *testing.T) {
	f := newFile()
	f.datablockOrCreate("empty")
	require.Equal(t, defaultDictionaryName, f.inferDictionaryName())
}

func TestInferDictionaryNameFromAuditConform(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	ac := db.Get("audit_conform")
	_, err := ac.Emplace(Field{Name: "dict_name", Value: Str("mmcif_pdbx")})
	require.NoError(t, err)

	require.Equal(t, "mmcif_pdbx", f.inferDictionaryName())
}
