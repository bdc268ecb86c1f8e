package cif

import (
	"testing"

	"github.com/cifkit/cifkit/dictionary"
	"github.com/stretchr/testify/require"
)

// typedKeyDictionary declares a single-key category per primitive, so the
// key-index fast path can be checked against each comparison discipline
// a dictionary type can name (spec §4.5, §8 scenario 3).
func typedKeyDictionary(catName, keyName string, primitive dictionary.Primitive) *dictionary.Dictionary {
	d := dictionary.New("test_dic")

	tv := &dictionary.TypeValidator{Name: "keytype", Primitive: primitive}
	d.AddType(tv)

	cv := dictionary.NewCategoryValidator(catName)
	cv.Keys = []string{keyName}
	cv.AddItem(&dictionary.ItemValidator{Name: keyName, Category: catName, TypeName: "keytype"})
	d.AddCategory(cv)

	return d
}

// TestKeyIndexAgreesWithFullScanForUchar covers spec §8 scenario 3 for a
// uchar-typed key: the fast key-index path and a full Compare-based scan
// must return the same row set even when the query's case differs from
// the stored value.
func TestKeyIndexAgreesWithFullScanForUchar(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	cat := db.Get("entity")
	row, err := cat.Emplace(Field{Name: "id", Value: Str("ABC")})
	require.NoError(t, err)

	require.NoError(t, db.setValidator(typedKeyDictionary("entity", "id", dictionary.PrimUchar)))

	p, err := Prepare(cat, Key("id").Eq("abc"))
	require.NoError(t, err)
	require.True(t, p.fastKeyValid, "a single-key equality must take the fast path")

	rows, err := cat.Find(Key("id").Eq("abc"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "fast key-index lookup must be case-insensitive for a uchar key")
	require.Same(t, row, rows[0])

	var scanned []*Row
	cmp := cat.compareFor("id")
	for _, r := range cat.Rows() {
		v, _ := r.Value("id")
		if cmp(v.Text, "abc") == 0 { // full scan with the key type's Compare
			scanned = append(scanned, r)
		}
	}
	require.Len(t, scanned, 1)
}

// TestKeyIndexAgreesWithFullScanForNumb covers the numb-typed key case:
// "1" and "1.0" must be treated as the same key by both the fast path
// and a full Compare-based scan.
func TestKeyIndexAgreesWithFullScanForNumb(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	cat := db.Get("measurement")
	_, err := cat.Emplace(Field{Name: "value", Value: Str("1.0")})
	require.NoError(t, err)

	require.NoError(t, db.setValidator(typedKeyDictionary("measurement", "value", dictionary.PrimNumb)))

	p, err := Prepare(cat, Key("value").Eq("1"))
	require.NoError(t, err)
	require.True(t, p.fastKeyValid)

	rows, err := cat.Find(Key("value").Eq("1"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "fast key-index lookup must treat \"1\" and \"1.0\" as equal for a numb key")

	var scanned []*Row
	cmp := cat.compareFor("value")
	for _, r := range cat.Rows() {
		v, _ := r.Value("value")
		if cmp(v.Text, "1") == 0 {
			scanned = append(scanned, r)
		}
	}
	require.Equal(t, rows, scanned)
}

// TestKeyIndexNoFastPathWithoutValidator confirms a category with no
// attached validator (no declared keys) never takes the fast path, so
// Find always falls back to the general scan.
func TestKeyIndexNoFastPathWithoutValidator(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	cat := db.Get("entity")
	_, err := cat.Emplace(Field{Name: "id", Value: Str("1")})
	require.NoError(t, err)

	p, err := Prepare(cat, Key("id").Eq("1"))
	require.NoError(t, err)
	require.False(t, p.fastKeyValid)
}
