package cif

import (
	"testing"

	"github.com/cifkit/cifkit/dictionary"
	"github.com/stretchr/testify/require"
)

// linkedDictionary returns a minimal dictionary declaring entity (parent,
// key "id") and entity_poly (child, key "entity_id") linked 1:1 on that
// column, matching the shape spec §4.6's examples use.
func linkedDictionary() *dictionary.Dictionary {
	d := dictionary.New("test_dic")

	entity := dictionary.NewCategoryValidator("entity")
	entity.Keys = []string{"id"}
	d.AddCategory(entity)

	poly := dictionary.NewCategoryValidator("entity_poly")
	poly.Keys = []string{"entity_id"}
	d.AddCategory(poly)

	d.AddLink(&dictionary.LinkValidator{
		ParentCategory: "entity",
		ChildCategory:  "entity_poly",
		ParentKeys:     []string{"id"},
		ChildKeys:      []string{"entity_id"},
	})
	return d
}

func newLinkedFixture(t *testing.T) (*Datablock, *Category, *Category) {
	t.Helper()
	f := newFile()
	db := f.datablockOrCreate("test")
	entity := db.Get("entity")
	poly := db.Get("entity_poly")

	_, err := entity.Emplace(Field{Name: "id", Value: Str("1")})
	require.NoError(t, err)
	_, err = poly.Emplace(Field{Name: "entity_id", Value: Str("1")}, Field{Name: "type", Value: Str("polypeptide")})
	require.NoError(t, err)

	require.NoError(t, db.setValidator(linkedDictionary()))
	return db, entity, poly
}

func TestCascadeOnEraseRemovesOrphanedChild(t *testing.T) {
	_, entity, poly := newLinkedFixture(t)

	n, err := entity.Erase(Key("id").Eq("1"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rows, err := poly.Find(All)
	require.NoError(t, err)
	require.Len(t, rows, 0)
}

func TestCascadeOnParentKeyRenamePropagates(t *testing.T) {
	_, entity, poly := newLinkedFixture(t)

	row, err := entity.Find1(Key("id").Eq("1"))
	require.NoError(t, err)
	require.NoError(t, row.Assign("id", Str("2")))

	rows, err := poly.Find(Key("entity_id").Eq("2"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = poly.Find(Key("entity_id").Eq("1"))
	require.NoError(t, err)
	require.Len(t, rows, 0)
}

func TestCascadeRenameSkipsWhenTargetAlreadyExists(t *testing.T) {
	_, entity, poly := newLinkedFixture(t)
	_, err := entity.Emplace(Field{Name: "id", Value: Str("2")})
	require.NoError(t, err)
	_, err = poly.Emplace(Field{Name: "entity_id", Value: Str("2")}, Field{Name: "type", Value: Str("other")})
	require.NoError(t, err)

	row, err := entity.Find1(Key("id").Eq("1"))
	require.NoError(t, err)
	require.NoError(t, row.Assign("id", Str("2")))

	rows, err := poly.Find(Key("entity_id").Eq("1"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "rename must be skipped to avoid creating a duplicate key")
}

// TestCascadeRenamePropagatesFromEmptyOldValue exercises spec.md §9's Open
// Question #2: the legacy path cascades on a parent-key assignment even
// when the old value was empty/unset (DESIGN.md's "legacy is authoritative"
// decision), unlike the v2 guard that skips cascading in that case.
func TestCascadeRenamePropagatesFromEmptyOldValue(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	entity := db.Get("entity")
	poly := db.Get("entity_poly")

	entityRow, err := entity.Emplace()
	require.NoError(t, err)
	_, err = poly.Emplace(Field{Name: "type", Value: Str("other")})
	require.NoError(t, err)

	require.NoError(t, db.setValidator(linkedDictionary()))

	_, ok := entityRow.Value("id")
	require.False(t, ok, "id must start unset for this to exercise the empty-old-value path")

	require.NoError(t, entityRow.Assign("id", Str("7")))

	rows, err := poly.Find(Key("entity_id").Eq("7"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "assigning a previously-empty parent key must still cascade per the legacy path")
}

func TestIsOrphanFalseWithNoParentLinks(t *testing.T) {
	f := newFile()
	db := f.datablockOrCreate("test")
	cat := db.Get("standalone")
	row, err := cat.Emplace(Field{Name: "id", Value: Str("1")})
	require.NoError(t, err)
	require.False(t, cat.isOrphan(row))
}
