package cif

import (
	"strings"

	"github.com/cifkit/cifkit/dictionary"
)

// Datablock holds an ordered, case-insensitive-unique set of
// categories (spec §3).
type Datablock struct {
	name       string
	categories []*Category
	index      map[string]int // lowercased category name -> index into categories
}

func newDatablock(name string) *Datablock {
	return &Datablock{name: name, index: make(map[string]int)}
}

// Name returns the datablock's name.
func (db *Datablock) Name() string { return db.name }

// Categories returns every category in insertion order.
func (db *Datablock) Categories() []*Category {
	out := make([]*Category, len(db.categories))
	copy(out, db.categories)
	return out
}

// Get returns the category named name, creating an empty one on first
// reference (spec §3: "Categories are created on first access or
// emplace"). Lookup is case-insensitive.
func (db *Datablock) Get(name string) *Category {
	if cat := db.getExisting(name); cat != nil {
		return cat
	}
	cat := newCategory(db, name)
	db.index[strings.ToLower(name)] = len(db.categories)
	db.categories = append(db.categories, cat)
	return cat
}

// getExisting returns the category named name without creating one,
// so cascade lookups never materialize a phantom empty category
// purely by checking whether a linked child/parent exists.
func (db *Datablock) getExisting(name string) *Category {
	if idx, ok := db.index[strings.ToLower(name)]; ok {
		return db.categories[idx]
	}
	return nil
}

// Contains reports whether a category named name has been created.
func (db *Datablock) Contains(name string) bool {
	return db.getExisting(name) != nil
}

// setValidator attaches dict's validator for every category this
// datablock already holds, per category name, and rebuilds their
// link caches. Categories created after this call have no validator
// until setValidator runs again (File.LoadDictionary, or File.Open
// with a DictionaryName, attaches to every datablock).
func (db *Datablock) setValidator(dict *dictionary.Dictionary) error {
	for _, cat := range db.categories {
		cv, _ := dict.CategoryByName(cat.name)
		cat.setValidator(dict, cv)
	}
	return nil
}

// validate re-checks every row of every category against its attached
// validator's mandatory fields, reporting the first failure (or every
// failure, when not in strict mode — each is logged and validation
// continues).
func (db *Datablock) validate() error {
	for _, cat := range db.categories {
		if cat.validator == nil {
			continue
		}
		for field := range cat.validator.MandatoryFields {
			for _, row := range cat.rows {
				idx := cat.columnIndex(field)
				if v, ok := row.At(idx); !ok || v.IsEmpty() {
					err := newf(KindValidation, "mandatory field %s.%s is missing", cat.name, field)
					if cat.dict != nil && cat.dict.Strict {
						return err
					}
					logAt(VerbosityWarnings, "%s", err.Error())
				}
			}
		}
	}
	return nil
}
