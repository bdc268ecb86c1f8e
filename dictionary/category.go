package dictionary

import "strings"

// CategoryValidator describes one dictionary-defined category: its
// name, its key columns (the tuple that makes a row unique), the set
// of mandatory columns, and the item validators for every column the
// dictionary declares under it.
type CategoryValidator struct {
	Name            string
	Keys            []string
	MandatoryFields map[string]bool
	Items           map[string]*ItemValidator // keyed by lowercased item name
}

// NewCategoryValidator returns an empty validator for the given
// category name, ready to accumulate items during loading.
func NewCategoryValidator(name string) *CategoryValidator {
	return &CategoryValidator{
		Name:            name,
		MandatoryFields: make(map[string]bool),
		Items:           make(map[string]*ItemValidator),
	}
}

// Item looks up an item validator by name, case-insensitively.
func (cv *CategoryValidator) Item(name string) (*ItemValidator, bool) {
	iv, ok := cv.Items[strings.ToLower(name)]
	return iv, ok
}

// AddItem registers iv under this category, indexed case-insensitively.
func (cv *CategoryValidator) AddItem(iv *ItemValidator) {
	cv.Items[strings.ToLower(iv.Name)] = iv
	if iv.Mandatory {
		cv.MandatoryFields[strings.ToLower(iv.Name)] = true
	}
}

// IsKey reports whether name (case-insensitive) is one of this
// category's key columns.
func (cv *CategoryValidator) IsKey(name string) bool {
	name = strings.ToLower(name)
	for _, k := range cv.Keys {
		if strings.ToLower(k) == name {
			return true
		}
	}
	return false
}
