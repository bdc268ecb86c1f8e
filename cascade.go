package cif

import (
	"strings"

	"github.com/cifkit/cifkit/dictionary"
)

// cascadeOnErase implements spec §4.6's "on row erase" rule: for every
// child category this one is a parent of, orphan rows whose only path
// back to a parent ran through this row are purged.
func (c *Category) cascadeOnErase(row *Row) {
	for _, edge := range c.childLinks {
		child := c.datablock.getExisting(edge.otherCategory)
		if child == nil {
			continue
		}
		link := edge.link
		var atoms []Condition
		for i, parentKey := range link.ParentKeys {
			v, ok := row.Value(parentKey)
			if !ok || v.IsEmpty() {
				continue
			}
			atoms = append(atoms, Key(link.ChildKeys[i]).Eq(v.Text))
		}
		if len(atoms) == 0 {
			continue
		}
		child.eraseOrphans(And(atoms...))
	}
}

// eraseOrphans iterates the rows matching cond, evaluates isOrphan on
// each, and erases those that are (spec §4.6's erase_orphans).
func (c *Category) eraseOrphans(cond Condition) (int, error) {
	matches, err := c.Find(cond)
	if err != nil {
		return 0, err
	}
	var orphans []*Row
	for _, row := range matches {
		if c.isOrphan(row) {
			orphans = append(orphans, row)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	return c.eraseRows(orphans), nil
}

// isOrphan reports whether row has no matching parent row through any
// of its category's declared parent links (spec §4.6: "A row is orphan
// iff for each (parent_cat, link) of its category, no parent row
// matches the row's child keys").
func (c *Category) isOrphan(row *Row) bool {
	if len(c.parentLinks) == 0 {
		return false
	}
	for _, edge := range c.parentLinks {
		parent := c.datablock.getExisting(edge.otherCategory)
		if parent == nil {
			continue
		}
		link := edge.link
		var atoms []Condition
		complete := true
		for i, childKey := range link.ChildKeys {
			v, ok := row.Value(childKey)
			if !ok || v.IsEmpty() {
				complete = false
				break
			}
			atoms = append(atoms, Key(link.ParentKeys[i]).Eq(v.Text))
		}
		if !complete {
			continue
		}
		if exists, _ := parent.Exists(And(atoms...)); exists {
			return false
		}
	}
	return true
}

// eraseRows removes the given rows (already confirmed to belong to c)
// without re-running Find, and cascades each removal. Used both by
// Category.eraseVisit and by eraseOrphans.
func (c *Category) eraseRows(victims []*Row) int {
	if len(victims) == 0 {
		return 0
	}
	victimSet := make(map[*Row]bool, len(victims))
	for _, row := range victims {
		victimSet[row] = true
	}
	kept := c.rows[:0:0]
	for _, row := range c.rows {
		if !victimSet[row] {
			kept = append(kept, row)
		}
	}
	c.rows = kept
	for key, row := range c.keyIndex {
		if victimSet[row] {
			delete(c.keyIndex, key)
		}
	}
	for _, row := range victims {
		c.cascadeOnErase(row)
	}
	return len(victims)
}

// cascadeOnParentKeyUpdate implements spec §4.6's "on cell update to a
// linked parent key" rule for every child link whose parent keys
// include columnName.
func (c *Category) cascadeOnParentKeyUpdate(row *Row, columnName string, oldValue Value, hadOld bool, newValue Value) error {
	for _, edge := range c.childLinks {
		link := edge.link
		pos := indexOfFold(link.ParentKeys, columnName)
		if pos < 0 {
			continue
		}
		child := c.datablock.getExisting(edge.otherCategory)
		if child == nil {
			continue
		}

		condOld := renameMatchCond(link, row, pos, oldValue.Text, hadOld && !oldValue.IsEmpty())
		condNew := renameMatchCond(link, row, pos, newValue.Text, !newValue.IsEmpty())

		existsNew, err := child.Exists(condNew)
		if err != nil {
			return err
		}
		if existsNew {
			continue
		}

		matches, err := child.Find(condOld)
		if err != nil {
			return err
		}
		for _, childRow := range matches {
			if err := childRow.AssignNoCascade(link.ChildKeys[pos], Str(newValue.Text)); err != nil {
				return err
			}
		}
	}
	return nil
}

// renameMatchCond builds the condition matching child rows whose
// linked keys equal row's parent-key tuple, substituting
// overrideValue at position pos. Position pos must equal overrideValue
// exactly (or be empty when overridePresent is false); every other key
// position accepts either an exact match or an empty child cell (spec
// §4.6: "Empty cells are allowed to match via the key == null
// alternative").
func renameMatchCond(link *dictionary.LinkValidator, row *Row, pos int, overrideValue string, overridePresent bool) Condition {
	var atoms []Condition
	for i, childKey := range link.ChildKeys {
		if i == pos {
			if overridePresent {
				atoms = append(atoms, Key(childKey).Eq(overrideValue))
			} else {
				atoms = append(atoms, Key(childKey).IsEmpty())
			}
			continue
		}
		v, ok := row.Value(link.ParentKeys[i])
		present := ok && !v.IsEmpty()
		value := v.Text
		if present {
			atoms = append(atoms, Or(Key(childKey).Eq(value), Key(childKey).IsEmpty()))
		} else {
			atoms = append(atoms, Key(childKey).IsEmpty())
		}
	}
	return And(atoms...)
}

func indexOfFold(haystack []string, needle string) int {
	for i, s := range haystack {
		if strings.EqualFold(s, needle) {
			return i
		}
	}
	return -1
}
