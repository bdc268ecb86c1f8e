package cif

import (
	"strings"

	"github.com/cifkit/cifkit/dictionary"
)

// Category is a named table: an ordered column list, an ordered row
// list, a back-reference to its attached validator, and cached
// parent/child link edges derived from the dictionary (spec §3).
// Category names compare case-insensitively.
type Category struct {
	name        string
	datablock   *Datablock
	columns     []string
	colIndexes  map[string]int // lowercased column name -> index

	rows []*Row

	dict      *dictionary.Dictionary
	validator *dictionary.CategoryValidator

	keyNames []string // lowercased key item names, from the attached validator
	keyIndex map[string]*Row

	childLinks  []linkEdge // this category is the parent side
	parentLinks []linkEdge // this category is the child side
}

type linkEdge struct {
	otherCategory string
	link          *dictionary.LinkValidator
}

func newCategory(db *Datablock, name string) *Category {
	return &Category{
		name:        name,
		datablock:   db,
		colIndexes:  make(map[string]int),
	}
}

// Name returns the category's name as originally declared.
func (c *Category) Name() string { return c.name }

// Columns returns the column names in insertion order.
func (c *Category) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Rows returns the rows in insertion order. The returned slice must
// not be mutated by the caller.
func (c *Category) Rows() []*Row { return c.rows }

// Len returns the number of rows.
func (c *Category) Len() int { return len(c.rows) }

// GetColumnIx returns the index of name, adding the column if it
// doesn't exist yet (idempotent, case-insensitive per spec §4.3.1).
// GetColumnIx never fails and does not check the item-name grammar;
// AddColumn is the checking variant, returning a KindInvalidName error.
func (c *Category) GetColumnIx(name string) int {
	key := strings.ToLower(name)
	if idx, ok := c.colIndexes[key]; ok {
		return idx
	}
	idx := len(c.columns)
	c.columns = append(c.columns, name)
	c.colIndexes[key] = idx
	return idx
}

// AddColumn is GetColumnIx with explicit item-name grammar validation,
// for callers building a schema programmatically rather than through
// the parser (which already guarantees well-formed tags).
func (c *Category) AddColumn(name string) (int, error) {
	if !isValidItemName(name) {
		return 0, newf(KindInvalidName, "invalid column name %q", name)
	}
	return c.GetColumnIx(name), nil
}

// columnIndex looks up name without creating a column. Returns -1 when
// the column doesn't exist, so a condition referencing an undeclared
// column simply never matches instead of mutating the category.
func (c *Category) columnIndex(name string) int {
	if idx, ok := c.colIndexes[strings.ToLower(name)]; ok {
		return idx
	}
	return -1
}

// isValidItemName reports whether name is usable as a STAR tag: it is
// non-empty and contains no space, control character or DEL. Reserved
// punctuation is not rejected, matching the scanner, which reads a tag
// as any run of non-blank characters.
func isValidItemName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b <= ' ' || b == 0x7f {
			return false
		}
	}
	return true
}

// compareFor resolves the comparison function for item name within
// this category: its dictionary type's primitive if a validator is
// attached and declares one, otherwise plain bytewise comparison.
func (c *Category) compareFor(item string) func(a, b string) int {
	if c.validator != nil {
		if iv, ok := c.validator.Item(item); ok && iv.TypeName != "" && c.dict != nil {
			if tv, ok := c.dict.TypeByName(iv.TypeName); ok {
				return tv.Compare
			}
		}
	}
	return strings.Compare
}

// normalizeFor resolves the key-index canonicalization for item name:
// the same dictionary type Compare would use, so that keyIndex lookups
// (which hash a joined key string rather than calling Compare) agree
// with a full Compare-based scan instead of bypassing it.
func (c *Category) normalizeFor(item string) func(string) string {
	if c.validator != nil {
		if iv, ok := c.validator.Item(item); ok && iv.TypeName != "" && c.dict != nil {
			if tv, ok := c.dict.TypeByName(iv.TypeName); ok {
				return tv.Normalize
			}
		}
	}
	return identity
}

func identity(s string) string { return s }

// Emplace appends a new row, routing each field through updateValue
// (spec §4.3.1).
func (c *Category) Emplace(fields ...Field) (*Row, error) {
	row := newRow(c)
	c.rows = append(c.rows, row)
	for _, f := range fields {
		idx := c.GetColumnIx(f.Name)
		v := f.Value
		if err := c.updateValue(row, idx, &v, true, true); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Find returns every row matching cond.
func (c *Category) Find(cond Condition) ([]*Row, error) {
	p, err := Prepare(c, cond)
	if err != nil {
		return nil, err
	}
	if p.fastKeyValid {
		if row, ok := c.keyIndex[p.fastKey]; ok {
			return []*Row{row}, nil
		}
		return nil, nil
	}
	var out []*Row
	for _, row := range c.rows {
		if p.Operator(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Find1 returns exactly one matching row, or ErrNotFound / ErrAmbiguous.
func (c *Category) Find1(cond Condition) (*Row, error) {
	rows, err := c.Find(cond)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return rows[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// Count returns the number of matching rows.
func (c *Category) Count(cond Condition) (int, error) {
	rows, err := c.Find(cond)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Contains and Exists are synonyms: both report whether any row matches.
func (c *Category) Contains(cond Condition) (bool, error) { return c.Exists(cond) }

func (c *Category) Exists(cond Condition) (bool, error) {
	n, err := c.Count(cond)
	return n > 0, err
}

// Erase removes every matching row and returns how many were removed.
// Erasure triggers §4.6 cascades when a validator is attached.
func (c *Category) Erase(cond Condition) (int, error) {
	return c.eraseVisit(cond, nil)
}

// EraseVisit is Erase with a visitor invoked on every victim row before
// removal (spec §4.3.1's erase(condition, visitor) form). Victims are
// collected into a fixed snapshot before the visitor or any removal
// runs, so a visitor that reads sibling rows never observes a
// partially-erased category.
func (c *Category) EraseVisit(cond Condition, visitor func(*Row)) (int, error) {
	return c.eraseVisit(cond, visitor)
}

func (c *Category) eraseVisit(cond Condition, visitor func(*Row)) (int, error) {
	victims, err := c.Find(cond)
	if err != nil {
		return 0, err
	}
	if len(victims) == 0 {
		return 0, nil
	}
	if visitor != nil {
		for _, row := range victims {
			visitor(row)
		}
	}
	return c.eraseRows(victims), nil
}

// setValidator attaches v (and the dictionary it came from) to c,
// rebuilding the key index and link caches from scratch (spec §4.6:
// "derived caches rebuilt on set_validator").
func (c *Category) setValidator(dict *dictionary.Dictionary, v *dictionary.CategoryValidator) {
	c.dict = dict
	c.validator = v
	c.keyNames = nil
	if v != nil {
		for _, k := range v.Keys {
			c.keyNames = append(c.keyNames, strings.ToLower(k))
		}
	}
	c.rebuildKeyIndex()
	c.rebuildLinks()
}

func (c *Category) rebuildLinks() {
	c.childLinks = nil
	c.parentLinks = nil
	if c.dict == nil {
		return
	}
	for _, l := range c.dict.LinksForParent(c.name) {
		c.childLinks = append(c.childLinks, linkEdge{otherCategory: l.ChildCategory, link: l})
	}
	for _, l := range c.dict.LinksForChild(c.name) {
		c.parentLinks = append(c.parentLinks, linkEdge{otherCategory: l.ParentCategory, link: l})
	}
}

func (c *Category) rebuildKeyIndex() {
	c.keyIndex = make(map[string]*Row)
	if len(c.keyNames) == 0 {
		return
	}
	for _, row := range c.rows {
		if key, ok := c.rowKey(row); ok {
			c.keyIndex[key] = row
		}
	}
}

// rowKey returns the joined key string for row if every key column is
// present (a "." or "?" sentinel counts as present and is keyed by its
// text); full-key lookups (both the index and the §4.5 rewrite-3 fast
// path) only ever address fully-keyed rows.
func (c *Category) rowKey(row *Row) (string, bool) {
	if len(c.keyNames) == 0 {
		return "", false
	}
	parts := make([]string, len(c.keyNames))
	for i, name := range c.keyNames {
		idx := c.columnIndex(name)
		v, ok := row.At(idx)
		if !ok {
			return "", false
		}
		parts[i] = c.normalizeFor(name)(v.Text)
	}
	return joinKey(parts), true
}

func joinKey(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(p)
	}
	return b.String()
}

// updateValue is the central write path (spec §4.3.3).
func (c *Category) updateValue(row *Row, colIdx int, newValue *Value, updateLinked, validate bool) error {
	oldValue, hadOld := row.At(colIdx)

	if newValue != nil && hadOld && oldValue == *newValue {
		return nil
	}
	if newValue == nil && !hadOld {
		return nil
	}

	if validate && newValue != nil && c.validator != nil {
		name := c.columnName(colIdx)
		if iv, ok := c.validator.Item(name); ok {
			if err := c.validateCell(iv, *newValue); err != nil {
				return err
			}
		}
	}

	wasKeyed, oldKey := c.rowKeyIfIndexed(row)
	if wasKeyed {
		delete(c.keyIndex, oldKey)
	}

	if newValue == nil {
		delete(row.cells, colIdx)
	} else {
		row.cells[colIdx] = *newValue
	}

	if newKey, ok := c.rowKey(row); ok {
		c.keyIndex[newKey] = row
	}

	if updateLinked && newValue != nil {
		name := c.columnName(colIdx)
		if err := c.cascadeOnParentKeyUpdate(row, name, oldValue, hadOld, *newValue); err != nil {
			return err
		}
	}
	return nil
}

func (c *Category) rowKeyIfIndexed(row *Row) (bool, string) {
	key, ok := c.rowKey(row)
	if !ok {
		return false, ""
	}
	if _, present := c.keyIndex[key]; !present {
		return false, ""
	}
	return true, key
}

func (c *Category) columnName(idx int) string {
	if idx < 0 || idx >= len(c.columns) {
		return ""
	}
	return c.columns[idx]
}

func (c *Category) validateCell(iv *dictionary.ItemValidator, v Value) error {
	if v.IsEmpty() {
		return nil
	}
	if len(iv.Enumeration) > 0 && !iv.AcceptsEnum(v.Text) {
		err := newf(KindValidation, "value %q is not in the enumeration for %s.%s", v.Text, c.name, iv.Name)
		return c.reportValidation(err)
	}
	if iv.TypeName != "" && c.dict != nil {
		if tv, ok := c.dict.TypeByName(iv.TypeName); ok && !tv.Matches(v.Text) {
			err := newf(KindValidation, "value %q does not match type %s for %s.%s", v.Text, iv.TypeName, c.name, iv.Name)
			return c.reportValidation(err)
		}
	}
	return nil
}

// reportValidation raises err when in strict mode, otherwise logs it
// at VerbosityWarnings and swallows it (spec §4.4's report_error
// contract, applied to cell-level validation failures).
func (c *Category) reportValidation(err *Error) error {
	strict := c.dict != nil && c.dict.Strict
	if strict {
		return err
	}
	logAt(VerbosityWarnings, "%s", err.Error())
	return nil
}
