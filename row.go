package cif

// Row is a single tuple in a Category: a sparse set of cells indexed
// by the category's column positions. A column index absent from
// cells means that cell is missing for this row (written as "?"),
// distinct from a cell holding an explicit empty-string, "." or "?"
// value (spec §4.3.2).
type Row struct {
	cat   *Category
	cells map[int]Value
}

func newRow(cat *Category) *Row {
	return &Row{cat: cat, cells: make(map[int]Value)}
}

// Field is one (name, value) pair for a batched row update.
type Field struct {
	Name  string
	Value Value
}

// At returns the cell at column index idx. idx == -1 (an unknown
// column) always reports not-present.
func (r *Row) At(idx int) (Value, bool) {
	if idx < 0 {
		return Value{}, false
	}
	v, ok := r.cells[idx]
	return v, ok
}

// Value returns the cell for the named column (adds the column on
// first reference, per spec §4.3.2's row[name] contract, but does not
// create a cell — only a column slot).
func (r *Row) Value(name string) (Value, bool) {
	idx := r.cat.GetColumnIx(name)
	return r.At(idx)
}

// Get reads the cells for names in order, one Value per name, with a
// zero Value for a missing cell; it is a thin helper over repeated
// Value calls. No type conversion is performed: each result carries
// the raw text and its scanner kind.
func (r *Row) Get(names ...string) []Value {
	out := make([]Value, len(names))
	for i, n := range names {
		v, _ := r.Value(n)
		out[i] = v
	}
	return out
}

// Assign sets a single cell, routing through the category's central
// write path (spec §4.3.3), including validation and link cascades.
func (r *Row) Assign(name string, value Value) error {
	idx := r.cat.GetColumnIx(name)
	return r.cat.updateValue(r, idx, &value, true, true)
}

// AssignNoCascade sets a single cell like Assign but without
// triggering §4.6 link maintenance — used internally by the cascade
// itself to avoid re-entrant rename propagation.
func (r *Row) AssignNoCascade(name string, value Value) error {
	idx := r.cat.GetColumnIx(name)
	return r.cat.updateValue(r, idx, &value, false, true)
}

// Unset removes a cell entirely, equivalent to assigning an "empty"
// new_value per spec §4.3.3 step 5.
func (r *Row) Unset(name string) error {
	idx := r.cat.GetColumnIx(name)
	return r.cat.updateValue(r, idx, nil, true, true)
}

// AssignBatch applies fields one at a time, in order, each through the
// central write path with validation and link propagation, exactly as
// repeated Assign calls would. Old values are not captured up front, so
// a later field's cascade sees the row with the earlier fields already
// applied, and an error stops the batch with the earlier fields left in
// place.
func (r *Row) AssignBatch(fields ...Field) error {
	type pending struct {
		idx      int
		newValue Value
	}
	plan := make([]pending, len(fields))
	for i, f := range fields {
		plan[i] = pending{idx: r.cat.GetColumnIx(f.Name), newValue: f.Value}
	}
	for _, p := range plan {
		v := p.newValue
		if err := r.cat.updateValue(r, p.idx, &v, true, true); err != nil {
			return err
		}
	}
	return nil
}
