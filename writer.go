package cif

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineLength = 132

// WriteOptions controls canonical serialization. The zero value is the
// default: topological category ordering when a validator is attached,
// insertion order otherwise.
type WriteOptions struct{}

// Write serializes f in canonical CIF text form to w (spec §4.8).
func Write(w io.Writer, f *File, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	for _, db := range f.datablocks {
		if err := writeDatablock(bw, db); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeDatablock(w *bufio.Writer, db *Datablock) error {
	if _, err := fmt.Fprintf(w, "data_%s\n", db.name); err != nil {
		return wrapf(KindIO, err, "write data_ header")
	}

	autoPopulateAuditConform(db)
	ordered := orderedCategoriesForWrite(db)
	for _, cat := range ordered {
		if err := writeCategory(w, cat); err != nil {
			return err
		}
	}
	return nil
}

// orderedCategoriesForWrite applies spec §4.8's category ordering: entry
// first, then audit_conform, then the remaining categories topologically
// by parent/child link rank (or insertion order when no validator is
// attached to any category).
func orderedCategoriesForWrite(db *Datablock) []*Category {
	cats := db.Categories()
	var entry, auditConform *Category
	var rest []*Category
	hasValidator := false
	for _, c := range cats {
		if c.validator != nil {
			hasValidator = true
		}
		switch strings.ToLower(c.name) {
		case "entry":
			entry = c
		case "audit_conform":
			auditConform = c
		default:
			rest = append(rest, c)
		}
	}
	if hasValidator {
		rest = categoryOrder(rest)
	}
	var out []*Category
	if entry != nil {
		out = append(out, entry)
	}
	if auditConform != nil {
		out = append(out, auditConform)
	}
	return append(out, rest...)
}

// autoPopulateAuditConform fills in dict_name/dict_version on an
// existing audit_conform row from the attached dictionary, when the
// category is present but the row is missing either field (spec §4.8).
func autoPopulateAuditConform(db *Datablock) {
	ac := db.getExisting("audit_conform")
	if ac == nil || ac.Len() == 0 || ac.dict == nil {
		return
	}
	row := ac.rows[0]
	if v, ok := row.Value("dict_name"); !ok || v.IsEmpty() {
		_ = row.Assign("dict_name", Str(ac.dict.Name))
	}
	if v, ok := row.Value("dict_version"); !ok || v.IsEmpty() {
		if ac.dict.Version != "" {
			_ = row.Assign("dict_version", Str(ac.dict.Version))
		}
	}
}

func writeCategory(w *bufio.Writer, cat *Category) error {
	if cat.Len() == 0 || len(cat.columns) == 0 {
		return nil
	}
	var err error
	if cat.Len() == 1 {
		err = writeSingleRow(w, cat)
	} else {
		err = writeLoop(w, cat)
	}
	if err != nil {
		return err
	}
	_, err = w.WriteString("#\n")
	return err
}

func writeSingleRow(w *bufio.Writer, cat *Category) error {
	width := 0
	for _, col := range cat.columns {
		tagLen := len(cat.name) + 1 + len(col)
		if tagLen > width {
			width = tagLen
		}
	}
	width += 2

	row := cat.rows[0]
	for i, col := range cat.columns {
		v, ok := row.At(i)
		if !ok {
			continue
		}
		tag := fmt.Sprintf("_%s.%s", cat.name, col)
		pad := width - len(tag)
		if pad < 1 {
			pad = 1
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", tag, strings.Repeat(" ", pad), renderCell(v)); err != nil {
			return wrapf(KindIO, err, "write %s", tag)
		}
	}
	return nil
}

func writeLoop(w *bufio.Writer, cat *Category) error {
	if _, err := w.WriteString("loop_\n"); err != nil {
		return wrapf(KindIO, err, "write loop_")
	}
	for _, col := range cat.columns {
		if _, err := fmt.Fprintf(w, "_%s.%s\n", cat.name, col); err != nil {
			return wrapf(KindIO, err, "write loop tag")
		}
	}

	widths := columnWidths(cat)
	for _, row := range cat.rows {
		if err := writeLoopRow(w, cat, row, widths); err != nil {
			return err
		}
	}
	return nil
}

// columnWidths computes each column's field width: max(2, rendered-cell-
// length+1) over every row whose cell has no embedded newline (spec
// §4.8). A column containing any multi-line value gets width 0, which
// writeLoopRow treats as "always break onto its own line".
func columnWidths(cat *Category) []int {
	widths := make([]int, len(cat.columns))
	forced := make([]bool, len(cat.columns))
	for i := range widths {
		widths[i] = 2
	}
	for _, row := range cat.rows {
		for i := range cat.columns {
			v, ok := row.At(i)
			rendered := renderCellFor(v, ok)
			if strings.ContainsRune(rendered, '\n') {
				forced[i] = true
				continue
			}
			if w := len(rendered) + 1; w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, f := range forced {
		if f {
			widths[i] = 0
		}
	}
	return widths
}

func writeLoopRow(w *bufio.Writer, cat *Category, row *Row, widths []int) error {
	var line strings.Builder
	flush := func() error {
		if line.Len() == 0 {
			return nil
		}
		if _, err := w.WriteString(strings.TrimRight(line.String(), " ")); err != nil {
			return wrapf(KindIO, err, "write loop row")
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
		line.Reset()
		return nil
	}

	for i := range cat.columns {
		v, ok := row.At(i)
		rendered := renderCellFor(v, ok)
		if widths[i] == 0 || strings.ContainsRune(rendered, '\n') {
			if err := flush(); err != nil {
				return err
			}
			if _, err := w.WriteString(rendered); err != nil {
				return wrapf(KindIO, err, "write loop cell")
			}
			if !strings.HasSuffix(rendered, "\n") {
				if _, err := w.WriteString("\n"); err != nil {
					return err
				}
			}
			continue
		}
		if line.Len()+len(rendered)+1 > maxLineLength {
			if err := flush(); err != nil {
				return err
			}
		}
		line.WriteString(rendered)
		pad := widths[i] - len(rendered)
		if pad < 1 {
			pad = 1
		}
		line.WriteString(strings.Repeat(" ", pad))
	}
	return flush()
}

// renderCell renders a present cell's value.
func renderCell(v Value) string { return renderCellFor(v, true) }

// renderCellFor renders a cell given its presence: missing cells are
// "?" (spec §4.8), present sentinel/"." or "?" values render as their
// literal text, and anything else goes through quoteValue.
func renderCellFor(v Value, present bool) string {
	if !present {
		return "?"
	}
	if v.IsEmpty() {
		return v.Text
	}
	return quoteValue(v.Text)
}
