package dictionary

import (
	"strconv"
	"strings"

	"github.com/cifkit/cifkit/internal/parse"
)

// Load runs the grammar parser against a dictionary's CIF source and
// returns the populated Dictionary. This is a second Sink
// implementation alongside the store's (internal/parse.Sink), built
// from scratch per-save-frame maps instead of cif.Category/Row so
// that this package never depends on the root store.
func Load(name string, src []byte) (*Dictionary, error) {
	d := New(name)
	sink := &loaderSink{dict: d, top: newFrameCollector()}
	if err := parse.New(src).Parse(sink); err != nil {
		return nil, loadf("dictionary %q: %v", name, err)
	}
	if err := sink.finishTopLevel(); err != nil {
		return nil, err
	}
	if err := sink.resolveLinks(); err != nil {
		return nil, err
	}
	return d, nil
}

// frameCollector accumulates rows (item -> text, grouped by category,
// preserving loop order) for either the top level of a datablock or a
// single save-frame.
type frameCollector struct {
	rows        map[string][]map[string]string
	curCategory string
}

func newFrameCollector() *frameCollector {
	return &frameCollector{rows: make(map[string][]map[string]string)}
}

func (f *frameCollector) beginCategory(name string) { f.curCategory = strings.ToLower(name) }

func (f *frameCollector) beginRow() {
	f.rows[f.curCategory] = append(f.rows[f.curCategory], map[string]string{})
}

func (f *frameCollector) item(category, item, text string) {
	cat := strings.ToLower(category)
	rows := f.rows[cat]
	if len(rows) == 0 {
		rows = append(rows, map[string]string{})
		f.rows[cat] = rows
	}
	rows[len(rows)-1][strings.ToLower(item)] = text
}

func (f *frameCollector) firstRow(category string) map[string]string {
	rows := f.rows[strings.ToLower(category)]
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (f *frameCollector) allRows(category string) []map[string]string {
	return f.rows[strings.ToLower(category)]
}

// loaderSink is the parse.Sink that feeds a frameCollector for the
// current save-frame (or the top level, between frames) and, on each
// EndSaveFrame, folds the collected rows into the Dictionary being
// built.
type loaderSink struct {
	dict      *Dictionary
	top       *frameCollector
	frame     *frameCollector
	frameName string
	inFrame   bool

	pendingItemLinks []itemLinkRow // from legacy _item_linked frames
}

type itemLinkRow struct {
	parentName string
	childName  string
}

func (s *loaderSink) target() *frameCollector {
	if s.inFrame {
		return s.frame
	}
	return s.top
}

func (s *loaderSink) BeginDatablock(name string) error { return nil }

func (s *loaderSink) BeginCategory(name string) error {
	s.target().beginCategory(name)
	return nil
}

func (s *loaderSink) BeginRow() error {
	s.target().beginRow()
	return nil
}

func (s *loaderSink) Item(category, item string, value parse.Value) error {
	s.target().item(category, item, value.Text)
	return nil
}

func (s *loaderSink) BeginSaveFrame(name string) error {
	s.frameName = name
	s.frame = newFrameCollector()
	s.inFrame = true
	return nil
}

func (s *loaderSink) EndSaveFrame() error {
	err := s.finishFrame()
	s.inFrame = false
	s.frame = nil
	s.frameName = ""
	return err
}

func (s *loaderSink) Global() error { return nil }

// finishFrame dispatches a just-closed save-frame: one without a
// leading underscore declares a category, one with declares an item
// (or, in legacy dictionaries, an _item_linked relation).
func (s *loaderSink) finishFrame() error {
	name := s.frameName
	if !strings.HasPrefix(name, "_") {
		return s.finishCategoryFrame(name)
	}
	if rows := s.frame.allRows("item_linked"); len(rows) > 0 {
		for _, row := range rows {
			s.pendingItemLinks = append(s.pendingItemLinks, itemLinkRow{
				parentName: row["parent_name"],
				childName:  row["child_name"],
			})
		}
	}
	return s.finishItemFrame()
}

func (s *loaderSink) finishCategoryFrame(frameName string) error {
	f := s.frame
	row := f.firstRow("category")
	categoryName := frameName
	if row != nil && row["id"] != "" {
		categoryName = row["id"]
	}
	cv := s.dict.categoryOrCreate(categoryName)
	for _, kr := range f.allRows("category_key") {
		if k := kr["name"]; k != "" {
			_, keyItem := splitTag(k)
			cv.Keys = append(cv.Keys, keyItem)
		}
	}
	return nil
}

func (s *loaderSink) finishItemFrame() error {
	f := s.frame
	row := f.firstRow("item")
	if row == nil {
		// A frame with no _item.* block (e.g. pure _item_linked) carries
		// no item definition of its own.
		return nil
	}
	fullName := row["name"]
	if fullName == "" {
		fullName = s.frameName
	}
	categoryName, itemName := splitTag(fullName)
	if id := row["category_id"]; id != "" {
		categoryName = id
	}

	iv := &ItemValidator{
		Name:     itemName,
		Category: categoryName,
		Mandatory: strings.EqualFold(row["mandatory_code"], "yes") ||
			strings.EqualFold(row["mandatory_code"], "y"),
	}

	if typeRow := f.firstRow("item_type"); typeRow != nil {
		iv.TypeName = typeRow["code"]
	}
	if enumRows := f.allRows("item_enumeration"); len(enumRows) > 0 {
		iv.Enumeration = make(map[string]bool, len(enumRows))
		for _, er := range enumRows {
			if v, ok := er["value"]; ok {
				iv.Enumeration[v] = true
			}
		}
	}
	if defRow := f.firstRow("item_default"); defRow != nil {
		if v, ok := defRow["value"]; ok {
			iv.Default = v
			iv.HasDefault = true
		}
	}
	for _, ar := range f.allRows("item_aliases") {
		if alias, ok := ar["alias_name"]; ok {
			iv.Aliases = append(iv.Aliases, trimItemName(alias))
		}
	}

	cv := s.dict.categoryOrCreate(categoryName)
	cv.AddItem(iv)
	return nil
}

// finishTopLevel processes the categories a dictionary declares
// outside of any save-frame: the shared type list and, when present,
// the preferred pdbx link-group tables.
func (s *loaderSink) finishTopLevel() error {
	if row := s.top.firstRow("dictionary"); row != nil {
		if v := row["version"]; v != "" {
			s.dict.Version = v
		}
	}

	for _, row := range s.top.allRows("item_type_list") {
		code := row["code"]
		if code == "" {
			continue
		}
		construct, err := compileConstruct(row["construct"])
		if err != nil {
			return loadf("item_type_list %q: bad construct regex: %v", code, err)
		}
		s.dict.AddType(&TypeValidator{
			Name:      code,
			Primitive: ParsePrimitive(row["primitive_code"]),
			Construct: construct,
		})
	}

	labels := make(map[string]string) // group_id -> label
	for _, row := range s.top.allRows("pdbx_item_linked_group") {
		if gid := row["id"]; gid != "" {
			labels[gid] = row["label"]
		}
	}

	type groupKey struct{ parent, child, group string }
	groups := make(map[groupKey]*LinkValidator)
	var order []groupKey
	for _, row := range s.top.allRows("pdbx_item_linked_group_list") {
		parentName := row["parent_name"]
		childName := row["child_name"]
		if parentName == "" || childName == "" {
			continue
		}
		parentCat, parentItem := splitTag(parentName)
		childCat, childItem := splitTag(childName)
		gid := row["link_group_id"]
		key := groupKey{parentCat, childCat, gid}
		lv, ok := groups[key]
		if !ok {
			lv = &LinkValidator{
				ParentCategory: parentCat,
				ChildCategory:  childCat,
				GroupID:        gid,
				GroupLabel:     labels[gid],
			}
			groups[key] = lv
			order = append(order, key)
		}
		lv.ParentKeys = append(lv.ParentKeys, parentItem)
		lv.ChildKeys = append(lv.ChildKeys, childItem)
	}
	for _, key := range order {
		s.dict.AddLink(groups[key])
	}
	return nil
}

// resolveLinks assembles links from legacy _item_linked frames when
// the preferred _pdbx_item_linked_group_list table was absent, and
// raises for any reference to an item this dictionary never defined.
func (s *loaderSink) resolveLinks() error {
	if len(s.dict.links) == 0 && len(s.pendingItemLinks) > 0 {
		groups := make(map[[2]string]*LinkValidator)
		var order [][2]string
		for i, row := range s.pendingItemLinks {
			parentCat, parentItem := splitTag(row.parentName)
			childCat, childItem := splitTag(row.childName)
			key := [2]string{parentCat, childCat}
			lv, ok := groups[key]
			if !ok {
				lv = &LinkValidator{
					ParentCategory: parentCat,
					ChildCategory:  childCat,
					GroupID:        strconv.Itoa(i),
				}
				groups[key] = lv
				order = append(order, key)
			}
			lv.ParentKeys = append(lv.ParentKeys, parentItem)
			lv.ChildKeys = append(lv.ChildKeys, childItem)
		}
		for _, key := range order {
			s.dict.AddLink(groups[key])
		}
	}

	for _, lv := range s.dict.links {
		parent, ok := s.dict.CategoryByName(lv.ParentCategory)
		if !ok {
			return unresolvedf("link references undefined parent category %q", lv.ParentCategory)
		}
		child, ok := s.dict.CategoryByName(lv.ChildCategory)
		if !ok {
			return unresolvedf("link references undefined child category %q", lv.ChildCategory)
		}
		for i := range lv.ParentKeys {
			if _, ok := parent.Item(lv.ParentKeys[i]); !ok {
				return unresolvedf("link references undefined parent item %s.%s", lv.ParentCategory, lv.ParentKeys[i])
			}
			if _, ok := child.Item(lv.ChildKeys[i]); !ok {
				return unresolvedf("link references undefined child item %s.%s", lv.ChildCategory, lv.ChildKeys[i])
			}
		}
	}
	return nil
}

// splitTag splits a fully-qualified "_category.item" (or bare
// "category.item") tag into its two parts.
func splitTag(tag string) (category, item string) {
	tag = trimItemName(tag)
	category, item, _ = strings.Cut(tag, ".")
	return category, item
}

func trimItemName(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "_")
}
