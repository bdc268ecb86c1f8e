package dictionary

import "testing"

const miniDictionary = `data_test_dic

loop_
_item_type_list.code
_item_type_list.primitive_code
_item_type_list.construct
code      char  '[][_,.;:"&<>()/{}A-Za-z0-9*|+-]*'
int       numb  '[0-9]+'

save_category_entry
_category.id   entry
loop_
_category_key.name
'_entry.id'
save_

save__entry.id
_item.name            '_entry.id'
_item.category_id     entry
_item.mandatory_code  yes
_item_type.code        code
save_

save_category_entity
_category.id   entity
loop_
_category_key.name
'_entity.id'
save_

save__entity.id
_item.name            '_entity.id'
_item.category_id     entity
_item.mandatory_code  yes
_item_type.code        code
save_

save__entity.type
_item.name            '_entity.type'
_item.category_id     entity
_item.mandatory_code  no
_item_type.code        code
loop_
_item_enumeration.value
polymer
non-polymer
water
save_

loop_
_pdbx_item_linked_group_list.link_group_id
_pdbx_item_linked_group_list.child_category_id
_pdbx_item_linked_group_list.child_name
_pdbx_item_linked_group_list.parent_category_id
_pdbx_item_linked_group_list.parent_name
1 entity '_entity.id' entry '_entry.id'
`

func TestLoadBuildsTypesCategoriesAndLinks(t *testing.T) {
	d, err := Load("test_dic", []byte(miniDictionary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	codeType, ok := d.TypeByName("code")
	if !ok {
		t.Fatalf("expected a 'code' type")
	}
	if codeType.Primitive != PrimChar {
		t.Fatalf("expected code type to be char primitive")
	}

	entry, ok := d.CategoryByName("entry")
	if !ok {
		t.Fatalf("expected an 'entry' category")
	}
	if !entry.IsKey("id") {
		t.Fatalf("expected entry.id to be a key column")
	}
	idItem, ok := entry.Item("id")
	if !ok || !idItem.Mandatory {
		t.Fatalf("expected entry.id to be a mandatory item")
	}

	entity, ok := d.CategoryByName("ENTITY")
	if !ok {
		t.Fatalf("expected category lookup to be case-insensitive")
	}
	typeItem, ok := entity.Item("type")
	if !ok {
		t.Fatalf("expected entity.type item")
	}
	if !typeItem.AcceptsEnum("polymer") || typeItem.AcceptsEnum("gas") {
		t.Fatalf("unexpected enumeration membership")
	}

	links := d.LinksForParent("entry")
	if len(links) != 1 {
		t.Fatalf("expected one link with entry as parent, got %d", len(links))
	}
	if links[0].ChildCategory != "entity" || links[0].ParentKeys[0] != "id" || links[0].ChildKeys[0] != "id" {
		t.Fatalf("unexpected link shape: %+v", links[0])
	}
}

func TestLoadRejectsUnresolvedLink(t *testing.T) {
	src := `data_bad
loop_
_pdbx_item_linked_group_list.link_group_id
_pdbx_item_linked_group_list.child_name
_pdbx_item_linked_group_list.parent_name
1 '_ghost_child.id' '_ghost_parent.id'
`
	if _, err := Load("bad_dic", []byte(src)); err == nil {
		t.Fatalf("expected an error for a link to an undefined category")
	}
}
