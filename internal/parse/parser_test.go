package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type event struct {
	kind     string
	name     string
	category string
	item     string
	value    string
}

type recordingSink struct {
	events []event
}

func (r *recordingSink) BeginDatablock(name string) error {
	r.events = append(r.events, event{kind: "datablock", name: name})
	return nil
}
func (r *recordingSink) BeginCategory(name string) error {
	r.events = append(r.events, event{kind: "category", name: name})
	return nil
}
func (r *recordingSink) BeginRow() error {
	r.events = append(r.events, event{kind: "row"})
	return nil
}
func (r *recordingSink) Item(category, item string, value Value) error {
	r.events = append(r.events, event{kind: "item", category: category, item: item, value: value.Text})
	return nil
}
func (r *recordingSink) BeginSaveFrame(name string) error {
	r.events = append(r.events, event{kind: "save", name: name})
	return nil
}
func (r *recordingSink) EndSaveFrame() error {
	r.events = append(r.events, event{kind: "save_end"})
	return nil
}
func (r *recordingSink) Global() error {
	r.events = append(r.events, event{kind: "global"})
	return nil
}

func TestParseMinimalDatablock(t *testing.T) {
	sink := &recordingSink{}
	require.NoError(t, New([]byte("data_X\n_a.b c\n")).Parse(sink))
	require.Equal(t, []event{
		{kind: "datablock", name: "X"},
		{kind: "category", name: "a"},
		{kind: "row"},
		{kind: "item", category: "a", item: "b", value: "c"},
	}, sink.events)
}

func TestParseLoopEmitsOneRowPerTuple(t *testing.T) {
	sink := &recordingSink{}
	src := "data_X\nloop_\n_t.a\n_t.b\n1 'has space'\n2 bare\n"
	require.NoError(t, New([]byte(src)).Parse(sink))
	require.Equal(t, []event{
		{kind: "datablock", name: "X"},
		{kind: "category", name: "t"},
		{kind: "row"},
		{kind: "item", category: "t", item: "a", value: "1"},
		{kind: "item", category: "t", item: "b", value: "has space"},
		{kind: "row"},
		{kind: "item", category: "t", item: "a", value: "2"},
		{kind: "item", category: "t", item: "b", value: "bare"},
	}, sink.events)
}

func TestParseLoopColumnMismatchIsError(t *testing.T) {
	sink := &recordingSink{}
	src := "data_X\nloop_\n_t.a\n_u.b\n1 2\n"
	err := New([]byte(src)).Parse(sink)
	require.Error(t, err)
}

func TestParseLoopValueCountNotMultipleIsError(t *testing.T) {
	sink := &recordingSink{}
	src := "data_X\nloop_\n_t.a\n_t.b\n1 2 3\n"
	err := New([]byte(src)).Parse(sink)
	require.Error(t, err)
}

func TestParseSaveFrame(t *testing.T) {
	sink := &recordingSink{}
	src := "data_X\nsave_frame1\n_a.b c\nsave_\n"
	require.NoError(t, New([]byte(src)).Parse(sink))
	require.Equal(t, []event{
		{kind: "datablock", name: "X"},
		{kind: "save", name: "frame1"},
		{kind: "category", name: "a"},
		{kind: "row"},
		{kind: "item", category: "a", item: "b", value: "c"},
		{kind: "save_end"},
	}, sink.events)
}

func TestParseGlobalPassThrough(t *testing.T) {
	sink := &recordingSink{}
	src := "global_\ndata_X\n_a.b c\n"
	require.NoError(t, New([]byte(src)).Parse(sink))
	require.Equal(t, "global", sink.events[0].kind)
	require.Equal(t, "datablock", sink.events[1].kind)
}

func TestIndexDatablocksAndParseSingle(t *testing.T) {
	src := "data_A\n_a.b 1\ndata_B\n_a.b 2\n"
	p := New([]byte(src))
	idx, err := p.IndexDatablocks()
	require.NoError(t, err)
	require.Contains(t, idx, "A")
	require.Contains(t, idx, "B")

	sink := &recordingSink{}
	require.NoError(t, p.ParseSingleDatablock("B", sink))
	require.Equal(t, []event{
		{kind: "datablock", name: "B"},
		{kind: "category", name: "a"},
		{kind: "row"},
		{kind: "item", category: "a", item: "b", value: "2"},
	}, sink.events)
}
