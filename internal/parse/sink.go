package parse

import "github.com/cifkit/cifkit/internal/lex"

// Value is the parsed payload of one item. It is a thin, dependency-free
// mirror of the store's public Value type (cif.Value has the identical
// shape) so this package never has to import the root package — the
// parser is a leaf the root package depends on, not the other way round.
type Value struct {
	Text string
	Kind lex.ValueKind
}

// Sink is the capability interface the grammar parser drives (spec §4.2:
// "the parser delegates production to four abstract sinks"). Two
// implementations exist: the store's own sink (internal/../cif package)
// builds Category/Row/Datablock structures, and the dictionary loader's
// sink (dictionary package) builds scratch save-frame datablocks to mine
// dictionary definitions out of.
//
// Save-frame hooks are a necessary fifth and sixth method beyond the
// spec's four: dictionaries are wholly structured as save-frames (spec
// §4.7), so the loader's sink needs to know where one starts and ends.
// The main store's sink implements them as no-ops, matching "in the main
// parser save-frames are unused".
type Sink interface {
	BeginDatablock(name string) error
	BeginCategory(name string) error
	BeginRow() error
	Item(category, item string, value Value) error
	BeginSaveFrame(name string) error
	EndSaveFrame() error

	// Global is invoked for a top-level global_ block. No semantics are
	// attached to it (spec §9 Open Question #1); it exists purely so a
	// sink can note the event occurred.
	Global() error
}
