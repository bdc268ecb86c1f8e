package cif

import "github.com/cifkit/cifkit/internal/lex"

// Value is one stored or read cell: its raw text plus the scanner's
// classification of that text. A literal empty string is a distinct,
// valid stored value (it round-trips as a quoted empty string) from the
// "." (inapplicable) and "?" (unknown) sentinels — so IsEmpty checks
// Kind, never Text, per spec §3.
type Value struct {
	Text string
	Kind lex.ValueKind
}

// IsEmpty reports whether v is one of the "." / "?" sentinels, which
// compare as empty for validation and link-matching purposes (spec §3).
func (v Value) IsEmpty() bool {
	return v.Kind == lex.KindInapplicable || v.Kind == lex.KindUnknown
}

// String returns v's stored text.
func (v Value) String() string { return v.Text }

// Str constructs a plain string-kind Value, the common case when
// building rows programmatically.
func Str(text string) Value {
	return Value{Text: text, Kind: lex.KindString}
}

// Inapplicable is the "." sentinel value.
var Inapplicable = Value{Text: ".", Kind: lex.KindInapplicable}

// Unknown is the "?" sentinel value.
var Unknown = Value{Text: "?", Kind: lex.KindUnknown}
