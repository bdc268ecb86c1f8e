// Package lex implements the lexical scanner for the STAR/CIF text format
// (spec component C1): it turns a normalized byte buffer into a stream of
// typed tokens, classifying each value token's syntactic kind so later
// stages (the store, the dictionary validator) don't need to re-inspect
// the raw text.
package lex

// Kind identifies the syntactic category of a Token.
type Kind int

const (
	// EOF marks the end of input.
	EOF Kind = iota
	// DATA is a `data_<name>` header; Name holds <name>.
	DATA
	// LOOP is the `loop_` keyword.
	LOOP
	// GLOBAL is the `global_` keyword (pass-through, no semantics attached).
	GLOBAL
	// SAVE is a `save_<name>` save-frame opener; Name holds <name>.
	SAVE
	// SAVE_END is a bare `save_` closing a save-frame.
	SAVE_END
	// STOP is the `stop_` keyword.
	STOP
	// ITEM_NAME is a `_category.item` tag.
	ITEM_NAME
	// VALUE is a data value, quoted, unquoted, or a text field.
	VALUE
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case DATA:
		return "DATA"
	case LOOP:
		return "LOOP"
	case GLOBAL:
		return "GLOBAL"
	case SAVE:
		return "SAVE"
	case SAVE_END:
		return "SAVE_END"
	case STOP:
		return "STOP"
	case ITEM_NAME:
		return "ITEM_NAME"
	case VALUE:
		return "VALUE"
	default:
		return "UNKNOWN"
	}
}

// ValueKind classifies a VALUE token's textual shape, per spec §4.1.
type ValueKind int

const (
	// KindString is a generic string (quoted, or unquoted and non-numeric).
	KindString ValueKind = iota
	// KindInt is an unquoted, syntactically integral value.
	KindInt
	// KindFloat is an unquoted, syntactically floating-point value.
	KindFloat
	// KindNumeric is an unquoted numeric value carrying a parenthesized
	// standard-uncertainty suffix, e.g. "12.3(4)".
	KindNumeric
	// KindTextField is a semicolon-delimited multi-line text block.
	KindTextField
	// KindInapplicable is the "." sentinel.
	KindInapplicable
	// KindUnknown is the "?" sentinel.
	KindUnknown
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNumeric:
		return "numeric"
	case KindTextField:
		return "text-field"
	case KindInapplicable:
		return "inapplicable"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// IsEmpty reports whether a value kind represents one of the two "empty"
// sentinels ("." or "?"), which validation and link-matching treat specially.
func (k ValueKind) IsEmpty() bool {
	return k == KindInapplicable || k == KindUnknown
}

// Token is one lexical unit produced by the Scanner.
type Token struct {
	Kind Kind

	// Name holds the datablock/save-frame name for DATA and SAVE tokens.
	Name string

	// Category and Item hold the split halves of an ITEM_NAME tag
	// (the tag is split at the first '.').
	Category string
	Item     string

	// Text holds the literal (unescaped, unquoted) value text for VALUE
	// tokens.
	Text      string
	ValueKind ValueKind

	// Line is the 1-based source line the token started on.
	Line int
}
