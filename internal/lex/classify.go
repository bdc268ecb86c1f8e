package lex

import "regexp"

// Numeric-shape patterns for unquoted VALUE tokens, checked in order from
// most to least specific. A plain integer is also a valid float and a
// plain float is also "numeric" in the loose sense, so order matters.
var (
	reInt     = regexp.MustCompile(`^[+-]?[0-9]+$`)
	reNumeric = regexp.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)(?:[eEdD][+-]?[0-9]+)?\([0-9]+\)$`)
	reFloat   = regexp.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+)(?:[eEdD][+-]?[0-9]+)?$|^[+-]?[0-9]+[eEdD][+-]?[0-9]+$`)
)

// classifyUnquoted assigns a ValueKind to the literal text of an unquoted
// token. Quoted strings and text fields are classified by their own
// productions and never passed here.
func classifyUnquoted(text string) ValueKind {
	switch text {
	case ".":
		return KindInapplicable
	case "?":
		return KindUnknown
	}
	switch {
	case reInt.MatchString(text):
		return KindInt
	case reNumeric.MatchString(text):
		return KindNumeric
	case reFloat.MatchString(text):
		return KindFloat
	default:
		return KindString
	}
}
