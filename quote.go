package cif

import "strings"

// reservedPrefixes are the case-insensitive STAR/CIF keywords that may
// never be emitted as a bare unquoted value (spec §6).
var reservedPrefixes = []string{"data_", "save_", "loop_", "stop_", "global_"}

// quoteValue renders text for output: unquoted when admissible, else
// single-quoted, double-quoted, or a semicolon-block text field, per
// spec §4.8's quoting rules. text is assumed already non-sentinel
// (callers handle "." and "?" themselves).
func quoteValue(text string) string {
	if strings.ContainsRune(text, '\n') {
		return textFieldBlock(text)
	}
	if text == "" {
		return "''"
	}
	if canUnquote(text) {
		return text
	}
	if !containsQuoteFollowedBySpace(text, '\'') {
		return "'" + text + "'"
	}
	if !containsQuoteFollowedBySpace(text, '"') {
		return "\"" + text + "\""
	}
	return textFieldBlock(text)
}

func textFieldBlock(text string) string {
	var b strings.Builder
	b.WriteString(";")
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(";")
	return b.String()
}

// canUnquote reports whether text is an admissible bare unquoted string:
// every byte is an "ordinary" STAR character (printable, non-blank, not
// one of the reserved punctuation marks), and it doesn't begin with one
// of the reserved structural keywords.
func canUnquote(text string) bool {
	for i := 0; i < len(text); i++ {
		if !isOrdinaryByte(text[i]) {
			return false
		}
	}
	lower := strings.ToLower(text)
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return true
}

const reservedPunct = "\"'#$_;[]"

func isOrdinaryByte(b byte) bool {
	if b < 0x20 || b > 0x7e {
		return false
	}
	if b == ' ' {
		return false
	}
	return !strings.ContainsRune(reservedPunct, rune(b))
}

func containsQuoteFollowedBySpace(text string, quote byte) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != quote {
			continue
		}
		if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
			return true
		}
	}
	return false
}
