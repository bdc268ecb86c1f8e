package lex

// classFlag is a bitset of the STAR/CIF character classes a byte belongs
// to. The table is fixed at init and mirrors the IUCr STAR grammar (spec
// §4.1): every unquoted-string admissibility decision is a lookup into it,
// not an ad-hoc comparison.
type classFlag uint8

const (
	classAnyPrint classFlag = 1 << iota // 0x09, 0x20-0x7E
	classNonBlank                       // AnyPrint minus space/tab
	classOrdinary                       // NonBlank minus the reserved punctuation below
	classTextLead                       // legal first byte of an unquoted token
)

// reserved punctuation that may not appear in an OrdinaryChar: quotes,
// comment/field markers, and the characters that open/close brackets or
// item tags.
const reservedPunct = "\"'#$_;[]"

var classTable [256]classFlag

func init() {
	for b := 0; b < 256; b++ {
		var f classFlag
		switch {
		case b == '\t' || b == ' ':
			f |= classAnyPrint
		case b >= 0x20 && b <= 0x7E:
			f |= classAnyPrint | classNonBlank
		}
		classTable[b] = f
	}
	for b := 0x21; b <= 0x7E; b++ {
		if isIn(reservedPunct, byte(b)) {
			continue
		}
		classTable[b] |= classOrdinary | classTextLead
	}
}

func isIn(set string, b byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return true
		}
	}
	return false
}

func isAnyPrint(b byte) bool { return classTable[b]&classAnyPrint != 0 }
func isNonBlank(b byte) bool { return classTable[b]&classNonBlank != 0 }
func isOrdinary(b byte) bool { return classTable[b]&classOrdinary != 0 }

// isTextLead reports whether b may be the first byte of an unquoted value
// token. Quotes, '#', '$', '_', ';', '[' and ']' are excluded: the first
// four because they open a different token kind entirely, '_' because it
// opens an item tag, and ';'/brackets because they are reserved to
// structural syntax.
func isTextLead(b byte) bool { return classTable[b]&classTextLead != 0 }

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }
