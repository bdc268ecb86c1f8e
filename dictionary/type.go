package dictionary

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Primitive is one of the three comparison/matching disciplines a
// dictionary type can declare.
type Primitive int

const (
	// PrimChar compares bytewise.
	PrimChar Primitive = iota
	// PrimUchar compares case-folded with runs of spaces collapsed.
	PrimUchar
	// PrimNumb compares numerically, parsing both sides as floats.
	PrimNumb
)

func (p Primitive) String() string {
	switch p {
	case PrimChar:
		return "char"
	case PrimUchar:
		return "uchar"
	case PrimNumb:
		return "numb"
	default:
		return "unknown"
	}
}

// ParsePrimitive maps a dictionary primitive_code to a Primitive,
// defaulting to PrimChar for codes this loader doesn't special-case
// (e.g. "line", "text", "code", "name" are all bytewise-comparable in
// practice).
func ParsePrimitive(code string) Primitive {
	switch strings.ToLower(code) {
	case "uchar", "uline":
		return PrimUchar
	case "numb":
		return PrimNumb
	default:
		return PrimChar
	}
}

var foldCaser = cases.Fold()

// TypeValidator describes one named dictionary type: its comparison
// primitive and, optionally, a POSIX-extended regex the construct must
// satisfy.
type TypeValidator struct {
	Name      string
	Primitive Primitive
	Construct *regexp.Regexp // nil if the dictionary declared no construct
}

// Matches reports whether text satisfies this type's construct regex.
// A type with no construct matches everything.
func (t *TypeValidator) Matches(text string) bool {
	if t.Construct == nil {
		return true
	}
	return t.Construct.MatchString(text)
}

// Compare orders a and b per this type's primitive. Empty values (the
// caller is responsible for recognizing "." / "?" sentinels before
// calling Compare) sort less than any non-empty value.
func (t *TypeValidator) Compare(a, b string) int {
	switch t.Primitive {
	case PrimNumb:
		return compareNumb(a, b)
	case PrimUchar:
		return compareUchar(a, b)
	default:
		return strings.Compare(a, b)
	}
}

// Normalize returns a canonical form of s under this type's primitive:
// two values that Compare treats as equal always normalize to the same
// string. Used to key a hash index (e.g. Category.keyIndex) so index
// lookups agree with a full Compare-based scan instead of bypassing
// the type's comparison semantics.
func (t *TypeValidator) Normalize(s string) string {
	switch t.Primitive {
	case PrimNumb:
		if f, err := strconv.ParseFloat(stripSU(s), 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return s
	case PrimUchar:
		return collapseSpaces(foldCaser.String(s))
	default:
		return s
	}
}

func compareNumb(a, b string) int {
	af, aerr := strconv.ParseFloat(stripSU(a), 64)
	bf, berr := strconv.ParseFloat(stripSU(b), 64)
	switch {
	case aerr != nil && berr != nil:
		return strings.Compare(a, b)
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// stripSU removes a trailing standard-uncertainty suffix like "(3)"
// before numeric parsing, e.g. "12.3(4)" -> "12.3".
func stripSU(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

func compareUchar(a, b string) int {
	return strings.Compare(collapseSpaces(foldCaser.String(a)), collapseSpaces(foldCaser.String(b)))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// compileConstruct turns a dictionary construct string into a POSIX
// extended regex, expanding the \n and \t escapes and removing
// backslash-newline line continuations that DDL construct definitions
// commonly carry.
func compileConstruct(raw string) (*regexp.Regexp, error) {
	raw = strings.ReplaceAll(raw, "\\\n", "")
	raw = strings.ReplaceAll(raw, "\\n", "\n")
	raw = strings.ReplaceAll(raw, "\\t", "\t")
	if raw == "" {
		return nil, nil
	}
	anchored := "^(" + raw + ")$"
	return regexp.CompilePOSIX(anchored)
}
