package cif

import "fmt"

// Kind classifies cif errors so callers can branch on intent rather than
// matching error text (spec §6 error table).
type Kind int

const (
	KindParse         Kind = iota // scanner/grammar violation; line number included
	KindInvalidName               // a tag doesn't match the item-name grammar
	KindValidation                // value fails regex/enumeration, or a mandatory field is missing
	KindLinkViolation             // a cascade could not preserve referential integrity
	KindNotFound                  // find1 / lookup found nothing
	KindAmbiguous                 // find1 found more than one match
	KindEmptyFile                 // a file contains no datablocks
	KindNotValidPdbx              // top-level validation failed against the attached dictionary
	KindIO                        // reading, writing, or decompressing a file failed
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindInvalidName:
		return "invalid_name"
	case KindValidation:
		return "validation"
	case KindLinkViolation:
		return "link_violation"
	case KindNotFound:
		return "not_found"
	case KindAmbiguous:
		return "ambiguous"
	case KindEmptyFile:
		return "empty_file"
	case KindNotValidPdbx:
		return "not_valid_pdbx"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional line number and underlying
// cause, in the shape spec §6 prescribes for every failure category.
type Error struct {
	Kind Kind
	Msg  string
	Line int // 0 when not applicable
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels for errors.Is comparisons against a fixed category,
// independent of message text.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrAmbiguous    = &Error{Kind: KindAmbiguous, Msg: "ambiguous match"}
	ErrEmptyFile    = &Error{Kind: KindEmptyFile, Msg: "file contains no datablocks"}
	ErrNotValidPdbx = &Error{Kind: KindNotValidPdbx, Msg: "file does not validate against its dictionary"}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
