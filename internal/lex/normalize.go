package lex

// Normalize rewrites CR and CRLF line endings to LF, in a single pass, so
// the Scanner never has to special-case '\r'. The scanner's line counter is
// always computed against this normalized form.
func Normalize(src []byte) []byte {
	hasCR := false
	for _, b := range src {
		if b == '\r' {
			hasCR = true
			break
		}
	}
	if !hasCR {
		return src
	}

	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, src[i])
	}
	return out
}
