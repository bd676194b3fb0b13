package classifier

import (
	"fmt"
	"strings"
)

// RE2 matches \w, \d and \s against ASCII only. Vectorizers fitted on URLs
// use Unicode-aware classes, so the Perl classes are expanded to these.
const (
	wordChars  = `\p{L}\p{N}_`
	digitChars = `\p{Nd}`
	spaceChars = `\s\p{Z}\x{85}`
)

// boundaryPatterns maps common word-boundary patterns to equivalents without
// \b. A maximal run of word characters is bounded on both sides already.
var boundaryPatterns = map[string]string{
	`\b\w\w+\b`: `[` + wordChars + `]{2,}`,
	`\b\w+\b`:   `[` + wordChars + `]+`,
}

// unicodePattern rewrites a token pattern so that \w, \d and \s and their
// negations match Unicode text. A leading (?u) is dropped. Other patterns
// using \b or \B are rejected, RE2 has no Unicode word boundary.
func unicodePattern(pattern string) (string, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	if p, ok := boundaryPatterns[pattern]; ok {
		return p, nil
	}

	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			repl, err := expandEscape(pattern[i], inClass)
			if err != nil {
				return "", fmt.Errorf("token pattern %q: %w", pattern, err)
			}
			b.WriteString(repl)
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			// a ']' right after the opening bracket is literal
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				b.WriteByte(']')
				i++
			}
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func expandEscape(c byte, inClass bool) (string, error) {
	switch c {
	case 'b', 'B':
		return "", fmt.Errorf(`\%c only matches ASCII word boundaries`, c)
	case 'w':
		if inClass {
			return wordChars, nil
		}
		return `[` + wordChars + `]`, nil
	case 'd':
		return digitChars, nil
	case 's':
		if inClass {
			return spaceChars, nil
		}
		return `[` + spaceChars + `]`, nil
	case 'D':
		return `\P{Nd}`, nil
	case 'W', 'S':
		if inClass {
			return "", fmt.Errorf(`\%c inside a character class is not supported`, c)
		}
		if c == 'W' {
			return `[^` + wordChars + `]`, nil
		}
		return `[^` + spaceChars + `]`, nil
	default:
		return string([]byte{'\\', c}), nil
	}
}
