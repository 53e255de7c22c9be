package source

import (
	"strconv"
	"strings"
)

// ParseSize reads a leading integer from s the permissive way: leading
// whitespace is skipped, a sign is optional, single underscores may separate
// digits, and parsing stops at the first other character. A field without
// leading digits yields 0.
//
// ok reports whether the whole field (ignoring surrounding whitespace) was a
// well-formed integer.
func ParseSize(s string) (size float64, ok bool) {
	t := strings.TrimLeft(s, " \t\n\v\f\r")

	i := 0
	if i < len(t) && (t[i] == '+' || t[i] == '-') {
		i++
	}

	var digits strings.Builder
	for i < len(t) {
		c := t[i]
		if c >= '0' && c <= '9' {
			digits.WriteByte(c)
			i++
			continue
		}
		if c == '_' && digits.Len() > 0 && i+1 < len(t) && t[i+1] >= '0' && t[i+1] <= '9' {
			i++
			continue
		}
		break
	}

	if digits.Len() == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	if t[0] == '-' {
		v = -v
	}

	return v, strings.TrimRight(t[i:], " \t\n\v\f\r") == ""
}
