package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind tags which variant a Matcher is.
type Kind int

const (
	// KindExact matches the species field by string equality.
	KindExact Kind = iota
	// KindPattern matches when a regular expression finds the species field.
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindPattern:
		return "pattern"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrUnsupportedFlag = errors.New("unsupported pattern flag")
	ErrInvalidPattern  = errors.New("invalid pattern")
)

// Matcher is either Exact(text) or Pattern(regex). It is immutable once built.
type Matcher struct {
	kind  Kind
	text  string
	flags string
	re    *regexp.Regexp
}

// NewExact creates a matcher accepting only species equal to text.
func NewExact(text string) *Matcher {
	return &Matcher{kind: KindExact, text: text}
}

// NewPattern compiles src with the given flags into a pattern matcher.
// Supported flags: i (case-insensitive) and m (dot matches newline).
func NewPattern(src, flags string) (*Matcher, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i':
			prefix.WriteString("(?i)")
		case 'm':
			prefix.WriteString("(?s)")
		default:
			return nil, fmt.Errorf("%w %q in /%s/%s", ErrUnsupportedFlag, f, src, flags)
		}
	}

	re, err := regexp.Compile(prefix.String() + src)
	if err != nil {
		return nil, fmt.Errorf("%w /%s/: %v", ErrInvalidPattern, src, err)
	}
	return &Matcher{kind: KindPattern, text: src, flags: flags, re: re}, nil
}

// Kind returns the matcher variant.
func (m *Matcher) Kind() Kind {
	return m.kind
}

// Match reports whether species is accepted.
func (m *Matcher) Match(species string) bool {
	switch m.kind {
	case KindExact:
		return m.matchExact(species)
	case KindPattern:
		return m.matchPattern(species)
	}
	return false
}

func (m *Matcher) matchExact(species string) bool {
	return species == m.text
}

// Search semantics: the pattern anchors only if it says so.
func (m *Matcher) matchPattern(species string) bool {
	return m.re.MatchString(species)
}

// String returns 'text' for exact matchers and /src/flags for patterns.
func (m *Matcher) String() string {
	if m.kind == KindPattern {
		return "/" + m.text + "/" + m.flags
	}
	return "'" + m.text + "'"
}
