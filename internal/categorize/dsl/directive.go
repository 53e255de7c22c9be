// Package dsl parses the categorization config language into directives.
//
// The language is line oriented. Each directive is an identifier followed by
// comma-separated arguments, optionally wrapped in parentheses:
//
//	kind 'カツオ'
//	kind /マグロ$/
//	category 0,  'S'
//	category(50, 'M')
//
// Several directives may share a line when separated by ';'. A '#' starts a
// comment running to the end of the line. Parsing never evaluates anything;
// interpreting the directives is left to the compiler.
package dsl

import (
	_ "embed"
	"fmt"
	"strconv"
)

// DefaultName is the source name reported for the embedded default config.
const DefaultName = "<default>"

// Default is the config used when no config file is given.
//
//go:embed default.dsl
var Default string

// ArgKind tags the type of a directive argument.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgPattern
	ArgNumber
)

func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgPattern:
		return "pattern"
	case ArgNumber:
		return "number"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// Pos is a 1-based line and column in a config source.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Arg is a single directive argument.
type Arg struct {
	Kind ArgKind
	// Text holds the string value, or the pattern source.
	Text string
	// Flags holds pattern flags such as "i".
	Flags string
	Num   float64
	Pos   Pos
}

func (a Arg) String() string {
	switch a.Kind {
	case ArgPattern:
		return "/" + a.Text + "/" + a.Flags
	case ArgNumber:
		return strconv.FormatFloat(a.Num, 'f', -1, 64)
	default:
		return strconv.Quote(a.Text)
	}
}

// Directive is one parsed declaration, e.g. category(50, 'M').
type Directive struct {
	Name string
	Args []Arg
	Pos  Pos
}

// SyntaxError reports malformed config text.
type SyntaxError struct {
	Source string
	Pos    Pos
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: syntax error: %s", e.Source, e.Pos, e.Msg)
}
