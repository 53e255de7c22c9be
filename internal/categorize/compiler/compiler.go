// Package compiler turns parsed config directives into a validated
// categorization config.
//
// Directives are interpreted in source order. kind selects the species
// matcher and each category declares the inclusive lower limit of a named
// size range; lower limits must strictly increase in the order they are
// declared. Every category reaches up to the next lower limit, and the last
// one is open-ended.
package compiler

import (
	"fmt"
	"math"

	"github.com/vietddude/categorizer/internal/categorize/dsl"
	"github.com/vietddude/categorizer/internal/categorize/matcher"
	"github.com/vietddude/categorizer/internal/core/domain"
)

type threshold struct {
	lower float64
	name  string
}

type builder struct {
	source    string
	kind      *matcher.Matcher
	kindLine  int
	table     []threshold
	prevLower float64
}

// CompileSource parses src and compiles the result. name identifies the
// source in errors.
func CompileSource(src, name string) (*domain.Config, error) {
	directives, err := dsl.Parse(src, name)
	if err != nil {
		return nil, err
	}
	return Compile(directives, name)
}

// Compile builds a Config from directives in the order given.
func Compile(directives []dsl.Directive, source string) (*domain.Config, error) {
	b := &builder{source: source, prevLower: math.Inf(-1)}

	for _, d := range directives {
		var err error
		switch d.Name {
		case "kind":
			err = b.addKind(d)
		case "category":
			err = b.addCategory(d)
		default:
			err = b.errorf(d, ErrUnknownDirective, "%s", d.Name)
		}
		if err != nil {
			return nil, err
		}
	}

	return b.build()
}

func (b *builder) addKind(d dsl.Directive) error {
	if b.kind != nil {
		return b.errorf(d, ErrDuplicateKind, "first declared on line %d", b.kindLine)
	}
	if len(d.Args) != 1 {
		return b.errorf(d, ErrBadArguments, "kind takes 1 argument, got %d", len(d.Args))
	}

	arg := d.Args[0]
	switch arg.Kind {
	case dsl.ArgString:
		b.kind = matcher.NewExact(arg.Text)
	case dsl.ArgPattern:
		m, err := matcher.NewPattern(arg.Text, arg.Flags)
		if err != nil {
			return b.errorf(d, ErrBadPattern, "%v", err)
		}
		b.kind = m
	default:
		return b.errorf(d, ErrBadArguments, "kind wants a string or pattern, got %s", arg.Kind)
	}
	b.kindLine = d.Pos.Line
	return nil
}

func (b *builder) addCategory(d dsl.Directive) error {
	if len(d.Args) != 2 {
		return b.errorf(d, ErrBadArguments, "category takes 2 arguments, got %d", len(d.Args))
	}
	lower, name := d.Args[0], d.Args[1]
	if lower.Kind != dsl.ArgNumber {
		return b.errorf(d, ErrBadArguments, "lower_limit must be a number, got %s", lower.Kind)
	}
	if name.Kind != dsl.ArgString {
		return b.errorf(d, ErrBadArguments, "name must be a string, got %s", name.Kind)
	}

	if !(b.prevLower < lower.Num) {
		return b.errorf(d, ErrNotAscending, "%s does not follow %s",
			domain.FormatLimit(lower.Num), domain.FormatLimit(b.prevLower))
	}
	b.prevLower = lower.Num

	b.table = append(b.table, threshold{lower: lower.Num, name: name.Text})
	return nil
}

func (b *builder) build() (*domain.Config, error) {
	if b.kind == nil {
		return nil, &ConfigError{Source: b.source, Err: ErrKindNotSpecified, Detail: "add 'kind <name>' to the config"}
	}
	if len(b.table) == 0 {
		return nil, &ConfigError{Source: b.source, Err: ErrNoCategories, Detail: "add 'category <lower_limit>, <name>' to the config"}
	}

	table := append(b.table, threshold{lower: math.Inf(1), name: domain.NotDataName})
	categories := make([]*domain.Category, 0, len(b.table))
	for i := 0; i+1 < len(table); i++ {
		categories = append(categories, domain.NewCategory(table[i].name, table[i].lower, table[i+1].lower))
	}

	return &domain.Config{
		Matcher:    b.kind,
		Categories: categories,
		Source:     b.source,
	}, nil
}

func (b *builder) errorf(d dsl.Directive, sentinel error, format string, args ...any) error {
	return &ConfigError{
		Source: b.source,
		Line:   d.Pos.Line,
		Err:    sentinel,
		Detail: fmt.Sprintf(format, args...),
	}
}
