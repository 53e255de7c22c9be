package dsl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse splits src into directives in source order. name identifies the
// source in error messages.
func Parse(src, name string) ([]Directive, error) {
	var directives []Directive

	for i, line := range strings.Split(src, "\n") {
		p := &lineParser{src: name, line: strings.TrimSuffix(line, "\r"), lineNo: i + 1}
		ds, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		directives = append(directives, ds...)
	}

	return directives, nil
}

type lineParser struct {
	src    string
	line   string
	lineNo int
	off    int
}

func (p *lineParser) parseLine() ([]Directive, error) {
	var out []Directive
	for {
		p.skipSpace()
		if p.atEnd() {
			return out, nil
		}
		if p.peek() == ';' {
			p.off++
			continue
		}

		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		out = append(out, d)

		p.skipSpace()
		if p.atEnd() {
			return out, nil
		}
		if p.peek() != ';' {
			return nil, p.errorf("unexpected %q after directive %s", p.peek(), d.Name)
		}
	}
}

func (p *lineParser) parseDirective() (Directive, error) {
	d := Directive{Pos: p.pos()}

	start := p.off
	for !p.atEnd() && isIdentByte(p.peek(), p.off == start) {
		p.off++
	}
	if p.off == start {
		return d, p.errorf("expected directive name, found %q", p.peek())
	}
	d.Name = p.line[start:p.off]

	p.skipSpace()
	paren := false
	if !p.atEnd() && p.peek() == '(' {
		paren = true
		p.off++
		p.skipSpace()
	}

	for {
		if p.atEnd() || p.peek() == ';' || (paren && p.peek() == ')') {
			break
		}
		if len(d.Args) > 0 {
			if p.peek() != ',' {
				return d, p.errorf("expected ',' between arguments, found %q", p.peek())
			}
			p.off++
			p.skipSpace()
		}

		arg, err := p.parseArg()
		if err != nil {
			return d, err
		}
		d.Args = append(d.Args, arg)
		p.skipSpace()
	}

	if paren {
		if p.atEnd() || p.peek() != ')' {
			return d, p.errorf("missing ')' in %s", d.Name)
		}
		p.off++
	}

	return d, nil
}

func (p *lineParser) parseArg() (Arg, error) {
	if p.atEnd() {
		return Arg{}, p.errorf("missing argument")
	}

	switch c := p.peek(); {
	case c == '\'' || c == '"':
		return p.parseString(c)
	case c == '/':
		return p.parsePattern()
	case c == '+' || c == '-' || c == '.' || isDigit(c):
		return p.parseNumber()
	default:
		return Arg{}, p.errorf("unexpected %q", c)
	}
}

// Single-quoted strings only unescape \\ and \'. Double-quoted strings also
// understand \n, \t and \"; other escapes are kept verbatim.
func (p *lineParser) parseString(quote byte) (Arg, error) {
	arg := Arg{Kind: ArgString, Pos: p.pos()}
	p.off++

	var b strings.Builder
	for {
		if p.atEnd() {
			arg.Text = b.String()
			return arg, p.errorAt(arg.Pos, "unterminated string")
		}
		c := p.peek()
		p.off++
		if c == quote {
			break
		}
		if c != '\\' || p.atEnd() {
			b.WriteByte(c)
			continue
		}

		next := p.peek()
		switch {
		case next == quote || next == '\\':
			b.WriteByte(next)
			p.off++
		case quote == '"' && next == 'n':
			b.WriteByte('\n')
			p.off++
		case quote == '"' && next == 't':
			b.WriteByte('\t')
			p.off++
		default:
			b.WriteByte(c)
		}
	}

	arg.Text = b.String()
	return arg, nil
}

func (p *lineParser) parsePattern() (Arg, error) {
	arg := Arg{Kind: ArgPattern, Pos: p.pos()}
	p.off++

	var b strings.Builder
	for {
		if p.atEnd() {
			return arg, p.errorAt(arg.Pos, "unterminated pattern")
		}
		c := p.peek()
		p.off++
		if c == '/' {
			break
		}
		if c == '\\' && !p.atEnd() && p.peek() == '/' {
			b.WriteByte('/')
			p.off++
			continue
		}
		b.WriteByte(c)
	}
	arg.Text = b.String()

	start := p.off
	for !p.atEnd() && p.peek() >= 'a' && p.peek() <= 'z' {
		p.off++
	}
	arg.Flags = p.line[start:p.off]

	return arg, nil
}

// Numbers are decimal with an optional sign and fraction; a single '_' may
// separate digits.
func (p *lineParser) parseNumber() (Arg, error) {
	arg := Arg{Kind: ArgNumber, Pos: p.pos()}

	start := p.off
	if c := p.peek(); c == '+' || c == '-' {
		p.off++
	}
	intDigits := p.scanDigits()
	fracDigits := 0
	if !p.atEnd() && p.peek() == '.' {
		p.off++
		fracDigits = p.scanDigits()
		if fracDigits == 0 {
			return arg, p.errorAt(arg.Pos, "malformed number %q", p.line[start:p.off])
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return arg, p.errorAt(arg.Pos, "malformed number %q", p.line[start:p.off])
	}
	if !p.atEnd() && (isIdentByte(p.peek(), false) || p.peek() == '.') {
		return arg, p.errorAt(arg.Pos, "malformed number %q", p.line[start:p.off+1])
	}

	lit := strings.ReplaceAll(p.line[start:p.off], "_", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return arg, p.errorAt(arg.Pos, "malformed number %q", p.line[start:p.off])
	}
	arg.Num = v
	return arg, nil
}

// scanDigits consumes digits with single underscores between them and
// returns how many digits it read.
func (p *lineParser) scanDigits() int {
	n := 0
	for !p.atEnd() {
		c := p.peek()
		if isDigit(c) {
			n++
			p.off++
			continue
		}
		if c == '_' && n > 0 && p.off+1 < len(p.line) && isDigit(p.line[p.off+1]) {
			p.off++
			continue
		}
		break
	}
	return n
}

func (p *lineParser) skipSpace() {
	for !p.atEnd() {
		switch p.peek() {
		case ' ', '\t':
			p.off++
		case '#':
			p.off = len(p.line)
		default:
			return
		}
	}
}

func (p *lineParser) atEnd() bool {
	return p.off >= len(p.line)
}

func (p *lineParser) peek() byte {
	return p.line[p.off]
}

func (p *lineParser) pos() Pos {
	return Pos{Line: p.lineNo, Col: utf8.RuneCountInString(p.line[:p.off]) + 1}
}

func (p *lineParser) errorf(format string, args ...any) error {
	return p.errorAt(p.pos(), format, args...)
}

func (p *lineParser) errorAt(pos Pos, format string, args ...any) error {
	return &SyntaxError{Source: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case isDigit(c):
		return !first
	}
	return false
}
