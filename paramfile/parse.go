// Package paramfile reads the line oriented parameter format:
//
//	# comment
//	name value
//
// Each non blank, non comment line holds a name, a run of whitespace and a
// value. The value is everything after the first whitespace run, trimmed, so
// it may contain spaces of its own. There is no quoting, escaping, inline
// comments or multi line values.
//
// The parser does not own any storage. It hands every name/value pair to a
// Setter and stops at the first error, so pairs from earlier lines remain
// applied.
package paramfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"unicode"
)

// CommentPrefix marks a whole line comment.
const CommentPrefix = "#"

// byteOrderMark is dropped from the start of input read through ParseReader.
const byteOrderMark = "\ufeff"

// MaxLineSize bounds a single line read through ParseReader.
var MaxLineSize = 1024 * 1024

var (
	// ErrMalformedLine reports a line that has a name but no value.
	ErrMalformedLine = errors.New("paramfile: line must be '<name> <value>'")
	// ErrDuplicateKey reports a name repeated within one parse when strict keys are on.
	ErrDuplicateKey = errors.New("paramfile: duplicate key")
)

// Setter receives every parsed name/value pair.
type Setter interface {
	Set(name, value string) error
}

// SetterFunc adapts a function into a Setter.
type SetterFunc func(name, value string) error

func (f SetterFunc) Set(name, value string) error {
	return f(name, value)
}

// LineError carries the 1-based line number at which parsing stopped.
type LineError struct {
	Source string
	Line   int
	Name   string
	Err    error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e == nil {
		return ""
	}
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap exposes the underlying error to errors.Is/As.
func (e *LineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Option tweaks a single parse call.
type Option func(*parser)

// WithSource names the input in LineError values, usually the file path.
func WithSource(name string) Option {
	return func(p *parser) {
		p.source = name
	}
}

// WithStrictKeys rejects a name that appears twice in the same input.
// By default the later line wins.
func WithStrictKeys() Option {
	return func(p *parser) {
		p.seen = map[string]int{}
	}
}

type parser struct {
	source string
	seen   map[string]int
}

func newParser(opts []Option) *parser {
	p := &parser{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse feeds an already materialized list of lines to set.
func Parse(lines []string, set Setter, opts ...Option) error {
	return ParseSeq(slices.Values(lines), set, opts...)
}

// ParseSeq feeds a lazy sequence of lines to set, one line at a time.
func ParseSeq(lines iter.Seq[string], set Setter, opts ...Option) error {
	p := newParser(opts)
	n := 0
	for line := range lines {
		n++
		if err := p.apply(n, line, set); err != nil {
			return err
		}
	}
	return nil
}

// ParseReader reads lines from r and feeds them to set. A leading UTF-8
// byte order mark is skipped. Read errors are returned untouched.
func ParseReader(r io.Reader, set Setter, opts ...Option) error {
	p := newParser(opts)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)

	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if n == 1 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if err := p.apply(n, line, set); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (p *parser) apply(n int, line string, set Setter) error {
	name, value, skip, err := SplitLine(line)
	if skip {
		return nil
	}
	if err != nil {
		return p.lineError(n, name, err)
	}

	if p.seen != nil {
		if first, ok := p.seen[name]; ok {
			return p.lineError(n, name, fmt.Errorf("%w: %q already set on line %d", ErrDuplicateKey, name, first))
		}
		p.seen[name] = n
	}

	if err := set.Set(name, value); err != nil {
		return p.lineError(n, name, err)
	}
	return nil
}

func (p *parser) lineError(n int, name string, err error) error {
	return &LineError{
		Source: p.source,
		Line:   n,
		Name:   name,
		Err:    err,
	}
}

// SplitLine breaks a raw line into name and value. Blank and comment lines
// report skip. A line without a value returns ErrMalformedLine along with
// the name it did find.
func SplitLine(line string) (name, value string, skip bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return "", "", true, nil
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return trimmed, "", false, ErrMalformedLine
	}

	return trimmed[:idx], strings.TrimSpace(trimmed[idx:]), false, nil
}
