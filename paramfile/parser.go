package paramfile

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
)

// ErrUnrepresentable reports a value Marshal cannot write as a single line.
var ErrUnrepresentable = errors.New("paramfile: value cannot be written as a single line")

// Text implements koanf.Parser for the parameter line format.
type Text struct {
	delim string
}

// Parser returns a koanf compatible parser. Nested maps are flattened with
// "." when marshalling.
func Parser() *Text {
	return &Text{delim: "."}
}

// Unmarshal parses the line format into a flat map of raw string values.
// Later lines override earlier ones.
func (p *Text) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	err := ParseReader(bytes.NewReader(b), SetterFunc(func(name, value string) error {
		out[name] = value
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal writes one "name value" line per leaf, sorted by name.
func (p *Text) Marshal(o map[string]any) ([]byte, error) {
	flat, _ := maps.Flatten(o, nil, p.delim)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := fmt.Sprint(flat[k])
		if err := checkWritable(k, v); err != nil {
			return nil, err
		}
		buf.WriteString(k)
		buf.WriteByte(' ')
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func checkWritable(name, value string) error {
	switch {
	case name == "" || strings.ContainsAny(name, " \t\r\n"):
		return fmt.Errorf("%w: name %q", ErrUnrepresentable, name)
	case strings.HasPrefix(name, CommentPrefix):
		return fmt.Errorf("%w: name %q starts with %q", ErrUnrepresentable, name, CommentPrefix)
	case strings.TrimSpace(value) == "":
		return fmt.Errorf("%w: %q has an empty value", ErrUnrepresentable, name)
	case strings.ContainsAny(value, "\r\n"):
		return fmt.Errorf("%w: %q spans multiple lines", ErrUnrepresentable, name)
	case strings.TrimSpace(value) != value:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrUnrepresentable, name)
	}
	return nil
}
