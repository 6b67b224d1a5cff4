package env

import (
	"errors"
	"os"
	"strings"

	"github.com/tidwall/sjson"
)

// Env implements a koanf provider that turns prefixed environment variables
// into a JSON object. A mapped key "solver.tolerance" becomes a nested
// object so koanf addresses it with its default "." delimiter.
type Env struct {
	prefix  string
	mapKey  func(key string) string
	environ func() []string
}

// Provider returns an environment provider. Only variables starting with
// prefix (case-sensitive) are read. cb receives the full variable name and
// returns the output key; returning an empty string skips the variable.
// Without cb the prefix is stripped and the rest is used as is.
func Provider(prefix string, cb func(key string) string) *Env {
	return &Env{
		prefix:  prefix,
		mapKey:  cb,
		environ: os.Environ,
	}
}

// WithEnviron swaps the environment source, mainly for tests.
func (e *Env) WithEnviron(fn func() []string) *Env {
	if fn != nil {
		e.environ = fn
	}
	return e
}

// ReadBytes returns the matching variables as a JSON object.
func (e *Env) ReadBytes() ([]byte, error) {
	out := "{}"
	for _, kv := range e.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, e.prefix) {
			continue
		}

		name := strings.TrimPrefix(key, e.prefix)
		if e.mapKey != nil {
			name = e.mapKey(key)
		}
		if name == "" {
			continue
		}

		next, err := sjson.Set(out, escapePath(name), value)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return []byte(out), nil
}

// Read is not supported, use ReadBytes with a JSON parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support this method")
}

// escapePath makes sjson wildcards literal. Dots are kept as separators.
func escapePath(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch r {
		case '\\', '*', '?':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
