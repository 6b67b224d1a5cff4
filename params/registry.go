package params

import (
	"bytes"
	goerrors "errors"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-params/logger"
	"github.com/goliatone/go-params/paramfile"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/copystructure"
)

var DefaultLoadTimeout = 30 * time.Second

type slot struct {
	name        string
	kind        Kind
	value       any
	set         bool
	raw         string
	description string
	hidden      bool
	rules       rules
}

// convert turns a caller supplied value into the slot's stored type.
func (s *slot) convert(v any) (any, error) {
	out, err := convertValue(s.kind, v)
	if err == nil {
		return out, nil
	}
	if raw, ok := v.(string); ok {
		return nil, &CoercionError{
			Name: s.name,
			Raw:  strings.TrimSpace(raw),
			Kind: s.kind,
			Err:  err,
		}
	}
	return nil, kindMismatchError(s.name, s.kind, v)
}

func (s *slot) store(v any, raw string) {
	s.value = v
	s.raw = raw
	s.set = true
}

// Registry maps declared parameter names to typed slots. All methods are
// safe for concurrent use; a Load applies its lines one at a time and is
// not atomic with respect to other writers.
type Registry struct {
	mu          sync.RWMutex
	slots       map[string]*slot
	order       []string
	logger      logger.Logger
	strictKeys  bool
	loadTimeout time.Duration
}

func New(opts ...Option) *Registry {
	r := &Registry{
		slots:       map[string]*slot{},
		logger:      logger.NewDefaultLogger("params"),
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Declare creates an empty slot of the given kind. Declaring a name twice
// fails with ErrDuplicateParameter and leaves the existing slot untouched.
func (r *Registry) Declare(name string, kind Kind, opts ...DeclareOption) error {
	if !validName(name) {
		return invalidNameError(name)
	}
	if err := kind.Valid(); err != nil {
		return err
	}

	d := &declaration{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.slots[name]; ok {
		return duplicateParameterError(name, existing.kind)
	}

	s := &slot{
		name:        name,
		kind:        kind,
		description: d.description,
		hidden:      d.hidden,
	}

	for _, c := range d.constraints {
		next, err := s.rules.with(name, kind, c)
		if err != nil {
			return err
		}
		s.rules = next
	}

	if d.hasDefault {
		v, err := s.convert(d.def)
		if err != nil {
			return err
		}
		if err := s.rules.check(name, kind, v); err != nil {
			return err
		}
		s.store(v, Format(kind, v))
	}

	r.slots[name] = s
	r.order = append(r.order, name)
	r.logger.Debug("declared %s as %s", name, kind)
	return nil
}

// Set coerces raw text into the slot's kind and stores it, replacing any
// previous value. On failure the previous value is kept.
func (r *Registry) Set(name, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[name]
	if !ok {
		return unknownParameterError(name)
	}

	text := strings.TrimSpace(raw)
	v, err := Coerce(s.kind, text)
	if err != nil {
		return &CoercionError{
			Name: name,
			Raw:  text,
			Kind: s.kind,
			Err:  err,
		}
	}
	if err := s.rules.check(name, s.kind, v); err != nil {
		return err
	}

	s.store(v, text)
	r.logger.Debug("set %s = %s", name, text)
	return nil
}

// Assign stores an already typed value. The value must be of the slot's
// Go type, text accepted by Set, or a number that converts without loss.
// A float64 assigned to a float32 slot is rounded to the nearest float32.
func (r *Registry) Assign(name string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[name]
	if !ok {
		return unknownParameterError(name)
	}

	v, err := s.convert(value)
	if err != nil {
		return err
	}
	if err := s.rules.check(name, s.kind, v); err != nil {
		return err
	}

	s.store(v, Format(s.kind, v))
	r.logger.Debug("assign %s = %v", name, v)
	return nil
}

// Get returns a copy of the stored value.
func (r *Registry) Get(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[name]
	if !ok {
		return nil, unknownParameterError(name)
	}
	if !s.set {
		return nil, valueNotSetError(name)
	}
	return s.value, nil
}

// Has reports whether name is declared and currently holds a value.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[name]
	return ok && s.set
}

// Declared reports whether name has been declared.
func (r *Registry) Declared(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.slots[name]
	return ok
}

func (r *Registry) Kind(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[name]
	if !ok {
		return "", unknownParameterError(name)
	}
	return s.kind, nil
}

// Raw returns the text the current value was parsed from, or its formatted
// form when it was assigned directly.
func (r *Registry) Raw(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[name]
	if !ok {
		return "", unknownParameterError(name)
	}
	if !s.set {
		return "", valueNotSetError(name)
	}
	return s.raw, nil
}

// Names lists declared names in declaration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Missing lists declared names without a value, in declaration order.
func (r *Registry) Missing() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range r.order {
		if !r.slots[name].set {
			out = append(out, name)
		}
	}
	return out
}

// Require checks that the given names, or every declared name when none
// are given, hold a value. Loading never performs this check on its own.
func (r *Registry) Require(names ...string) error {
	if len(names) == 0 {
		names = r.Names()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, name := range names {
		s, ok := r.slots[name]
		if !ok {
			return unknownParameterError(name)
		}
		if !s.set {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return valueNotSetError(missing...)
	}
	return nil
}

func (r *Registry) Describe(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[name]
	if !ok {
		return "", unknownParameterError(name)
	}
	return s.description, nil
}

func (r *Registry) SetDescription(name, text string) error {
	return r.update(name, func(s *slot) error {
		s.description = text
		return nil
	})
}

func (r *Registry) SetHidden(name string, hidden bool) error {
	return r.update(name, func(s *slot) error {
		s.hidden = hidden
		return nil
	})
}

// Constrain adds constraints to a declared slot. When the slot already
// holds a value that violates them the constraints are not applied and the
// violation is returned.
func (r *Registry) Constrain(name string, constraints ...Constraint) error {
	return r.update(name, func(s *slot) error {
		next := s.rules
		for _, c := range constraints {
			var err error
			if next, err = next.with(name, s.kind, c); err != nil {
				return err
			}
		}
		if s.set {
			if err := next.check(name, s.kind, s.value); err != nil {
				return err
			}
		}
		s.rules = next
		return nil
	})
}

// Unset clears a slot's value, keeping its declaration.
func (r *Registry) Unset(name string) error {
	return r.update(name, func(s *slot) error {
		s.value, s.raw, s.set = nil, "", false
		return nil
	})
}

// Reset clears every value, keeping all declarations.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		s.value, s.raw, s.set = nil, "", false
	}
}

// Snapshot returns a deep copy of all set values keyed by name.
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	out := make(map[string]any, len(r.slots))
	for name, s := range r.slots {
		if s.set {
			out[name] = s.value
		}
	}
	r.mu.RUnlock()

	cloned, err := copystructure.Copy(out)
	if err != nil {
		return out
	}
	if m, ok := cloned.(map[string]any); ok {
		return m
	}
	return out
}

// Load parses lines of "name value" pairs and stores each value in turn.
// It stops at the first failing line and returns a *LoadError; values from
// earlier lines stay applied.
func (r *Registry) Load(lines []string) error {
	return r.loaded("", paramfile.Parse(lines, r, r.parseOptions("")...))
}

// LoadReader is Load over an io.Reader. Read errors are returned as is.
func (r *Registry) LoadReader(rd io.Reader) error {
	return r.loadReader("", rd)
}

// LoadFile reads a parameter file from disk and loads it.
func (r *Registry) LoadFile(path string) error {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read parameter file").
			WithTextCode("FILE_READ_FAILED").
			WithMetadata(map[string]any{
				"filepath": path,
			})
	}
	return r.loadReader(path, bytes.NewReader(data))
}

func (r *Registry) loadReader(source string, rd io.Reader) error {
	return r.loaded(source, paramfile.ParseReader(rd, r, r.parseOptions(source)...))
}

func (r *Registry) loaded(source string, err error) error {
	if source == "" {
		source = "lines"
	}
	if err != nil {
		var lineErr *LoadError
		if goerrors.As(err, &lineErr) {
			r.logger.Debug("load %s stopped at line %d: %v", source, lineErr.Line, lineErr.Err)
		}
		return err
	}
	r.logger.Debug("loaded %s", source)
	return nil
}

func (r *Registry) parseOptions(source string) []paramfile.Option {
	opts := []paramfile.Option{paramfile.WithSource(source)}
	if r.strictKeys {
		opts = append(opts, paramfile.WithStrictKeys())
	}
	return opts
}

func (r *Registry) update(name string, fn func(s *slot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[name]
	if !ok {
		return unknownParameterError(name)
	}
	return fn(s)
}

// visible returns copies of the non hidden slots in declaration order.
func (r *Registry) visible() []slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slot, 0, len(r.order))
	for _, name := range r.order {
		if s := r.slots[name]; !s.hidden {
			out = append(out, *s)
		}
	}
	return out
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, paramfile.CommentPrefix) {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}
