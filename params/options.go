package params

import (
	"time"

	"github.com/goliatone/go-params/logger"
)

// Option configures a Registry at construction time.
type Option func(r *Registry)

// WithLogger replaces the default logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStrictKeys makes Load fail when a name repeats within one input.
// Without it the later line wins.
func WithStrictKeys() Option {
	return func(r *Registry) {
		r.strictKeys = true
	}
}

// WithTimeout bounds LoadProviders.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		if timeout > 0 {
			r.loadTimeout = timeout
		}
	}
}

// DeclareOption attaches metadata, constraints or a default to a slot
// while it is being declared.
type DeclareOption func(d *declaration)

type declaration struct {
	description string
	hidden      bool
	constraints []Constraint
	def         any
	hasDefault  bool
}

// Description documents the parameter in Print output and flag usage.
func Description(text string) DeclareOption {
	return func(d *declaration) {
		d.description = text
	}
}

// Hidden excludes the parameter from Print output and BindFlags.
func Hidden() DeclareOption {
	return func(d *declaration) {
		d.hidden = true
	}
}

// Constrain attaches constraints to the slot before any default is applied.
func Constrain(constraints ...Constraint) DeclareOption {
	return func(d *declaration) {
		d.constraints = append(d.constraints, constraints...)
	}
}

// Default seeds the slot with a value, given either as its Go type or as text.
func Default(value any) DeclareOption {
	return func(d *declaration) {
		d.def = value
		d.hasDefault = true
	}
}
