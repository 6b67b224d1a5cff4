package params

import (
	goerrors "errors"
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-params/paramfile"
)

var (
	// ErrDuplicateParameter is returned when a name is declared twice.
	ErrDuplicateParameter = goerrors.New("params: parameter already declared")
	// ErrUnknownParameter is returned when a name was never declared.
	ErrUnknownParameter = goerrors.New("params: parameter not declared")
	// ErrTypeCoercion is matched by every CoercionError.
	ErrTypeCoercion = goerrors.New("params: value cannot be coerced")
	// ErrValueNotSet is returned when reading a declared slot that holds no value.
	ErrValueNotSet = goerrors.New("params: parameter has no value")
	// ErrKindMismatch is returned when a typed accessor or typed set does not match the slot kind.
	ErrKindMismatch = goerrors.New("params: kind mismatch")
	// ErrConstraint is matched by every ConstraintError.
	ErrConstraint = goerrors.New("params: constraint violated")
	// ErrInvalidConstraint reports a constraint that cannot apply to a slot.
	ErrInvalidConstraint = goerrors.New("params: invalid constraint")
	// ErrInvalidName reports an empty name or one containing whitespace.
	ErrInvalidName = goerrors.New("params: invalid parameter name")
	// ErrInvalidKind reports an unsupported kind.
	ErrInvalidKind = goerrors.New("params: invalid parameter kind")

	// ErrMalformedLine re-exports the line parser error so callers need a single import.
	ErrMalformedLine = paramfile.ErrMalformedLine
	// ErrDuplicateKey re-exports the strict key error of the line parser.
	ErrDuplicateKey = paramfile.ErrDuplicateKey
)

var (
	errNilValue     = goerrors.New("nil value")
	errTypeMismatch = goerrors.New("unsupported value type")
)

// LoadError wraps any error raised while loading lines with the 1-based
// line number at which it occurred.
type LoadError = paramfile.LineError

// CoercionError describes raw text that cannot be parsed into a slot kind.
type CoercionError struct {
	Name string
	Raw  string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("params: cannot parse %q as %s for parameter %q: %v", e.Raw, e.Kind, e.Name, e.Err)
}

// Unwrap exposes the parse failure.
func (e *CoercionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrTypeCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}

// ConstraintError describes a value rejected by a slot constraint.
type ConstraintError struct {
	Name      string
	Value     any
	Condition string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("params: `%s` = %v does not satisfy the condition that %s", e.Name, e.Value, e.Condition)
}

// Is matches ErrConstraint.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

func duplicateParameterError(name string, kind Kind) error {
	return errors.Wrap(ErrDuplicateParameter, errors.CategoryConflict,
		fmt.Sprintf("parameter %q has already been declared", name)).
		WithTextCode("DUPLICATE_PARAMETER").
		WithMetadata(map[string]any{
			"name": name,
			"kind": string(kind),
		})
}

func unknownParameterError(name string) error {
	return errors.Wrap(ErrUnknownParameter, errors.CategoryNotFound,
		fmt.Sprintf("parameter %q has not been declared", name)).
		WithTextCode("UNKNOWN_PARAMETER").
		WithMetadata(map[string]any{
			"name": name,
		})
}

func valueNotSetError(names ...string) error {
	msg := fmt.Sprintf("parameter %q does not have a value", names[0])
	if len(names) > 1 {
		msg = fmt.Sprintf("%d parameters do not have a value", len(names))
	}
	return errors.Wrap(ErrValueNotSet, errors.CategoryValidation, msg).
		WithTextCode("VALUE_NOT_SET").
		WithMetadata(map[string]any{
			"names": names,
		})
}

func kindMismatchError(name string, kind Kind, got any) error {
	return errors.Wrap(ErrKindMismatch, errors.CategoryBadInput,
		fmt.Sprintf("parameter %q is %s, got %T", name, kind, got)).
		WithTextCode("KIND_MISMATCH").
		WithMetadata(map[string]any{
			"name": name,
			"kind": string(kind),
			"got":  fmt.Sprintf("%T", got),
		})
}

func invalidNameError(name string) error {
	return errors.Wrap(ErrInvalidName, errors.CategoryBadInput,
		fmt.Sprintf("parameter name %q must be non-empty and contain no whitespace", name)).
		WithTextCode("INVALID_NAME").
		WithMetadata(map[string]any{
			"name": name,
		})
}

func invalidConstraintError(name string, kind Kind, reason string) error {
	return errors.Wrap(ErrInvalidConstraint, errors.CategoryValidation,
		fmt.Sprintf("invalid constraint for parameter %q: %s", name, reason)).
		WithTextCode("INVALID_CONSTRAINT").
		WithMetadata(map[string]any{
			"name": name,
			"kind": string(kind),
		})
}
