package params

import "fmt"

// Add declares name with the kind matching T.
func Add[T any](r *Registry, name string, opts ...DeclareOption) error {
	kind, ok := KindOf[T]()
	if !ok {
		var zero T
		return Kind(fmt.Sprintf("%T", zero)).Valid()
	}
	return r.Declare(name, kind, opts...)
}

// Put stores a typed value, see Registry.Assign.
func Put[T any](r *Registry, name string, value T) error {
	return r.Assign(name, value)
}

// Value returns the stored value as T. It fails with ErrKindMismatch when
// T is not the slot's Go type.
func Value[T any](r *Registry, name string) (T, error) {
	var zero T
	v, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		kind, _ := r.Kind(name)
		return zero, kindMismatchError(name, kind, zero)
	}
	return out, nil
}

// ValueOr returns the stored value, or def when the slot is unset or the
// lookup fails for any other reason.
func ValueOr[T any](r *Registry, name string, def T) T {
	v, err := Value[T](r, name)
	if err != nil {
		return def
	}
	return v
}

// MustValue is Value for call sites that already checked the slot is set.
// It panics with the underlying error otherwise.
func MustValue[T any](r *Registry, name string) T {
	v, err := Value[T](r, name)
	if err != nil {
		panic(err)
	}
	return v
}
