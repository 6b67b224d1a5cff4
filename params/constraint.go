package params

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

type constraintOp int

const (
	opMin constraintOp = iota
	opMinExclusive
	opMax
	opMaxExclusive
	opBetween
	opOneOf
	opNoneOf
)

// Constraint restricts the values a slot accepts. Bound and list values can
// be given as the slot's Go type, as a losslessly convertible number, or as
// text parsed with the slot's coercion rules.
type Constraint struct {
	op     constraintOp
	values []any
}

// Min requires value >= v.
func Min(v any) Constraint {
	return Constraint{op: opMin, values: []any{v}}
}

// MinExclusive requires value > v.
func MinExclusive(v any) Constraint {
	return Constraint{op: opMinExclusive, values: []any{v}}
}

// Max requires value <= v.
func Max(v any) Constraint {
	return Constraint{op: opMax, values: []any{v}}
}

// MaxExclusive requires value < v.
func MaxExclusive(v any) Constraint {
	return Constraint{op: opMaxExclusive, values: []any{v}}
}

// Between requires lo <= value <= hi.
func Between(lo, hi any) Constraint {
	return Constraint{op: opBetween, values: []any{lo, hi}}
}

// OneOf accepts only the listed values.
func OneOf(vs ...any) Constraint {
	return Constraint{op: opOneOf, values: vs}
}

// NoneOf rejects the listed values.
func NoneOf(vs ...any) Constraint {
	return Constraint{op: opNoneOf, values: vs}
}

type bound struct {
	value     any
	inclusive bool
}

// rules holds at most one lower bound, one upper bound and one list per
// slot. A later constraint of the same family replaces the earlier one.
type rules struct {
	lower   *bound
	upper   *bound
	list    []any
	allow   bool
	hasList bool
}

func (rs rules) with(name string, kind Kind, c Constraint) (rules, error) {
	values := make([]any, 0, len(c.values))
	for _, v := range c.values {
		converted, err := convertValue(kind, v)
		if err != nil {
			return rs, invalidConstraintError(name, kind, fmt.Sprintf("value %v (%T): %v", v, v, err))
		}
		values = append(values, converted)
	}

	switch c.op {
	case opMin, opMinExclusive, opMax, opMaxExclusive, opBetween:
		if !kind.Ordered() {
			return rs, invalidConstraintError(name, kind, "range constraints need an ordered kind")
		}
	}

	switch c.op {
	case opMin, opMinExclusive:
		rs.lower = &bound{value: values[0], inclusive: c.op == opMin}
	case opMax, opMaxExclusive:
		rs.upper = &bound{value: values[0], inclusive: c.op == opMax}
	case opBetween:
		rs.lower = &bound{value: values[0], inclusive: true}
		rs.upper = &bound{value: values[1], inclusive: true}
	case opOneOf, opNoneOf:
		if len(values) == 0 {
			return rs, invalidConstraintError(name, kind, "list constraints need at least one value")
		}
		rs.list = values
		rs.allow = c.op == opOneOf
		rs.hasList = true
	}

	if rs.lower != nil && rs.upper != nil && compareValues(rs.lower.value, rs.upper.value) > 0 {
		return rs, invalidConstraintError(name, kind, "lower bound is greater than upper bound")
	}
	return rs, nil
}

func (rs rules) check(name string, kind Kind, v any) error {
	if b := rs.lower; b != nil {
		c := compareValues(v, b.value)
		if c < 0 || (c == 0 && !b.inclusive) {
			return violation(name, v, fmt.Sprintf("`%s` %s %s", name, lowerOp(b), Format(kind, b.value)))
		}
	}
	if b := rs.upper; b != nil {
		c := compareValues(v, b.value)
		if c > 0 || (c == 0 && !b.inclusive) {
			return violation(name, v, fmt.Sprintf("`%s` %s %s", name, upperOp(b), Format(kind, b.value)))
		}
	}
	if rs.hasList {
		found := false
		for _, item := range rs.list {
			if item == v {
				found = true
				break
			}
		}
		if found != rs.allow {
			verb := "is in"
			if !rs.allow {
				verb = "is not in"
			}
			return violation(name, v, fmt.Sprintf("`%s` %s the list %s", name, verb, formatList(kind, rs.list)))
		}
	}
	return nil
}

func violation(name string, v any, condition string) error {
	return &ConstraintError{
		Name:      name,
		Value:     v,
		Condition: condition,
	}
}

// rangeLabel renders the bounds as "lo <= name < hi".
func (rs rules) rangeLabel(name string, kind Kind) string {
	parts := make([]string, 0, 5)
	if b := rs.lower; b != nil {
		op := "<"
		if b.inclusive {
			op = "<="
		}
		parts = append(parts, Format(kind, b.value), op)
	}
	if rs.lower == nil && rs.upper == nil {
		return ""
	}
	parts = append(parts, name)
	if b := rs.upper; b != nil {
		parts = append(parts, upperOp(b), Format(kind, b.value))
	}
	return strings.Join(parts, " ")
}

func (rs rules) listLabel(kind Kind) (string, string) {
	if !rs.hasList {
		return "", ""
	}
	if rs.allow {
		return "Whitelist", formatList(kind, rs.list)
	}
	return "Blacklist", formatList(kind, rs.list)
}

func lowerOp(b *bound) string {
	if b.inclusive {
		return ">="
	}
	return ">"
}

func upperOp(b *bound) string {
	if b.inclusive {
		return "<="
	}
	return "<"
}

func formatList(kind Kind, values []any) string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		items = append(items, Format(kind, v))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// compareValues orders two values of the same stored Go type.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case int:
		return compareAs(x, b)
	case int8:
		return compareAs(x, b)
	case int16:
		return compareAs(x, b)
	case int32:
		return compareAs(x, b)
	case int64:
		return compareAs(x, b)
	case uint:
		return compareAs(x, b)
	case uint8:
		return compareAs(x, b)
	case uint16:
		return compareAs(x, b)
	case uint32:
		return compareAs(x, b)
	case uint64:
		return compareAs(x, b)
	case float32:
		return compareAs(x, b)
	case float64:
		return compareAs(x, b)
	case string:
		return compareAs(x, b)
	case time.Duration:
		return compareAs(x, b)
	}
	return 0
}

func compareAs[T cmp.Ordered](a T, b any) int {
	other, ok := b.(T)
	if !ok {
		return 0
	}
	return cmp.Compare(a, other)
}
