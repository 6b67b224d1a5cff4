//go:build property
// +build property

package params

import (
	goerrors "errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCoercionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("int64 survives format and coerce", prop.ForAll(
		func(n int64) bool {
			v, err := Coerce(KindInt64, Format(KindInt64, n))
			return err == nil && v == n
		},
		gen.Int64(),
	))

	properties.Property("float64 survives format and coerce", prop.ForAll(
		func(f float64) bool {
			v, err := Coerce(KindFloat64, Format(KindFloat64, f))
			return err == nil && v == f
		},
		gen.Float64(),
	))

	properties.Property("uint8 text outside range never coerces", prop.ForAll(
		func(n int) bool {
			_, err := Coerce(KindUint8, strconv.Itoa(n))
			return err != nil
		},
		gen.IntRange(256, 1<<20),
	))

	properties.Property("text with letters never coerces to int", prop.ForAll(
		func(s string) bool {
			_, err := Coerce(KindInt, "1"+s)
			return goerrors.Is(err, strconv.ErrSyntax)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}

func TestRegistryProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("last line wins", prop.ForAll(
		func(values []int) bool {
			r := newTestRegistry()
			if err := r.Declare("a", KindInt); err != nil {
				return false
			}
			lines := make([]string, 0, len(values))
			for _, v := range values {
				lines = append(lines, fmt.Sprintf("a %d", v))
			}
			if err := r.Load(lines); err != nil {
				return false
			}
			got, err := Value[int](r, "a")
			return err == nil && got == values[len(values)-1]
		},
		gen.SliceOfN(8, gen.Int()).SuchThat(func(v []int) bool { return len(v) > 0 }),
	))

	properties.Property("failed set keeps previous value", prop.ForAll(
		func(n int, junk string) bool {
			r := newTestRegistry()
			if err := r.Declare("a", KindInt); err != nil {
				return false
			}
			if err := r.Set("a", strconv.Itoa(n)); err != nil {
				return false
			}
			if err := r.Set("a", "x"+junk); !goerrors.Is(err, ErrTypeCoercion) {
				return false
			}
			got, err := Value[int](r, "a")
			return err == nil && got == n
		},
		gen.Int(),
		gen.AlphaString(),
	))

	properties.Property("between accepts exactly the closed range", prop.ForAll(
		func(lo, span, v int) bool {
			hi := lo + span
			r := newTestRegistry()
			if err := r.Declare("a", KindInt, Constrain(Between(lo, hi))); err != nil {
				return false
			}
			err := r.Set("a", strconv.Itoa(v))
			inside := v >= lo && v <= hi
			if inside {
				return err == nil
			}
			return goerrors.Is(err, ErrConstraint) && !r.Has("a")
		},
		gen.IntRange(-100, 100),
		gen.IntRange(0, 50),
		gen.IntRange(-200, 200),
	))

	properties.Property("declaration order is kept", prop.ForAll(
		func(names []string) bool {
			r := newTestRegistry()
			var want []string
			for _, name := range names {
				if r.Declare(name, KindString) == nil {
					want = append(want, name)
				}
			}
			got := r.Names()
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
