package params

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Coerce parses raw text into the Go value for kind. Surrounding
// whitespace is trimmed first. Integers accept an optional leading '-'
// followed by decimal digits only; floats accept decimal and exponent
// notation but not hex, inf or nan.
func Coerce(kind Kind, raw string) (any, error) {
	s := strings.TrimSpace(raw)

	switch {
	case kind == KindString:
		return s, nil
	case kind == KindBool:
		return parseBool(s)
	case kind == KindDuration:
		return time.ParseDuration(s)
	case kind.signed():
		if !isDecimal(s, true) {
			return nil, strconv.ErrSyntax
		}
		n, err := strconv.ParseInt(s, 10, kind.bitSize())
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return reflect.ValueOf(n).Convert(kind.GoType()).Interface(), nil
	case kind.unsigned():
		if !isDecimal(s, false) {
			return nil, strconv.ErrSyntax
		}
		n, err := strconv.ParseUint(s, 10, kind.bitSize())
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return reflect.ValueOf(n).Convert(kind.GoType()).Interface(), nil
	case kind.float():
		if !isFloatText(s) {
			return nil, strconv.ErrSyntax
		}
		f, err := strconv.ParseFloat(s, kind.bitSize())
		if err != nil {
			return nil, unwrapNumError(err)
		}
		if kind == KindFloat32 {
			return float32(f), nil
		}
		return f, nil
	}

	return nil, kind.Valid()
}

// Format renders a stored value back to text that Coerce accepts.
func Format(kind Kind, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Duration:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// parseBool accepts canonical and common boolean aliases.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}

func isDecimal(s string, allowMinus bool) bool {
	if allowMinus {
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFloatText(s string) bool {
	if s == "" {
		return false
	}
	digits := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '-', c == '+', c == '.', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return digits
}

func unwrapNumError(err error) error {
	if numErr, ok := err.(*strconv.NumError); ok {
		return numErr.Err
	}
	return err
}

// convertValue turns a caller supplied Go value into the stored
// representation for kind. Strings are coerced, numbers are converted when
// no information is lost.
func convertValue(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, errNilValue
	}
	target := kind.GoType()
	rv := reflect.ValueOf(v)
	if rv.Type() == target {
		return v, nil
	}
	if s, ok := v.(string); ok {
		return Coerce(kind, s)
	}
	if !kind.numeric() || !isNumber(rv.Kind()) {
		return nil, errTypeMismatch
	}
	return convertNumber(kind, rv)
}

func convertNumber(kind Kind, rv reflect.Value) (any, error) {
	target := kind.GoType()

	switch {
	case kind.float():
		f := rv.Convert(reflect.TypeOf(float64(0))).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, strconv.ErrRange
		}
		if kind == KindFloat32 && math.Abs(f) > math.MaxFloat32 {
			return nil, strconv.ErrRange
		}
		out := rv.Convert(target)
		// float sources may round to the nearest float32, integers must be exact
		if !rv.CanFloat() && !sameInteger(rv, out) {
			return nil, strconv.ErrRange
		}
		return out.Interface(), nil
	case kind.unsigned():
		if (rv.CanInt() && rv.Int() < 0) || (rv.CanFloat() && rv.Float() < 0) {
			return nil, strconv.ErrRange
		}
	}

	out := rv.Convert(target)
	if !reflect.DeepEqual(out.Convert(rv.Type()).Interface(), rv.Interface()) {
		return nil, strconv.ErrRange
	}
	if rv.CanFloat() && math.Trunc(rv.Float()) != rv.Float() {
		return nil, strconv.ErrRange
	}
	return out.Interface(), nil
}

// sameInteger reports whether the float f holds the integer n exactly.
func sameInteger(n, f reflect.Value) bool {
	x := f.Float()
	if math.Trunc(x) != x {
		return false
	}
	if n.CanInt() {
		// 2^63 is the first float64 past MaxInt64
		if x < math.MinInt64 || x >= math.MaxInt64 {
			return false
		}
		return int64(x) == n.Int()
	}
	if x < 0 || x >= math.MaxUint64 {
		return false
	}
	return uint64(x) == n.Uint()
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
