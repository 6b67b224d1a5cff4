package params

import (
	"reflect"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
)

// Kind is the declared type of a parameter slot. It never changes after
// declaration.
type Kind string

const (
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindInt8     Kind = "int8"
	KindInt16    Kind = "int16"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint     Kind = "uint"
	KindUint8    Kind = "uint8"
	KindUint16   Kind = "uint16"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindFloat32  Kind = "float32"
	KindFloat64  Kind = "float64"
	KindString   Kind = "string"
	KindDuration Kind = "duration"
)

var kindTypes = map[Kind]reflect.Type{
	KindBool:     reflect.TypeOf(false),
	KindInt:      reflect.TypeOf(int(0)),
	KindInt8:     reflect.TypeOf(int8(0)),
	KindInt16:    reflect.TypeOf(int16(0)),
	KindInt32:    reflect.TypeOf(int32(0)),
	KindInt64:    reflect.TypeOf(int64(0)),
	KindUint:     reflect.TypeOf(uint(0)),
	KindUint8:    reflect.TypeOf(uint8(0)),
	KindUint16:   reflect.TypeOf(uint16(0)),
	KindUint32:   reflect.TypeOf(uint32(0)),
	KindUint64:   reflect.TypeOf(uint64(0)),
	KindFloat32:  reflect.TypeOf(float32(0)),
	KindFloat64:  reflect.TypeOf(float64(0)),
	KindString:   reflect.TypeOf(""),
	KindDuration: reflect.TypeOf(time.Duration(0)),
}

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{
		KindBool,
		KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64,
		KindString,
		KindDuration,
	}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Valid() error {
	if _, ok := kindTypes[k]; ok {
		return nil
	}
	valid := make([]string, 0, len(kindTypes))
	for _, kind := range Kinds() {
		valid = append(valid, string(kind))
	}
	return errors.Wrap(ErrInvalidKind, errors.CategoryValidation, "invalid parameter kind").
		WithTextCode("INVALID_KIND").
		WithMetadata(map[string]any{
			"kind":        string(k),
			"valid_kinds": valid,
		})
}

// GoType returns the Go type values of this kind are stored as.
func (k Kind) GoType() reflect.Type {
	return kindTypes[k]
}

// Ordered reports whether values of this kind can be range constrained.
func (k Kind) Ordered() bool {
	return k != KindBool && k.GoType() != nil
}

func (k Kind) signed() bool {
	switch k {
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

func (k Kind) unsigned() bool {
	switch k {
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

func (k Kind) float() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k Kind) numeric() bool {
	return k.signed() || k.unsigned() || k.float()
}

func (k Kind) bitSize() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt, KindUint:
		return strconv.IntSize
	default:
		return 64
	}
}

// KindOf maps a Go type to its Kind. The second result is false for
// unsupported types.
func KindOf[T any]() (Kind, bool) {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBool, true
	case int:
		return KindInt, true
	case int8:
		return KindInt8, true
	case int16:
		return KindInt16, true
	case int32:
		return KindInt32, true
	case int64:
		return KindInt64, true
	case uint:
		return KindUint, true
	case uint8:
		return KindUint8, true
	case uint16:
		return KindUint16, true
	case uint32:
		return KindUint32, true
	case uint64:
		return KindUint64, true
	case float32:
		return KindFloat32, true
	case float64:
		return KindFloat64, true
	case string:
		return KindString, true
	case time.Duration:
		return KindDuration, true
	default:
		return "", false
	}
}
