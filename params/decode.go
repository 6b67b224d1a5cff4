package params

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/maps"
)

// DecodeTagName is the struct tag Decode matches parameter names against.
var DecodeTagName = "param"

// Decode copies every set value into out, which must be a pointer to a
// struct or map. Dotted names such as "solver.tolerance" decode into
// nested structs. String parameters also decode into fields implementing
// encoding.TextUnmarshaler. Unset parameters leave their fields untouched.
func (r *Registry) Decode(out any) error {
	input := maps.Unflatten(r.Snapshot(), DefaultDelimiter)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          DecodeTagName,
		Result:           out,
		WeaklyTypedInput: false,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid decode target").
			WithTextCode("DECODE_TARGET_INVALID")
	}

	if err := decoder.Decode(input); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to decode parameters").
			WithTextCode("DECODE_FAILED").
			WithMetadata(map[string]any{
				"tag_name": DecodeTagName,
			})
	}
	return nil
}
