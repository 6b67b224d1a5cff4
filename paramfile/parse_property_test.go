//go:build property
// +build property

package paramfile

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSplitLineProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("name and value survive surrounding whitespace", prop.ForAll(
		func(name, gap, value, pad string) bool {
			got, gotValue, skip, err := SplitLine(pad + name + gap + value + pad)
			return err == nil && !skip && got == name && gotValue == strings.TrimSpace(value)
		},
		gen.Identifier(),
		gen.OneConstOf(" ", "\t", "  \t "),
		gen.RegexMatch(`^[a-z0-9][a-z0-9 .=-]{0,20}$`),
		gen.OneConstOf("", " ", "\t", " \r"),
	))

	properties.Property("comment lines are always skipped", prop.ForAll(
		func(text string) bool {
			_, _, skip, err := SplitLine("  " + CommentPrefix + text)
			return skip && err == nil
		},
		gen.AnyString(),
	))

	properties.Property("marshal output parses back", prop.ForAll(
		func(keys []string, value string) bool {
			in := map[string]any{}
			for _, k := range keys {
				in[k] = value
			}
			b, err := Parser().Marshal(in)
			if err != nil {
				return false
			}
			out, err := Parser().Unmarshal(b)
			if err != nil || len(out) != len(in) {
				return false
			}
			for k, v := range in {
				if out[k] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.RegexMatch(`^[a-z0-9]([a-z0-9 ]{0,10}[a-z0-9])?$`),
	))

	properties.TestingRun(t)
}
