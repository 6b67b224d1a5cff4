package paramfile

import (
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParserUnmarshal(t *testing.T) {
	data := []byte("# header\na 1\nb hello world\na 3\n")

	out, err := Parser().Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "3", "b": "hello world"}, out)
}

func TestTextParserUnmarshalMalformed(t *testing.T) {
	_, err := Parser().Unmarshal([]byte("a 1\nb\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestTextParserMarshal(t *testing.T) {
	out, err := Parser().Marshal(map[string]any{
		"b": "two words",
		"a": 1,
		"solver": map[string]any{
			"tolerance": 0.5,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "a 1\nb two words\nsolver.tolerance 0.5\n", string(out))
}

func TestTextParserMarshalRejectsUnwritable(t *testing.T) {
	for name, in := range map[string]map[string]any{
		"empty value":    {"a": ""},
		"multiline":      {"a": "x\ny"},
		"name with tab":  {"a\tb": "1"},
		"comment prefix": {"#a": "1"},
		"padded value":   {"a": " 1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parser().Marshal(in)
			assert.ErrorIs(t, err, ErrUnrepresentable)
		})
	}
}

func TestTextParserWithKoanf(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(map[string]any{
		"iterations": 10,
		"name":       "run",
	}, "."), nil))

	b, err := k.Marshal(Parser())
	require.NoError(t, err)
	assert.Equal(t, "iterations 10\nname run\n", string(b))

	back := koanf.New(".")
	require.NoError(t, back.Load(rawProvider(b), Parser()))
	assert.Equal(t, "10", back.String("iterations"))
	assert.Equal(t, "run", back.String("name"))
}

type rawProvider []byte

func (r rawProvider) ReadBytes() ([]byte, error)    { return r, nil }
func (r rawProvider) Read() (map[string]any, error) { return nil, nil }
