package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestProvider(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		cb       func(string) string
		environ  []string
		expected string
	}{
		{
			name:     "strips prefix",
			prefix:   "PARAM_",
			environ:  []string{"PARAM_iterations=10", "HOME=/root"},
			expected: `{"iterations":"10"}`,
		},
		{
			name:     "no prefix keeps everything",
			prefix:   "",
			environ:  []string{"A=1", "B=2"},
			expected: `{"A":"1","B":"2"}`,
		},
		{
			name:   "callback maps names",
			prefix: "PARAM_",
			cb: func(key string) string {
				return strings.ToLower(strings.TrimPrefix(key, "PARAM_"))
			},
			environ:  []string{"PARAM_MAX_ITER=5"},
			expected: `{"max_iter":"5"}`,
		},
		{
			name:   "empty mapped key is skipped",
			prefix: "PARAM_",
			cb: func(key string) string {
				if key == "PARAM_KEEP" {
					return "keep"
				}
				return ""
			},
			environ:  []string{"PARAM_KEEP=yes", "PARAM_DROP=no"},
			expected: `{"keep":"yes"}`,
		},
		{
			name:   "dotted keys nest",
			prefix: "PARAM_",
			cb: func(string) string {
				return "solver.tolerance"
			},
			environ:  []string{"PARAM_SOLVER__TOLERANCE=0.5"},
			expected: `{"solver":{"tolerance":"0.5"}}`,
		},
		{
			name:   "wildcards are literal",
			prefix: "PARAM_",
			cb: func(string) string {
				return "glob*"
			},
			environ:  []string{"PARAM_GLOB=x"},
			expected: `{"glob*":"x"}`,
		},
		{
			name:     "values keep equals signs",
			prefix:   "PARAM_",
			environ:  []string{"PARAM_expr=a=b"},
			expected: `{"expr":"a=b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Provider(tt.prefix, tt.cb).WithEnviron(environ(tt.environ...))
			out, err := p.ReadBytes()
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(out))
		})
	}
}

func TestProviderReadsProcessEnvironment(t *testing.T) {
	t.Setenv("GOPARAMS_TEST_SEED", "42")

	out, err := Provider("GOPARAMS_TEST_", nil).ReadBytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"SEED":"42"}`, string(out))
}

func TestRead(t *testing.T) {
	_, err := Provider("", nil).Read()
	assert.Error(t, err)
}
