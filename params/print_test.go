package params

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Declare("iterations", KindInt,
		Description("number of solver passes"),
		Constrain(Between(1, 100)),
		Default(10),
	))
	require.NoError(t, r.Declare("mode", KindString, Constrain(OneOf("fast", "safe"))))
	require.NoError(t, r.Declare("seed", KindInt64, Hidden()))

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))

	want := "iterations\n" +
		"----------------------------\n" +
		"Type          | int\n" +
		"Value         | 10\n" +
		"Range         | 1 <= iterations <= 100\n" +
		"Description   | number of solver passes\n" +
		"\n" +
		"mode\n" +
		"----------------------------\n" +
		"Type          | string\n" +
		"Whitelist     | [fast, safe]\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintHiddenToggle(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Declare("token", KindString, Constrain(NoneOf("changeme")), Hidden()))

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	assert.Empty(t, buf.String())

	require.NoError(t, r.SetHidden("token", false))
	require.NoError(t, r.SetDescription("token", "api token"))
	require.NoError(t, r.Print(&buf))
	assert.Contains(t, buf.String(), "Blacklist     | [changeme]\n")
	assert.Contains(t, buf.String(), "Description   | api token\n")
}
