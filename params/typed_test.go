package params

import (
	goerrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInfersKind(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, Add[float32](r, "eps"))
	require.NoError(t, Add[time.Duration](r, "timeout", Default("5s")))

	kind, err := r.Kind("eps")
	require.NoError(t, err)
	assert.Equal(t, KindFloat32, kind)

	assert.Equal(t, 5*time.Second, MustValue[time.Duration](r, "timeout"))

	err = Add[[]int](r, "list")
	assert.True(t, goerrors.Is(err, ErrInvalidKind))
}

func TestValueKindMismatch(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, Add[int64](r, "n"))
	require.NoError(t, Put(r, "n", int64(3)))

	_, err := Value[int](r, "n")
	assert.True(t, goerrors.Is(err, ErrKindMismatch))

	v, err := Value[int64](r, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestValueOr(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, Add[string](r, "name"))

	assert.Equal(t, "fallback", ValueOr(r, "name", "fallback"))
	assert.Equal(t, "fallback", ValueOr(r, "undeclared", "fallback"))

	require.NoError(t, r.Set("name", "set"))
	assert.Equal(t, "set", ValueOr(r, "name", "fallback"))
}

func TestMustValuePanicsWithError(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, Add[bool](r, "verbose"))

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		assert.True(t, goerrors.Is(err, ErrValueNotSet))
	}()
	MustValue[bool](r, "verbose")
}
