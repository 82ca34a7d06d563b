package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface{ Name() string }

type impl struct{}

func (*impl) Name() string { return "impl" }

func TestCheckInit(t *testing.T) {
	var typedNil *impl
	var empty provider = typedNil

	require.NotPanics(t, func() { CheckInit("store", &impl{}, "value", impl{}) })
	require.PanicsWithValue(t, "не инициализирована зависимость: store", func() { CheckInit("store", nil) })
	require.PanicsWithValue(t, "не инициализирована зависимость: handler", func() { CheckInit("handler", empty) })
	require.Panics(t, func() { CheckInit("store") })
	require.Panics(t, func() { CheckInit(1, &impl{}) })
}
