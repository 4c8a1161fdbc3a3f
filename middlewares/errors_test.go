package middlewares_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/middlewares"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	t.Run("formats panic value", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "panic: something went wrong", (&middlewares.PanicError{Value: "something went wrong"}).Error())
		require.Equal(t, "panic: 42", (&middlewares.PanicError{Value: 42}).Error())
	})

	t.Run("unwraps error values only", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("cause")
		require.ErrorIs(t, &middlewares.PanicError{Value: cause}, cause)
		require.Nil(t, (&middlewares.PanicError{Value: "text"}).Unwrap())
	})

	t.Run("detects wrapped panic errors", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("dispatch: %w", &middlewares.PanicError{Value: "x"})
		require.True(t, middlewares.IsPanicError(wrapped))

		pe, ok := middlewares.AsPanicError(wrapped)
		require.True(t, ok)
		require.Equal(t, "x", pe.Value)

		require.False(t, middlewares.IsPanicError(errors.New("plain")))
		_, ok = middlewares.AsPanicError(errors.New("plain"))
		require.False(t, ok)
	})
}
