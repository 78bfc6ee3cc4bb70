package guard_test

import (
	"errors"
	"testing"

	"pickup/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_falls_back_to_default", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedInValue(t *testing.T) {
	type trackingRef struct {
		mailNo string
		guard  guard.ConstructorGuard
	}
	errNotConstructed := errors.New("trackingRef must be created via newTrackingRef")

	newTrackingRef := func(mailNo string) trackingRef {
		return trackingRef{mailNo: mailNo, guard: guard.NewConstructorGuard()}
	}

	built := newTrackingRef("SF100200300")
	require.NoError(t, built.guard.Validate(errNotConstructed))

	literal := trackingRef{mailNo: "SF100200300"}
	require.ErrorIs(t, literal.guard.Validate(errNotConstructed), errNotConstructed)

	copied := built
	require.NoError(t, copied.guard.Validate(errNotConstructed), "copies keep the constructed flag")
}
