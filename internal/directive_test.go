package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/internal"
)

func TestParseDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		name   string
		args   []string
		except []string
		guard  string
	}{
		{raw: "auth", name: "auth", guard: internal.DefaultGuard},
		{raw: "auth:admin", name: "auth", args: []string{"admin"}, guard: "admin"},
		{raw: "throttle:60,1", name: "throttle", args: []string{"60", "1"}, guard: "60"},
		{raw: "auth:admin|index,Show", name: "auth", args: []string{"admin"}, except: []string{"index", "show"}, guard: "admin"},
		{raw: "csrf|store", name: "csrf", except: []string{"store"}, guard: internal.DefaultGuard},
		{raw: " log : a , b ", name: "log", args: []string{"a", "b"}, guard: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			d := internal.ParseDirective(tt.raw)
			require.Equal(t, tt.name, d.Name)
			require.Equal(t, tt.args, d.Args)
			require.Equal(t, tt.except, d.Except)
			require.Equal(t, tt.guard, d.Guard())
			require.Equal(t, tt.raw, d.String())
		})
	}
}

func TestDirectiveSkips(t *testing.T) {
	t.Parallel()

	d := internal.ParseDirective("auth|index,show")
	require.True(t, d.Skips("index"))
	require.True(t, d.Skips("SHOW"))
	require.False(t, d.Skips("store"))
	require.False(t, d.Skips(""))

	require.False(t, internal.ParseDirective("auth").Skips("index"))
}

func TestDirectiveStringWithoutSource(t *testing.T) {
	t.Parallel()

	d := internal.Directive{Name: "auth", Args: []string{"api"}, Except: []string{"index"}}
	require.Equal(t, "auth:api|index", d.String())
}

func TestGuardFromArgs(t *testing.T) {
	t.Parallel()

	require.Equal(t, internal.DefaultGuard, internal.GuardFromArgs(nil))
	require.Equal(t, internal.DefaultGuard, internal.GuardFromArgs([]string{""}))
	require.Equal(t, "api", internal.GuardFromArgs([]string{"api", "x"}))
}
