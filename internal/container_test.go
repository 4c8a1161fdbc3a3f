package internal_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/internal"
)

type postRepo struct{ name string }

func TestContainer(t *testing.T) {
	t.Parallel()

	t.Run("bind constructs on every resolve", func(t *testing.T) {
		t.Parallel()
		c := internal.NewContainer()
		var calls atomic.Int32
		c.Bind("repo", func(internal.Resolver) (any, error) {
			calls.Add(1)
			return &postRepo{}, nil
		})

		a, err := c.Resolve("repo")
		require.NoError(t, err)
		b, err := c.Resolve("repo")
		require.NoError(t, err)
		require.NotSame(t, a, b)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("singleton constructs once", func(t *testing.T) {
		t.Parallel()
		c := internal.NewContainer()
		c.Singleton("repo", func(internal.Resolver) (any, error) {
			return &postRepo{}, nil
		})

		a, err := c.Resolve("repo")
		require.NoError(t, err)
		b, err := c.Resolve("repo")
		require.NoError(t, err)
		require.Same(t, a, b)
	})

	t.Run("factories resolve other keys", func(t *testing.T) {
		t.Parallel()
		c := internal.NewContainer()
		c.Instance("dsn", "postgres://local")
		c.Singleton("repo", func(r internal.Resolver) (any, error) {
			dsn, err := r.Resolve("dsn")
			if err != nil {
				return nil, err
			}
			return &postRepo{name: dsn.(string)}, nil
		})

		v, err := c.Resolve("repo")
		require.NoError(t, err)
		require.Equal(t, "postgres://local", v.(*postRepo).name)
	})

	t.Run("unbound key", func(t *testing.T) {
		t.Parallel()
		c := internal.NewContainer()
		require.False(t, c.Has("missing"))
		_, err := c.Resolve("missing")
		require.ErrorIs(t, err, internal.ErrDependencyNotBound)
	})

	t.Run("factory error is wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		c := internal.NewContainer()
		c.Bind("repo", func(internal.Resolver) (any, error) { return nil, boom })
		_, err := c.Resolve("repo")
		require.ErrorIs(t, err, boom)
	})
}

func TestTypedContainer(t *testing.T) {
	t.Parallel()

	c := internal.NewContainer()
	internal.Provide(c, func(internal.Resolver) (*postRepo, error) {
		return &postRepo{name: "typed"}, nil
	})

	require.True(t, c.Has(internal.TypeKey[*postRepo]()))
	repo, err := internal.ResolveAs[*postRepo](c)
	require.NoError(t, err)
	require.Equal(t, "typed", repo.name)

	c.Instance(internal.TypeKey[string](), 42)
	_, err = internal.ResolveAs[string](c)
	require.Error(t, err)
}

func TestSpliceArguments(t *testing.T) {
	t.Parallel()

	repo := &postRepo{name: "posts"}
	c := internal.NewContainer()
	c.Instance("posts", repo)
	c.Instance("clock", "now")

	t.Run("dependency first", func(t *testing.T) {
		t.Parallel()
		params := []internal.Parameter{internal.Dep("repo", "posts"), internal.Arg("year"), internal.Arg("slug")}
		got, err := internal.SpliceArguments(params, []string{"2024", "hello"}, c)
		require.NoError(t, err)
		require.Equal(t, []any{repo, "2024", "hello"}, got)
	})

	t.Run("dependency between arguments", func(t *testing.T) {
		t.Parallel()
		params := []internal.Parameter{internal.Arg("year"), internal.Dep("repo", "posts"), internal.Arg("slug")}
		got, err := internal.SpliceArguments(params, []string{"2024", "hello"}, c)
		require.NoError(t, err)
		require.Equal(t, []any{"2024", repo, "hello"}, got)
	})

	t.Run("index past the end appends", func(t *testing.T) {
		t.Parallel()
		params := []internal.Parameter{internal.Arg("year"), internal.Arg("slug"), internal.Arg("page"), internal.Dep("clock", "clock")}
		got, err := internal.SpliceArguments(params, []string{"2024"}, c)
		require.NoError(t, err)
		require.Equal(t, []any{"2024", "now"}, got)
	})

	t.Run("optional dependency skipped", func(t *testing.T) {
		t.Parallel()
		params := []internal.Parameter{{Name: "cache", Dependency: "cache", Optional: true}, internal.Arg("id")}
		got, err := internal.SpliceArguments(params, []string{"7"}, c)
		require.NoError(t, err)
		require.Equal(t, []any{"7"}, got)
	})

	t.Run("unbound dependency", func(t *testing.T) {
		t.Parallel()
		params := []internal.Parameter{internal.Dep("mailer", "mailer")}
		_, err := internal.SpliceArguments(params, nil, c)
		require.ErrorIs(t, err, internal.ErrDependencyNotBound)
	})
}
