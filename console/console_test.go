package console_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/console"
	"github.com/dmitrymomot/waypoint/internal"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
)

func kernel(store routecache.Store, routes internal.RoutesFunc) console.Kernel {
	return func(opts ...internal.Option) (*internal.App, error) {
		base := []internal.Option{
			internal.WithRoutes(routes),
			internal.WithGlobalMiddleware("web"),
		}
		if store != nil {
			base = append(base, internal.WithRouteCache(store))
		}
		return internal.New(append(base, opts...)...)
	}
}

func blogRoutes(r *internal.Router) {
	r.Get("/posts/{slug}", "PostController@show").Name("posts.show").Middleware("auth")
	r.Post("/posts", "PostController@store").Name("posts.store")
}

func execute(t *testing.T, ctx context.Context, k console.Kernel, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := console.New("blog", k)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestRows(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	blogRoutes(r)
	r.Get("/about", "PageController@about").Domain("{account}.example.com")

	rows := console.Rows(r)
	require.Len(t, rows, 3)

	require.Equal(t, "GET", rows[0].Method)
	require.Equal(t, "/posts/{slug}", rows[0].URL)
	require.Equal(t, "PostController@show", rows[0].Callback)
	require.Equal(t, []string{"auth"}, rows[0].Middleware)
	require.Equal(t, "posts.show", rows[0].Name)
	require.Equal(t, internal.DefaultNamespace, rows[0].Namespace)
	require.Contains(t, rows[0].Pattern, "(?P<p0>")

	require.Equal(t, "{account}.example.com/about", rows[1].URL)
	require.Equal(t, "POST", rows[2].Method)
	require.Equal(t, "/posts", rows[2].Pattern)
}

func TestRouteList(t *testing.T) {
	t.Parallel()

	out, err := execute(t, context.Background(), kernel(nil, blogRoutes), "route:list")
	require.NoError(t, err)
	require.Contains(t, out, "Global middleware: web")
	require.Contains(t, out, "Callback")
	require.Contains(t, out, "PostController@show")
	require.Contains(t, out, "posts.store")
	require.Contains(t, out, "2 routes (source: definitions)")

	out, err = execute(t, context.Background(), kernel(nil, blogRoutes), "route:list", "--method", "post")
	require.NoError(t, err)
	require.NotContains(t, out, "PostController@show")
	require.Contains(t, out, "1 routes")

	out, err = execute(t, context.Background(), kernel(nil, blogRoutes), "route:list", "-n", "show")
	require.NoError(t, err)
	require.NotContains(t, out, "posts.store")
}

func TestRouteCache(t *testing.T) {
	t.Parallel()

	t.Run("create, use and clear", func(t *testing.T) {
		t.Parallel()

		store := routecache.NewMemoryStore()
		k := kernel(store, blogRoutes)

		out, err := execute(t, context.Background(), k, "route:cache", "--create")
		require.NoError(t, err)
		require.Contains(t, out, "Route cache created (2 routes)")

		table, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"web"}, table.Middleware)
		require.Equal(t, "/posts/{slug}", table.Names["posts.show"])

		out, err = execute(t, context.Background(), k, "route:list")
		require.NoError(t, err)
		require.Contains(t, out, "source: cache")

		out, err = execute(t, context.Background(), k, "route:cache")
		require.NoError(t, err)
		require.Contains(t, out, "Route cache cleared")

		_, err = store.Load(context.Background())
		require.ErrorIs(t, err, routecache.ErrNotFound)
	})

	t.Run("closures are rejected", func(t *testing.T) {
		t.Parallel()

		store := routecache.NewMemoryStore()
		k := kernel(store, func(r *internal.Router) {
			r.Get("/inline", func(c internal.Context) (any, error) { return "ok", nil })
		})

		_, err := execute(t, context.Background(), k, "route:cache", "-c")
		require.ErrorIs(t, err, routecache.ErrUncacheableRoute)

		_, err = store.Load(context.Background())
		require.ErrorIs(t, err, routecache.ErrNotFound)
	})

	t.Run("no store", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, context.Background(), kernel(nil, blogRoutes), "route:cache", "--create")
		require.ErrorIs(t, err, console.ErrNoCacheStore)
	})
}

func TestServe(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(t, ctx, kernel(nil, blogRoutes), "serve", "--addr", "127.0.0.1:0")
	require.NoError(t, err)
}
