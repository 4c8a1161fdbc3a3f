package internal_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/internal"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
	"github.com/dmitrymomot/waypoint/pkg/routefile"
)

func cacheableRouter() *internal.Router {
	r := internal.NewRouter()
	r.Use("global")
	r.Get("/", "HomeController@index").Name("home")
	r.Define().Prefix("/admin").Namespace("Admin").Middleware("auth").Name("admin.").Group(func(r *internal.Router) {
		r.Form("/users/{id?}", "UserController@edit").Name("users.edit").Where("id", `\d+`)
	})
	r.Get("/posts/{slug}", "PostController@show").Domain("{account}.example.com")
	return r
}

func TestRouterExportImport(t *testing.T) {
	t.Parallel()

	t.Run("round trip through a store", func(t *testing.T) {
		t.Parallel()

		table, err := cacheableRouter().Export()
		require.NoError(t, err)
		require.Equal(t, []string{"GET", "POST"}, table.Methods())
		require.Equal(t, 4, table.Len())

		store := routecache.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), table))
		loaded, err := store.Load(context.Background())
		require.NoError(t, err)

		r := internal.NewRouter()
		require.NoError(t, r.Import(loaded))
		require.Equal(t, []string{"global"}, r.GlobalMiddleware())

		m, err := r.Lookup(http.MethodPost, "", "/admin/users/7")
		require.NoError(t, err)
		attrs := m.Route.Attributes()
		require.Equal(t, "UserController@edit", attrs.Handler)
		require.Equal(t, "Admin", attrs.Namespace)
		require.Equal(t, []string{"auth"}, attrs.Middleware)
		require.Equal(t, "admin.users.edit", attrs.Name)
		require.Equal(t, []string{"7"}, m.Args())

		_, err = r.Lookup(http.MethodGet, "", "/admin/users/x")
		require.ErrorIs(t, err, internal.ErrRouteNotFound)

		m, err = r.Lookup(http.MethodGet, "acme.example.com", "/posts/hello")
		require.NoError(t, err)
		require.Equal(t, []string{"acme", "hello"}, m.Args())

		u, err := r.URL("admin.users.edit", map[string]any{"id": 3})
		require.NoError(t, err)
		require.Equal(t, "/admin/users/3", u)

		u, err = r.URL("home", nil)
		require.NoError(t, err)
		require.Equal(t, "/", u)
	})

	t.Run("closures cannot be exported", func(t *testing.T) {
		t.Parallel()

		r := cacheableRouter()
		r.Get("/inline", noop)

		_, err := r.Export()
		require.ErrorIs(t, err, routecache.ErrUncacheableRoute)
		require.Contains(t, err.Error(), "/inline")
	})

	t.Run("import rejects stale schema", func(t *testing.T) {
		t.Parallel()

		table := routecache.NewTable()
		table.Version = routecache.SchemaVersion + 1

		err := internal.NewRouter().Import(table)
		require.ErrorIs(t, err, routecache.ErrVersionMismatch)
	})

	t.Run("import replaces existing routes", func(t *testing.T) {
		t.Parallel()

		table := routecache.NewTable()
		table.Add("GET", routecache.Record{Path: "/cached", Handler: "CacheController@index"})

		r := internal.NewRouter()
		r.Get("/old", noop).Name("old")
		require.NoError(t, r.Import(table))

		_, err := r.Lookup(http.MethodGet, "", "/old")
		require.ErrorIs(t, err, internal.ErrRouteNotFound)
		_, err = r.URL("old", nil)
		require.ErrorIs(t, err, internal.ErrRouteNameNotFound)

		_, err = r.Lookup(http.MethodGet, "", "/cached")
		require.NoError(t, err)
	})

	t.Run("frozen router", func(t *testing.T) {
		t.Parallel()

		r := internal.NewRouter()
		r.Freeze()
		require.ErrorIs(t, r.Import(routecache.NewTable()), internal.ErrRouterFrozen)
		require.ErrorIs(t, r.ImportFiles(), internal.ErrRouterFrozen)
	})
}

func TestRouterImportFiles(t *testing.T) {
	t.Parallel()

	f, err := routefile.Parse("web.yaml", []byte(`
middleware: [web]
routes:
  - path: /
    handler: HomeController@index
    name: home
groups:
  - prefix: /admin
    namespace: Admin
    name: admin.
    middleware: [auth]
    routes:
      - methods: [GET, POST]
        path: /users/{id?}
        handler: UserController@edit
        name: users.edit
        where: {id: "[0-9]+"}
        middleware: [audit]
`))
	require.NoError(t, err)

	r := internal.NewRouter()
	require.NoError(t, r.ImportFiles(f))
	require.Equal(t, []string{"web"}, r.GlobalMiddleware())

	m, err := r.Lookup(http.MethodPost, "", "/admin/users")
	require.NoError(t, err)
	attrs := m.Route.Attributes()
	require.Equal(t, "Admin", attrs.Namespace)
	require.Equal(t, []string{"auth", "audit"}, attrs.Middleware)
	require.Empty(t, m.Args())

	u, err := r.URL("admin.users.edit", map[string]any{"id": 9})
	require.NoError(t, err)
	require.Equal(t, "/admin/users/9", u)

	_, err = r.Lookup(http.MethodGet, "", "/admin/users/nine")
	require.ErrorIs(t, err, internal.ErrRouteNotFound)

	table, err := r.Export()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
}
