package routefile_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/pkg/routefile"
)

const webRoutes = `
middleware: [web]
routes:
  - method: get
    path: /
    handler: HomeController@index
    name: home
groups:
  - prefix: /admin
    name: admin.
    middleware: ["auth:admin"]
    routes:
      - methods: [GET, post]
        path: /users/{id?}
        handler: Admin\UserController@edit
        where: {id: "[0-9]+"}
    groups:
      - prefix: /reports
        routes:
          - path: /daily
            handler: ReportController@daily
`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("routes and nested groups", func(t *testing.T) {
		t.Parallel()

		f, err := routefile.Parse("web.yaml", []byte(webRoutes))
		require.NoError(t, err)
		require.Equal(t, "web.yaml", f.Path)
		require.Equal(t, []string{"web"}, f.Middleware)
		require.Equal(t, 3, f.Len())

		require.Len(t, f.Routes, 1)
		require.Equal(t, []string{"GET"}, f.Routes[0].Verbs())

		admin := f.Groups[0]
		require.Equal(t, "/admin", admin.Prefix)
		require.Equal(t, []string{"auth:admin"}, admin.Middleware)
		require.Equal(t, []string{"GET", "POST"}, admin.Routes[0].Verbs())
		require.Equal(t, `Admin\UserController@edit`, admin.Routes[0].Handler)
		require.Equal(t, map[string]string{"id": "[0-9]+"}, admin.Routes[0].Where)

		require.Equal(t, []string{"GET"}, admin.Groups[0].Routes[0].Verbs())
	})

	t.Run("closure handler rejected", func(t *testing.T) {
		t.Parallel()

		_, err := routefile.Parse("bad.yaml", []byte("routes:\n  - path: /x\n    handler: closure\n"))
		require.ErrorIs(t, err, routefile.ErrInvalidRoute)
	})

	t.Run("missing fields in nested group", func(t *testing.T) {
		t.Parallel()

		data := "groups:\n  - groups:\n      - routes:\n          - handler: A@b\n"
		_, err := routefile.Parse("bad.yaml", []byte(data))
		require.ErrorIs(t, err, routefile.ErrInvalidRoute)
		require.Contains(t, err.Error(), "path is required")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := routefile.Parse("bad.yaml", []byte("routes: [\n"))
		require.ErrorIs(t, err, routefile.ErrParse)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"routes/web.yaml":       {Data: []byte(webRoutes)},
		"routes/api/v1.yaml":    {Data: []byte("routes:\n  - path: /api/ping\n    handler: PingController@show\n")},
		"routes/readme.md":      {Data: []byte("# routes")},
		"other/ignored.yaml":    {Data: []byte("routes: [")},
		"routes/admin/all.yaml": {Data: []byte("routes:\n  - method: DELETE\n    path: /admin/cache\n    handler: CacheController@clear\n")},
	}

	t.Run("recursive glob sorted by path", func(t *testing.T) {
		t.Parallel()

		files, err := routefile.Load(fsys, "routes/**/*.yaml")
		require.NoError(t, err)
		require.Len(t, files, 3)
		require.Equal(t, "routes/admin/all.yaml", files[0].Path)
		require.Equal(t, "routes/api/v1.yaml", files[1].Path)
		require.Equal(t, "routes/web.yaml", files[2].Path)
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()

		_, err := routefile.Load(fsys, "missing/*.yaml")
		require.ErrorIs(t, err, routefile.ErrNoFiles)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()

		_, err := routefile.Load(fsys, "routes/[.yaml")
		require.ErrorIs(t, err, routefile.ErrInvalidPattern)
	})

	t.Run("parse error surfaces", func(t *testing.T) {
		t.Parallel()

		_, err := routefile.Load(fsys, "other/*.yaml")
		require.ErrorIs(t, err, routefile.ErrParse)
	})
}
