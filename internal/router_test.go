package internal_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/internal"
)

func noop(c internal.Context) (any, error) { return "ok", nil }

func TestRouterLookup(t *testing.T) {
	t.Parallel()

	t.Run("static and dynamic routes", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/users", noop)
		r.Get("/users/{id}", noop).Where("id", `\d+`)

		m, err := r.Lookup(http.MethodGet, "example.com", "/users/")
		require.NoError(t, err)
		require.Equal(t, "/users", m.Route.Path())
		require.Empty(t, m.Params)

		m, err = r.Lookup(http.MethodGet, "example.com", "/users/15")
		require.NoError(t, err)
		require.Equal(t, "/users/{id}", m.Route.Path())
		require.Equal(t, []string{"15"}, m.Args())

		_, err = r.Lookup(http.MethodGet, "example.com", "/users/abc")
		require.ErrorIs(t, err, internal.ErrRouteNotFound)
	})

	t.Run("first registered match wins", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/posts/{slug}", noop).Name("posts.show")
		r.Get("/posts/create", noop).Name("posts.create")

		m, err := r.Lookup(http.MethodGet, "", "/posts/create")
		require.NoError(t, err)
		require.Equal(t, "posts.show", m.Route.Attributes().Name)
	})

	t.Run("constrained route lets later routes match", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/users/{id}", noop).Where("id", "[0-9]+").Name("users.show")
		r.Get("/users/profile", noop).Name("users.profile")

		m, err := r.Lookup(http.MethodGet, "", "/users/profile")
		require.NoError(t, err)
		require.Equal(t, "users.profile", m.Route.Attributes().Name)

		m, err = r.Lookup(http.MethodGet, "", "/users/9")
		require.NoError(t, err)
		require.Equal(t, "users.show", m.Route.Attributes().Name)
	})

	t.Run("head is served by get", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/ping", noop)

		m, err := r.Lookup(http.MethodHead, "", "/ping")
		require.NoError(t, err)
		require.Equal(t, "/ping", m.Route.Path())
	})

	t.Run("method mismatch is not found", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Post("/login", noop)

		_, err := r.Lookup(http.MethodGet, "", "/login")
		var nf *internal.RouteNotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, http.MethodGet, nf.Method)
		require.Equal(t, "/login", nf.Path)
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Any("/x", noop)

		_, err := r.Lookup("TRACE", "", "/x")
		require.ErrorIs(t, err, internal.ErrRouteNotFound)
	})

	t.Run("any and form helpers", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		rt := r.Any("/hook", noop)
		require.Equal(t, internal.Methods(), rt.Methods())

		form := r.Form("/contact", noop)
		require.Equal(t, []string{http.MethodGet, http.MethodPost}, form.Methods())
		for _, m := range []string{http.MethodGet, http.MethodPost} {
			_, err := r.Lookup(m, "", "/contact")
			require.NoError(t, err)
		}
	})

	t.Run("re-registering a path replaces in place", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/a", noop)
		r.Get("/b", noop)
		r.Get("/a", "HomeController@index")

		routes := r.Routes(http.MethodGet)
		require.Len(t, routes, 2)
		require.Equal(t, "/a", routes[0].Path())
		require.Equal(t, "HomeController@index", routes[0].Attributes().Handler)
	})

	t.Run("optional placeholder", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/blog/{year}/{slug?}", noop)

		m, err := r.Lookup(http.MethodGet, "", "/blog/2024")
		require.NoError(t, err)
		require.Equal(t, []string{"2024"}, m.Args())

		m, err = r.Lookup(http.MethodGet, "", "/blog/2024/hello")
		require.NoError(t, err)
		require.Equal(t, []string{"2024", "hello"}, m.Args())
	})

	t.Run("domain routes", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/dashboard", noop).Domain("{account}.example.com")
		r.Get("/status", noop).Domain("admin.example.com")

		m, err := r.Lookup(http.MethodGet, "ACME.example.com:8080", "/dashboard")
		require.NoError(t, err)
		v, ok := m.Params.Get("account")
		require.True(t, ok)
		require.Equal(t, "acme", v)

		_, err = r.Lookup(http.MethodGet, "admin.example.com", "/status")
		require.NoError(t, err)

		_, err = r.Lookup(http.MethodGet, "other.com", "/status")
		require.ErrorIs(t, err, internal.ErrRouteNotFound)
	})

	t.Run("invalid constraint surfaces as configuration error", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()
		r.Get("/items/{id}", noop).Where("id", "(")

		_, err := r.Lookup(http.MethodGet, "", "/items/1")
		require.ErrorIs(t, err, internal.ErrConfiguration)
	})
}

func TestRouterGroups(t *testing.T) {
	t.Parallel()

	t.Run("attributes apply inside and are restored after", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()

		var inner *internal.Route
		r.Group(internal.GroupAttributes{
			Prefix:     "/admin",
			Namespace:  "admin",
			Name:       "admin.",
			Middleware: []string{"auth"},
			Domain:     "admin.example.com",
		}, func(r *internal.Router) {
			inner = r.Get("/users", "UserController@index").Name("users")
		})
		outer := r.Get("/users", "UserController@index")

		attrs := inner.Attributes()
		require.Equal(t, "/admin/users", attrs.Path)
		require.Equal(t, "admin", attrs.Namespace)
		require.Equal(t, "admin.users", attrs.Name)
		require.Equal(t, []string{"auth"}, attrs.Middleware)
		require.Equal(t, "admin.example.com", attrs.Domain)

		attrs = outer.Attributes()
		require.Equal(t, "/users", attrs.Path)
		require.Equal(t, internal.DefaultNamespace, attrs.Namespace)
		require.Empty(t, attrs.Name)
		require.Empty(t, attrs.Middleware)
		require.Empty(t, attrs.Domain)
	})

	t.Run("nested groups accumulate", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()

		var rt *internal.Route
		r.Group(internal.GroupAttributes{Prefix: "/api", Name: "api.", Middleware: []string{"throttle:60"}}, func(r *internal.Router) {
			r.Group(internal.GroupAttributes{Prefix: "v1", Name: "v1.", Middleware: []string{"auth:api"}}, func(r *internal.Router) {
				rt = r.Get("/posts", noop).Name("posts").Middleware("log")
			})
		})

		attrs := rt.Attributes()
		require.Equal(t, "/api/v1/posts", attrs.Path)
		require.Equal(t, "api.v1.posts", attrs.Name)
		require.Equal(t, []string{"throttle:60", "auth:api", "log"}, attrs.Middleware)
	})

	t.Run("scope is restored after panic", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()

		require.Panics(t, func() {
			r.Prefix("/broken", func(r *internal.Router) {
				panic("boom")
			})
		})
		require.Equal(t, "/after", r.Get("/after", noop).Path())
	})

	t.Run("builder group", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()

		r.Define().Prefix("/account").Middleware("auth").Name("account.").Namespace("account").Group(func(r *internal.Router) {
			r.Get("/profile", "ProfileController@show").Name("profile")
		})

		require.Equal(t, map[string]string{"account.profile": "/account/profile"}, r.Names())
		rt := r.Routes(http.MethodGet)[0]
		require.Equal(t, []string{"auth"}, rt.Attributes().Middleware)
		require.Equal(t, "account", rt.Attributes().Namespace)
	})

	t.Run("builder registration", func(t *testing.T) {
		t.Parallel()
		r := internal.NewRouter()

		b := r.Define().Middleware("csrf").Name("contact")
		rt := b.Post("/contact", noop)

		require.Equal(t, []string{"csrf"}, rt.Attributes().Middleware)
		require.Equal(t, "/contact", r.Names()["contact"])
	})
}

func TestRouterURL(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/blog/{year}/{slug?}", noop).Name("blog.show")
	r.Get("/users/{id}/edit", noop).Name("users.edit")
	r.Get("/", noop).Name("home")
	r.Get("/search/{term?}", noop).Name("search")

	tests := []struct {
		name   string
		route  string
		params map[string]any
		want   string
		err    error
	}{
		{name: "all params", route: "blog.show", params: map[string]any{"year": 2024, "slug": "hello"}, want: "/blog/2024/hello"},
		{name: "optional omitted", route: "blog.show", params: map[string]any{"year": "2024"}, want: "/blog/2024"},
		{name: "required missing", route: "blog.show", params: map[string]any{}, err: internal.ErrMissingParameter},
		{name: "middle placeholder", route: "users.edit", params: map[string]any{"id": 7}, want: "/users/7/edit"},
		{name: "root", route: "home", want: "/"},
		{name: "only optional", route: "search", want: "/search"},
		{name: "escaped value", route: "search", params: map[string]any{"term": "a b"}, want: "/search/a%20b"},
		{name: "unknown name", route: "nope", err: internal.ErrRouteNameNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.URL(tt.route, tt.params)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("missing parameter names the placeholder", func(t *testing.T) {
		t.Parallel()
		_, err := r.URL("users.edit", nil)
		var missing *internal.MissingParameterError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "id", missing.Parameter)
		require.Equal(t, "users.edit", missing.Name)
	})
}

func TestRouterURLRoundTrip(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/shop/{category}/{product}/{variant?}", noop).Name("product")

	for _, params := range []map[string]any{
		{"category": "shoes", "product": "runner"},
		{"category": "shoes", "product": "runner", "variant": "red"},
	} {
		url, err := r.URL("product", params)
		require.NoError(t, err)

		m, err := r.Lookup(http.MethodGet, "", url)
		require.NoError(t, err)
		for k, v := range params {
			got, ok := m.Params.Get(k)
			require.True(t, ok)
			require.Equal(t, v, got)
		}
	}
}

func TestRouterDuplicateNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	r := internal.NewRouter(internal.WithRouterLogger(log))

	r.Get("/first", noop).Name("dup")
	r.Get("/second", noop).Name("dup")

	url, err := r.URL("dup", nil)
	require.NoError(t, err)
	require.Equal(t, "/second", url)
	require.Contains(t, buf.String(), "duplicate route name")
}

func TestRouterDescriptor(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	rt := r.Get("/posts", internal.Descriptor{Uses: "PostController@index", As: "posts.index", Middleware: []string{"auth"}})

	attrs := rt.Attributes()
	require.Equal(t, "PostController@index", attrs.Handler)
	require.Equal(t, "posts.index", attrs.Name)
	require.Equal(t, []string{"auth"}, attrs.Middleware)

	require.PanicsWithError(t, "waypoint: invalid route configuration: route /broken: descriptor requires Uses", func() {
		r.Get("/broken", internal.Descriptor{As: "broken"})
	})
}

func TestRouterFreeze(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Get("/", noop)
	r.Freeze()

	require.Panics(t, func() { r.Get("/late", noop) })
}

func TestRouterFlushAndNames(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter(internal.WithDefaultNamespace(`App\Http\Controllers`))
	rt := r.Get("/", "HomeController@index").Name("home")
	require.Equal(t, "App/Http/Controllers", rt.Attributes().Namespace)

	r.Flush()
	require.Empty(t, r.Routes(http.MethodGet))
	require.Empty(t, r.Names())
}

func TestRouteNameHelpers(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	rt := r.Get("/x", noop).Name("show")
	rt.PrependName("admin.")
	require.Equal(t, "admin.show", rt.Attributes().Name)
	rt.AppendName(".json")
	require.Equal(t, "admin.show.json", rt.Attributes().Name)
	require.Equal(t, "/x", r.Names()["admin.show.json"])

	rt.PrependPrefix("/v1").AppendPrefix("raw")
	require.Equal(t, "/v1/x/raw", rt.Path())

	rt.PrependNamespace("api").AppendNamespace("v1")
	require.Equal(t, "api/controllers/v1", rt.Attributes().Namespace)
}

func TestRouterGlobalMiddleware(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.Use("requestid", " ", "recover")
	require.Equal(t, []string{"requestid", "recover"}, r.GlobalMiddleware())
}
