package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint"
	"github.com/dmitrymomot/waypoint/pkg/logger"
)

func testConfig(t *testing.T) config {
	t.Helper()
	return config{
		Name:        "waypoint",
		Address:     "127.0.0.1:0",
		RoutesGlob:  "**/*.yaml",
		CacheDriver: cacheNone,
		CacheFile:   filepath.Join(t.TempDir(), "routes.yaml"),
		APIToken:    "api-key",
	}
}

func newTestApp(t *testing.T, cfg config) *waypoint.App {
	t.Helper()

	store, err := openCacheStore(context.Background(), cfg)
	require.NoError(t, err)

	kernel, err := newKernel(cfg, logger.NewNope(), store)
	require.NoError(t, err)

	app, err := kernel()
	require.NoError(t, err)
	return app
}

func request(h http.Handler, method, target string, body url.Values, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestBlog(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, testConfig(t))
	require.Equal(t, []string{"request_id", "recover", "metrics", "trace"}, app.Router().GlobalMiddleware())
	h := app.Handler()

	t.Run("home links to posts", func(t *testing.T) {
		w := request(h, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"app":"waypoint","posts":"/posts"}`, w.Body.String())
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("show post", func(t *testing.T) {
		w := request(h, http.MethodGet, "/posts/hello-waypoint", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"slug":"hello-waypoint","title":"Hello, Waypoint"}`, w.Body.String())

		w = request(h, http.MethodGet, "/posts/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		w = request(h, http.MethodGet, "/posts/Not_A_Slug", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("api requires token", func(t *testing.T) {
		w := request(h, http.MethodGet, "/api/v1/posts", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = request(h, http.MethodGet, "/api/v1/posts", nil, "Authorization", "Bearer api-key")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"slug":"hello-waypoint"`)

		w = request(h, http.MethodGet, "/api/v1/posts/2", nil, "Authorization", "Bearer api-key")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "[]", w.Body.String())
	})

	t.Run("create post", func(t *testing.T) {
		form := url.Values{"slug": {"new-post"}, "title": {"New post"}}
		w := request(h, http.MethodPost, "/api/v1/posts", form, "Authorization", "Bearer api-key")
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "/posts/new-post", w.Header().Get("Location"))

		w = request(h, http.MethodGet, "/posts/new-post", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = request(h, http.MethodPost, "/api/v1/posts", url.Values{"slug": {"x"}}, "Authorization", "Bearer api-key")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("metrics and health", func(t *testing.T) {
		w := request(h, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "waypoint_http_requests_total")

		w = request(h, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoutesDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.yaml"), []byte(`
routes:
  - path: /
    handler: HomeController@index
  - path: /posts
    handler: PostController@index
    name: posts.index
`), 0o644))

	cfg := testConfig(t)
	cfg.RoutesDir = dir
	app := newTestApp(t, cfg)

	w := request(app.Handler(), http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(app.Handler(), http.MethodGet, "/api/v1/posts", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	cfg.RoutesDir = filepath.Join(dir, "missing")
	_, err := newKernel(cfg, logger.NewNope(), &cacheStore{})
	require.Error(t, err)
}

func TestFileCacheDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.CacheDriver = cacheFile

	store, err := openCacheStore(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, store.options(), 1)
	require.Empty(t, store.healthChecks())
	require.NoError(t, store.close(context.Background()))

	kernel, err := newKernel(cfg, logger.NewNope(), store)
	require.NoError(t, err)

	app, err := kernel(waypoint.WithCacheBypass())
	require.NoError(t, err)
	table, err := app.Router().Export()
	require.NoError(t, err)
	require.NoError(t, store.store.Save(context.Background(), table))

	app, err = kernel()
	require.NoError(t, err)
	require.Equal(t, "cache", app.Source())

	w := request(app.Handler(), http.MethodGet, "/posts/route-caching", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownCacheDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.CacheDriver = "memcached"

	_, err := openCacheStore(context.Background(), cfg)
	require.ErrorIs(t, err, waypoint.ErrInvalidConfiguration)
}
