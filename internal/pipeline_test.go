package internal_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waypoint/internal"
)

// recorder appends its name and arguments to a shared trace.
func recorder(trace *[]string, name string) internal.MiddlewareFactory {
	return internal.Static(internal.MiddlewareFunc(func(c internal.Context, next internal.Next, args ...string) (any, error) {
		entry := name
		if len(args) > 0 {
			entry += ":" + strings.Join(args, ",")
		}
		*trace = append(*trace, entry)
		return next(c)
	}))
}

func newTestContext(method, target string) internal.Context {
	return internal.NewContext(httptest.NewRecorder(), httptest.NewRequest(method, target, nil))
}

func TestPipelineOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	aliases := map[string]internal.MiddlewareFactory{
		"first":  recorder(&trace, "first"),
		"second": recorder(&trace, "second"),
	}

	res, err := internal.NewPipeline(aliases, nil).
		Send(newTestContext(http.MethodGet, "/")).
		Through("first:a,b", "second").
		Then(func(c internal.Context) (*internal.Response, error) {
			trace = append(trace, "handler")
			return c.Response(), nil
		})

	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, []string{"first:a,b", "second", "handler"}, trace)
}

func TestPipelineShortCircuit(t *testing.T) {
	t.Parallel()

	var trace []string
	aliases := map[string]internal.MiddlewareFactory{
		"deny": internal.Static(internal.MiddlewareFunc(func(c internal.Context, next internal.Next, args ...string) (any, error) {
			trace = append(trace, "deny")
			c.Response().WithStatus(http.StatusForbidden)
			return "forbidden", nil
		})),
		"after": recorder(&trace, "after"),
	}

	w := httptest.NewRecorder()
	c := internal.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil))
	res, err := internal.NewPipeline(aliases, nil).
		Send(c).
		Through("deny", "after").
		Then(func(c internal.Context) (*internal.Response, error) {
			trace = append(trace, "handler")
			return c.Response(), nil
		})

	require.NoError(t, err)
	require.True(t, res.Sent())
	require.Equal(t, []string{"deny"}, trace)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "forbidden", w.Body.String())
}

func TestPipelineExceptList(t *testing.T) {
	t.Parallel()

	var trace []string
	aliases := map[string]internal.MiddlewareFactory{"auth": recorder(&trace, "auth")}

	// No action is bound on a standalone context, so except lists never apply.
	_, err := internal.NewPipeline(aliases, nil).
		Send(newTestContext(http.MethodGet, "/")).
		Through("auth|index").
		Run()
	require.NoError(t, err)
	require.Equal(t, []string{"auth"}, trace)
}

func TestPipelineMiddlewareNotFound(t *testing.T) {
	t.Parallel()

	_, err := internal.NewPipeline(nil, nil).
		Send(newTestContext(http.MethodGet, "/")).
		Through("missing").
		Run()

	var nf *internal.MiddlewareNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "missing", nf.Name)
}

func TestPipelineFactoryReceivesResolver(t *testing.T) {
	t.Parallel()

	container := internal.NewContainer()
	container.Instance("greeting", "hello")

	aliases := map[string]internal.MiddlewareFactory{
		"greet": func(r internal.Resolver) (internal.Middleware, error) {
			v, err := r.Resolve("greeting")
			if err != nil {
				return nil, err
			}
			return internal.MiddlewareFunc(func(c internal.Context, next internal.Next, _ ...string) (any, error) {
				c.SetHeader("X-Greeting", v.(string))
				return next(c)
			}), nil
		},
		"broken": func(internal.Resolver) (internal.Middleware, error) {
			return nil, errors.New("no config")
		},
	}

	c := newTestContext(http.MethodGet, "/")
	res, err := internal.NewPipeline(aliases, container).Send(c).Through("greet").Run()
	require.NoError(t, err)
	require.Equal(t, "hello", res.Header().Get("X-Greeting"))

	_, err = internal.NewPipeline(aliases, container).Send(c).Through("broken").Run()
	require.ErrorContains(t, err, "no config")
}

func TestPipelineInstancesAndErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p := internal.NewPipeline(nil, nil).
		Send(newTestContext(http.MethodGet, "/")).
		Pipe(internal.MiddlewareFunc(func(c internal.Context, next internal.Next, _ ...string) (any, error) {
			return nil, boom
		}))
	require.Equal(t, 1, p.Len())

	_, err := p.Run()
	require.ErrorIs(t, err, boom)
	require.Zero(t, p.Len())
}
