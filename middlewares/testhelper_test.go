package middlewares_test

import (
	"net/http/httptest"

	"github.com/dmitrymomot/waypoint/internal"
)

// stack dispatches requests through the named middleware, registered as
// global directives in the given order.
type stack struct {
	router  *internal.Router
	aliases map[string]internal.MiddlewareFactory
	opts    []internal.DispatcherOption
}

func newStack(mws ...any) *stack {
	s := &stack{
		router:  internal.NewRouter(),
		aliases: make(map[string]internal.MiddlewareFactory),
	}
	for i := 0; i+1 < len(mws); i += 2 {
		name := mws[i].(string)
		s.aliases[name] = internal.Static(mws[i+1].(internal.Middleware))
		s.router.Use(name)
	}
	return s
}

func (s *stack) serve(method, target string, header ...string) *httptest.ResponseRecorder {
	opts := append([]internal.DispatcherOption{internal.WithAliases(s.aliases)}, s.opts...)
	d := internal.NewDispatcher(s.router, opts...)

	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	d.ServeHTTP(w, req)
	return w
}

func text(body string) internal.HandlerFunc {
	return func(c internal.Context) (any, error) {
		return body, nil
	}
}
