package internal

import (
	"slices"
	"strings"
)

// GroupAttributes are applied to every route registered inside a group.
// Prefix and Name accumulate across nested groups, Middleware is appended,
// Namespace and Domain replace the outer value when set.
type GroupAttributes struct {
	Prefix     string
	Namespace  string
	Domain     string
	Name       string
	Middleware []string
}

// scope is the ambient registration state while a group callback runs.
type scope struct {
	prefix     string
	namespace  string
	domain     string
	name       string
	middleware []string
}

func (s scope) enter(a GroupAttributes) scope {
	next := scope{
		prefix:     joinPath(s.prefix, a.Prefix),
		namespace:  s.namespace,
		domain:     s.domain,
		name:       s.name + strings.TrimSpace(a.Name),
		middleware: slices.Concat(s.middleware, a.Middleware),
	}
	if ns := strings.TrimSpace(a.Namespace); ns != "" {
		next.namespace = joinNamespace(ns)
	}
	if d := strings.TrimSpace(a.Domain); d != "" {
		next.domain = normalizeDomain(d)
	}
	return next
}

// Group registers the routes declared by fn with attrs applied.
// The previous scope is restored when fn returns, including on panic.
func (r *Router) Group(attrs GroupAttributes, fn func(r *Router)) {
	r.scopes = append(r.scopes, r.current().enter(attrs))
	defer func() {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}()
	fn(r)
}

// Prefix is shorthand for a group with only a path prefix.
func (r *Router) Prefix(prefix string, fn func(r *Router)) {
	r.Group(GroupAttributes{Prefix: prefix}, fn)
}

func (r *Router) current() scope {
	return r.scopes[len(r.scopes)-1]
}
