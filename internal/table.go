package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/waypoint/pkg/routecache"
	"github.com/dmitrymomot/waypoint/pkg/routefile"
)

// Export snapshots the route table. Every route must use a
// "Controller@method" handler; closures fail with ErrUncacheableRoute.
func (r *Router) Export() (*routecache.Table, error) {
	t := routecache.NewTable()
	t.Middleware = slices.Clone(r.global)

	var errs []error
	for _, method := range r.methods() {
		for _, rt := range r.routes[method] {
			if !rt.handler.cacheable() {
				errs = append(errs, fmt.Errorf("%w: %s %s (%s)",
					routecache.ErrUncacheableRoute, method, rt.path, rt.handler))
				continue
			}
			t.Add(method, routecache.Record{
				Path:        rt.path,
				Handler:     rt.handler.String(),
				Name:        rt.registeredName(),
				Namespace:   rt.namespace,
				Domain:      rt.domain,
				Middleware:  slices.Clone(rt.middleware),
				Constraints: maps.Clone(rt.constraints),
			})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	t.Names = r.Names()
	return t, nil
}

// Import replaces the route table with a snapshot produced by Export.
func (r *Router) Import(t *routecache.Table) error {
	if r.frozen {
		return ErrRouterFrozen
	}
	if err := t.Validate(); err != nil {
		return err
	}

	r.Flush()
	r.global = slices.Clone(t.Middleware)

	for method, records := range t.Routes {
		method = strings.ToUpper(method)
		for _, rec := range records {
			rt := newRoute(r)
			rt.methods = []string{method}
			rt.path = normalizePath(rec.Path)
			rt.handler = toHandlerRef(rec.Handler)
			rt.name = rec.Name
			rt.named = rec.Name != ""
			rt.namespace = rec.Namespace
			rt.domain = rec.Domain
			rt.middleware = slices.Clone(rec.Middleware)
			rt.constraints = maps.Clone(rec.Constraints)
			rt.attached = true
			r.routes[method] = append(r.routes[method], rt)
		}
	}

	for name, path := range t.Names {
		r.names[name] = namedRoute{path: path, route: r.findNamed(name)}
	}
	return nil
}

// ImportFiles registers the routes declared in definition files.
func (r *Router) ImportFiles(files ...*routefile.File) error {
	if r.frozen {
		return ErrRouterFrozen
	}
	for _, f := range files {
		r.Use(f.Middleware...)
		r.importRoutes(f.Routes)
		r.importGroups(f.Groups)
	}
	return nil
}

func (r *Router) importRoutes(defs []routefile.RouteDef) {
	for _, d := range defs {
		b := r.Define().
			Middleware(d.Middleware...).
			WhereAll(d.Where).
			Name(d.Name)
		if d.Namespace != "" {
			b.Namespace(d.Namespace)
		}
		if d.Domain != "" {
			b.Domain(d.Domain)
		}
		b.Match(d.Verbs(), d.Path, d.Handler)
	}
}

func (r *Router) importGroups(defs []routefile.GroupDef) {
	for _, g := range defs {
		r.Group(GroupAttributes{
			Prefix:     g.Prefix,
			Namespace:  g.Namespace,
			Domain:     g.Domain,
			Name:       g.Name,
			Middleware: g.Middleware,
		}, func(r *Router) {
			r.importRoutes(g.Routes)
			r.importGroups(g.Groups)
		})
	}
}

// methods returns the registered methods: supported ones in table order,
// then any others sorted.
func (r *Router) methods() []string {
	known := Methods()
	out := make([]string, 0, len(r.routes))
	for _, m := range known {
		if len(r.routes[m]) > 0 {
			out = append(out, m)
		}
	}
	var extra []string
	for m, list := range r.routes {
		if len(list) > 0 && !slices.Contains(known, m) {
			extra = append(extra, m)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func (r *Router) findNamed(name string) *Route {
	for _, m := range r.methods() {
		for _, rt := range r.routes[m] {
			if rt.named && rt.name == name {
				return rt
			}
		}
	}
	return nil
}
