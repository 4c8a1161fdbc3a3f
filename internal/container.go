package internal

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Resolver produces dependencies by key.
type Resolver interface {
	Resolve(key string) (any, error)
}

// Factory constructs a dependency.
type Factory func(r Resolver) (any, error)

type binding struct {
	factory Factory
	shared  bool
}

// Container is a minimal dependency registry keyed by strings.
// Use TypeKey to derive keys from Go types.
type Container struct {
	mu        sync.RWMutex
	bindings  map[string]binding
	instances map[string]any
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		bindings:  make(map[string]binding),
		instances: make(map[string]any),
	}
}

// Bind registers a factory invoked on every resolution.
func (c *Container) Bind(key string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[key] = binding{factory: f}
	delete(c.instances, key)
}

// Singleton registers a factory invoked once; the result is reused.
func (c *Container) Singleton(key string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[key] = binding{factory: f, shared: true}
	delete(c.instances, key)
}

// Instance registers a ready value.
func (c *Container) Instance(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, key)
	c.instances[key] = v
}

// Has reports whether key can be resolved.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, bound := c.bindings[key]
	_, ok := c.instances[key]
	return bound || ok
}

// Resolve returns the value bound to key.
func (c *Container) Resolve(key string) (any, error) {
	c.mu.RLock()
	if v, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDependencyNotBound, key)
	}

	// Factories may resolve other keys, so the lock is not held while they run.
	v, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("waypoint: resolve %s: %w", key, err)
	}
	if !b.shared {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.instances[key]; ok {
		return existing, nil
	}
	c.instances[key] = v
	return v, nil
}

// TypeKey returns the container key used for T.
func TypeKey[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Provide registers a typed singleton under TypeKey[T].
func Provide[T any](c *Container, f func(r Resolver) (T, error)) {
	c.Singleton(TypeKey[T](), func(r Resolver) (any, error) {
		return f(r)
	})
}

// ResolveAs resolves the dependency registered under TypeKey[T].
func ResolveAs[T any](r Resolver) (T, error) {
	var zero T
	v, err := r.Resolve(TypeKey[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("waypoint: resolve %s: unexpected type %T", TypeKey[T](), v)
	}
	return t, nil
}

// Parameter describes one parameter of an Injected handler.
// Parameters with a Dependency are resolved from the container, the rest
// are filled from route arguments.
type Parameter struct {
	Name       string
	Dependency string
	Optional   bool
}

// Arg declares a route-argument parameter.
func Arg(name string) Parameter {
	return Parameter{Name: name}
}

// Dep declares a container-resolved parameter.
func Dep(name, key string) Parameter {
	return Parameter{Name: name, Dependency: key}
}

// Injected is a handler whose parameters are partly resolved from the container.
//
// Example:
//
//	waypoint.Injected{
//	    Params: []waypoint.Parameter{waypoint.Dep("repo", "posts"), waypoint.Arg("slug")},
//	    Fn: func(c waypoint.Context, args []any) (any, error) {
//	        repo, slug := args[0].(*PostRepo), args[1].(string)
//	        return repo.Find(c, slug)
//	    },
//	}
type Injected struct {
	Params []Parameter
	Fn     func(c Context, args []any) (any, error)
}

func (h Injected) Call(c Context, args []string) (any, error) {
	values, err := SpliceArguments(h.Params, args, c.Resolver())
	if err != nil {
		return nil, err
	}
	return h.Fn(c, values)
}

// SpliceArguments builds the final argument list: route arguments in order,
// with each required dependency inserted at its declared parameter index.
// Optional dependencies are skipped. An index past the end appends.
func SpliceArguments(params []Parameter, args []string, r Resolver) ([]any, error) {
	out := make([]any, 0, len(params)+len(args))
	for _, a := range args {
		out = append(out, a)
	}
	for i, p := range params {
		if p.Dependency == "" || p.Optional {
			continue
		}
		if r == nil {
			return nil, fmt.Errorf("%w: %s", ErrDependencyNotBound, p.Dependency)
		}
		v, err := r.Resolve(p.Dependency)
		if err != nil {
			return nil, fmt.Errorf("waypoint: parameter %q: %w", p.Name, err)
		}
		out = slices.Insert(out, min(i, len(out)), v)
	}
	return out, nil
}
