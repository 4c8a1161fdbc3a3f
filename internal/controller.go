package internal

import (
	"slices"
	"strings"
	"sync"
)

// Controller groups actions addressed by "Controller@method" handlers.
type Controller interface {
	// Middleware returns directives applied to every action, after route middleware.
	Middleware() []string

	// Action returns the callable registered under name (case-insensitive).
	Action(name string) (Callable, bool)
}

// BaseController implements Controller. Embed it and register actions
// in the controller factory:
//
//	type UserController struct {
//	    waypoint.BaseController
//	    repo *UserRepo
//	}
//
//	func NewUserController(r waypoint.Resolver) (any, error) {
//	    c := &UserController{}
//	    c.Use("auth|index")
//	    c.Handle("index", c.index)
//	    c.Handle("show", c.show)
//	    return c, nil
//	}
type BaseController struct {
	middleware []string
	actions    map[string]Callable
}

// Use appends controller middleware directives.
func (b *BaseController) Use(directives ...string) {
	b.middleware = append(b.middleware, directives...)
}

// Register adds an action.
func (b *BaseController) Register(name string, h Callable) {
	if b.actions == nil {
		b.actions = make(map[string]Callable)
	}
	b.actions[strings.ToLower(name)] = h
}

// Handle adds a HandlerFunc action.
func (b *BaseController) Handle(name string, fn HandlerFunc) {
	b.Register(name, fn)
}

func (b *BaseController) Middleware() []string {
	return slices.Clone(b.middleware)
}

func (b *BaseController) Action(name string) (Callable, bool) {
	h, ok := b.actions[strings.ToLower(name)]
	return h, ok
}

// ControllerFactory constructs a controller for one request.
type ControllerFactory func(r Resolver) (any, error)

// Controllers maps controller type ids ("namespace/Name") to factories.
type Controllers struct {
	mu        sync.RWMutex
	factories map[string]ControllerFactory
}

// NewControllers creates an empty registry.
func NewControllers() *Controllers {
	return &Controllers{factories: make(map[string]ControllerFactory)}
}

// Register adds a factory under a type id such as "controllers/UserController".
func (cs *Controllers) Register(id string, f ControllerFactory) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.factories[joinNamespace(id)] = f
}

// Lookup returns the factory for a type id.
func (cs *Controllers) Lookup(id string) (ControllerFactory, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	f, ok := cs.factories[joinNamespace(id)]
	return f, ok
}

// ControllerID builds the type id of a controller name inside a namespace.
func ControllerID(namespace, controller string) string {
	return joinNamespace(namespace, controller)
}
