// Package waypoint is an HTTP routing and middleware-dispatch core for
// controller-style web applications.
//
// Routes are registered per HTTP method with path templates, named for
// reverse URL generation, grouped under shared prefixes, namespaces,
// domains and middleware, and dispatched through an onion middleware
// pipeline to closures or "Controller@method" actions.
//
// # Quick Start
//
//	app, err := waypoint.New(
//	    waypoint.WithRoutes(func(r *waypoint.Router) {
//	        r.Get("/", "HomeController@index").Name("home")
//	        r.Define().Prefix("/posts").Name("posts.").Group(func(r *waypoint.Router) {
//	            r.Get("/{slug}", "PostController@show").Name("show").Where("slug", `[a-z0-9-]+`)
//	        })
//	    }),
//	    waypoint.WithController("controllers/HomeController", NewHomeController),
//	    waypoint.WithController("controllers/PostController", NewPostController),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Route templates
//
// Placeholders are written in braces; a trailing "?" makes one optional.
// An absent optional placeholder is dropped with its leading slash, so
// "/posts/{page?}" matches both "/posts" and "/posts/2". Where constraints
// replace the default placeholder expression.
//
// # Middleware
//
// Middleware is referenced by directive strings resolved through aliases
// registered with WithMiddlewareAlias. "throttle:60,1" passes arguments,
// "auth|index,show" skips the middleware for the listed controller actions.
// Global directives run first, then route directives, then the
// controller's own. A middleware returning anything but a *Response ends
// the request with that value as the body.
//
// # Route cache
//
// A route table built only from controller actions can be exported to a
// RouteCache (file, Redis or PostgreSQL, see pkg/routecache). Apps created
// with WithRouteCache boot from the snapshot and skip route definitions.
// The console package provides route:cache and route:list commands.
package waypoint
