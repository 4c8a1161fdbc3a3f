// Package console provides the cobra commands shipped with Waypoint
// applications:
//
//	route:list            print the active route table
//	route:cache --create  snapshot the route definitions into the cache store
//	route:cache           delete the cached snapshot
//	serve                 boot the app and serve HTTP until interrupted
//
// Commands build the application through a Kernel, so the binary decides how
// configuration, logging and stores are wired:
//
//	root := console.New("blog", func(opts ...waypoint.Option) (*waypoint.App, error) {
//	    return waypoint.New(append(appOptions, opts...)...)
//	})
//	if err := root.ExecuteContext(ctx); err != nil { ... }
package console
