// Package routecache persists compiled route tables so an application can
// boot without re-evaluating its route definitions.
//
// A [Table] is a plain, serializable snapshot of a router: the routes per
// HTTP method in match order, the route name index, and the global
// middleware directives. Only routes whose handler is a
// "Controller@method" reference can be cached; closures have no
// serializable form.
//
// Tables are encoded as YAML and carry a [SchemaVersion]. Loading a table
// written with a different schema version fails with [ErrVersionMismatch]
// instead of silently producing a broken router.
//
// # Stores
//
// [Store] is implemented by:
//
//   - [FileStore]: a single YAML file on disk, written atomically.
//   - [RedisStore]: a single key in Redis.
//   - [PostgresStore]: one row in a key/payload table.
//   - [MemoryStore]: an in-process store for tests and tooling.
//
// Every store returns [ErrNotFound] from Load when no table has been saved,
// and Delete on a missing table is not an error.
//
// # Usage
//
//	store := routecache.NewFileStore("bootstrap/cache/routes.yaml")
//
//	table, err := store.Load(ctx)
//	switch {
//	case errors.Is(err, routecache.ErrNotFound):
//	    // build routes from definitions
//	case err != nil:
//	    return err
//	}
package routecache
