// Package logger builds the slog loggers used by Waypoint applications.
//
// A logger is configured from the environment:
//
//	var cfg logger.Config
//	if err := env.Parse(&cfg); err != nil { ... }
//	log, err := logger.NewFromConfig(cfg, middlewares.RequestIDExtractor())
//
// LOG_LEVEL selects the minimum level (debug, info, warn, error) and
// LOG_FORMAT selects "json" or "text" output. When SENTRY_DSN is set, warnings
// and errors are also forwarded to Sentry; an empty DSN keeps stdout only.
//
// # Context extractors
//
// A ContextExtractor turns a request-scoped context value into a log
// attribute. Extractors run on every record, so values stored on the request
// context after the logger was created (request ids, route names) are still
// picked up:
//
//	log := slog.New(logger.WithExtractors(slog.NewJSONHandler(os.Stdout, nil),
//	    logger.ValueExtractor(userKey{}, "user_id"),
//	))
//	log.InfoContext(ctx, "signed in")
//
// NewNope returns a logger that discards everything and is the default for
// routers and dispatchers created without one.
package logger
