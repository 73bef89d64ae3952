// Package logger provides structured logging on top of Uber's zap.
//
// LoggerClient writes JSON (or console) entries with ISO8601 timestamps,
// capitalised levels and "service" and "pid" fields. Every method takes a
// message, an optional error and optional field maps:
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "sliderule-cli",
//	})
//	log.Info("request complete", nil, map[string]interface{}{"records": 120})
//	log.Warn("stream truncated", err, map[string]interface{}{"api": "atl06"})
//
// The *WithContext variants add trace_id and span_id when
// Config.EnableTracing is set and ctx carries a recording span.
//
// # Server Messages
//
// The SlideRule service streams its own log and exception records.
// ServerLevel mirrors its levels (DEBUG, INFO, WARNING, ERROR, CRITICAL) and
// Server writes such a message at the matching zap level with origin=server
// and the original level name in "server_level", so client and server
// messages can be told apart.
//
// # Components
//
// Packages that log accept a small interface instead of *LoggerClient, so tests
// can pass a recorder and a nil logger disables output. NewNop returns a
// client that discards everything.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule, // provides *LoggerClient, syncs it on stop
//	    fx.Supply(logger.Config{Level: logger.Debug}),
//	)
package logger
