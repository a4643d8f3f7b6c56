// Package logging provides structured logging for the homink daemon.
//
// It wraps Go's standard log/slog package so every component logs with
// the same defaults: a service field, the build version, level-based
// filtering, and JSON (production) or text (bench testing) output.
//
// Logging is configured via the LoggingConfig section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// The change-detection diagnostics ("<sensor>: Threshold exceeded - ...")
// are emitted at debug level; run with level: debug to watch refresh
// decisions being made.
package logging
