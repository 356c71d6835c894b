// Package logging provides structured logging for structdxf.
//
// It wraps log/slog so every component logs with the same handler, level
// and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("drawing imported", "file", path, "elements", n)
//	logger.Error("saving model failed", "error", err)
//
// Never log MQTT passwords or InfluxDB tokens.
package logging
