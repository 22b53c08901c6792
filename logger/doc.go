// Package logger provides structured logging for chimney using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Debug("request sent", logger.Fields("method", "GET"))
package logger
