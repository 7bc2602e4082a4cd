// Package logger provides structured logging for the discovery service
// using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("discovery").WithComponent("registry")
//	log.Info("service registered", logger.Fields("service_id", id, "network", network))
package logger
