// Package utils exposes the shared plumbing of the wells-qc CLI.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, plus the flushing writer used
// by console output.
package utils
