// Package cli constructs the wells-qc command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the audit command.
package cli
