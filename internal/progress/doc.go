// Package progress provides the reporter capability through which audits emit
// per-dataset outcome lines, progress updates and the final summary.
package progress
