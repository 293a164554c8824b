// Package report accumulates per-dataset verdicts into the QC wells audit table
// and writes the table as a timestamped delimited or spreadsheet file.
package report
