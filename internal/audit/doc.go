// Package audit drives a WELLS quality-control run.
//
// CommandBuilder wires the `audit <input-location> <output-location>` Cobra command.
// Service enumerates the dataset catalog, evaluates each dataset with the rule engine,
// reports one progress line per dataset in catalog order and writes the QC report.
package audit
