// Package qc implements the quality-control rule engine applied to well-location
// point datasets.
//
// Engine evaluates one DatasetDescriptor together with its attribute rows and
// returns a Verdict. The four checks (naming, geometry, coordinate system and
// attribute completeness) run unconditionally and record their failures as
// issues instead of returning errors.
package qc
