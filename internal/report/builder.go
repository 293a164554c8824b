package report

import (
	"strings"
	"sync"

	"github.com/temirov/wellsqc/internal/qc"
)

const (
	// CleanNoteConstant is the note recorded for datasets without issues.
	CleanNoteConstant = "Data Clean & Compliant"
	// IssueSeparatorConstant joins the issues of one dataset into its note.
	IssueSeparatorConstant = " | "

	headerFileNameConstant         = "File Name"
	headerGeometryTypeConstant     = "Geometry Type"
	headerCoordinateSystemConstant = "Coordinate System"
	headerStatusConstant           = "QC STATUS"
	headerErrorNotesConstant       = "Error Notes"
)

// Header returns the fixed report column names.
func Header() []string {
	return []string{
		headerFileNameConstant,
		headerGeometryTypeConstant,
		headerCoordinateSystemConstant,
		headerStatusConstant,
		headerErrorNotesConstant,
	}
}

// Row models a single report line.
type Row struct {
	FileName         string
	GeometryType     string
	CoordinateSystem string
	Status           string
	ErrorNotes       string
}

// Record returns the row formatted for tabular encoding.
func (row Row) Record() []string {
	return []string{
		row.FileName,
		row.GeometryType,
		row.CoordinateSystem,
		row.Status,
		row.ErrorNotes,
	}
}

// ComposeNote joins verdict issues or returns the clean sentinel when there are none.
func ComposeNote(verdict qc.Verdict) string {
	if len(verdict.Issues) == 0 {
		return CleanNoteConstant
	}
	return strings.Join(verdict.Issues, IssueSeparatorConstant)
}

// NewRow flattens a verdict into a report row.
func NewRow(verdict qc.Verdict) Row {
	return Row{
		FileName:         verdict.DatasetName,
		GeometryType:     string(verdict.GeometryType),
		CoordinateSystem: verdict.CoordinateSystemName,
		Status:           string(verdict.Status),
		ErrorNotes:       ComposeNote(verdict),
	}
}

// Table is a rendered report: header first, then one record per dataset.
type Table [][]string

// Builder accumulates report rows in append order. It is safe for concurrent use.
type Builder struct {
	mutex sync.Mutex
	rows  []Row
}

// NewBuilder constructs an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append converts the verdict to a row and appends it.
func (builder *Builder) Append(verdict qc.Verdict) Row {
	row := NewRow(verdict)

	builder.mutex.Lock()
	defer builder.mutex.Unlock()
	builder.rows = append(builder.rows, row)

	return row
}

// Len returns the number of accumulated rows.
func (builder *Builder) Len() int {
	builder.mutex.Lock()
	defer builder.mutex.Unlock()
	return len(builder.rows)
}

// Rows returns a copy of the accumulated rows.
func (builder *Builder) Rows() []Row {
	builder.mutex.Lock()
	defer builder.mutex.Unlock()

	duplicatedRows := make([]Row, len(builder.rows))
	copy(duplicatedRows, builder.rows)
	return duplicatedRows
}

// Render produces the header followed by every accumulated row. Internal state is not modified.
func (builder *Builder) Render() Table {
	rows := builder.Rows()

	table := make(Table, 0, len(rows)+1)
	table = append(table, Header())
	for _, row := range rows {
		table = append(table, row.Record())
	}
	return table
}
