package qc

import "strings"

// GeometryType enumerates the shape kinds a dataset can store.
type GeometryType string

// Supported geometry kinds.
const (
	GeometryTypePoint      GeometryType = "Point"
	GeometryTypePolyline   GeometryType = "Polyline"
	GeometryTypePolygon    GeometryType = "Polygon"
	GeometryTypeMultipoint GeometryType = "Multipoint"
	GeometryTypeMultiPatch GeometryType = "MultiPatch"
	GeometryTypeUnknown    GeometryType = "Unknown"
)

// UnknownCoordinateSystemName marks a dataset without a defined spatial reference.
const UnknownCoordinateSystemName = "Unknown"

// Status is the pass/fail outcome of an audit.
type Status string

// Audit outcomes.
const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// DatasetDescriptor identifies one dataset under audit.
type DatasetDescriptor struct {
	Name                 string
	GeometryType         GeometryType
	CoordinateSystemName string
	FieldNames           []string
}

// HasField reports whether the descriptor lists the field, ignoring case.
func (descriptor DatasetDescriptor) HasField(fieldName string) bool {
	for _, existingFieldName := range descriptor.FieldNames {
		if strings.EqualFold(strings.TrimSpace(existingFieldName), fieldName) {
			return true
		}
	}
	return false
}

// AttributeValue is a single cell that is either present with text or absent.
type AttributeValue struct {
	text    string
	present bool
}

// PresentValue wraps text read from a cell.
func PresentValue(text string) AttributeValue {
	return AttributeValue{text: text, present: true}
}

// AbsentValue represents a cell holding no value.
func AbsentValue() AttributeValue {
	return AttributeValue{}
}

// Text returns the cell text and whether the cell is present.
func (value AttributeValue) Text() (string, bool) {
	return value.text, value.present
}

// IsNullOrEmpty reports whether the cell is absent or blank after trimming whitespace.
func (value AttributeValue) IsNullOrEmpty() bool {
	if !value.present {
		return true
	}
	return len(strings.TrimSpace(value.text)) == 0
}

// AttributeRow holds cell values positionally aligned to the requested field list.
type AttributeRow []AttributeValue

// Verdict is the audit outcome for one dataset.
type Verdict struct {
	DatasetName          string
	GeometryType         GeometryType
	CoordinateSystemName string
	Status               Status
	Issues               []string
}

// NewVerdict starts a passing verdict for the descriptor.
func NewVerdict(descriptor DatasetDescriptor) Verdict {
	return Verdict{
		DatasetName:          descriptor.Name,
		GeometryType:         descriptor.GeometryType,
		CoordinateSystemName: descriptor.CoordinateSystemName,
		Status:               StatusPass,
	}
}

// DescribeFailureVerdict builds the verdict recorded when a dataset cannot be described.
func DescribeFailureVerdict(datasetName string, describeError error) Verdict {
	verdict := NewVerdict(DatasetDescriptor{
		Name:                 datasetName,
		GeometryType:         GeometryTypeUnknown,
		CoordinateSystemName: UnknownCoordinateSystemName,
	})
	verdict.fail(formatDescribeFailure(describeError))
	return verdict
}

// Passed reports whether no issue was recorded.
func (verdict Verdict) Passed() bool {
	return verdict.Status == StatusPass
}

// fail records an issue; FAIL is sticky once set.
func (verdict *Verdict) fail(issue string) {
	verdict.Status = StatusFail
	verdict.Issues = append(verdict.Issues, issue)
}
