package qc

import (
	"fmt"
	"strings"
)

const (
	invalidNamingMessageConstant           = "Invalid Naming Format (Required: <CODE>_<YEAR>_WELLS)"
	invalidGeometryTemplateConstant        = "Invalid Geometry (Required: %s, Actual: %s)"
	unknownCoordinateSystemMessageConstant = "Unknown Coordinate System"
	missingFieldsTemplateConstant          = "Missing Attribute Fields: %s"
	nullCellTemplateConstant               = "Row %d (%s is Null/Empty)"
	nullDataTemplateConstant               = "Null Data Detected: [%s]"
	readFailureTemplateConstant            = "Failed to read table: %v"
	describeFailureTemplateConstant        = "Failed to describe dataset: %v"
	checkPanicTemplateConstant             = "Rule check %s failed: %v"
	rowWidthMismatchTemplateConstant       = "row %d has %d values, expected %d"
	rowSourceMissingMessageConstant        = "row source not configured"
	listSeparatorConstant                  = ", "
	namingCheckNameConstant                = "naming"
	geometryCheckNameConstant              = "geometry"
	coordinateSystemCheckNameConstant      = "coordinate_system"
	attributeCheckNameConstant             = "attributes"
)

func formatInvalidGeometry(required GeometryType, actual GeometryType) string {
	return fmt.Sprintf(invalidGeometryTemplateConstant, required, actual)
}

func formatMissingFields(missingFieldNames []string) string {
	return fmt.Sprintf(missingFieldsTemplateConstant, strings.Join(missingFieldNames, listSeparatorConstant))
}

func formatNullCell(rowNumber int, fieldName string) string {
	return fmt.Sprintf(nullCellTemplateConstant, rowNumber, fieldName)
}

func formatNullData(nullCells []string) string {
	return fmt.Sprintf(nullDataTemplateConstant, strings.Join(nullCells, listSeparatorConstant))
}

func formatReadFailure(readError error) string {
	return fmt.Sprintf(readFailureTemplateConstant, readError)
}

func formatDescribeFailure(describeError error) string {
	return fmt.Sprintf(describeFailureTemplateConstant, describeError)
}

func formatCheckPanic(checkName string, recovered any) string {
	return fmt.Sprintf(checkPanicTemplateConstant, checkName, recovered)
}
