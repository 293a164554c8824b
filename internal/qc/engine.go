package qc

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// RequiredWellFields lists the attribute columns every wells dataset must carry, in read order.
var RequiredWellFields = []string{"UWI", "WELL_NAME", "CLASS", "OPERATOR", "LONGITUDE", "LATITUDE"}

// RequiredWellGeometry is the only geometry kind accepted for wells datasets.
const RequiredWellGeometry = GeometryTypePoint

var wellsDatasetNamePattern = regexp.MustCompile(`(?i)^[A-Za-z0-9]+_[0-9]{4}_WELLS$`)

var errRowSourceMissing = errors.New(rowSourceMissingMessageConstant)

// Engine applies the wells quality-control contract to datasets.
type Engine struct {
	namePattern      *regexp.Regexp
	requiredGeometry GeometryType
	requiredFields   []string
}

// NewWellsEngine constructs the engine enforcing the WELLS contract.
func NewWellsEngine() *Engine {
	requiredFields := make([]string, len(RequiredWellFields))
	copy(requiredFields, RequiredWellFields)
	return &Engine{
		namePattern:      wellsDatasetNamePattern,
		requiredGeometry: RequiredWellGeometry,
		requiredFields:   requiredFields,
	}
}

// ValidName reports whether the dataset name follows <CODE>_<YEAR>_WELLS.
func (engine *Engine) ValidName(datasetName string) bool {
	return engine.namePattern.MatchString(datasetName)
}

// Evaluate runs every check against the descriptor and returns the verdict.
// Rows are consumed at most once and only when the geometry and schema checks pass.
func (engine *Engine) Evaluate(executionContext context.Context, descriptor DatasetDescriptor, rowSource RowSource) Verdict {
	verdict := NewVerdict(descriptor)

	engine.runCheck(&verdict, namingCheckNameConstant, func(verdict *Verdict) {
		engine.checkNaming(verdict, descriptor)
	})
	engine.runCheck(&verdict, geometryCheckNameConstant, func(verdict *Verdict) {
		engine.checkGeometry(verdict, descriptor)
	})
	engine.runCheck(&verdict, coordinateSystemCheckNameConstant, func(verdict *Verdict) {
		engine.checkCoordinateSystem(verdict, descriptor)
	})
	engine.runCheck(&verdict, attributeCheckNameConstant, func(verdict *Verdict) {
		engine.checkAttributes(executionContext, verdict, descriptor, rowSource)
	})

	return verdict
}

func (engine *Engine) runCheck(verdict *Verdict, checkName string, check func(*Verdict)) {
	defer func() {
		if recovered := recover(); recovered != nil {
			verdict.fail(formatCheckPanic(checkName, recovered))
		}
	}()
	check(verdict)
}

func (engine *Engine) checkNaming(verdict *Verdict, descriptor DatasetDescriptor) {
	if !engine.ValidName(descriptor.Name) {
		verdict.fail(invalidNamingMessageConstant)
	}
}

func (engine *Engine) checkGeometry(verdict *Verdict, descriptor DatasetDescriptor) {
	if descriptor.GeometryType != engine.requiredGeometry {
		verdict.fail(formatInvalidGeometry(engine.requiredGeometry, descriptor.GeometryType))
	}
}

func (engine *Engine) checkCoordinateSystem(verdict *Verdict, descriptor DatasetDescriptor) {
	if descriptor.CoordinateSystemName == UnknownCoordinateSystemName {
		verdict.fail(unknownCoordinateSystemMessageConstant)
	}
}

// checkAttributes is skipped for miscategorized geometry; null content is only read once the schema is complete.
func (engine *Engine) checkAttributes(executionContext context.Context, verdict *Verdict, descriptor DatasetDescriptor, rowSource RowSource) {
	if descriptor.GeometryType != engine.requiredGeometry {
		return
	}

	missingFieldNames := engine.missingFields(descriptor)
	if len(missingFieldNames) > 0 {
		verdict.fail(formatMissingFields(missingFieldNames))
		return
	}

	nullCells, readError := engine.collectNullCells(executionContext, rowSource)
	if readError != nil {
		verdict.fail(formatReadFailure(readError))
	}
	if len(nullCells) > 0 {
		verdict.fail(formatNullData(nullCells))
	}
}

func (engine *Engine) missingFields(descriptor DatasetDescriptor) []string {
	var missingFieldNames []string
	for _, requiredFieldName := range engine.requiredFields {
		if !descriptor.HasField(requiredFieldName) {
			missingFieldNames = append(missingFieldNames, requiredFieldName)
		}
	}
	return missingFieldNames
}

// collectNullCells enumerates every null or blank cell. Cells gathered before a read failure are kept.
func (engine *Engine) collectNullCells(executionContext context.Context, rowSource RowSource) (nullCells []string, readError error) {
	if rowSource == nil {
		return nil, errRowSourceMissing
	}

	iterator, openError := rowSource.OpenRows(engine.requiredFields)
	if openError != nil {
		return nil, openError
	}
	defer func() {
		if closeError := iterator.Close(); closeError != nil && readError == nil {
			readError = closeError
		}
	}()

	rowNumber := 0
	for iterator.Next() {
		rowNumber++
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return nullCells, contextError
			}
		}

		row := iterator.Row()
		if len(row) != len(engine.requiredFields) {
			return nullCells, fmt.Errorf(rowWidthMismatchTemplateConstant, rowNumber, len(row), len(engine.requiredFields))
		}

		for columnIndex, value := range row {
			if value.IsNullOrEmpty() {
				nullCells = append(nullCells, formatNullCell(rowNumber, engine.requiredFields[columnIndex]))
			}
		}
	}

	return nullCells, iterator.Err()
}
