package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/temirov/wellsqc/internal/qc"
)

const (
	attributePaddingConstant            = " \x00"
	recordCountMismatchTemplateConstant = "%w: attribute table declares %d records, shapes yielded %d"
)

var (
	errFieldNotPresent     = errors.New("field not present in attribute table")
	errRecordCountMismatch = errors.New("shape and attribute record counts differ")
)

type shapefileRowSource struct {
	path string
}

// OpenRows opens the shapefile and resolves the requested fields case-insensitively.
func (source shapefileRowSource) OpenRows(fieldNames []string) (qc.RowIterator, error) {
	files, openError := openShapefileFiles(source.path)
	if openError != nil {
		return nil, openError
	}

	declaredRecordCount, countError := files.recordCount()
	if countError != nil {
		_ = files.Close()
		return nil, countError
	}

	reader, readerError := files.sequentialReader()
	if readerError != nil {
		_ = files.Close()
		return nil, readerError
	}

	fieldIndexes, resolveError := resolveFieldIndexes(reader.Fields(), fieldNames)
	if resolveError != nil {
		_ = files.Close()
		return nil, resolveError
	}

	return &shapefileRowIterator{
		files:               files,
		reader:              reader,
		fieldIndexes:        fieldIndexes,
		declaredRecordCount: declaredRecordCount,
	}, nil
}

func resolveFieldIndexes(fields []shp.Field, fieldNames []string) ([]int, error) {
	fieldIndexes := make([]int, 0, len(fieldNames))
	for _, requestedFieldName := range fieldNames {
		resolvedIndex := -1
		for fieldIndex, field := range fields {
			if strings.EqualFold(fieldName(field), requestedFieldName) {
				resolvedIndex = fieldIndex
				break
			}
		}
		if resolvedIndex < 0 {
			return nil, fmt.Errorf("%w: %s", errFieldNotPresent, requestedFieldName)
		}
		fieldIndexes = append(fieldIndexes, resolvedIndex)
	}
	return fieldIndexes, nil
}

type shapefileRowIterator struct {
	files               *shapefileFiles
	reader              shp.SequentialReader
	fieldIndexes        []int
	declaredRecordCount int
	readRecordCount     int
	row                 qc.AttributeRow
	err                 error
	closed              bool
}

func (iterator *shapefileRowIterator) Next() bool {
	if iterator.closed || iterator.err != nil {
		iterator.row = nil
		return false
	}

	if !iterator.reader.Next() {
		iterator.row = nil
		iterator.err = iterator.finish()
		return false
	}
	iterator.readRecordCount++

	row := make(qc.AttributeRow, len(iterator.fieldIndexes))
	for position, fieldIndex := range iterator.fieldIndexes {
		rawValue := strings.Trim(iterator.reader.Attribute(fieldIndex), attributePaddingConstant)
		if len(rawValue) == 0 {
			row[position] = qc.AbsentValue()
			continue
		}
		row[position] = qc.PresentValue(rawValue)
	}
	iterator.row = row
	return true
}

// finish reports why iteration stopped. The reader treats a record cut short at end of file as a
// clean end, so the record counts and the main file length are checked against their headers.
func (iterator *shapefileRowIterator) finish() error {
	if readError := iterator.reader.Err(); readError != nil {
		return readError
	}
	if iterator.readRecordCount != iterator.declaredRecordCount {
		return fmt.Errorf(recordCountMismatchTemplateConstant, errRecordCountMismatch, iterator.declaredRecordCount, iterator.readRecordCount)
	}
	return iterator.files.verifyShapeLength()
}

func (iterator *shapefileRowIterator) Row() qc.AttributeRow {
	return iterator.row
}

func (iterator *shapefileRowIterator) Err() error {
	return iterator.err
}

// Close releases both file handles even when reading stopped on an error.
func (iterator *shapefileRowIterator) Close() error {
	if iterator.closed {
		return nil
	}
	iterator.closed = true
	return iterator.files.Close()
}
