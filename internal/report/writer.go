package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	reportFileNameTemplateConstant       = "QC_Wells_Report_%s.%s"
	reportTimestampLayoutConstant        = "20060102_150405"
	spreadsheetSheetNameConstant         = "QC Report"
	spreadsheetDefaultSheetNameConstant  = "Sheet1"
	tabDelimiterConstant                 = '\t'
	outputDirectoryErrorTemplateConstant = "output location %s is not accessible: %w"
	encodeErrorTemplateConstant          = "unable to encode %s report: %w"
)

// ErrOutputNotDirectory indicates the output location exists but is not a directory.
var ErrOutputNotDirectory = errors.New("output location is not a directory")

// Writer persists a rendered table and returns the artifact location.
type Writer interface {
	Write(table Table) (string, error)
}

// FileWriter writes reports named QC_Wells_Report_<timestamp>.<ext> into a directory.
type FileWriter struct {
	directory string
	format    Format
	timestamp time.Time
}

// NewFileWriter constructs a FileWriter. The timestamp fixes the artifact name for the whole run.
func NewFileWriter(directory string, format Format, timestamp time.Time) (*FileWriter, error) {
	parsedFormat, parseError := ParseFormat(string(format))
	if parseError != nil {
		return nil, parseError
	}
	return &FileWriter{
		directory: directory,
		format:    parsedFormat,
		timestamp: timestamp,
	}, nil
}

// FileName returns the report file name.
func (writer *FileWriter) FileName() string {
	return fmt.Sprintf(reportFileNameTemplateConstant, writer.timestamp.Format(reportTimestampLayoutConstant), writer.format.Extension())
}

// Path returns the full report path.
func (writer *FileWriter) Path() string {
	return filepath.Join(writer.directory, writer.FileName())
}

// Write encodes the table and replaces the report file atomically.
func (writer *FileWriter) Write(table Table) (string, error) {
	directoryInfo, statError := os.Stat(writer.directory)
	if statError != nil {
		return "", fmt.Errorf(outputDirectoryErrorTemplateConstant, writer.directory, statError)
	}
	if !directoryInfo.IsDir() {
		return "", fmt.Errorf(outputDirectoryErrorTemplateConstant, writer.directory, ErrOutputNotDirectory)
	}

	encodedReport, encodeError := Encode(table, writer.format)
	if encodeError != nil {
		return "", fmt.Errorf(encodeErrorTemplateConstant, writer.format, encodeError)
	}

	reportPath := writer.Path()
	if writeError := lockAndWrite(reportPath, encodedReport); writeError != nil {
		return "", writeError
	}
	return reportPath, nil
}

// Encode renders the table in the requested format.
func Encode(table Table, format Format) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return encodeSpreadsheet(table)
	case FormatTSV:
		return encodeDelimited(table, tabDelimiterConstant)
	case FormatCSV, "":
		return encodeDelimited(table, ',')
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

func encodeDelimited(table Table, delimiter rune) ([]byte, error) {
	buffer := &bytes.Buffer{}
	csvWriter := csv.NewWriter(buffer)
	csvWriter.Comma = delimiter
	if writeError := csvWriter.WriteAll(table); writeError != nil {
		return nil, writeError
	}
	return buffer.Bytes(), nil
}

func encodeSpreadsheet(table Table) ([]byte, error) {
	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	if renameError := workbook.SetSheetName(spreadsheetDefaultSheetNameConstant, spreadsheetSheetNameConstant); renameError != nil {
		return nil, renameError
	}

	for rowIndex, record := range table {
		cellName, cellError := excelize.CoordinatesToCellName(1, rowIndex+1)
		if cellError != nil {
			return nil, cellError
		}
		values := make([]interface{}, len(record))
		for columnIndex, value := range record {
			values[columnIndex] = value
		}
		if setError := workbook.SetSheetRow(spreadsheetSheetNameConstant, cellName, &values); setError != nil {
			return nil, setError
		}
	}

	if len(table) > 0 {
		headerStyle, styleError := workbook.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if styleError != nil {
			return nil, styleError
		}
		if styleError := workbook.SetRowStyle(spreadsheetSheetNameConstant, 1, 1, headerStyle); styleError != nil {
			return nil, styleError
		}
	}

	buffer, writeError := workbook.WriteToBuffer()
	if writeError != nil {
		return nil, writeError
	}
	return buffer.Bytes(), nil
}
