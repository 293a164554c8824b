package report

import (
	"fmt"
	"strings"
)

// Format enumerates supported report encodings.
type Format string

// Supported report formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

const unsupportedFormatTemplateConstant = "unsupported report format: %s"

// ParseFormat normalizes a format name. An empty name selects csv.
func ParseFormat(rawFormat string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(rawFormat)))
	switch normalized {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatTSV, FormatXLSX:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, rawFormat)
	}
}

// UnmarshalText lets configuration decoders validate the format while loading.
func (format *Format) UnmarshalText(text []byte) error {
	parsedFormat, parseError := ParseFormat(string(text))
	if parseError != nil {
		return parseError
	}
	*format = parsedFormat
	return nil
}

// Extension returns the file extension used for the format.
func (format Format) Extension() string {
	if len(format) == 0 {
		return string(FormatCSV)
	}
	return string(format)
}
