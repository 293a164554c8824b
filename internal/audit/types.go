package audit

import (
	"errors"
	"time"

	"github.com/temirov/wellsqc/internal/report"
)

// ErrEmptyCatalog indicates the input location holds no dataset to audit.
var ErrEmptyCatalog = errors.New("empty folder or no shapefile/feature class found")

// CommandOptions captures the configurable parameters for one audit run.
type CommandOptions struct {
	InputPath    string
	OutputPath   string
	ReportFormat report.Format
	Workers      int
	Clock        Clock
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

func (options CommandOptions) sanitize() CommandOptions {
	sanitized := options
	if sanitized.Workers < minimumWorkersConstant {
		sanitized.Workers = minimumWorkersConstant
	}
	if len(sanitized.ReportFormat) == 0 {
		sanitized.ReportFormat = report.FormatCSV
	}
	if sanitized.Clock == nil {
		sanitized.Clock = SystemClock{}
	}
	return sanitized
}
