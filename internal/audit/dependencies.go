package audit

import (
	"context"
	"time"

	"github.com/temirov/wellsqc/internal/catalog"
	"github.com/temirov/wellsqc/internal/qc"
	"github.com/temirov/wellsqc/internal/report"
)

// DatasetCatalog enumerates and describes the datasets of one input location.
type DatasetCatalog interface {
	List() ([]catalog.Dataset, error)
	Describe(dataset catalog.Dataset) (qc.DatasetDescriptor, error)
	Rows(dataset catalog.Dataset) qc.RowSource
}

// RuleEngine evaluates one described dataset into a verdict.
type RuleEngine interface {
	Evaluate(executionContext context.Context, descriptor qc.DatasetDescriptor, rowSource qc.RowSource) qc.Verdict
}

// CatalogFactory opens the catalog rooted at the input location.
type CatalogFactory func(inputPath string) DatasetCatalog

// ReportWriterFactory creates the writer that persists the rendered report into the output location.
type ReportWriterFactory func(outputPath string, format report.Format, timestamp time.Time) (report.Writer, error)

// NewShapefileCatalogFactory returns a CatalogFactory backed by shapefiles on disk.
func NewShapefileCatalogFactory() CatalogFactory {
	return func(inputPath string) DatasetCatalog {
		return catalog.NewShapefileCatalog(inputPath)
	}
}

// NewFileReportWriterFactory returns a ReportWriterFactory writing timestamped report files.
func NewFileReportWriterFactory() ReportWriterFactory {
	return func(outputPath string, format report.Format, timestamp time.Time) (report.Writer, error) {
		fileWriter, writerError := report.NewFileWriter(outputPath, format, timestamp)
		if writerError != nil {
			return nil, writerError
		}
		return fileWriter, nil
	}
}

func resolveCatalogFactory(factory CatalogFactory) CatalogFactory {
	if factory == nil {
		return NewShapefileCatalogFactory()
	}
	return factory
}

func resolveReportWriterFactory(factory ReportWriterFactory) ReportWriterFactory {
	if factory == nil {
		return NewFileReportWriterFactory()
	}
	return factory
}

func resolveRuleEngine(engine RuleEngine) RuleEngine {
	if engine == nil {
		return qc.NewWellsEngine()
	}
	return engine
}
