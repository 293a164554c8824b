package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/wellsqc/internal/catalog"
	"github.com/temirov/wellsqc/internal/progress"
	"github.com/temirov/wellsqc/internal/qc"
	"github.com/temirov/wellsqc/internal/report"
	"github.com/temirov/wellsqc/internal/utils"
)

const (
	passLineTemplateConstant           = "[OK] %s"
	failLineTemplateConstant           = "[FAIL] %s -> %s"
	processCompletedMessageConstant    = "--- WELLS QC PROCESS COMPLETED ---"
	reportSavedTemplateConstant        = "Audit report saved at: %s"
	reportWriterErrorTemplateConstant  = "unable to prepare audit report: %w"
	reportWriteErrorTemplateConstant   = "unable to write audit report: %w"
	auditStartedMessageConstant        = "audit started"
	auditFinishedMessageConstant       = "audit finished"
	datasetEvaluatedMessageConstant    = "dataset evaluated"
	describeFailedMessageConstant      = "unable to describe dataset"
	emptyCatalogMessageConstant        = "no dataset found in input location"
	logFieldRunIdentifierConstant      = "run_id"
	logFieldInputPathConstant          = "input_path"
	logFieldOutputPathConstant         = "output_path"
	logFieldReportFormatConstant       = "report_format"
	logFieldWorkersConstant            = "workers"
	logFieldDatasetCountConstant       = "dataset_count"
	logFieldDatasetNameConstant        = "dataset"
	logFieldDatasetPathConstant        = "dataset_path"
	logFieldStatusConstant             = "status"
	logFieldIssueCountConstant         = "issue_count"
	logFieldReportPathConstant         = "report_path"
	logFieldFailedDatasetCountConstant = "failed_dataset_count"
)

// Service drives one audit run: enumerate the catalog, evaluate each dataset and write the report.
type Service struct {
	logger         *zap.Logger
	reporter       progress.Reporter
	catalogFactory CatalogFactory
	writerFactory  ReportWriterFactory
	engine         RuleEngine
	contextAccess  utils.CommandContextAccessor
}

// NewService constructs a Service. Nil collaborators fall back to the shapefile catalog,
// the file report writer and the wells rule engine.
func NewService(logger *zap.Logger, reporter progress.Reporter, catalogFactory CatalogFactory, writerFactory ReportWriterFactory, engine RuleEngine) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = progress.NopReporter{}
	}
	return &Service{
		logger:         logger,
		reporter:       reporter,
		catalogFactory: resolveCatalogFactory(catalogFactory),
		writerFactory:  resolveReportWriterFactory(writerFactory),
		engine:         resolveRuleEngine(engine),
		contextAccess:  utils.NewCommandContextAccessor(),
	}
}

// Run audits every dataset of options.InputPath and returns the written report path.
// An unreadable or empty catalog aborts the run before any dataset is evaluated.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (string, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	options = options.sanitize()

	runIdentifier, runIdentifierFound := service.contextAccess.RunIdentifier(executionContext)
	if !runIdentifierFound {
		runIdentifier = uuid.NewString()
	}
	runLogger := service.logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier))

	runLogger.Info(
		auditStartedMessageConstant,
		zap.String(logFieldInputPathConstant, options.InputPath),
		zap.String(logFieldOutputPathConstant, options.OutputPath),
		zap.String(logFieldReportFormatConstant, string(options.ReportFormat)),
		zap.Int(logFieldWorkersConstant, options.Workers),
	)

	datasetCatalog := service.catalogFactory(options.InputPath)
	datasets, listError := datasetCatalog.List()
	if listError != nil {
		return "", listError
	}
	if len(datasets) == 0 {
		runLogger.Debug(emptyCatalogMessageConstant, zap.String(logFieldInputPathConstant, options.InputPath))
		return "", ErrEmptyCatalog
	}

	reportWriter, writerError := service.writerFactory(options.OutputPath, options.ReportFormat, options.Clock.Now())
	if writerError != nil {
		return "", fmt.Errorf(reportWriterErrorTemplateConstant, writerError)
	}

	builder := report.NewBuilder()
	verdictStreams := service.evaluateInOrder(executionContext, runLogger, datasetCatalog, datasets, options.Workers)

	failedDatasetCount := 0
	for datasetIndex, verdictStream := range verdictStreams {
		verdict := <-verdictStream
		row := builder.Append(verdict)
		if !verdict.Passed() {
			failedDatasetCount++
		}
		service.reporter.Progress(datasetIndex+1, len(datasets))
		service.announce(verdict, row)
		runLogger.Debug(
			datasetEvaluatedMessageConstant,
			zap.String(logFieldDatasetNameConstant, verdict.DatasetName),
			zap.String(logFieldStatusConstant, string(verdict.Status)),
			zap.Int(logFieldIssueCountConstant, len(verdict.Issues)),
		)
	}

	reportPath, writeError := reportWriter.Write(builder.Render())
	if writeError != nil {
		return "", fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}

	service.reporter.Info(processCompletedMessageConstant)
	service.reporter.Info(fmt.Sprintf(reportSavedTemplateConstant, reportPath))
	runLogger.Info(
		auditFinishedMessageConstant,
		zap.Int(logFieldDatasetCountConstant, len(datasets)),
		zap.Int(logFieldFailedDatasetCountConstant, failedDatasetCount),
		zap.String(logFieldReportPathConstant, reportPath),
	)

	return reportPath, nil
}

// evaluateInOrder evaluates datasets on a bounded worker group. The returned streams follow catalog
// order and each carries exactly one verdict.
func (service *Service) evaluateInOrder(executionContext context.Context, runLogger *zap.Logger, datasetCatalog DatasetCatalog, datasets []catalog.Dataset, workers int) []chan qc.Verdict {
	verdictStreams := make([]chan qc.Verdict, len(datasets))
	for datasetIndex := range verdictStreams {
		verdictStreams[datasetIndex] = make(chan qc.Verdict, 1)
	}

	workerGroup := &errgroup.Group{}
	workerGroup.SetLimit(workers)

	go func() {
		for datasetIndex, dataset := range datasets {
			verdictStream := verdictStreams[datasetIndex]
			workerGroup.Go(func() error {
				verdictStream <- service.evaluate(executionContext, runLogger, datasetCatalog, dataset)
				return nil
			})
		}
		_ = workerGroup.Wait()
	}()

	return verdictStreams
}

func (service *Service) evaluate(executionContext context.Context, runLogger *zap.Logger, datasetCatalog DatasetCatalog, dataset catalog.Dataset) qc.Verdict {
	descriptor, describeError := datasetCatalog.Describe(dataset)
	if describeError != nil {
		runLogger.Debug(
			describeFailedMessageConstant,
			zap.String(logFieldDatasetNameConstant, dataset.Name),
			zap.String(logFieldDatasetPathConstant, dataset.Path),
			zap.Error(describeError),
		)
		return qc.DescribeFailureVerdict(dataset.Name, describeError)
	}
	return service.engine.Evaluate(executionContext, descriptor, datasetCatalog.Rows(dataset))
}

func (service *Service) announce(verdict qc.Verdict, row report.Row) {
	if verdict.Passed() {
		service.reporter.Info(fmt.Sprintf(passLineTemplateConstant, verdict.DatasetName))
		return
	}
	service.reporter.Warn(fmt.Sprintf(failLineTemplateConstant, verdict.DatasetName, row.ErrorNotes))
}
