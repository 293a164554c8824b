package audit

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/wellsqc/internal/progress"
	"github.com/temirov/wellsqc/internal/utils"
	pathutils "github.com/temirov/wellsqc/internal/utils/path"
)

const (
	commandNameConstant             = "audit"
	commandUsageConstant            = commandNameConstant + " <input-location> <output-location>"
	commandShortDescriptionConstant = "Audit WELLS feature classes and write a QC report"
	commandLongDescriptionConstant  = "audit checks every shapefile in the input location against the WELLS quality rules (naming, Point geometry, known coordinate system, required attributes without null values) and writes a timestamped QC report into the output location."
	commandArgumentCountConstant    = 2
	inputArgumentIndexConstant      = 0
	outputArgumentIndexConstant     = 1
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	CatalogFactory               CatalogFactory
	ReportWriterFactory          ReportWriterFactory
	RuleEngine                   RuleEngine
	Clock                        Clock
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the cobra command for the wells audit.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUsageConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(commandArgumentCountConstant),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(arguments)

	contextAccessor := utils.NewCommandContextAccessor()
	runIdentifier := uuid.NewString()
	executionContext := contextAccessor.WithRunIdentifier(command.Context(), runIdentifier)

	logger := builder.resolveLogger()
	reporter := builder.resolveReporter(command, logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier)))

	service := NewService(logger, reporter, builder.CatalogFactory, builder.ReportWriterFactory, builder.RuleEngine)
	_, runError := service.Run(executionContext, options)
	return runError
}

func (builder *CommandBuilder) parseOptions(arguments []string) CommandOptions {
	configuration := builder.resolveConfiguration()

	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}

	expandedPaths := expander.ExpandAll(arguments...)

	return CommandOptions{
		InputPath:    expandedPaths[inputArgumentIndexConstant],
		OutputPath:   expandedPaths[outputArgumentIndexConstant],
		ReportFormat: configuration.ReportFormat,
		Workers:      configuration.Workers,
		Clock:        builder.Clock,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command, runLogger *zap.Logger) progress.Reporter {
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return progress.NewTerminalConsoleReporter(command.OutOrStdout())
	}
	return progress.NewZapReporter(runLogger)
}
