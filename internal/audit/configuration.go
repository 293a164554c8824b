package audit

import (
	"github.com/temirov/wellsqc/internal/report"
)

const (
	minimumWorkersConstant               = 1
	reportFormatConfigurationKeyConstant = "report_format"
	workersConfigurationKeyConstant      = "workers"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	ReportFormat report.Format `mapstructure:"report_format"`
	Workers      int           `mapstructure:"workers"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ReportFormat: report.FormatCSV,
		Workers:      minimumWorkersConstant,
	}
}

// DefaultConfigurationValues returns the audit defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifiedKey(configurationPrefix, reportFormatConfigurationKeyConstant): string(defaults.ReportFormat),
		qualifiedKey(configurationPrefix, workersConfigurationKeyConstant):      defaults.Workers,
	}
}

// sanitize applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if len(sanitized.ReportFormat) == 0 {
		sanitized.ReportFormat = report.FormatCSV
	}
	if sanitized.Workers < minimumWorkersConstant {
		sanitized.Workers = minimumWorkersConstant
	}
	return sanitized
}

func qualifiedKey(configurationPrefix string, key string) string {
	if len(configurationPrefix) == 0 {
		return key
	}
	return configurationPrefix + configurationKeySeparatorConstant + key
}
