package progress_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/wellsqc/internal/progress"
)

func TestZapReporterForwardsEvents(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	reporter := progress.NewZapReporter(zap.New(observedCore))

	reporter.Info("[OK] WK_2024_WELLS")
	reporter.Warn("[FAIL] wells -> Unknown Coordinate System")
	reporter.Progress(2, 3)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 3)
	require.Equal(testInstance, zapcore.InfoLevel, entries[0].Level)
	require.Equal(testInstance, "[OK] WK_2024_WELLS", entries[0].Message)
	require.Equal(testInstance, zapcore.WarnLevel, entries[1].Level)
	require.Equal(testInstance, zapcore.DebugLevel, entries[2].Level)
	require.Equal(testInstance, map[string]interface{}{"current": int64(2), "total": int64(3)}, entries[2].ContextMap())
}

func TestConsoleReporterWritesPlainLines(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := progress.NewConsoleReporter(outputBuffer, false)

	reporter.Info("[OK] WK_2024_WELLS")
	reporter.Warn("[FAIL] wells -> Unknown Coordinate System")

	require.Equal(testInstance, "[OK] WK_2024_WELLS\n[FAIL] wells -> Unknown Coordinate System\n", outputBuffer.String())
	require.False(testInstance, progress.IsTerminal(outputBuffer))
}

func TestConsoleReporterPrefixesProgressCounter(testInstance *testing.T) {
	testCases := []struct {
		name           string
		emit           func(reporter *progress.ConsoleReporter)
		expectedOutput string
	}{
		{
			name: "counter_on_next_line_only",
			emit: func(reporter *progress.ConsoleReporter) {
				reporter.Progress(1, 2)
				reporter.Info("[OK] WK_2024_WELLS")
				reporter.Progress(2, 2)
				reporter.Warn("[FAIL] wells -> Unknown Coordinate System")
				reporter.Info("Audit report saved at: /data/QC_Wells_Report_20240315_093000.csv")
			},
			expectedOutput: "[1/2] [OK] WK_2024_WELLS\n[2/2] [FAIL] wells -> Unknown Coordinate System\nAudit report saved at: /data/QC_Wells_Report_20240315_093000.csv\n",
		},
		{
			name: "latest_counter_wins",
			emit: func(reporter *progress.ConsoleReporter) {
				reporter.Progress(1, 3)
				reporter.Progress(2, 3)
				reporter.Info("[OK] AB_2020_WELLS")
			},
			expectedOutput: "[2/3] [OK] AB_2020_WELLS\n",
		},
		{
			name: "empty_total_ignored",
			emit: func(reporter *progress.ConsoleReporter) {
				reporter.Progress(0, 0)
				reporter.Info("[OK] AB_2020_WELLS")
			},
			expectedOutput: "[OK] AB_2020_WELLS\n",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := progress.NewConsoleReporter(outputBuffer, false)
			testCase.emit(reporter)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestConsoleReporterColoursWhenEnabled(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := progress.NewConsoleReporter(outputBuffer, true)

	reporter.Warn("[FAIL] wells")

	require.Contains(testInstance, outputBuffer.String(), "\x1b[33m")
	require.Contains(testInstance, outputBuffer.String(), "[FAIL] wells")
}

func TestNopReporterAcceptsEvents(testInstance *testing.T) {
	var reporter progress.Reporter = progress.NopReporter{}
	require.NotPanics(testInstance, func() {
		reporter.Info("ignored")
		reporter.Warn("ignored")
		reporter.Progress(1, 1)
	})
}
