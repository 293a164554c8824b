package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/temirov/wellsqc/internal/utils"
)

const progressPrefixTemplateConstant = "[%d/%d] "

// ConsoleReporter prints events as plain lines, colouring warnings when enabled.
// A progress update is rendered as a counter prefix on the next line printed.
type ConsoleReporter struct {
	mutex          sync.Mutex
	writer         io.Writer
	infoTint       *color.Color
	warnTint       *color.Color
	progressPrefix string
}

// NewConsoleReporter constructs a ConsoleReporter writing to writer.
func NewConsoleReporter(writer io.Writer, colorEnabled bool) *ConsoleReporter {
	if writer == nil {
		writer = io.Discard
	}

	infoTint := color.New(color.FgGreen)
	warnTint := color.New(color.FgYellow)
	if colorEnabled {
		infoTint.EnableColor()
		warnTint.EnableColor()
	} else {
		infoTint.DisableColor()
		warnTint.DisableColor()
	}

	return &ConsoleReporter{
		writer:   utils.NewFlushingWriter(writer),
		infoTint: infoTint,
		warnTint: warnTint,
	}
}

// NewTerminalConsoleReporter enables colour only when writer is an interactive terminal.
func NewTerminalConsoleReporter(writer io.Writer) *ConsoleReporter {
	return NewConsoleReporter(writer, IsTerminal(writer))
}

// IsTerminal reports whether writer is a terminal file descriptor.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile || file == nil {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Info prints the message in the success colour.
func (reporter *ConsoleReporter) Info(message string) {
	reporter.print(reporter.infoTint, message)
}

// Warn prints the message in the warning colour.
func (reporter *ConsoleReporter) Warn(message string) {
	reporter.print(reporter.warnTint, message)
}

// Progress records the [current/total] counter for the next printed line.
func (reporter *ConsoleReporter) Progress(current int, total int) {
	if total <= 0 {
		return
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	reporter.progressPrefix = fmt.Sprintf(progressPrefixTemplateConstant, current, total)
}

func (reporter *ConsoleReporter) print(tint *color.Color, message string) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	_, _ = tint.Fprintln(reporter.writer, reporter.progressPrefix+message)
	reporter.progressPrefix = ""
}
