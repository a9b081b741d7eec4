package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by folio commands.
const (
	ExitOK       = 0
	ExitGeneral  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitDocument = 4
	ExitConfig   = 7
	ExitInternal = 10
	ExitBuild    = 11
	ExitRuntime  = 12
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryNotFound:   ExitNotFound,
	CategoryDocument:   ExitDocument,
	CategoryConfig:     ExitConfig,
	CategoryPlugin:     ExitConfig,
	CategoryBuild:      ExitBuild,
	CategoryRender:     ExitBuild,
	CategoryFileSystem: ExitBuild,
	CategoryDeploy:     ExitBuild,
	CategoryGit:        ExitBuild,
	CategoryRuntime:    ExitRuntime,
	CategoryInternal:   ExitInternal,
}

// CLIErrorAdapter turns a command error into a message on stderr and an
// exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates an adapter writing to os.Stderr. A nil logger
// uses slog.Default.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor maps the first classified error in the chain to an exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitGeneral
	}
	if code, known := exitCodes[classified.Category()]; known {
		return code
	}
	return ExitGeneral
}

// FormatError renders err for the terminal. Internal errors are detailed
// only in verbose mode.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	switch {
	case !ok:
		return fmt.Sprintf("Error: %v", err)
	case a.verbose:
		return classified.Error()
	case classified.Category() == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	}

	msg := "Error: " + classified.Message() + classified.location()
	if cause := classified.Cause(); cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}

// HandleError prints err and exits with its code. It does nothing for nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

// shouldLog keeps user-fixable errors to the one printed line unless -v is
// set.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	classified, ok := AsClassified(err)
	if !ok {
		return true
	}
	return classified.Severity() == SeverityFatal && !classified.NeedsUserAction()
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := make([]slog.Attr, 0, len(classified.Context())+1)
	attrs = append(attrs, slog.String("category", string(classified.Category())))
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(classified.Severity()), classified.Message(), attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
