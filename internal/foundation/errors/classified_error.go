package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is an error with a category, a severity and structured
// context such as the source file and line it points at.
type ClassifiedError struct {
	category   ErrorCategory
	severity   ErrorSeverity
	userAction bool
	message    string
	cause      error
	context    ErrorContext
}

func (e *ClassifiedError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s%s", e.category, e.severity, e.message, e.location())
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// location renders the path/line context as " (path:line)" when present.
func (e *ClassifiedError) location() string {
	path, line := e.Location()
	switch {
	case path == "":
		return ""
	case line > 0:
		return fmt.Sprintf(" (%s:%d)", path, line)
	default:
		return " (" + path + ")"
	}
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Cause() error { return e.cause }

func (e *ClassifiedError) Context() ErrorContext { return e.context }

// Location returns the file path and 1-based line the error points at. Both
// are zero values when unknown.
func (e *ClassifiedError) Location() (path string, line int) {
	path, _ = e.context.GetString(KeyPath)
	line, _ = e.context.GetInt(KeyLine)
	return path, line
}

// NeedsUserAction reports whether the error is fixed by editing a source
// file or the configuration rather than by running the command again.
func (e *ClassifiedError) NeedsUserAction() bool { return e.userAction }

// WithContext returns a copy of the error with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	out := *e
	out.context = e.context.Merge(ErrorContext{key: value})
	return &out
}

// Is matches another ClassifiedError with the same category and message, so
// package-level sentinels built with NewError work with errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

func (e *ClassifiedError) IsCategory(category ErrorCategory) bool {
	return e.category == category
}

func (e *ClassifiedError) IsSeverity(severity ErrorSeverity) bool {
	return e.severity == severity
}

// IsWarning reports whether the error was recorded without failing anything.
func (e *ClassifiedError) IsWarning() bool {
	return e.severity == SeverityWarning || e.severity == SeverityInfo
}

// AsClassified returns the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks if the first classified error in the chain belongs to a category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.IsCategory(category)
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}
