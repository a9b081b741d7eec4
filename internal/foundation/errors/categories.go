package errors

import "maps"

// ErrorCategory routes an error to an exit code and a report section.
type ErrorCategory string

const (
	// CategoryConfig covers the configuration file and command-line input.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryDocument covers content documents that cannot be parsed or resolved.
	CategoryDocument ErrorCategory = "document"
	CategoryRender   ErrorCategory = "render"
	CategoryPlugin   ErrorCategory = "plugin"

	// CategoryBuild covers writing the site and packaging it.
	CategoryBuild      ErrorCategory = "build"
	CategoryDeploy     ErrorCategory = "deploy"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the command
	SeverityError   ErrorSeverity = "error"   // fails one document or step
	SeverityWarning ErrorSeverity = "warning" // recorded, output still written
	SeverityInfo    ErrorSeverity = "info"
)

// Context keys understood by Location and the CLI adapter.
const (
	KeyPath = "path"
	KeyLine = "line"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	str, ok := c[key].(string)
	return str, ok
}

// GetInt retrieves an int context value.
func (c ErrorContext) GetInt(key string) (int, bool) {
	n, ok := c[key].(int)
	return n, ok
}

// Merge combines two contexts, with other taking precedence. Neither input
// is modified.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
