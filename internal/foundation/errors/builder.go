package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of the given category with severity error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}}
}

// WrapError starts an error that wraps cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// At records the source file and 1-based line. A line below 1 records the
// path only.
func (b *ErrorBuilder) At(path string, line int) *ErrorBuilder {
	b.err.context = b.err.context.Set(KeyPath, path)
	if line > 0 {
		b.err.context = b.err.context.Set(KeyLine, line)
	}
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }

func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// UserAction marks the error as fixed by editing a file.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.userAction = true
	return b
}

// Build returns the error. The builder may be reused; later changes do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = b.err.context.Merge(nil)
	return &out
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError creates an invalid input error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

// DocumentError creates a content document error. It fails the document,
// not the build.
func DocumentError(message string) *ErrorBuilder {
	return NewError(CategoryDocument, message).UserAction()
}

func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message)
}

func PluginError(message string) *ErrorBuilder {
	return NewError(CategoryPlugin, message)
}

func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

func DeployError(message string) *ErrorBuilder {
	return NewError(CategoryDeploy, message).Fatal()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// GitError creates a git metadata error. Missing history only costs the
// last-modified date, so it is a warning.
func GitError(message string) *ErrorBuilder {
	return NewError(CategoryGit, message).Warning()
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
