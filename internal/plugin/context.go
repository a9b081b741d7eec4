package plugin

import (
	"log/slog"
	"sync"

	"github.com/spf13/afero"
)

// LinkResolver maps a content path (slash-separated, relative to the content
// root) to the permalink of the document built from it.
type LinkResolver interface {
	Permalink(contentPath string) (string, bool)
}

// Warning is a non-fatal problem found while transforming a document.
type Warning struct {
	Plugin  string
	Line    int
	Message string
}

// DocumentContext carries per-document state through the document and html
// stages. It is never shared between documents.
type DocumentContext struct {
	// Path is the content path of the document being rendered.
	Path string
	// Source is the markdown body the AST indexes into.
	Source []byte
	// Permalink is the URL path the document is published at.
	Permalink string
	// Links resolves links to other content documents.
	Links LinkResolver
	// LineOf maps text in the body to a file line for warnings.
	LineOf func(needle string) int
	Logger *slog.Logger

	mu       sync.Mutex
	warnings []Warning
}

// Warn records a non-fatal warning.
func (dc *DocumentContext) Warn(plugin string, line int, message string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.warnings = append(dc.warnings, Warning{Plugin: plugin, Line: line, Message: message})
}

// Warnings returns the recorded warnings in order.
func (dc *DocumentContext) Warnings() []Warning {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return append([]Warning(nil), dc.warnings...)
}

// Line returns the file line of needle, or 0 when unknown.
func (dc *DocumentContext) Line(needle string) int {
	if dc.LineOf == nil {
		return 0
	}
	return dc.LineOf(needle)
}

// Log returns the context logger, falling back to the default logger.
func (dc *DocumentContext) Log() *slog.Logger {
	if dc.Logger == nil {
		return slog.Default()
	}
	return dc.Logger
}

// Artifact is a file written to the output filesystem.
type Artifact struct {
	Fs      afero.Fs
	Path    string
	Content []byte
}
