package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyCategory   = "category"
	KeyLine       = "line"
	KeyStage      = "stage"
	KeyPlugin     = "plugin"
	KeyLanguage   = "language"
	KeyLayout     = "layout"
	KeyPermalink  = "permalink"
	KeyOutput     = "output"
	KeyAdapter    = "adapter"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(path string) slog.Attr  { return slog.String(KeyDocument, path) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Language(lang string) slog.Attr  { return slog.String(KeyLanguage, lang) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Permalink(p string) slog.Attr    { return slog.String(KeyPermalink, p) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Adapter(name string) slog.Attr   { return slog.String(KeyAdapter, name) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
