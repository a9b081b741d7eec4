package render

import "git.home.luguber.info/inful/folio/internal/foundation/errors"

// ErrUnrecognizedLanguageTag marks a fenced block whose tag is not highlighted.
// It is always a warning.
var ErrUnrecognizedLanguageTag = errors.RenderError("unrecognized language tag").Warning().Build()

// ErrPluginWarning marks a non-fatal problem reported by a plugin.
var ErrPluginWarning = errors.PluginError("plugin warning").Warning().Build()
