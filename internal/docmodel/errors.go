package docmodel

import (
	stderrors "errors"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

var (
	// ErrMalformedDocument matches documents whose front matter is missing,
	// unterminated, or not a key/value mapping.
	ErrMalformedDocument = errors.DocumentError("malformed document").Build()

	// ErrMissingRequiredField matches documents lacking a key their entry
	// variant requires.
	ErrMissingRequiredField = errors.DocumentError("missing required field").Build()

	errNoFrontmatter = stderrors.New("front matter block is missing")
)
