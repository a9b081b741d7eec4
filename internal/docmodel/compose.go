package docmodel

import (
	"git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// Compose writes fields as a front matter block in format followed by body,
// and resolves the result so a composed document always builds.
func Compose(path string, fields map[string]any, format frontmatter.Format, body []byte) ([]byte, Entry, error) {
	style := frontmatter.Style{Format: format, Newline: "\n"}
	raw, err := frontmatter.Serialize(fields, style)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryDocument, "failed to serialize front matter").
			WithContext(errors.KeyPath, path).
			Build()
	}
	content := frontmatter.Join(raw, body, true, style)

	doc, err := Parse(path, content)
	if err != nil {
		return nil, nil, err
	}
	entry, err := Resolve(doc)
	if err != nil {
		return nil, nil, err
	}
	return content, entry, nil
}
