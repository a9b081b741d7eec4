// Package frontmatter splits, parses, and re-serializes the metadata block that
// precedes the markdown body of a content document.
package frontmatter

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a frontmatter block by its delimiter.
type Format string

const (
	FormatYAML Format = "yaml" // --- delimited
	FormatTOML Format = "toml" // +++ delimited
)

// Delimiter returns the fence line used for the format.
func (f Format) Delimiter() string {
	if f == FormatTOML {
		return "+++"
	}
	return "---"
}

// Style captures formatting details needed for stable rewriting.
//
// It focuses on newline/trailing newline shape and the delimiter kind; it
// does not attempt to preserve original key order or quoting.
type Style struct {
	Format             Format
	Newline            string
	HasTrailingNewline bool
}

var (
	// ErrMissingClosingDelimiter indicates the document started with a
	// frontmatter delimiter but did not contain a closing delimiter.
	ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

	// ErrNotMapping indicates the frontmatter block parsed to something other
	// than a key/value mapping (a list or a bare scalar).
	ErrNotMapping = errors.New("frontmatter is not a key/value mapping")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Split separates a `---` (YAML) or `+++` (TOML) delimited frontmatter block
// from the markdown body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input. A leading UTF-8 byte order mark is ignored.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	style = detectStyle(content)

	nl := style.Newline
	for _, format := range []Format{FormatYAML, FormatTOML} {
		fence := format.Delimiter()
		open := []byte(fence + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		style.Format = format

		start := len(open)
		rest := content[start:]

		// Empty block: the closing fence immediately follows.
		if bytes.HasPrefix(rest, open) {
			return []byte{}, rest[len(open):], true, style, nil
		}
		if bytes.Equal(rest, []byte(fence)) {
			return []byte{}, []byte{}, true, style, nil
		}

		closeSeq := []byte(nl + fence + nl)
		if idx := bytes.Index(rest, closeSeq); idx >= 0 {
			end := start + idx + len(nl)
			bodyStart := start + idx + len(closeSeq)
			return content[start:end], content[bodyStart:], true, style, nil
		}

		// Closing fence as the final line without a trailing newline.
		closeEOF := []byte(nl + fence)
		if bytes.HasSuffix(rest, closeEOF) {
			end := len(content) - len(fence)
			return content[start:end], []byte{}, true, style, nil
		}

		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	style.Format = FormatYAML
	return nil, content, false, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is. Otherwise it emits the block using
// the delimiter and newline style captured in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	fence := []byte(style.Format.Delimiter() + nl)

	out := make([]byte, 0, 2*len(fence)+len(frontmatter)+len(body))
	out = append(out, fence...)
	out = append(out, frontmatter...)
	out = append(out, fence...)
	out = append(out, body...)
	return out
}

// BodyLine returns the 1-based line number on which the body starts, given the
// raw frontmatter returned by Split. It is 1 when the document had no block.
func BodyLine(frontmatter []byte, had bool) int {
	if !had {
		return 1
	}
	// opening fence + block lines + closing fence
	return 3 + bytes.Count(frontmatter, []byte("\n"))
}

// Parse parses a raw frontmatter block (without delimiters) into a map.
func Parse(raw []byte, format Format) (map[string]any, error) {
	if format == FormatTOML {
		return ParseTOML(raw)
	}
	return ParseYAML(raw)
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(frontmatter, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind != yaml.MappingNode {
		return nil, &LineError{Line: node.Content[0].Line, Err: ErrNotMapping}
	}

	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
func ParseTOML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return fields, nil
	}
	if _, err := toml.Decode(string(frontmatter), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// LineError attaches a block-relative line number to a parse error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error { return e.Err }

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// ErrorLine extracts the 1-based line, relative to the start of the block,
// reported by a parse error. It returns 0 when the error carries no position.
func ErrorLine(err error) int {
	if err == nil {
		return 0
	}
	var lineErr *LineError
	if errors.As(err, &lineErr) {
		return lineErr.Line
	}
	var tomlErr toml.ParseError
	if errors.As(err, &tomlErr) {
		return tomlErr.Position.Line
	}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			return n
		}
	}
	return 0
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Format:             FormatYAML,
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
