package docmodel

import "strings"

// FileLine translates a 1-based body line into a 1-based file line.
func (d *Document) FileLine(bodyLine int) int {
	if bodyLine < 1 {
		bodyLine = 1
	}
	return d.bodyLine + bodyLine - 1
}

// FindNextLineContaining returns the next 1-based body line number that contains
// target, starting at startLine (1-based).
//
// It skips fenced code blocks (``` and ~~~), indented code blocks, and matches
// inside inline code spans.
func (d *Document) FindNextLineContaining(target string, startLine int) int {
	body := string(d.body)
	if body == "" || target == "" {
		return 1
	}

	lines := strings.Split(body, "\n")
	skippable := computeSkippableLines(lines)

	if startLine < 1 {
		startLine = 1
	}
	if startLine > len(lines) {
		startLine = len(lines)
	}

	for i := startLine - 1; i < len(lines); i++ {
		if skippable[i] {
			continue
		}
		for from := 0; from < len(lines[i]); {
			idx := strings.Index(lines[i][from:], target)
			if idx == -1 {
				break
			}
			idx += from
			if !isInsideInlineCode(lines[i], idx) {
				return i + 1
			}
			from = idx + 1
		}
	}

	return 1
}

func computeSkippableLines(lines []string) []bool {
	skippable := make([]bool, len(lines))
	activeFence := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence := fenceMarker(trimmed); fence != "" {
			switch {
			case activeFence == "":
				activeFence = fence
			case activeFence == fence:
				activeFence = ""
			}
			skippable[i] = true
			continue
		}
		if activeFence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			skippable[i] = true
		}
	}

	return skippable
}

func fenceMarker(trimmed string) string {
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	}
	return ""
}

func isInsideInlineCode(line string, pos int) bool {
	return strings.Count(line[:pos], "`")%2 == 1
}
