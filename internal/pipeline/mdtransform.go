package pipeline

import (
	"regexp"
	"strings"
)

var (
	crlfOrCR          = regexp.MustCompile(`\r\n?`)
	fencedCodeBlock   = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	indentedCodeBlock = regexp.MustCompile(`^(    |\t)`)
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Preprocess prepares Markdown for rendering by collapsing runs of blank
// lines to one. Fenced code keeps its blank lines verbatim, as do blank runs
// between two indented code lines. ==text== highlighting is handled by
// MarkExtension at parse time. The input is expected to have its metadata
// block stripped already.
func Preprocess(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var fence string // opening fence run; empty outside fenced code
	blanks := 0      // pending blank lines outside fences
	prevIndented := false

	flushBlanks := func(nextIndented bool) {
		if blanks == 0 {
			return
		}
		keep := 1
		if prevIndented && nextIndented {
			keep = blanks
		}
		for range keep {
			out = append(out, "")
		}
		blanks = 0
	}

	for _, line := range lines {
		if fence != "" {
			out = append(out, line)
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if line == "" {
			blanks++
			continue
		}

		indented := indentedCodeBlock.MatchString(line)
		flushBlanks(indented)
		out = append(out, line)
		prevIndented = indented

		if m := fencedCodeBlock.FindStringSubmatch(line); m != nil {
			fence = m[1]
			prevIndented = false
		}
	}
	flushBlanks(false)

	return strings.Join(out, "\n")
}

// closesFence reports whether line closes a fence opened with run: the same
// character, at least as long, with nothing after it but whitespace.
func closesFence(line, run string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == run[0] {
		n++
	}
	return n >= len(run) && strings.TrimSpace(trimmed[n:]) == ""
}
