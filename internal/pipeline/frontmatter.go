package pipeline

import (
	"strings"

	"github.com/alnah/go-mdstudio/internal/yamlutil"
)

const frontMatterDelimiter = "---"

// FrontMatter is a metadata block found at the top of a document.
type FrontMatter struct {
	// Raw is the text between the delimiter lines, without them.
	Raw string
	// Meta is Raw parsed as YAML, or nil when it is empty or not a mapping.
	Meta map[string]any
}

// SplitFrontMatter separates a leading metadata block from the body.
//
// The block must open on the very first line with "---" and close on a later
// line that is also exactly "---"; trailing spaces and tabs are tolerated on
// both. The closing line must be followed by a newline or the end of the text.
// Without a closing line the whole content is returned as the body.
func SplitFrontMatter(content string) (*FrontMatter, string) {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || !isDelimiterLine(first) {
		return nil, content
	}

	offset := 0
	for offset <= len(rest) {
		line, after, found := strings.Cut(rest[offset:], "\n")
		if isDelimiterLine(line) {
			raw := strings.TrimSuffix(rest[:offset], "\n")
			body := ""
			if found {
				body = after
			}
			return &FrontMatter{Raw: raw, Meta: parseMeta(raw)}, body
		}
		if !found {
			break
		}
		offset += len(line) + 1
	}
	return nil, content
}

func isDelimiterLine(line string) bool {
	return strings.TrimRight(line, " \t") == frontMatterDelimiter
}

// parseMeta decodes raw as a YAML mapping. Invalid YAML or a non-mapping
// document yields nil.
func parseMeta(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	meta, err := yamlutil.DecodeMapping([]byte(raw))
	if err != nil {
		return nil
	}
	return meta
}
