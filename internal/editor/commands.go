package editor

import "strings"

// Placeholders inserted when a command runs on an empty selection.
const (
	PlaceholderText  = "text"
	PlaceholderLink  = "link text"
	PlaceholderImage = "alt text"
	PlaceholderCode  = `console.log("Hello");`
)

// Line prefixes for block commands.
const (
	PrefixQuote     = "> "
	PrefixUnordered = "- "
	PrefixOrdered   = "1. "
	PrefixHeading   = "# "
)

// WrapSelection surrounds the selection with before and after. An empty
// selection is replaced by placeholder first. The returned selection covers
// the wrapped text only, never the delimiters.
func WrapSelection(b Buffer, before, after, placeholder string) Buffer {
	runes, sel := b.normalized()

	selected := runes[sel.Start:sel.End]
	if len(selected) == 0 {
		selected = []rune(placeholder)
	}

	insert := make([]rune, 0, len(before)+len(selected)+len(after))
	insert = append(insert, []rune(before)...)
	insert = append(insert, selected...)
	insert = append(insert, []rune(after)...)

	start := sel.Start + len([]rune(before))
	return Buffer{
		Text:      string(splice(runes, sel.Start, sel.End, insert)),
		Selection: Selection{Start: start, End: start + len(selected)},
	}
}

// PrefixLines prepends prefix to every line touched by the selection that
// does not already start with it. Applying it twice is the same as once.
// The selection shifts by what was inserted before each of its ends.
func PrefixLines(b Buffer, prefix string) Buffer {
	runes, sel := b.normalized()
	start, end := lineBounds(runes, sel.Start, sel.End)

	lines := strings.Split(string(runes[start:end]), "\n")
	prefixLen := len([]rune(prefix))

	firstInserted, total := 0, 0
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			continue
		}
		lines[i] = prefix + line
		total += prefixLen
		if i == 0 {
			firstInserted = prefixLen
		}
	}

	if total == 0 {
		return Buffer{Text: b.Text, Selection: sel}
	}

	replaced := []rune(strings.Join(lines, "\n"))
	return Buffer{
		Text:      string(splice(runes, start, end, replaced)),
		Selection: Selection{Start: sel.Start + firstInserted, End: sel.End + total},
	}
}

// ToggleHeading turns the line holding the cursor into a level-one heading
// unless it already starts with '#'. The cursor lands at the end of the line.
func ToggleHeading(b Buffer) Buffer {
	runes, sel := b.normalized()
	lineStart, lineEnd := lineBounds(runes, sel.Start, sel.Start)

	line := string(runes[lineStart:lineEnd])
	if !strings.HasPrefix(line, "#") {
		line = PrefixHeading + line
	}
	next := []rune(line)

	return Buffer{
		Text:      string(splice(runes, lineStart, lineEnd, next)),
		Selection: Cursor(lineStart + len(next)),
	}
}

// InsertCodeBlock replaces the selection (or a placeholder) with a fenced
// code block padded by blank lines. The cursor lands after the block.
func InsertCodeBlock(b Buffer) Buffer {
	runes, sel := b.normalized()

	selected := string(runes[sel.Start:sel.End])
	if selected == "" {
		selected = PlaceholderCode
	}
	block := []rune("\n\n```\n" + selected + "\n```\n\n")

	return Buffer{
		Text:      string(splice(runes, sel.Start, sel.End, block)),
		Selection: Cursor(sel.Start + len(block)),
	}
}

// InsertLink wraps the selection as a Markdown link to url.
// An empty url leaves the buffer unchanged.
func InsertLink(b Buffer, url string) Buffer {
	if url == "" {
		return b
	}
	return WrapSelection(b, "[", "]("+url+")", PlaceholderLink)
}

// InsertImage wraps the selection as a Markdown image pointing at url.
// An empty url leaves the buffer unchanged.
func InsertImage(b Buffer, url string) Buffer {
	if url == "" {
		return b
	}
	return WrapSelection(b, "![", "]("+url+")", PlaceholderImage)
}
