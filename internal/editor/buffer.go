// Package editor implements the toolbar text transforms of the studio.
//
// Every command is a pure function from a Buffer (document text plus
// selection) to a new Buffer. Offsets are rune indexes into the text, so a
// client can translate them from any string encoding it uses.
package editor

// Selection is a half-open rune range [Start, End) into the document.
// An empty selection (Start == End) is a cursor.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the selection is a cursor.
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Buffer is the editing surface state: document text and its selection.
type Buffer struct {
	Text      string    `json:"text"`
	Selection Selection `json:"selection"`
}

// Cursor returns a Selection collapsed at pos.
func Cursor(pos int) Selection {
	return Selection{Start: pos, End: pos}
}

// normalized returns the buffer as runes together with a selection clamped
// to the text and ordered so that Start <= End.
func (b Buffer) normalized() ([]rune, Selection) {
	runes := []rune(b.Text)
	n := len(runes)

	start := clamp(b.Selection.Start, 0, n)
	end := clamp(b.Selection.End, 0, n)
	if start > end {
		start, end = end, start
	}
	return runes, Selection{Start: start, End: end}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lastIndexBefore returns the index of the last r in runes[:pos], or -1.
func lastIndexBefore(runes []rune, r rune, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// indexFrom returns the index of the first r in runes[pos:], or -1.
func indexFrom(runes []rune, r rune, pos int) int {
	for i := pos; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// lineBounds returns the start and end of the block of full lines covering
// [from, to]. end excludes the trailing newline.
func lineBounds(runes []rune, from, to int) (start, end int) {
	start = lastIndexBefore(runes, '\n', from) + 1
	end = indexFrom(runes, '\n', to)
	if end == -1 {
		end = len(runes)
	}
	return start, end
}

// splice replaces runes[start:end] with insert.
func splice(runes []rune, start, end int, insert []rune) []rune {
	out := make([]rune, 0, len(runes)-(end-start)+len(insert))
	out = append(out, runes[:start]...)
	out = append(out, insert...)
	out = append(out, runes[end:]...)
	return out
}
