package pipeline

// Metrics describes a scrollable pane.
type Metrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// Range is the distance the pane can scroll.
func (m Metrics) Range() float64 {
	return m.ScrollHeight - m.ClientHeight
}

// Ratio returns how far the pane is scrolled, in [0, 1].
// A pane that cannot scroll reports 0.
func (m Metrics) Ratio() float64 {
	r := m.Range()
	if r <= 0 {
		return 0
	}
	ratio := m.ScrollTop / r
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	}
	return ratio
}

// SyncTop returns the scroll position that puts preview at the same relative
// position as editor.
func SyncTop(editor, preview Metrics) float64 {
	r := preview.Range()
	if r <= 0 {
		return 0
	}
	return r * editor.Ratio()
}

// Ratio is Metrics{top, scrollHeight, clientHeight}.Ratio().
func Ratio(top, scrollHeight, clientHeight float64) float64 {
	return Metrics{ScrollTop: top, ScrollHeight: scrollHeight, ClientHeight: clientHeight}.Ratio()
}
