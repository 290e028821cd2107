package editor

// DefaultHistoryLimit bounds the number of undo snapshots kept.
const DefaultHistoryLimit = 100

// History is a bounded undo/redo stack of whole-buffer snapshots.
// It is not safe for concurrent use; the owner serializes access.
type History struct {
	limit int
	undo  []Buffer
	redo  []Buffer
}

// NewHistory creates a History keeping at most limit undo snapshots.
// limit <= 0 uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record stores prev as the state to return to on Undo and clears the redo stack.
func (h *History) Record(prev Buffer) {
	h.undo = append(h.undo, prev)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
}

// Undo returns the previous snapshot, pushing current onto the redo stack.
// ok is false when there is nothing to undo.
func (h *History) Undo(current Buffer) (Buffer, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo re-applies the last undone snapshot, pushing current onto the undo stack.
// ok is false when there is nothing to redo.
func (h *History) Redo(current Buffer) (Buffer, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// Len returns the number of undo and redo snapshots held.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
