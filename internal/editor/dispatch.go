package editor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction indicates an action identifier with no text transform.
var ErrUnknownAction = errors.New("unknown toolbar action")

// Action identifies a toolbar button.
type Action string

// Text transform actions handled by Dispatch.
const (
	ActionBold    Action = "bold"
	ActionItalic  Action = "italic"
	ActionHeading Action = "heading"
	ActionQuote   Action = "quote"
	ActionCode    Action = "code"
	ActionUL      Action = "ul"
	ActionOL      Action = "ol"
	ActionLink    Action = "link"
	ActionImage   Action = "image"
)

// Document-level actions routed by the studio rather than Dispatch.
const (
	ActionNew    Action = "new"
	ActionImport Action = "import"
	ActionExport Action = "export"
	ActionUndo   Action = "undo"
	ActionRedo   Action = "redo"
	ActionTheme  Action = "theme"
	ActionPrint  Action = "print"
)

// Args carries the extra input some actions prompt the user for.
type Args struct {
	URL string `json:"url,omitempty"`
	// Confirm answers the confirmation prompt of ActionNew.
	Confirm bool `json:"confirm,omitempty"`
}

// ParseAction converts a toolbar data-action value to an Action.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseAction(s string) Action {
	return Action(strings.ToLower(strings.TrimSpace(s)))
}

// IsTextAction reports whether Dispatch handles a.
func IsTextAction(a Action) bool {
	switch a {
	case ActionBold, ActionItalic, ActionHeading, ActionQuote, ActionCode,
		ActionUL, ActionOL, ActionLink, ActionImage:
		return true
	}
	return false
}

// Dispatch applies the text transform for action to b.
// Returns ErrUnknownAction for document-level or unrecognized actions.
func Dispatch(action Action, b Buffer, args Args) (Buffer, error) {
	switch action {
	case ActionBold:
		return WrapSelection(b, "**", "**", PlaceholderText), nil
	case ActionItalic:
		return WrapSelection(b, "*", "*", PlaceholderText), nil
	case ActionHeading:
		return ToggleHeading(b), nil
	case ActionQuote:
		return PrefixLines(b, PrefixQuote), nil
	case ActionCode:
		return InsertCodeBlock(b), nil
	case ActionUL:
		return PrefixLines(b, PrefixUnordered), nil
	case ActionOL:
		return PrefixLines(b, PrefixOrdered), nil
	case ActionLink:
		return InsertLink(b, strings.TrimSpace(args.URL)), nil
	case ActionImage:
		return InsertImage(b, strings.TrimSpace(args.URL)), nil
	default:
		return b, fmt.Errorf("%w: %q", ErrUnknownAction, string(action))
	}
}
