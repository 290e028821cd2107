package clipboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// ErrInvalidStyle indicates a style override that is not a CSS declaration list.
var ErrInvalidStyle = errors.New("invalid style declarations")

// Style table keys that are not tag names.
const (
	KeyBase       = "base"
	KeyInline     = "inline"
	KeyInlineCode = "code"
	KeySection    = "section"
)

// Colors and fonts of the default table.
const (
	PrimaryColor   = "#0F4C81"
	BaseColor      = "hsl(0, 0%, 15%)"
	BaseFontFamily = `-apple-system-font, BlinkMacSystemFont, "Helvetica Neue", "PingFang SC", "Hiragino Sans GB", "Microsoft YaHei UI", "Microsoft YaHei", Arial, sans-serif`
	BaseFontSize   = "14px"
	BaseLineHeight = "1.75"
	MonoFontFamily = `Consolas, Monaco, "Courier New", monospace`
)

// Declaration is one CSS property assignment.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Declarations is an ordered list of CSS declarations with unique properties.
type Declarations []Declaration

// Set assigns value to property. An existing declaration keeps its position.
func (d Declarations) Set(property, value string) Declarations {
	return d.put(Declaration{Property: property, Value: value})
}

func (d Declarations) put(decl Declaration) Declarations {
	decl.Property = strings.ToLower(strings.TrimSpace(decl.Property))
	for i := range d {
		if d[i].Property == decl.Property {
			d[i] = decl
			return d
		}
	}
	return append(d, decl)
}

// Merge applies every declaration of other on top of d, in order.
func (d Declarations) Merge(other Declarations) Declarations {
	for _, decl := range other {
		d = d.put(decl)
	}
	return d
}

// Get returns the value of property.
func (d Declarations) Get(property string) (string, bool) {
	for _, decl := range d {
		if decl.Property == property {
			return decl.Value, true
		}
	}
	return "", false
}

// Clone returns a copy that can be modified independently.
func (d Declarations) Clone() Declarations {
	if d == nil {
		return nil
	}
	return append(Declarations(nil), d...)
}

// String serializes the list the way a browser writes a style attribute.
func (d Declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, decl := range d {
		s := decl.Property + ": " + decl.Value
		if decl.Important {
			s += " !important"
		}
		parts = append(parts, s+";")
	}
	return strings.Join(parts, " ")
}

// ParseDeclarations parses a style attribute or declaration list such as
// "color: red; margin: 0".
func ParseDeclarations(s string) (Declarations, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parsed, err := parser.ParseDeclarations(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}
	var out Declarations
	for _, decl := range parsed {
		if decl == nil || strings.TrimSpace(decl.Property) == "" {
			continue
		}
		out = out.put(Declaration{
			Property:  decl.Property,
			Value:     strings.TrimSpace(decl.Value),
			Important: decl.Important,
		})
	}
	return out, nil
}

// StyleTable holds the inline styles applied to copied HTML.
type StyleTable struct {
	// Base is applied to every element first.
	Base Declarations
	// Inline is applied to strong, em, code, a, span, b and i.
	Inline Declarations
	// InlineCode is applied to code elements outside pre.
	InlineCode Declarations
	// Section styles the wrapping <section>.
	Section Declarations
	// Tags holds per-element rules, applied after Inline.
	Tags map[string]Declarations
}

// DefaultStyleTable returns the built-in styles, tuned for pasting into
// rich-text editors that drop stylesheets.
func DefaultStyleTable() StyleTable {
	d := func(pairs ...string) Declarations {
		var out Declarations
		for i := 0; i+1 < len(pairs); i += 2 {
			out = out.Set(pairs[i], pairs[i+1])
		}
		return out
	}

	heading := d("margin-top", "1em", "margin-bottom", "0.5em", "font-weight", "bold", "color", BaseColor)
	cell := d("border", "1px solid #dfe2e5", "padding", "6px 13px")

	return StyleTable{
		Base:   d("font-family", BaseFontFamily, "line-height", BaseLineHeight, "text-align", "left", "font-size", BaseFontSize),
		Inline: d("font-size", "inherit", "display", "inline"),
		InlineCode: d(
			"font-family", MonoFontFamily,
			"font-size", "90%",
			"color", "#d14",
			"background-color", "rgba(27,31,35,0.05)",
			"padding", "3px 5px",
			"border-radius", "4px",
		),
		Section: d("font-family", BaseFontFamily, "font-size", BaseFontSize, "line-height", BaseLineHeight, "text-align", "left"),
		Tags: map[string]Declarations{
			"strong": d("font-weight", "bold", "color", PrimaryColor),
			"b":      d("font-weight", "bold", "color", PrimaryColor),
			"em":     d("font-style", "italic"),
			"i":      d("font-style", "italic"),
			"pre": d(
				"background-color", "#22272e",
				"color", "#e6edf3",
				"padding", "16px",
				"border-radius", "6px",
				"overflow", "auto",
				"font-size", BaseFontSize,
			),
			"p":  d("text-align", "justify", "margin", "1.5em 8px", "letter-spacing", "0.1em", "font-size", BaseFontSize),
			"h1": heading.Clone(),
			"h2": heading.Clone(),
			"h3": heading.Clone(),
			"h4": heading.Clone(),
			"h5": heading.Clone(),
			"h6": heading.Clone(),
			"li": d(
				"text-indent", "-1em",
				"display", "block",
				"margin", "0.2em 8px",
				"color", BaseColor,
				"white-space", "normal",
				"word-break", "normal",
			),
			"ul": d(
				"list-style", "none",
				"padding-left", "1em",
				"margin-left", "0",
				"color", BaseColor,
				"margin-top", "0.5em",
				"margin-bottom", "0.5em",
			),
			"ol": d(
				"padding-left", "1em",
				"margin-left", "0",
				"font-size", BaseFontSize,
				"margin-top", "0.5em",
				"margin-bottom", "0.5em",
			),
			"blockquote": d("border-left", "4px solid #dfe2e5", "padding-left", "1em", "margin-left", "0", "color", "#6a737d"),
			"table":      d("border-collapse", "collapse", "width", "100%", "margin-top", "1em", "margin-bottom", "1em"),
			"th":         cell.Clone().Merge(d("font-weight", "bold", "background-color", "#f6f8fa")),
			"td":         cell.Clone(),
		},
	}
}

// Clone returns a deep copy of the table.
func (t StyleTable) Clone() StyleTable {
	out := StyleTable{
		Base:       t.Base.Clone(),
		Inline:     t.Inline.Clone(),
		InlineCode: t.InlineCode.Clone(),
		Section:    t.Section.Clone(),
		Tags:       make(map[string]Declarations, len(t.Tags)),
	}
	for k, v := range t.Tags {
		out.Tags[k] = v.Clone()
	}
	return out
}

// WithOverrides returns a copy of t where each entry of overrides, a CSS
// declaration list keyed by tag name or by one of KeyBase, KeyInline,
// KeyInlineCode and KeySection, is merged over the matching rule. Keys are
// applied in sorted order so errors are reported deterministically.
func (t StyleTable) WithOverrides(overrides map[string]string) (StyleTable, error) {
	out := t.Clone()

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		decls, err := ParseDeclarations(overrides[key])
		if err != nil {
			return StyleTable{}, fmt.Errorf("style %q: %w", key, err)
		}
		name := strings.ToLower(strings.TrimSpace(key))
		switch name {
		case "":
			return StyleTable{}, fmt.Errorf("%w: empty style key", ErrInvalidStyle)
		case KeyBase:
			out.Base = out.Base.Merge(decls)
		case KeyInline:
			out.Inline = out.Inline.Merge(decls)
		case KeyInlineCode:
			out.InlineCode = out.InlineCode.Merge(decls)
		case KeySection:
			out.Section = out.Section.Merge(decls)
		default:
			out.Tags[name] = out.Tags[name].Merge(decls)
		}
	}
	return out, nil
}
