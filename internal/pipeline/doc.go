// Package pipeline turns Markdown documents into preview HTML.
//
// Stages:
//   - front matter splitting (a leading "---" block, parsed as YAML metadata)
//   - Markdown preprocessing (line endings, ==highlight==, blank lines)
//   - Markdown to HTML fragment conversion via Goldmark
//   - print document assembly (template, relative paths, CSS injection)
//
// Scroll synchronization between the editor and preview panes is computed
// here too, since it only depends on pane metrics.
package pipeline
