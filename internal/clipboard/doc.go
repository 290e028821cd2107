// Package clipboard prepares rendered Markdown for pasting into rich-text
// editors that discard stylesheets, and delivers it to the system clipboard.
//
// Normalize inlines a fixed style table into every element of a preview
// fragment. PlainText extracts the fallback representation. A Copier tries
// an ordered list of Strategy implementations until one succeeds and exposes
// a short-lived status describing the outcome.
package clipboard
