// Package mdstudio is a Markdown editing studio: a document bound to a live
// preview, toolbar shortcuts, autosave, theme toggling, import and export,
// and a clipboard path that produces HTML which survives pasting into
// editors that strip stylesheets.
//
// # Quick Start
//
// Create a studio, load the saved state, edit, and close when done:
//
//	st, err := mdstudio.New(mdstudio.WithStore(db))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	st.Load(ctx)
//	st.Edit("# Hello\n\nWorld", editor.Cursor(0))
//
//	pv, err := st.Preview(ctx)
//	fmt.Println(pv.HTML)
//
// # Change Path
//
// Every mutation (Edit, Apply, Reset, Clear, Import) follows the same path:
//
//  1. the previous buffer is pushed on the undo history
//  2. the new buffer replaces the document wholesale
//  3. the autosave scheduler is restarted with the new text
//
// The preview is not cached; Preview renders the current document on demand
// and is a pure function of it.
//
// # Clipboard
//
// Copy renders the preview, inlines the style table into every element and
// tries the configured clipboard strategies in order:
//
//	res, err := st.Copy(ctx)
//	if errors.Is(err, clipboard.ErrCopyFailed) {
//	    // st.CopyStatus() == clipboard.StatusFailed
//	}
//
// ClipboardPayload returns the same HTML and plain text without touching the
// system clipboard, for clients that write it themselves.
//
// # Printing
//
// Print wraps the preview in a standalone page with the print stylesheet and
// renders it through headless Chrome. Browsers are launched on the first
// print only.
//
// # Concurrency
//
// A Studio is safe for concurrent use. Mutations are serialized by a mutex;
// rendering, copying and printing work on a snapshot of the document and do
// not block edits.
package mdstudio
