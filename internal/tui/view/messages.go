package view

import (
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/parser"
)

// SelectionMsg is emitted by any visualizer when the user lands on a
// node: the path, the value found there, and the key or index label.
type SelectionMsg struct {
	Path  docpath.Path
	Value models.Value
	Key   string
}

// SetDocumentMsg broadcasts a freshly parsed document to every view.
// Fingerprint is a structural hash of the value: views drop their
// per-document state (expansion, sort, filter) only when it changes, so
// reformatting the same document keeps the UI state.
type SetDocumentMsg struct {
	Doc         models.Value
	Raw         string
	Fingerprint uint64
}

// ParseFailedMsg broadcasts a failed parse. The session stays open; views
// that render the document show the raw text with the error line marked.
type ParseFailedMsg struct {
	Raw string
	Err *parser.ParseError
}

// DocumentEditedMsg asks the app to re-parse edited raw text. The input
// view emits it after its debounce quiet period, or immediately after a
// repair run.
type DocumentEditedMsg struct {
	Text string
}

// RepairRanMsg carries the records of an explicit repair run so they can
// be logged and surfaced.
type RepairRanMsg struct {
	Records []string
}

// NavigateToMsg switches the active view.
type NavigateToMsg struct {
	ViewName string
}

// StatusMsg puts a transient line in the status bar.
type StatusMsg struct {
	Text string
}
