// Package ui contains the Fyne desktop interface of the browser. RootUI
// renders controller snapshots into a collection list, a chunk tree and two
// read-only text panes, and runs remote actions on a worker goroutine one at
// a time. All UI strings are localized via Localization.
package ui
