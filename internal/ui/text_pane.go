package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// paneActions are offered by the text pane context menu
var paneActions = []ContextAction{ActionCopy, ActionSelectAll}

// TextPane is a multi-line, read-only, selectable text view in a monospace
// font. Keys that would edit the text are swallowed; navigation, selection
// and copying keep working.
type TextPane struct {
	widget.Entry

	localization *Localization
}

var (
	_ EventHandler           = (*TextPane)(nil)
	_ fyne.SecondaryTappable = (*TextPane)(nil)
)

// NewTextPane creates an empty pane
func NewTextPane(localization *Localization) *TextPane {
	p := &TextPane{localization: localization}
	p.MultiLine = true
	p.Wrapping = fyne.TextWrapWord
	p.TextStyle = fyne.TextStyle{Monospace: true}
	p.ExtendBaseWidget(p)
	return p
}

// SetContent replaces the displayed text
func (p *TextPane) SetContent(text string) {
	p.Entry.SetText(text)
}

// Content returns the displayed text
func (p *TextPane) Content() string {
	return p.Entry.Text
}

// TypedRune ignores typed characters
func (p *TextPane) TypedRune(rune) {}

// TypedKey forwards navigation keys only
func (p *TextPane) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyUp, fyne.KeyDown, fyne.KeyLeft, fyne.KeyRight,
		fyne.KeyHome, fyne.KeyEnd, fyne.KeyPageUp, fyne.KeyPageDown:
		p.Entry.TypedKey(key)
	}
}

// TypedShortcut forwards copy and select all, dropping editing shortcuts
func (p *TextPane) TypedShortcut(shortcut fyne.Shortcut) {
	switch shortcut.(type) {
	case *fyne.ShortcutCopy, *fyne.ShortcutSelectAll:
		p.Entry.TypedShortcut(shortcut)
	}
}

// TappedSecondary opens the Copy / Select all menu
func (p *TextPane) TappedSecondary(event *fyne.PointEvent) {
	showContextMenu(p, event.AbsolutePosition, p.localization, -1, paneActions, p)
}

// OnSelect is a no-op; the pane has no items
func (p *TextPane) OnSelect(int) {}

// OnContextAction runs a context menu action
func (p *TextPane) OnContextAction(_ int, action ContextAction) {
	switch action {
	case ActionCopy:
		p.copyToClipboard()
	case ActionSelectAll:
		p.Entry.TypedShortcut(&fyne.ShortcutSelectAll{})
	}
}

// copyToClipboard copies the selection, or everything when nothing is selected
func (p *TextPane) copyToClipboard() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	text := p.Entry.SelectedText()
	if text == "" {
		text = p.Entry.Text
	}
	app.Clipboard().SetContent(text)
}
